package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/k8s-cicd/deployctl/internal/config"
	"github.com/k8s-cicd/deployctl/internal/orchestrator"
)

// newRollbackCommand creates the "rollback" subcommand that reverts the
// workload to its previous revision.
func newRollbackCommand(opts *Options) *cobra.Command {
	var app string

	cmd := &cobra.Command{
		Use:   "rollback",
		Short: "Roll back the workload to its previous revision",
		RunE: func(cmd *cobra.Command, _ []string) error {
			logger := LoggerFromContext(cmd.Context())

			cfg, err := config.Load(opts.ConfigPath)
			if err != nil {
				return err
			}

			envCfg, err := config.ResolveEnvironment(cfg, opts.Env)
			if err != nil {
				return err
			}

			namespace := opts.Namespace
			if namespace == "" {
				namespace = envCfg.Namespace
			}
			if namespace == "" {
				return fmt.Errorf("a target namespace is required: pass --namespace or configure one for the environment")
			}

			workload := app
			if workload == "" {
				workload = cfg.App
			}

			session, err := newSession(cfg, opts)
			if err != nil {
				return err
			}
			orch := orchestrator.New(session, nil, nil, logger)

			ctx, cancel := context.WithTimeout(cmd.Context(), 5*time.Minute)
			defer cancel()

			if err := orch.Rollback(ctx, namespace, workload); err != nil {
				return err
			}

			logger.Info("rollback complete", "namespace", namespace, "workload", workload)
			return nil
		},
	}

	cmd.Flags().StringVar(&app, "app", "", "Workload name to roll back (defaults to the configured app)")

	return cmd
}
