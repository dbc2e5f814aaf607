package cli

import (
	"github.com/spf13/cobra"

	"github.com/k8s-cicd/deployctl/internal/config"
)

// newStatusCommand creates the "status" subcommand that shows deployment status.
func newStatusCommand(opts *Options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "status",
		Short: "Show status of deployments, services and pods",
		RunE: func(cmd *cobra.Command, _ []string) error {
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

			session, err := newSession(cfg, opts)
			if err != nil {
				return err
			}

			watch, _ := cmd.Flags().GetBool("watch")
			return session.Status(cmd.Context(), namespace, watch)
		},
	}

	cmd.Flags().Bool("watch", false, "Watch status changes continuously")

	return cmd
}
