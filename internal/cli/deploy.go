package cli

import (
	"context"
	"time"

	"github.com/spf13/cobra"

	"github.com/k8s-cicd/deployctl/internal/config"
	"github.com/k8s-cicd/deployctl/internal/kube"
	"github.com/k8s-cicd/deployctl/internal/orchestrator"
	"github.com/k8s-cicd/deployctl/internal/render"
	"github.com/k8s-cicd/deployctl/internal/values"
)

// newDeployCommand creates the "deploy" subcommand that runs the full
// pre-check, apply, verify, rollback pipeline. The exit code reflects the
// final attempt status: zero only when the deployment succeeded.
func newDeployCommand(opts *Options) *cobra.Command {
	var rolloutTimeout time.Duration
	var noRollback bool

	cmd := &cobra.Command{
		Use:   "deploy",
		Short: "Deploy the application: pre-checks, apply, rollout verification, rollback on failure",
		RunE: func(cmd *cobra.Command, _ []string) error {
			logger := LoggerFromContext(cmd.Context())

			cfg, err := config.Load(opts.ConfigPath)
			if err != nil {
				return err
			}

			valuesPath := cmd.Flag("values").Value.String()
			vals, err := resolveValues(cmd, cfg, valuesPath)
			if err != nil {
				return err
			}

			envCfg, err := config.ResolveEnvironment(cfg, opts.Env)
			if err != nil {
				return err
			}
			namespace := resolveNamespace(opts, vals, envCfg)
			app := resolveApp(cfg, vals)
			replicas, err := resolveReplicas(vals)
			if err != nil {
				return err
			}

			// Hooks receive the same variable set used for rendering, with
			// the resolved namespace and app name folded in.
			vals = values.Merge(vals, values.Set{keyAppName: app, keyNamespace: namespace})

			templates, err := render.LoadDir(cfg.TemplatePath())
			if err != nil {
				return err
			}

			timeout := cfg.RolloutTimeout()
			if cmd.Flags().Changed("timeout") {
				timeout = rolloutTimeout
			}

			session := kube.NewSession(envCfg.Kubeconfig, envCfg.Context)
			runner := newHookRunner(cfg, logger)
			orch := orchestrator.New(session, runner, render.NewRenderer(logger), logger)

			ctx, cancel := context.WithTimeout(cmd.Context(), cfg.DeployTimeout())
			defer cancel()

			attempt, err := orch.Deploy(ctx, orchestrator.Spec{
				App:             app,
				Namespace:       namespace,
				Image:           vals[keyImage],
				Replicas:        replicas,
				Templates:       templates,
				Values:          vals,
				OutputDir:       cfg.OutputPath(),
				PreCheck:        cfg.Hooks.PreDeploy,
				PostCheck:       cfg.Hooks.PostDeploy,
				RolloutTimeout:  timeout,
				DisableRollback: noRollback,
			})

			printDeploySummary(cmd.OutOrStdout(), attempt, err)
			return err
		},
	}

	addValuesFlags(cmd, opts)
	cmd.Flags().DurationVar(&rolloutTimeout, "timeout", config.DefaultRolloutTimeout, "Rollout readiness timeout")
	cmd.Flags().BoolVar(&noRollback, "no-rollback", false, "Do not roll back automatically when apply or post-checks fail")

	return cmd
}
