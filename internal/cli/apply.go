package cli

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/k8s-cicd/deployctl/internal/config"
	"github.com/k8s-cicd/deployctl/internal/kube"
	"github.com/k8s-cicd/deployctl/internal/render"
)

// newApplyCommand creates the "apply" subcommand that renders and applies
// manifests without hooks or automatic rollback.
func newApplyCommand(opts *Options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "apply",
		Short: "Render manifests and apply them to the cluster",
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

			templates, err := render.LoadDir(cfg.TemplatePath())
			if err != nil {
				return err
			}

			manifests, err := render.NewRenderer(logger).RenderAll(templates, vals, cfg.OutputPath())
			if err != nil {
				return err
			}

			session := kube.NewSession(envCfg.Kubeconfig, envCfg.Context)

			ctx, cancel := context.WithTimeout(cmd.Context(), cfg.DeployTimeout())
			defer cancel()

			logger.Info("applying manifests", "namespace", namespace, "count", len(manifests))
			if err := session.Apply(ctx, manifests); err != nil {
				return err
			}

			wait, _ := cmd.Flags().GetBool("wait")
			if wait {
				app := resolveApp(cfg, vals)
				logger.Info("waiting for rollout", "namespace", namespace, "workload", app)
				if err := session.WaitForRollout(ctx, namespace, app, cfg.RolloutTimeout()); err != nil {
					return err
				}
			}

			logger.Info("apply complete", "namespace", namespace)
			return nil
		},
	}

	addValuesFlags(cmd, opts)
	cmd.Flags().Bool("wait", false, "Wait for the workload rollout to become ready")

	return cmd
}
