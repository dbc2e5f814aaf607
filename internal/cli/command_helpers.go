package cli

import (
	"fmt"
	"log/slog"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/k8s-cicd/deployctl/internal/config"
	"github.com/k8s-cicd/deployctl/internal/hooks"
	"github.com/k8s-cicd/deployctl/internal/kube"
	"github.com/k8s-cicd/deployctl/internal/logging"
	"github.com/k8s-cicd/deployctl/internal/values"
)

// Well-known value keys shared between rendering, hooks and the workload spec.
const (
	keyAppName   = "APP_NAME"
	keyNamespace = "NAMESPACE"
	keyImage     = "IMAGE"
	keyReplicas  = "REPLICAS"
)

// resolveValues builds the value set for a command from the --values source
// file and inline --vars overrides, then validates the configured required keys.
func resolveValues(cmd *cobra.Command, cfg *config.PipelineConfig, valuesPath string) (values.Set, error) {
	vals := values.Set{}
	if valuesPath != "" {
		resolved, err := values.Resolve(valuesPath)
		if err != nil {
			return nil, err
		}
		vals = resolved
	}

	inline, err := values.ParseInline(cmd.Flag("vars").Value.String())
	if err != nil {
		return nil, err
	}
	if len(inline) > 0 {
		vals = values.Merge(vals, inline)
	}

	if cfg != nil && len(cfg.RequiredValues) > 0 {
		if err := vals.Require(cfg.RequiredValues...); err != nil {
			return nil, err
		}
	}
	return vals, nil
}

// resolveNamespace picks the target namespace: explicit flag first, then the
// values source, then the environment default.
func resolveNamespace(opts *Options, vals values.Set, envCfg config.Environment) string {
	if opts.Namespace != "" {
		return opts.Namespace
	}
	if ns := vals[keyNamespace]; ns != "" {
		return ns
	}
	return envCfg.Namespace
}

// resolveApp picks the workload name: the values source wins over the config default.
func resolveApp(cfg *config.PipelineConfig, vals values.Set) string {
	if app := vals[keyAppName]; app != "" {
		return app
	}
	return cfg.App
}

// resolveReplicas parses the replica count from the value set, defaulting to 1.
func resolveReplicas(vals values.Set) (int, error) {
	raw, ok := vals[keyReplicas]
	if !ok || raw == "" {
		return 1, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 0 {
		return 0, fmt.Errorf("invalid %s value %q: expected a non-negative integer", keyReplicas, raw)
	}
	return n, nil
}

// newSession builds the cluster session for the selected environment.
func newSession(cfg *config.PipelineConfig, opts *Options) (*kube.Session, error) {
	envCfg, err := config.ResolveEnvironment(cfg, opts.Env)
	if err != nil {
		return nil, err
	}
	return kube.NewSession(envCfg.Kubeconfig, envCfg.Context), nil
}

// newHookRunner builds the task list runner from the pipeline hook settings.
// Engine output is streamed through the structured logger as it is produced.
func newHookRunner(cfg *config.PipelineConfig, logger *slog.Logger) *hooks.ExecRunner {
	runner := hooks.NewExecRunner(cfg.Hooks.Engine, cfg.HooksDir(), cfg.InventoryPath(), logger)
	runner.Stream = logging.NewWriter(logger, "hooks")
	return runner
}

// addValuesFlags registers the flags shared by commands that consume a values source.
func addValuesFlags(cmd *cobra.Command, opts *Options) {
	cmd.Flags().StringP("values", "f", opts.ValuesPath, "Path to key=value values source file")
	cmd.Flags().String("vars", "", "Additional values in k=v,k2=v2 format")
}
