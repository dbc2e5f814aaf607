package cli

import (
	"log/slog"

	envparse "github.com/caarlos0/env/v11"

	"github.com/k8s-cicd/deployctl/internal/logging"
)

// baseEnv defines root CLI defaults sourced from DEPLOYCTL_* env vars.
type baseEnv struct {
	// ConfigPath is the deploy.yaml path from DEPLOYCTL_CONFIG.
	ConfigPath string `env:"DEPLOYCTL_CONFIG"`
	// Env is the environment name from DEPLOYCTL_ENV.
	Env string `env:"DEPLOYCTL_ENV"`
	// Namespace is the namespace override from DEPLOYCTL_NAMESPACE.
	Namespace string `env:"DEPLOYCTL_NAMESPACE"`
	// ValuesPath is the values source path from DEPLOYCTL_VALUES.
	ValuesPath string `env:"DEPLOYCTL_VALUES"`
	// LogLevel is the logging level from DEPLOYCTL_LOG_LEVEL.
	LogLevel string `env:"DEPLOYCTL_LOG_LEVEL"`
}

// applyEnvDefaults fills unset Options fields from DEPLOYCTL_* env vars.
func applyEnvDefaults(opts *Options, logger *slog.Logger) {
	var defaults baseEnv
	if err := envparse.Parse(&defaults); err != nil {
		logger.Warn("failed to parse DEPLOYCTL_* environment defaults", "error", err)
		return
	}

	if defaults.ConfigPath != "" {
		opts.ConfigPath = defaults.ConfigPath
	}
	if defaults.Env != "" {
		opts.Env = defaults.Env
	}
	if defaults.Namespace != "" {
		opts.Namespace = defaults.Namespace
	}
	if defaults.ValuesPath != "" {
		opts.ValuesPath = defaults.ValuesPath
	}
	if defaults.LogLevel != "" {
		opts.LogLevel = logging.ParseLevel(defaults.LogLevel)
	}
}
