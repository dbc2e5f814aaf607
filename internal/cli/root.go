// Package cli defines the command-line interface for deployctl.
package cli

import (
	"context"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/k8s-cicd/deployctl/internal/logging"
)

const (
	// defaultConfigPath is the default path to the pipeline configuration file.
	defaultConfigPath = "deploy.yaml"
)

// Options stores global CLI options shared between commands.
type Options struct {
	ConfigPath string
	Env        string
	Namespace  string
	ValuesPath string
	LogLevel   logging.Level
}

// Execute builds the root command, runs it with the provided args and logger, and returns any error.
func Execute(args []string, logger *slog.Logger) error {
	if logger == nil {
		logger = logging.NewLogger(os.Stderr, logging.LevelInfo)
	}

	rootOpts := &Options{
		ConfigPath: defaultConfigPath,
		LogLevel:   logging.LevelInfo,
	}
	applyEnvDefaults(rootOpts, logger)

	rootCmd := newRootCommand(rootOpts, logger)
	rootCmd.SetArgs(args)

	return rootCmd.Execute()
}

// newRootCommand constructs the root cobra.Command with global flags and subcommands.
func newRootCommand(opts *Options, logger *slog.Logger) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "deployctl",
		Short: "deployctl renders, applies and verifies Kubernetes workload deployments",
		Long:  "deployctl is a deployment pipeline orchestrator: it renders templated manifests from a values source, wraps kubectl apply with pre- and post-deploy task lists, and rolls back to the previous revision when a deployment fails.",
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			level := logging.ParseLevel(cmd.Flag("log-level").Value.String())
			opts.LogLevel = level
			logger = logging.NewLogger(os.Stderr, level)
			cmd.SetContext(context.WithValue(cmd.Context(), loggerKey{}, logger))
			logger.Debug("logger initialized", "level", level)
			return nil
		},
	}

	cmd.PersistentFlags().StringVarP(&opts.ConfigPath, "config", "c", opts.ConfigPath, "Path to deploy.yaml configuration file")
	cmd.PersistentFlags().StringVar(&opts.Env, "env", opts.Env, "Environment name (e.g. dev, staging, prod)")
	cmd.PersistentFlags().StringVarP(&opts.Namespace, "namespace", "n", opts.Namespace, "Target Kubernetes namespace override")
	cmd.PersistentFlags().String("log-level", "info", "Log level (debug, info, warn, error)")

	cmd.AddCommand(
		newRenderCommand(opts),
		newApplyCommand(opts),
		newDeployCommand(opts),
		newRollbackCommand(opts),
		newStatusCommand(opts),
		newRunHooksCommand(opts),
		newDoctorCommand(opts),
	)

	return cmd
}

// loggerKey is a private context key used to store a logger in command contexts.
type loggerKey struct{}

// LoggerFromContext extracts a logger from the context or falls back to a default logger.
func LoggerFromContext(ctx context.Context) *slog.Logger {
	if ctx == nil {
		return logging.NewLogger(os.Stderr, logging.LevelInfo)
	}
	if l, ok := ctx.Value(loggerKey{}).(*slog.Logger); ok && l != nil {
		return l
	}
	return logging.NewLogger(os.Stderr, logging.LevelInfo)
}
