package cli

import (
	"context"
	"fmt"
	"log/slog"
	"os/exec"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/k8s-cicd/deployctl/internal/config"
	"github.com/k8s-cicd/deployctl/internal/hooks"
)

// newDoctorCommand creates the "doctor" subcommand that runs environment preflight checks.
func newDoctorCommand(opts *Options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "doctor",
		Short: "Check that the tools the pipeline depends on are available",
		RunE: func(cmd *cobra.Command, _ []string) error {
			logger := LoggerFromContext(cmd.Context())

			cfg, err := config.Load(opts.ConfigPath)
			if err != nil {
				return err
			}

			ctx, cancel := context.WithTimeout(cmd.Context(), 2*time.Minute)
			defer cancel()

			if err := runDoctorChecks(ctx, logger, cfg); err != nil {
				return err
			}

			logger.Info("doctor checks completed successfully")
			return nil
		},
	}

	return cmd
}

// runDoctorChecks verifies the external tools the pipeline shells out to.
func runDoctorChecks(ctx context.Context, logger *slog.Logger, cfg *config.PipelineConfig) error {
	if logger == nil {
		logger = slog.Default()
	}

	engine := cfg.Hooks.Engine
	if engine == "" {
		engine = hooks.DefaultCommand
	}
	required := []string{"kubectl", engine}

	var missing []string
	for _, tool := range required {
		if _, err := exec.LookPath(tool); err != nil {
			logger.Error("doctor check failed: missing required tool", "tool", tool, "error", err)
			missing = append(missing, tool)
			continue
		}
		logger.Info("doctor check ok", "tool", tool)
	}

	if len(missing) > 0 {
		return fmt.Errorf("required tools missing from PATH: %s", strings.Join(missing, ", "))
	}

	if err := exec.CommandContext(ctx, "kubectl", "version", "--client").Run(); err != nil {
		return fmt.Errorf("kubectl version check failed: %w", err)
	}
	logger.Info("kubectl version check ok")

	return nil
}
