package cli

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/k8s-cicd/deployctl/internal/config"
)

// newRunHooksCommand creates the "run-hooks" subcommand that executes an
// arbitrary task list with the resolved variable set.
func newRunHooksCommand(opts *Options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run-hooks TASK_LIST",
		Short: "Run a named task list with the resolved values",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := LoggerFromContext(cmd.Context())

			cfg, err := config.Load(opts.ConfigPath)
			if err != nil {
				return err
			}

			valuesPath := cmd.Flag("values").Value.String()
			vals, err := resolveValues(cmd, nil, valuesPath)
			if err != nil {
				return err
			}

			runner := newHookRunner(cfg, logger)

			ctx, cancel := context.WithTimeout(cmd.Context(), cfg.DeployTimeout())
			defer cancel()

			taskList := args[0]
			logger.Info("running task list", "taskList", taskList)
			if err := runner.Run(ctx, taskList, vals); err != nil {
				return err
			}

			logger.Info("task list completed", "taskList", taskList)
			return nil
		},
	}

	addValuesFlags(cmd, opts)

	return cmd
}
