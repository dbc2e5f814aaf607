package cli

import (
	"github.com/spf13/cobra"

	"github.com/k8s-cicd/deployctl/internal/config"
	"github.com/k8s-cicd/deployctl/internal/render"
)

// newRenderCommand creates the "render" subcommand that renders manifest templates.
func newRenderCommand(opts *Options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "render",
		Short: "Render manifest templates with values from a values source",
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

			templates, err := render.LoadDir(cfg.TemplatePath())
			if err != nil {
				return err
			}

			outputDir := cmd.Flag("output").Value.String()
			if outputDir == "" {
				outputDir = cfg.OutputPath()
			}

			manifests, err := render.NewRenderer(logger).RenderAll(templates, vals, outputDir)
			if err != nil {
				return err
			}

			for _, m := range manifests {
				logger.Info("rendered manifest", "name", m.Name, "path", m.Path)
			}
			logger.Info("render complete", "count", len(manifests), "outputDir", outputDir)
			return nil
		},
	}

	addValuesFlags(cmd, opts)
	cmd.Flags().StringP("output", "o", "", "Output directory for rendered manifests (defaults to the configured outputDir)")

	return cmd
}
