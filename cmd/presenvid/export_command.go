package main

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"presenvid/internal/assembly"
	"presenvid/internal/staging"
	"presenvid/internal/store"
)

// Work directories left behind by a crashed export are reclaimed on the
// next export once they are this old.
const staleWorkDirAge = 24 * time.Hour

func newExportCommand(ctx *commandContext) *cobra.Command {
	var formatFlag string

	cmd := &cobra.Command{
		Use:   "export <id> <output-file>",
		Short: "Render a presentation into a video file",
		Long: `Render a presentation into a video: each slide becomes a clip of its image
over the selected take, the clips are concatenated in deck order, and the
last slide lingers for five silent seconds. Every slide must have at least
one recorded take.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parsePresentationID(args[0])
			if err != nil {
				return err
			}
			outputPath := args[1]

			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			format, err := ctx.exportFormat(cfg, formatFlag)
			if err != nil {
				return err
			}

			return ctx.withRepository(func(repo store.Repository) error {
				p, err := repo.Get(cmd.Context(), id)
				if err != nil {
					return err
				}
				if !p.ExportReady() {
					return fmt.Errorf("presentation %d is not ready to export: every slide needs at least one recorded take", id)
				}

				staging.CleanStale(cfg.Paths.StagingDir, staleWorkDirAge, ctx.ensureLogger())

				result, err := ctx.assembler(cfg).Assemble(cmd.Context(), assembly.RequestFrom(p, format))
				if err != nil {
					return err
				}
				if err := os.WriteFile(outputPath, result.Data, 0o644); err != nil {
					return fmt.Errorf("write video file: %w", err)
				}
				ctx.rememberExportFormat(format)

				if ctx.JSONMode() {
					return writeJSON(cmd, map[string]any{
						"id":         id,
						"output":     outputPath,
						"format":     string(format),
						"mime_type":  result.MIMEType,
						"size_bytes": len(result.Data),
					})
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s (%s, %s)\n",
					outputPath, result.MIMEType, formatBytes(int64(len(result.Data))))
				return nil
			})
		},
	}

	cmd.Flags().StringVarP(&formatFlag, "format", "f", "", "Output container format (mp4 or webm)")
	return cmd
}
