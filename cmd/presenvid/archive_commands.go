package main

import (
	"bytes"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"presenvid/internal/archive"
	"presenvid/internal/store"
)

func newArchiveCommand(ctx *commandContext) *cobra.Command {
	archiveCmd := &cobra.Command{
		Use:   "archive",
		Short: "Move presentations and slides between machines as bundles",
	}

	archiveCmd.AddCommand(newArchiveExportCommand(ctx))
	archiveCmd.AddCommand(newArchiveImportCommand(ctx))

	return archiveCmd
}

func newArchiveExportCommand(ctx *commandContext) *cobra.Command {
	var slideUID string

	cmd := &cobra.Command{
		Use:   "export <id> <file>",
		Short: "Write a presentation (or one slide) as a bundle file",
		Long: `Write a presentation as a portable bundle file, conventionally named
<title>.pvm. With --slide, only that slide is written as a .slide bundle
that can be imported into another presentation.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parsePresentationID(args[0])
			if err != nil {
				return err
			}
			outputPath := args[1]

			return ctx.withRepository(func(repo store.Repository) error {
				p, err := repo.Get(cmd.Context(), id)
				if err != nil {
					return err
				}

				var buf bytes.Buffer
				if slideUID != "" {
					slide, ok := p.Slide(slideUID)
					if !ok {
						return fmt.Errorf("presentation %d has no slide %s", id, slideUID)
					}
					if err := archive.WriteSlide(&buf, slide); err != nil {
						return err
					}
				} else {
					if err := archive.WritePresentation(&buf, p); err != nil {
						return err
					}
				}
				if err := os.WriteFile(outputPath, buf.Bytes(), 0o644); err != nil {
					return fmt.Errorf("write bundle: %w", err)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s (%s)\n",
					outputPath, formatBytes(int64(buf.Len())))
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&slideUID, "slide", "", "Export only this slide as a .slide bundle")
	return cmd
}

func newArchiveImportCommand(ctx *commandContext) *cobra.Command {
	var intoID int64

	cmd := &cobra.Command{
		Use:   "import <file>",
		Short: "Import a bundle file",
		Long: `Import a bundle file. A presentation bundle becomes a new stored
presentation. A slide bundle requires --into and appends the slide to that
presentation.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := os.ReadFile(args[0])
			if err != nil {
				return fmt.Errorf("read bundle: %w", err)
			}

			return ctx.withRepository(func(repo store.Repository) error {
				if intoID > 0 {
					slide, err := archive.ReadSlide(data)
					if err != nil {
						return err
					}
					p, err := repo.Get(cmd.Context(), intoID)
					if err != nil {
						return err
					}
					p.Slides = append(p.Slides, *slide)
					if err := p.Validate(); err != nil {
						return fmt.Errorf("imported slide conflicts with presentation %d: %w", intoID, err)
					}
					if err := p.RefreshSize(); err != nil {
						return err
					}
					if err := repo.Save(cmd.Context(), p); err != nil {
						return err
					}
					fmt.Fprintf(cmd.OutOrStdout(), "Imported slide %s into presentation %d\n", slide.UID, intoID)
					return nil
				}

				p, err := archive.ReadPresentation(data)
				if err != nil {
					return err
				}
				created, err := repo.Create(cmd.Context(), p)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Imported presentation %d (%q, %d slides)\n",
					created.ID, created.Title, len(created.Slides))
				return nil
			})
		},
	}

	cmd.Flags().Int64Var(&intoID, "into", 0, "Append a slide bundle to this presentation")
	return cmd
}
