package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"presenvid/internal/presentation"
	"presenvid/internal/store"
)

func newCreateCommand(ctx *commandContext) *cobra.Command {
	var title string

	cmd := &cobra.Command{
		Use:   "create <image>...",
		Short: "Create a presentation from slide images",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p := &presentation.Presentation{Title: title}
			for _, path := range args {
				data, err := os.ReadFile(path)
				if err != nil {
					return fmt.Errorf("read slide image: %w", err)
				}
				p.Slides = append(p.Slides, presentation.NewSlideFromFile(path, data))
			}
			if err := p.RefreshSize(); err != nil {
				return err
			}

			return ctx.withRepository(func(repo store.Repository) error {
				created, err := repo.Create(cmd.Context(), p)
				if err != nil {
					return err
				}
				if ctx.JSONMode() {
					return writeJSON(cmd, map[string]any{
						"id":     created.ID,
						"title":  created.Title,
						"slides": len(created.Slides),
						"width":  created.Width,
						"height": created.Height,
					})
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Created presentation %d (%q, %d slides, %dx%d)\n",
					created.ID, created.Title, len(created.Slides), created.Width, created.Height)
				return nil
			})
		},
	}

	cmd.Flags().StringVarP(&title, "title", "t", "Untitled presentation", "Presentation title")
	return cmd
}

func newListCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List stored presentations",
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withRepository(func(repo store.Repository) error {
				items, err := repo.List(cmd.Context())
				if err != nil {
					return err
				}
				if ctx.JSONMode() {
					if items == nil {
						items = []store.ListItem{}
					}
					return writeJSON(cmd, map[string]any{"presentations": items})
				}
				if len(items) == 0 {
					fmt.Fprintln(cmd.OutOrStdout(), "No presentations stored")
					return nil
				}
				rows := make([][]string, 0, len(items))
				for _, item := range items {
					rows = append(rows, []string{fmt.Sprint(item.ID), item.Title})
				}
				fmt.Fprintln(cmd.OutOrStdout(), renderTable(
					[]string{"ID", "Title"},
					rows,
					[]columnAlignment{alignRight, alignLeft},
				))
				return nil
			})
		},
	}
}

func newShowCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "show <id>",
		Short: "Show a presentation's slides and takes",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parsePresentationID(args[0])
			if err != nil {
				return err
			}
			return ctx.withRepository(func(repo store.Repository) error {
				p, err := repo.Get(cmd.Context(), id)
				if err != nil {
					return err
				}
				if ctx.JSONMode() {
					return writeJSON(cmd, p)
				}
				out := cmd.OutOrStdout()
				fmt.Fprintln(out, renderKeyValues([][2]string{
					{"ID", fmt.Sprint(p.ID)},
					{"Title", p.Title},
					{"Size", fmt.Sprintf("%dx%d", p.Width, p.Height)},
					{"Slides", fmt.Sprint(len(p.Slides))},
					{"Export ready", yesNo(p.ExportReady())},
				}))
				if len(p.Slides) == 0 {
					return nil
				}
				rows := make([][]string, 0, len(p.Slides))
				for i, slide := range p.Slides {
					selected := "-"
					if take, ok := slide.SelectedAudio(); ok {
						selected = fmt.Sprintf("%s (%.1fs)", take.Title,
							float64(take.DurationMillisec)/1000.0)
					}
					rows = append(rows, []string{
						fmt.Sprint(i + 1),
						slide.UID,
						slide.Title,
						fmt.Sprint(len(slide.Audios)),
						selected,
					})
				}
				fmt.Fprintln(out, renderTable(
					[]string{"#", "UID", "Title", "Takes", "Selected take"},
					rows,
					[]columnAlignment{alignRight, alignLeft, alignLeft, alignRight, alignLeft},
				))
				return nil
			})
		},
	}
}

func newRenameCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "rename <id> <title>",
		Short: "Rename a presentation",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parsePresentationID(args[0])
			if err != nil {
				return err
			}
			return ctx.withRepository(func(repo store.Repository) error {
				p, err := repo.Get(cmd.Context(), id)
				if err != nil {
					return err
				}
				p.Title = args[1]
				if err := repo.Save(cmd.Context(), p); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Renamed presentation %d to %q\n", id, p.Title)
				return nil
			})
		},
	}
}

func newDeleteCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a presentation",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parsePresentationID(args[0])
			if err != nil {
				return err
			}
			return ctx.withRepository(func(repo store.Repository) error {
				if err := repo.Delete(cmd.Context(), id); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Deleted presentation %d\n", id)
				return nil
			})
		},
	}
}
