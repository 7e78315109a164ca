package main

import (
	"fmt"
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"presenvid/internal/presentation"
	"presenvid/internal/store"
)

func newSlideCommand(ctx *commandContext) *cobra.Command {
	slideCmd := &cobra.Command{
		Use:   "slide",
		Short: "Manage a presentation's slides",
	}

	slideCmd.AddCommand(newSlideAddCommand(ctx))
	slideCmd.AddCommand(newSlideRemoveCommand(ctx))
	slideCmd.AddCommand(newSlideMoveCommand(ctx))

	return slideCmd
}

func newSlideAddCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "add <id> <image>...",
		Short: "Append slides built from image files",
		Args:  cobra.MinimumNArgs(2),
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
				var added []string
				for _, path := range args[1:] {
					data, err := os.ReadFile(path)
					if err != nil {
						return fmt.Errorf("read slide image: %w", err)
					}
					slide := presentation.NewSlideFromFile(path, data)
					p.Slides = append(p.Slides, slide)
					added = append(added, slide.UID)
				}
				if err := p.RefreshSize(); err != nil {
					return err
				}
				if err := repo.Save(cmd.Context(), p); err != nil {
					return err
				}
				out := cmd.OutOrStdout()
				for _, uid := range added {
					fmt.Fprintf(out, "Added slide %s\n", uid)
				}
				return nil
			})
		},
	}
}

func newSlideRemoveCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "remove <id> <slide-uid>",
		Short: "Remove a slide",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parsePresentationID(args[0])
			if err != nil {
				return err
			}
			uid := args[1]
			return ctx.withRepository(func(repo store.Repository) error {
				p, err := repo.Get(cmd.Context(), id)
				if err != nil {
					return err
				}
				if !p.RemoveSlide(uid) {
					return fmt.Errorf("presentation %d has no slide %s", id, uid)
				}
				if err := p.RefreshSize(); err != nil {
					return err
				}
				if err := repo.Save(cmd.Context(), p); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Removed slide %s\n", uid)
				return nil
			})
		},
	}
}

func newSlideMoveCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "move <id> <slide-uid> <delta>",
		Short: "Move a slide forward or backward in the deck",
		Long: `Move a slide by the given offset: negative values move it toward the
front, positive values toward the back. Moves past either end stop at the
edge.`,
		Args: cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parsePresentationID(args[0])
			if err != nil {
				return err
			}
			uid := args[1]
			delta, err := strconv.Atoi(args[2])
			if err != nil {
				return fmt.Errorf("invalid move offset %q", args[2])
			}
			return ctx.withRepository(func(repo store.Repository) error {
				p, err := repo.Get(cmd.Context(), id)
				if err != nil {
					return err
				}
				if err := p.MoveSlide(uid, delta); err != nil {
					return err
				}
				if err := repo.Save(cmd.Context(), p); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Moved slide %s by %+d\n", uid, delta)
				return nil
			})
		},
	}
}
