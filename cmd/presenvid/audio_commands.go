package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"presenvid/internal/logging"
	"presenvid/internal/presentation"
	"presenvid/internal/store"
)

func newAudioCommand(ctx *commandContext) *cobra.Command {
	audioCmd := &cobra.Command{
		Use:   "audio",
		Short: "Manage a slide's recorded takes",
	}

	audioCmd.AddCommand(newAudioAddCommand(ctx))
	audioCmd.AddCommand(newAudioSelectCommand(ctx))
	audioCmd.AddCommand(newAudioRemoveCommand(ctx))

	return audioCmd
}

func newAudioAddCommand(ctx *commandContext) *cobra.Command {
	var title string
	var durationMillis int64
	var noPreview bool

	cmd := &cobra.Command{
		Use:   "add <id> <slide-uid> <audio-file>",
		Short: "Add a recorded take to a slide",
		Long: `Add a recorded take to a slide. The first take added to a slide becomes
its selected take. The duration is probed from the file unless --duration-ms
is given, and a normalized stereo 48 kHz preview rendition is derived unless
--no-preview is set.`,
		Args: cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parsePresentationID(args[0])
			if err != nil {
				return err
			}
			slideUID := args[1]
			audioPath := args[2]

			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			blob, err := os.ReadFile(audioPath)
			if err != nil {
				return fmt.Errorf("read audio file: %w", err)
			}

			duration := durationMillis
			if duration <= 0 {
				absPath, err := filepath.Abs(audioPath)
				if err != nil {
					return err
				}
				duration, err = ctx.encoder(cfg).ProbeDurationMillis(cmd.Context(), absPath)
				if err != nil {
					return fmt.Errorf("probe take duration: %w", err)
				}
			}
			if duration <= 0 {
				return fmt.Errorf("take duration must be positive, got %dms", duration)
			}

			takeTitle := strings.TrimSpace(title)
			if takeTitle == "" {
				takeTitle = filepath.Base(audioPath)
			}
			take := presentation.NewAudio(takeTitle, blob, duration)

			if !noPreview {
				preview, err := ctx.assembler(cfg).NormalizeAudio(cmd.Context(), blob)
				if err != nil {
					// The raw take still plays; previews are a convenience.
					ctx.ensureLogger().Warn("preview rendition failed",
						logging.String("audio", audioPath),
						logging.Error(err))
				} else {
					take.BlobForPreview = preview
				}
			}

			return ctx.withRepository(func(repo store.Repository) error {
				p, err := repo.Get(cmd.Context(), id)
				if err != nil {
					return err
				}
				slide, ok := p.Slide(slideUID)
				if !ok {
					return fmt.Errorf("presentation %d has no slide %s", id, slideUID)
				}
				slide.AddAudio(take)
				if err := repo.Save(cmd.Context(), p); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Added take %s (%.1fs) to slide %s\n",
					take.UID, float64(duration)/1000.0, slideUID)
				return nil
			})
		},
	}

	cmd.Flags().StringVarP(&title, "title", "t", "", "Take title (defaults to the file name)")
	cmd.Flags().Int64Var(&durationMillis, "duration-ms", 0, "Take duration in milliseconds (skips probing)")
	cmd.Flags().BoolVar(&noPreview, "no-preview", false, "Skip deriving the normalized preview rendition")
	return cmd
}

func newAudioSelectCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "select <id> <slide-uid> <audio-uid>",
		Short: "Select which take a slide uses in exports",
		Args:  cobra.ExactArgs(3),
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
				slide, ok := p.Slide(args[1])
				if !ok {
					return fmt.Errorf("presentation %d has no slide %s", id, args[1])
				}
				if err := slide.SelectAudio(args[2]); err != nil {
					return err
				}
				if err := repo.Save(cmd.Context(), p); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Selected take %s on slide %s\n", args[2], args[1])
				return nil
			})
		},
	}
}

func newAudioRemoveCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "remove <id> <slide-uid> <audio-uid>",
		Short: "Remove a take from a slide",
		Args:  cobra.ExactArgs(3),
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
				slide, ok := p.Slide(args[1])
				if !ok {
					return fmt.Errorf("presentation %d has no slide %s", id, args[1])
				}
				if !slide.RemoveAudio(args[2]) {
					return fmt.Errorf("slide %s has no take %s", args[1], args[2])
				}
				if err := repo.Save(cmd.Context(), p); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Removed take %s from slide %s\n", args[2], args[1])
				return nil
			})
		},
	}
}
