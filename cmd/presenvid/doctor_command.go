package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"presenvid/internal/config"
	"presenvid/internal/deps"
	"presenvid/internal/staging"
	"presenvid/internal/store"
)

func newDoctorCommand(ctx *commandContext) *cobra.Command {
	var clean bool
	var maxAge time.Duration

	cmd := &cobra.Command{
		Use:   "doctor",
		Short: "Check external binaries, storage health, and staging space",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()

			statuses := deps.Check(cfg)
			storageDetail, storageOK := checkStorage(cmd, ctx, cfg)
			dirs, listErr := staging.ListDirectories(cfg.Paths.StagingDir)

			var cleanResult staging.CleanResult
			if clean {
				cleanResult = staging.CleanStale(cfg.Paths.StagingDir, maxAge, ctx.ensureLogger())
				dirs, listErr = staging.ListDirectories(cfg.Paths.StagingDir)
			}

			if ctx.JSONMode() {
				payload := map[string]any{
					"dependencies": statuses,
					"storage_ok":   storageOK,
					"storage":      storageDetail,
					"staging_dirs": len(dirs),
				}
				if clean {
					payload["cleaned"] = len(cleanResult.Removed)
				}
				return writeJSON(cmd, payload)
			}

			rows := make([][]string, 0, len(statuses))
			for _, s := range statuses {
				state := "ok"
				if !s.Available {
					state = "missing"
					if s.Detail != "" {
						state = s.Detail
					}
				}
				rows = append(rows, []string{s.Name, s.Command, state})
			}
			fmt.Fprintln(out, renderTable(
				[]string{"Dependency", "Command", "Status"},
				rows,
				[]columnAlignment{alignLeft, alignLeft, alignLeft},
			))

			fmt.Fprintf(out, "Storage: %s\n", storageDetail)

			if listErr != nil {
				fmt.Fprintf(out, "Staging: cannot inspect %s: %v\n", cfg.Paths.StagingDir, listErr)
			} else if len(dirs) == 0 {
				fmt.Fprintln(out, "Staging: clean")
			} else {
				var total int64
				for _, d := range dirs {
					total += d.Size
				}
				fmt.Fprintf(out, "Staging: %d leftover work directories (%s)\n", len(dirs), formatBytes(total))
				for _, d := range dirs {
					fmt.Fprintf(out, "  %s  %s  %s\n", d.Name, formatAge(time.Since(d.ModTime)), formatBytes(d.Size))
				}
			}
			if clean {
				fmt.Fprintf(out, "Cleaned %d stale work directories\n", len(cleanResult.Removed))
				for _, e := range cleanResult.Errors {
					fmt.Fprintf(out, "  Error: %s: %v\n", e.Path, e.Error)
				}
			}

			if !deps.AllAvailable(statuses) || !storageOK {
				return fmt.Errorf("doctor found problems")
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&clean, "clean", false, "Remove stale export work directories")
	cmd.Flags().DurationVar(&maxAge, "max-age", 24*time.Hour, "Age threshold for --clean")
	return cmd
}

func checkStorage(cmd *cobra.Command, ctx *commandContext, cfg *config.Config) (string, bool) {
	backend, err := ctx.repositoryBackend(cfg)
	if err != nil {
		return err.Error(), false
	}

	var detail string
	openErr := ctx.withRepository(func(repo store.Repository) error {
		if sqliteRepo, ok := repo.(*store.SQLiteRepository); ok {
			health, err := sqliteRepo.CheckHealth(cmd.Context())
			if err != nil {
				return err
			}
			detail = fmt.Sprintf("%s backend healthy, %d presentations (%s)",
				backend, health.TotalItems, health.DBPath)
			return nil
		}
		items, err := repo.List(cmd.Context())
		if err != nil {
			return err
		}
		location := cfg.Paths.LibraryDir
		if dirRepo, ok := repo.(*store.DirRepository); ok {
			location = dirRepo.Root()
		}
		detail = fmt.Sprintf("%s backend healthy, %d presentations (%s)",
			backend, len(items), location)
		return nil
	})
	if openErr != nil {
		return fmt.Sprintf("%s backend unavailable: %v", backend, openErr), false
	}
	return detail, true
}
