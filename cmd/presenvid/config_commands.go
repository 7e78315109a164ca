package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"presenvid/internal/config"
	"presenvid/internal/prefs"
)

func newConfigCommand(ctx *commandContext) *cobra.Command {
	configCmd := &cobra.Command{
		Use:   "config",
		Short: "Configuration and preference utilities",
	}

	configCmd.AddCommand(newConfigInitCommand())
	configCmd.AddCommand(newConfigValidateCommand())
	configCmd.AddCommand(newConfigShowCommand(ctx))
	configCmd.AddCommand(newConfigSetCommand(ctx))

	return configCmd
}

func newConfigInitCommand() *cobra.Command {
	var targetPath string
	var overwrite bool

	cmd := &cobra.Command{
		Use:         "init",
		Short:       "Create a sample configuration file",
		Annotations: map[string]string{"skipConfigLoad": "true"},
		RunE: func(cmd *cobra.Command, args []string) error {
			target := strings.TrimSpace(targetPath)
			if target == "" {
				defaultPath, err := config.DefaultConfigPath()
				if err != nil {
					return fmt.Errorf("determine default config path: %w", err)
				}
				target = defaultPath
			} else {
				expanded, err := config.ExpandPath(target)
				if err != nil {
					return fmt.Errorf("resolve config path: %w", err)
				}
				target = expanded
			}

			dir := filepath.Dir(target)
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return fmt.Errorf("create config directory %q: %w", dir, err)
			}

			if !overwrite {
				if _, err := os.Stat(target); err == nil {
					return fmt.Errorf("config file already exists at %s (use --overwrite to replace it)", target)
				} else if err != nil && !os.IsNotExist(err) {
					return fmt.Errorf("check config path: %w", err)
				}
			}

			if err := config.CreateSample(target); err != nil {
				return fmt.Errorf("create sample config: %w", err)
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Wrote sample configuration to %s\n", target)
			return nil
		},
	}

	cmd.Flags().StringVarP(&targetPath, "path", "p", "", "Destination for the configuration file")
	cmd.Flags().BoolVar(&overwrite, "overwrite", false, "Overwrite existing configuration if present")
	return cmd
}

func newConfigValidateCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "validate",
		Short: "Validate configuration file",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, path, exists, err := config.Load("")
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}
			if err := cfg.EnsureDirectories(); err != nil {
				return fmt.Errorf("ensure directories: %w", err)
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Config path: %s\n", path)
			if !exists {
				fmt.Fprintln(out, "Config file did not exist; defaults were used")
			}
			fmt.Fprintln(out, "Configuration valid")
			return nil
		},
	}
}

func newConfigShowCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Show effective settings and stored preferences",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			backend, err := ctx.repositoryBackend(cfg)
			if err != nil {
				return err
			}
			format, err := ctx.exportFormat(cfg, "")
			if err != nil {
				return err
			}

			if ctx.JSONMode() {
				return writeJSON(cmd, map[string]any{
					"library_dir":            cfg.Paths.LibraryDir,
					"staging_dir":            cfg.Paths.StagingDir,
					"log_dir":                cfg.Paths.LogDir,
					prefs.KeyRepositoryType:  backend,
					prefs.KeyExportFormat:    string(format),
					"ffmpeg_binary":          cfg.FFmpegBinary(),
					"ffprobe_binary":         cfg.FFprobeBinary(),
					"ffmpeg_timeout_seconds": cfg.FFmpeg.TimeoutSeconds,
				})
			}
			fmt.Fprintln(cmd.OutOrStdout(), renderKeyValues([][2]string{
				{"Library directory", cfg.Paths.LibraryDir},
				{"Staging directory", cfg.Paths.StagingDir},
				{"Log directory", cfg.Paths.LogDir},
				{prefs.KeyRepositoryType, backend},
				{prefs.KeyExportFormat, string(format)},
				{"FFmpeg binary", cfg.FFmpegBinary()},
				{"FFprobe binary", cfg.FFprobeBinary()},
				{"FFmpeg timeout", fmt.Sprintf("%ds", cfg.FFmpeg.TimeoutSeconds)},
			}))
			return nil
		},
	}
}

func newConfigSetCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "set <key> <value>",
		Short: "Store a preference",
		Long: fmt.Sprintf(`Store a preference. Supported keys:

  %s   storage backend (sqlite or directory)
  %s            export container format (mp4 or webm)`,
			prefs.KeyRepositoryType, prefs.KeyExportFormat),
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			key, value := args[0], strings.ToLower(strings.TrimSpace(args[1]))

			switch key {
			case prefs.KeyRepositoryType:
				if value != config.BackendSQLite && value != config.BackendDirectory {
					return fmt.Errorf("%s must be %q or %q", key, config.BackendSQLite, config.BackendDirectory)
				}
			case prefs.KeyExportFormat:
				if value != config.FormatMP4 && value != config.FormatWebM {
					return fmt.Errorf("%s must be %q or %q", key, config.FormatMP4, config.FormatWebM)
				}
			default:
				return fmt.Errorf("unknown preference key %q", key)
			}

			p, err := ctx.prefsStore()
			if err != nil {
				return err
			}
			if err := p.Set(key, value); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Set %s = %s\n", key, value)
			return nil
		},
	}
}
