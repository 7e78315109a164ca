package main

import (
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/spf13/cobra"

	"presenvid/internal/assembly"
	"presenvid/internal/config"
	"presenvid/internal/ffmpeg"
	"presenvid/internal/logging"
	"presenvid/internal/prefs"
	"presenvid/internal/store"
)

type commandContext struct {
	configFlag *string
	jsonFlag   *bool

	configOnce sync.Once
	config     *config.Config
	configErr  error

	loggerOnce sync.Once
	logger     *slog.Logger
}

func newCommandContext(configFlag *string, jsonFlag *bool) *commandContext {
	return &commandContext{
		configFlag: configFlag,
		jsonFlag:   jsonFlag,
	}
}

func (c *commandContext) ensureConfig() (*config.Config, error) {
	c.configOnce.Do(func() {
		var path string
		if c.configFlag != nil {
			path = strings.TrimSpace(*c.configFlag)
		}
		cfg, _, _, err := config.Load(path)
		if err != nil {
			c.configErr = err
			return
		}
		if err := cfg.EnsureDirectories(); err != nil {
			c.configErr = err
			return
		}
		c.config = cfg
	})
	return c.config, c.configErr
}

func (c *commandContext) JSONMode() bool {
	return c.jsonFlag != nil && *c.jsonFlag
}

func (c *commandContext) ensureLogger() *slog.Logger {
	c.loggerOnce.Do(func() {
		cfg, err := c.ensureConfig()
		if err != nil {
			c.logger = logging.NewNop()
			return
		}
		logger, err := logging.NewFromConfig(cfg)
		if err != nil {
			c.logger = logging.NewNop()
			return
		}
		c.logger = logger
	})
	return c.logger
}

// withRepository opens the presentation repository for one command and
// closes it afterwards. The backend follows the remembered preference when
// one exists, otherwise the configured default.
func (c *commandContext) withRepository(fn func(store.Repository) error) error {
	cfg, err := c.ensureConfig()
	if err != nil {
		return err
	}
	backend, err := c.repositoryBackend(cfg)
	if err != nil {
		return err
	}
	open := *cfg
	open.Storage.Backend = backend
	repo, err := store.Open(&open)
	if err != nil {
		return err
	}
	defer repo.Close()
	return fn(repo)
}

func (c *commandContext) repositoryBackend(cfg *config.Config) (string, error) {
	p, err := c.prefsStore()
	if err != nil {
		return "", err
	}
	backend, err := p.Get(prefs.KeyRepositoryType, cfg.Storage.Backend)
	if err != nil {
		return "", err
	}
	switch backend {
	case config.BackendSQLite, config.BackendDirectory:
		return backend, nil
	default:
		return "", fmt.Errorf("stored repository type %q is not valid; fix it with `presenvid config set %s sqlite`", backend, prefs.KeyRepositoryType)
	}
}

// exportFormat resolves the export container format: an explicit flag wins,
// then the remembered preference, then the configured default.
func (c *commandContext) exportFormat(cfg *config.Config, flagValue string) (assembly.Format, error) {
	if strings.TrimSpace(flagValue) != "" {
		return assembly.ParseFormat(flagValue)
	}
	p, err := c.prefsStore()
	if err != nil {
		return "", err
	}
	stored, err := p.Get(prefs.KeyExportFormat, cfg.Export.Format)
	if err != nil {
		return "", err
	}
	return assembly.ParseFormat(stored)
}

// rememberExportFormat stores the format of a successful export, best
// effort.
func (c *commandContext) rememberExportFormat(format assembly.Format) {
	p, err := c.prefsStore()
	if err != nil {
		return
	}
	_ = p.Set(prefs.KeyExportFormat, string(format))
}

func (c *commandContext) prefsStore() (*prefs.Store, error) {
	path, err := prefs.DefaultPath()
	if err != nil {
		return nil, err
	}
	return prefs.New(path), nil
}

func (c *commandContext) encoder(cfg *config.Config) ffmpeg.Client {
	return ffmpeg.NewCLI(
		ffmpeg.WithBinary(cfg.FFmpegBinary()),
		ffmpeg.WithProbeBinary(cfg.FFprobeBinary()),
		ffmpeg.WithTimeout(time.Duration(cfg.FFmpeg.TimeoutSeconds)*time.Second),
	)
}

func (c *commandContext) assembler(cfg *config.Config) *assembly.Assembler {
	return assembly.New(c.encoder(cfg), cfg.Paths.StagingDir, c.ensureLogger())
}

func shouldSkipConfig(cmd *cobra.Command) bool {
	for c := cmd; c != nil; c = c.Parent() {
		if c.Annotations != nil && c.Annotations["skipConfigLoad"] == "true" {
			return true
		}
	}
	return false
}
