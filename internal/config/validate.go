package config

import (
	"errors"
	"fmt"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validateStorage(); err != nil {
		return err
	}
	if err := c.validateExport(); err != nil {
		return err
	}
	if err := c.validateLogging(); err != nil {
		return err
	}
	return nil
}

func (c *Config) validateStorage() error {
	switch c.Storage.Backend {
	case BackendSQLite, BackendDirectory:
		return nil
	default:
		return fmt.Errorf("storage.backend must be %q or %q, got %q", BackendSQLite, BackendDirectory, c.Storage.Backend)
	}
}

func (c *Config) validateExport() error {
	switch c.Export.Format {
	case FormatMP4, FormatWebM:
		return nil
	default:
		return fmt.Errorf("export.format must be %q or %q, got %q", FormatMP4, FormatWebM, c.Export.Format)
	}
}

func (c *Config) validateLogging() error {
	switch c.Logging.Format {
	case "console", "json":
	default:
		return fmt.Errorf("logging.format must be \"console\" or \"json\", got %q", c.Logging.Format)
	}
	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		return errors.New("logging.level must be one of debug, info, warn, error")
	}
	return nil
}
