package config

const (
	defaultLibraryDir    = "~/.local/share/presenvid/library"
	defaultStagingDir    = "~/.local/share/presenvid/staging"
	defaultLogDir        = "~/.local/share/presenvid/logs"
	defaultBackend       = BackendSQLite
	defaultExportFormat  = FormatMP4
	defaultFFmpegBinary  = "ffmpeg"
	defaultProbeBinary   = "ffprobe"
	defaultFFmpegTimeout = 300
	defaultLogFormat     = "console"
	defaultLogLevel      = "info"
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			LibraryDir: defaultLibraryDir,
			StagingDir: defaultStagingDir,
			LogDir:     defaultLogDir,
		},
		Storage: Storage{
			Backend: defaultBackend,
		},
		Export: Export{
			Format: defaultExportFormat,
		},
		FFmpeg: FFmpeg{
			Binary:         defaultFFmpegBinary,
			ProbeBinary:    defaultProbeBinary,
			TimeoutSeconds: defaultFFmpegTimeout,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
