package config

const (
	defaultWorkspaceDir   = "~/.local/share/mkvcleaver"
	defaultLogDir         = "~/.local/share/mkvcleaver/logs"
	defaultInspectTimeout = 60
	defaultExtractTimeout = 0
	defaultReportProfile  = "auto"
	defaultNumbering      = "representative"
	defaultProgressPrefix = "Progress: "
	defaultLogFormat      = "console"
	defaultLogLevel       = "info"
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			WorkspaceDir: defaultWorkspaceDir,
			LogDir:       defaultLogDir,
		},
		Toolnix: Toolnix{
			InspectTimeout: defaultInspectTimeout,
			ExtractTimeout: defaultExtractTimeout,
		},
		Report: Report{
			Profile: defaultReportProfile,
		},
		Extract: Extract{
			Numbering:      defaultNumbering,
			ProgressPrefix: defaultProgressPrefix,
		},
		Codecs: map[string]string{},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
