// Package config loads feedlint configuration from defaults, a YAML file,
// FEEDLINT_* environment variables and command-line flags.
package config

// Config holds all CLI configuration options.
type Config struct {
	Workers            int               `koanf:"workers"`
	OutputFormat       string            `koanf:"output"`
	MinSeverity        string            `koanf:"min_severity"`
	MaxSamples         int               `koanf:"max_samples"`
	LogLevel           string            `koanf:"log_level"`
	LogFormat          string            `koanf:"log_format"`
	StatePath          string            `koanf:"state_path"`
	DisabledValidators []string          `koanf:"disabled_validators"`
	SeverityOverrides  map[string]string `koanf:"severity_overrides"`
	Verbose            bool              `koanf:"verbose"`
}

// Default configuration values.
const (
	DefaultOutput      = "auto" // text on a terminal, markdown otherwise
	DefaultMinSeverity = "info"
	DefaultMaxSamples  = 50
	DefaultLogLevel    = "warn"
	DefaultLogFormat   = "text"
)

// Default returns the configuration used when nothing else is set.
func Default() *Config {
	return &Config{
		OutputFormat: DefaultOutput,
		MinSeverity:  DefaultMinSeverity,
		MaxSamples:   DefaultMaxSamples,
		LogLevel:     DefaultLogLevel,
		LogFormat:    DefaultLogFormat,
	}
}
