package audit

import (
	"fmt"
	"log/slog"

	"github.com/dmitrymomot/auditkit/pkg/config"
	"github.com/dmitrymomot/auditkit/pkg/logger"
)

// DefaultLogPath is the fallback destination for the file sink.
const DefaultLogPath = "audits/audit.log"

// Config is the process-wide audit configuration, resolved once at startup
// and immutable afterwards. Changing it requires a restart.
type Config struct {
	// Enabled is the master switch; when false the middleware is a true
	// pass-through with no timer and no extraction.
	Enabled bool `env:"AUDIT_ENABLED" envDefault:"false"`

	// LogPath is the file sink destination.
	LogPath string `env:"AUDIT_LOG_PATH" envDefault:"audits/audit.log"`

	// BufferSize is the file sink I/O buffering granularity in bytes.
	BufferSize int `env:"AUDIT_BUFFER_SIZE" envDefault:"8192"`

	// SampleRate is the fraction of successful (status < 400) requests to
	// audit. Error responses are always audited regardless of sampling.
	SampleRate float64 `env:"AUDIT_SAMPLE_RATE" envDefault:"1.0"`
}

// Validate checks configured values against their allowed ranges.
func (c Config) Validate() error {
	if c.LogPath == "" {
		return fmt.Errorf("%w: log path is required", ErrInvalidConfig)
	}
	if c.BufferSize <= 0 {
		return fmt.Errorf("%w: buffer size must be positive, got %d", ErrInvalidConfig, c.BufferSize)
	}
	if c.SampleRate < 0 || c.SampleRate > 1 {
		return fmt.Errorf("%w: sample rate %v is outside [0.0, 1.0]", ErrInvalidConfig, c.SampleRate)
	}
	return nil
}

// DefaultConfig returns the safe defaults: auditing disabled.
func DefaultConfig() Config {
	return Config{
		Enabled:    false,
		LogPath:    DefaultLogPath,
		BufferSize: DefaultBufferSize,
		SampleRate: 1.0,
	}
}

// LoadConfig resolves the audit configuration from the environment. Invalid
// values never crash the process: a parse or range error falls back to the
// safe defaults (auditing disabled) with one logged warning.
func LoadConfig(log *slog.Logger) Config {
	if log == nil {
		log = slog.Default()
	}

	var cfg Config
	if err := config.Load(&cfg); err != nil {
		log.Warn("audit configuration invalid, auditing disabled",
			logger.Component("audit"), logger.Error(err))
		return DefaultConfig()
	}
	if err := cfg.Validate(); err != nil {
		log.Warn("audit configuration invalid, auditing disabled",
			logger.Component("audit"), logger.Error(err))
		return DefaultConfig()
	}
	return cfg
}
