// Package config provides a type-safe, generic way to load application
// configuration from environment variables.
//
// It wraps `github.com/joho/godotenv` and `github.com/caarlos0/env/v11` to
// deliver a small API that:
//
//   - Loads the default `.env` file from the current working directory at
//     most once per process (a missing file is ignored).
//   - Parses the environment into any Go struct using `env` field tags.
//   - Exposes a helper that panics on failure (`MustLoad`) for configuration
//     the application cannot start without.
//
// # Usage
//
// Describe your configuration as a struct with `env` tags:
//
//	type AuditConfig struct {
//	    Enabled    bool    `env:"AUDIT_ENABLED" envDefault:"false"`
//	    LogPath    string  `env:"AUDIT_LOG_PATH" envDefault:"audits/audit.log"`
//	    SampleRate float64 `env:"AUDIT_SAMPLE_RATE" envDefault:"1.0"`
//	}
//
// Then populate it:
//
//	var cfg AuditConfig
//	if err := config.Load(&cfg); err != nil {
//	    log.Fatalf("parsing env: %v", err)
//	}
//
// # Error Handling
//
// The package defines sentinel errors that can be compared with `errors.Is`:
//
//   - `ErrParsingConfig` – failed to parse env vars into the struct.
//   - `ErrNilPointer`    – nil pointer passed to `Load`/`MustLoad`.
package config
