package config

import (
	"errors"
	"fmt"
	"sync"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

var defaultEnvLoaded sync.Once

// Load populates the provided configuration struct from environment variables.
//
// On the first call in a process it also attempts to load the default .env
// file from the current working directory; a missing file is not an error.
// Parsing is delegated to env.Parse, so fields are described with `env` and
// `envDefault` tags.
//
// Example:
//
//	type SinkConfig struct {
//		Path       string `env:"AUDIT_LOG_PATH" envDefault:"audits/audit.log"`
//		BufferSize int    `env:"AUDIT_BUFFER_SIZE" envDefault:"8192"`
//	}
//
//	var cfg SinkConfig
//	if err := config.Load(&cfg); err != nil {
//		// handle error
//	}
func Load[T any](v *T) error {
	if v == nil {
		return ErrNilPointer
	}

	defaultEnvLoaded.Do(func() {
		// The .env file is optional.
		_ = godotenv.Load()
	})

	if err := env.Parse(v); err != nil {
		return errors.Join(ErrParsingConfig, err)
	}

	return nil
}

// MustLoad works like Load but panics if configuration loading fails.
// Use it for configuration without which the application cannot start.
func MustLoad[T any](v *T) {
	if err := Load(v); err != nil {
		panic(fmt.Sprintf("failed to load required configuration: %v", err))
	}
}
