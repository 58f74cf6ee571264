package config

import (
	"errors"
	"fmt"
	"sync"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

var (
	ErrNilPointer = errors.New("config: nil pointer passed to Load")

	dotenvOnce sync.Once
)

// Load populates the struct from environment variables using `env:` tags.
// A .env file in the working directory is loaded once per process before the
// first parse; its absence is not an error.
func Load[T any](v *T) error {
	if v == nil {
		return ErrNilPointer
	}

	dotenvOnce.Do(func() {
		_ = godotenv.Load()
	})

	if err := env.Parse(v); err != nil {
		return fmt.Errorf("config: failed to parse %T: %w", *v, err)
	}
	return nil
}

// MustLoad is Load for wiring code where a missing required variable should
// stop the process.
func MustLoad[T any](v *T) {
	if err := Load(v); err != nil {
		panic(err)
	}
}
