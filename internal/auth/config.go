package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
	"golang.org/x/crypto/bcrypt"
)

// Config holds the signing secrets and lifetimes. It is built once at
// startup and never mutated afterwards.
type Config struct {
	AccessSecret  string        `env:"JWT_ACCESS_SECRET,required,notEmpty"`
	RefreshSecret string        `env:"JWT_REFRESH_SECRET,required,notEmpty"`
	AccessTTL     time.Duration `env:"JWT_ACCESS_TTL" envDefault:"30m"`
	RefreshTTL    time.Duration `env:"JWT_REFRESH_TTL" envDefault:"168h"`
	BcryptCost    int           `env:"BCRYPT_COST" envDefault:"12"`
}

// ConfigFromEnv parses Config from the environment and validates it.
func ConfigFromEnv() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse auth env: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks the invariants the token classes rely on.
func (c Config) Validate() error {
	if c.AccessSecret == "" || c.RefreshSecret == "" {
		return errors.New("auth config: both signing secrets are required")
	}
	if c.AccessSecret == c.RefreshSecret {
		return errors.New("auth config: access and refresh secrets must differ")
	}
	if c.AccessTTL <= 0 || c.RefreshTTL <= 0 {
		return errors.New("auth config: token lifetimes must be positive")
	}
	if c.BcryptCost < bcrypt.MinCost || c.BcryptCost > bcrypt.MaxCost {
		return fmt.Errorf("auth config: bcrypt cost must be within [%d, %d]", bcrypt.MinCost, bcrypt.MaxCost)
	}
	return nil
}
