// Package config loads the service settings from the environment, reading a
// .env file first when one is present.
package config

import (
	"io/fs"

	"github.com/caarlos0/env/v11"
	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/pkg/errors"
)

const (
	DriverMemory = "memory"
	DriverSQLite = "sqlite"
	DriverMySQL  = "mysql"
)

type Config struct {
	Port        int    `env:"PORT" envDefault:"3000" validate:"min=1,max=65535"`
	StoreDriver string `env:"STORE_DRIVER" envDefault:"memory" validate:"oneof=memory sqlite mysql"`
	DatabaseDSN string `env:"DATABASE_DSN" validate:"required_unless=StoreDriver memory"`
	AutoMigrate bool   `env:"AUTO_MIGRATE" envDefault:"true"`
	LogLevel    string `env:"LOG_LEVEL" envDefault:"info" validate:"oneof=trace debug info warn warning error"`
	LogFormat   string `env:"LOG_FORMAT" envDefault:"text" validate:"oneof=text json"`
}

// Load reads envFiles (".env" when none given) into the process environment
// without overriding variables already set, then parses Config. Missing files
// are skipped. The result is not validated; callers apply their overrides and
// then call Validate.
func Load(envFiles ...string) (Config, error) {
	if len(envFiles) == 0 {
		envFiles = []string{".env"}
	}
	for _, f := range envFiles {
		if err := godotenv.Load(f); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return Config{}, errors.Wrapf(err, "load %s", f)
		}
	}

	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, errors.Wrap(err, "parse env")
	}
	return cfg, nil
}

// Validate checks field ranges and that a DSN is set for SQL drivers.
func (c Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return errors.Wrap(err, "invalid config")
	}
	return nil
}
