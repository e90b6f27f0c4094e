// Package config loads process configuration once at startup.
package config

import (
	"fmt"
	"os"
	"time"

	"github.com/caarlos0/env/v11"
	"gopkg.in/yaml.v3"
)

// Config is the explicit configuration struct handed to constructors at
// startup. It is never re-read after Load.
type Config struct {
	Env  string `env:"APP_ENV" envDefault:"development"`
	Addr string `env:"ADDR" envDefault:"127.0.0.1:3000"`

	JWTSecret string        `env:"JWT_SECRET" envDefault:"dev-secret"`
	TokenTTL  time.Duration `env:"TOKEN_TTL" envDefault:"2h"`

	// AdminPassword seeds the reserved admin account on first run. Empty
	// means a random password is generated and logged.
	AdminPassword string `env:"ADMIN_PASSWORD"`

	DBFilePath string `env:"DB_FILE_PATH" envDefault:"data/db.json"`

	// MaxItemTextLen bounds item text; longer input is truncated.
	MaxItemTextLen int `env:"MAX_ITEM_TEXT_LEN" envDefault:"512"`

	// Auth endpoint rate limiting, per remote IP.
	AuthRateEvery time.Duration `env:"AUTH_RATE_EVERY" envDefault:"3s"`
	AuthRateBurst int           `env:"AUTH_RATE_BURST" envDefault:"100"`

	// SampleUsersFile optionally points at a YAML list of sample accounts
	// seeded in non-production environments.
	SampleUsersFile string `env:"SAMPLE_USERS_FILE"`
}

// Load parses configuration from environment variables.
func Load() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	return cfg, nil
}

// IsDev reports whether the process runs in a development environment.
func (c Config) IsDev() bool { return c.Env == "development" }

// SampleUser is a seed account candidate.
type SampleUser struct {
	Username string `yaml:"username"`
	Password string `yaml:"password"`
}

// devSampleUsers are seeded in development when no file is configured.
var devSampleUsers = []SampleUser{
	{Username: "nabil", Password: "nabil123"},
	{Username: "carlos", Password: "carlos123"},
}

// SampleUsers returns the seed accounts for this environment: the configured
// YAML file if set, the built-in development list otherwise, nothing in
// production.
func (c Config) SampleUsers() ([]SampleUser, error) {
	if c.SampleUsersFile != "" {
		return loadSampleUsers(c.SampleUsersFile)
	}
	if c.IsDev() {
		return devSampleUsers, nil
	}
	return nil, nil
}

func loadSampleUsers(path string) ([]SampleUser, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read sample users: %w", err)
	}
	var users []SampleUser
	if err := yaml.Unmarshal(raw, &users); err != nil {
		return nil, fmt.Errorf("parse sample users: %w", err)
	}
	return users, nil
}
