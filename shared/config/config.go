package config

import (
	"os"
	"path"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v2"
)

type Config struct {
	Public  Public
	Private Private
}

type Public struct {
	InvitationTTL           time.Duration `yaml:"invitation_ttl" validate:"required"`            // seconds
	InvitationSweepInterval time.Duration `yaml:"invitation_sweep_interval" validate:"required"` // seconds
	InvitationCodeLen       int           `yaml:"invitation_code_len" validate:"required,min=4,max=32"`
	QueryTimeout            time.Duration `yaml:"query_timeout"` // seconds, 5 if unset
	OpsAddr                 string        `yaml:"ops_addr" validate:"required"`
	LogLevel                string        `yaml:"log_level" env:"CAMPUS_LOG_LEVEL"`
	LogJSON                 bool          `yaml:"log_json" env:"CAMPUS_LOG_JSON"`
}

type Pg struct {
	Host     string `yaml:"host" env:"CAMPUS_PG_HOST" validate:"required"`
	Port     int    `yaml:"port" env:"CAMPUS_PG_PORT" validate:"required"`
	User     string `yaml:"user" env:"CAMPUS_PG_USER" validate:"required"`
	Password string `yaml:"password" env:"CAMPUS_PG_PASSWORD"`
	Dbname   string `yaml:"dbname" env:"CAMPUS_PG_DBNAME" validate:"required"`
	SSLMode  string `yaml:"sslmode" env:"CAMPUS_PG_SSLMODE"`
}

type Private struct {
	Pg Pg `yaml:"pg"`
}

func (c *Config) InvitationTTL() time.Duration {
	return c.Public.InvitationTTL * time.Second
}

func (c *Config) InvitationSweepInterval() time.Duration {
	return c.Public.InvitationSweepInterval * time.Second
}

func (c *Config) QueryTimeout() time.Duration {
	if c.Public.QueryTimeout <= 0 {
		return 5 * time.Second
	}
	return c.Public.QueryTimeout * time.Second
}

func mustLoadPath(configPath string, output interface{}) {
	// check if file exists
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		panic("config file does not exist: " + configPath)
	}
	configFile, err := os.ReadFile(configPath)
	if err != nil {
		panic("can't read config file")
	}

	if err = yaml.Unmarshal(configFile, output); err != nil {
		panic("can't unmarshal config file: " + err.Error())
	}
}

// MustLoad reads public.yaml and private.yaml from configFolder, lets
// CAMPUS_* environment variables override them and panics if a required
// field is still missing.
func MustLoad(configFolder string) *Config {
	var public Public
	mustLoadPath(path.Join(configFolder, "public.yaml"), &public)

	var private Private
	mustLoadPath(path.Join(configFolder, "private.yaml"), &private)

	cfg := &Config{public, private}
	if err := env.Parse(&cfg.Public); err != nil {
		panic("can't parse env: " + err.Error())
	}
	if err := env.Parse(&cfg.Private.Pg); err != nil {
		panic("can't parse env: " + err.Error())
	}

	v := validator.New(validator.WithRequiredStructEnabled())
	if err := v.Struct(cfg); err != nil {
		panic("invalid config: " + err.Error())
	}
	return cfg
}
