package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v2"
)

type DBConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	DBName   string `yaml:"name"`
}

type ConfigSchema struct {
	Backend struct {
		Host string `yaml:"host"`
		Port int    `yaml:"port"`
	} `yaml:"backend"`
	Storage struct {
		// Driver is one of postgres, sqlite, mongo
		Driver   string     `yaml:"driver"`
		Master   DBConfig   `yaml:"master"`
		Replicas []DBConfig `yaml:"replicas"`
		// SQLitePath is used when Driver is sqlite
		SQLitePath string `yaml:"sqlite_path"`
	} `yaml:"storage"`
	Mongo struct {
		URI      string `yaml:"uri"`
		Database string `yaml:"database"`
	} `yaml:"mongo"`
	Redis struct {
		Host     string `yaml:"host"`
		Port     int    `yaml:"port"`
		Password string `yaml:"password"`
		DB       int    `yaml:"db"`
	} `yaml:"redis"`
	AMQP struct {
		URL      string `yaml:"url"`
		Exchange string `yaml:"exchange"`
	} `yaml:"amqp"`
	Auth struct {
		JWTSecret     string `yaml:"jwt_secret"`
		Issuer        string `yaml:"issuer"`
		TokenTTLHours int    `yaml:"token_ttl_hours"`
	} `yaml:"auth"`
	Logs struct {
		Level string `yaml:"level"`
	} `yaml:"logs"`
}

func (c *ConfigSchema) TokenTTL() time.Duration {
	return time.Duration(c.Auth.TokenTTLHours) * time.Hour
}

func (c *ConfigSchema) ListenAddr() string {
	return fmt.Sprintf("%s:%d", c.Backend.Host, c.Backend.Port)
}

func (c *ConfigSchema) Validate() error {
	switch c.Storage.Driver {
	case "postgres", "sqlite", "mongo":
	default:
		return fmt.Errorf("unknown storage driver %q", c.Storage.Driver)
	}
	if c.Auth.JWTSecret == "" {
		return errors.New("auth.jwt_secret is required")
	}
	if c.Auth.TokenTTLHours <= 0 {
		return errors.New("auth.token_ttl_hours must be positive")
	}
	if c.Storage.Driver == "mongo" && c.Mongo.URI == "" {
		return errors.New("mongo.uri is required for the mongo driver")
	}
	return nil
}

func defaults() *ConfigSchema {
	c := &ConfigSchema{}
	c.Backend.Port = 8080
	c.Storage.Driver = "postgres"
	c.Storage.Master.Port = 5432
	c.Storage.SQLitePath = "socialcal.db"
	c.Mongo.Database = "socialcal"
	c.Redis.Port = 6379
	c.AMQP.Exchange = "socialcal_events"
	c.Auth.Issuer = "socialcal"
	c.Auth.TokenTTLHours = 24
	c.Logs.Level = "info"
	return c
}

// LoadConfig reads the yaml file at filePath, then applies secrets from the
// environment. A .env file next to the binary is loaded first when present.
func LoadConfig(filePath string) (*ConfigSchema, error) {
	data, err := os.ReadFile(filePath)
	if err != nil {
		return nil, err
	}
	conf := defaults()
	if err = yaml.Unmarshal(data, conf); err != nil {
		return nil, fmt.Errorf("parse %s: %w", filePath, err)
	}

	if err = godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w", err)
	}
	applyEnv(conf)

	return conf, conf.Validate()
}

func applyEnv(conf *ConfigSchema) {
	if v := os.Getenv("SOCIALCAL_JWT_SECRET"); v != "" {
		conf.Auth.JWTSecret = v
	}
	if v := os.Getenv("SOCIALCAL_DB_PASSWORD"); v != "" {
		conf.Storage.Master.Password = v
	}
	if v := os.Getenv("SOCIALCAL_MONGO_URI"); v != "" {
		conf.Mongo.URI = v
	}
	if v := os.Getenv("SOCIALCAL_REDIS_PASSWORD"); v != "" {
		conf.Redis.Password = v
	}
	if v := os.Getenv("SOCIALCAL_AMQP_URL"); v != "" {
		conf.AMQP.URL = v
	}
	if v := os.Getenv("SOCIALCAL_TOKEN_TTL_HOURS"); v != "" {
		if hours, err := strconv.Atoi(v); err == nil {
			conf.Auth.TokenTTLHours = hours
		}
	}
}
