package config

import (
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
)

const (
	TransportGRPC = "grpc"
	TransportHTTP = "http"
)

// S3 points receipt uploads at an S3-compatible bucket. Uploads go through
// the backend when Bucket is empty.
type S3 struct {
	Endpoint  string
	Region    string `validate:"required_with=Bucket"`
	Bucket    string
	AccessKey string
	SecretKey string
	URLExpiry time.Duration `validate:"gte=0"`
}

// Enabled reports whether receipts go straight to object storage.
func (s S3) Enabled() bool { return s.Bucket != "" }

// Config holds runtime settings for the billed client.
type Config struct {
	ServerEndpointAddr  string        `validate:"required"`
	Transport           string        `validate:"oneof=grpc http"`
	OnlineCheckInterval time.Duration `validate:"gt=0"`
	RequestTimeout      time.Duration `validate:"gte=0"`
	DBPath              string        `validate:"required"`
	LogLevel            string        `validate:"oneof=debug info warn error"`
	LogFormat           string        `validate:"oneof=text json"`
	S3                  S3
}

// LoadDefaults populates c with sensible defaults.
func (c *Config) LoadDefaults() {
	c.ServerEndpointAddr = "127.0.0.1:50051"
	c.Transport = TransportGRPC
	c.OnlineCheckInterval = 3 * time.Second
	c.RequestTimeout = 10 * time.Second
	c.DBPath = "billed.db"
	c.LogLevel = "info"
	c.LogFormat = "text"
	c.S3 = S3{Region: "us-east-1", URLExpiry: 24 * time.Hour}
}

func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	return nil
}

// LoadConfig applies defaults, then the environment (and dotenv file), then
// the config file, then command-line flags. Later sources take precedence.
// args are the program arguments without the program name.
func LoadConfig(args []string) (*Config, error) {
	cfg := &Config{}
	cfg.LoadDefaults()

	if err := parseEnv(cfg, args); err != nil {
		return nil, err
	}
	if err := parseFile(cfg, args); err != nil {
		return nil, err
	}
	if err := parseFlags(cfg, args); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}
