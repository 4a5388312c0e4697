package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/dmitrijs2005/billed/internal/flagx"
	"github.com/dmitrijs2005/billed/internal/timex"
	json "github.com/goccy/go-json"
	"gopkg.in/yaml.v3"
)

// FileConfig is the on-disk form of Config. Durations accept "3s" as well
// as integer nanoseconds. Empty fields leave the current value alone.
type FileConfig struct {
	ServerEndpointAddr  string         `json:"server_endpoint_addr" yaml:"server_endpoint_addr"`
	Transport           string         `json:"transport" yaml:"transport"`
	OnlineCheckInterval timex.Duration `json:"online_check_interval" yaml:"online_check_interval"`
	RequestTimeout      timex.Duration `json:"request_timeout" yaml:"request_timeout"`
	DBPath              string         `json:"db_path" yaml:"db_path"`
	LogLevel            string         `json:"log_level" yaml:"log_level"`
	LogFormat           string         `json:"log_format" yaml:"log_format"`
	S3                  FileS3         `json:"s3" yaml:"s3"`
}

type FileS3 struct {
	Endpoint  string         `json:"endpoint" yaml:"endpoint"`
	Region    string         `json:"region" yaml:"region"`
	Bucket    string         `json:"bucket" yaml:"bucket"`
	AccessKey string         `json:"access_key" yaml:"access_key"`
	SecretKey string         `json:"secret_key" yaml:"secret_key"`
	URLExpiry timex.Duration `json:"url_expiry" yaml:"url_expiry"`
}

// parseFile overlays Config with the file named by -c or -config. Files
// ending in .yaml or .yml are YAML, anything else is JSON.
func parseFile(cfg *Config, args []string) error {
	path := flagx.ConfigFile(args)
	if path == "" {
		return nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config %s: %w", path, err)
	}

	var fc FileConfig
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, &fc)
	default:
		err = json.Unmarshal(data, &fc)
	}
	if err != nil {
		return fmt.Errorf("decode config %s: %w", path, err)
	}

	fc.apply(cfg)
	return nil
}

func setString(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}

func (fc FileConfig) apply(cfg *Config) {
	setString(&cfg.ServerEndpointAddr, fc.ServerEndpointAddr)
	setString(&cfg.Transport, fc.Transport)
	setString(&cfg.DBPath, fc.DBPath)
	setString(&cfg.LogLevel, fc.LogLevel)
	setString(&cfg.LogFormat, fc.LogFormat)
	if fc.OnlineCheckInterval.Duration != 0 {
		cfg.OnlineCheckInterval = fc.OnlineCheckInterval.Duration
	}
	if fc.RequestTimeout.Duration != 0 {
		cfg.RequestTimeout = fc.RequestTimeout.Duration
	}

	setString(&cfg.S3.Endpoint, fc.S3.Endpoint)
	setString(&cfg.S3.Region, fc.S3.Region)
	setString(&cfg.S3.Bucket, fc.S3.Bucket)
	setString(&cfg.S3.AccessKey, fc.S3.AccessKey)
	setString(&cfg.S3.SecretKey, fc.S3.SecretKey)
	if fc.S3.URLExpiry.Duration != 0 {
		cfg.S3.URLExpiry = fc.S3.URLExpiry.Duration
	}
}
