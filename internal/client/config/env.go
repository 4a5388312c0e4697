package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"time"

	"github.com/dmitrijs2005/billed/internal/flagx"
	"github.com/joho/godotenv"
)

const envPrefix = "BILLED_"

// parseEnv loads the dotenv file named by -env (or ./.env when present)
// into the process environment, then overlays Config with BILLED_*
// variables. Variables already set in the environment win over the file.
func parseEnv(cfg *Config, args []string) error {
	if path := flagx.EnvFile(args); path != "" {
		if err := godotenv.Load(path); err != nil {
			return fmt.Errorf("load env file %s: %w", path, err)
		}
	} else if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("load .env: %w", err)
	}

	lookupString(&cfg.ServerEndpointAddr, "SERVER_ADDR")
	lookupString(&cfg.Transport, "TRANSPORT")
	lookupString(&cfg.DBPath, "DB_PATH")
	lookupString(&cfg.LogLevel, "LOG_LEVEL")
	lookupString(&cfg.LogFormat, "LOG_FORMAT")
	if err := lookupDuration(&cfg.OnlineCheckInterval, "ONLINE_CHECK_INTERVAL"); err != nil {
		return err
	}
	if err := lookupDuration(&cfg.RequestTimeout, "REQUEST_TIMEOUT"); err != nil {
		return err
	}

	lookupString(&cfg.S3.Endpoint, "S3_ENDPOINT")
	lookupString(&cfg.S3.Region, "S3_REGION")
	lookupString(&cfg.S3.Bucket, "S3_BUCKET")
	lookupString(&cfg.S3.AccessKey, "S3_ACCESS_KEY")
	lookupString(&cfg.S3.SecretKey, "S3_SECRET_KEY")
	return lookupDuration(&cfg.S3.URLExpiry, "S3_URL_EXPIRY")
}

func lookupString(dst *string, name string) {
	if v, ok := os.LookupEnv(envPrefix + name); ok && v != "" {
		*dst = v
	}
}

func lookupDuration(dst *time.Duration, name string) error {
	v, ok := os.LookupEnv(envPrefix + name)
	if !ok || v == "" {
		return nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return fmt.Errorf("%s%s: %w", envPrefix, name, err)
	}
	*dst = d
	return nil
}
