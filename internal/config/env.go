package config

import (
	"errors"
	"io/fs"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// DefaultEnvFile is read by LoadDotEnv when no path is given.
const DefaultEnvFile = ".env"

// LoadDotEnv copies variables from an env file into the process
// environment without overriding variables that are already set. A missing
// file is not an error.
func LoadDotEnv(path string) error {
	if strings.TrimSpace(path) == "" {
		path = DefaultEnvFile
	}
	if err := godotenv.Load(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return err
	}
	return nil
}

// applyEnv overlays process environment variables onto cfg. Values that fail
// to parse are ignored so the YAML/default value stays in effect.
func applyEnv(cfg *AppConfig, lookup func(string) (string, bool)) {
	if lookup == nil {
		return
	}
	str := func(key string, dst *string) {
		if v, ok := lookup(key); ok && strings.TrimSpace(v) != "" {
			*dst = strings.TrimSpace(v)
		}
	}
	num := func(key string, dst *int) {
		if v, ok := lookup(key); ok {
			if n, err := strconv.Atoi(strings.TrimSpace(v)); err == nil {
				*dst = n
			}
		}
	}

	num("PORT", &cfg.Port)
	str("HOST", &cfg.Host)
	str("NODE_ENV", &cfg.Env)
	str("APP_ENV", &cfg.Env)
	str("BASE_URL", &cfg.BaseURL)

	str("DATABASE_URL", &cfg.Database.URL)
	str("DB_HOST", &cfg.Database.Host)
	num("DB_PORT", &cfg.Database.Port)
	str("DB_USER", &cfg.Database.User)
	str("DB_PASSWORD", &cfg.Database.Password)
	str("DB_NAME", &cfg.Database.Name)
	str("DB_SSLMODE", &cfg.Database.SSLMode)
	if v, ok := lookup("DB_AUTO_MIGRATE"); ok {
		if b, err := strconv.ParseBool(strings.TrimSpace(v)); err == nil {
			cfg.Database.AutoMigrate = &b
		}
	}

	str("REDIS_URL", &cfg.RedisURL)
	str("JWT_SECRET", &cfg.JWTSecret)

	str("SMTP_HOST", &cfg.SMTP.Host)
	num("SMTP_PORT", &cfg.SMTP.Port)
	str("SMTP_USER", &cfg.SMTP.User)
	str("SMTP_PASS", &cfg.SMTP.Pass)
	str("SMTP_FROM", &cfg.SMTP.From)
	str("CONTACT_EMAIL", &cfg.ContactEmail)
	str("CONTACT_MODE", &cfg.Contact.Mode)

	str("LOG_DIR", &cfg.Paths.Logs)
	str("UPLOAD_DIR", &cfg.Paths.Uploads)
	str("CLIENT_DIST", &cfg.Paths.ClientDist)

	str("STORAGE_DRIVER", &cfg.Storage.Driver)
	str("S3_BUCKET", &cfg.Storage.S3.Bucket)
	str("S3_REGION", &cfg.Storage.S3.Region)
	str("S3_ENDPOINT", &cfg.Storage.S3.Endpoint)
	str("S3_ACCESS_KEY_ID", &cfg.Storage.S3.AccessKeyID)
	str("S3_SECRET_ACCESS_KEY", &cfg.Storage.S3.SecretAccessKey)
	str("S3_PUBLIC_URL", &cfg.Storage.S3.PublicURL)

	if v, ok := lookup("ALLOWED_ORIGINS"); ok && strings.TrimSpace(v) != "" {
		cfg.AllowedOrigins = strings.Split(v, ",")
	}
}
