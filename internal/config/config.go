package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

const (
	// DefaultConfigPath is used when --config is not provided.
	DefaultConfigPath = "config.yml"

	defaultPort        = 3000
	defaultHost        = "0.0.0.0"
	defaultEnv         = "development"
	defaultBaseURL     = "http://localhost:3000"
	defaultDBHost      = "localhost"
	defaultDBPort      = 5432
	defaultDBUser      = "postgres"
	defaultDBName      = "softionyx"
	defaultDBSSLMode   = "disable"
	defaultSMTPHost    = "smtp.gmail.com"
	defaultSMTPPort    = 587
	defaultUploadsDir  = "uploads"
	defaultClientDist  = "client/dist"
	defaultLogsDir     = "logs"
	defaultS3Region    = "us-east-1"
	defaultContactMode = ContactModePersist
)

// Contact delivery modes.
const (
	// ContactModePersist stores the submission first; email is best-effort.
	ContactModePersist = "persist"
	// ContactModeNotify treats email as the primary path; the DB write is best-effort.
	ContactModeNotify = "notify"
)

// Upload storage drivers.
const (
	StorageDriverLocal = "local"
	StorageDriverS3    = "s3"
)

// AppConfig holds runtime configuration loaded from YAML and the environment.
type AppConfig struct {
	Port           int            `yaml:"port"`
	Host           string         `yaml:"host"`
	Env            string         `yaml:"env"` // "development" | "production" | "test"
	BaseURL        string         `yaml:"base_url"`
	Database       DatabaseConfig `yaml:"database"`
	RedisURL       string         `yaml:"redis_url"`
	JWTSecret      string         `yaml:"jwt_secret"`
	SMTP           SMTPConfig     `yaml:"smtp"`
	ContactEmail   string         `yaml:"contact_email"`
	Contact        ContactConfig  `yaml:"contact"`
	Paths          PathsConfig    `yaml:"paths"`
	Storage        StorageConfig  `yaml:"storage"`
	AllowedOrigins []string       `yaml:"allowed_origins"`
}

type DatabaseConfig struct {
	URL         string `yaml:"url"`
	Host        string `yaml:"host"`
	Port        int    `yaml:"port"`
	User        string `yaml:"user"`
	Password    string `yaml:"password"`
	Name        string `yaml:"name"`
	SSLMode     string `yaml:"sslmode"`
	AutoMigrate *bool  `yaml:"auto_migrate"`
}

type SMTPConfig struct {
	Host string `yaml:"host"`
	Port int    `yaml:"port"`
	User string `yaml:"user"`
	Pass string `yaml:"pass"`
	From string `yaml:"from"`
}

type ContactConfig struct {
	Mode string `yaml:"mode"`
}

type PathsConfig struct {
	Logs       string `yaml:"logs"`
	Uploads    string `yaml:"uploads"`
	ClientDist string `yaml:"client_dist"`
}

type StorageConfig struct {
	Driver string    `yaml:"driver"`
	S3     S3Options `yaml:"s3"`
}

type S3Options struct {
	Bucket          string `yaml:"bucket"`
	Region          string `yaml:"region"`
	Endpoint        string `yaml:"endpoint"`
	AccessKeyID     string `yaml:"access_key_id"`
	SecretAccessKey string `yaml:"secret_access_key"`
	PublicURL       string `yaml:"public_url"`
	PathStyle       bool   `yaml:"path_style"`
}

// Load reads the YAML file at configPath (optional when it is the default
// path) and applies environment overrides on top.
func Load(configPath string) (*AppConfig, error) {
	return LoadWithEnv(configPath, os.LookupEnv)
}

// LoadWithEnv is Load with an injectable environment lookup.
func LoadWithEnv(configPath string, lookup func(string) (string, bool)) (*AppConfig, error) {
	path := strings.TrimSpace(configPath)
	explicit := path != "" && path != DefaultConfigPath
	if path == "" {
		path = DefaultConfigPath
	}

	cfg := defaultAppConfig()

	content, err := os.ReadFile(path)
	switch {
	case err == nil:
		decoder := yaml.NewDecoder(bytes.NewReader(content))
		decoder.KnownFields(true)
		if err := decoder.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("parse config file %q: %w", path, err)
		}
	case errors.Is(err, fs.ErrNotExist) && !explicit:
	default:
		return nil, fmt.Errorf("read config file %q: %w", path, err)
	}

	applyEnv(&cfg, lookup)
	normalize(&cfg)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config %q: %w", path, err)
	}
	return &cfg, nil
}

func defaultAppConfig() AppConfig {
	return AppConfig{
		Port:    defaultPort,
		Host:    defaultHost,
		Env:     defaultEnv,
		BaseURL: defaultBaseURL,
		Database: DatabaseConfig{
			Host:    defaultDBHost,
			Port:    defaultDBPort,
			User:    defaultDBUser,
			Name:    defaultDBName,
			SSLMode: defaultDBSSLMode,
		},
		SMTP: SMTPConfig{
			Host: defaultSMTPHost,
			Port: defaultSMTPPort,
		},
		Contact: ContactConfig{Mode: defaultContactMode},
		Paths: PathsConfig{
			Logs:       defaultLogsDir,
			Uploads:    defaultUploadsDir,
			ClientDist: defaultClientDist,
		},
		Storage: StorageConfig{
			Driver: StorageDriverLocal,
			S3:     S3Options{Region: defaultS3Region},
		},
	}
}

// Validate checks ranges and enumerations after overrides are applied.
func (c *AppConfig) Validate() error {
	if c.Port < 1 || c.Port > 65535 {
		return fmt.Errorf("invalid port %d, expected 1-65535", c.Port)
	}
	if c.Database.URL == "" && (c.Database.Port < 1 || c.Database.Port > 65535) {
		return fmt.Errorf("invalid database.port %d, expected 1-65535", c.Database.Port)
	}
	if c.SMTP.Port < 1 || c.SMTP.Port > 65535 {
		return fmt.Errorf("invalid smtp.port %d, expected 1-65535", c.SMTP.Port)
	}
	switch c.Contact.Mode {
	case ContactModePersist, ContactModeNotify:
	default:
		return fmt.Errorf("invalid contact.mode %q, expected %q or %q", c.Contact.Mode, ContactModePersist, ContactModeNotify)
	}
	switch c.Storage.Driver {
	case StorageDriverLocal:
	case StorageDriverS3:
		if c.Storage.S3.Bucket == "" {
			return errors.New("storage.s3.bucket is required when storage.driver is s3")
		}
	default:
		return fmt.Errorf("invalid storage.driver %q", c.Storage.Driver)
	}
	return nil
}

func (c *AppConfig) IsProduction() bool {
	return c.Env == "production"
}

func (c *AppConfig) IsDev() bool {
	return c.Env == "development"
}

// AutoMigrate reports whether the schema should be migrated on startup.
func (c *AppConfig) AutoMigrate() bool {
	if c.Database.AutoMigrate == nil {
		return true
	}
	return *c.Database.AutoMigrate
}

// MailEnabled reports whether SMTP credentials are present.
func (c *AppConfig) MailEnabled() bool {
	return c.SMTP.User != "" && c.SMTP.Pass != ""
}

// NotifyRecipient is the inbox for site notifications; falls back to the SMTP user.
func (c *AppConfig) NotifyRecipient() string {
	if c.ContactEmail != "" {
		return c.ContactEmail
	}
	return c.SMTP.User
}

func (c *AppConfig) LogDir() string {
	return ResolveRuntimePath(c.Paths.Logs, defaultLogsDir)
}

func (c *AppConfig) UploadDir() string {
	return ResolveRuntimePath(c.Paths.Uploads, defaultUploadsDir)
}

func (c *AppConfig) ClientDistDir() string {
	return ResolveRuntimePath(c.Paths.ClientDist, defaultClientDist)
}
