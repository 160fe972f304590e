package config

import "strings"

func normalize(cfg *AppConfig) {
	cfg.Env = normalizeEnv(cfg.Env)
	cfg.Host = strings.TrimSpace(cfg.Host)
	if cfg.Host == "" {
		cfg.Host = defaultHost
	}
	cfg.BaseURL = strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if cfg.BaseURL == "" {
		cfg.BaseURL = defaultBaseURL
	}
	cfg.JWTSecret = strings.TrimSpace(cfg.JWTSecret)
	cfg.ContactEmail = strings.TrimSpace(cfg.ContactEmail)
	cfg.Contact.Mode = strings.ToLower(strings.TrimSpace(cfg.Contact.Mode))
	if cfg.Contact.Mode == "" {
		cfg.Contact.Mode = defaultContactMode
	}
	cfg.Storage.Driver = strings.ToLower(strings.TrimSpace(cfg.Storage.Driver))
	if cfg.Storage.Driver == "" {
		cfg.Storage.Driver = StorageDriverLocal
	}
	if strings.TrimSpace(cfg.Storage.S3.Region) == "" {
		cfg.Storage.S3.Region = defaultS3Region
	}
	if strings.TrimSpace(cfg.SMTP.Host) == "" {
		cfg.SMTP.Host = defaultSMTPHost
	}
	if cfg.SMTP.Port == 0 {
		cfg.SMTP.Port = defaultSMTPPort
	}
	if strings.TrimSpace(cfg.Database.SSLMode) == "" {
		cfg.Database.SSLMode = defaultDBSSLMode
	}
	cfg.AllowedOrigins = normalizeOrigins(cfg.AllowedOrigins)
}

func normalizeOrigins(origins []string) []string {
	out := make([]string, 0, len(origins))
	for _, o := range origins {
		o = strings.TrimSpace(o)
		if o != "" {
			out = append(out, o)
		}
	}
	return out
}

// normalizeEnv maps NODE_ENV spellings onto the three known modes. Anything
// unrecognised ("staging") runs as production so debug output stays off.
func normalizeEnv(env string) string {
	switch strings.ToLower(strings.TrimSpace(env)) {
	case "":
		return defaultEnv
	case "dev", "development", "local":
		return "development"
	case "test", "testing":
		return "test"
	default:
		return "production"
	}
}
