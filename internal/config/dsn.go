package config

import (
	"fmt"
	"strings"
)

// DSN returns the PostgreSQL connection string. An explicit URL wins over
// the discrete host/port/user fields.
func (c DatabaseConfig) DSN() string {
	if u := strings.TrimSpace(c.URL); u != "" {
		return u
	}
	parts := []string{
		"host=" + quoteDSNValue(c.Host),
		fmt.Sprintf("port=%d", c.Port),
		"user=" + quoteDSNValue(c.User),
		"dbname=" + quoteDSNValue(c.Name),
		"sslmode=" + quoteDSNValue(c.SSLMode),
		"TimeZone=UTC",
	}
	if c.Password != "" {
		parts = append(parts, "password="+quoteDSNValue(c.Password))
	}
	return strings.Join(parts, " ")
}

// quoteDSNValue quotes keyword/value pairs that contain spaces or quotes.
func quoteDSNValue(v string) string {
	if v == "" {
		return "''"
	}
	if !strings.ContainsAny(v, ` '\`) {
		return v
	}
	r := strings.NewReplacer(`\`, `\\`, `'`, `\'`)
	return "'" + r.Replace(v) + "'"
}
