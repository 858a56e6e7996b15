// internal/config/database.go
package config

import (
	"fmt"
)

func (d *DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		d.Host, d.Port, d.User, d.Password, d.Database, d.SSLMode,
	)
}

// Redacted is the DSN with the password masked, for logs.
func (d *DatabaseConfig) Redacted() string {
	masked := *d
	if masked.Password != "" {
		masked.Password = "****"
	}
	return masked.DSN()
}
