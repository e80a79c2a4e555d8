package database

import (
	"fmt"
	"net/url"

	"wallet/internal/config"
)

// Config holds database configuration
type Config struct {
	Driver     string
	Host       string
	Port       string
	User       string
	Password   string
	DBName     string
	SSLMode    string
	SQLitePath string

	// MigrationsPath is the golang-migrate source URL, e.g. file://migrations
	MigrationsPath string
}

// NewConfig derives the database configuration from the application config.
func NewConfig(app *config.Config) *Config {
	return &Config{
		Driver:         app.DBDriver,
		Host:           app.DBHost,
		Port:           app.DBPort,
		User:           app.DBUser,
		Password:       app.DBPassword,
		DBName:         app.DBName,
		SSLMode:        app.DBSSLMode,
		SQLitePath:     app.SQLitePath,
		MigrationsPath: "file://migrations",
	}
}

// DSN returns the PostgreSQL connection string used by gorm.
func (c *Config) DSN() string {
	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.DBName, c.SSLMode)
}

// MigrateURL returns the postgres:// URL golang-migrate expects.
func (c *Config) MigrateURL() string {
	u := url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(c.User, c.Password),
		Host:     c.Host + ":" + c.Port,
		Path:     "/" + c.DBName,
		RawQuery: "sslmode=" + url.QueryEscape(c.SSLMode),
	}
	return u.String()
}
