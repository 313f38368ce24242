// internal/common/config/config.go
package config

import "fmt"

// Config is the main application configuration struct.
type Config struct {
	App         AppConfig         `mapstructure:"app"`
	Server      ServerConfig      `mapstructure:"server"`
	Store       StoreConfig       `mapstructure:"store"`
	Database    DatabaseConfig    `mapstructure:"database"`
	Documents   DocumentsConfig   `mapstructure:"documents"`
	Spreadsheet SpreadsheetConfig `mapstructure:"spreadsheet"`
	Notify      NotifyConfig      `mapstructure:"notify"`
	Logging     LoggingConfig     `mapstructure:"logging"`
}

type AppConfig struct {
	Name        string `mapstructure:"name"`
	Version     string `mapstructure:"version"`
	Environment string `mapstructure:"environment"`
}

type ServerConfig struct {
	Port            int      `mapstructure:"port"`
	ReadTimeout     int      `mapstructure:"read_timeout"`     // milliseconds
	WriteTimeout    int      `mapstructure:"write_timeout"`    // milliseconds
	ShutdownTimeout int      `mapstructure:"shutdown_timeout"` // milliseconds
	MaxUploadBytes  int64    `mapstructure:"max_upload_bytes"`
	AllowedOrigins  []string `mapstructure:"allowed_origins"`
}

// Addr returns the listen address for the API server.
func (s ServerConfig) Addr() string {
	return fmt.Sprintf(":%d", s.Port)
}

// StoreConfig selects the record store backend.
type StoreConfig struct {
	Backend  string `mapstructure:"backend"`   // postgres | memory
	CacheTTL int    `mapstructure:"cache_ttl"` // milliseconds, 0 disables the redis cache
	Search   bool   `mapstructure:"search"`    // index suppliers into elasticsearch
}

type DatabaseConfig struct {
	Postgres      PostgresConfig      `mapstructure:"postgres"`
	Elasticsearch ElasticsearchConfig `mapstructure:"elasticsearch"`
	Redis         RedisConfig         `mapstructure:"redis"`
}

type PostgresConfig struct {
	Host           string `mapstructure:"host"`
	Port           int    `mapstructure:"port"`
	Database       string `mapstructure:"database"`
	User           string `mapstructure:"user"`
	Password       string `mapstructure:"password"`
	MaxConnections int    `mapstructure:"max_connections"`
	MaxIdle        int    `mapstructure:"max_idle"`
	SSLMode        string `mapstructure:"sslmode"`
}

// GetDSN returns the PostgreSQL connection string
func (p PostgresConfig) GetDSN() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		p.Host, p.Port, p.User, p.Password, p.Database, p.SSLMode,
	)
}

type ElasticsearchConfig struct {
	Addresses   []string `mapstructure:"addresses"`
	Username    string   `mapstructure:"username"`
	Password    string   `mapstructure:"password"`
	SupplierIdx string   `mapstructure:"supplier_index"`
}

type RedisConfig struct {
	Address   string `mapstructure:"address"`
	Password  string `mapstructure:"password"`
	DB        int    `mapstructure:"db"`
	KeyPrefix string `mapstructure:"key_prefix"`
}

// DocumentsConfig carries the operator letterhead printed on generated documents.
type DocumentsConfig struct {
	Operator struct {
		Name    string `mapstructure:"name"`
		Phone   string `mapstructure:"phone"`
		Email   string `mapstructure:"email"`
		Website string `mapstructure:"website"`
	} `mapstructure:"operator"`
	PDFFont string `mapstructure:"pdf_font"`
}

// SpreadsheetConfig controls quote schedule import and export.
type SpreadsheetConfig struct {
	ExportName string `mapstructure:"export_name"` // download name without extension
	MaxRows    int    `mapstructure:"max_rows"`    // 0 means unlimited
}

// NotifyConfig holds settings for mailing rendered templates.
type NotifyConfig struct {
	Email struct {
		Enabled   bool   `mapstructure:"enabled"`
		FromEmail string `mapstructure:"from_email"`
	} `mapstructure:"email"`
	AWS struct {
		Region string `mapstructure:"region"`
	} `mapstructure:"aws"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
	Output string `mapstructure:"output"`
}
