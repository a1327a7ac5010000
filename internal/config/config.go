package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Storage drivers supported by the object storage gateway
const (
	StorageDriverMinio = "minio"
	StorageDriverLocal = "local"
)

// Config structure represents the application configuration
type Config struct {
	Server struct {
		Port         string `yaml:"port" env:"SERVER_PORT"`
		Mode         string `yaml:"mode" env:"SERVER_MODE"`
		BaseURL      string `yaml:"base_url" env:"SERVER_BASE_URL"`
		ReadTimeout  string `yaml:"read_timeout" env:"SERVER_READ_TIMEOUT"`
		WriteTimeout string `yaml:"write_timeout" env:"SERVER_WRITE_TIMEOUT"`
	} `yaml:"server"`

	Database struct {
		Host            string `yaml:"host" env:"DB_HOST"`
		Port            string `yaml:"port" env:"DB_PORT"`
		User            string `yaml:"user" env:"DB_USER"`
		Password        string `yaml:"password" env:"DB_PASSWORD"`
		DBName          string `yaml:"dbname" env:"DB_NAME"`
		SSLMode         string `yaml:"sslmode" env:"DB_SSLMODE"`
		MaxIdleConns    int    `yaml:"max_idle_conns" env:"DB_MAX_IDLE_CONNS"`
		MaxOpenConns    int    `yaml:"max_open_conns" env:"DB_MAX_OPEN_CONNS"`
		ConnMaxLifetime string `yaml:"conn_max_lifetime" env:"DB_CONN_MAX_LIFETIME"`
		MigrationsDir   string `yaml:"migrations_dir" env:"DB_MIGRATIONS_DIR"`
	} `yaml:"database"`

	Session struct {
		Secret     string `yaml:"secret" env:"JWT_SECRET"`
		TTL        string `yaml:"ttl" env:"SESSION_TTL"`
		Issuer     string `yaml:"issuer" env:"SESSION_ISSUER"`
		CookieName string `yaml:"cookie_name" env:"SESSION_COOKIE_NAME"`
	} `yaml:"session"`

	Upload struct {
		MaxFileSize       int64    `yaml:"max_file_size" env:"MAX_FILE_SIZE"`
		AllowedExtensions []string `yaml:"allowed_extensions" env:"UPLOAD_ALLOWED_EXTENSIONS"`
		Folder            string   `yaml:"folder" env:"UPLOAD_FOLDER"`
	} `yaml:"upload"`

	Storage struct {
		Driver        string `yaml:"driver" env:"STORAGE_DRIVER"`
		Endpoint      string `yaml:"endpoint" env:"STORAGE_ENDPOINT"`
		AccessKey     string `yaml:"access_key" env:"STORAGE_ACCESS_KEY"`
		SecretKey     string `yaml:"secret_key" env:"STORAGE_SECRET_KEY"`
		Bucket        string `yaml:"bucket" env:"STORAGE_BUCKET"`
		Region        string `yaml:"region" env:"STORAGE_REGION"`
		PublicBaseURL string `yaml:"public_base_url" env:"STORAGE_PUBLIC_BASE_URL"`
		LocalPath     string `yaml:"local_path" env:"STORAGE_LOCAL_PATH"`
	} `yaml:"storage"`

	Seed struct {
		Enabled   bool   `yaml:"enabled" env:"SEED_ENABLED"`
		PFNumber  string `yaml:"pf_number" env:"SEED_PF_NUMBER"`
		Title     string `yaml:"title" env:"SEED_TITLE"`
		Password  string `yaml:"password" env:"SEED_PASSWORD"`
		FirstName string `yaml:"first_name" env:"SEED_FIRST_NAME"`
		LastName  string `yaml:"last_name" env:"SEED_LAST_NAME"`
		Email     string `yaml:"email" env:"SEED_EMAIL"`
	} `yaml:"seed"`

	Logging struct {
		Level  string `yaml:"level" env:"LOG_LEVEL"`
		Format string `yaml:"format" env:"LOG_FORMAT"`
	} `yaml:"logging"`
}

// LoadConfig loads configuration from a file and environment variables
func LoadConfig(configPath string) (*Config, error) {
	config := &Config{}
	setDefaults(config)

	// The file is optional; env vars alone are enough to run the service
	if _, err := os.Stat(configPath); err == nil {
		file, err := os.ReadFile(configPath)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}

		if err := yaml.Unmarshal(file, config); err != nil {
			return nil, fmt.Errorf("failed to parse config: %w", err)
		}
	}

	if err := loadFromEnv(config); err != nil {
		return nil, fmt.Errorf("failed to load from environment: %w", err)
	}

	if err := validateConfig(config); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return config, nil
}

// setDefaults sets default values for the configuration
func setDefaults(config *Config) {
	config.Server.Port = "8080"
	config.Server.Mode = "development"
	config.Server.ReadTimeout = "30s"
	config.Server.WriteTimeout = "60s"

	config.Database.Host = "localhost"
	config.Database.Port = "5432"
	config.Database.User = "postgres"
	config.Database.Password = "postgres"
	config.Database.DBName = "lecturehub"
	config.Database.SSLMode = "disable"
	config.Database.MaxIdleConns = 2
	config.Database.MaxOpenConns = 20
	config.Database.ConnMaxLifetime = "1h"
	config.Database.MigrationsDir = "migrations"

	config.Session.TTL = "168h"
	config.Session.Issuer = "lecturehub"
	config.Session.CookieName = "auth-token"

	config.Upload.MaxFileSize = 10 * 1024 * 1024
	config.Upload.AllowedExtensions = []string{".pdf", ".doc", ".docx", ".ppt", ".pptx", ".txt"}
	config.Upload.Folder = "lecture-materials"

	config.Storage.Driver = StorageDriverMinio
	config.Storage.Bucket = "lecture-materials"
	config.Storage.Region = "us-east-1"
	config.Storage.LocalPath = "uploads"

	config.Logging.Level = "info"
	config.Logging.Format = "json"
}

// loadFromEnv overrides configuration with environment variables
func loadFromEnv(config *Config) error {
	return processStructFields(config)
}

// validateConfig ensures that the configuration is valid
func validateConfig(config *Config) error {
	if config.Database.Host == "" {
		return fmt.Errorf("database host is required")
	}

	if config.Session.Secret == "" {
		return fmt.Errorf("session secret is required")
	}

	if _, err := time.ParseDuration(config.Session.TTL); err != nil {
		return fmt.Errorf("invalid session ttl format: %w", err)
	}

	if config.Upload.MaxFileSize <= 0 {
		return fmt.Errorf("max file size must be positive, got %d", config.Upload.MaxFileSize)
	}

	if len(config.Upload.AllowedExtensions) == 0 {
		return fmt.Errorf("at least one allowed upload extension is required")
	}

	switch config.Storage.Driver {
	case StorageDriverMinio:
		if config.Storage.Endpoint == "" || config.Storage.AccessKey == "" ||
			config.Storage.SecretKey == "" || config.Storage.Bucket == "" {
			return fmt.Errorf("minio storage configuration incomplete")
		}
	case StorageDriverLocal:
		if config.Storage.LocalPath == "" {
			return fmt.Errorf("local storage path is required")
		}
	default:
		return fmt.Errorf("unknown storage driver %q", config.Storage.Driver)
	}

	if config.Seed.Enabled && (config.Seed.PFNumber == "" || config.Seed.Password == "") {
		return fmt.Errorf("seed lecturer requires pf_number and password")
	}

	return nil
}

// IsProduction reports whether the server runs in production mode
func (c *Config) IsProduction() bool {
	return strings.ToLower(c.Server.Mode) == "production"
}

// PublicBaseURL returns the externally reachable base URL of this server
func (c *Config) PublicBaseURL() string {
	if c.Server.BaseURL != "" {
		return strings.TrimRight(c.Server.BaseURL, "/")
	}
	return "http://localhost:" + c.Server.Port
}

// GetPostgresConnectionString returns postgres connection string
func (c *Config) GetPostgresConnectionString() string {
	sslMode := c.Database.SSLMode
	if sslMode == "" {
		sslMode = "disable"
	}

	return fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=%s",
		c.Database.User,
		c.Database.Password,
		c.Database.Host,
		c.Database.Port,
		c.Database.DBName,
		sslMode,
	)
}

// GetEnv gets an environment variable or returns a default value
func GetEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

// GetEnvAsInt gets an environment variable as an integer or returns a default value
func GetEnvAsInt(key string, defaultValue int) int {
	valueStr := GetEnv(key, "")
	if value, err := strconv.Atoi(valueStr); err == nil {
		return value
	}
	return defaultValue
}
