// Package config loads settings shared by the admin CLI and the reference API.
//
// PRECEDENCE (lowest to highest):
//  1. Defaults()
//  2. YAML file named by STUDIO_CONFIG_PATH
//  3. a .env file in the working directory (loaded into the process env)
//  4. STUDIO_* environment variables
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"os"
	"strconv"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Upload limits. The original admin form checked 10MB while telling the user
// 5MB; 10 MiB is the enforced value and every message quotes it.
const (
	DefaultMaxFileSizeBytes = 10 * 1024 * 1024
	DefaultMaxGalleryCount  = 25
	DefaultPageSize         = 5
	DefaultBlogPageSize     = 6
)

// Config defines client, server and logging configuration.
type Config struct {
	Client ClientConfig `yaml:"client"`
	Server ServerConfig `yaml:"server"`
	Log    LogConfig    `yaml:"log"`
}

type ClientConfig struct {
	APIBaseURL       string `yaml:"api_base_url"`
	UploadsBaseURL   string `yaml:"uploads_base_url"`
	MaxFileSizeBytes int64  `yaml:"max_file_size_bytes"`
	MaxGalleryCount  int    `yaml:"max_gallery_count"`
	PageSize         int    `yaml:"page_size"`
	BlogPageSize     int    `yaml:"blog_page_size"`
	BlogIndex        string `yaml:"blog_index"`
	Token            string `yaml:"token"`
}

type ServerConfig struct {
	Port              int    `yaml:"port"`
	DBPath            string `yaml:"db_path"`
	UploadDir         string `yaml:"upload_dir"`
	JWTSecret         string `yaml:"jwt_secret"`
	AdminUser         string `yaml:"admin_user"`
	AdminPasswordHash string `yaml:"admin_password_hash"`
}

type LogConfig struct {
	Level string `yaml:"level"`
}

// Defaults returns a configuration pointing at a locally running reference API.
func Defaults() Config {
	return Config{
		Client: ClientConfig{
			APIBaseURL:       "http://localhost:8080/api",
			UploadsBaseURL:   "http://localhost:8080/uploads",
			MaxFileSizeBytes: DefaultMaxFileSizeBytes,
			MaxGalleryCount:  DefaultMaxGalleryCount,
			PageSize:         DefaultPageSize,
			BlogPageSize:     DefaultBlogPageSize,
			BlogIndex:        "public/blogs.json",
		},
		Server: ServerConfig{
			Port:      8080,
			DBPath:    "data/studio.db",
			UploadDir: "data/uploads",
			AdminUser: "admin",
		},
		Log: LogConfig{
			Level: "info",
		},
	}
}

// Load reads configuration from defaults, an optional YAML file, an optional
// .env file and the environment.
func Load() (Config, error) {
	cfg := Defaults()

	if path := os.Getenv("STUDIO_CONFIG_PATH"); path != "" {
		if err := loadFromFile(path, &cfg); err != nil {
			return Config{}, err
		}
	}

	// A missing .env is the normal case outside development.
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return Config{}, fmt.Errorf("load .env: %w", err)
	}

	if err := applyEnv(&cfg); err != nil {
		return Config{}, err
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func loadFromFile(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("parse config file: %w", err)
	}
	return nil
}

func applyEnv(cfg *Config) error {
	setString("STUDIO_API_BASE_URL", &cfg.Client.APIBaseURL)
	setString("STUDIO_UPLOADS_BASE_URL", &cfg.Client.UploadsBaseURL)
	setString("STUDIO_BLOG_INDEX", &cfg.Client.BlogIndex)
	setString("STUDIO_TOKEN", &cfg.Client.Token)
	setString("STUDIO_DB_PATH", &cfg.Server.DBPath)
	setString("STUDIO_UPLOAD_DIR", &cfg.Server.UploadDir)
	setString("STUDIO_JWT_SECRET", &cfg.Server.JWTSecret)
	setString("STUDIO_ADMIN_USER", &cfg.Server.AdminUser)
	setString("STUDIO_ADMIN_PASSWORD_HASH", &cfg.Server.AdminPasswordHash)
	setString("STUDIO_LOG_LEVEL", &cfg.Log.Level)

	if v := os.Getenv("STUDIO_MAX_FILE_SIZE_BYTES"); v != "" {
		n, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return fmt.Errorf("invalid STUDIO_MAX_FILE_SIZE_BYTES: %w", err)
		}
		cfg.Client.MaxFileSizeBytes = n
	}
	ints := []struct {
		key string
		dst *int
	}{
		{"STUDIO_MAX_GALLERY_COUNT", &cfg.Client.MaxGalleryCount},
		{"STUDIO_PAGE_SIZE", &cfg.Client.PageSize},
		{"STUDIO_BLOG_PAGE_SIZE", &cfg.Client.BlogPageSize},
		{"STUDIO_SERVER_PORT", &cfg.Server.Port},
	}
	for _, it := range ints {
		v := os.Getenv(it.key)
		if v == "" {
			continue
		}
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("invalid %s: %w", it.key, err)
		}
		*it.dst = n
	}
	return nil
}

func setString(key string, dst *string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}

// Validate rejects limits and URLs the client cannot work with.
func (c Config) Validate() error {
	if c.Client.MaxFileSizeBytes <= 0 {
		return errors.New("config: max_file_size_bytes must be positive")
	}
	if c.Client.MaxGalleryCount <= 0 {
		return errors.New("config: max_gallery_count must be positive")
	}
	if c.Client.PageSize <= 0 || c.Client.BlogPageSize <= 0 {
		return errors.New("config: page sizes must be positive")
	}
	for name, raw := range map[string]string{
		"api_base_url":     c.Client.APIBaseURL,
		"uploads_base_url": c.Client.UploadsBaseURL,
	} {
		u, err := url.Parse(raw)
		if err != nil || u.Scheme == "" || u.Host == "" {
			return fmt.Errorf("config: %s must be an absolute URL, got %q", name, raw)
		}
	}
	return nil
}

// LogLevel maps the configured level name onto slog.
func (c Config) LogLevel() slog.Level {
	switch c.Log.Level {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
