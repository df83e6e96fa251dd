// Package config loads runtime settings from the environment, optionally
// seeded from a .env file.
package config

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Config struct {
	Port           string
	MongoURI       string
	DatabaseName   string
	DatabaseDriver string

	JWTSecret string
	JWTExpire time.Duration

	AdminEmail    string
	AdminPassword string

	AllowedOrigins []string
	LogLevel       string
	LogFormat      string

	StorageDriver   string
	UploadDir       string
	PublicBaseURL   string
	MaxUploadSizeMB int

	GCSBucket       string
	CredentialsFile string

	R2Bucket          string
	R2AccessKeyID     string
	R2SecretAccessKey string
	R2Endpoint        string
	R2PublicDomain    string

	EmailHost       string
	EmailPort       int
	EmailUser       string
	EmailPass       string
	ContactNotifyTo string

	ContactRateLimit int
	LoginRateLimit   int
}

var defaults = map[string]any{
	"PORT":               "8080",
	"DATABASE_NAME":      "portfolio",
	"DATABASE_DRIVER":    "mongo",
	"JWT_EXPIRE":         "24h",
	"LOG_LEVEL":          "info",
	"LOG_FORMAT":         "text",
	"STORAGE_DRIVER":     "local",
	"UPLOAD_DIR":         "uploads",
	"MAX_UPLOAD_SIZE_MB": 5,
	"EMAIL_PORT":         587,
	"CONTACT_RATE_LIMIT": 5,
	"LOGIN_RATE_LIMIT":   10,
}

// Load reads a .env file when present and returns the environment-backed
// configuration.
func Load(envFile string) (*Config, error) {
	if envFile == "" {
		envFile = ".env"
	}
	// A missing .env is fine; real environments set variables directly.
	_ = godotenv.Load(envFile)

	v := viper.New()
	for k, val := range defaults {
		v.SetDefault(k, val)
	}
	v.AutomaticEnv()
	return FromViper(v)
}

// FromViper builds a Config from an already populated viper instance.
func FromViper(v *viper.Viper) (*Config, error) {
	expire, err := ParseExpire(v.GetString("JWT_EXPIRE"))
	if err != nil {
		return nil, fmt.Errorf("JWT_EXPIRE: %w", err)
	}
	port := v.GetString("PORT")
	if port == "" {
		port = "8080"
	}
	return &Config{
		Port:           port,
		MongoURI:       v.GetString("MONGODB_URI"),
		DatabaseName:   v.GetString("DATABASE_NAME"),
		DatabaseDriver: strings.ToLower(v.GetString("DATABASE_DRIVER")),

		JWTSecret: v.GetString("JWT_SECRET"),
		JWTExpire: expire,

		AdminEmail:    v.GetString("ADMIN_EMAIL"),
		AdminPassword: v.GetString("ADMIN_PASSWORD"),

		AllowedOrigins: SplitList(v.GetString("ALLOWED_ORIGINS")),
		LogLevel:       v.GetString("LOG_LEVEL"),
		LogFormat:      v.GetString("LOG_FORMAT"),

		StorageDriver:   strings.ToLower(v.GetString("STORAGE_DRIVER")),
		UploadDir:       v.GetString("UPLOAD_DIR"),
		PublicBaseURL:   strings.TrimRight(v.GetString("PUBLIC_BASE_URL"), "/"),
		MaxUploadSizeMB: v.GetInt("MAX_UPLOAD_SIZE_MB"),

		GCSBucket:       v.GetString("GCS_BUCKET"),
		CredentialsFile: v.GetString("CREDENTIALS_FILE_LOCATION"),

		R2Bucket:          v.GetString("R2_BUCKET"),
		R2AccessKeyID:     v.GetString("R2_ACCESS_KEY_ID"),
		R2SecretAccessKey: v.GetString("R2_SECRET_ACCESS_KEY"),
		R2Endpoint:        v.GetString("R2_ENDPOINT"),
		R2PublicDomain:    v.GetString("R2_PUBLIC_DOMAIN"),

		EmailHost:       v.GetString("EMAIL_HOST"),
		EmailPort:       v.GetInt("EMAIL_PORT"),
		EmailUser:       v.GetString("EMAIL_USER"),
		EmailPass:       v.GetString("EMAIL_PASS"),
		ContactNotifyTo: v.GetString("CONTACT_NOTIFY_TO"),

		ContactRateLimit: v.GetInt("CONTACT_RATE_LIMIT"),
		LoginRateLimit:   v.GetInt("LOGIN_RATE_LIMIT"),
	}, nil
}

// ParseExpire accepts Go durations ("12h") and whole days ("7d").
func ParseExpire(s string) (time.Duration, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 24 * time.Hour, nil
	}
	var d time.Duration
	if days, ok := strings.CutSuffix(s, "d"); ok {
		n, err := strconv.Atoi(days)
		if err != nil {
			return 0, fmt.Errorf("invalid day count %q", s)
		}
		d = time.Duration(n) * 24 * time.Hour
	} else {
		var err error
		if d, err = time.ParseDuration(s); err != nil {
			return 0, err
		}
	}
	if d <= 0 {
		return 0, errors.New("must be positive")
	}
	return d, nil
}

func SplitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

// UseMemory reports whether the in-memory store was selected.
func (c *Config) UseMemory() bool {
	return c.DatabaseDriver == "memory"
}

// Validate checks the settings required to serve HTTP traffic.
func (c *Config) Validate() error {
	if c.JWTSecret == "" {
		return errors.New("JWT_SECRET is required")
	}
	if !c.UseMemory() && c.MongoURI == "" {
		return errors.New("MONGODB_URI is required unless DATABASE_DRIVER=memory")
	}
	switch c.StorageDriver {
	case "local", "gcs", "r2":
	default:
		return fmt.Errorf("unknown STORAGE_DRIVER %q", c.StorageDriver)
	}
	return nil
}
