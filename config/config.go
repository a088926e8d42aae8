package config

import (
	"errors"
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/nonsonwune/hemis_report/models"
)

// Defaults used when the corresponding variable is not set
const (
	DefaultBaseURL       = "https://talaba.timeedu.uz/rest/v1/data"
	DefaultEducationYear = 2025
	DefaultSemester      = 13 // 11 -> 1st semester, 12 -> 2nd semester
	DefaultExamType      = int(models.ExamTypeFinal)
	DefaultPageLimit     = 200
	DefaultAPIDelay      = 100 * time.Millisecond
	DefaultOutputFile    = "exam_report.xlsx"
	DefaultRedisTTL      = 24 * time.Hour
)

// Config holds everything a report run needs
type Config struct {
	Token         string        `validate:"required"`
	BaseURL       string        `validate:"required,url"`
	EducationYear int           `validate:"required,gt=0"`
	Semester      int           `validate:"required,gt=0"`
	ExamType      int           `validate:"required,gt=0"`
	PageLimit     int           `validate:"required,gt=0,lte=1000"`
	APIDelay      time.Duration `validate:"gte=0"`
	OutputFile    string        `validate:"required"`

	RedisAddr string
	RedisTTL  time.Duration `validate:"gte=0"`

	DB DBConfig
}

// DBConfig is the optional PostgreSQL archive connection
type DBConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	Name     string
}

// Enabled reports whether an archive database was configured
func (d DBConfig) Enabled() bool {
	return d.Host != ""
}

// DSN returns a lib/pq connection string
func (d DBConfig) DSN() string {
	port := d.Port
	if port == "" {
		port = "5432"
	}
	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=disable",
		d.Host, port, d.User, d.Password, d.Name)
}

// ErrMissingToken is returned by Load when HEMIS_TOKEN is empty
var ErrMissingToken = errors.New("HEMIS_TOKEN is not set")

var validate = validator.New()

// Load reads .env (if present) and the process environment.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: .env file not found, using system environment")
	}
	return FromEnv(os.Getenv)
}

// FromEnv builds a Config from getenv, applying defaults and validation.
func FromEnv(getenv func(string) string) (*Config, error) {
	cfg := &Config{
		Token:      strings.TrimSpace(getenv("HEMIS_TOKEN")),
		BaseURL:    stringOr(getenv("HEMIS_BASE_URL"), DefaultBaseURL),
		OutputFile: stringOr(getenv("OUTPUT_FILE"), DefaultOutputFile),
		RedisAddr:  getenv("REDIS_ADDR"),
		DB: DBConfig{
			Host:     getenv("DB_HOST"),
			Port:     getenv("DB_PORT"),
			User:     getenv("DB_USER"),
			Password: getenv("DB_PASSWORD"),
			Name:     getenv("DB_NAME"),
		},
	}
	if cfg.Token == "" {
		return nil, ErrMissingToken
	}

	var err error
	if cfg.EducationYear, err = intOr(getenv, "EDUCATION_YEAR", DefaultEducationYear); err != nil {
		return nil, err
	}
	if cfg.Semester, err = intOr(getenv, "SEMESTER", DefaultSemester); err != nil {
		return nil, err
	}
	if cfg.ExamType, err = intOr(getenv, "EXAM_TYPE", DefaultExamType); err != nil {
		return nil, err
	}
	if cfg.PageLimit, err = intOr(getenv, "PAGE_LIMIT", DefaultPageLimit); err != nil {
		return nil, err
	}

	delayMS, err := intOr(getenv, "API_DELAY_MS", int(DefaultAPIDelay/time.Millisecond))
	if err != nil {
		return nil, err
	}
	cfg.APIDelay = time.Duration(delayMS) * time.Millisecond

	cfg.RedisTTL = DefaultRedisTTL
	if v := getenv("REDIS_TTL"); v != "" {
		ttl, err := time.ParseDuration(v)
		if err != nil {
			return nil, fmt.Errorf("invalid REDIS_TTL %q: %w", v, err)
		}
		cfg.RedisTTL = ttl
	}

	if err := validate.Struct(cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

func stringOr(v, def string) string {
	if v = strings.TrimSpace(v); v != "" {
		return v
	}
	return def
}

func intOr(getenv func(string) string, key string, def int) (int, error) {
	v := strings.TrimSpace(getenv(key))
	if v == "" {
		return def, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q: %w", key, v, err)
	}
	return n, nil
}
