package config

import (
	"fmt"
	"foodievent/src/types"
	"os"
	"strconv"
	"strings"
	"time"
)

const (
	// FORM_TIME_FORMAT is the layout of datetime-local form inputs.
	FORM_TIME_FORMAT  = "2006-01-02T15:04"
	TIME_PARSE_FORMAT = "2006-01-02 15:04:05 -07:00"
)

type Config struct {
	ApiEnv          types.AppEnv
	Port            string
	AppHost         string
	DatabaseDriver  string
	SqlitePath      string
	JwtSecret       []byte
	TokenTTL        time.Duration
	BcryptCost      int
	RedisHost       string
	AmqpURL         string
	SmtpHost        string
	SmtpPort        int
	SmtpUsername    string
	SmtpPassword    string
	MailFrom        string
	StorageDriver   string
	UploadDir       string
	AssetsBucket    string
	RecomputeEvery  time.Duration
	MaintenanceMode bool
}

func Load() Config {
	return Config{
		ApiEnv:          types.AppEnv(envStr("API_ENV", string(types.Local))),
		Port:            envStr("PORT", "8080"),
		AppHost:         os.Getenv("APP_HOST"),
		DatabaseDriver:  envStr("DATABASE_DRIVER", "postgres"),
		SqlitePath:      envStr("SQLITE_PATH", "foodievent.db"),
		JwtSecret:       []byte(os.Getenv("JWT_SECRET")),
		TokenTTL:        envDur("TOKEN_TTL", 24*time.Hour),
		BcryptCost:      envInt("BCRYPT_COST", 12),
		RedisHost:       os.Getenv("REDIS_HOST"),
		AmqpURL:         os.Getenv("AMQP_URL"),
		SmtpHost:        os.Getenv("SMTP_HOST"),
		SmtpPort:        envInt("SMTP_PORT", 587),
		SmtpUsername:    os.Getenv("SMTP_USERNAME"),
		SmtpPassword:    os.Getenv("SMTP_PASSWORD"),
		MailFrom:        envStr("MAIL_FROM", "no-reply@foodievent.com.au"),
		StorageDriver:   envStr("STORAGE_DRIVER", "local"),
		UploadDir:       envStr("UPLOAD_DIR", "static/img"),
		AssetsBucket:    os.Getenv("S3_ASSETS_BUCKET"),
		RecomputeEvery:  envDur("STATUS_RECOMPUTE_INTERVAL", time.Minute),
		MaintenanceMode: envBool("MAINTENANCE_MODE", false),
	}
}

func (c Config) IsProd() bool {
	return c.ApiEnv == types.Production
}

// const dsn = "host=localhost user=postgres password=password dbname=foodievent port=5432 sslmode=disable TimeZone=Australia/Brisbane"

func GetDSN() string {
	DATABASE_HOST := os.Getenv("DATABASE_HOST")
	DATABASE_PORT := os.Getenv("DATABASE_PORT")
	DATABASE_SSLMODE := envStr("DATABASE_SSLMODE", "disable")
	DATABASE_TIMEZONE := envStr("DATABASE_TIMEZONE", "Australia/Brisbane")
	DATABASE_USER := os.Getenv("DATABASE_USER")
	DATABASE_PASSWORD := os.Getenv("DATABASE_PASSWORD")
	DATABASE_NAME := os.Getenv("DATABASE_NAME")
	dsn := fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=%s TimeZone=%s", DATABASE_HOST, DATABASE_USER, DATABASE_PASSWORD, DATABASE_NAME, DATABASE_PORT, DATABASE_SSLMODE, DATABASE_TIMEZONE)
	return dsn
}

func envStr(key, def string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return def
}

func envInt(key string, def int) int {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return n
}

func envDur(key string, def time.Duration) time.Duration {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return def
	}
	return d
}

func envBool(key string, def bool) bool {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return def
	}
	return b
}
