package config

import (
	"context"
	"errors"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Env  string
	Port int

	DBURL string

	JWTSecret     string
	JWTTTLMinutes int

	CORSOrigins []string

	RedisAddr     string
	RedisPassword string
	RedisDB       int

	OtelEndpoint string

	// optional bootstrap teacher account
	TeacherEmail    string
	TeacherPassword string
	TeacherName     string

	BcryptCost int
}

var ErrMissingJWTSecret = errors.New("JWT_SECRET is not set")

// Load reads configuration from the environment. A .env file is loaded first
// when present so local dev matches the deployed shape.
func Load() (Config, error) {
	_ = godotenv.Load()

	cfg := Config{
		Env:             getEnv("APP_ENV", "dev"),
		Port:            getEnvInt("PORT", 8080),
		DBURL:           buildDBURL(),
		JWTSecret:       os.Getenv("JWT_SECRET"),
		JWTTTLMinutes:   getEnvInt("JWT_TTL_MINUTES", 60*24*7),
		CORSOrigins:     splitCSV(getEnv("CORS_ORIGINS", "")),
		RedisAddr:       getEnv("REDIS_ADDR", ""),
		RedisPassword:   getEnv("REDIS_PASSWORD", ""),
		RedisDB:         getEnvInt("REDIS_DB", 0),
		OtelEndpoint:    getEnv("OTEL_EXPORTER_ENDPOINT", ""),
		TeacherEmail:    getEnv("TEACHER_EMAIL", ""),
		TeacherPassword: getEnv("TEACHER_PASSWORD", ""),
		TeacherName:     getEnv("TEACHER_NAME", "Teacher"),
		BcryptCost:      getEnvInt("BCRYPT_COST", 0),
	}

	// No fallback secret. A literal default here is how tokens get forged in
	// prod, so the process refuses to start without one.
	if cfg.JWTSecret == "" {
		return Config{}, ErrMissingJWTSecret
	}

	return cfg, nil
}

func (c Config) JWTTTL() time.Duration {
	return time.Duration(c.JWTTTLMinutes) * time.Minute
}

func buildDBURL() string {
	host := getEnv("DB_HOST", "127.0.0.1")
	port := getEnv("DB_PORT", "5432")
	user := getEnv("DB_USER", "lingohub")
	pass := getEnv("DB_PASSWORD", "lingohub")
	name := getEnv("DB_NAME", "lingohub")
	ssl := getEnv("DB_SSLMODE", "disable")

	return "postgres://" + user + ":" + pass + "@" + host + ":" + port + "/" + name + "?sslmode=" + ssl
}

func WithTimeout(duration time.Duration) (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), duration)
}

func splitCSV(raw string) []string {
	if raw == "" {
		return nil
	}

	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))

	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			out = append(out, p)
		}
	}

	return out
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}

	return fallback
}

func getEnvInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		num, err := strconv.Atoi(v)

		if err != nil {
			return fallback
		}

		return num
	}
	return fallback
}
