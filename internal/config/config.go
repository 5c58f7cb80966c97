package config

import (
	"os"

	"github.com/joho/godotenv"
)

type Config struct {
	AppPort      string
	PublicOrigin string

	NaverClientID     string
	NaverClientSecret string
	NaverRedirectURL  string

	GoogleClientID     string
	GoogleClientSecret string
	GoogleRedirectURL  string

	TokenSigningSecret string

	RedisAddr     string
	RedisPassword string

	DatabaseDSN string

	StorageDir string
}

func Load() Config {

	_ = godotenv.Load()

	cfg := Config{

		AppPort:      os.Getenv("APP_PORT"),
		PublicOrigin: os.Getenv("PUBLIC_ORIGIN"),

		NaverClientID:     os.Getenv("NAVER_CLIENT_ID"),
		NaverClientSecret: os.Getenv("NAVER_CLIENT_SECRET"),
		NaverRedirectURL:  os.Getenv("NAVER_REDIRECT_URL"),

		GoogleClientID:     os.Getenv("GOOGLE_CLIENT_ID"),
		GoogleClientSecret: os.Getenv("GOOGLE_CLIENT_SECRET"),
		GoogleRedirectURL:  os.Getenv("GOOGLE_REDIRECT_URL"),

		TokenSigningSecret: os.Getenv("TOKEN_SIGNING_SECRET"),

		RedisAddr:     os.Getenv("REDIS_ADDR"),
		RedisPassword: os.Getenv("REDIS_PASSWORD"),

		DatabaseDSN: os.Getenv("DATABASE_DSN"),

		StorageDir: os.Getenv("STORAGE_DIR"),
	}

	if cfg.AppPort == "" {
		cfg.AppPort = "8080"
	}
	if cfg.StorageDir == "" {
		cfg.StorageDir = "./data/files"
	}

	return cfg

}
