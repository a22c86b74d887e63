package config

import (
	"log"
	"os"

	"github.com/joho/godotenv"
)

type Config struct {
	DBDSN         string
	ServerPort    string
	SessionSecret string

	UploadDir   string // корень файлового хранилища фото
	CatalogPath string // yaml со стартовым прайс-листом

	PushFuncURL string // URL функции push-уведомлений (пусто — уведомления выключены)

	SMTPAddr string // host:port, пусто — письма выключены
	SMTPFrom string
}

func Load() *Config {
	_ = godotenv.Load()

	cfg := &Config{
		DBDSN:         os.Getenv("DB_DSN"),
		ServerPort:    os.Getenv("SERVER_PORT"),
		SessionSecret: os.Getenv("SESSION_SECRET"),
		UploadDir:     os.Getenv("UPLOAD_DIR"),
		CatalogPath:   os.Getenv("CATALOG_PATH"),
		PushFuncURL:   os.Getenv("PUSH_FUNC_URL"),
		SMTPAddr:      os.Getenv("SMTP_ADDR"),
		SMTPFrom:      os.Getenv("SMTP_FROM"),
	}

	if cfg.DBDSN == "" {
		log.Fatal("DB_DSN is not set")
	}
	if cfg.ServerPort == "" {
		cfg.ServerPort = "8080"
	}
	if cfg.SessionSecret == "" {
		log.Fatal("SESSION_SECRET is not set")
	}
	if cfg.UploadDir == "" {
		cfg.UploadDir = "./uploads"
	}
	if cfg.CatalogPath == "" {
		cfg.CatalogPath = "configs/catalog.yaml"
	}

	return cfg
}
