package config

import (
	"log"

	"github.com/caarlos0/env/v6"
	"github.com/joho/godotenv"

	"github.com/inboxpulse/inboxpulse/internal/logger"
	"github.com/inboxpulse/inboxpulse/internal/tracing"
)

type Config struct {
	AppConfig      *AppConfig
	ScanConfig     *ScanConfig
	GmailConfig    *GmailConfig
	Logger         *logger.Config
	Tracing        *tracing.JaegerConfig
	DatabaseConfig *DatabaseConfig
}

func InitConfig() (*Config, error) {
	config := &Config{
		AppConfig:      &AppConfig{},
		ScanConfig:     &ScanConfig{},
		GmailConfig:    &GmailConfig{},
		Logger:         &logger.Config{},
		Tracing:        &tracing.JaegerConfig{},
		DatabaseConfig: &DatabaseConfig{},
	}

	err := godotenv.Load()
	if err != nil {
		log.Print("Unable to load .env file")
	}

	err = env.Parse(config)
	if err != nil {
		log.Fatalf("Error loading inboxpulse config: %v", err)
	}

	return config, nil
}
