package config

import (
	"log"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Config struct {
	ServerPort     string
	BackendURL     string
	IdentitySecret string
	Currency       string
	LogMode        string
	RequestTimeout time.Duration
	SessionTTL     time.Duration
	CORSOrigins    string
}

func LoadConfig() (*Config, error) {
	err := godotenv.Load()
	if err != nil {
		log.Println("Error loading .env file, using environment variables")
	}

	v := viper.New()
	v.SetTypeByDefaultValue(true)
	v.SetDefault("SERVER_PORT", "8080")
	v.SetDefault("BACKEND_URL", "http://localhost:5000")
	v.SetDefault("IDENTITY_SECRET", "secret")
	v.SetDefault("CURRENCY", "$")
	v.SetDefault("LOG_MODE", "dev")
	v.SetDefault("REQUEST_TIMEOUT", 10*time.Second)
	v.SetDefault("SESSION_TTL", 30*time.Minute)
	v.SetDefault("CORS_ORIGINS", "*")
	v.AutomaticEnv()

	return fromViper(v), nil
}

func fromViper(v *viper.Viper) *Config {
	return &Config{
		ServerPort:     v.GetString("SERVER_PORT"),
		BackendURL:     strings.TrimRight(v.GetString("BACKEND_URL"), "/"),
		IdentitySecret: v.GetString("IDENTITY_SECRET"),
		Currency:       v.GetString("CURRENCY"),
		LogMode:        v.GetString("LOG_MODE"),
		RequestTimeout: v.GetDuration("REQUEST_TIMEOUT"),
		SessionTTL:     v.GetDuration("SESSION_TTL"),
		CORSOrigins:    v.GetString("CORS_ORIGINS"),
	}
}
