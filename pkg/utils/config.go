package utils

import (
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	App       AppConfig
	Database  DatabaseConfig
	JWT       JWTConfig
	Email     EmailConfig
	Reset     ResetConfig
	Admission AdmissionConfig
}

type AppConfig struct {
	Name    string
	Port    string
	Env     string // "development" | "production"
	Debug   bool
	LogPath string
}

func (a AppConfig) IsProduction() bool {
	return a.Env == "production"
}

type DatabaseConfig struct {
	Host     string
	Port     string
	Name     string
	User     string
	Password string
	MaxConns int32
}

type JWTConfig struct {
	Secret      string
	ExpiryHours int
}

func (j JWTConfig) Expiry() time.Duration {
	return time.Duration(j.ExpiryHours) * time.Hour
}

type EmailConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	From     string
}

type ResetConfig struct {
	// URLBase is the front-end reset page; the one-time code is appended
	// as the final path segment.
	URLBase string
}

type AdmissionConfig struct {
	Capacity          int
	RefillTokens      int
	RefillIntervalSec int
}

func LoadConfig() (*Config, error) {
	viper.SetConfigFile(".env")
	viper.SetConfigType("env")

	// Set defaults
	viper.SetDefault("APP_NAME", "auth-backend")
	viper.SetDefault("PORT", "8080")
	viper.SetDefault("APP_ENV", "development")
	viper.SetDefault("DEBUG", false)
	viper.SetDefault("LOG_PATH", "logs/")
	viper.SetDefault("DB_MAX_CONNS", 10)
	viper.SetDefault("JWT_EXPIRY_HOURS", 24)
	viper.SetDefault("RESET_URL_BASE", "http://localhost:3000/reset-password")
	viper.SetDefault("ADMISSION_CAPACITY", 5)
	viper.SetDefault("ADMISSION_REFILL_TOKENS", 2)
	viper.SetDefault("ADMISSION_REFILL_INTERVAL_SEC", 10)

	if err := viper.ReadInConfig(); err != nil {
		return nil, err
	}

	viper.AutomaticEnv()

	config := &Config{
		App: AppConfig{
			Name:    viper.GetString("APP_NAME"),
			Port:    viper.GetString("PORT"),
			Env:     viper.GetString("APP_ENV"),
			Debug:   viper.GetBool("DEBUG"),
			LogPath: viper.GetString("LOG_PATH"),
		},
		Database: DatabaseConfig{
			Host:     viper.GetString("DB_HOST"),
			Port:     viper.GetString("DB_PORT"),
			Name:     viper.GetString("DB_NAME"),
			User:     viper.GetString("DB_USER"),
			Password: viper.GetString("DB_PASS"),
			MaxConns: viper.GetInt32("DB_MAX_CONNS"),
		},
		JWT: JWTConfig{
			Secret:      viper.GetString("JWT_SECRET"),
			ExpiryHours: viper.GetInt("JWT_EXPIRY_HOURS"),
		},
		Email: EmailConfig{
			Host:     viper.GetString("SMTP_HOST"),
			Port:     viper.GetInt("SMTP_PORT"),
			User:     viper.GetString("SMTP_USER"),
			Password: viper.GetString("SMTP_PASS"),
			From:     viper.GetString("EMAIL_FROM"),
		},
		Reset: ResetConfig{
			URLBase: viper.GetString("RESET_URL_BASE"),
		},
		Admission: AdmissionConfig{
			Capacity:          viper.GetInt("ADMISSION_CAPACITY"),
			RefillTokens:      viper.GetInt("ADMISSION_REFILL_TOKENS"),
			RefillIntervalSec: viper.GetInt("ADMISSION_REFILL_INTERVAL_SEC"),
		},
	}

	return config, nil
}
