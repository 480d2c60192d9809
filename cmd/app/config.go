package main

import (
	"fmt"
	"strings"
	"time"

	"farm_miniapp/internal/login"
	"farm_miniapp/internal/repository"
	"farm_miniapp/internal/service"
	"farm_miniapp/internal/wallet"
	"farm_miniapp/pkg/logger"

	"github.com/spf13/viper"
)

const (
	configPath   = "./"
	configName   = "config"
	configFormat = "yaml"
)

type Config struct {
	Database repository.Config      `mapstructure:"database"`
	Redis    repository.RedisConfig `mapstructure:"redis"`
	Server   ServerConfig           `mapstructure:"server"`

	TelegramAuth TelegramAuthConfig    `mapstructure:"telegramAuth"`
	Payment      service.PaymentConfig `mapstructure:"payment"`

	Wallet   wallet.SequenceConfig  `mapstructure:"wallet"`
	Login    login.Config           `mapstructure:"login"`
	Sessions service.SessionsConfig `mapstructure:"sessions"`

	Logger logger.Config `mapstructure:"logger"`
}

type ServerConfig struct {
	Host            string        `mapstructure:"host"`
	Port            string        `mapstructure:"port"`
	ShutdownTimeout time.Duration `mapstructure:"shutdownTimeout"`
}

type TelegramAuthConfig struct {
	TelegramBotToken string `mapstructure:"telegramBotToken"`
	DebugMode        bool   `mapstructure:"debugMode"`
}

func LoadConfig() (*Config, error) {
	viper.SetConfigName(configName)
	viper.AddConfigPath(configPath)
	viper.SetConfigType(configFormat)

	viper.AutomaticEnv()
	viper.SetEnvPrefix("APP")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	viper.SetDefault("server.host", "0.0.0.0")
	viper.SetDefault("server.port", "8888")
	viper.SetDefault("server.shutdownTimeout", 10*time.Second)
	viper.SetDefault("redis.addrs", []string{"localhost:6379"})
	viper.SetDefault("sessions.size", 1024)
	viper.SetDefault("sessions.network", "testnet")
	viper.SetDefault("sessions.app", "Sunflower Land")
	viper.SetDefault("logger.level", "info")

	if err := viper.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if cfg.Payment.BotToken == "" {
		cfg.Payment.BotToken = cfg.TelegramAuth.TelegramBotToken
	}

	return &cfg, nil
}
