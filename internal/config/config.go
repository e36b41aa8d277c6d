package config

import (
	"fmt"
	"log"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Server   ServerConfig   `yaml:"Server"`
	DB       DBConfig       `yaml:"DB"`
	Gateway  GatewayConfig  `yaml:"Gateway"`
	Notifier NotifierConfig `yaml:"Notifier"`
	Token    TokenConfig    `yaml:"Token"`
	Logger   LoggerConfig   `yaml:"Logger"`
}

type ServerConfig struct {
	Port string `yaml:"port" default:"8080"`
}

type DBConfig struct {
	DatabaseURL        string        `yaml:"databaseURL"`
	MaxOpenConnection  int           `yaml:"maxOpenConnection" default:"15"`
	MaxIdleConnection  int           `yaml:"maxIdleConnection" default:"10"`
	ConnectionLifetime time.Duration `yaml:"connectionLifetime" default:"3600"`
}

// GatewayConfig configures the payout provider. Bypass simulates transfers
// without touching the network and must be set explicitly; it is never
// inferred from missing credentials.
type GatewayConfig struct {
	BaseURL      string        `yaml:"baseURL"`
	ClientID     string        `yaml:"clientID"`
	ClientSecret string        `yaml:"clientSecret"`
	Bypass       bool          `yaml:"bypass"`
	Timeout      time.Duration `yaml:"timeout" default:"30s"`
}

type NotifierConfig struct {
	BaseURL string `yaml:"baseURL"`
	APIKey  string `yaml:"apiKey"`
	Sender  string `yaml:"sender" default:"FITCSH"`
	Enabled bool   `yaml:"enabled"`
}

type TokenConfig struct {
	AuthToken string `yaml:"authToken" default:"test-token"`
}

type LoggerConfig struct {
	LoggerLevel string `yaml:"loggerLevel" default:"info"`
}

func Load() (*Config, error) {
	viper.AutomaticEnv()

	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")
	viper.AddConfigPath("./internal/config")

	viper.SetDefault("Server.port", "8080")
	viper.SetDefault("DB.maxOpenConnection", 15)
	viper.SetDefault("DB.maxIdleConnection", 10)
	viper.SetDefault("DB.connectionLifetime", time.Hour)
	viper.SetDefault("Gateway.timeout", 30*time.Second)
	viper.SetDefault("Notifier.sender", "FITCSH")
	viper.SetDefault("Logger.loggerLevel", "info")

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			log.Println("config file not found, using environment and defaults")
		} else {
			log.Println("error reading config file")
		}
	} else {
		log.Printf("using config file: %s", viper.ConfigFileUsed())
	}

	var config Config

	if err := viper.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("unable to decode into struct: %w", err)
	}

	return &config, nil
}
