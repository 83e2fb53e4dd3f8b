package config

import (
	"fmt"

	"github.com/kelseyhightower/envconfig"
	"github.com/spf13/viper"
)

type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	Redis    RedisConfig
	JWT      JWTConfig
	SMTP     SMTPConfig
	Booking  BookingConfig
}

type ServerConfig struct {
	Port           int `mapstructure:"port"`
	TimeoutSeconds int `mapstructure:"timeoutSeconds"`
}

type DatabaseConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
	Name     string `mapstructure:"name"`
	SSLMode  string `mapstructure:"sslmode"`
}

type RedisConfig struct {
	URL string `mapstructure:"url"`
}

type JWTConfig struct {
	Secret             string `mapstructure:"secret"`
	RefreshSecret      string `mapstructure:"refresh_secret"`
	ExpiryHours        int    `mapstructure:"expiry_hours"`
	RefreshExpiryHours int    `mapstructure:"refresh_expiry_hours"`
}

type SMTPConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	Username string `mapstructure:"username"`
	Password string `mapstructure:"password"`
	From     string `mapstructure:"from"`
}

type BookingConfig struct {
	// TimeSlots overrides the default daily slot grid when set.
	TimeSlots []string `mapstructure:"time_slots"`
	// SessionTTLMinutes bounds how long an idle wizard session is kept.
	SessionTTLMinutes int `mapstructure:"session_ttl_minutes"`
}

// envOverrides are deployment-time overrides applied on top of the YAML
// file. Only secrets and endpoints belong here.
type envOverrides struct {
	DatabasePassword string `envconfig:"DB_PASSWORD"`
	DatabaseHost     string `envconfig:"DB_HOST"`
	RedisURL         string `envconfig:"REDIS_URL"`
	JWTSecret        string `envconfig:"JWT_SECRET"`
	JWTRefreshSecret string `envconfig:"JWT_REFRESH_SECRET"`
	SMTPPassword     string `envconfig:"SMTP_PASSWORD"`
}

func LoadConfig() (*Config, error) {
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")
	viper.AddConfigPath("./config")

	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var config Config
	if err := viper.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	var env envOverrides
	if err := envconfig.Process("", &env); err != nil {
		return nil, fmt.Errorf("failed to process env overrides: %w", err)
	}
	applyOverrides(&config, env)

	if config.Booking.SessionTTLMinutes <= 0 {
		config.Booking.SessionTTLMinutes = 30
	}

	return &config, nil
}

func applyOverrides(cfg *Config, env envOverrides) {
	if env.DatabasePassword != "" {
		cfg.Database.Password = env.DatabasePassword
	}
	if env.DatabaseHost != "" {
		cfg.Database.Host = env.DatabaseHost
	}
	if env.RedisURL != "" {
		cfg.Redis.URL = env.RedisURL
	}
	if env.JWTSecret != "" {
		cfg.JWT.Secret = env.JWTSecret
	}
	if env.JWTRefreshSecret != "" {
		cfg.JWT.RefreshSecret = env.JWTRefreshSecret
	}
	if env.SMTPPassword != "" {
		cfg.SMTP.Password = env.SMTPPassword
	}
}
