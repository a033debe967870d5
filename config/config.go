package config

import (
	"errors"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
	"github.com/spf13/viper"
)

type Config struct {
	Server   Server
	Database Database
	JWT      JWT
	Gemini   Gemini
	LogLevel string
}

type Server struct {
	Port               string
	GinMode            string
	CORSAllowedOrigins []string
}

// Database selects the gorm dialector. Driver is "postgres" or "sqlite";
// DSN is only read for sqlite.
type Database struct {
	Driver   string
	Host     string
	Port     string
	User     string
	Password string
	Name     string
	SSLMode  string
	DSN      string
}

type JWT struct {
	Secret     string
	Issuer     string
	AccessTTL  time.Duration
	RefreshTTL time.Duration
}

type Gemini struct {
	APIKey string
	Model  string
}

func NewConfig() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		log.Debug().Err(err).Msg("No .env file loaded, using process environment")
	}

	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")

	viper.SetDefault("SERVER_PORT", "8080")
	viper.SetDefault("GIN_MODE", "debug")
	viper.SetDefault("CORS_ALLOWED_ORIGINS", "*")
	viper.SetDefault("LOG_LEVEL", "info")
	viper.SetDefault("DATABASE_DRIVER", "postgres")
	viper.SetDefault("DATABASE_HOST", "localhost")
	viper.SetDefault("DATABASE_PORT", "5432")
	viper.SetDefault("DATABASE_SSLMODE", "disable")
	viper.SetDefault("DATABASE_DSN", "file:quizdesk.db?_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)")
	viper.SetDefault("JWT_ISSUER", "quizdesk")
	viper.SetDefault("JWT_ACCESS_TTL", "5m")
	viper.SetDefault("JWT_REFRESH_TTL", "24h")
	viper.SetDefault("GEMINI_MODEL", "gemini-1.5-flash")

	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, err
		}
		log.Debug().Msg("config.yaml not found, using environment variables and defaults")
	}

	var config Config

	config.Server.Port = viper.GetString("SERVER_PORT")
	config.Server.GinMode = viper.GetString("GIN_MODE")
	config.Server.CORSAllowedOrigins = splitList(viper.GetString("CORS_ALLOWED_ORIGINS"))
	config.LogLevel = viper.GetString("LOG_LEVEL")

	config.Database.Driver = strings.ToLower(viper.GetString("DATABASE_DRIVER"))
	config.Database.Host = viper.GetString("DATABASE_HOST")
	config.Database.Port = viper.GetString("DATABASE_PORT")
	config.Database.User = viper.GetString("DATABASE_USER")
	config.Database.Password = viper.GetString("DATABASE_PASSWORD")
	config.Database.Name = viper.GetString("DATABASE_NAME")
	config.Database.SSLMode = viper.GetString("DATABASE_SSLMODE")
	config.Database.DSN = viper.GetString("DATABASE_DSN")

	config.JWT.Secret = viper.GetString("JWT_SECRET")
	config.JWT.Issuer = viper.GetString("JWT_ISSUER")
	config.JWT.AccessTTL = viper.GetDuration("JWT_ACCESS_TTL")
	config.JWT.RefreshTTL = viper.GetDuration("JWT_REFRESH_TTL")

	config.Gemini.APIKey = viper.GetString("GEMINI_API_KEY")
	config.Gemini.Model = viper.GetString("GEMINI_MODEL")

	if config.JWT.Secret == "" {
		return nil, errors.New("JWT_SECRET must be set")
	}

	log.Info().
		Str("port", config.Server.Port).
		Str("db_driver", config.Database.Driver).
		Str("db_host", config.Database.Host).
		Str("db_name", config.Database.Name).
		Dur("access_ttl", config.JWT.AccessTTL).
		Bool("gemini_enabled", config.Gemini.APIKey != "").
		Msg("Config loaded")
	return &config, nil
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
