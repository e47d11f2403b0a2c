package config

import (
	"log"
	"strings"
	"time"

	"com.martdev.sellerhub/internal/env"
)

type Configuration struct {
	Addr         string
	Env          string
	IsProduction bool
	DB           dbConfig
	Redis        redisConfig
	Auth         authConfig
	Mail         mailConfig
}

type dbConfig struct {
	Addr                       string
	MaxOpenConns, MaxIdleConns int
	MaxIdleTime                string
}

type redisConfig struct {
	URL string
}

type authConfig struct {
	AccessSecret     string
	RefreshSecret    string
	ActivationSecret string
	CryptoSecret     string
	// AccessExpire is in minutes, RefreshExpire in days, matching the
	// ACCESS_TOKEN_EXPIRE / REFRESH_TOKEN_EXPIRE variables.
	AccessExpire     time.Duration
	RefreshExpire    time.Duration
	ActivationExpire time.Duration
}

type mailConfig struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
}

// Load reads the full configuration from the environment. It exits the
// process listing every required variable that is absent, so operators
// see all of them at once rather than one per restart.
func Load() Configuration {
	var missing []string

	environment := env.GetString("ENV", "development")
	isProduction := environment == "production"

	dbAddr := env.RequireString("DB_ADDR", &missing)
	if isProduction {
		// The online connection string carries a <db_password>
		// placeholder so the real password can live in its own variable.
		online := env.RequireString("DB_ADDR_ONLINE", &missing)
		dbPassword := env.RequireString("DB_PASSWORD_ONLINE", &missing)
		dbAddr = strings.Replace(online, "<db_password>", dbPassword, 1)
	}

	cfg := Configuration{
		Addr:         env.GetString("ADDR", ":8080"),
		Env:          environment,
		IsProduction: isProduction,
		DB: dbConfig{
			Addr:         dbAddr,
			MaxOpenConns: env.GetInt("DB_MAX_OPEN_CONNS", 30),
			MaxIdleConns: env.GetInt("DB_MAX_IDLE_CONNS", 30),
			MaxIdleTime:  env.GetString("DB_MAX_IDLE_TIME", "15m"),
		},
		Redis: redisConfig{
			URL: env.RequireString("REDIS_URL", &missing),
		},
		Auth: authConfig{
			AccessSecret:     env.RequireString("ACCESS_TOKEN_SECRET", &missing),
			RefreshSecret:    env.RequireString("REFRESH_TOKEN_SECRET", &missing),
			ActivationSecret: env.RequireString("ACTIVATION_SECRET", &missing),
			CryptoSecret:     env.RequireString("CRYPTO_SECRET", &missing),
			AccessExpire:     time.Duration(env.GetInt("ACCESS_TOKEN_EXPIRE", 5)) * time.Minute,
			RefreshExpire:    time.Duration(env.GetInt("REFRESH_TOKEN_EXPIRE", 3)) * 24 * time.Hour,
			ActivationExpire: 10 * time.Minute,
		},
		Mail: mailConfig{
			Host:     env.RequireString("EMAIL_HOST", &missing),
			Port:     env.RequireInt("EMAIL_PORT", &missing),
			Username: env.RequireString("EMAIL_USERNAME", &missing),
			Password: env.RequireString("EMAIL_PASSWORD", &missing),
			From:     env.RequireString("EMAIL_FROM", &missing),
		},
	}

	if len(missing) > 0 {
		log.Fatalf("missing environment variables: %s", strings.Join(missing, ", "))
	}

	return cfg
}
