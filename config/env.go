package config

import (
	"fmt"
	"os"
)

type AppEnv struct {
	LogLvl     string
	ServerPort string

	PgHost     string
	PgPort     string
	PgUser     string
	PgPassword string
	PgDbName   string
	SSLMode    string
	TimeZone   string

	RedisAddr     string
	RedisPassword string

	JwtSecret string

	GeocodeURL string

	SupervisorEmail    string
	SupervisorPassword string
}

func GetEnvironment() (env AppEnv, err error) {
	env = AppEnv{
		LogLvl:             getEnv("LOG_LEVEL", "debug"),
		ServerPort:         getEnv("SERVER_PORT", "8080"),
		PgHost:             getEnv("POSTGRES_HOST", ""),
		PgPort:             getEnv("POSTGRES_PORT", ""),
		PgUser:             getEnv("POSTGRES_USER", ""),
		PgPassword:         getEnv("POSTGRES_PASSWORD", ""),
		PgDbName:           getEnv("POSTGRES_DB", ""),
		SSLMode:            getEnv("POSTGRES_SSL_MODE", "disable"),
		TimeZone:           getEnv("POSTGRES_TIMEZONE", "UTC"),
		RedisAddr:          getEnv("REDIS_ADDR", "localhost:6379"),
		RedisPassword:      getEnv("REDIS_PASSWORD", ""),
		JwtSecret:          getEnv("JWT_SECRET", ""),
		GeocodeURL:         getEnv("GEOCODE_URL", "https://nominatim.openstreetmap.org"),
		SupervisorEmail:    getEnv("SUPERVISOR_EMAIL", ""),
		SupervisorPassword: getEnv("SUPERVISOR_PASSWORD", ""),
	}

	if env.PgHost == "" || env.PgPort == "" || env.PgUser == "" ||
		env.PgPassword == "" || env.PgDbName == "" || env.JwtSecret == "" {
		return env, fmt.Errorf("incorrect environment params")
	}

	if env.SupervisorEmail == "" || env.SupervisorPassword == "" {
		return env, fmt.Errorf("incorrect environment params")
	}

	return env, nil
}

func getEnv(key string, defaultVal string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}

	return defaultVal
}
