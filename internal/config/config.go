package config

import (
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Config struct {
	ServerPort     string  `mapstructure:"SERVER_PORT"`
	KVBackend      string  `mapstructure:"KV_BACKEND"`
	KVSQLitePath   string  `mapstructure:"KV_SQLITE_PATH"`
	PostgresURL    string  `mapstructure:"POSTGRES_URL"`
	RedisAddr      string  `mapstructure:"REDIS_ADDR"`
	RedisPassword  string  `mapstructure:"REDIS_PASSWORD"`
	RouteLatencyMS int     `mapstructure:"ROUTE_LATENCY_MS"`
	RouteCenterLat float64 `mapstructure:"ROUTE_CENTER_LAT"`
	RouteCenterLng float64 `mapstructure:"ROUTE_CENTER_LNG"`
	Timezone       string  `mapstructure:"TIMEZONE"`
	LogLevel       string  `mapstructure:"LOG_LEVEL"`
}

// Load reads an optional .env file, then the process environment.
func Load() Config {
	_ = godotenv.Load()

	v := viper.New()
	v.AutomaticEnv()
	v.SetDefault("SERVER_PORT", ":8080")
	v.SetDefault("KV_BACKEND", "sqlite")
	v.SetDefault("KV_SQLITE_PATH", "ecocommute.db")
	v.SetDefault("POSTGRES_URL", "")
	v.SetDefault("REDIS_ADDR", "")
	v.SetDefault("REDIS_PASSWORD", "")
	v.SetDefault("ROUTE_LATENCY_MS", 1500)
	v.SetDefault("ROUTE_CENTER_LAT", 37.7749)
	v.SetDefault("ROUTE_CENTER_LNG", -122.4194)
	v.SetDefault("TIMEZONE", "Local")
	v.SetDefault("LOG_LEVEL", "info")

	var cfg Config
	_ = v.Unmarshal(&cfg)
	return cfg
}
