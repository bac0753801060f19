// Package config handles the server configuration from environment variables.
package config

import (
	"os"
	"strconv"
	"time"

	"github.com/cubny/farewatch"
	"github.com/cubny/farewatch/internal/sqlsource"
)

// Config holds all server configuration
type Config struct {
	HTTP struct {
		Addr            string
		ShutdownTimeout time.Duration
	}
	Datasets farewatch.Config
	DB       struct {
		Driver string
		DSN    string
		Tables sqlsource.Tables
	}
	Log struct {
		Level  string
		Format string
	}
}

// Load reads the configuration from environment variables with defaults
func Load() Config {
	var cfg Config
	cfg.HTTP.Addr = envOrDefault("FAREWATCH_HTTP_ADDR", ":8080")
	cfg.HTTP.ShutdownTimeout = time.Duration(envOrDefaultInt("FAREWATCH_SHUTDOWN_TIMEOUT_SECONDS", 10)) * time.Second

	cfg.Datasets.OverchargePath = envOrDefault("FAREWATCH_OVERCHARGES", "outputs/results/overcharging_cases.csv")
	cfg.Datasets.AnomalyPath = envOrDefault("FAREWATCH_ROUTE_ANOMALIES", "outputs/results/route_anomalies.csv")
	cfg.Datasets.ZonePath = envOrDefault("FAREWATCH_ZONES", "data/taxi_zone_lookup.csv")

	cfg.DB.Driver = envOrDefault("FAREWATCH_DB_DRIVER", "postgres")
	cfg.DB.DSN = envOrDefault("FAREWATCH_DB_DSN", "")
	cfg.DB.Tables.Overcharges = envOrDefault("FAREWATCH_DB_OVERCHARGES_TABLE", sqlsource.DefaultTables.Overcharges)
	cfg.DB.Tables.Anomalies = envOrDefault("FAREWATCH_DB_ROUTE_ANOMALIES_TABLE", sqlsource.DefaultTables.Anomalies)
	cfg.DB.Tables.Zones = envOrDefault("FAREWATCH_DB_ZONES_TABLE", sqlsource.DefaultTables.Zones)

	cfg.Log.Level = envOrDefault("FAREWATCH_LOG_LEVEL", "info")
	cfg.Log.Format = envOrDefault("FAREWATCH_LOG_FORMAT", "json")
	return cfg
}

// UseDB reports whether datasets are read from a database instead of CSV files
func (c Config) UseDB() bool {
	return c.DB.DSN != ""
}

func envOrDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func envOrDefaultInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return def
}
