package config // package config loads application configuration from environment variables

import (
	"log"
	"os"
	"strconv"
)

// Config holds all runtime configuration values. Each field corresponds
// to an environment variable. DBDriver selects the persistence backend:
// "mysql" for deployments, "sqlite3" for local single-file setups and
// the test suite.
type Config struct {
	Env            string // application environment (e.g. "dev", "prod")
	Port           string // HTTP port to listen on
	DBDriver       string // "mysql" or "sqlite3"
	DBUser         string // database username (mysql)
	DBPass         string // database password (mysql, optional)
	DBHost         string // database host address (mysql)
	DBPort         string // database port number (mysql)
	DBName         string // database name (mysql)
	SQLitePath     string // database file path (sqlite3)
	SessionTTLHrs  int    // session lifetime in hours
	BcryptCost     int    // bcrypt cost for password hashing
}

// Load reads configuration from environment variables. Required values
// are enforced by must(); a missing one exits with a fatal log message.
// Only the variables for the selected database driver are required.
func Load() Config {
	cfg := Config{
		Env:           must("APP_ENV"),
		Port:          must("APP_PORT"),
		DBDriver:      getenvDefault("DB_DRIVER", "mysql"),
		SessionTTLHrs: mustInt("SESSION_TTL_HOURS"),
		BcryptCost:    mustInt("BCRYPT_COST"),
	}
	if cfg.DBDriver == "sqlite3" {
		cfg.SQLitePath = getenvDefault("SQLITE_PATH", "app.db")
		return cfg
	}
	cfg.DBUser = must("DB_USER")
	cfg.DBPass = os.Getenv("DB_PASS") // empty allowed
	cfg.DBHost = must("DB_HOST")
	cfg.DBPort = must("DB_PORT")
	cfg.DBName = must("DB_NAME")
	return cfg
}

// must retrieves a required environment variable or exits.
func must(key string) string {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		log.Fatalf("missing required env var: %s", key)
	}
	return v
}

// mustInt is like must() but converts the value to an integer.
func mustInt(key string) int {
	s := must(key)
	n, err := strconv.Atoi(s)
	if err != nil {
		log.Fatalf("invalid int for %s: %q", key, s)
	}
	return n
}

func getenvDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
