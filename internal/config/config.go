package config // package config loads application configuration from environment variables

import (
	"log"     // log reports missing configuration and halts startup
	"os"      // os provides access to environment variables
	"strconv" // strconv parses numeric variables
)

// Config carries every runtime setting the server needs.  One field per
// environment variable; strings for hosts and secrets, ints for TTLs and
// the bcrypt cost.
type Config struct {
	Env            string // application environment ("dev", "prod", ...)
	Port           string // HTTP port to listen on
	DBUser         string // MySQL username
	DBPass         string // MySQL password (may be empty)
	DBHost         string // MySQL host
	DBPort         string // MySQL port
	DBName         string // MySQL database name
	JWTSecret      string // secret used to sign access tokens
	AccessTTLMin   int    // access token lifetime in minutes
	RefreshTTLDays int    // refresh token lifetime in days
	BcryptCost     int    // bcrypt cost for password hashing
}

// Load reads the configuration from the environment.  Variables without a
// sane fallback are required; a missing one is a fatal startup error.
func Load() Config {
	return Config{
		Env:            must("APP_ENV"),
		Port:           must("APP_PORT"),
		DBUser:         must("DB_USER"),
		DBPass:         os.Getenv("DB_PASS"), // empty password is allowed for local dev
		DBHost:         must("DB_HOST"),
		DBPort:         must("DB_PORT"),
		DBName:         must("DB_NAME"),
		JWTSecret:      must("JWT_SECRET"),
		AccessTTLMin:   mustInt("ACCESS_TOKEN_TTL_MIN"),
		RefreshTTLDays: mustInt("REFRESH_TOKEN_TTL_DAYS"),
		BcryptCost:     mustInt("BCRYPT_COST"),
	}
}

// must returns the value of a required environment variable or exits.
func must(key string) string {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		log.Fatalf("missing required env var: %s", key)
	}
	return v
}

// mustInt is must() with an integer conversion on top.
func mustInt(key string) int {
	s := must(key)
	n, err := strconv.Atoi(s)
	if err != nil {
		log.Fatalf("invalid int for %s: %q", key, s)
	}
	return n
}
