package config // package config loads application configuration from environment variables

import (
    "errors"
    "fmt"
    "strings"
    "time"

    "golang.org/x/crypto/bcrypt"
)

// DevJWTSecret signs tokens when JWT_SECRET is unset outside production.
const DevJWTSecret = "voyager-dev-secret-change-me"

// Config holds all runtime configuration values.  Each field corresponds to
// an environment variable.
type Config struct {
    Env              string        // application environment (dev, test, prod)
    Port             string        // HTTP port to listen on
    LogLevel         string        // debug, info, warn or error
    DBDriver         string        // "mysql" or "sqlite"
    DBFallbackSQLite bool          // open SQLite when MySQL is unreachable
    DBUser           string        // mysql user
    DBPass           string        // mysql password (optional)
    DBHost           string        // mysql host
    DBPort           string        // mysql port
    DBName           string        // mysql database name
    SQLitePath       string        // sqlite database file
    JWTSecret        string        // secret used to sign session tokens
    TokenTTL         time.Duration // session token lifetime
    BcryptCost       int           // bcrypt cost for password hashing
    SeedDemoUsers    bool          // create demo accounts in an empty users table
    CORSOrigins      []string      // allowed CORS origins
}

// UsingDevSecret reports whether tokens are signed with the built-in
// development secret.
func (c Config) UsingDevSecret() bool { return c.JWTSecret == DevJWTSecret }

// Load reads configuration values from environment variables and returns a
// Config.  Malformed values are reported rather than silently defaulted.
func Load() (Config, error) {
    var errs []error
    collect := func(err error) {
        if err != nil {
            errs = append(errs, err)
        }
    }

    cfg := Config{
        Env:        envStr("APP_ENV", "dev"),
        Port:       envStr("APP_PORT", envStr("PORT", "5000")),
        LogLevel:   envStr("LOG_LEVEL", "info"),
        DBDriver:   strings.ToLower(envStr("DB_DRIVER", "sqlite")),
        DBUser:     envStr("DB_USER", "root"),
        DBPass:     envStr("DB_PASS", envStr("DB_PASSWORD", "")),
        DBHost:     envStr("DB_HOST", "localhost"),
        DBPort:     envStr("DB_PORT", "3306"),
        DBName:     envStr("DB_NAME", "voyager_db"),
        SQLitePath: envStr("SQLITE_PATH", "voyager.db"),
        JWTSecret:  envStr("JWT_SECRET", envStr("SECRET_KEY", "")),
        CORSOrigins: splitList(envStr("CORS_ORIGINS", "*")),
    }

    var err error
    cfg.DBFallbackSQLite, err = envBool("DB_FALLBACK_SQLITE", true)
    collect(err)
    cfg.SeedDemoUsers, err = envBool("SEED_DEMO_USERS", false)
    collect(err)
    cfg.BcryptCost, err = envInt("BCRYPT_COST", bcrypt.DefaultCost)
    collect(err)
    ttlHours, err := envInt("TOKEN_TTL_HOURS", 24)
    collect(err)
    cfg.TokenTTL = time.Duration(ttlHours) * time.Hour

    switch cfg.DBDriver {
    case "mysql", "sqlite":
    default:
        errs = append(errs, fmt.Errorf("unsupported DB_DRIVER %q (want mysql or sqlite)", cfg.DBDriver))
    }
    if cfg.BcryptCost < bcrypt.MinCost || cfg.BcryptCost > bcrypt.MaxCost {
        errs = append(errs, fmt.Errorf("BCRYPT_COST must be between %d and %d", bcrypt.MinCost, bcrypt.MaxCost))
    }
    if ttlHours <= 0 {
        errs = append(errs, errors.New("TOKEN_TTL_HOURS must be positive"))
    }
    if cfg.JWTSecret == "" {
        if cfg.Env == "prod" {
            errs = append(errs, errors.New("missing required env var: JWT_SECRET"))
        }
        cfg.JWTSecret = DevJWTSecret
    }

    return cfg, errors.Join(errs...)
}
