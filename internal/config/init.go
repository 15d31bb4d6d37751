package config

import (
	"errors"
	"fmt"
	"net"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"golang.org/x/crypto/bcrypt"
)

// Config is built once at process start and handed to the collaborators that
// need it.
type Config struct {
	Env     string
	AppPort string

	DBDriver string
	DBDSN    string

	JWTSecret      string
	JWTAlg         string
	AccessTokenTTL time.Duration
	BcryptCost     int

	UploadDir           string
	AllowedUploadExt    map[string]bool
	MaxUploadBytes      int64
	UploadSweepInterval time.Duration
	UploadSweepGrace    time.Duration

	CORSOrigins    []string
	TrustedProxies []string

	RedisAddr          string
	RedisPassword      string
	RedisDB            int
	RateLimitPerMinute int
}

// Load reads .env (if present) and the environment. Missing keys fall back to
// defaults; malformed values are an error.
func Load() (*Config, error) {
	// .env is optional, the environment always wins
	_ = godotenv.Load()
	return FromLookup(os.LookupEnv)
}

// FromLookup builds a Config from an arbitrary key lookup.
func FromLookup(lookup func(string) (string, bool)) (*Config, error) {
	get := func(key, def string) string {
		if v, ok := lookup(key); ok && strings.TrimSpace(v) != "" {
			return strings.TrimSpace(v)
		}
		return def
	}
	var errs []error
	getInt := func(key string, def int) int {
		raw := get(key, "")
		if raw == "" {
			return def
		}
		n, err := strconv.Atoi(raw)
		if err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", key, err))
			return def
		}
		return n
	}

	cfg := &Config{
		Env:                 get("APP_ENV", "development"),
		AppPort:             get("APP_PORT", "8000"),
		DBDriver:            strings.ToLower(get("DB_DRIVER", "sqlite")),
		DBDSN:               get("DB_DSN", "file:minisocial.db?_fk=1"),
		JWTSecret:           get("JWT_SECRET", "change-me-super-secret"),
		JWTAlg:              strings.ToUpper(get("JWT_ALG", "HS256")),
		AccessTokenTTL:      time.Duration(getInt("ACCESS_TOKEN_EXPIRE_MIN", 60)) * time.Minute,
		BcryptCost:          getInt("BCRYPT_COST", bcrypt.DefaultCost),
		UploadDir:           get("UPLOAD_DIR", "./uploads"),
		AllowedUploadExt:    ParseExtensions(get("ALLOWED_UPLOAD_EXT", "jpg,jpeg,png,webp")),
		MaxUploadBytes:      int64(getInt("MAX_UPLOAD_BYTES", 5<<20)),
		// 0 disables the sweeper
		UploadSweepInterval: time.Duration(getInt("UPLOAD_SWEEP_INTERVAL_MIN", 60)) * time.Minute,
		UploadSweepGrace:    time.Duration(getInt("UPLOAD_SWEEP_GRACE_MIN", 15)) * time.Minute,
		CORSOrigins:         splitList(get("CORS_ORIGINS", "http://localhost:5173,http://localhost:8080")),
		// empty: forwarding headers are ignored and the peer address is the client
		TrustedProxies:      splitList(get("TRUSTED_PROXIES", "")),
		RedisAddr:           get("REDIS_ADDR", ""),
		RedisPassword:       get("REDIS_PASSWORD", ""),
		RedisDB:             getInt("REDIS_DB", 0),
		RateLimitPerMinute:  getInt("RATE_LIMIT_PER_MINUTE", 120),
	}

	switch cfg.DBDriver {
	case "mysql", "sqlite":
	default:
		errs = append(errs, fmt.Errorf("DB_DRIVER: unsupported driver %q", cfg.DBDriver))
	}
	if cfg.AccessTokenTTL <= 0 {
		errs = append(errs, errors.New("ACCESS_TOKEN_EXPIRE_MIN must be positive"))
	}
	if cfg.UploadSweepInterval < 0 || cfg.UploadSweepGrace < 0 {
		errs = append(errs, errors.New("UPLOAD_SWEEP_* must not be negative"))
	}
	for _, p := range cfg.TrustedProxies {
		if net.ParseIP(p) == nil {
			if _, _, err := net.ParseCIDR(p); err != nil {
				errs = append(errs, fmt.Errorf("TRUSTED_PROXIES: %q is not an IP or CIDR", p))
			}
		}
	}
	if len(cfg.AllowedUploadExt) == 0 {
		errs = append(errs, errors.New("ALLOWED_UPLOAD_EXT must list at least one extension"))
	}
	if err := errors.Join(errs...); err != nil {
		return nil, err
	}
	return cfg, nil
}

// ParseExtensions turns "jpg, .PNG,webp" into a lower-case set without dots.
func ParseExtensions(raw string) map[string]bool {
	exts := make(map[string]bool)
	for _, e := range splitList(raw) {
		e = strings.TrimPrefix(strings.ToLower(e), ".")
		if e != "" {
			exts[e] = true
		}
	}
	return exts
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
