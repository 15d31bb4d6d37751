package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func lookupFrom(env map[string]string) func(string) (string, bool) {
	return func(key string) (string, bool) {
		v, ok := env[key]
		return v, ok
	}
}

func TestFromLookup_Defaults(t *testing.T) {
	cfg, err := FromLookup(lookupFrom(nil))
	require.NoError(t, err)

	assert.Equal(t, "sqlite", cfg.DBDriver)
	assert.Equal(t, "HS256", cfg.JWTAlg)
	assert.Equal(t, 60*time.Minute, cfg.AccessTokenTTL)
	assert.Equal(t, "./uploads", cfg.UploadDir)
	assert.Equal(t, map[string]bool{"jpg": true, "jpeg": true, "png": true, "webp": true}, cfg.AllowedUploadExt)
	assert.Equal(t, []string{"http://localhost:5173", "http://localhost:8080"}, cfg.CORSOrigins)
	assert.Empty(t, cfg.RedisAddr)
	assert.Empty(t, cfg.TrustedProxies)
	assert.Equal(t, time.Hour, cfg.UploadSweepInterval)
	assert.Equal(t, 15*time.Minute, cfg.UploadSweepGrace)
}

func TestFromLookup_Overrides(t *testing.T) {
	cfg, err := FromLookup(lookupFrom(map[string]string{
		"DB_DRIVER":               "MySQL",
		"DB_DSN":                  "user:pw@tcp(db:3306)/social?parseTime=true",
		"ACCESS_TOKEN_EXPIRE_MIN": "15",
		"ALLOWED_UPLOAD_EXT":      " PNG, .Jpg ,,",
		"JWT_ALG":                 "hs512",
		"REDIS_ADDR":              "redis:6379",
		"RATE_LIMIT_PER_MINUTE":   "30",
		"TRUSTED_PROXIES":         "10.0.0.1, 172.16.0.0/12",
	}))
	require.NoError(t, err)

	assert.Equal(t, "mysql", cfg.DBDriver)
	assert.Equal(t, "HS512", cfg.JWTAlg)
	assert.Equal(t, 15*time.Minute, cfg.AccessTokenTTL)
	assert.Equal(t, map[string]bool{"png": true, "jpg": true}, cfg.AllowedUploadExt)
	assert.Equal(t, "redis:6379", cfg.RedisAddr)
	assert.Equal(t, 30, cfg.RateLimitPerMinute)
	assert.Equal(t, []string{"10.0.0.1", "172.16.0.0/12"}, cfg.TrustedProxies)
}

func TestFromLookup_Invalid(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
	}{
		{"bad ttl", map[string]string{"ACCESS_TOKEN_EXPIRE_MIN": "soon"}},
		{"zero ttl", map[string]string{"ACCESS_TOKEN_EXPIRE_MIN": "0"}},
		{"unknown driver", map[string]string{"DB_DRIVER": "oracle"}},
		{"no extensions", map[string]string{"ALLOWED_UPLOAD_EXT": ", ,"}},
		{"bad proxy", map[string]string{"TRUSTED_PROXIES": "10.0.0.1,proxy.local"}},
		{"negative sweep", map[string]string{"UPLOAD_SWEEP_INTERVAL_MIN": "-5"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := FromLookup(lookupFrom(tt.env))
			assert.Error(t, err)
		})
	}
}
