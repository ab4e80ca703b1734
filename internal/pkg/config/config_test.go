package config

import (
	"context"
	"testing"
	"time"

	"github.com/sethvargo/go-envconfig"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadWith_Defaults(t *testing.T) {
	cfg, err := LoadWith(context.Background(), envconfig.MapLookuper(map[string]string{}))
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, "development", cfg.Env)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, 8, cfg.Workers)
	assert.True(t, cfg.AutoVerify)
	assert.Equal(t, "mongodb://localhost:27017", cfg.Mongo.URI)
	assert.Equal(t, "address_verification", cfg.Mongo.Database)
	assert.Equal(t, "localhost:6379", cfg.Redis.Addr)
	assert.Equal(t, time.Minute, cfg.Redis.LockTTL)
	assert.Greater(t, cfg.Redis.LockTTL, cfg.MinLockTTL())
	assert.Equal(t, "postcoder_web", cfg.Verifier.Provider)
	assert.Equal(t, 15*time.Second, cfg.Verifier.Timeout)
	assert.Empty(t, cfg.Verifier.CountryCodes)
	assert.Equal(t, "address-verification", cfg.Identity.AppName)
	assert.False(t, cfg.IsProduction())
}

func TestLoadWith_Overrides(t *testing.T) {
	cfg, err := LoadWith(context.Background(), envconfig.MapLookuper(map[string]string{
		"ENV":                     "production",
		"WORKERS":                 "2",
		"AUTO_VERIFY":             "false",
		"POSTCODER_API_KEY":       "PCW-123",
		"POSTCODER_COUNTRY_CODES": "GB,IE",
		"POSTCODER_TIMEOUT":       "3s",
		"REDIS_LOCK_TTL":          "1m",
		"ADMIN_USERNAME":          "root",
		"ADMIN_PASSWORD":          "bootstrap-pass",
	}))
	require.NoError(t, err)

	assert.True(t, cfg.IsProduction())
	assert.Equal(t, 2, cfg.Workers)
	assert.False(t, cfg.AutoVerify)
	assert.Equal(t, "PCW-123", cfg.Verifier.APIKey)
	assert.Equal(t, "GB,IE", cfg.Verifier.CountryCodes)
	assert.Equal(t, 3*time.Second, cfg.Verifier.Timeout)
	assert.Equal(t, time.Minute, cfg.Redis.LockTTL)
	assert.Equal(t, "root", cfg.Admin.Username)
	assert.Equal(t, "bootstrap-pass", cfg.Admin.Password)
}

func TestLoadWith_InvalidWorkers(t *testing.T) {
	_, err := LoadWith(context.Background(), envconfig.MapLookuper(map[string]string{"WORKERS": "0"}))
	require.Error(t, err)
}

func TestLoadWith_LockTTLMustOutliveVerification(t *testing.T) {
	tests := []struct {
		name    string
		env     map[string]string
		wantErr bool
	}{
		{"previous 30s default", map[string]string{"REDIS_LOCK_TTL": "30s"}, true},
		{"equal to worst case", map[string]string{"REDIS_LOCK_TTL": "45s"}, true},
		{"slow provider", map[string]string{"POSTCODER_TIMEOUT": "40s"}, true},
		{"slow provider with longer lock", map[string]string{"POSTCODER_TIMEOUT": "40s", "REDIS_LOCK_TTL": "2m"}, false},
		{"fast provider", map[string]string{"POSTCODER_TIMEOUT": "5s", "REDIS_LOCK_TTL": "40s"}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadWith(context.Background(), envconfig.MapLookuper(tt.env))
			if tt.wantErr {
				require.Error(t, err)
				assert.Contains(t, err.Error(), "REDIS_LOCK_TTL must exceed")
				return
			}
			require.NoError(t, err)
		})
	}
}

func TestLoadWith_BadDuration(t *testing.T) {
	_, err := LoadWith(context.Background(), envconfig.MapLookuper(map[string]string{"POSTCODER_TIMEOUT": "soon"}))
	require.Error(t, err)
}

func TestVerifierConfig_Options(t *testing.T) {
	v := VerifierConfig{APIKey: "k", CountryCodes: "GB", BaseURL: "http://pcw.test", Timeout: 5 * time.Second}

	opts := v.Options("app:1.0 DB:mongodb")

	assert.Equal(t, map[string]string{
		"api_key":       "k",
		"country_codes": "GB",
		"base_url":      "http://pcw.test",
		"identifier":    "app:1.0 DB:mongodb",
		"timeout":       "5s",
	}, opts)
}
