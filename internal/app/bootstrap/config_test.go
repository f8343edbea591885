package bootstrap

import (
	"testing"
	"time"

	"go.uber.org/zap"
)

func validAppConfig() AppConfig {
	return AppConfig{
		MongoURI:        "mongodb://localhost:27017",
		MongoDatabase:   "tracku_test",
		JWTSecret:       "test-secret",
		TokenTTL:        time.Hour,
		AdminEmail:      "admin@example.com",
		StatsCacheTTL:   time.Minute,
		ActivityFeedCap: 50,
	}
}

func TestValidateConfig_Accepts(t *testing.T) {
	if err := ValidateConfig(nil, validAppConfig(), zap.NewNop()); err != nil {
		t.Fatalf("ValidateConfig: %v", err)
	}
}

func TestValidateConfig_RequiredFields(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*AppConfig)
	}{
		{"missing jwt secret", func(c *AppConfig) { c.JWTSecret = "" }},
		{"missing admin email", func(c *AppConfig) { c.AdminEmail = "" }},
		{"bad mongo uri", func(c *AppConfig) { c.MongoURI = "not-a-uri" }},
		{"zero feed cap", func(c *AppConfig) { c.ActivityFeedCap = 0 }},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := validAppConfig()
			tc.mutate(&cfg)
			if err := ValidateConfig(nil, cfg, zap.NewNop()); err == nil {
				t.Error("expected a validation error")
			}
		})
	}
}
