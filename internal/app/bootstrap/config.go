// internal/app/bootstrap/config.go
package bootstrap

import (
	"fmt"
	"time"

	"github.com/dalemusser/waffle/config"
	wafflemongo "github.com/dalemusser/waffle/pantry/mongo"
	"go.uber.org/zap"
)

// appConfigKeys defines the configuration keys for TrackU.
// These are loaded via WAFFLE's config system with support for:
//   - Config files: mongo_uri, jwt_secret, etc.
//   - Environment variables: TRACKU_MONGO_URI, TRACKU_JWT_SECRET, etc.
//   - Command-line flags: --mongo_uri, --jwt_secret, etc.
var appConfigKeys = []config.AppKey{
	{Name: "mongo_uri", Default: "mongodb://localhost:27017", Desc: "MongoDB connection URI"},
	{Name: "mongo_database", Default: "tracku", Desc: "MongoDB database name"},
	{Name: "mongo_max_pool_size", Default: 100, Desc: "MongoDB max connection pool size (default: 100)"},
	{Name: "mongo_min_pool_size", Default: 10, Desc: "MongoDB min connection pool size (default: 10)"},

	// Token auth
	{Name: "jwt_secret", Default: "", Desc: "HS256 signing secret for bearer tokens (required)"},
	{Name: "token_ttl", Default: "168h", Desc: "Lifetime of issued tokens (e.g., 24h, 168h)"},

	// Admin account
	{Name: "admin_email", Default: "", Desc: "Email of the administrator account (required)"},

	// Admin dashboard tuning
	{Name: "stats_cache_ttl", Default: "5m", Desc: "How long the admin stats snapshot stays fresh"},
	{Name: "activity_feed_cap", Default: 50, Desc: "Max entries retained in the admin activity feed"},
}

// LoadConfig loads WAFFLE core config and app-specific config.
//
// It is called early in startup so that both WAFFLE and the app have
// access to configuration before any backends or handlers are built.
// WAFFLE's config.LoadWithAppConfig merges .env files, config files,
// environment variables (WAFFLE_* for core, TRACKU_* for app), and
// command-line flags, with precedence: flags > env > files > defaults.
func LoadConfig(logger *zap.Logger) (*config.CoreConfig, AppConfig, error) {
	coreCfg, appValues, err := config.LoadWithAppConfig(logger, "TRACKU", appConfigKeys)
	if err != nil {
		return nil, AppConfig{}, err
	}

	appCfg := AppConfig{
		MongoURI:         appValues.String("mongo_uri"),
		MongoDatabase:    appValues.String("mongo_database"),
		MongoMaxPoolSize: uint64(appValues.Int("mongo_max_pool_size")),
		MongoMinPoolSize: uint64(appValues.Int("mongo_min_pool_size")),

		JWTSecret: appValues.String("jwt_secret"),
		TokenTTL:  appValues.Duration("token_ttl", 168*time.Hour),

		AdminEmail: appValues.String("admin_email"),

		StatsCacheTTL:   appValues.Duration("stats_cache_ttl", 5*time.Minute),
		ActivityFeedCap: appValues.Int("activity_feed_cap"),
	}

	return coreCfg, appCfg, nil
}

// ValidateConfig performs app-specific config validation.
//
// Return nil to accept the loaded config, or an error to abort startup.
// TrackU validates the MongoDB URI format and requires the token secret
// and admin email so that misconfiguration fails at startup rather than
// at the first login.
func ValidateConfig(coreCfg *config.CoreConfig, appCfg AppConfig, logger *zap.Logger) error {
	if err := wafflemongo.ValidateURI(appCfg.MongoURI); err != nil {
		logger.Error("invalid MongoDB URI", zap.Error(err))
		return fmt.Errorf("invalid MongoDB URI: %w", err)
	}

	if appCfg.JWTSecret == "" {
		return fmt.Errorf("jwt_secret must be set (TRACKU_JWT_SECRET)")
	}
	if appCfg.AdminEmail == "" {
		return fmt.Errorf("admin_email must be set (TRACKU_ADMIN_EMAIL)")
	}
	if appCfg.ActivityFeedCap <= 0 {
		return fmt.Errorf("activity_feed_cap must be positive, got %d", appCfg.ActivityFeedCap)
	}

	return nil
}
