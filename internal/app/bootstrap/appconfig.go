// internal/app/bootstrap/appconfig.go
package bootstrap

import "time"

// AppConfig holds service-specific configuration for this WAFFLE app.
//
// WAFFLE's CoreConfig handles framework-level settings (HTTP ports, TLS,
// logging level, CORS, body size limits). AppConfig is where everything
// specific to TrackU lives: the MongoDB connection, the token signing
// secret, the bootstrap admin account, and cache tuning.
type AppConfig struct {
	// MongoDB connection configuration
	MongoURI         string // MongoDB connection string (e.g., mongodb://localhost:27017)
	MongoDatabase    string // Database name within MongoDB
	MongoMaxPoolSize uint64 // Max connections in the driver pool
	MongoMinPoolSize uint64 // Min connections kept warm

	// Token auth configuration
	JWTSecret string        // HS256 signing secret for bearer tokens (must be strong in production)
	TokenTTL  time.Duration // Lifetime of issued tokens

	// AdminEmail identifies the administrator account. A user registering
	// or logging in with this email gets the admin role and bypasses the
	// approval gate.
	AdminEmail string

	// Admin dashboard tuning
	StatsCacheTTL   time.Duration // How long the stats snapshot stays fresh
	ActivityFeedCap int           // Max entries retained in the activity feed
}
