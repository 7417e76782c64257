// Package config provides configuration types and structures for the userledger service.
package config

// Config represents the application configuration
type Config struct {
	Server      ServerConfig
	Database    DatabaseConfig
	Logging     LoggingConfig
	Auth        AuthConfig
	Application ApplicationConfig
}

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	Port         int    // Server port number
	Host         string // Server host address
	ReadTimeout  int    // Read timeout in seconds
	WriteTimeout int    // Write timeout in seconds
	IdleTimeout  int    // Idle timeout in seconds
}

// DatabaseConfig holds database configuration
type DatabaseConfig struct {
	Host     string // Database host address
	Port     int    // Database port number
	User     string // Database username
	Password string // Database password
	Database string // Database name
	SSLMode  string // SSL mode (disable, require, etc.)
	MaxConns int    // Maximum database connections
	MinConns int    // Minimum database connections
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	Level  string // Log level (debug, info, warn, error)
	Format string // Log format (json, text)
}

// AuthConfig holds authentication and lockout configuration
type AuthConfig struct {
	JWTSecret          string // Secret for signing access tokens
	TokenTTLMinutes    int    // Access token lifetime in minutes
	BcryptCost         int    // bcrypt cost used for password hashing
	LockoutMaxAttempts int    // Failed attempts before an email is blocked
	LockoutWindowMin   int    // Lockout window in minutes
}

// ApplicationConfig holds application-specific configuration
type ApplicationConfig struct {
	Environment     string // Environment (development, staging, production)
	ShutdownTimeout int    // Shutdown timeout in seconds
	RateLimitPerMin int    // HTTP rate limit requests per minute per IP
	RateLimitBurst  int    // HTTP rate limit burst per IP
}
