package config

// Config holds all application configuration.
// It organizes settings into logical groups for better maintainability.
type Config struct {
	Server    ServerConfig    `mapstructure:"server"     validate:"required"`
	Database  DatabaseConfig  `mapstructure:"database"   validate:"required"`
	Auth      AuthConfig      `mapstructure:"auth"       validate:"required"`
	Payment   PaymentConfig   `mapstructure:"payment"    validate:"required"`
	RateLimit RateLimitConfig `mapstructure:"rate_limit" validate:"required"`
}

// ServerConfig contains all server-related configuration settings.
type ServerConfig struct {
	Port     int    `mapstructure:"port"      validate:"required,gt=0,lt=65536"`
	LogLevel string `mapstructure:"log_level" validate:"required,oneof=debug info warn error"`
	// AllowedOrigins lists browser origins permitted by CORS.
	AllowedOrigins []string `mapstructure:"allowed_origins" validate:"dive,required"`
}

// DatabaseConfig selects the Record Store backend.
type DatabaseConfig struct {
	// Driver is "postgres" for deployments or "sqlite" for a single-file store.
	Driver string `mapstructure:"driver" validate:"required,oneof=postgres sqlite"`
	// URL is a postgres connection URL, or a sqlite DSN/file path.
	URL string `mapstructure:"url" validate:"required"`
}

// AuthConfig contains all authentication and authorization settings.
type AuthConfig struct {
	JWTSecret                   string `mapstructure:"jwt_secret"                     validate:"required,min=32"`
	TokenLifetimeMinutes        int    `mapstructure:"token_lifetime_minutes"         validate:"required,gt=0,lte=1440"`
	RefreshTokenLifetimeMinutes int    `mapstructure:"refresh_token_lifetime_minutes" validate:"required,gt=0,gtfield=TokenLifetimeMinutes"`
	BcryptCost                  int    `mapstructure:"bcrypt_cost"                    validate:"required,gte=4,lte=31"`
	ResetTokenLifetimeMinutes   int    `mapstructure:"reset_token_lifetime_minutes"   validate:"required,gt=0,lte=1440"`
	// ResetURL is the client page that receives a password reset token.
	ResetURL string `mapstructure:"reset_url" validate:"omitempty,url"`
}

// PaymentConfig describes the paid plan and the external checkout.
type PaymentConfig struct {
	CheckoutURL  string   `mapstructure:"checkout_url"  validate:"required,url"`
	PlanName     string   `mapstructure:"plan_name"     validate:"required"`
	MonthlyPrice string   `mapstructure:"monthly_price" validate:"required"`
	Benefits     []string `mapstructure:"benefits"`
}

// RateLimitConfig throttles the unauthenticated auth endpoints per client IP.
type RateLimitConfig struct {
	AuthRequestsPerMinute int `mapstructure:"auth_requests_per_minute" validate:"required,gt=0"`
	AuthBurst             int `mapstructure:"auth_burst"               validate:"required,gt=0"`
}
