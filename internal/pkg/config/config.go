package config

import (
	"context"
	"fmt"
	"time"

	"github.com/sethvargo/go-envconfig"
)

// Storage drivers accepted by STORE_DRIVER.
const (
	DriverMongo  = "mongo"
	DriverMemory = "memory"
)

type Config struct {
	Env       string `env:"ENV,        default=development"`
	LogLevel  string `env:"LOG_LEVEL,  default=info"`
	LogPretty bool   `env:"LOG_PRETTY, default=false"`

	Client  ClientConfig
	Server  ServerConfig
	Session SessionConfig
	Mongo   MongoConfig
	Redis   RedisConfig
}

// ClientConfig is read by todoctl.
type ClientConfig struct {
	APIURL         string        `env:"API_URL,         default=http://localhost:8080/api"`
	RequestTimeout time.Duration `env:"REQUEST_TIMEOUT, default=10s"`
	LogLevel       string        `env:"CLIENT_LOG_LEVEL, default=warn"`
}

// ServerConfig is read by the API server. STORE_DRIVER=memory keeps accounts,
// todos and sessions in process; mongo pairs MongoDB with Redis sessions.
type ServerConfig struct {
	Port            string        `env:"PORT,             default=8080"`
	StoreDriver     string        `env:"STORE_DRIVER,     default=mongo"`
	CORSOrigins     []string      `env:"CORS_ORIGINS"`
	ShutdownTimeout time.Duration `env:"SHUTDOWN_TIMEOUT, default=10s"`
}

type SessionConfig struct {
	Secret       string        `env:"SESSION_SECRET"`
	TTL          time.Duration `env:"SESSION_TTL,   default=24h"`
	CookieName   string        `env:"COOKIE_NAME,   default=tasktrack_session"`
	CookieSecure bool          `env:"COOKIE_SECURE, default=false"`
}

type MongoConfig struct {
	URI      string `env:"MONGO_URI, default=mongodb://localhost:27017"`
	Database string `env:"MONGO_DB,  default=tasktrack"`
}

// RedisConfig locates the session registry used with STORE_DRIVER=mongo.
type RedisConfig struct {
	Addr     string        `env:"REDIS_ADDR,     default=localhost:6379"`
	Password string        `env:"REDIS_PASSWORD"`
	DB       int           `env:"REDIS_DB,       default=0"`
	Timeout  time.Duration `env:"REDIS_TIMEOUT,  default=5s"`
}

// Load reads configuration from environment variables using go-envconfig.
func Load(ctx context.Context) (*Config, error) {
	var cfg Config
	if err := envconfig.Process(ctx, &cfg); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	return &cfg, nil
}

// LoadFrom reads configuration from an explicit lookuper; used by tests.
func LoadFrom(ctx context.Context, l envconfig.Lookuper) (*Config, error) {
	var cfg Config
	if err := envconfig.ProcessWith(ctx, &envconfig.Config{Target: &cfg, Lookuper: l}); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	return &cfg, nil
}

// ValidateServer checks the settings the server cannot start without.
func (c *Config) ValidateServer() error {
	if c.Session.Secret == "" {
		return fmt.Errorf("config: SESSION_SECRET is required")
	}
	switch c.Server.StoreDriver {
	case DriverMongo, DriverMemory:
	default:
		return fmt.Errorf("config: unknown STORE_DRIVER %q", c.Server.StoreDriver)
	}
	return nil
}

// IsProduction reports whether ENV is production.
func (c *Config) IsProduction() bool {
	return c.Env == "production"
}
