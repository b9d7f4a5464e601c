package config

import (
	"context"
	"fmt"
	"net/url"
	"time"

	"github.com/sethvargo/go-envconfig"
)

// Session backends.
const (
	BackendMemory = "memory"
	BackendRedis  = "redis"
	BackendMongo  = "mongo"
)

type Config struct {
	Port       string `env:"PORT,         default=8080"`
	Env        string `env:"ENV,          default=development"`
	LogLevel   string `env:"LOG_LEVEL,    default=info"`
	APIBaseURL string `env:"API_BASE_URL, default=http://localhost:8081/api"`
	// JWTSecret, when set, is used to verify tokens before trusting their claims.
	JWTSecret string `env:"JWT_SECRET"`

	Session SessionConfig
	Routes  RoutesConfig
	Mongo   MongoConfig
	Redis   RedisConfig
}

type SessionConfig struct {
	Backend string        `env:"SESSION_BACKEND, default=memory"`
	TTL     time.Duration `env:"SESSION_TTL,     default=24h"`
	Cookie  string        `env:"SESSION_COOKIE,  default=portal_session"`
}

type RoutesConfig struct {
	Admin    string `env:"ROUTE_ADMIN,    default=/admin"`
	Bookings string `env:"ROUTE_BOOKINGS, default=/bookings/my-bookings"`
	Login    string `env:"ROUTE_LOGIN,    default=/auth/login"`
}

type MongoConfig struct {
	URI      string `env:"MONGO_URI, default=mongodb://localhost:27017"`
	Database string `env:"MONGO_DB,  default=portal"`
}

type RedisConfig struct {
	Addr     string `env:"REDIS_ADDR,     default=localhost:6379"`
	Password string `env:"REDIS_PASSWORD"`
	DB       int    `env:"REDIS_DB,       default=0"`
}

// IsDevelopment reports whether the portal runs in development mode.
func (c *Config) IsDevelopment() bool {
	return c.Env == "development"
}

// Validate checks the values envconfig cannot.
func (c *Config) Validate() error {
	u, err := url.Parse(c.APIBaseURL)
	if err != nil || !u.IsAbs() {
		return fmt.Errorf("config: API_BASE_URL %q must be an absolute URL", c.APIBaseURL)
	}
	switch c.Session.Backend {
	case BackendMemory, BackendRedis, BackendMongo:
	default:
		return fmt.Errorf("config: SESSION_BACKEND %q must be one of memory, redis, mongo", c.Session.Backend)
	}
	return nil
}

// Load reads configuration from environment variables using go-envconfig.
func Load(ctx context.Context) (*Config, error) {
	return load(ctx, envconfig.OsLookuper())
}

func load(ctx context.Context, l envconfig.Lookuper) (*Config, error) {
	var cfg Config
	if err := envconfig.ProcessWith(ctx, &envconfig.Config{Target: &cfg, Lookuper: l}); err != nil {
		return nil, fmt.Errorf("config: failed to load configuration: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}
