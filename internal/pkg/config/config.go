package config

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/sethvargo/go-envconfig"
)

const (
	EnvDevelopment = "development"

	BackendSQLite = "sqlite"
	BackendMongo  = "mongo"
)

type Config struct {
	Port      string `env:"PORT,       default=8080"`
	Env       string `env:"ENV,        default=development"`
	LogLevel  string `env:"LOG_LEVEL,  default=info"`
	LogPretty bool   `env:"LOG_PRETTY, default=false"`

	Session    SessionConfig
	Store      StoreConfig
	Mongo      MongoConfig
	Redis      RedisConfig
	Activity   ActivityConfig
	Categories CategoryConfig
}

type SessionConfig struct {
	Secret       string        `env:"SESSION_SECRET"`
	Lifetime     time.Duration `env:"SESSION_LIFETIME,      default=168h"`
	CookieName   string        `env:"SESSION_COOKIE_NAME,   default=session"`
	CookieSecure bool          `env:"SESSION_COOKIE_SECURE, default=false"`

	// SecretGenerated is set when Secret was generated for a development
	// run; such sessions do not survive a restart.
	SecretGenerated bool
}

type StoreConfig struct {
	Backend    string `env:"STORE_BACKEND, default=sqlite"`
	SQLitePath string `env:"SQLITE_PATH,   default=finance.db"`
}

type MongoConfig struct {
	URI      string `env:"MONGO_URI, default=mongodb://localhost:27017"`
	Database string `env:"MONGO_DB,  default=finance_tracker"`
}

// RedisConfig selects the session backend: an empty Addr keeps sessions in
// process memory.
type RedisConfig struct {
	Addr     string `env:"REDIS_ADDR"`
	Password string `env:"REDIS_PASSWORD"`
	DB       int    `env:"REDIS_DB, default=0"`
}

// ActivityConfig controls the activity feed. An empty AMQPURL logs events
// instead of publishing them.
type ActivityConfig struct {
	AMQPURL  string `env:"AMQP_URL"`
	Exchange string `env:"AMQP_EXCHANGE,    default=finance.activity"`
	Workers  int    `env:"ACTIVITY_WORKERS, default=4"`
}

type CategoryConfig struct {
	Seed              []string `env:"SEED_CATEGORIES, delimiter=;, default=Зарплата;Продукты;Транспорт"`
	AllowGlobalDelete bool     `env:"ALLOW_GLOBAL_CATEGORY_DELETE, default=false"`
}

// Load reads an optional .env file and then the process environment. It
// panics on invalid configuration; it is meant for startup only.
func Load() *Config {
	_ = godotenv.Load()

	cfg, err := LoadFrom(envconfig.OsLookuper())
	if err != nil {
		panic(fmt.Sprintf("config: failed to load configuration: %v", err))
	}
	return cfg
}

// LoadFrom processes configuration from l and validates it.
func LoadFrom(l envconfig.Lookuper) (*Config, error) {
	var cfg Config
	if err := envconfig.ProcessWith(context.Background(), &envconfig.Config{
		Target:   &cfg,
		Lookuper: l,
	}); err != nil {
		return nil, err
	}

	if cfg.Session.Secret == "" && cfg.IsDevelopment() {
		secret, err := randomSecret()
		if err != nil {
			return nil, err
		}
		cfg.Session.Secret = secret
		cfg.Session.SecretGenerated = true
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) IsDevelopment() bool {
	return c.Env == EnvDevelopment
}

// Validate reports the first invalid setting.
func (c *Config) Validate() error {
	switch c.Store.Backend {
	case BackendSQLite:
		if strings.TrimSpace(c.Store.SQLitePath) == "" {
			return errors.New("config: SQLITE_PATH must not be empty")
		}
	case BackendMongo:
		if c.Mongo.URI == "" || c.Mongo.Database == "" {
			return errors.New("config: MONGO_URI and MONGO_DB are required for the mongo backend")
		}
	default:
		return fmt.Errorf("config: unknown STORE_BACKEND %q", c.Store.Backend)
	}

	if c.Session.Lifetime <= 0 {
		return errors.New("config: SESSION_LIFETIME must be positive")
	}
	if c.Session.Secret == "" {
		return errors.New("config: SESSION_SECRET is required outside development")
	}
	if c.Session.CookieName == "" {
		return errors.New("config: SESSION_COOKIE_NAME must not be empty")
	}
	if c.Activity.Workers < 0 {
		return errors.New("config: ACTIVITY_WORKERS must not be negative")
	}
	return nil
}

func randomSecret() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("config: generate session secret: %w", err)
	}
	return hex.EncodeToString(b), nil
}
