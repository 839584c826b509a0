package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
	"github.com/rs/zerolog/log"
)

// Config is read from FLASHCARDS_ prefixed environment variables,
// e.g. FLASHCARDS_PORT, FLASHCARDS_STORE_DRIVER.
type Config struct {
	Port      int    `envconfig:"PORT" default:"8080"`
	LogLevel  string `envconfig:"LOG_LEVEL" default:"info"`
	LogPretty bool   `envconfig:"LOG_PRETTY" default:"false"`

	// StoreDriver is one of sqlite, postgres, firestore, memory.
	StoreDriver string `envconfig:"STORE_DRIVER" default:"sqlite"`
	DBURL       string `envconfig:"DB_URL" default:""`
	SQLitePath  string `envconfig:"SQLITE_PATH" default:"flashcards.db"`

	FirestoreProject     string `envconfig:"FIRESTORE_PROJECT" default:""`
	FirestoreCredentials string `envconfig:"FIRESTORE_CREDENTIALS" default:""`

	Auth0Domain    string `envconfig:"AUTH0_DOMAIN" default:""`
	Auth0Audience  string `envconfig:"AUTH0_AUDIENCE" default:""`
	DevJWTSecret   string `envconfig:"DEV_JWT_SECRET" default:""`
	DevJWTIssuer   string `envconfig:"DEV_JWT_ISSUER" default:"flashcards-dev"`
	DevJWTAudience string `envconfig:"DEV_JWT_AUDIENCE" default:"flashcards-api"`
	CookieDomain   string `envconfig:"COOKIE_DOMAIN" default:""`

	GenerationURL     string        `envconfig:"GENERATION_URL" default:""`
	GenerationTimeout time.Duration `envconfig:"GENERATION_TIMEOUT" default:"60s"`
	OpenAIAPIKey      string        `envconfig:"OPENAI_API_KEY" default:""`
	OpenAIModel       string        `envconfig:"OPENAI_MODEL" default:"gpt-4o-mini"`
	SpeechVoice       string        `envconfig:"SPEECH_VOICE" default:"alloy"`

	CascadeCollectionDelete bool `envconfig:"CASCADE_COLLECTION_DELETE" default:"false"`
	FlipByCardID            bool `envconfig:"FLIP_BY_CARD_ID" default:"false"`

	SessionTTL     time.Duration `envconfig:"SESSION_TTL" default:"2h"`
	MaxUploadBytes int64         `envconfig:"MAX_UPLOAD_BYTES" default:"10485760"`
	AllowedOrigins []string      `envconfig:"ALLOWED_ORIGINS" default:"http://localhost:3000"`
}

// IsDevelopment reports whether cookies are scoped to localhost, which is also when the
// dev token endpoint is served.
func (c *Config) IsDevelopment() bool {
	return c.CookieDomain == ""
}

// Domain is the cookie domain, localhost in development.
func (c *Config) Domain() string {
	if c.IsDevelopment() {
		return "localhost"
	}
	return c.CookieDomain
}

func (c *Config) CookieSecure() bool {
	return !c.IsDevelopment()
}

// Validate checks the combinations envconfig cannot express.
func (c *Config) Validate() error {
	switch c.StoreDriver {
	case "sqlite", "memory":
	case "postgres":
		if c.DBURL == "" {
			return fmt.Errorf("STORE_DRIVER=postgres requires DB_URL")
		}
	case "firestore":
		if c.FirestoreProject == "" {
			return fmt.Errorf("STORE_DRIVER=firestore requires FIRESTORE_PROJECT")
		}
	default:
		return fmt.Errorf("unsupported STORE_DRIVER: %s", c.StoreDriver)
	}
	if c.Auth0Domain == "" && c.DevJWTSecret == "" {
		return fmt.Errorf("either AUTH0_DOMAIN or DEV_JWT_SECRET must be set")
	}
	if c.Auth0Domain != "" && c.Auth0Audience == "" {
		return fmt.Errorf("AUTH0_DOMAIN requires AUTH0_AUDIENCE")
	}
	return nil
}

// LoadDotEnv loads .env when not running on the hosting platform.
func LoadDotEnv() {
	if os.Getenv("RAILWAY_ENVIRONMENT_NAME") != "" {
		return
	}
	if err := godotenv.Load(); err != nil {
		log.Warn().Err(err).Msg(".env file not found, environment variables might not be loaded")
	}
}

// New parses the environment and logs a summary of the result.
func New() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("FLASHCARDS", &cfg); err != nil {
		return nil, fmt.Errorf("failed to process environment variables: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	log.Info().
		Int("port", cfg.Port).
		Str("store_driver", cfg.StoreDriver).
		Bool("auth0", cfg.Auth0Domain != "").
		Bool("dev_tokens", cfg.DevJWTSecret != "").
		Str("generation_url", cfg.GenerationURL).
		Bool("openai_key_present", cfg.OpenAIAPIKey != "").
		Bool("cascade_collection_delete", cfg.CascadeCollectionDelete).
		Bool("flip_by_card_id", cfg.FlipByCardID).
		Str("origins", strings.Join(cfg.AllowedOrigins, ",")).
		Msg("Configuration loaded")

	return &cfg, nil
}
