package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// ErrMissingCatalog is returned by Validate when the suspicious-phrase
// catalog is empty. The process must refuse to serve without it.
var ErrMissingCatalog = errors.New("suspicious-phrase catalog is empty")

// Config holds all configuration for the application
type Config struct {
	App       AppConfig       `mapstructure:"app"`
	Server    ServerConfig    `mapstructure:"server"`
	Database  DatabaseConfig  `mapstructure:"database"`
	Redis     RedisConfig     `mapstructure:"redis"`
	CORS      CORSConfig      `mapstructure:"cors"`
	RateLimit RateLimitConfig `mapstructure:"ratelimit"`
	Logger    LoggerConfig    `mapstructure:"logger"`
	Catalog   CatalogConfig   `mapstructure:"catalog"`
	LLM       LLMConfig       `mapstructure:"llm"`
	OCR       OCRConfig       `mapstructure:"ocr"`
	Cache     CacheConfig     `mapstructure:"cache"`
}

type AppConfig struct {
	Name        string `mapstructure:"name"`
	Environment string `mapstructure:"environment"`
	Version     string `mapstructure:"version"`
	Debug       bool   `mapstructure:"debug"`
}

type ServerConfig struct {
	Host            string        `mapstructure:"host"`
	HTTPPort        int           `mapstructure:"http_port"`
	ReadTimeout     time.Duration `mapstructure:"read_timeout"`
	WriteTimeout    time.Duration `mapstructure:"write_timeout"`
	IdleTimeout     time.Duration `mapstructure:"idle_timeout"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
}

type DatabaseConfig struct {
	Enabled         bool          `mapstructure:"enabled"`
	Host            string        `mapstructure:"host"`
	Port            int           `mapstructure:"port"`
	User            string        `mapstructure:"user"`
	Password        string        `mapstructure:"password"`
	DBName          string        `mapstructure:"dbname"`
	SSLMode         string        `mapstructure:"sslmode"`
	MaxOpenConns    int           `mapstructure:"max_open_conns"`
	MaxIdleConns    int           `mapstructure:"max_idle_conns"`
	ConnMaxLifetime time.Duration `mapstructure:"conn_max_lifetime"`
}

func (c DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		c.User, c.Password, c.Host, c.Port, c.DBName, c.SSLMode,
	)
}

type RedisConfig struct {
	Enabled   bool   `mapstructure:"enabled"`
	Host      string `mapstructure:"host"`
	Port      int    `mapstructure:"port"`
	Password  string `mapstructure:"password"`
	DB        int    `mapstructure:"db"`
	KeyPrefix string `mapstructure:"key_prefix"`
}

func (c RedisConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

type CORSConfig struct {
	AllowedOrigins   []string `mapstructure:"allowed_origins"`
	AllowedMethods   []string `mapstructure:"allowed_methods"`
	AllowedHeaders   []string `mapstructure:"allowed_headers"`
	AllowCredentials bool     `mapstructure:"allow_credentials"`
	MaxAge           int      `mapstructure:"max_age"`
}

type RateLimitConfig struct {
	Enabled           bool `mapstructure:"enabled"`
	RequestsPerMinute int  `mapstructure:"requests_per_minute"`
}

type LoggerConfig struct {
	Level      string `mapstructure:"level"`
	Format     string `mapstructure:"format"`
	TimeFormat string `mapstructure:"time_format"`
}

// CatalogConfig holds the suspicious-phrase catalog and remediation tips.
// Phrases are matched in the order listed; tips cover a subset of phrases.
type CatalogConfig struct {
	Phrases []string          `mapstructure:"phrases"`
	Tips    map[string]string `mapstructure:"tips"`
}

type LLMConfig struct {
	Provider      string        `mapstructure:"provider"` // "claude" or "openai"
	ClaudeAPIKey  string        `mapstructure:"claude_api_key"`
	OpenAIAPIKey  string        `mapstructure:"openai_api_key"`
	Model         string        `mapstructure:"model"`
	MaxTokens     int           `mapstructure:"max_tokens"`
	Temperature   float64       `mapstructure:"temperature"`
	Timeout       time.Duration `mapstructure:"timeout"`
	ClaudeAPIURL  string        `mapstructure:"claude_api_url"`
	OpenAIAPIURL  string        `mapstructure:"openai_api_url"`
}

type OCRConfig struct {
	Enabled  bool          `mapstructure:"enabled"`
	APIKey   string        `mapstructure:"api_key"`
	APIURL   string        `mapstructure:"api_url"`
	Language string        `mapstructure:"language"`
	Timeout  time.Duration `mapstructure:"timeout"`
}

type CacheConfig struct {
	MaxEntries int           `mapstructure:"max_entries"`
	RedisTTL   time.Duration `mapstructure:"redis_ttl"`
}

// defaultPhrases is the built-in suspicious-phrase catalog. Order matters:
// matched phrases are reported in catalog order. "pay" is deliberately a
// catalog entry rather than hard-coded logic so operators who find it too
// aggressive (it substring-matches "payroll") can remove it in config.
var defaultPhrases = []string{
	"registration fee", "application fee", "training fee", "deposit", "pay",
	"apply immediately", "limited seats", "urgent hiring",
	"no interview", "guaranteed placement",
	"work from home", "whatsapp", "telegram",
}

// defaultTips covers a subset of the catalog; partial coverage is expected.
var defaultTips = map[string]string{
	"registration fee": "Genuine companies do not ask for fees.",
	"limited seats":    "Fake jobs create urgency.",
	"whatsapp":         "Hiring via WhatsApp is suspicious.",
	"telegram":         "Telegram recruitment is risky.",
	"no interview":     "Skipping interviews is a red flag.",
}

// Load reads configuration from file and environment variables
func Load(configPath string) (*Config, error) {
	v := viper.New()

	// Set config file
	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("./config")
		v.AddConfigPath("/etc/jobguard")
	}

	setDefaults(v)

	// Environment variables
	v.SetEnvPrefix("JOBGUARD")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Bind nested env vars explicitly (viper doesn't auto-bind nested struct fields)
	v.BindEnv("redis.host", "JOBGUARD_REDIS_HOST")
	v.BindEnv("redis.port", "JOBGUARD_REDIS_PORT")
	v.BindEnv("redis.password", "JOBGUARD_REDIS_PASSWORD")
	v.BindEnv("database.host", "JOBGUARD_DATABASE_HOST")
	v.BindEnv("database.port", "JOBGUARD_DATABASE_PORT")
	v.BindEnv("database.user", "JOBGUARD_DATABASE_USER")
	v.BindEnv("database.password", "JOBGUARD_DATABASE_PASSWORD")
	v.BindEnv("database.dbname", "JOBGUARD_DATABASE_DBNAME")
	v.BindEnv("llm.provider", "JOBGUARD_LLM_PROVIDER")
	v.BindEnv("llm.claude_api_key", "JOBGUARD_LLM_CLAUDE_API_KEY")
	v.BindEnv("llm.openai_api_key", "JOBGUARD_LLM_OPENAI_API_KEY")
	v.BindEnv("ocr.api_key", "JOBGUARD_OCR_API_KEY")
	v.BindEnv("app.environment", "JOBGUARD_APP_ENVIRONMENT")

	// Read config file; a missing file is fine because the catalog and all
	// other settings carry built-in defaults
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	// Unmarshal config
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	return &cfg, nil
}

// LoadDefault loads configuration with default path
func LoadDefault() (*Config, error) {
	return Load("")
}

// Validate checks the invariants the process cannot run without.
// An empty phrase catalog is fatal: serving with no catalog would silently
// classify everything as LOW risk.
func (c *Config) Validate() error {
	if len(c.Catalog.Phrases) == 0 {
		return ErrMissingCatalog
	}
	switch c.LLM.Provider {
	case "claude", "openai":
	default:
		return fmt.Errorf("unsupported llm provider: %q", c.LLM.Provider)
	}
	return nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("app.name", "jobguard")
	v.SetDefault("app.environment", "development")
	v.SetDefault("app.version", "1.0.0")

	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.http_port", 8080)
	v.SetDefault("server.read_timeout", 15*time.Second)
	v.SetDefault("server.write_timeout", 60*time.Second)
	v.SetDefault("server.idle_timeout", 120*time.Second)
	v.SetDefault("server.shutdown_timeout", 10*time.Second)

	v.SetDefault("database.enabled", false)
	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", 5432)
	v.SetDefault("database.user", "jobguard")
	v.SetDefault("database.dbname", "jobguard")
	v.SetDefault("database.sslmode", "disable")
	v.SetDefault("database.max_open_conns", 10)
	v.SetDefault("database.max_idle_conns", 2)
	v.SetDefault("database.conn_max_lifetime", time.Hour)

	v.SetDefault("redis.enabled", false)
	v.SetDefault("redis.host", "localhost")
	v.SetDefault("redis.port", 6379)
	v.SetDefault("redis.db", 0)
	v.SetDefault("redis.key_prefix", "jobguard:")

	v.SetDefault("cors.allowed_origins", []string{"*"})
	v.SetDefault("cors.allowed_methods", []string{"GET", "POST", "OPTIONS"})
	v.SetDefault("cors.allowed_headers", []string{"Accept", "Content-Type", "Authorization"})
	v.SetDefault("cors.max_age", 300)

	v.SetDefault("ratelimit.enabled", false)
	v.SetDefault("ratelimit.requests_per_minute", 60)

	v.SetDefault("logger.level", "info")
	v.SetDefault("logger.format", "console")

	v.SetDefault("catalog.phrases", defaultPhrases)
	v.SetDefault("catalog.tips", defaultTips)

	v.SetDefault("llm.provider", "openai")
	v.SetDefault("llm.max_tokens", 120)
	v.SetDefault("llm.temperature", 0.3)
	v.SetDefault("llm.timeout", 30*time.Second)

	v.SetDefault("ocr.enabled", true)
	v.SetDefault("ocr.api_url", "https://api.ocr.space/parse/image")
	v.SetDefault("ocr.language", "eng")
	v.SetDefault("ocr.timeout", 30*time.Second)

	v.SetDefault("cache.max_entries", 4096)
	v.SetDefault("cache.redis_ttl", 24*time.Hour)
}
