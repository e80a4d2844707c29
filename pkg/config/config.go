package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/jgirmay/mathlab/pkg/models"
)

type Config struct {
	Server    ServerConfig    `yaml:"server"`
	AI        AIConfig        `yaml:"ai"`
	Worksheet WorksheetConfig `yaml:"worksheet"`
	Database  DatabaseConfig  `yaml:"database"`
}

type ServerConfig struct {
	Host string `yaml:"host"`
	Port string `yaml:"port"`
	Env  string `yaml:"env"`
}

// AIConfig selects and configures the text-generation backend.
type AIConfig struct {
	Provider  string        `yaml:"provider"` // "gemini" or "ollama"
	APIKey    string        `yaml:"api_key"`
	Model     string        `yaml:"model"`
	OllamaURL string        `yaml:"ollama_url"`
	Timeout   time.Duration `yaml:"timeout"`
}

type WorksheetConfig struct {
	Count     int    `yaml:"count"`
	MaxNumber int    `yaml:"max_number"`
	Operation string `yaml:"operation"`
	// Retain caps stored worksheets; the oldest are evicted. 0 keeps all.
	Retain int `yaml:"retain"`
}

// DatabaseConfig only ever points at an in-memory SQLite database; worksheets
// live for the lifetime of the process.
type DatabaseConfig struct {
	DSN string `yaml:"dsn"`
}

const (
	ProviderGemini = "gemini"
	ProviderOllama = "ollama"

	DefaultGeminiModel = "gemini-2.5-flash"
	DefaultOllamaModel = "gemma3n:e4b"
	DefaultMemoryDSN   = "file::memory:?cache=shared"

	DefaultWorksheetRetain = 100
)

// Default returns the configuration used when nothing is set.
func Default() *Config {
	ws := models.DefaultWorksheetConfig()
	return &Config{
		Server: ServerConfig{
			Host: "0.0.0.0",
			Port: "8080",
			Env:  "development",
		},
		AI: AIConfig{
			Provider:  ProviderGemini,
			OllamaURL: "http://localhost:11434",
			Timeout:   60 * time.Second,
		},
		Worksheet: WorksheetConfig{
			Count:     ws.Count,
			MaxNumber: ws.MaxNumber,
			Operation: string(ws.Operation),
			Retain:    DefaultWorksheetRetain,
		},
		Database: DatabaseConfig{
			DSN: DefaultMemoryDSN,
		},
	}
}

// Load builds the configuration from defaults, an optional YAML file named by
// CONFIG_FILE, and finally the process environment (.env is loaded if present).
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := Default()
	if path := os.Getenv("CONFIG_FILE"); path != "" {
		if err := cfg.mergeFile(path); err != nil {
			return nil, err
		}
	}

	cfg.Server.Host = getEnv("SERVER_HOST", cfg.Server.Host)
	cfg.Server.Port = getEnv("SERVER_PORT", cfg.Server.Port)
	cfg.Server.Env = getEnv("ENV", cfg.Server.Env)

	cfg.AI.Provider = getEnv("AI_PROVIDER", cfg.AI.Provider)
	cfg.AI.APIKey = getEnv("API_KEY", getEnv("GEMINI_API_KEY", cfg.AI.APIKey))
	cfg.AI.Model = getEnv("AI_MODEL", cfg.AI.Model)
	cfg.AI.OllamaURL = getEnv("OLLAMA_URL", cfg.AI.OllamaURL)

	var err error
	if cfg.AI.Timeout, err = getEnvDuration("AI_TIMEOUT", cfg.AI.Timeout); err != nil {
		return nil, err
	}
	if cfg.Worksheet.Count, err = getEnvInt("WORKSHEET_COUNT", cfg.Worksheet.Count); err != nil {
		return nil, err
	}
	if cfg.Worksheet.MaxNumber, err = getEnvInt("WORKSHEET_MAX_NUMBER", cfg.Worksheet.MaxNumber); err != nil {
		return nil, err
	}
	cfg.Worksheet.Operation = getEnv("WORKSHEET_OPERATION", cfg.Worksheet.Operation)
	if cfg.Worksheet.Retain, err = getEnvInt("WORKSHEET_RETAIN", cfg.Worksheet.Retain); err != nil {
		return nil, err
	}
	cfg.Database.DSN = getEnv("DB_DSN", cfg.Database.DSN)

	if cfg.AI.Model == "" {
		cfg.AI.Model = defaultModel(cfg.AI.Provider)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks the values that would otherwise fail much later.
func (c *Config) Validate() error {
	switch c.AI.Provider {
	case ProviderGemini, ProviderOllama:
	default:
		return fmt.Errorf("unsupported AI provider %q", c.AI.Provider)
	}
	if _, err := models.ParseOperation(c.Worksheet.Operation); err != nil {
		return fmt.Errorf("worksheet operation: %w", err)
	}
	if c.Worksheet.Count <= 0 {
		return fmt.Errorf("worksheet count must be positive, got %d", c.Worksheet.Count)
	}
	if c.Worksheet.Retain < 0 {
		return fmt.Errorf("worksheet retain must not be negative, got %d", c.Worksheet.Retain)
	}
	return nil
}

// WorksheetDefaults converts the worksheet section into the shared model.
func (c *Config) WorksheetDefaults() models.WorksheetConfig {
	op, err := models.ParseOperation(c.Worksheet.Operation)
	if err != nil {
		op = models.OperationMultiply
	}
	return models.WorksheetConfig{
		Count:     c.Worksheet.Count,
		MaxNumber: c.Worksheet.MaxNumber,
		Operation: op,
	}
}

// Address is the host:port the HTTP server listens on.
func (c *Config) Address() string {
	return fmt.Sprintf("%s:%s", c.Server.Host, c.Server.Port)
}

func (c *Config) mergeFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("parse config file %s: %w", path, err)
	}
	return nil
}

func defaultModel(provider string) string {
	if provider == ProviderOllama {
		return DefaultOllamaModel
	}
	return DefaultGeminiModel
}

func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists && value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) (int, error) {
	value, exists := os.LookupEnv(key)
	if !exists || value == "" {
		return defaultValue, nil
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", key, err)
	}
	return n, nil
}

func getEnvDuration(key string, defaultValue time.Duration) (time.Duration, error) {
	value, exists := os.LookupEnv(key)
	if !exists || value == "" {
		return defaultValue, nil
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", key, err)
	}
	return d, nil
}
