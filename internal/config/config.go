package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

type Config struct {
	ProjectDir   string `json:"project_dir"`
	ResultsDir   string `json:"results_dir"`
	DataDir      string `json:"data_dir"`
	DataCacheDir string `json:"data_cache_dir"`

	LLMProvider string `json:"llm_provider"`
	LLMModel    string `json:"llm_model"`
	BackendURL  string `json:"backend_url"`

	// Market data settings
	DefaultExchange string `json:"default_exchange"`
	LookbackDays    int    `json:"lookback_days"`

	RunTimeoutSeconds int  `json:"run_timeout_seconds"`
	OnlineTools       bool `json:"online_tools"`
	Debug             bool `json:"debug"`
	CacheEnabled      bool `json:"cache_enabled"`

	// AI Model API Keys
	OpenAIAPIKey   string `json:"openai_api_key"`
	DeepSeekAPIKey string `json:"deepseek_api_key"`
}

func DefaultConfig() *Config {
	currentDir, _ := os.Getwd()

	cfg := &Config{
		ProjectDir:   currentDir,
		ResultsDir:   filepath.Join(currentDir, "results"),
		DataDir:      filepath.Join(currentDir, "data"),
		DataCacheDir: filepath.Join(currentDir, "data", "cache"),

		LLMProvider: "openai",
		LLMModel:    "gpt-4o-mini",
		BackendURL:  "https://api.openai.com/v1",

		DefaultExchange: "NS",
		LookbackDays:    365,

		RunTimeoutSeconds: 600,
		OnlineTools:       true,
		Debug:             false,
		CacheEnabled:      true,
	}

	// Load environment variables from .env file
	_ = godotenv.Load()

	// Override with environment variables if they exist
	cfg.loadFromEnv()

	return cfg
}

func (c *Config) loadFromEnv() {
	if val := os.Getenv("PROJECT_DIR"); val != "" {
		c.ProjectDir = val
	}
	if val := os.Getenv("RESULTS_DIR"); val != "" {
		c.ResultsDir = val
	}
	if val := os.Getenv("DATA_DIR"); val != "" {
		c.DataDir = val
	}
	if val := os.Getenv("DATA_CACHE_DIR"); val != "" {
		c.DataCacheDir = val
	}

	if val := os.Getenv("LLM_PROVIDER"); val != "" {
		c.LLMProvider = val
	}
	if val := os.Getenv("LLM_MODEL"); val != "" {
		c.LLMModel = val
	}
	if val := os.Getenv("BACKEND_URL"); val != "" {
		c.BackendURL = val
	}

	if val := os.Getenv("DEFAULT_EXCHANGE"); val != "" {
		c.DefaultExchange = val
	}
	if val := os.Getenv("LOOKBACK_DAYS"); val != "" {
		if v, err := strconv.Atoi(val); err == nil {
			c.LookbackDays = v
		}
	}
	if val := os.Getenv("RUN_TIMEOUT_SECONDS"); val != "" {
		if v, err := strconv.Atoi(val); err == nil {
			c.RunTimeoutSeconds = v
		}
	}

	if val := os.Getenv("CACHE_ENABLED"); val != "" {
		if cache, err := strconv.ParseBool(val); err == nil {
			c.CacheEnabled = cache
		}
	}
	if val := os.Getenv("ONLINE_TOOLS"); val != "" {
		if enabled, err := strconv.ParseBool(val); err == nil {
			c.OnlineTools = enabled
		}
	}
	if val := os.Getenv("NIVESH_DEBUG"); val != "" {
		if enabled, err := strconv.ParseBool(val); err == nil {
			c.Debug = enabled
		}
	}

	if val := os.Getenv("OPENAI_API_KEY"); val != "" {
		c.OpenAIAPIKey = val
	}
	if val := os.Getenv("DEEPSEEK_API_KEY"); val != "" {
		c.DeepSeekAPIKey = val
	}
}

func (c *Config) Validate() error {
	switch c.LLMProvider {
	case "openai", "deepseek", "":
	default:
		return fmt.Errorf("unsupported llm provider %q", c.LLMProvider)
	}
	if c.LookbackDays <= 0 {
		return fmt.Errorf("lookback days must be positive, got %d", c.LookbackDays)
	}
	if c.RunTimeoutSeconds < 0 {
		return fmt.Errorf("run timeout must not be negative, got %d", c.RunTimeoutSeconds)
	}
	return nil
}

func (c *Config) EnsureDirectories() error {
	dirs := []string{c.ProjectDir, c.ResultsDir, c.DataDir, c.DataCacheDir}
	for _, dir := range dirs {
		path := strings.TrimSpace(dir)
		if path == "" {
			continue
		}
		if err := os.MkdirAll(path, 0o755); err != nil {
			return fmt.Errorf("create directory %s: %w", path, err)
		}
	}
	return nil
}
