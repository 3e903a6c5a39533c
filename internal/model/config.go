package model

import "time"

// Config is the full runtime configuration, loaded from flags, SHADOWHORN_*
// environment variables and ~/.shadowhorn/config.yaml (in that priority).
type Config struct {
	HTTP        HTTPConfig        `yaml:"http" mapstructure:"http"`
	Cache       CacheConfig       `yaml:"cache" mapstructure:"cache"`
	LLM         LLMConfig         `yaml:"llm" mapstructure:"llm"`
	Collect     CollectConfig     `yaml:"collect" mapstructure:"collect"`
	Concurrency ConcurrencyConfig `yaml:"concurrency" mapstructure:"concurrency"`
	Output      OutputConfig      `yaml:"output" mapstructure:"output"`
}

// HTTPConfig controls the outbound HTTP client used by collectors.
type HTTPConfig struct {
	Timeout      time.Duration `yaml:"timeout" mapstructure:"timeout"`
	UserAgent    string        `yaml:"user_agent" mapstructure:"user_agent"`
	MaxBodyBytes int64         `yaml:"max_body_bytes" mapstructure:"max_body_bytes"`
	InsecureTLS  bool          `yaml:"insecure_tls" mapstructure:"insecure_tls"`
	HTTPProxy    string        `yaml:"http_proxy" mapstructure:"http_proxy"`
	HTTPSProxy   string        `yaml:"https_proxy" mapstructure:"https_proxy"`
}

// CacheConfig controls the layered collection/correlation cache.
type CacheConfig struct {
	Enabled   bool          `yaml:"enabled" mapstructure:"enabled"`
	Dir       string        `yaml:"dir" mapstructure:"dir"`
	MemoryTTL time.Duration `yaml:"memory_ttl" mapstructure:"memory_ttl"`
	DiskTTL   time.Duration `yaml:"disk_ttl" mapstructure:"disk_ttl"`
}

// LLMConfig selects and configures the correlation backend.
type LLMConfig struct {
	Provider  string `yaml:"provider" mapstructure:"provider"` // openai, openrouter, ollama, ""
	Model     string `yaml:"model" mapstructure:"model"`
	APIKey    string `yaml:"api_key" mapstructure:"api_key"`
	BaseURL   string `yaml:"base_url" mapstructure:"base_url"`
	Timeout   int    `yaml:"timeout" mapstructure:"timeout"` // seconds
	MaxTokens int    `yaml:"max_tokens" mapstructure:"max_tokens"`
}

// CollectConfig controls the per-platform collectors.
type CollectConfig struct {
	GitHubToken     string  `yaml:"github_token" mapstructure:"github_token"`
	BreachAPIKey    string  `yaml:"breach_api_key" mapstructure:"breach_api_key"`
	RespectRobots   bool    `yaml:"respect_robots" mapstructure:"respect_robots"`
	RequestsPerSec  float64 `yaml:"requests_per_sec" mapstructure:"requests_per_sec"`
	RateLimitBurst  int     `yaml:"rate_limit_burst" mapstructure:"rate_limit_burst"`
	RepoSampleSize  int     `yaml:"repo_sample_size" mapstructure:"repo_sample_size"`
	ConnectionLimit int     `yaml:"connection_limit" mapstructure:"connection_limit"`
}

// ConcurrencyConfig bounds the batch worker pool.
type ConcurrencyConfig struct {
	CollectWorkers int `yaml:"collect_workers" mapstructure:"collect_workers"`
}

// OutputConfig controls rendering behavior.
type OutputConfig struct {
	Verbose bool `yaml:"verbose" mapstructure:"verbose"`
	Pretty  bool `yaml:"pretty" mapstructure:"pretty"`
}

// DefaultConfig returns the built-in defaults.
func DefaultConfig() *Config {
	return &Config{
		HTTP: HTTPConfig{
			Timeout:      30 * time.Second,
			UserAgent:    "ShadowHorn/0.3 (+https://github.com/shadowhorn/shadowhorn)",
			MaxBodyBytes: 2_000_000,
		},
		Cache: CacheConfig{
			Enabled:   true,
			Dir:       "",
			MemoryTTL: 15 * time.Minute,
			DiskTTL:   24 * time.Hour,
		},
		LLM: LLMConfig{
			Provider:  "",
			Model:     "",
			Timeout:   60,
			MaxTokens: 2000,
		},
		Collect: CollectConfig{
			RespectRobots:   true,
			RequestsPerSec:  2,
			RateLimitBurst:  5,
			RepoSampleSize:  30,
			ConnectionLimit: 20,
		},
		Concurrency: ConcurrencyConfig{
			CollectWorkers: 4,
		},
		Output: OutputConfig{},
	}
}
