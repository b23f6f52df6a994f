package config

import (
	"os"

	"github.com/go-playground/validator/v10"
	"github.com/samber/oops"
	"gopkg.in/yaml.v3"
)

type Config struct {
	Server    Server    `yaml:"server"`
	Log       Log       `yaml:"log"`
	OpenAI    OpenAI    `yaml:"openai"`
	RateLimit RateLimit `yaml:"rate_limit"`
}

type Server struct {
	// Listen address
	Listen string `yaml:"listen" example:":8080" validate:"required"`
	// Hard ceiling on request body size in bytes, enforced before JSON parsing
	BodyLimit int `yaml:"body_limit" example:"65536" validate:"required,gt=0"`
	// HMAC secret for verifying bearer tokens; empty disables token verification
	AuthSecret string `yaml:"auth_secret"`
}

type OpenAI struct {
	// OpenAI-compatible base url
	BaseURL string `yaml:"base_url" example:"https://openrouter.ai/api/v1" validate:"required"`
	// Provider token. Deliberately not required here: a missing token must
	// surface as 503 at request time, not as a startup failure
	Token string `yaml:"token" example:"sk-proj-abc123456789DEF789ghi012JKL345mno678PQR901stu234VWX"`
	// Model name
	Model string `yaml:"model" example:"deepseek/deepseek-chat-v3-0324:free" validate:"required"`
	// Maximum output token budget per completion
	MaxTokens int `yaml:"max_tokens" example:"400" validate:"gt=0"`
	// Sampling temperature
	Temperature float64 `yaml:"temperature" example:"0.7"`
	// Outbound call timeout in seconds
	TimeoutSeconds int `yaml:"timeout_seconds" example:"10" validate:"gt=0"`
}

type RateLimit struct {
	// Window width in milliseconds
	WindowMs int `yaml:"window_ms" example:"60000" validate:"gt=0"`
	// Hard per-identity request limit within one window
	MaxRequests int `yaml:"max_requests" example:"10" validate:"gt=0"`
	// Soft cap that triggers a pre-denial warning
	SoftCap int `yaml:"soft_cap" example:"8" validate:"gt=0"`
}

type Log struct {
	// Telegram logging config
	Telegram TelegramLog `yaml:"telegram"`
}

type TelegramLog struct {
	// Chat bot token, obtain it via BotFather
	Token string `yaml:"token" example:"1234567890:ABCdefGHIjklMNopQRstUVwxyZ-123456789"`
	// Chat ID to send messages to
	ChatID string `yaml:"chat_id" example:"1001234567890"`
}

func Load() (*Config, error) {
	var result Config

	data, err := os.ReadFile("config.yaml")
	if err != nil {
		return nil, oops.Errorf("failed to read config file: %w", err)
	}

	if err = yaml.Unmarshal(data, &result); err != nil {
		return nil, oops.Errorf("failed to parse YAML config: %w", err)
	}

	result.applyDefaults()

	validate := validator.New(validator.WithRequiredStructEnabled())
	if err := validate.Struct(result); err != nil {
		return nil, oops.Errorf("failed to validate config: %w", err)
	}

	return &result, nil
}

func (c *Config) applyDefaults() {
	if c.Server.Listen == "" {
		c.Server.Listen = ":8080"
	}
	if c.Server.BodyLimit == 0 {
		c.Server.BodyLimit = 64 * 1024
	}
	if c.OpenAI.MaxTokens == 0 {
		c.OpenAI.MaxTokens = 400
	}
	if c.OpenAI.Temperature == 0 {
		c.OpenAI.Temperature = 0.7
	}
	if c.OpenAI.TimeoutSeconds == 0 {
		c.OpenAI.TimeoutSeconds = 10
	}
	if c.RateLimit.WindowMs == 0 {
		c.RateLimit.WindowMs = 60_000
	}
	if c.RateLimit.MaxRequests == 0 {
		c.RateLimit.MaxRequests = 10
	}
	if c.RateLimit.SoftCap == 0 {
		c.RateLimit.SoftCap = 8
	}
}
