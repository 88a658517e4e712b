package assistant

import (
	"fmt"
	"os"
	"time"

	"gnatwriter/internal/models"

	"github.com/ilyakaznacheev/cleanenv"
)

// Role selects which assistant persona a dispatch goes to.
type Role string

const (
	RoleChat       Role = "chat"
	RoleGenerative Role = "generative"
	RoleMultimodal Role = "multimodal"
)

// RoleConfig describes one assistant role's endpoint and budget.
type RoleConfig struct {
	Provider string `yaml:"provider" env-default:"ollama"` // ollama or openai
	Endpoint string `yaml:"endpoint" env-default:"http://localhost:11434"`
	Model    string `yaml:"model"`
	APIKey   string `yaml:"api_key"`
	// ContextWindow is the hard prompt budget in estimator units.
	ContextWindow int `yaml:"context_window" env-default:"4096"`
	// MemoryDuration is how many prior turns of the session the assistant
	// sees. 0 makes the role stateless.
	MemoryDuration int           `yaml:"memory_duration" env-default:"8"`
	Temperature    float64       `yaml:"temperature" env-default:"0.7"`
	KeepAlive      time.Duration `yaml:"keep_alive" env-default:"1h"`
}

// Config holds the per-role assistant settings.
type Config struct {
	Chat       RoleConfig `yaml:"chat" env-prefix:"ASSISTANT_CHAT_"`
	Generative RoleConfig `yaml:"generative" env-prefix:"ASSISTANT_GENERATIVE_"`
	Multimodal RoleConfig `yaml:"multimodal" env-prefix:"ASSISTANT_MULTIMODAL_"`

	MaxRetries int           `yaml:"max_retries" env:"ASSISTANT_MAX_RETRIES" env-default:"3"`
	RetryDelay time.Duration `yaml:"retry_delay" env:"ASSISTANT_RETRY_DELAY" env-default:"2s"`
}

// LoadConfig reads assistants.yml if present, applies environment
// overrides, fills per-role model defaults and validates budgets.
func LoadConfig(path string) (*Config, error) {
	var cfg Config
	if _, err := os.Stat(path); err == nil {
		if err := cleanenv.ReadConfig(path, &cfg); err != nil {
			return nil, fmt.Errorf("failed to read assistant config %s: %w", path, err)
		}
	} else {
		if err := cleanenv.ReadEnv(&cfg); err != nil {
			return nil, fmt.Errorf("failed to read assistant env config: %w", err)
		}
	}

	if cfg.Chat.Model == "" {
		cfg.Chat.Model = "gemma:2b"
	}
	if cfg.Generative.Model == "" {
		cfg.Generative.Model = "llama2:7b"
	}
	if cfg.Multimodal.Model == "" {
		cfg.Multimodal.Model = "llava:7b"
	}

	for role, rc := range map[Role]RoleConfig{
		RoleChat:       cfg.Chat,
		RoleGenerative: cfg.Generative,
		RoleMultimodal: cfg.Multimodal,
	} {
		if rc.ContextWindow <= 0 {
			return nil, fmt.Errorf("%s role context window must be positive: %w", role, models.ErrValidation)
		}
		if rc.MemoryDuration < 0 {
			return nil, fmt.Errorf("%s role memory duration cannot be negative: %w", role, models.ErrValidation)
		}
	}
	return &cfg, nil
}

// ForRole returns the settings for one role.
func (c *Config) ForRole(role Role) (RoleConfig, error) {
	switch role {
	case RoleChat:
		return c.Chat, nil
	case RoleGenerative:
		return c.Generative, nil
	case RoleMultimodal:
		return c.Multimodal, nil
	default:
		return RoleConfig{}, fmt.Errorf("unknown assistant role %q: %w", role, models.ErrValidation)
	}
}
