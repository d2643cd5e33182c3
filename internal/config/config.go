package config

import (
	"fmt"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

type Config struct {
	LogLevel          string `yaml:"log-level" env-default:"info"`
	HTTPPort          string `yaml:"http-port" env-default:"9090"`
	SocketPort        string `yaml:"socket-port" env-default:"9091"`
	Redis             Redis  `yaml:"redis"`
	SQLiteStoragePath string `yaml:"sqlite-storage-path" env-default:"arena.db"`
	LLM               LLM    `yaml:"llm"`
	Arena             Arena  `yaml:"arena"`
}

type Redis struct {
	Host string `yaml:"host" env-default:"localhost"`
	Port string `yaml:"port" env-default:"6379"`
}

type LLM struct {
	OpenAIToken     string        `yaml:"openai-token" env:"OPENAI_API_KEY" env-default:""`
	AnthropicToken  string        `yaml:"anthropic-token" env:"ANTHROPIC_API_KEY" env-default:""`
	OllamaServerURL string        `yaml:"ollama-server-url" env-default:""`
	Temperature     float64       `yaml:"temperature" env-default:"0.5"`
	MaxTokens       int           `yaml:"max-tokens" env-default:"3000"`
	MaxRetries      int           `yaml:"max-retries" env-default:"2"`
	RequestTimeout  time.Duration `yaml:"request-timeout" env-default:"120s"`
}

type Arena struct {
	RetryBudget   int      `yaml:"retry-budget" env-default:"3"`
	RedModel      string   `yaml:"red-model" env-default:"gpt-5-mini"`
	YellowModel   string   `yaml:"yellow-model" env-default:"claude-haiku-4-5"`
	AllowedModels []string `yaml:"allowed-models"`
}

// MustLoad - load all configurations in config.yml file.
func MustLoad(path string) *Config {
	config := &Config{}

	if err := cleanenv.ReadConfig(path, config); err != nil {
		panic(fmt.Errorf("unable to load config file: %w", err))
	}

	return config
}

func (that *Redis) GetRedisAddr() string {
	return fmt.Sprintf("%s:%s", that.Host, that.Port)
}
