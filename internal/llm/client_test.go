package llm

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tmc/langchaingo/llms/anthropic"
	"github.com/tmc/langchaingo/llms/ollama"
	"github.com/tmc/langchaingo/llms/openai"
)

func TestBuildModel(t *testing.T) {
	conf := Config{
		OpenAIToken:    "test-openai-token",
		AnthropicToken: "test-anthropic-token",
	}

	t.Run("claude models go to anthropic", func(t *testing.T) {
		model, err := buildModel(conf, "claude-haiku-4-5")

		require.NoError(t, err)
		assert.IsType(t, &anthropic.LLM{}, model)
	})

	t.Run("gpt and reasoning models go to openai", func(t *testing.T) {
		for _, name := range []string{"gpt-5-mini", "o1-mini", "o3-mini", "o4-mini"} {
			model, err := buildModel(conf, name)

			require.NoError(t, err, name)
			assert.IsTypef(t, &openai.LLM{}, model, "model %s", name)
		}
	})

	t.Run("unknown models go to a local ollama server", func(t *testing.T) {
		model, err := buildModel(conf, "llama3.2")

		require.NoError(t, err)
		assert.IsType(t, &ollama.LLM{}, model)
	})

	t.Run("names that merely start with o stay on ollama", func(t *testing.T) {
		model, err := buildModel(conf, "olmo")

		require.NoError(t, err)
		assert.IsType(t, &ollama.LLM{}, model)
	})
}
