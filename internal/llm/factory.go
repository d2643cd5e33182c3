package llm

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/rocketscienceinc/connect4-arena/internal/player"
)

// Factory builds player adapters from opaque model selectors. A selector
// of the form "scripted:0,1,2" yields a deterministic player; anything
// else is treated as a hosted-model identifier.
type Factory struct {
	logger *slog.Logger
	conf   Config
}

func NewFactory(logger *slog.Logger, conf Config) *Factory {
	return &Factory{
		logger: logger,
		conf:   conf,
	}
}

func (that *Factory) Create(selector string) (player.Player, error) {
	if strings.HasPrefix(selector, "scripted:") {
		scripted, err := player.ParseScriptSelector(selector)
		if err != nil {
			return nil, fmt.Errorf("failed to parse scripted selector: %w", err)
		}
		return scripted, nil
	}

	client, err := NewClient(that.logger, that.conf, selector)
	if err != nil {
		return nil, fmt.Errorf("failed to create transport for %s: %w", selector, err)
	}

	return player.NewLLMPlayer(selector, client), nil
}
