package player

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/rocketscienceinc/connect4-arena/internal/apperror"
	"github.com/rocketscienceinc/connect4-arena/internal/entity"
)

// ScriptedPlayer replays a fixed sequence of raw column replies. It is
// the deterministic stand-in for a model-backed player: orchestrator
// tests and offline play run against it without any external service.
type ScriptedPlayer struct {
	name    string
	replies []string
	next    int
	loop    bool
}

func NewScriptedPlayer(name string, replies ...string) *ScriptedPlayer {
	return &ScriptedPlayer{
		name:    name,
		replies: replies,
	}
}

// NewColumnScript builds a scripted player from plain column indices.
func NewColumnScript(name string, columns ...int) *ScriptedPlayer {
	replies := make([]string, len(columns))
	for i, column := range columns {
		replies[i] = strconv.Itoa(column)
	}
	return NewScriptedPlayer(name, replies...)
}

// NewRepeatingScript builds a scripted player that answers every request
// with the same reply.
func NewRepeatingScript(name, reply string) *ScriptedPlayer {
	return &ScriptedPlayer{
		name:    name,
		replies: []string{reply},
		loop:    true,
	}
}

// ParseScriptSelector turns a "scripted:0,1,2" model selector into a
// scripted player.
func ParseScriptSelector(selector string) (*ScriptedPlayer, error) {
	list, ok := strings.CutPrefix(selector, "scripted:")
	if !ok {
		return nil, fmt.Errorf("not a scripted selector: %q", selector)
	}

	replies := strings.Split(list, ",")
	for i := range replies {
		replies[i] = strings.TrimSpace(replies[i])
	}

	return NewScriptedPlayer(selector, replies...), nil
}

func (that *ScriptedPlayer) Name() string {
	return that.name
}

func (that *ScriptedPlayer) RequestMove(_ context.Context, _ entity.Board, _ []entity.TurnRecord, color entity.Color, retry *RetryContext) (Response, error) {
	if that.next >= len(that.replies) {
		if !that.loop {
			return Response{}, fmt.Errorf("%w: %w after %d moves", apperror.ErrAdapterUnavailable, apperror.ErrScriptExhausted, that.next)
		}
		that.next = 0
	}

	reply := that.replies[that.next]
	that.next++

	reasoning := fmt.Sprintf("scripted %s move %d: column %s", color.Name(), that.next, reply)
	if retry != nil {
		reasoning = fmt.Sprintf("scripted %s retry %d after %v: column %s", color.Name(), retry.Attempt, retry.Err, reply)
	}

	return Response{
		Reasoning: reasoning,
		RawColumn: reply,
	}, nil
}
