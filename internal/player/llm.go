package player

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/rocketscienceinc/connect4-arena/internal/apperror"
	"github.com/rocketscienceinc/connect4-arena/internal/entity"
)

// Completer is the transport boundary: it turns a prompt pair into text
// or fails. Connection handling, auth and backoff all live behind it.
type Completer interface {
	Complete(ctx context.Context, system, user string) (string, error)
}

// LLMPlayer is the model-backed adapter. It builds the prompts, sends
// them through the transport and interprets the reply. A reply that
// cannot be interpreted is NOT an error here: it comes back with an empty
// RawColumn and the raw text as reasoning, so the retry loop can show it
// in the transcript and ask again.
type LLMPlayer struct {
	name   string
	client Completer
}

func NewLLMPlayer(name string, client Completer) *LLMPlayer {
	return &LLMPlayer{
		name:   name,
		client: client,
	}
}

func (that *LLMPlayer) Name() string {
	return that.name
}

func (that *LLMPlayer) RequestMove(ctx context.Context, board entity.Board, _ []entity.TurnRecord, color entity.Color, retry *RetryContext) (Response, error) {
	system, user := buildPrompts(board, color, retry)

	reply, err := that.client.Complete(ctx, system, user)
	if err != nil {
		return Response{}, fmt.Errorf("%w: %s: %w", apperror.ErrAdapterUnavailable, that.name, err)
	}

	return parseReply(reply), nil
}

// rawReply mirrors the response schema. Column is typed loosely because
// models answer with 3, "3" or worse.
type rawReply struct {
	Reasoning     string `json:"reasoning"`
	Visualization string `json:"visualization"`
	Column        any    `json:"column"`
}

// parseReply interprets the model reply into a Response. It extracts the
// outermost JSON object first, since models like to wrap JSON in prose or
// markdown fences.
func parseReply(reply string) Response {
	body := extractJSON(reply)

	// A bare {3} style reply still names a column.
	if column, ok := singleTokenColumn(body); ok {
		return Response{RawColumn: column}
	}

	var raw rawReply
	if err := json.Unmarshal([]byte(body), &raw); err != nil {
		return Response{Reasoning: strings.TrimSpace(reply)}
	}

	return Response{
		Reasoning:     raw.Reasoning,
		Visualization: raw.Visualization,
		RawColumn:     columnText(raw.Column),
	}
}

// extractJSON returns the outermost {...} block of the reply, or the
// reply unchanged when there is none.
func extractJSON(reply string) string {
	left := strings.Index(reply, "{")
	right := strings.LastIndex(reply, "}")
	if left == -1 || right == -1 || right < left {
		return reply
	}
	return reply[left : right+1]
}

func singleTokenColumn(body string) (string, bool) {
	trimmed := strings.TrimSpace(body)
	if !strings.HasPrefix(trimmed, "{") || !strings.HasSuffix(trimmed, "}") {
		return "", false
	}

	inner := strings.TrimSpace(trimmed[1 : len(trimmed)-1])
	if _, err := strconv.Atoi(inner); err != nil {
		return "", false
	}

	return inner, true
}

func columnText(column any) string {
	switch v := column.(type) {
	case nil:
		return ""
	case string:
		return strings.TrimSpace(v)
	case float64:
		return strconv.Itoa(int(v))
	case json.Number:
		return v.String()
	default:
		return fmt.Sprintf("%v", v)
	}
}
