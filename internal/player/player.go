package player

import (
	"context"

	"github.com/rocketscienceinc/connect4-arena/internal/entity"
)

// Response is what an adapter produces for one move request. Reasoning
// and Visualization are advisory text for display and audit; only
// RawColumn feeds the validator. RawColumn is kept as text so that
// malformed replies surface as validation rejections, not parse panics.
type Response struct {
	Reasoning     string `json:"reasoning"`
	Visualization string `json:"visualization"`
	RawColumn     string `json:"column"`
}

// RetryContext carries the prior rejection into the next request so the
// adapter can include corrective guidance in its prompt.
type RetryContext struct {
	Attempt        int
	RejectedColumn string
	Err            error
}

// Player turns board state into a requested move plus reasoning text.
// RequestMove must return an error wrapping apperror.ErrAdapterUnavailable
// only when the underlying transport gave up; a reply it cannot interpret
// is returned with an empty RawColumn instead, so the per-turn retry loop
// handles it.
type Player interface {
	Name() string
	RequestMove(ctx context.Context, board entity.Board, history []entity.TurnRecord, color entity.Color, retry *RetryContext) (Response, error)
}
