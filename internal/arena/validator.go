package arena

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/rocketscienceinc/connect4-arena/internal/apperror"
	"github.com/rocketscienceinc/connect4-arena/internal/entity"
)

// Validate checks a raw column choice against the current board. It never
// mutates the board. The returned error is one of the apperror move
// sentinels, so the orchestrator can tell "the adapter produced garbage"
// apart from "the adapter chose a full column" and prompt accordingly.
func Validate(board *entity.Board, rawColumn string) (int, error) {
	raw := strings.TrimSpace(rawColumn)
	if raw == "" {
		return -1, apperror.ErrMalformedResponse
	}

	column, err := strconv.Atoi(raw)
	if err != nil {
		return -1, fmt.Errorf("%w: %q", apperror.ErrNotAnInteger, raw)
	}

	if column < 0 || column >= entity.BoardCols {
		return -1, fmt.Errorf("%w: column %d", apperror.ErrOutOfRange, column)
	}

	if board.Height(column) == entity.BoardRows {
		return -1, fmt.Errorf("%w: column %d", apperror.ErrColumnFull, column)
	}

	return column, nil
}
