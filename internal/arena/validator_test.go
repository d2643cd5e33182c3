package arena

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rocketscienceinc/connect4-arena/internal/apperror"
	"github.com/rocketscienceinc/connect4-arena/internal/entity"
)

func TestValidate(t *testing.T) {
	t.Run("accepts a legal column", func(t *testing.T) {
		// Given: an empty board
		board := entity.NewBoard()

		// When: a plain integer inside the range is offered
		column, err := Validate(board, "4")

		// Then: it passes through untouched
		require.NoError(t, err)
		assert.Equal(t, 4, column)
	})

	t.Run("trims surrounding whitespace", func(t *testing.T) {
		board := entity.NewBoard()

		column, err := Validate(board, "  2\n")

		require.NoError(t, err)
		assert.Equal(t, 2, column)
	})

	t.Run("rejects an empty reply as malformed", func(t *testing.T) {
		board := entity.NewBoard()

		_, err := Validate(board, "   ")

		require.ErrorIs(t, err, apperror.ErrMalformedResponse)
	})

	t.Run("rejects a non-integer reply", func(t *testing.T) {
		board := entity.NewBoard()

		_, err := Validate(board, "the middle column")

		require.ErrorIs(t, err, apperror.ErrNotAnInteger)
	})

	t.Run("rejects out of range columns", func(t *testing.T) {
		board := entity.NewBoard()

		_, errLow := Validate(board, "-1")
		_, errHigh := Validate(board, "7")

		require.ErrorIs(t, errLow, apperror.ErrOutOfRange)
		require.ErrorIs(t, errHigh, apperror.ErrOutOfRange)
	})

	t.Run("rejects a full column", func(t *testing.T) {
		// Given: column 0 is filled to the top
		board := entity.NewBoard()
		color := entity.ColorRed
		for i := 0; i < entity.BoardRows; i++ {
			_, err := board.Apply(0, color)
			require.NoError(t, err)
			color = color.Opponent()
		}

		// When: that column is offered again
		_, err := Validate(board, "0")

		// Then: the full-column rejection is returned and the board untouched
		require.ErrorIs(t, err, apperror.ErrColumnFull)
		assert.Equal(t, entity.BoardRows, board.Moves)
	})
}
