package entity

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rocketscienceinc/connect4-arena/internal/apperror"
)

// drawSequence fills all 42 cells with strictly alternating colors (Red
// first) and leaves no four-in-a-row anywhere.
var drawSequence = []int{
	0, 1, 1, 0, 2, 3, 3, 2, 4, 5, 5, 4, 6, 6,
	1, 6, 6, 0, 0, 1, 3, 2, 2, 3, 5, 4, 4, 5,
	0, 1, 1, 0, 2, 3, 3, 2, 4, 5, 5, 4, 6, 6,
}

func applySequence(t *testing.T, board *Board, columns []int) {
	t.Helper()

	color := ColorRed
	for i, column := range columns {
		_, err := board.Apply(column, color)
		require.NoErrorf(t, err, "move %d in column %d", i+1, column)
		color = color.Opponent()
	}
}

func TestNewBoard(t *testing.T) {
	// When: a new board is created
	board := NewBoard()

	// Then: it is empty, every column is legal and nothing is terminal
	require.NotNil(t, board)
	assert.Equal(t, 0, board.Moves)
	assert.Equal(t, []int{0, 1, 2, 3, 4, 5, 6}, board.LegalColumns())
	assert.Empty(t, board.FullColumns())
	assert.False(t, board.Terminal().Over)
}

func TestBoard_Apply(t *testing.T) {
	t.Run("pieces stack bottom-up", func(t *testing.T) {
		// Given: an empty board
		board := NewBoard()

		// When: two pieces drop into the same column
		first, err := board.Apply(3, ColorRed)
		require.NoError(t, err)
		second, err := board.Apply(3, ColorYellow)
		require.NoError(t, err)

		// Then: the first lands on the bottom row, the second right above it
		assert.Equal(t, Cell{Column: 3, Row: 0}, first)
		assert.Equal(t, Cell{Column: 3, Row: 1}, second)
		assert.Equal(t, 2, board.Moves)
		assert.Equal(t, 2, board.Height(3))
	})

	t.Run("gravity never leaves holes", func(t *testing.T) {
		// Given: a board with pieces dropped all over
		board := NewBoard()
		applySequence(t, board, []int{0, 2, 0, 2, 4, 0, 6, 2, 0, 4})

		// Then: every occupied cell sits on a fully occupied stack
		for column := 0; column < BoardCols; column++ {
			height := board.Height(column)
			for row := 0; row < height; row++ {
				assert.NotEqualf(t, ColorNone, board.Cells[row][column], "hole at column %d row %d", column, row)
			}
			for row := height; row < BoardRows; row++ {
				assert.Equalf(t, ColorNone, board.Cells[row][column], "floating piece at column %d row %d", column, row)
			}
		}
	})

	t.Run("error on out of range column", func(t *testing.T) {
		board := NewBoard()

		// When: columns outside [0, 7) are played
		_, errLow := board.Apply(-1, ColorRed)
		_, errHigh := board.Apply(7, ColorRed)

		// Then: both fail and the board is untouched
		require.ErrorIs(t, errLow, apperror.ErrOutOfRange)
		require.ErrorIs(t, errHigh, apperror.ErrOutOfRange)
		assert.Equal(t, 0, board.Moves)
	})

	t.Run("error on full column", func(t *testing.T) {
		// Given: a column filled to the top
		board := NewBoard()
		for i := 0; i < BoardRows; i++ {
			color := ColorRed
			if i%2 == 1 {
				color = ColorYellow
			}
			_, err := board.Apply(5, color)
			require.NoError(t, err)
		}

		// When: one more piece drops into it
		_, err := board.Apply(5, ColorRed)

		// Then: the move is rejected and the move count unchanged
		require.ErrorIs(t, err, apperror.ErrColumnFull)
		assert.Equal(t, BoardRows, board.Moves)
		assert.NotContains(t, board.LegalColumns(), 5)
		assert.Contains(t, board.FullColumns(), 5)
	})
}

func TestBoard_Terminal(t *testing.T) {
	t.Run("vertical four", func(t *testing.T) {
		// Given: Red stacks column 0 while Yellow plays column 1
		board := NewBoard()
		applySequence(t, board, []int{0, 1, 0, 1, 0, 1})

		// Then: three in a column is not yet terminal
		require.False(t, board.Terminal().Over)

		// When: Red completes the column
		_, err := board.Apply(0, ColorRed)
		require.NoError(t, err)

		// Then: Red wins with the four stacked cells
		terminal := board.Terminal()
		require.True(t, terminal.Over)
		assert.False(t, terminal.Draw)
		assert.Equal(t, ColorRed, terminal.Winner)
		assert.Len(t, terminal.Line, 4)
	})

	t.Run("horizontal four", func(t *testing.T) {
		board := NewBoard()
		applySequence(t, board, []int{0, 0, 1, 1, 2, 2, 3})

		terminal := board.Terminal()
		require.True(t, terminal.Over)
		assert.Equal(t, ColorRed, terminal.Winner)
	})

	t.Run("diagonal four detected from the middle of the line", func(t *testing.T) {
		// Given: a diagonal whose closing piece is NOT at either end
		board := NewBoard()
		moves := []struct {
			column int
			color  Color
		}{
			{0, ColorRed},    // (0,0)
			{1, ColorYellow}, // support (1,0)
			{2, ColorYellow}, // support (2,0)
			{2, ColorYellow}, // support (2,1)
			{2, ColorRed},    // (2,2)
			{3, ColorYellow}, // support (3,0)
			{3, ColorYellow}, // support (3,1)
			{3, ColorYellow}, // support (3,2)
			{3, ColorRed},    // (3,3)
		}
		for _, move := range moves {
			_, err := board.Apply(move.column, move.color)
			require.NoError(t, err)
		}
		require.False(t, board.Terminal().Over)

		// When: the second cell of the diagonal lands last
		_, err := board.Apply(1, ColorRed) // (1,1)
		require.NoError(t, err)

		// Then: the full diagonal is reported
		terminal := board.Terminal()
		require.True(t, terminal.Over)
		assert.Equal(t, ColorRed, terminal.Winner)
		assert.ElementsMatch(t, []Cell{
			{Column: 0, Row: 0},
			{Column: 1, Row: 1},
			{Column: 2, Row: 2},
			{Column: 3, Row: 3},
		}, terminal.Line)
	})

	t.Run("full board with no four is a draw", func(t *testing.T) {
		// Given: a known draw pattern filling all 42 cells
		board := NewBoard()
		applySequence(t, board, drawSequence)

		// Then: the board is full, nobody won
		require.True(t, board.IsFull())
		assert.Empty(t, board.LegalColumns())

		terminal := board.Terminal()
		require.True(t, terminal.Over)
		assert.True(t, terminal.Draw)
		assert.Equal(t, ColorNone, terminal.Winner)
	})

	t.Run("terminal detection is idempotent", func(t *testing.T) {
		board := NewBoard()
		applySequence(t, board, []int{0, 1, 0, 1, 0, 1, 0})

		first := board.Terminal()
		second := board.Terminal()

		assert.Equal(t, first, second)
	})
}

func TestBoard_Renders(t *testing.T) {
	// Given: one Red piece at the bottom of column 0
	board := NewBoard()
	_, err := board.Apply(0, ColorRed)
	require.NoError(t, err)

	// Then: both renders show the piece
	assert.Contains(t, board.Grid(), `"Row 1": ["red", "", "", "", "", "", ""]`)
	assert.Contains(t, board.Compact(), " R _ _ _ _ _ _\n")
}
