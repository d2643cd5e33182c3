package entity

import (
	"fmt"
	"strings"

	"github.com/rocketscienceinc/connect4-arena/internal/apperror"
)

const (
	BoardCols = 7
	BoardRows = 6

	winLength = 4
)

// Cell is one position on the grid. Row 0 is the bottom row, so pieces
// stack upward within a column.
type Cell struct {
	Column int `json:"column"`
	Row    int `json:"row"`
}

// Board holds the authoritative grid state of one match. It is mutated
// only through Apply; every other method is a read.
type Board struct {
	Cells   [BoardRows][BoardCols]Color `json:"cells"`
	Moves   int                         `json:"moves"`
	Last    Cell                        `json:"last"`
	HasLast bool                        `json:"has_last"`
}

func NewBoard() *Board {
	return &Board{}
}

// Height returns the number of occupied cells in the given column.
func (that *Board) Height(column int) int {
	height := 0
	for height < BoardRows && that.Cells[height][column] != ColorNone {
		height++
	}
	return height
}

// Apply drops a piece of the given color into the column. The piece lands
// on the lowest empty row and the landed cell is returned. The board is
// unchanged when an error is returned.
func (that *Board) Apply(column int, color Color) (Cell, error) {
	if column < 0 || column >= BoardCols {
		return Cell{}, fmt.Errorf("%w: column %d", apperror.ErrOutOfRange, column)
	}

	row := that.Height(column)
	if row == BoardRows {
		return Cell{}, fmt.Errorf("%w: column %d", apperror.ErrColumnFull, column)
	}

	cell := Cell{Column: column, Row: row}
	that.Cells[row][column] = color
	that.Last = cell
	that.HasLast = true
	that.Moves++

	return cell, nil
}

// LegalColumns returns the columns that still have room, in order. An
// empty slice means the board is full.
func (that *Board) LegalColumns() []int {
	columns := make([]int, 0, BoardCols)
	for column := 0; column < BoardCols; column++ {
		if that.Height(column) < BoardRows {
			columns = append(columns, column)
		}
	}
	return columns
}

// FullColumns returns the columns that can no longer be played.
func (that *Board) FullColumns() []int {
	var columns []int
	for column := 0; column < BoardCols; column++ {
		if that.Height(column) == BoardRows {
			columns = append(columns, column)
		}
	}
	return columns
}

func (that *Board) IsFull() bool {
	return that.Moves == BoardRows*BoardCols
}

// Terminal describes a finished position: either a win with the four
// winning cells, or a draw on a full board.
type Terminal struct {
	Over   bool   `json:"over"`
	Draw   bool   `json:"draw"`
	Winner Color  `json:"winner,omitempty"`
	Line   []Cell `json:"line,omitempty"`
}

// Terminal reports whether the board is in a terminal position. The win
// scan is anchored at the most recently placed cell: counting outward in
// both directions along the four axes through that cell is enough,
// because any new four-in-a-row must pass through it.
func (that *Board) Terminal() Terminal {
	if that.HasLast {
		if line := that.winningLine(that.Last); line != nil {
			return Terminal{Over: true, Winner: that.Cells[that.Last.Row][that.Last.Column], Line: line}
		}
	}

	if that.IsFull() {
		return Terminal{Over: true, Draw: true}
	}

	return Terminal{}
}

// winningLine returns the four cells of a winning line through the anchor
// cell, or nil when there is none.
func (that *Board) winningLine(anchor Cell) []Cell {
	color := that.Cells[anchor.Row][anchor.Column]
	if color == ColorNone {
		return nil
	}

	directions := [4][2]int{
		{1, 0},  // horizontal
		{0, 1},  // vertical
		{1, 1},  // diagonal up-right
		{1, -1}, // diagonal down-right
	}

	for _, dir := range directions {
		back := that.runLength(anchor, -dir[0], -dir[1], color)
		forward := that.runLength(anchor, dir[0], dir[1], color)

		if back+forward+1 < winLength {
			continue
		}

		line := make([]Cell, 0, winLength)
		start := Cell{Column: anchor.Column - dir[0]*back, Row: anchor.Row - dir[1]*back}
		for step := 0; step < winLength; step++ {
			line = append(line, Cell{Column: start.Column + dir[0]*step, Row: start.Row + dir[1]*step})
		}
		return line
	}

	return nil
}

// runLength counts same-colored cells adjacent to the anchor in one
// direction, excluding the anchor itself.
func (that *Board) runLength(anchor Cell, dx, dy int, color Color) int {
	count := 0
	for step := 1; step < winLength; step++ {
		column := anchor.Column + dx*step
		row := anchor.Row + dy*step
		if column < 0 || column >= BoardCols || row < 0 || row >= BoardRows {
			break
		}
		if that.Cells[row][column] != color {
			break
		}
		count++
	}
	return count
}

// Grid renders the board as a labeled JSON-like document, row 6 at the
// top, for use inside prompts.
func (that *Board) Grid() string {
	var sb strings.Builder

	sb.WriteString("{\n")
	sb.WriteString(`    "Column numbers": [0, 1, 2, 3, 4, 5, 6],` + "\n")
	for row := BoardRows - 1; row >= 0; row-- {
		sb.WriteString(fmt.Sprintf(`    "Row %d": [`, row+1))
		for column := 0; column < BoardCols; column++ {
			sb.WriteString(fmt.Sprintf("%q", pieceName(that.Cells[row][column])))
			if column < BoardCols-1 {
				sb.WriteString(", ")
			}
		}
		sb.WriteString("]")
		if row > 0 {
			sb.WriteString(",")
		}
		sb.WriteString("\n")
	}
	sb.WriteString("}")

	return sb.String()
}

// Compact renders the board a second way, as a letter grid, so a model
// sees the same position twice.
func (that *Board) Compact() string {
	var sb strings.Builder

	sb.WriteString(" 0 1 2 3 4 5 6\n")
	for row := BoardRows - 1; row >= 0; row-- {
		for column := 0; column < BoardCols; column++ {
			mark := "_"
			if color := that.Cells[row][column]; color != ColorNone {
				mark = string(color)
			}
			sb.WriteString(" " + mark)
		}
		sb.WriteString("\n")
	}

	return sb.String()
}

func pieceName(color Color) string {
	switch color {
	case ColorRed:
		return "red"
	case ColorYellow:
		return "yellow"
	default:
		return ""
	}
}
