package player

import (
	"errors"
	"fmt"
	"strings"

	"github.com/rocketscienceinc/connect4-arena/internal/apperror"
	"github.com/rocketscienceinc/connect4-arena/internal/entity"
)

const systemPromptTemplate = `You are playing the board game Connect 4.
Players take turns to drop counters into one of 7 columns numbered 0, 1, 2, 3, 4, 5, 6.
The winner is the first player to get 4 counters in a row in any direction.
You are %s and your opponent is %s.
You must pick a column for your move. You must pick one of the following legal columns: %s.

Before you commit to a move, draw the board as you currently understand it,
using R for a red counter, Y for a yellow counter and _ for an empty square.
Put that sketch in the "visualization" field.

You should respond in JSON according to this spec:

{
    "reasoning": "my assessment of the board, threats to block and chances to win",
    "visualization": "my own sketch of the current board",
    "column": one integer from this list of legal columns: %s
}
%s`

const userPromptTemplate = `It is your turn to make a move as %s.
Here is the current board, with row 1 at the bottom of the board:

%s

Here's another way of looking at the board, where R represents a red counter, Y a yellow counter, and _ an empty square:

%s
%s
Your final response must be only JSON, strictly according to this spec:

{
    "reasoning": "my assessment of the board, threats to block and chances to win",
    "visualization": "my own sketch of the current board",
    "column": one integer from this list of legal columns: %s
}

Now draw your visualization, make your decision and pick one of these columns: %s`

// buildPrompts renders the system and user prompt for one move request.
// A retry context adds a corrective line naming the prior rejection so
// the model does not repeat it.
func buildPrompts(board entity.Board, color entity.Color, retry *RetryContext) (system, user string) {
	legal := joinColumns(board.LegalColumns())

	var illegal string
	if full := board.FullColumns(); len(full) > 0 {
		illegal = fmt.Sprintf("\nYou must NOT pick any of these columns, they are full and ILLEGAL: %s", joinColumns(full))
	}

	var corrective string
	if retry != nil {
		corrective = "\n" + correctiveGuidance(retry, legal) + "\n"
	}

	system = fmt.Sprintf(systemPromptTemplate, color.Name(), color.Opponent().Name(), legal, legal, illegal)
	user = fmt.Sprintf(userPromptTemplate, color.Name(), board.Grid(), board.Compact(), corrective, legal, legal)

	return system, user
}

func correctiveGuidance(retry *RetryContext, legal string) string {
	switch {
	case errors.Is(retry.Err, apperror.ErrColumnFull):
		return fmt.Sprintf("Your previous choice, column %s, is full. Pick a different column from this list: %s.", retry.RejectedColumn, legal)
	case errors.Is(retry.Err, apperror.ErrOutOfRange):
		return fmt.Sprintf("Your previous choice, column %s, does not exist on the board. Pick a column from this list: %s.", retry.RejectedColumn, legal)
	case errors.Is(retry.Err, apperror.ErrNotAnInteger):
		return fmt.Sprintf("Your previous reply %q was not an integer column. Reply with JSON whose \"column\" field is one of: %s.", retry.RejectedColumn, legal)
	default:
		return fmt.Sprintf("Your previous reply could not be understood. Reply with JSON whose \"column\" field is one of: %s.", legal)
	}
}

func joinColumns(columns []int) string {
	parts := make([]string, len(columns))
	for i, column := range columns {
		parts[i] = fmt.Sprintf("%d", column)
	}
	return strings.Join(parts, ", ")
}
