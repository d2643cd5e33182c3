package entity

import "time"

const (
	StatusOngoing  = "ongoing"
	StatusFinished = "finished"
)

const (
	OutcomeRedWins    = "red_wins"
	OutcomeYellowWins = "yellow_wins"
	OutcomeDraw       = "draw"
	OutcomeAborted    = "aborted"
)

// Outcome is the single terminal value of a match. It is computed once
// and never changes afterward.
type Outcome struct {
	Kind   string `json:"kind"`
	Winner Color  `json:"winner,omitempty"`
	Reason string `json:"reason,omitempty"`
	// Offender is set when an abort was caused by one player, so the
	// result store can credit the opponent.
	Offender Color `json:"offender,omitempty"`
}

func WinOutcome(winner Color) Outcome {
	kind := OutcomeRedWins
	if winner == ColorYellow {
		kind = OutcomeYellowWins
	}
	return Outcome{Kind: kind, Winner: winner}
}

func DrawOutcome() Outcome {
	return Outcome{Kind: OutcomeDraw}
}

func AbortedOutcome(reason string) Outcome {
	return Outcome{Kind: OutcomeAborted, Reason: reason}
}

func ForfeitOutcome(reason string, offender Color) Outcome {
	return Outcome{Kind: OutcomeAborted, Reason: reason, Offender: offender}
}

// Message returns the status line shown above the board.
func (that Outcome) Message() string {
	switch that.Kind {
	case OutcomeRedWins, OutcomeYellowWins:
		return that.Winner.Name() + " wins"
	case OutcomeDraw:
		return "The game is a draw"
	case OutcomeAborted:
		return "Match aborted: " + that.Reason
	default:
		return ""
	}
}

// Match binds two model identifiers to the Red and Yellow colors for one
// game. The outcome is nil while the match is ongoing.
type Match struct {
	ID           string    `json:"id"`
	RedPlayer    string    `json:"red_player"`
	YellowPlayer string    `json:"yellow_player"`
	Status       string    `json:"status"`
	Outcome      *Outcome  `json:"outcome,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
}

func NewMatch(id, redPlayer, yellowPlayer string) *Match {
	return &Match{
		ID:           id,
		RedPlayer:    redPlayer,
		YellowPlayer: yellowPlayer,
		Status:       StatusOngoing,
		CreatedAt:    time.Now().UTC(),
	}
}

func (that *Match) IsFinished() bool {
	return that.Status == StatusFinished
}

func (that *Match) Finish(outcome Outcome) {
	that.Status = StatusFinished
	that.Outcome = &outcome
}

// Result is the durable record of one finished match, kept for the
// leaderboard.
type Result struct {
	RedPlayer    string    `json:"red_player"`
	YellowPlayer string    `json:"yellow_player"`
	Winner       string    `json:"winner"`
	When         time.Time `json:"when"`
}

// ResultFromMatch converts a finished match into a leaderboard result.
// An abort caused by one player counts as a win for the opponent; an
// abort with no offender is recorded as a draw.
func ResultFromMatch(match *Match) Result {
	result := Result{
		RedPlayer:    match.RedPlayer,
		YellowPlayer: match.YellowPlayer,
		Winner:       OutcomeDraw,
		When:         match.CreatedAt,
	}

	if match.Outcome == nil {
		return result
	}

	winner := match.Outcome.Winner
	if match.Outcome.Kind == OutcomeAborted && match.Outcome.Offender != ColorNone {
		winner = match.Outcome.Offender.Opponent()
	}

	switch winner {
	case ColorRed:
		result.Winner = OutcomeRedWins
	case ColorYellow:
		result.Winner = OutcomeYellowWins
	}

	return result
}
