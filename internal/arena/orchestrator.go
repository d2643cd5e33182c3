package arena

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/rocketscienceinc/connect4-arena/internal/apperror"
	"github.com/rocketscienceinc/connect4-arena/internal/entity"
	"github.com/rocketscienceinc/connect4-arena/internal/player"
)

const DefaultRetryBudget = 3

// State names the orchestrator's position in the per-turn cycle.
type State string

const (
	StateAwaitingMove     State = "awaiting_move"
	StateValidating       State = "validating"
	StateApplying         State = "applying"
	StateCheckingTerminal State = "checking_terminal"
	StateSwitchingPlayer  State = "switching_player"
	StateMatchEnded       State = "match_ended"
)

// Orchestrator drives one match. It is the sole owner of the board and
// the transcript: exactly one request is in flight at any time and
// nothing mutates shared state while it waits, so no locking is needed.
type Orchestrator struct {
	logger      *slog.Logger
	board       *entity.Board
	players     map[entity.Color]player.Player
	transcript  *Transcript
	retryBudget int
	moveTimeout time.Duration
	onRecord    func(entity.TurnRecord)

	state   State
	active  entity.Color
	turn    int
	outcome *entity.Outcome
}

func NewOrchestrator(logger *slog.Logger, red, yellow player.Player, retryBudget int, moveTimeout time.Duration) *Orchestrator {
	if retryBudget <= 0 {
		retryBudget = DefaultRetryBudget
	}

	return &Orchestrator{
		logger: logger.With("component", "orchestrator"),
		board:  entity.NewBoard(),
		players: map[entity.Color]player.Player{
			entity.ColorRed:    red,
			entity.ColorYellow: yellow,
		},
		transcript:  NewTranscript(),
		retryBudget: retryBudget,
		moveTimeout: moveTimeout,
		state:       StateAwaitingMove,
		active:      entity.ColorRed,
	}
}

// OnRecord registers a listener called after every transcript append,
// for incremental rendering by the UI collaborator.
func (that *Orchestrator) OnRecord(fn func(entity.TurnRecord)) {
	that.onRecord = fn
}

func (that *Orchestrator) Board() entity.Board {
	return *that.board
}

func (that *Orchestrator) Transcript() *Transcript {
	return that.transcript
}

func (that *Orchestrator) State() State {
	return that.state
}

func (that *Orchestrator) Active() entity.Color {
	return that.active
}

func (that *Orchestrator) Finished() bool {
	return that.state == StateMatchEnded
}

// Outcome returns the terminal match outcome, or nil while ongoing.
func (that *Orchestrator) Outcome() *entity.Outcome {
	return that.outcome
}

// Step runs one turn: request, validate, apply, including any retries
// within the per-turn budget. It returns nil even when the turn ends the
// match; the only non-nil error is an internal-consistency fault.
func (that *Orchestrator) Step(ctx context.Context) error {
	if that.state == StateMatchEnded {
		return apperror.ErrMatchFinished
	}

	color := that.active

	var retry *player.RetryContext
	for attempt := 1; ; attempt++ {
		that.state = StateAwaitingMove

		// External aborts land here, between requests, never
		// mid-validate or mid-apply.
		if err := ctx.Err(); err != nil {
			that.end(entity.AbortedOutcome("cancelled"))
			return nil
		}

		// A board with no legal columns should already have been
		// reported as a draw; treat it as one if it ever happens.
		if len(that.board.LegalColumns()) == 0 {
			that.end(entity.DrawOutcome())
			return nil
		}

		response, err := that.requestMove(ctx, color, retry)
		if err != nil {
			// The match context going away mid-request is a user abort,
			// not the adapter's fault. Only the per-move deadline or the
			// adapter's own failures forfeit.
			if ctx.Err() != nil {
				that.end(entity.AbortedOutcome("cancelled"))
				return nil
			}

			that.logger.Error("adapter gave up", "color", color.Name(), "error", err)
			that.end(entity.ForfeitOutcome(fmt.Sprintf("player %s unavailable: %v", color.Name(), err), color))
			return nil
		}

		that.state = StateValidating
		record := entity.TurnRecord{
			Index:         that.turn,
			Attempt:       attempt,
			Mover:         color,
			BoardBefore:   *that.board,
			Reasoning:     response.Reasoning,
			Visualization: response.Visualization,
			RawColumn:     response.RawColumn,
			Column:        -1,
		}

		column, rejection := Validate(that.board, response.RawColumn)
		if rejection != nil {
			record.Rejection = rejection.Error()

			if attempt >= that.retryBudget {
				record.Outcome = entity.TurnExhausted
				that.append(record)
				that.end(entity.ForfeitOutcome(fmt.Sprintf("player %s exhausted retries", color.Name()), color))
				return nil
			}

			record.Outcome = entity.TurnRetried
			that.append(record)

			that.logger.Info("move rejected, retrying",
				"color", color.Name(), "turn", that.turn, "attempt", attempt, "rejection", rejection.Error())

			retry = &player.RetryContext{
				Attempt:        attempt,
				RejectedColumn: response.RawColumn,
				Err:            rejection,
			}
			continue
		}

		that.state = StateApplying
		if _, err = that.board.Apply(column, color); err != nil {
			// The validator approved this move; a failing apply is a
			// programming defect, not a game-rule outcome.
			that.end(entity.AbortedOutcome("internal fault: " + err.Error()))
			return fmt.Errorf("%w: %w", apperror.ErrInconsistency, err)
		}

		record.Column = column
		record.Outcome = entity.TurnApplied
		after := *that.board
		record.BoardAfter = &after
		that.append(record)

		that.state = StateCheckingTerminal
		if terminal := that.board.Terminal(); terminal.Over {
			if terminal.Draw {
				that.end(entity.DrawOutcome())
			} else {
				that.end(entity.WinOutcome(terminal.Winner))
			}
			return nil
		}

		that.state = StateSwitchingPlayer
		that.active = color.Opponent()
		that.turn++
		that.state = StateAwaitingMove

		return nil
	}
}

// Run steps the match to completion and returns the terminal outcome.
func (that *Orchestrator) Run(ctx context.Context) (entity.Outcome, error) {
	for !that.Finished() {
		if err := that.Step(ctx); err != nil {
			return *that.outcome, err
		}
	}
	return *that.outcome, nil
}

func (that *Orchestrator) requestMove(ctx context.Context, color entity.Color, retry *player.RetryContext) (player.Response, error) {
	if that.moveTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, that.moveTimeout)
		defer cancel()
	}

	response, err := that.players[color].RequestMove(ctx, *that.board, that.transcript.Snapshot(), color, retry)
	if err != nil {
		// A timeout counts the same as the transport giving up.
		if !errors.Is(err, apperror.ErrAdapterUnavailable) {
			err = fmt.Errorf("%w: %w", apperror.ErrAdapterUnavailable, err)
		}
		return player.Response{}, err
	}

	return response, nil
}

func (that *Orchestrator) append(record entity.TurnRecord) {
	that.transcript.Append(record)
	if that.onRecord != nil {
		that.onRecord(record)
	}
}

func (that *Orchestrator) end(outcome entity.Outcome) {
	that.state = StateMatchEnded
	that.outcome = &outcome
	that.logger.Info("match ended", "outcome", outcome.Kind, "message", outcome.Message())
}
