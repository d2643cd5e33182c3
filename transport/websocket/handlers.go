package websocket

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"

	"github.com/rocketscienceinc/connect4-arena/internal/entity"
	"github.com/rocketscienceinc/connect4-arena/internal/repository"
)

// Message represents a WebSocket message with an action type and a payload.
type Message struct {
	Action  string          `json:"action"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

type Payload struct {
	MatchID     string              `json:"match_id,omitempty"`
	RedModel    string              `json:"red_model,omitempty"`
	YellowModel string              `json:"yellow_model,omitempty"`
	Match       *entity.Match       `json:"match,omitempty"`
	Transcript  []entity.TurnRecord `json:"transcript,omitempty"`
	Record      *entity.TurnRecord  `json:"record,omitempty"`
	Board       *entity.Board       `json:"board,omitempty"`
	Message     string              `json:"message,omitempty"`
	Error       string              `json:"error,omitempty"`
}

func (that *Server) handleNewMatch(ctx context.Context, msg *Message, bufrw *bufio.ReadWriter) error {
	log := that.logger.With("method", "handleNewMatch")

	var payloadReq Payload
	if err := json.Unmarshal(msg.Payload, &payloadReq); err != nil {
		return fmt.Errorf("failed to unmarshal payload: %w", err)
	}

	state, err := that.arena.CreateMatch(ctx, payloadReq.RedModel, payloadReq.YellowModel)
	if err != nil {
		log.Error("failed to create match", "error", err)
		return that.sendErrorResponse(bufrw, msg.Action, "failed to create a new match")
	}

	return that.sendState(bufrw, msg.Action, state)
}

func (that *Server) handleMatchState(ctx context.Context, msg *Message, bufrw *bufio.ReadWriter) error {
	log := that.logger.With("method", "handleMatchState")

	matchID, err := matchIDFrom(msg)
	if err != nil {
		return err
	}

	state, err := that.arena.State(ctx, matchID)
	if err != nil {
		log.Error("failed to get match state", "match", matchID, "error", err)
		return that.sendErrorResponse(bufrw, msg.Action, "failed to get the match")
	}

	return that.sendState(bufrw, msg.Action, state)
}

func (that *Server) handleMatchStep(ctx context.Context, msg *Message, bufrw *bufio.ReadWriter) error {
	log := that.logger.With("method", "handleMatchStep")

	matchID, err := matchIDFrom(msg)
	if err != nil {
		return err
	}

	state, err := that.arena.Step(ctx, matchID)
	if err != nil {
		log.Error("failed to step match", "match", matchID, "error", err)
		return that.sendErrorResponse(bufrw, msg.Action, "failed to make the next move")
	}

	return that.sendState(bufrw, msg.Action, state)
}

// handleMatchRun drives a whole match, pushing one message per appended
// turn record so the client renders the game as it unfolds.
func (that *Server) handleMatchRun(ctx context.Context, msg *Message, bufrw *bufio.ReadWriter) error {
	log := that.logger.With("method", "handleMatchRun")

	matchID, err := matchIDFrom(msg)
	if err != nil {
		return err
	}

	onRecord := func(record entity.TurnRecord) {
		payload := Payload{
			MatchID: matchID,
			Record:  &record,
		}
		if sendErr := that.sendMessage(bufrw, "match:record", payload); sendErr != nil {
			log.Error("failed to push turn record", "match", matchID, "error", sendErr)
		}
	}

	state, err := that.arena.Run(ctx, matchID, onRecord)
	if err != nil {
		log.Error("failed to run match", "match", matchID, "error", err)
		return that.sendErrorResponse(bufrw, msg.Action, "failed to run the match")
	}

	return that.sendState(bufrw, msg.Action, state)
}

func (that *Server) handleMatchAbort(ctx context.Context, msg *Message, bufrw *bufio.ReadWriter) error {
	log := that.logger.With("method", "handleMatchAbort")

	matchID, err := matchIDFrom(msg)
	if err != nil {
		return err
	}

	state, err := that.arena.Abort(ctx, matchID)
	if err != nil {
		log.Error("failed to abort match", "match", matchID, "error", err)
		return that.sendErrorResponse(bufrw, msg.Action, "failed to abort the match")
	}

	return that.sendState(bufrw, msg.Action, state)
}

func (that *Server) sendState(bufrw *bufio.ReadWriter, action string, state *repository.MatchState) error {
	payload := Payload{
		MatchID:    state.Match.ID,
		Match:      state.Match,
		Transcript: state.Transcript,
		Message:    statusMessage(state),
	}

	if board := latestBoard(state.Transcript); board != nil {
		payload.Board = board
	}

	return that.sendMessage(bufrw, action, payload)
}

func (that *Server) sendMessage(bufrw *bufio.ReadWriter, action string, payload Payload) error {
	payloadBytes, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal payload: %w", err)
	}

	response := Message{
		Action:  action,
		Payload: payloadBytes,
	}

	responseBytes, err := json.Marshal(response)
	if err != nil {
		return fmt.Errorf("failed to marshal response: %w", err)
	}

	return writeFrame(bufrw, responseBytes)
}

func (that *Server) sendErrorResponse(bufrw *bufio.ReadWriter, action, message string) error {
	return that.sendMessage(bufrw, action, Payload{Error: message})
}

func matchIDFrom(msg *Message) (string, error) {
	var payload Payload
	if err := json.Unmarshal(msg.Payload, &payload); err != nil {
		return "", fmt.Errorf("failed to unmarshal payload: %w", err)
	}

	if payload.MatchID == "" {
		return "", fmt.Errorf("match_id is required for %s", msg.Action)
	}

	return payload.MatchID, nil
}

// statusMessage frames the state for display: who plays next, or how the
// match ended.
func statusMessage(state *repository.MatchState) string {
	if state.Match.Outcome != nil {
		return state.Match.Outcome.Message()
	}

	applied := 0
	for _, record := range state.Transcript {
		if record.Outcome == entity.TurnApplied {
			applied++
		}
	}

	next := entity.ColorRed
	if applied%2 == 1 {
		next = entity.ColorYellow
	}

	return next.Name() + " to play"
}

// latestBoard returns the board after the last applied move, if any.
func latestBoard(transcript []entity.TurnRecord) *entity.Board {
	for i := len(transcript) - 1; i >= 0; i-- {
		if transcript[i].BoardAfter != nil {
			return transcript[i].BoardAfter
		}
	}
	return nil
}
