package rest

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/rocketscienceinc/connect4-arena/internal/apperror"
)

func (that *Server) handlePing(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write([]byte("pong")); err != nil {
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
	}
}

func (that *Server) handleLeaderboard(w http.ResponseWriter, r *http.Request) {
	log := that.logger.With("method", "handleLeaderboard")

	leaderboard, err := that.arena.Leaderboard(r.Context())
	if err != nil {
		log.Error("failed to build leaderboard", "error", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	that.writeJSON(w, leaderboard)
}

func (that *Server) handleMatchState(w http.ResponseWriter, r *http.Request) {
	log := that.logger.With("method", "handleMatchState")

	state, err := that.arena.State(r.Context(), r.PathValue("id"))
	if errors.Is(err, apperror.ErrMatchNotFound) {
		http.Error(w, "match not found", http.StatusNotFound)
		return
	}

	if err != nil {
		log.Error("failed to get match state", "error", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	that.writeJSON(w, state)
}

func (that *Server) writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")

	if err := json.NewEncoder(w).Encode(v); err != nil {
		that.logger.Error("failed to encode response", "error", err)
	}
}
