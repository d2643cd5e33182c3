package rest

import (
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/rocketscienceinc/connect4-arena/internal/service"
)

type Server struct {
	logger *slog.Logger
	arena  service.ArenaService
}

func New(logger *slog.Logger, arena service.ArenaService) *Server {
	return &Server{
		logger: logger,
		arena:  arena,
	}
}

func (that *Server) Start(port string) error {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /ping", that.handlePing)
	mux.HandleFunc("GET /leaderboard", that.handleLeaderboard)
	mux.HandleFunc("GET /matches/{id}", that.handleMatchState)

	srv := &http.Server{
		Addr:         ":" + port,
		Handler:      mux,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  30 * time.Second,
	}

	if err := srv.ListenAndServe(); err != nil {
		return fmt.Errorf("failed to start server: %w", err)
	}

	return nil
}
