package websocket

import (
	"bufio"
	"context"
	"crypto/sha1" //nolint: gosec // RFC 6455 requires SHA-1 for the handshake
	"encoding/base64"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/rocketscienceinc/connect4-arena/internal/service"
)

// Static GUID defined in RFC 6455 for WebSocket.
const websocketGUID = "258EAFA5-E914-47DA-95CA-C5AB0DC85B11"

type Server struct {
	logger *slog.Logger
	arena  service.ArenaService

	handlers map[string]func(ctx context.Context, message *Message, bufrw *bufio.ReadWriter) error
}

func New(logger *slog.Logger, arena service.ArenaService) *Server {
	server := &Server{
		logger: logger,
		arena:  arena,

		handlers: make(map[string]func(context.Context, *Message, *bufio.ReadWriter) error),
	}

	server.handlers["match:new"] = server.handleNewMatch
	server.handlers["match:state"] = server.handleMatchState
	server.handlers["match:step"] = server.handleMatchStep
	server.handlers["match:run"] = server.handleMatchRun
	server.handlers["match:abort"] = server.handleMatchAbort

	return server
}

// Start - starts WebSocket server.
func (that *Server) Start(ctx context.Context, port string) error {
	mux := http.NewServeMux()
	mux.HandleFunc("/ws", func(w http.ResponseWriter, r *http.Request) {
		that.upgradeToWebSocket(ctx, w, r)
	})

	srv := &http.Server{
		Addr:        ":" + port,
		Handler:     mux,
		ReadTimeout: 10 * time.Second,
		IdleTimeout: 30 * time.Second,
	}

	if err := srv.ListenAndServe(); err != nil {
		return fmt.Errorf("failed to start server: %w", err)
	}

	return nil
}

// upgradeToWebSocket - upgrades the connection to WebSocket.
func (that *Server) upgradeToWebSocket(ctx context.Context, writer http.ResponseWriter, req *http.Request) {
	log := that.logger.With("method", "upgradeToWebSocket")

	if req.Header.Get("Upgrade") != "websocket" {
		http.Error(writer, "not a websocket upgrade", http.StatusBadRequest)
		return
	}

	key := req.Header.Get("Sec-WebSocket-Key")

	writer.Header().Set("Upgrade", "websocket")
	writer.Header().Set("Connection", "Upgrade")
	writer.Header().Set("Sec-WebSocket-Accept", acceptKey(key))
	writer.WriteHeader(http.StatusSwitchingProtocols)

	hijacker, ok := writer.(http.Hijacker)
	if !ok {
		log.Error("web server does not support hijacking")
		return
	}

	conn, bufrw, err := hijacker.Hijack()
	if err != nil {
		log.Error("failed to hijack connection", "error", err)
		return
	}

	defer conn.Close()

	log.Info("WebSocket connection established")

	if err = that.handleMessages(ctx, bufrw); err != nil {
		log.Error("error handling messages", "error", err)
	}
}

// handleMessages - processes messages from the client until the
// connection drops.
func (that *Server) handleMessages(ctx context.Context, bufrw *bufio.ReadWriter) error {
	log := that.logger.With("method", "handleMessages")

	for {
		body, err := readMessage(bufrw)
		if err != nil {
			return fmt.Errorf("failed to read message: %w", err)
		}

		var message Message
		if err = json.Unmarshal(body, &message); err != nil {
			log.Error("failed to unmarshal message", "error", err)
			continue
		}

		handler, ok := that.handlers[message.Action]
		if !ok {
			log.Error("unknown action", "action", message.Action)
			continue
		}

		if err = handler(ctx, &message, bufrw); err != nil {
			log.Error("error processing message", "action", message.Action, "error", err)
		}
	}
}

// acceptKey - generates the Sec-WebSocket-Accept value for the handshake.
func acceptKey(key string) string {
	h := sha1.New() //nolint: gosec // mandated by the protocol

	h.Write([]byte(key + websocketGUID))

	return base64.StdEncoding.EncodeToString(h.Sum(nil))
}
