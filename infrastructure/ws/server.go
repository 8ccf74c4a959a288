package ws

import (
	"chat-rooms/contract"
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

// Server exposes the websocket endpoint and a health probe.
type Server struct {
	log        *slog.Logger
	hub        *Hub
	router     contract.Router
	httpServer *http.Server
	upgrader   websocket.Upgrader
	bufferSize int
}

func NewServer(log *slog.Logger, hub *Hub, router contract.Router,
	addr string, bufferSize int) *Server {
	s := &Server{
		log:        log,
		hub:        hub,
		router:     router,
		bufferSize: bufferSize,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  maxMessageSize,
			WriteBufferSize: maxMessageSize,
		},
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/ws", s.handleWS)
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	s.httpServer = &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}
	return s
}

// handleWS upgrades the connection, assigns it a stable identity for its
// lifetime, and runs the pumps. The handler goroutine becomes the read pump.
func (s *Server) handleWS(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.log.Error("Upgrade failed", "err", err)
		return
	}

	client := NewClient(uuid.NewString(), s.hub, s.router, conn, s.bufferSize, s.log)
	s.hub.Register(client)

	go client.writePump()
	client.readPump()
}

// Handler exposes the route table, mainly for tests running the server
// on an ephemeral listener.
func (s *Server) Handler() http.Handler {
	return s.httpServer.Handler
}

// ListenAndServe blocks until the server stops.
func (s *Server) ListenAndServe() error {
	s.log.Info(fmt.Sprintf("Listening on %s", s.httpServer.Addr))
	return s.httpServer.ListenAndServe()
}

// Shutdown stops accepting connections, closes live ones, and drains.
func (s *Server) Shutdown(ctx context.Context) error {
	s.hub.Shutdown()
	return s.httpServer.Shutdown(ctx)
}
