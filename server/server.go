// Package server hosts the browser preview: an HTML canvas page plus a
// websocket stream of topology and frame snapshots computed by the engine.
package server

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/gorilla/websocket"

	"github.com/neuroglow/neuroglow/config"
	"github.com/neuroglow/neuroglow/engine"
	"github.com/neuroglow/neuroglow/render"
)

// Config for the preview server.
type Config struct {
	Port      int
	Theme     config.Theme
	Width     int
	Height    int
	Overrides *config.Overrides
	StreamFPS int
	Logger    *slog.Logger
}

// Server couples one engine instance with its HTTP front.
type Server struct {
	cfg Config
	log *slog.Logger
	eng *engine.Engine
}

// New builds the engine and the server around it.
func New(cfg Config) (*Server, error) {
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	if cfg.Width <= 0 {
		cfg.Width = 1280
	}
	if cfg.Height <= 0 {
		cfg.Height = 720
	}
	if cfg.StreamFPS <= 0 {
		cfg.StreamFPS = 30
	}

	eng, err := engine.New(engine.Options{
		Theme:     cfg.Theme,
		Surface:   render.NewRasterSurface(cfg.Width, cfg.Height),
		Overrides: cfg.Overrides,
		Logger:    cfg.Logger,
	})
	if err != nil {
		return nil, fmt.Errorf("constructing engine: %w", err)
	}

	return &Server{cfg: cfg, log: cfg.Logger, eng: eng}, nil
}

// Run serves until ctx is canceled, then tears the engine down.
func (s *Server) Run(ctx context.Context) error {
	stop, err := s.eng.Run()
	if err != nil {
		return err
	}
	defer stop()

	mux := http.NewServeMux()
	mux.HandleFunc("/", s.handleIndex)
	mux.HandleFunc("/ws", s.handleWS)
	mux.HandleFunc("/healthz", s.handleHealth)

	srv := &http.Server{
		Addr:        fmt.Sprintf(":%d", s.cfg.Port),
		Handler:     mux,
		ReadTimeout: 10 * time.Second,
		IdleTimeout: 120 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	s.log.Info("preview server listening", "port", s.cfg.Port)
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	fmt.Fprint(w, previewPage)
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	fmt.Fprintf(w, `{"state":%q}`, s.eng.State())
}

// message is the envelope for every websocket payload.
type message struct {
	Type string          `json:"type"`
	Data json.RawMessage `json:"data,omitempty"`
}

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 8192,
	// The preview is a local development tool; cross-origin embedding is fine.
	CheckOrigin: func(*http.Request) bool { return true },
}

// handleWS streams topology once per graph generation and frame state on a
// fixed cadence, and accepts theme/visibility commands from the page.
func (s *Server) handleWS(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.log.Error("websocket upgrade failed", "err", err)
		return
	}
	ws := newSafeConn(conn)
	defer ws.Close()

	s.log.Debug("preview client connected", "remote", r.RemoteAddr)

	done := make(chan struct{})
	go s.readCommands(ws, done)

	if err := s.sendTopology(ws); err != nil {
		return
	}

	sent := s.eng.Snapshot().Generation
	ticker := time.NewTicker(time.Second / time.Duration(s.cfg.StreamFPS))
	defer ticker.Stop()

	for {
		select {
		case <-done:
			return
		case <-ticker.C:
			frame := s.eng.Frame()
			if frame.Generation != sent {
				if err := s.sendTopology(ws); err != nil {
					return
				}
				sent = frame.Generation
			}
			if err := s.send(ws, "frame", frame); err != nil {
				return
			}
		}
	}
}

// readCommands consumes client messages until the connection drops.
func (s *Server) readCommands(ws *safeConn, done chan<- struct{}) {
	defer close(done)
	for {
		_, raw, err := ws.ReadMessage()
		if err != nil {
			return
		}
		var msg message
		if err := json.Unmarshal(raw, &msg); err != nil {
			continue
		}
		switch msg.Type {
		case "theme":
			var name string
			if json.Unmarshal(msg.Data, &name) != nil {
				continue
			}
			theme, err := config.ParseTheme(name)
			if err != nil {
				s.log.Warn("ignoring theme command", "err", err)
				continue
			}
			if err := s.eng.SetTheme(theme); err != nil {
				s.log.Warn("theme change failed", "err", err)
			}
		case "visible":
			var visible bool
			if json.Unmarshal(msg.Data, &visible) == nil {
				s.eng.SetVisible(visible)
			}
		}
	}
}

func (s *Server) sendTopology(ws *safeConn) error {
	return s.send(ws, "topology", s.eng.Snapshot())
}

func (s *Server) send(ws *safeConn, typ string, payload any) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	raw, err := json.Marshal(message{Type: typ, Data: data})
	if err != nil {
		return err
	}
	return ws.WriteMessage(websocket.TextMessage, raw)
}
