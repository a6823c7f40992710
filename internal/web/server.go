package web

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/jzftran/swarmbase-core/internal/config"
	"github.com/jzftran/swarmbase-core/internal/natsbus"
	"github.com/jzftran/swarmbase-core/internal/store"
	"github.com/jzftran/swarmbase-core/internal/vault"
	"github.com/nats-io/nats.go"
)

type Server struct {
	store        *store.Store
	bus          *natsbus.Bus
	nats         *natsbus.Client
	vault        *vault.Vault
	hub          *Hub
	cfg          config.WebConfig
	defaultModel string
	version      string
	startedAt    time.Time
}

func NewServer(s *store.Store, bus *natsbus.Bus, v *vault.Vault, cfg config.WebConfig, defaultModel, version string) *Server {
	return &Server{
		store:        s,
		bus:          bus,
		vault:        v,
		hub:          NewHub(),
		cfg:          cfg,
		defaultModel: defaultModel,
		version:      version,
		startedAt:    time.Now(),
	}
}

func (s *Server) Start(ctx context.Context) error {
	go s.hub.Run(ctx)

	// Subscribe to NATS events and broadcast to WebSocket
	s.subscribeEvents()

	mux := http.NewServeMux()
	s.registerAPI(mux)
	mux.HandleFunc("/api/ws", s.handleWebSocket)
	mux.HandleFunc("GET /api/status", s.getStatus)

	handler := s.withMiddleware(mux)
	addr := fmt.Sprintf(":%d", s.cfg.Port)
	server := &http.Server{Addr: addr, Handler: handler}

	go func() {
		<-ctx.Done()
		server.Close()
	}()

	slog.Info("web server listening", "addr", addr)
	if err := server.ListenAndServe(); err != http.ErrServerClosed {
		return err
	}
	return nil
}

func (s *Server) withMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// CORS
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}

		// Basic Auth for API routes when a password is configured
		if strings.HasPrefix(r.URL.Path, "/api/") && s.cfg.Auth != "" {
			if _, pass, ok := r.BasicAuth(); !ok || pass != s.cfg.Auth {
				w.Header().Set("WWW-Authenticate", `Basic realm="swarmbase"`)
				http.Error(w, "Unauthorized", http.StatusUnauthorized)
				return
			}
		}

		next.ServeHTTP(w, r)
	})
}

func (s *Server) getStatus(w http.ResponseWriter, r *http.Request) {
	agents, _ := s.store.ListAgents()
	swarms, _ := s.store.ListSwarms()

	jsonResponse(w, map[string]any{
		"status":       "ok",
		"agents_count": len(agents),
		"swarms_count": len(swarms),
		"uptime":       time.Since(s.startedAt).Round(time.Second).String(),
		"nats":         "ok",
		"timestamp":    time.Now().UTC(),
		"version":      s.version,
	})
}

func (s *Server) subscribeEvents() {
	if s.bus == nil {
		return
	}
	client, err := natsbus.NewClient(s.bus)
	if err != nil {
		slog.Error("web server nats client failed", "error", err)
		return
	}
	s.nats = client

	// Forward all event topics to WebSocket
	_, _ = client.Subscribe(natsbus.TopicEventsAll, func(msg *nats.Msg) {
		var event natsbus.Event
		if err := json.Unmarshal(msg.Data, &event); err != nil {
			slog.Warn("invalid NATS event payload", "error", err)
			return
		}
		s.hub.Broadcast(Event{Type: event.Resource + "." + event.Action, Payload: event})
	})
}

// publishEvent notifies bus subscribers of a resource change. Broadcasting
// is best-effort; a missing bus or publish failure never fails the request.
func (s *Server) publishEvent(topic, action, resource, id string) {
	if s.nats == nil {
		return
	}
	if err := s.nats.PublishEvent(topic, action, resource, id); err != nil {
		slog.Warn("event publish failed", "topic", topic, "error", err)
	}
}
