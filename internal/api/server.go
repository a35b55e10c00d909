package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/gorilla/websocket"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/cors"
	"go.uber.org/zap"

	"github.com/vagus-labs/coherence-pipeline/internal/config"
	"github.com/vagus-labs/coherence-pipeline/internal/session"
)

// Server is the HTTP/WebSocket surface in front of a fleet of pipelines:
// health and metrics endpoints, a recent-records lookup backed by
// internal/session.Recorder, and the live WebSocket broadcast handled by
// Hub.
type Server struct {
	logger     *zap.Logger
	cfg        config.ServerConfig
	router     *mux.Router
	httpServer *http.Server
	upgrader   websocket.Upgrader

	hub      *Hub
	recorder *session.Recorder
	gatherer prometheus.Gatherer
	stopHub  chan struct{}
}

// NewServer wires a Server around an existing hub and recorder. Callers
// (cmd/coherence-server) own the pipeline fleet and feed it through the
// same hub/recorder passed here as fleet.Pool's EmissionSink. gatherer is
// the registry metrics.New registered against; /metrics serves it
// directly rather than the process-global default registry, so tests can
// run with an isolated one.
func NewServer(logger *zap.Logger, cfg config.ServerConfig, hub *Hub, recorder *session.Recorder, gatherer prometheus.Gatherer) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &Server{
		logger:   logger,
		cfg:      cfg,
		router:   mux.NewRouter(),
		hub:      hub,
		recorder: recorder,
		gatherer: gatherer,
		stopHub:  make(chan struct{}),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(r *http.Request) bool { return true },
		},
	}
	s.setupRoutes()
	return s
}

// Router exposes the underlying mux.Router, mainly so tests can drive it
// through httptest.NewServer without a full Start/Stop cycle.
func (s *Server) Router() *mux.Router { return s.router }

// Hub exposes the WebSocket broadcaster for tests and for callers that
// need to publish outside the fleet.Pool -> Fanout -> Hub path.
func (s *Server) Hub() *Hub { return s.hub }

func (s *Server) setupRoutes() {
	s.router.HandleFunc("/api/v1/health", s.handleHealth).Methods("GET")
	s.router.HandleFunc("/api/v1/sessions/{id}/recent", s.handleRecentSession).Methods("GET")
	s.router.HandleFunc(s.cfg.WebsocketPath, s.handleWebSocket)

	if s.cfg.EnableMetrics && s.gatherer != nil {
		s.router.Handle(s.cfg.MetricsPath, promhttp.HandlerFor(s.gatherer, promhttp.HandlerOpts{})).Methods("GET")
	}
}

// Start runs the hub's event loop and blocks serving HTTP until Stop is
// called.
func (s *Server) Start() error {
	go s.hub.Run(s.stopHub)

	addr := fmt.Sprintf("%s:%d", s.cfg.Host, s.cfg.Port)
	handler := cors.New(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"*"},
		AllowCredentials: true,
	}).Handler(s.router)

	s.httpServer = &http.Server{
		Addr:         addr,
		Handler:      handler,
		ReadTimeout:  s.cfg.ReadTimeout,
		WriteTimeout: s.cfg.WriteTimeout,
	}

	s.logger.Info("starting coherence server", zap.String("addr", addr))
	return s.httpServer.ListenAndServe()
}

// Stop gracefully stops the HTTP server and the hub's event loop.
func (s *Server) Stop(ctx context.Context) error {
	close(s.stopHub)
	if s.httpServer == nil {
		return nil
	}
	return s.httpServer.Shutdown(ctx)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	json.NewEncoder(w).Encode(map[string]interface{}{
		"status": "healthy",
	})
}

// handleRecentSession returns the most recently retained step records
// for a session, backed by internal/session.Recorder's bounded ring —
// not the durable append-only log, which is out of scope.
func (s *Server) handleRecentSession(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	header, ok := s.recorder.Header(id)
	if !ok {
		http.Error(w, "session not found", http.StatusNotFound)
		return
	}

	steps := s.recorder.Recent(id)
	json.NewEncoder(w).Encode(map[string]interface{}{
		"header": header,
		"steps":  steps,
		"count":  len(steps),
	})
}

func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Error("websocket upgrade failed", zap.Error(err))
		return
	}
	s.hub.serve(conn)
}

