package ws

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/andrescamacho/gridfleet-go/internal/application/common"
	"github.com/andrescamacho/gridfleet-go/internal/application/sim/queries"
)

const shutdownGrace = 5 * time.Second

// Server exposes the simulation over HTTP: the websocket endpoint plus
// the plain GET endpoints the dashboard and ops tooling use.
type Server struct {
	addr        string
	hub         *Hub
	router      *Router
	metricsPath string
	metrics     http.Handler
	logger      common.Logger

	// base outlives individual requests; pump goroutines inherit it
	// because hijacked request contexts end with the HTTP handler.
	base context.Context
}

// NewServer creates a server. The metrics handler is optional; when nil
// its route is not mounted.
func NewServer(addr string, hub *Hub, router *Router, metricsPath string, metrics http.Handler, logger common.Logger) *Server {
	if logger == nil {
		logger = common.LoggerFromContext(context.Background())
	}
	if metricsPath == "" {
		metricsPath = "/metrics"
	}
	return &Server{
		addr:        addr,
		hub:         hub,
		router:      router,
		metricsPath: metricsPath,
		metrics:     metrics,
		logger:      logger,
	}
}

// Handler builds the route table
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/ws", s.handleWS)
	mux.HandleFunc("/get_state", s.handleGetState)
	mux.HandleFunc("/export_path_coordinates", s.handleExportPaths)
	mux.HandleFunc("/healthz", s.handleHealthz)
	if s.metrics != nil {
		mux.Handle(s.metricsPath, s.metrics)
	}
	return mux
}

// ListenAndServe serves until the context ends, then drains connections
func (s *Server) ListenAndServe(ctx context.Context) error {
	s.base = ctx

	srv := &http.Server{
		Addr:              s.addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	s.logger.Log("info", "server listening", map[string]interface{}{"addr": s.addr})

	errCh := make(chan error, 1)
	go func() { errCh <- srv.ListenAndServe() }()

	select {
	case <-ctx.Done():
		shutCtx, cancel := context.WithTimeout(context.Background(), shutdownGrace)
		defer cancel()
		if err := srv.Shutdown(shutCtx); err != nil {
			return err
		}
		<-errCh
		return nil
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}

func (s *Server) handleWS(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Log("warn", "websocket upgrade failed", map[string]interface{}{
			"remote": r.RemoteAddr,
			"error":  err.Error(),
		})
		return
	}

	client := newClient(s.hub, conn, s.router, s.logger)
	s.hub.register <- client

	go client.writePump()
	go client.readPump(s.base)

	// Late joiners render the live floor right away
	s.router.pushState(s.base, client)
}

func (s *Server) handleGetState(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	resp, err := s.router.dispatcher.Send(r.Context(), &queries.GetStateQuery{})
	if err != nil {
		s.writeError(w, http.StatusBadRequest, err)
		return
	}

	body, err := json.MarshalIndent(resp, "", "    ")
	if err != nil {
		s.writeError(w, http.StatusInternalServerError, err)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	_, _ = w.Write(body)
}

func (s *Server) handleExportPaths(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	resp, err := s.router.dispatcher.Send(r.Context(), &queries.ExportPathsQuery{})
	if err != nil {
		s.writeError(w, http.StatusBadRequest, err)
		return
	}
	export := resp.(*queries.ExportPathsResponse)

	w.Header().Set("Content-Type", "text/plain")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%s", export.Filename))
	_, _ = w.Write(export.Content)
}

func (s *Server) handleHealthz(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
}

func (s *Server) writeError(w http.ResponseWriter, code int, err error) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(map[string]string{"error": err.Error()})
}
