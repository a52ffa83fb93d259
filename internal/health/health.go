// Package health содержит health check сервер.
package health

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"lyrafy/internal/worker"

	"go.uber.org/zap"
)

const databaseCheckTimeout = 3 * time.Second

// Database определяет минимальную проверку доступности базы данных
type Database interface {
	Ping(ctx context.Context) error
}

// componentStatus описывает результат проверки одного компонента
type componentStatus struct {
	Status    string `json:"status"`
	Error     string `json:"error,omitempty"`
	LatencyMs int64  `json:"latency_ms,omitempty"`
}

// report представляет полный ответ health check
type report struct {
	Status     string                     `json:"status"`
	Timestamp  string                     `json:"timestamp"`
	UptimeSec  int64                      `json:"uptime_sec"`
	Components map[string]componentStatus `json:"components,omitempty"`
}

// Server представляет health check сервер
type Server struct {
	server    *http.Server
	db        Database
	pool      worker.PoolInterface
	startedAt time.Time
	logger    *zap.Logger
}

// NewServer создает новый health check сервер
func NewServer(port string, logger *zap.Logger, db Database, pool worker.PoolInterface) *Server {
	mux := http.NewServeMux()

	healthServer := &Server{
		server: &http.Server{
			Addr:    ":" + port,
			Handler: mux,
		},
		db:        db,
		pool:      pool,
		startedAt: time.Now(),
		logger:    logger,
	}

	mux.HandleFunc("/health", healthServer.healthHandler)
	mux.HandleFunc("/ready", healthServer.readyHandler)
	mux.HandleFunc("/live", healthServer.liveHandler)

	return healthServer
}

// Start запускает health check сервер
func (s *Server) Start() error {
	s.logger.Info("Starting health check server", zap.String("addr", s.server.Addr))
	return s.server.ListenAndServe()
}

// Stop останавливает health check сервер
func (s *Server) Stop() error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	s.logger.Info("Stopping health check server")
	return s.server.Shutdown(ctx)
}

// healthHandler обрабатывает запросы /health
func (s *Server) healthHandler(w http.ResponseWriter, r *http.Request) {
	components := map[string]componentStatus{
		"database":    s.databaseStatus(r.Context()),
		"worker_pool": s.poolStatus(),
	}

	status := "healthy"
	code := http.StatusOK
	for name, component := range components {
		if component.Status != "ok" {
			status = "unhealthy"
			code = http.StatusServiceUnavailable
			s.logger.Error("Health check failed",
				zap.String("component", name),
				zap.String("error", component.Error))
		}
	}

	s.writeReport(w, code, report{
		Status:     status,
		Timestamp:  time.Now().Format(time.RFC3339),
		UptimeSec:  int64(time.Since(s.startedAt).Seconds()),
		Components: components,
	})
}

// readyHandler обрабатывает запросы /ready
func (s *Server) readyHandler(w http.ResponseWriter, r *http.Request) {
	status := "ready"
	code := http.StatusOK

	if err := s.checkReadiness(r.Context()); err != nil {
		status = "not ready"
		code = http.StatusServiceUnavailable
		s.logger.Error("Readiness check failed", zap.Error(err))
	}

	s.writeReport(w, code, report{
		Status:    status,
		Timestamp: time.Now().Format(time.RFC3339),
		UptimeSec: int64(time.Since(s.startedAt).Seconds()),
	})
}

// liveHandler обрабатывает запросы /live
func (s *Server) liveHandler(w http.ResponseWriter, r *http.Request) {
	s.writeReport(w, http.StatusOK, report{
		Status:    "alive",
		Timestamp: time.Now().Format(time.RFC3339),
		UptimeSec: int64(time.Since(s.startedAt).Seconds()),
	})
}

// databaseStatus проверяет подключение к базе данных
func (s *Server) databaseStatus(ctx context.Context) componentStatus {
	if s.db == nil {
		return componentStatus{Status: "failed", Error: "database connection is nil"}
	}

	checkCtx, cancel := context.WithTimeout(ctx, databaseCheckTimeout)
	defer cancel()

	started := time.Now()
	if err := s.db.Ping(checkCtx); err != nil {
		return componentStatus{Status: "failed", Error: err.Error()}
	}

	return componentStatus{
		Status:    "ok",
		LatencyMs: time.Since(started).Milliseconds(),
	}
}

// poolStatus проверяет пул обогащения превью
func (s *Server) poolStatus() componentStatus {
	if s.pool == nil {
		return componentStatus{Status: "failed", Error: "worker pool is not initialized"}
	}

	return componentStatus{Status: "ok"}
}

// checkReadiness проверяет готовность к работе
func (s *Server) checkReadiness(ctx context.Context) error {
	if s.db == nil {
		return fmt.Errorf("database is not initialized")
	}
	if status := s.databaseStatus(ctx); status.Status != "ok" {
		return fmt.Errorf("database is not ready: %s", status.Error)
	}
	if s.pool == nil {
		return fmt.Errorf("worker pool is not initialized")
	}
	return nil
}

// writeReport сериализует ответ проверки в JSON
func (s *Server) writeReport(w http.ResponseWriter, code int, rep report) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if err := json.NewEncoder(w).Encode(rep); err != nil {
		s.logger.Error("Failed to encode health report", zap.Error(err))
	}
}
