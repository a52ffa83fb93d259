// Package api содержит HTTP API сервер приложения.
package api

import (
	"context"
	"net/http"
	"time"

	"lyrafy/internal/config"
	"lyrafy/internal/service"

	"go.uber.org/zap"
)

// Server представляет HTTP API сервер
type Server struct {
	server   *http.Server
	services *service.Services
	cfg      *config.Config
	logger   *zap.Logger
}

// NewServer создает новый API сервер
func NewServer(cfg *config.Config, services *service.Services, logger *zap.Logger) *Server {
	mux := http.NewServeMux()

	server := &http.Server{
		Addr:              ":" + cfg.APIPort,
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
	}

	apiServer := &Server{
		server:   server,
		services: services,
		cfg:      cfg,
		logger:   logger,
	}

	// Регистрируем маршруты
	mux.HandleFunc("POST /analyze-taste", apiServer.analyzeTasteHandler)
	mux.HandleFunc("POST /recommendations", apiServer.recommendationsHandler)
	mux.HandleFunc("POST /interactions", apiServer.interactionsHandler)
	mux.HandleFunc("GET /profiles/{user_id}", apiServer.profileHandler)
	mux.HandleFunc("GET /vibes", apiServer.vibesHandler)
	mux.HandleFunc("GET /vibes/generate-name", apiServer.vibeNameHandler)
	mux.HandleFunc("GET /search", apiServer.searchHandler)
	mux.HandleFunc("POST /tracks/{track_id}/like", apiServer.likeTrackHandler)
	mux.HandleFunc("DELETE /tracks/{track_id}/like", apiServer.unlikeTrackHandler)
	mux.HandleFunc("GET /playlists", apiServer.playlistsHandler)
	mux.HandleFunc("GET /playlists/{playlist_id}/tracks", apiServer.playlistTracksHandler)
	mux.HandleFunc("POST /playlists", apiServer.createPlaylistHandler)
	mux.HandleFunc("DELETE /playlists/{playlist_id}/tracks", apiServer.removePlaylistTracksHandler)
	mux.HandleFunc("GET /health", apiServer.healthHandler)

	return apiServer
}

// Start запускает API сервер
func (s *Server) Start() error {
	s.logger.Info("Starting API server", zap.String("addr", s.server.Addr))
	return s.server.ListenAndServe()
}

// Stop останавливает API сервер
func (s *Server) Stop() error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	s.logger.Info("Stopping API server")
	return s.server.Shutdown(ctx)
}
