package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"lyrafy/internal/model"
	"lyrafy/internal/service"

	"go.uber.org/zap"
)

// Лимиты выборки истории прослушиваний для анализа вкуса
const (
	defaultTopTracksLimit = 50
	defaultSearchLimit    = 20
	maxSearchLimit        = 50
	defaultPlaylistLimit  = 50
)

// analyzeTasteRequest запрос на построение профиля вкуса.
// Треки либо передаются явно, либо запрашиваются из истории
// прослушиваний по пользовательскому токену.
type analyzeTasteRequest struct {
	UserID      string        `json:"user_id"`
	AccessToken string        `json:"access_token,omitempty"`
	TimeRange   string        `json:"time_range,omitempty"`
	Tracks      []model.Track `json:"tracks,omitempty"`
}

// analyzeTasteHandler обрабатывает POST /analyze-taste
func (s *Server) analyzeTasteHandler(w http.ResponseWriter, r *http.Request) {
	var req analyzeTasteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.UserID == "" {
		s.writeError(w, http.StatusBadRequest, "user_id is required")
		return
	}

	tracks := req.Tracks
	if len(tracks) == 0 {
		if req.AccessToken == "" {
			s.writeError(w, http.StatusBadRequest, "either tracks or access_token is required")
			return
		}
		timeRange := req.TimeRange
		if timeRange == "" {
			timeRange = "medium_term"
		}
		var err error
		tracks, err = s.services.Catalog.GetUserTopTracks(r.Context(), req.AccessToken, timeRange, defaultTopTracksLimit)
		if err != nil {
			s.logger.Error("Failed to fetch user top tracks",
				zap.String("user_id", req.UserID),
				zap.Error(err))
			s.writeError(w, http.StatusBadGateway, "failed to fetch listening history")
			return
		}
	}

	profile, err := s.services.Taste.Analyze(r.Context(), req.UserID, tracks)
	if err != nil {
		if errors.Is(err, model.ErrInsufficientData) {
			s.writeError(w, http.StatusUnprocessableEntity, "not enough tracks to build a taste profile")
			return
		}
		s.logger.Error("Taste analysis failed",
			zap.String("user_id", req.UserID),
			zap.Error(err))
		s.writeError(w, http.StatusInternalServerError, "taste analysis failed")
		return
	}

	s.writeJSON(w, http.StatusOK, profile)
}

// recommendationsResponse ответ с подборкой рекомендаций
type recommendationsResponse struct {
	Recommendations []model.ScoredCandidate `json:"recommendations"`
	Count           int                     `json:"count"`
}

// recommendationsHandler обрабатывает POST /recommendations.
// Подборка собирается сразу, затем в пределах таймаута досылаются
// превью из резервного каталога. Ненайденные превью не задерживают ответ.
func (s *Server) recommendationsHandler(w http.ResponseWriter, r *http.Request) {
	var req service.DiscoverRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	recommendations, err := s.services.Recommendation.Discover(r.Context(), req)
	if err != nil {
		switch {
		case errors.Is(err, model.ErrProfileNotFound):
			s.writeError(w, http.StatusNotFound, "taste profile not found, analyze taste first or pick a vibe")
		case errors.Is(err, model.ErrUserIDRequired):
			s.writeError(w, http.StatusBadRequest, model.ErrUserIDRequired.Error())
		default:
			s.logger.Error("Recommendation pipeline failed",
				zap.String("user_id", req.UserID),
				zap.Error(err))
			s.writeError(w, http.StatusBadGateway, "failed to gather recommendations")
		}
		return
	}

	enrichCtx, cancel := context.WithTimeout(r.Context(), s.cfg.RecommendConfig.PreviewEnrichTimeout)
	defer cancel()
	recommendations = s.services.Recommendation.EnrichPreviews(enrichCtx, recommendations, nil)

	s.writeJSON(w, http.StatusOK, recommendationsResponse{
		Recommendations: recommendations,
		Count:           len(recommendations),
	})
}

// interactionsHandler обрабатывает POST /interactions
func (s *Server) interactionsHandler(w http.ResponseWriter, r *http.Request) {
	var interaction model.Interaction
	if err := json.NewDecoder(r.Body).Decode(&interaction); err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	interaction.CreatedAt = time.Now()

	if err := interaction.Validate(); err != nil {
		s.writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	if err := s.services.Interaction.Record(r.Context(), &interaction); err != nil {
		s.logger.Error("Failed to record interaction",
			zap.String("user_id", interaction.UserID),
			zap.Error(err))
		s.writeError(w, http.StatusInternalServerError, "failed to record interaction")
		return
	}

	s.writeJSON(w, http.StatusCreated, map[string]string{"status": "recorded"})
}

// profileHandler обрабатывает GET /profiles/{user_id}
func (s *Server) profileHandler(w http.ResponseWriter, r *http.Request) {
	userID := r.PathValue("user_id")
	if userID == "" {
		s.writeError(w, http.StatusBadRequest, "user_id is required")
		return
	}

	profile, err := s.services.Taste.GetProfile(userID)
	if err != nil {
		if errors.Is(err, model.ErrProfileNotFound) {
			s.writeError(w, http.StatusNotFound, "taste profile not found")
			return
		}
		s.logger.Error("Failed to load taste profile",
			zap.String("user_id", userID),
			zap.Error(err))
		s.writeError(w, http.StatusInternalServerError, "failed to load taste profile")
		return
	}

	s.writeJSON(w, http.StatusOK, profile)
}

// vibesHandler обрабатывает GET /vibes
func (s *Server) vibesHandler(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string][]model.VibeMode{
		"vibes": s.services.Vibe.Presets(),
	})
}

// vibeNameHandler обрабатывает GET /vibes/generate-name
func (s *Server) vibeNameHandler(w http.ResponseWriter, r *http.Request) {
	userID := r.URL.Query().Get("user_id")
	if userID == "" {
		s.writeError(w, http.StatusBadRequest, "user_id is required")
		return
	}

	s.writeJSON(w, http.StatusOK, map[string]string{
		"name": s.services.Vibe.GenerateName(userID),
	})
}

// searchHandler обрабатывает GET /search
func (s *Server) searchHandler(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query().Get("q")
	if query == "" {
		s.writeError(w, http.StatusBadRequest, "q is required")
		return
	}

	limit := defaultSearchLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed <= 0 {
			s.writeError(w, http.StatusBadRequest, "limit must be a positive integer")
			return
		}
		limit = parsed
	}
	if limit > maxSearchLimit {
		limit = maxSearchLimit
	}

	tracks, err := s.services.Catalog.SearchTracks(r.Context(), query, limit)
	if err != nil {
		s.logger.Error("Catalog search failed",
			zap.String("query", query),
			zap.Error(err))
		s.writeError(w, http.StatusBadGateway, "catalog search failed")
		return
	}

	s.writeJSON(w, http.StatusOK, map[string]interface{}{
		"tracks": tracks,
		"count":  len(tracks),
	})
}

// likeTrackHandler обрабатывает POST /tracks/{track_id}/like
func (s *Server) likeTrackHandler(w http.ResponseWriter, r *http.Request) {
	trackID := r.PathValue("track_id")
	token, ok := s.bearerToken(w, r)
	if !ok {
		return
	}

	if err := s.services.Catalog.LikeTrack(r.Context(), token, trackID); err != nil {
		s.logger.Error("Failed to like track",
			zap.String("track_id", trackID),
			zap.Error(err))
		s.writeError(w, http.StatusBadGateway, "failed to like track")
		return
	}

	s.writeJSON(w, http.StatusOK, map[string]string{"status": "liked"})
}

// unlikeTrackHandler обрабатывает DELETE /tracks/{track_id}/like
func (s *Server) unlikeTrackHandler(w http.ResponseWriter, r *http.Request) {
	trackID := r.PathValue("track_id")
	token, ok := s.bearerToken(w, r)
	if !ok {
		return
	}

	if err := s.services.Catalog.UnlikeTrack(r.Context(), token, trackID); err != nil {
		s.logger.Error("Failed to unlike track",
			zap.String("track_id", trackID),
			zap.Error(err))
		s.writeError(w, http.StatusBadGateway, "failed to unlike track")
		return
	}

	s.writeJSON(w, http.StatusOK, map[string]string{"status": "unliked"})
}

// playlistsHandler обрабатывает GET /playlists
func (s *Server) playlistsHandler(w http.ResponseWriter, r *http.Request) {
	token, ok := s.bearerToken(w, r)
	if !ok {
		return
	}

	playlists, err := s.services.Catalog.GetUserPlaylists(r.Context(), token, defaultPlaylistLimit)
	if err != nil {
		s.logger.Error("Failed to get user playlists", zap.Error(err))
		s.writeError(w, http.StatusBadGateway, "failed to get playlists")
		return
	}

	s.writeJSON(w, http.StatusOK, map[string]interface{}{
		"playlists": playlists,
		"count":     len(playlists),
	})
}

// playlistTracksHandler обрабатывает GET /playlists/{playlist_id}/tracks
func (s *Server) playlistTracksHandler(w http.ResponseWriter, r *http.Request) {
	playlistID := r.PathValue("playlist_id")
	token, ok := s.bearerToken(w, r)
	if !ok {
		return
	}

	tracks, err := s.services.Catalog.GetPlaylistTracks(r.Context(), token, playlistID)
	if err != nil {
		s.logger.Error("Failed to get playlist tracks",
			zap.String("playlist_id", playlistID),
			zap.Error(err))
		s.writeError(w, http.StatusBadGateway, "failed to get playlist tracks")
		return
	}

	s.writeJSON(w, http.StatusOK, map[string]interface{}{
		"tracks": tracks,
		"count":  len(tracks),
	})
}

// createPlaylistRequest представляет тело запроса POST /playlists
type createPlaylistRequest struct {
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Public      bool     `json:"public"`
	TrackIDs    []string `json:"track_ids"`
}

// createPlaylistHandler обрабатывает POST /playlists
func (s *Server) createPlaylistHandler(w http.ResponseWriter, r *http.Request) {
	token, ok := s.bearerToken(w, r)
	if !ok {
		return
	}

	var req createPlaylistRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Name == "" {
		s.writeError(w, http.StatusBadRequest, "name is required")
		return
	}

	playlistID, err := s.services.Catalog.CreatePlaylist(r.Context(), token, req.Name, req.Description, req.Public)
	if err != nil {
		s.logger.Error("Failed to create playlist",
			zap.String("name", req.Name),
			zap.Error(err))
		s.writeError(w, http.StatusBadGateway, "failed to create playlist")
		return
	}

	if err := s.services.Catalog.AddTracksToPlaylist(r.Context(), token, playlistID, req.TrackIDs); err != nil {
		s.logger.Error("Failed to add tracks to playlist",
			zap.String("playlist_id", playlistID),
			zap.Error(err))
		s.writeError(w, http.StatusBadGateway, "failed to add tracks to playlist")
		return
	}

	s.writeJSON(w, http.StatusCreated, map[string]string{"playlist_id": playlistID})
}

// removePlaylistTracksHandler обрабатывает DELETE /playlists/{playlist_id}/tracks
func (s *Server) removePlaylistTracksHandler(w http.ResponseWriter, r *http.Request) {
	playlistID := r.PathValue("playlist_id")
	token, ok := s.bearerToken(w, r)
	if !ok {
		return
	}

	var req struct {
		TrackIDs []string `json:"track_ids"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if len(req.TrackIDs) == 0 {
		s.writeError(w, http.StatusBadRequest, "track_ids is required")
		return
	}

	if err := s.services.Catalog.RemoveTracksFromPlaylist(r.Context(), token, playlistID, req.TrackIDs); err != nil {
		s.logger.Error("Failed to remove tracks from playlist",
			zap.String("playlist_id", playlistID),
			zap.Error(err))
		s.writeError(w, http.StatusBadGateway, "failed to remove tracks from playlist")
		return
	}

	s.writeJSON(w, http.StatusOK, map[string]string{"status": "removed"})
}

// bearerToken извлекает пользовательский токен из заголовка Authorization
func (s *Server) bearerToken(w http.ResponseWriter, r *http.Request) (string, bool) {
	header := r.Header.Get("Authorization")
	token := strings.TrimPrefix(header, "Bearer ")
	if token == "" || token == header {
		s.writeError(w, http.StatusUnauthorized, "bearer token is required")
		return "", false
	}
	return token, true
}

// healthHandler обрабатывает GET /health
func (s *Server) healthHandler(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]string{
		"status":    "ok",
		"timestamp": time.Now().Format(time.RFC3339),
	})
}

// writeJSON сериализует ответ в JSON
func (s *Server) writeJSON(w http.ResponseWriter, code int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Error("Failed to encode response", zap.Error(err))
	}
}

// writeError отправляет ошибку в едином формате
func (s *Server) writeError(w http.ResponseWriter, code int, message string) {
	s.writeJSON(w, code, map[string]string{"error": message})
}
