package service

import (
	"context"
	"errors"
	"fmt"

	"lyrafy/internal/model"

	"go.uber.org/zap"
)

// Границы размера выдачи рекомендаций
const (
	defaultDiscoverLimit = 20
	maxDiscoverLimit     = 50
)

// DiscoverRequest описывает запрос на подборку рекомендаций
type DiscoverRequest struct {
	UserID          string   `json:"user_id"`
	VibeID          string   `json:"vibe_id,omitempty"`
	CustomVibe      string   `json:"custom_vibe,omitempty"`
	Limit           int      `json:"limit,omitempty"`
	ExcludeTrackIDs []string `json:"exclude_track_ids,omitempty"`
}

// RecommendationService собирает, оценивает и дедуплицирует кандидатов
type RecommendationService struct {
	tasteService    TasteServiceInterface
	vibeService     VibeServiceInterface
	generator       *CandidateGenerator
	reconciler      *PreviewReconciler
	interactionRepo model.InteractionRepository
	logger          *zap.Logger
}

// NewRecommendationService создает новый сервис рекомендаций
func NewRecommendationService(tasteService TasteServiceInterface, vibeService VibeServiceInterface, generator *CandidateGenerator, reconciler *PreviewReconciler, interactionRepo model.InteractionRepository, logger *zap.Logger) *RecommendationService {
	return &RecommendationService{
		tasteService:    tasteService,
		vibeService:     vibeService,
		generator:       generator,
		reconciler:      reconciler,
		interactionRepo: interactionRepo,
		logger:          logger,
	}
}

// Discover строит ранжированную подборку под профиль или настроение.
// Порядок конвейера фиксирован: генерация, оценка, сортировка по убыванию,
// дедупликация (выживает лучший представитель), обрезка до лимита.
// Превью на этом этапе не досылаются, подборка отдается сразу.
func (s *RecommendationService) Discover(ctx context.Context, req DiscoverRequest) ([]model.ScoredCandidate, error) {
	if req.UserID == "" {
		return nil, model.ErrUserIDRequired
	}

	limit := req.Limit
	if limit <= 0 {
		limit = defaultDiscoverLimit
	}
	if limit > maxDiscoverLimit {
		limit = maxDiscoverLimit
	}

	signature, hasProfile := s.loadSignature(req.UserID)

	exclude := s.buildExclusionSet(req)

	var candidates []model.Track
	var err error
	switch {
	case req.VibeID != "" || req.CustomVibe != "":
		vibe := s.resolveVibe(req)
		candidates, err = s.generator.FromVibe(ctx, vibe, exclude)
	case hasProfile:
		candidates, err = s.generator.FromSignature(ctx, signature, exclude)
	default:
		return nil, model.ErrProfileNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to gather candidates: %w", err)
	}

	ranked := RankCandidates(candidates, signature)
	unique := DedupeCandidates(ranked)
	if len(unique) > limit {
		unique = unique[:limit]
	}

	s.logger.Info("Recommendations assembled",
		zap.String("user_id", req.UserID),
		zap.Int("candidates", len(candidates)),
		zap.Int("returned", len(unique)),
		zap.Bool("has_profile", hasProfile))

	return unique, nil
}

// EnrichPreviews досылает превью из резервного каталога.
// onResolved вызывается по мере нахождения превью для каждой позиции.
func (s *RecommendationService) EnrichPreviews(ctx context.Context, candidates []model.ScoredCandidate, onResolved func(index int, track model.Track)) []model.ScoredCandidate {
	return s.reconciler.ReconcileAll(ctx, candidates, onResolved)
}

// loadSignature возвращает вкусовую сигнатуру пользователя.
// Отсутствующий профиль не ошибка: подборка по настроению работает без него.
func (s *RecommendationService) loadSignature(userID string) (model.TasteSignature, bool) {
	profile, err := s.tasteService.GetProfile(userID)
	if err != nil {
		if !errors.Is(err, model.ErrProfileNotFound) {
			s.logger.Warn("Failed to load taste profile",
				zap.String("user_id", userID),
				zap.Error(err))
		}
		return model.TasteSignature{}, false
	}
	return profile.Signature(), true
}

// buildExclusionSet объединяет явные исключения запроса
// с треками, которые пользователь дизлайкнул ранее
func (s *RecommendationService) buildExclusionSet(req DiscoverRequest) map[string]struct{} {
	exclude := map[string]struct{}{}
	for _, id := range req.ExcludeTrackIDs {
		exclude[id] = struct{}{}
	}

	disliked, err := s.interactionRepo.GetDislikedTrackIDs(req.UserID)
	if err != nil {
		s.logger.Warn("Failed to load disliked tracks",
			zap.String("user_id", req.UserID),
			zap.Error(err))
		return exclude
	}
	for _, id := range disliked {
		exclude[id] = struct{}{}
	}
	return exclude
}

// resolveVibe превращает параметры запроса в режим настроения
func (s *RecommendationService) resolveVibe(req DiscoverRequest) model.VibeMode {
	if req.VibeID != "" {
		for _, preset := range s.vibeService.Presets() {
			if preset.ID == req.VibeID {
				return preset
			}
		}
		s.logger.Warn("Unknown vibe id, falling back to custom synthesis",
			zap.String("vibe_id", req.VibeID))
	}
	if req.CustomVibe != "" {
		return s.vibeService.CustomVibe(req.CustomVibe)
	}
	return s.vibeService.CustomVibe(req.VibeID)
}
