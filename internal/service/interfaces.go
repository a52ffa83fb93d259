package service

import (
	"context"

	"lyrafy/internal/model"
)

// CatalogSearcher определяет абстрактную способность поиска треков в каталоге.
// Реализуется шлюзами основного (Spotify) и резервного (Deezer) каталогов.
type CatalogSearcher interface {
	SearchTracks(ctx context.Context, query string, limit int) ([]model.Track, error)
}

// TasteServiceInterface определяет интерфейс для анализа вкуса
type TasteServiceInterface interface {
	Profile(tracks []model.Track) (model.TasteSignature, error)
	Analyze(ctx context.Context, userID string, tracks []model.Track) (*model.TasteProfile, error)
	GetProfile(userID string) (*model.TasteProfile, error)
}

// RecommendationServiceInterface определяет интерфейс для выдачи рекомендаций
type RecommendationServiceInterface interface {
	Discover(ctx context.Context, req DiscoverRequest) ([]model.ScoredCandidate, error)
	EnrichPreviews(ctx context.Context, candidates []model.ScoredCandidate, onResolved func(index int, track model.Track)) []model.ScoredCandidate
}

// InteractionServiceInterface определяет интерфейс для записи реакций
type InteractionServiceInterface interface {
	Record(ctx context.Context, interaction *model.Interaction) error
}

// VibeServiceInterface определяет интерфейс для работы с настроениями
type VibeServiceInterface interface {
	Presets() []model.VibeMode
	CustomVibe(text string) model.VibeMode
	GenerateName(userID string) string
}
