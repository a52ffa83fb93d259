// Package service содержит бизнес-логику приложения.
package service

import (
	"fmt"

	"lyrafy/internal/config"
	"lyrafy/internal/gateway/deezer"
	"lyrafy/internal/gateway/spotify"
	"lyrafy/internal/storage"
	"lyrafy/internal/worker"

	"go.uber.org/zap"
)

// Services содержит все сервисы приложения
type Services struct {
	Taste          *TasteService
	Recommendation *RecommendationService
	Interaction    *InteractionService
	Vibe           *VibeService
	Catalog        *spotify.Client
	Pool           *worker.Pool
}

// NewServices создает все сервисы
func NewServices(db *storage.Postgres, cfg *config.Config, logger *zap.Logger) (*Services, error) {
	spotifyClient, err := spotify.NewClient(cfg.SpotifyClientID, cfg.SpotifyClientSecret, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to create spotify client: %w", err)
	}

	deezerClient := deezer.NewClient(deezer.Config{
		BaseURL: cfg.DeezerBaseURL,
		HTTPClientConfig: deezer.HTTPClientConfig{
			MaxIdleConns:          cfg.HTTPClientConfig.MaxIdleConns,
			MaxIdleConnsPerHost:   cfg.HTTPClientConfig.MaxIdleConnsPerHost,
			IdleConnTimeout:       cfg.HTTPClientConfig.IdleConnTimeout,
			TLSHandshakeTimeout:   cfg.HTTPClientConfig.TLSHandshakeTimeout,
			ResponseHeaderTimeout: cfg.HTTPClientConfig.ResponseHeaderTimeout,
			DisableKeepAlives:     cfg.HTTPClientConfig.DisableKeepAlives,
		},
		RetryConfig: deezer.RetryConfig{
			MaxRetries:        cfg.RetryConfig.MaxRetries,
			InitialDelay:      cfg.RetryConfig.InitialDelay,
			MaxDelay:          cfg.RetryConfig.MaxDelay,
			BackoffMultiplier: cfg.RetryConfig.BackoffMultiplier,
		},
	}, logger)

	// Ширина пула ограничивает число одновременных запросов за превью
	pool := worker.NewPool(cfg.RecommendConfig.PreviewBatchSize, cfg.RecommendConfig.CandidateCap, logger)
	pool.Start()

	tasteService := NewTasteService(db.GetTasteProfileRepository(), cfg.RecommendConfig.MinTracksForProfile, logger)
	vibeService := NewVibeService(tasteService, logger)
	generator := NewCandidateGenerator(spotifyClient,
		cfg.RecommendConfig.QueryLimit,
		cfg.RecommendConfig.MinCandidates,
		cfg.RecommendConfig.CandidateCap,
		logger)
	reconciler := NewPreviewReconciler(deezerClient, pool, logger)
	recommendationService := NewRecommendationService(tasteService, vibeService, generator, reconciler, db.GetInteractionRepository(), logger)
	interactionService := NewInteractionService(db.GetInteractionRepository(), db.GetTasteProfileRepository(), logger)

	return &Services{
		Taste:          tasteService,
		Recommendation: recommendationService,
		Interaction:    interactionService,
		Vibe:           vibeService,
		Catalog:        spotifyClient,
		Pool:           pool,
	}, nil
}

// Stop останавливает фоновые компоненты сервисов
func (s *Services) Stop() {
	s.Pool.Stop()
}
