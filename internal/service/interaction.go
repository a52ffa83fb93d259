package service

import (
	"context"
	"fmt"

	"lyrafy/internal/model"

	"go.uber.org/zap"
)

// Параметры дообучения профиля по реакциям
const (
	retrainEvery      = 20
	confidenceStep    = 0.1
	confidenceCeiling = 1.0
)

// InteractionService записывает реакции пользователя и подстраивает профиль
type InteractionService struct {
	interactionRepo model.InteractionRepository
	profileRepo     model.TasteProfileRepository
	logger          *zap.Logger
}

// NewInteractionService создает новый сервис реакций
func NewInteractionService(interactionRepo model.InteractionRepository, profileRepo model.TasteProfileRepository, logger *zap.Logger) *InteractionService {
	return &InteractionService{
		interactionRepo: interactionRepo,
		profileRepo:     profileRepo,
		logger:          logger,
	}
}

// Record сохраняет реакцию и раз в retrainEvery реакций
// повышает уверенность профиля
func (s *InteractionService) Record(ctx context.Context, interaction *model.Interaction) error {
	if err := interaction.Validate(); err != nil {
		return err
	}

	if err := s.interactionRepo.Create(interaction); err != nil {
		return fmt.Errorf("failed to store interaction: %w", err)
	}

	profile, err := s.profileRepo.IncrementInteractions(interaction.UserID)
	if err != nil {
		return fmt.Errorf("failed to update interaction count: %w", err)
	}
	if profile == nil {
		// Реакции до анализа вкуса допустимы, профиль появится позже
		s.logger.Debug("Interaction recorded without taste profile",
			zap.String("user_id", interaction.UserID),
			zap.String("track_id", interaction.TrackID))
		return nil
	}

	if profile.TotalInteractions > 0 && profile.TotalInteractions%retrainEvery == 0 {
		confidence := profile.Confidence + confidenceStep
		if confidence > confidenceCeiling {
			confidence = confidenceCeiling
		}
		if err := s.profileRepo.UpdateConfidence(interaction.UserID, confidence); err != nil {
			return fmt.Errorf("failed to update profile confidence: %w", err)
		}
		s.logger.Info("Profile confidence increased",
			zap.String("user_id", interaction.UserID),
			zap.Int("total_interactions", profile.TotalInteractions),
			zap.Float64("confidence", confidence))
	}

	s.logger.Debug("Interaction recorded",
		zap.String("user_id", interaction.UserID),
		zap.String("track_id", interaction.TrackID),
		zap.String("action", string(interaction.Action)))

	return nil
}
