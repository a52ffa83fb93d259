package repository

import (
	"context"
	"fmt"

	"lyrafy/internal/model"

	"github.com/uptrace/bun"
	"go.uber.org/zap"
)

// InteractionRepository реализует интерфейс для работы с реакциями
type InteractionRepository struct {
	db     *bun.DB
	logger *zap.Logger
}

// NewInteractionRepository создает новый репозиторий реакций
func NewInteractionRepository(db *bun.DB, logger *zap.Logger) *InteractionRepository {
	return &InteractionRepository{
		db:     db,
		logger: logger,
	}
}

// Create сохраняет новую реакцию
func (r *InteractionRepository) Create(interaction *model.Interaction) error {
	ctx := context.Background()

	_, err := r.db.NewInsert().
		Model(interaction).
		Exec(ctx)

	if err != nil {
		return fmt.Errorf("failed to create interaction: %w", err)
	}

	return nil
}

// GetByUserID возвращает последние реакции пользователя
func (r *InteractionRepository) GetByUserID(userID string, limit int) ([]model.Interaction, error) {
	ctx := context.Background()
	var interactions []model.Interaction

	err := r.db.NewSelect().
		Model(&interactions).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Limit(limit).
		Scan(ctx)

	if err != nil {
		return nil, fmt.Errorf("failed to query interactions: %w", err)
	}

	return interactions, nil
}

// GetDislikedTrackIDs возвращает идентификаторы дизлайкнутых треков
func (r *InteractionRepository) GetDislikedTrackIDs(userID string) ([]string, error) {
	ctx := context.Background()
	var trackIDs []string

	err := r.db.NewSelect().
		Model((*model.Interaction)(nil)).
		Column("track_id").
		Where("user_id = ?", userID).
		Where("action = ?", string(model.ActionDislike)).
		Distinct().
		Scan(ctx, &trackIDs)

	if err != nil {
		return nil, fmt.Errorf("failed to query disliked tracks: %w", err)
	}

	return trackIDs, nil
}

// CountByUserID возвращает общее число реакций пользователя
func (r *InteractionRepository) CountByUserID(userID string) (int, error) {
	ctx := context.Background()

	count, err := r.db.NewSelect().
		Model((*model.Interaction)(nil)).
		Where("user_id = ?", userID).
		Count(ctx)

	if err != nil {
		return 0, fmt.Errorf("failed to count interactions: %w", err)
	}

	return count, nil
}
