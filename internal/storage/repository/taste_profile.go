// Package repository содержит репозитории для работы с базой данных.
package repository

import (
	"context"
	"fmt"
	"time"

	"lyrafy/internal/model"

	"github.com/uptrace/bun"
	"go.uber.org/zap"
)

// TasteProfileRepository реализует интерфейс для работы с профилями вкуса
type TasteProfileRepository struct {
	db     *bun.DB
	logger *zap.Logger
}

// NewTasteProfileRepository создает новый репозиторий профилей вкуса
func NewTasteProfileRepository(db *bun.DB, logger *zap.Logger) *TasteProfileRepository {
	return &TasteProfileRepository{
		db:     db,
		logger: logger,
	}
}

// GetByUserID возвращает профиль пользователя или nil, если его нет
func (r *TasteProfileRepository) GetByUserID(userID string) (*model.TasteProfile, error) {
	ctx := context.Background()
	profile := new(model.TasteProfile)

	err := r.db.NewSelect().
		Model(profile).
		Where("user_id = ?", userID).
		Scan(ctx)

	if err != nil {
		if err.Error() == "sql: no rows in result set" {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to query taste profile: %w", err)
	}

	return profile, nil
}

// Upsert сохраняет профиль, заменяя существующий профиль пользователя
func (r *TasteProfileRepository) Upsert(profile *model.TasteProfile) error {
	ctx := context.Background()
	profile.UpdatedAt = time.Now()

	_, err := r.db.NewInsert().
		Model(profile).
		On("CONFLICT (user_id) DO UPDATE").
		Set("genres = EXCLUDED.genres").
		Set("moods = EXCLUDED.moods").
		Set("decades = EXCLUDED.decades").
		Set("popularity_min = EXCLUDED.popularity_min").
		Set("popularity_max = EXCLUDED.popularity_max").
		Set("popularity_avg = EXCLUDED.popularity_avg").
		Set("artists = EXCLUDED.artists").
		Set("confidence = EXCLUDED.confidence").
		Set("updated_at = EXCLUDED.updated_at").
		Exec(ctx)

	if err != nil {
		return fmt.Errorf("failed to upsert taste profile: %w", err)
	}

	return nil
}

// IncrementInteractions увеличивает счетчик реакций профиля.
// Возвращает обновленный профиль или nil, если профиля еще нет.
func (r *TasteProfileRepository) IncrementInteractions(userID string) (*model.TasteProfile, error) {
	ctx := context.Background()
	profile := new(model.TasteProfile)

	err := r.db.NewUpdate().
		Model(profile).
		Set("total_interactions = total_interactions + 1").
		Set("updated_at = ?", time.Now()).
		Where("user_id = ?", userID).
		Returning("*").
		Scan(ctx)

	if err != nil {
		if err.Error() == "sql: no rows in result set" {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to increment interactions: %w", err)
	}

	return profile, nil
}

// UpdateConfidence устанавливает новую уверенность профиля
func (r *TasteProfileRepository) UpdateConfidence(userID string, confidence float64) error {
	ctx := context.Background()

	_, err := r.db.NewUpdate().
		Model((*model.TasteProfile)(nil)).
		Set("confidence = ?", confidence).
		Set("updated_at = ?", time.Now()).
		Where("user_id = ?", userID).
		Exec(ctx)

	if err != nil {
		return fmt.Errorf("failed to update profile confidence: %w", err)
	}

	return nil
}
