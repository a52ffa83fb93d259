// Package model содержит модели данных.
//
// Группа: ENTITIES - Основные сущности
// Содержит: Interaction, InteractionRepository
package model

import (
	"fmt"
	"time"

	"github.com/uptrace/bun"
)

// InteractionAction представляет тип реакции пользователя на трек
type InteractionAction string

// Допустимые реакции пользователя
const (
	ActionLike    InteractionAction = "like"
	ActionDislike InteractionAction = "dislike"
	ActionSkip    InteractionAction = "skip"
)

// Valid проверяет, является ли значение допустимой реакцией
func (a InteractionAction) Valid() bool {
	switch a {
	case ActionLike, ActionDislike, ActionSkip:
		return true
	}
	return false
}

// Interaction представляет реакцию пользователя на трек
type Interaction struct {
	bun.BaseModel `bun:"table:lyrafy.interactions"`

	ID        int64     `bun:"id,pk,autoincrement" json:"id"`
	UserID    string    `bun:"user_id,notnull" json:"user_id"`
	TrackID   string    `bun:"track_id,notnull" json:"track_id"`
	Action    string    `bun:"action,notnull" json:"action"`
	VibeMode  string    `bun:"vibe_mode" json:"vibe_mode,omitempty"`
	CreatedAt time.Time `bun:"created_at,notnull,default:current_timestamp" json:"created_at"`
}

// Validate проверяет корректность реакции перед сохранением
func (i *Interaction) Validate() error {
	if i.UserID == "" {
		return fmt.Errorf("user_id is required")
	}
	if i.TrackID == "" {
		return fmt.Errorf("track_id is required")
	}
	if !InteractionAction(i.Action).Valid() {
		return fmt.Errorf("unknown interaction action: %s", i.Action)
	}
	return nil
}

// InteractionRepository определяет интерфейс для работы с реакциями пользователей
type InteractionRepository interface {
	Create(interaction *Interaction) error
	GetByUserID(userID string, limit int) ([]Interaction, error)
	GetDislikedTrackIDs(userID string) ([]string, error)
	CountByUserID(userID string) (int, error)
}
