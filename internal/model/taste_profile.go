// Package model содержит модели данных.
//
// Группа: ENTITIES - Основные сущности
// Содержит: TasteProfile, TasteProfileRepository
package model

import (
	"time"

	"github.com/uptrace/bun"
)

// TasteProfile представляет сохраненный профиль вкуса пользователя
type TasteProfile struct {
	bun.BaseModel `bun:"table:lyrafy.taste_profiles"`

	ID                int64          `bun:"id,pk,autoincrement" json:"id"`
	UserID            string         `bun:"user_id,notnull,unique" json:"user_id"`
	Genres            []string       `bun:"genres,type:jsonb" json:"genres"`
	Moods             []string       `bun:"moods,type:jsonb" json:"moods"`
	Decades           map[string]int `bun:"decades,type:jsonb" json:"decades"`
	PopularityMin     float64        `bun:"popularity_min,notnull,default:0" json:"popularity_min"`
	PopularityMax     float64        `bun:"popularity_max,notnull,default:0" json:"popularity_max"`
	PopularityAvg     float64        `bun:"popularity_avg,notnull,default:0" json:"popularity_avg"`
	Artists           []string       `bun:"artists,type:jsonb" json:"artists"`
	Confidence        float64        `bun:"confidence,notnull,default:0" json:"confidence"`
	TotalInteractions int            `bun:"total_interactions,notnull,default:0" json:"total_interactions"`
	CreatedAt         time.Time      `bun:"created_at,notnull,default:current_timestamp" json:"created_at"`
	UpdatedAt         time.Time      `bun:"updated_at,notnull,default:current_timestamp" json:"updated_at"`
}

// Signature восстанавливает вкусовую сигнатуру из сохраненного профиля
func (p *TasteProfile) Signature() TasteSignature {
	decades := p.Decades
	if decades == nil {
		decades = map[string]int{}
	}

	return TasteSignature{
		InferredGenres:  p.Genres,
		InferredMoods:   p.Moods,
		DecadeHistogram: decades,
		PopularityBand: FeatureBand{
			Min:     p.PopularityMin,
			Max:     p.PopularityMax,
			Average: p.PopularityAvg,
		},
		ArtistSet: p.Artists,
	}
}

// ApplySignature переносит значения сигнатуры в профиль
func (p *TasteProfile) ApplySignature(sig TasteSignature) {
	p.Genres = sig.InferredGenres
	p.Moods = sig.InferredMoods
	p.Decades = sig.DecadeHistogram
	p.PopularityMin = sig.PopularityBand.Min
	p.PopularityMax = sig.PopularityBand.Max
	p.PopularityAvg = sig.PopularityBand.Average
	p.Artists = sig.ArtistSet
}

// TasteProfileRepository определяет интерфейс для работы с профилями вкуса
type TasteProfileRepository interface {
	GetByUserID(userID string) (*TasteProfile, error)
	Upsert(profile *TasteProfile) error
	IncrementInteractions(userID string) (*TasteProfile, error)
	UpdateConfidence(userID string, confidence float64) error
}
