// Package model содержит модели данных.
//
// Группа: DERIVED - Производные значения анализа вкуса
// Содержит: TasteSignature, FeatureBand, ScoredCandidate, VibeMode
package model

import (
	"errors"
	"strings"
)

// ErrInsufficientData возвращается, когда треков недостаточно для анализа вкуса
var ErrInsufficientData = errors.New("insufficient listening data for taste analysis")

// ErrProfileNotFound возвращается, когда профиль пользователя еще не создан
var ErrProfileNotFound = errors.New("taste profile not found")

// ErrUserIDRequired возвращается на запрос без идентификатора пользователя
var ErrUserIDRequired = errors.New("user_id is required")

// FeatureBand представляет диапазон числового признака
type FeatureBand struct {
	Min     float64 `json:"min"`
	Max     float64 `json:"max"`
	Average float64 `json:"average"`
}

// TasteSignature представляет производную сводку вкуса пользователя.
// Строится заново при каждом анализе и не хранит скрытого состояния.
type TasteSignature struct {
	InferredGenres  []string       `json:"inferred_genres"`
	InferredMoods   []string       `json:"inferred_moods"`
	DecadeHistogram map[string]int `json:"decade_histogram"`
	PopularityBand  FeatureBand    `json:"popularity_band"`
	ArtistSet       []string       `json:"artist_set"`
}

// HasArtist проверяет, входит ли исполнитель в набор предпочитаемых.
// Сравнение без учета регистра, допускается совпадение по подстроке.
func (s TasteSignature) HasArtist(name string) bool {
	candidate := strings.ToLower(strings.TrimSpace(name))
	if candidate == "" {
		return false
	}

	for _, artist := range s.ArtistSet {
		preferred := strings.ToLower(artist)
		if candidate == preferred || strings.Contains(preferred, candidate) || strings.Contains(candidate, preferred) {
			return true
		}
	}

	return false
}

// HasDecade проверяет, встречается ли десятилетие в гистограмме
func (s TasteSignature) HasDecade(decade string) bool {
	_, ok := s.DecadeHistogram[decade]
	return ok
}

// ScoredCandidate представляет кандидата с оценкой похожести
type ScoredCandidate struct {
	Track   Track    `json:"track"`
	Score   float64  `json:"score"`
	Reasons []string `json:"reasons"`
}

// VibeMode представляет именованное настроение для поиска треков
type VibeMode struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Emoji       string   `json:"emoji,omitempty"`
	Description string   `json:"description,omitempty"`
	QueryHints  []string `json:"query_hints,omitempty"`
	Gradient    []string `json:"gradient,omitempty"`
}
