package service

import (
	"fmt"
	"sort"
	"strings"

	"lyrafy/internal/model"
)

// Веса сигналов похожести. Сумма всех сигналов намеренно может
// превышать единицу, итог обрезается до 1.0.
const (
	artistMatchWeight  = 0.5
	decadeMatchWeight  = 0.3
	genreMatchWeight   = 0.2
	popularityWeight   = 0.1
	multiSignalBonus   = 0.1
	maxCandidateScore  = 1.0
	maxReasonsPerTrack = 3
)

// ScoreCandidate оценивает похожесть трека на вкусовую сигнатуру.
// Возвращает оценку в [0,1] и человекочитаемые причины (не более трех).
func ScoreCandidate(track model.Track, signature model.TasteSignature) model.ScoredCandidate {
	var score float64
	var reasons []string
	var signals int

	for _, artist := range track.Artists {
		if signature.HasArtist(artist.Name) {
			score += artistMatchWeight
			reasons = append(reasons, "By preferred artist")
			signals++
			break
		}
	}

	if decade, ok := track.Decade(); ok && signature.HasDecade(decade) {
		score += decadeMatchWeight
		reasons = append(reasons, fmt.Sprintf("From preferred decade (%s)", decade))
		signals++
	}

	if matchesPreferredGenres(track, signature) {
		score += genreMatchWeight
		reasons = append(reasons, "Contains preferred genre keywords")
		signals++
	}

	// Близость по популярности не дает текста причины
	score += popularityProximity(track.Popularity, signature.PopularityBand.Average) * popularityWeight

	// Совпадение по нескольким сигналам сразу надежнее любого одиночного
	if signals >= 2 {
		score += multiSignalBonus
	}

	if score > maxCandidateScore {
		score = maxCandidateScore
	}
	if len(reasons) > maxReasonsPerTrack {
		reasons = reasons[:maxReasonsPerTrack]
	}

	return model.ScoredCandidate{
		Track:   track,
		Score:   score,
		Reasons: reasons,
	}
}

// popularityProximity возвращает близость популярности трека к средней
// популярности профиля в [0,1]
func popularityProximity(popularity int, average float64) float64 {
	delta := float64(popularity) - average
	if delta < 0 {
		delta = -delta
	}
	proximity := 1 - delta/100
	if proximity < 0 {
		proximity = 0
	}
	return proximity
}

// matchesPreferredGenres проверяет, содержит ли текст трека название
// одного из жанров сигнатуры. Эвристика по подстроке намеренно неточная:
// трек "Rockstar" поп-исполнителя пройдет проверку по жанру Rock.
func matchesPreferredGenres(track model.Track, signature model.TasteSignature) bool {
	if len(signature.InferredGenres) == 0 {
		return false
	}

	var text strings.Builder
	text.WriteString(strings.ToLower(track.Title))
	for _, artist := range track.Artists {
		text.WriteString(" ")
		text.WriteString(strings.ToLower(artist.Name))
	}
	haystack := text.String()

	for _, genre := range signature.InferredGenres {
		if genre == "" {
			continue
		}
		if strings.Contains(haystack, strings.ToLower(genre)) {
			return true
		}
	}
	return false
}

// RankCandidates оценивает все треки и сортирует по убыванию оценки.
// Сортировка стабильна: при равных оценках сохраняется порядок каталога.
func RankCandidates(tracks []model.Track, signature model.TasteSignature) []model.ScoredCandidate {
	scored := make([]model.ScoredCandidate, 0, len(tracks))
	for _, track := range tracks {
		scored = append(scored, ScoreCandidate(track, signature))
	}
	sort.SliceStable(scored, func(i, j int) bool {
		return scored[i].Score > scored[j].Score
	})
	return scored
}
