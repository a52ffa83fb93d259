package service

import (
	"lyrafy/internal/model"
)

// DedupeBy удаляет дубликаты по произвольному ключу,
// сохраняя первое вхождение и порядок остальных
func DedupeBy[T any](items []T, key func(T) string) []T {
	seen := map[string]struct{}{}
	result := make([]T, 0, len(items))
	for _, item := range items {
		k := key(item)
		if _, ok := seen[k]; ok {
			continue
		}
		seen[k] = struct{}{}
		result = append(result, item)
	}
	return result
}

// DedupeTracks схлопывает треки с одинаковым нормализованным названием.
// "Hello" и "hello " считаются одним треком, выживает первый по порядку.
func DedupeTracks(tracks []model.Track) []model.Track {
	return DedupeBy(tracks, func(t model.Track) string {
		return model.NormalizeKey(t.Title)
	})
}

// DedupeCandidates выполняет двухступенчатую дедупликацию ранжированных
// кандидатов: сначала по идентификатору каталога, затем по нормализованному
// названию. На отсортированном по убыванию оценки входе выживает
// наиболее похожий представитель каждого дубля.
func DedupeCandidates(candidates []model.ScoredCandidate) []model.ScoredCandidate {
	byID := DedupeBy(candidates, func(c model.ScoredCandidate) string {
		return c.Track.ID
	})
	return DedupeBy(byID, func(c model.ScoredCandidate) string {
		return model.NormalizeKey(c.Track.Title)
	})
}
