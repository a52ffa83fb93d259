package service

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"lyrafy/internal/model"
	"lyrafy/internal/worker"

	"go.uber.org/zap"
)

// Лимит выдачи резервного каталога на один запрос сверки
const reconcileQueryLimit = 3

// PreviewReconciler досылает недостающие превью из резервного каталога.
// Основной каталог больше не отдает preview_url для большинства треков,
// поэтому превью ищутся в Deezer по связке "название исполнитель".
type PreviewReconciler struct {
	fallback CatalogSearcher
	pool     worker.PoolInterface
	logger   *zap.Logger
}

// NewPreviewReconciler создает новый сверщик превью
func NewPreviewReconciler(fallback CatalogSearcher, pool worker.PoolInterface, logger *zap.Logger) *PreviewReconciler {
	return &PreviewReconciler{
		fallback: fallback,
		pool:     pool,
		logger:   logger,
	}
}

// Reconcile возвращает трек с заполненным превью, если его удалось найти.
// Трек с уже имеющимся превью возвращается как есть. Из найденного
// соответствия переносится только адрес превью, метаданные основного
// каталога остаются нетронутыми.
func (r *PreviewReconciler) Reconcile(ctx context.Context, track model.Track) (model.Track, bool) {
	if track.HasPreview() {
		return track, true
	}

	query := fmt.Sprintf("%s %s", track.Title, track.PrimaryArtist())
	matches, err := r.fallback.SearchTracks(ctx, query, reconcileQueryLimit)
	if err != nil {
		r.logger.Warn("Fallback catalog lookup failed",
			zap.String("track_id", track.ID),
			zap.String("query", query),
			zap.Error(err))
		return track, false
	}

	for _, match := range matches {
		if match.PreviewURL == "" {
			continue
		}
		if !sameTrack(track, match) {
			continue
		}
		track.PreviewURL = match.PreviewURL
		return track, true
	}

	return track, false
}

// ReconcileAll сверяет кандидатов через пул воркеров и возвращает копию
// среза с заполненными превью. onResolved вызывается по мере нахождения
// каждого превью, что позволяет отдавать результаты инкрементально.
// При отмене контекста уже найденные превью сохраняются, остальные
// кандидаты возвращаются без изменений.
func (r *PreviewReconciler) ReconcileAll(ctx context.Context, candidates []model.ScoredCandidate, onResolved func(index int, track model.Track)) []model.ScoredCandidate {
	result := make([]model.ScoredCandidate, len(candidates))
	copy(result, candidates)

	var mu sync.Mutex
	var wg sync.WaitGroup
	cancelled := false

	for i := range result {
		if result[i].Track.HasPreview() {
			continue
		}

		index := i
		track := result[i].Track

		wg.Add(1)
		job := worker.Job{
			TrackID: track.ID,
			Handler: func() error {
				defer wg.Done()

				resolved, ok := r.Reconcile(ctx, track)
				if !ok {
					return nil
				}

				mu.Lock()
				if cancelled {
					mu.Unlock()
					return nil
				}
				result[index].Track = resolved
				mu.Unlock()

				if onResolved != nil {
					onResolved(index, resolved)
				}
				return nil
			},
		}

		if err := r.pool.Submit(job); err != nil {
			wg.Done()
			r.logger.Warn("Failed to submit preview job",
				zap.String("track_id", track.ID),
				zap.Error(err))
		}
	}

	done := make(chan struct{})
	go func() {
		wg.Wait()
		close(done)
	}()

	select {
	case <-done:
	case <-ctx.Done():
		mu.Lock()
		cancelled = true
		mu.Unlock()
		r.logger.Info("Preview reconciliation cancelled",
			zap.Error(ctx.Err()))
	}

	mu.Lock()
	defer mu.Unlock()
	snapshot := make([]model.ScoredCandidate, len(result))
	copy(snapshot, result)
	return snapshot
}

// sameTrack проверяет, что трек резервного каталога соответствует исходному.
// Сравниваются только нормализованные названия, совпадением считается
// вхождение в любую сторону. Имя исполнителя уже сужает выдачу через
// поисковый запрос; дополнительная проверка по нему отбрасывала бы
// валидные совпадения с вариантами написания имени между каталогами.
func sameTrack(original, candidate model.Track) bool {
	return looseMatch(original.Title, candidate.Title)
}

func looseMatch(a, b string) bool {
	na := model.NormalizeKey(a)
	nb := model.NormalizeKey(b)
	if na == "" || nb == "" {
		return false
	}
	return strings.Contains(na, nb) || strings.Contains(nb, na)
}
