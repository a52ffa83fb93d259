package service

import (
	"context"
	"fmt"
	"strings"

	"lyrafy/internal/model"

	"go.uber.org/zap"
)

// vibeQueryTemplates разворачивают одно слово настроения в набор
// поисковых запросов каталога. %s заменяется на термин настроения.
var vibeQueryTemplates = []string{
	"%s music",
	"popular %s",
	"%s hits",
	"trending %s",
	"best %s songs",
	"%s 2024",
	"%s 2023",
	"top %s artists",
}

// popularArtists расширяют выдачу по настроению, когда жанровых запросов мало
var popularArtists = []string{
	"Drake", "Taylor Swift", "The Weeknd", "Bad Bunny", "Ariana Grande",
	"Ed Sheeran", "Billie Eilish", "Post Malone", "Dua Lipa", "Harry Styles",
	"Olivia Rodrigo", "Doja Cat", "Travis Scott", "Lil Baby", "Future",
}

// Лимит выдачи для точечных запросов по исполнителю
const artistQueryLimit = 25

// CandidateGenerator превращает вкусовую сигнатуру или настроение
// в пул треков-кандидатов через поисковые запросы к каталогу
type CandidateGenerator struct {
	catalog       CatalogSearcher
	queryLimit    int
	minCandidates int
	candidateCap  int
	logger        *zap.Logger
}

// NewCandidateGenerator создает новый генератор кандидатов
func NewCandidateGenerator(catalog CatalogSearcher, queryLimit, minCandidates, candidateCap int, logger *zap.Logger) *CandidateGenerator {
	return &CandidateGenerator{
		catalog:       catalog,
		queryLimit:    queryLimit,
		minCandidates: minCandidates,
		candidateCap:  candidateCap,
		logger:        logger,
	}
}

// FromSignature собирает кандидатов по жанрам и исполнителям сигнатуры.
// Треки из exclude не попадают в результат. Если после основных запросов
// кандидатов меньше минимума, пул расширяется запросами "popular <жанр>".
func (g *CandidateGenerator) FromSignature(ctx context.Context, signature model.TasteSignature, exclude map[string]struct{}) ([]model.Track, error) {
	var queries []searchQuery
	for _, genre := range signature.InferredGenres {
		queries = append(queries, searchQuery{text: fmt.Sprintf("%s music", strings.ToLower(genre)), limit: g.queryLimit})
	}
	for _, artist := range signature.ArtistSet {
		queries = append(queries, searchQuery{text: fmt.Sprintf("artist:%s", artist), limit: artistQueryLimit})
	}

	pool, err := g.gather(ctx, queries, exclude)
	if err != nil {
		return nil, err
	}

	// Эскалация: сигнатура могла оказаться слишком узкой
	if len(pool.tracks) < g.minCandidates && len(signature.InferredGenres) > 0 {
		var extra []searchQuery
		for _, genre := range signature.InferredGenres {
			extra = append(extra, searchQuery{text: fmt.Sprintf("popular %s", strings.ToLower(genre)), limit: g.queryLimit})
		}
		g.logger.Info("Escalating candidate search with popular genre queries",
			zap.Int("candidates", len(pool.tracks)),
			zap.Int("min_candidates", g.minCandidates))
		if gatherErr := g.gatherInto(ctx, pool, extra, exclude); gatherErr != nil {
			return nil, gatherErr
		}
	}

	return pool.tracks, nil
}

// FromVibe собирает кандидатов по настроению: шаблонные запросы
// для каждого термина плюс запросы по популярным исполнителям
func (g *CandidateGenerator) FromVibe(ctx context.Context, vibe model.VibeMode, exclude map[string]struct{}) ([]model.Track, error) {
	terms := vibe.QueryHints
	if len(terms) == 0 {
		terms = []string{strings.ToLower(vibe.Name)}
	}

	var queries []searchQuery
	for _, term := range terms {
		for _, template := range vibeQueryTemplates {
			queries = append(queries, searchQuery{text: fmt.Sprintf(template, term), limit: g.queryLimit})
		}
	}
	for _, artist := range popularArtists {
		queries = append(queries, searchQuery{text: fmt.Sprintf("artist:%s", artist), limit: artistQueryLimit})
	}

	pool, err := g.gather(ctx, queries, exclude)
	if err != nil {
		return nil, err
	}
	return pool.tracks, nil
}

// searchQuery описывает один запрос к каталогу
type searchQuery struct {
	text  string
	limit int
}

// candidatePool накапливает уникальные треки до достижения предела
type candidatePool struct {
	tracks []model.Track
	seen   map[string]struct{}
	cap    int
}

func (p *candidatePool) add(track model.Track, exclude map[string]struct{}) bool {
	if len(p.tracks) >= p.cap {
		return false
	}
	if track.ID == "" {
		return true
	}
	if _, ok := exclude[track.ID]; ok {
		return true
	}
	if _, ok := p.seen[track.ID]; ok {
		return true
	}
	p.seen[track.ID] = struct{}{}
	p.tracks = append(p.tracks, track)
	return len(p.tracks) < p.cap
}

// gather выполняет запросы последовательно и накапливает уникальных кандидатов.
// Отказавшие запросы пропускаются. Полная недоступность каталога дает
// пустой пул: нулевая выдача остается валидным отображаемым состоянием.
func (g *CandidateGenerator) gather(ctx context.Context, queries []searchQuery, exclude map[string]struct{}) (*candidatePool, error) {
	pool := &candidatePool{
		seen: map[string]struct{}{},
		cap:  g.candidateCap,
	}
	if err := g.gatherInto(ctx, pool, queries, exclude); err != nil {
		return nil, err
	}
	return pool, nil
}

func (g *CandidateGenerator) gatherInto(ctx context.Context, pool *candidatePool, queries []searchQuery, exclude map[string]struct{}) error {
	var succeeded int

	for _, query := range queries {
		if err := ctx.Err(); err != nil {
			return err
		}
		if len(pool.tracks) >= pool.cap {
			break
		}

		tracks, err := g.catalog.SearchTracks(ctx, query.text, query.limit)
		if err != nil {
			g.logger.Warn("Candidate query failed, skipping",
				zap.String("query", query.text),
				zap.Error(err))
			continue
		}
		succeeded++

		for _, track := range tracks {
			if !pool.add(track, exclude) {
				break
			}
		}
	}

	if succeeded == 0 && len(queries) > 0 {
		g.logger.Warn("All candidate queries failed, returning empty pool",
			zap.Int("queries", len(queries)))
	}
	return nil
}
