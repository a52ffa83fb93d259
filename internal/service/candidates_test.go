package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"lyrafy/internal/model"

	"go.uber.org/zap"
)

// fakeCatalog отвечает заранее заданными треками на каждый запрос
type fakeCatalog struct {
	responses map[string][]model.Track
	fallback  []model.Track
	queries   []string
	err       error
}

func (c *fakeCatalog) SearchTracks(ctx context.Context, query string, limit int) ([]model.Track, error) {
	c.queries = append(c.queries, query)
	if c.err != nil {
		return nil, c.err
	}
	if tracks, ok := c.responses[query]; ok {
		if len(tracks) > limit {
			return tracks[:limit], nil
		}
		return tracks, nil
	}
	if len(c.fallback) > limit {
		return c.fallback[:limit], nil
	}
	return c.fallback, nil
}

func TestCandidateGenerator_FromSignature(t *testing.T) {
	catalog := &fakeCatalog{
		responses: map[string][]model.Track{
			"rock music": {
				makeTrack("r1", "Rock One", "Granite", 60, "2001"),
				makeTrack("r2", "Rock Two", "Granite", 55, "2002"),
			},
			"artist:Granite": {
				makeTrack("r1", "Rock One", "Granite", 60, "2001"), // дубль
				makeTrack("r3", "Deep Cut", "Granite", 30, "1999"),
			},
		},
	}
	generator := NewCandidateGenerator(catalog, 30, 1, 300, zap.NewNop())

	signature := model.TasteSignature{
		InferredGenres: []string{"Rock"},
		ArtistSet:      []string{"Granite"},
	}

	candidates, err := generator.FromSignature(context.Background(), signature, nil)
	if err != nil {
		t.Fatalf("FromSignature() failed: %v", err)
	}

	if len(candidates) != 3 {
		t.Fatalf("Expected 3 unique candidates, got %d", len(candidates))
	}
	seen := map[string]bool{}
	for _, track := range candidates {
		if seen[track.ID] {
			t.Errorf("Duplicate candidate id %q", track.ID)
		}
		seen[track.ID] = true
	}
}

func TestCandidateGenerator_ExclusionSet(t *testing.T) {
	catalog := &fakeCatalog{
		responses: map[string][]model.Track{
			"rock music": {
				makeTrack("r1", "Rock One", "Granite", 60, "2001"),
				makeTrack("r2", "Rock Two", "Granite", 55, "2002"),
			},
		},
	}
	generator := NewCandidateGenerator(catalog, 30, 1, 300, zap.NewNop())

	signature := model.TasteSignature{InferredGenres: []string{"Rock"}}
	exclude := map[string]struct{}{"r1": {}}

	candidates, err := generator.FromSignature(context.Background(), signature, exclude)
	if err != nil {
		t.Fatalf("FromSignature() failed: %v", err)
	}

	for _, track := range candidates {
		if track.ID == "r1" {
			t.Errorf("Excluded track r1 appeared in candidates")
		}
	}
}

func TestCandidateGenerator_AllExcluded(t *testing.T) {
	catalog := &fakeCatalog{
		responses: map[string][]model.Track{
			"rock music":   {makeTrack("r1", "Rock One", "Granite", 60, "2001")},
			"popular rock": {makeTrack("r1", "Rock One", "Granite", 60, "2001")},
		},
	}
	generator := NewCandidateGenerator(catalog, 30, 20, 300, zap.NewNop())

	signature := model.TasteSignature{InferredGenres: []string{"Rock"}}
	exclude := map[string]struct{}{"r1": {}}

	candidates, err := generator.FromSignature(context.Background(), signature, exclude)
	if err != nil {
		t.Fatalf("Expected no error for empty yield, got %v", err)
	}
	if len(candidates) != 0 {
		t.Errorf("Expected empty candidate pool, got %d", len(candidates))
	}
}

func TestCandidateGenerator_Escalation(t *testing.T) {
	catalog := &fakeCatalog{
		responses: map[string][]model.Track{
			"rock music":   {makeTrack("r1", "Rock One", "Granite", 60, "2001")},
			"popular rock": {makeTrack("p1", "Popular Rock", "Famous", 90, "2020")},
		},
	}
	generator := NewCandidateGenerator(catalog, 30, 20, 300, zap.NewNop())

	signature := model.TasteSignature{InferredGenres: []string{"Rock"}}

	candidates, err := generator.FromSignature(context.Background(), signature, nil)
	if err != nil {
		t.Fatalf("FromSignature() failed: %v", err)
	}

	escalated := false
	for _, query := range catalog.queries {
		if query == "popular rock" {
			escalated = true
		}
	}
	if !escalated {
		t.Errorf("Expected escalation query, got %v", catalog.queries)
	}
	if len(candidates) != 2 {
		t.Errorf("Expected escalation results merged, got %d candidates", len(candidates))
	}
}

func TestCandidateGenerator_SkipsFailedQueries(t *testing.T) {
	calls := 0
	catalog := &selectiveFailCatalog{failOn: "rock music", calls: &calls}
	generator := NewCandidateGenerator(catalog, 30, 1, 300, zap.NewNop())

	signature := model.TasteSignature{
		InferredGenres: []string{"Rock"},
		ArtistSet:      []string{"Granite"},
	}

	candidates, err := generator.FromSignature(context.Background(), signature, nil)
	if err != nil {
		t.Fatalf("Expected partial failure to be tolerated, got %v", err)
	}
	if len(candidates) == 0 {
		t.Errorf("Expected candidates from surviving queries")
	}
}

func TestCandidateGenerator_AllQueriesFailed(t *testing.T) {
	// Полный отказ каталога вырождается в пустой список, а не в ошибку:
	// "ничего не найдено" остается валидным отображаемым состоянием
	catalog := &fakeCatalog{err: errors.New("catalog down")}
	generator := NewCandidateGenerator(catalog, 30, 1, 300, zap.NewNop())

	signature := model.TasteSignature{InferredGenres: []string{"Rock"}}

	candidates, err := generator.FromSignature(context.Background(), signature, nil)
	if err != nil {
		t.Fatalf("Expected empty result for total catalog failure, got error: %v", err)
	}
	if len(candidates) != 0 {
		t.Errorf("Expected no candidates, got %d", len(candidates))
	}
}

func TestCandidateGenerator_CandidateCap(t *testing.T) {
	var tracks []model.Track
	for i := 0; i < 50; i++ {
		tracks = append(tracks, makeTrack(fmt.Sprintf("id-%d", i), fmt.Sprintf("Track %d", i), "Artist", 50, "2020"))
	}
	catalog := &fakeCatalog{fallback: tracks}
	generator := NewCandidateGenerator(catalog, 50, 1, 10, zap.NewNop())

	signature := model.TasteSignature{InferredGenres: []string{"Rock", "Pop"}}

	candidates, err := generator.FromSignature(context.Background(), signature, nil)
	if err != nil {
		t.Fatalf("FromSignature() failed: %v", err)
	}
	if len(candidates) != 10 {
		t.Errorf("Expected candidate cap of 10, got %d", len(candidates))
	}
}

func TestCandidateGenerator_FromVibe(t *testing.T) {
	catalog := &fakeCatalog{
		responses: map[string][]model.Track{
			"chill music": {makeTrack("c1", "Chill One", "Calm", 40, "2021")},
			"chill hits":  {makeTrack("c2", "Chill Two", "Calm", 45, "2022")},
		},
	}
	generator := NewCandidateGenerator(catalog, 30, 1, 300, zap.NewNop())

	vibe := model.VibeMode{ID: "chill", Name: "Chill", QueryHints: []string{"chill"}}

	candidates, err := generator.FromVibe(context.Background(), vibe, nil)
	if err != nil {
		t.Fatalf("FromVibe() failed: %v", err)
	}
	if len(candidates) != 2 {
		t.Errorf("Expected 2 candidates, got %d", len(candidates))
	}

	sawTemplate := false
	sawArtist := false
	for _, query := range catalog.queries {
		if query == "trending chill" {
			sawTemplate = true
		}
		if strings.HasPrefix(query, "artist:") {
			sawArtist = true
		}
	}
	if !sawTemplate {
		t.Errorf("Expected vibe template queries, got %v", catalog.queries)
	}
	if !sawArtist {
		t.Errorf("Expected popular artist queries, got %v", catalog.queries)
	}
}

// selectiveFailCatalog отказывает только на одном запросе
type selectiveFailCatalog struct {
	failOn string
	calls  *int
}

func (c *selectiveFailCatalog) SearchTracks(ctx context.Context, query string, limit int) ([]model.Track, error) {
	*c.calls++
	if query == c.failOn {
		return nil, errors.New("catalog timeout")
	}
	return []model.Track{makeTrack("ok-"+query, "Track "+query, "Artist", 50, "2020")}, nil
}
