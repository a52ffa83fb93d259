package service

import (
	"testing"

	"lyrafy/internal/model"
)

func TestDedupeTracks_NormalizedTitles(t *testing.T) {
	tracks := []model.Track{
		{ID: "1", Title: "Hello"},
		{ID: "2", Title: "hello "},
		{ID: "3", Title: "HELLO"},
		{ID: "4", Title: "Goodbye"},
	}

	unique := DedupeTracks(tracks)

	if len(unique) != 2 {
		t.Fatalf("Expected 2 unique tracks, got %d", len(unique))
	}
	if unique[0].ID != "1" {
		t.Errorf("Expected first occurrence to survive, got %q", unique[0].ID)
	}
	if unique[1].ID != "4" {
		t.Errorf("Expected order preserved, got %q", unique[1].ID)
	}
}

func TestDedupeTracks_Idempotent(t *testing.T) {
	tracks := []model.Track{
		{ID: "1", Title: "One"},
		{ID: "2", Title: "one"},
		{ID: "3", Title: "Two"},
	}

	once := DedupeTracks(tracks)
	twice := DedupeTracks(once)

	if len(once) != len(twice) {
		t.Errorf("Expected dedupe to be idempotent: %d != %d", len(once), len(twice))
	}
}

func TestDedupeCandidates_TwoStage(t *testing.T) {
	candidates := []model.ScoredCandidate{
		{Track: model.Track{ID: "1", Title: "Hit Song"}, Score: 0.9},
		{Track: model.Track{ID: "1", Title: "Hit Song"}, Score: 0.8},  // дубль по id
		{Track: model.Track{ID: "2", Title: "hit song "}, Score: 0.7}, // дубль по названию
		{Track: model.Track{ID: "3", Title: "Another"}, Score: 0.5},
	}

	unique := DedupeCandidates(candidates)

	if len(unique) != 2 {
		t.Fatalf("Expected 2 unique candidates, got %d", len(unique))
	}
	if unique[0].Score != 0.9 {
		t.Errorf("Expected highest-scoring duplicate to survive, got %v", unique[0].Score)
	}
	if unique[1].Track.ID != "3" {
		t.Errorf("Expected second candidate to be %q, got %q", "3", unique[1].Track.ID)
	}
}

func TestDedupeBy_EmptyInput(t *testing.T) {
	unique := DedupeTracks(nil)
	if len(unique) != 0 {
		t.Errorf("Expected empty result for empty input, got %d", len(unique))
	}
}
