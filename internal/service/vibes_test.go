package service

import (
	"strings"
	"testing"

	"lyrafy/internal/model"

	"go.uber.org/zap"
)

func TestVibeService_Presets(t *testing.T) {
	svc := NewVibeService(NewTasteService(newFakeProfileRepo(), 10, zap.NewNop()), zap.NewNop())

	presets := svc.Presets()
	if len(presets) == 0 {
		t.Fatalf("Expected preset vibes")
	}

	seen := map[string]bool{}
	for _, preset := range presets {
		if preset.ID == "" || preset.Name == "" {
			t.Errorf("Preset missing id or name: %+v", preset)
		}
		if len(preset.QueryHints) == 0 {
			t.Errorf("Preset %q has no query hints", preset.ID)
		}
		if seen[preset.ID] {
			t.Errorf("Duplicate preset id %q", preset.ID)
		}
		seen[preset.ID] = true
	}

	// Возвращаемый срез не должен давать доступ к общему состоянию
	presets[0].Name = "Mutated"
	if svc.Presets()[0].Name == "Mutated" {
		t.Errorf("Presets() leaked internal state")
	}
}

func TestVibeService_CustomVibe(t *testing.T) {
	svc := NewVibeService(NewTasteService(newFakeProfileRepo(), 10, zap.NewNop()), zap.NewNop())

	vibe := svc.CustomVibe("late night coding")

	if vibe.ID != "custom" {
		t.Errorf("Expected custom id, got %q", vibe.ID)
	}
	if vibe.Name != "Late Night Coding" {
		t.Errorf("Expected title-cased name, got %q", vibe.Name)
	}
	if len(vibe.QueryHints) != 1 || vibe.QueryHints[0] != "late night coding" {
		t.Errorf("Expected lowercased query hint, got %v", vibe.QueryHints)
	}
}

func TestVibeService_CustomVibe_Empty(t *testing.T) {
	svc := NewVibeService(NewTasteService(newFakeProfileRepo(), 10, zap.NewNop()), zap.NewNop())

	vibe := svc.CustomVibe("   ")
	if vibe.ID == "custom" {
		t.Errorf("Expected preset fallback for blank text, got %+v", vibe)
	}
}

func TestVibeService_GenerateName_WithProfile(t *testing.T) {
	repo := newFakeProfileRepo()
	profile := &model.TasteProfile{UserID: "user-1"}
	profile.ApplySignature(model.TasteSignature{
		InferredGenres: []string{"Rock", "Jazz"},
		InferredMoods:  []string{"Energetic", "Intense"},
		PopularityBand: model.FeatureBand{Min: 60, Max: 95, Average: 82},
	})
	repo.profiles["user-1"] = profile

	svc := NewVibeService(NewTasteService(repo, 10, zap.NewNop()), zap.NewNop())

	name := svc.GenerateName("user-1")
	if name != "High Energy Energetic Rock" {
		t.Errorf("Expected profile-derived name, got %q", name)
	}
}

func TestVibeService_GenerateName_WithoutProfile(t *testing.T) {
	svc := NewVibeService(NewTasteService(newFakeProfileRepo(), 10, zap.NewNop()), zap.NewNop())

	name := svc.GenerateName("missing")
	if strings.TrimSpace(name) == "" {
		t.Errorf("Expected a random fallback name")
	}

	found := false
	for _, candidate := range randomVibeNames {
		if candidate == name {
			found = true
			break
		}
	}
	if !found {
		t.Errorf("Expected name from the fallback list, got %q", name)
	}
}
