package service

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"lyrafy/internal/model"

	"go.uber.org/zap"
)

// fakeProfileRepo хранит профили в памяти
type fakeProfileRepo struct {
	profiles map[string]*model.TasteProfile
	failing  bool
}

func newFakeProfileRepo() *fakeProfileRepo {
	return &fakeProfileRepo{profiles: map[string]*model.TasteProfile{}}
}

func (r *fakeProfileRepo) GetByUserID(userID string) (*model.TasteProfile, error) {
	if r.failing {
		return nil, errors.New("storage unavailable")
	}
	return r.profiles[userID], nil
}

func (r *fakeProfileRepo) Upsert(profile *model.TasteProfile) error {
	if r.failing {
		return errors.New("storage unavailable")
	}
	r.profiles[profile.UserID] = profile
	return nil
}

func (r *fakeProfileRepo) IncrementInteractions(userID string) (*model.TasteProfile, error) {
	if r.failing {
		return nil, errors.New("storage unavailable")
	}
	profile, ok := r.profiles[userID]
	if !ok {
		return nil, nil
	}
	profile.TotalInteractions++
	return profile, nil
}

func (r *fakeProfileRepo) UpdateConfidence(userID string, confidence float64) error {
	if r.failing {
		return errors.New("storage unavailable")
	}
	if profile, ok := r.profiles[userID]; ok {
		profile.Confidence = confidence
	}
	return nil
}

func makeTrack(id, title, artist string, popularity int, releaseDate string) model.Track {
	return model.Track{
		ID:         id,
		Title:      title,
		Artists:    []model.Artist{{ID: id + "-a", Name: artist}},
		Album:      model.Album{ReleaseDate: releaseDate},
		Popularity: popularity,
	}
}

func TestTasteService_Profile_EmptyInput(t *testing.T) {
	svc := NewTasteService(newFakeProfileRepo(), 10, zap.NewNop())

	_, err := svc.Profile(nil)
	if !errors.Is(err, model.ErrInsufficientData) {
		t.Errorf("Expected ErrInsufficientData, got %v", err)
	}
}

func TestTasteService_Profile_GenreInference(t *testing.T) {
	svc := NewTasteService(newFakeProfileRepo(), 10, zap.NewNop())

	tracks := []model.Track{
		makeTrack("1", "Rock Anthem", "Granite", 50, "2001"),
		makeTrack("2", "Stadium Rock", "Granite", 55, "2003"),
		makeTrack("3", "Smooth Jazz Night", "Velvet Quartet", 40, "1995"),
		makeTrack("4", "Quiet Evening", "Unknown", 30, "2010"),
	}

	signature, err := svc.Profile(tracks)
	if err != nil {
		t.Fatalf("Profile() failed: %v", err)
	}

	if len(signature.InferredGenres) == 0 {
		t.Fatalf("Expected inferred genres, got none")
	}
	if signature.InferredGenres[0] != "Rock" {
		t.Errorf("Expected Rock to rank first, got %q", signature.InferredGenres[0])
	}

	found := map[string]bool{}
	for _, genre := range signature.InferredGenres {
		found[genre] = true
	}
	if !found["Jazz"] {
		t.Errorf("Expected Jazz among inferred genres: %v", signature.InferredGenres)
	}
	if !found["Pop"] {
		t.Errorf("Expected fallback Pop for unmatched track: %v", signature.InferredGenres)
	}
}

func TestTasteService_Profile_GenreCountedOncePerTrack(t *testing.T) {
	svc := NewTasteService(newFakeProfileRepo(), 10, zap.NewNop())

	// Название и исполнитель оба содержат "rock": жанр засчитывается один раз
	tracks := []model.Track{
		makeTrack("1", "Rock Ballad", "Rocket Rock Band", 50, "2001"),
		makeTrack("2", "Jazz One", "Quartet", 40, "1995"),
		makeTrack("3", "Jazz Two", "Quartet", 40, "1996"),
	}

	signature, err := svc.Profile(tracks)
	if err != nil {
		t.Fatalf("Profile() failed: %v", err)
	}

	if signature.InferredGenres[0] != "Jazz" {
		t.Errorf("Expected Jazz (2 tracks) to outrank Rock (1 track), got %v", signature.InferredGenres)
	}
}

func TestTasteService_Profile_Moods(t *testing.T) {
	svc := NewTasteService(newFakeProfileRepo(), 10, zap.NewNop())

	tracks := []model.Track{
		makeTrack("1", "Party All Night", "DJ One", 90, "2022"),
		makeTrack("2", "Dance Floor", "DJ Two", 85, "2023"),
	}

	signature, err := svc.Profile(tracks)
	if err != nil {
		t.Fatalf("Profile() failed: %v", err)
	}

	found := map[string]bool{}
	for _, mood := range signature.InferredMoods {
		found[mood] = true
	}
	if !found["Happy"] || !found["Upbeat"] {
		t.Errorf("Expected Happy/Upbeat moods, got %v", signature.InferredMoods)
	}
	if !found["Popular"] {
		t.Errorf("Expected Popular mood for high average popularity, got %v", signature.InferredMoods)
	}
	if len(signature.InferredMoods) > 5 {
		t.Errorf("Expected at most 5 moods, got %d", len(signature.InferredMoods))
	}
}

func TestTasteService_Profile_PopularityBand(t *testing.T) {
	svc := NewTasteService(newFakeProfileRepo(), 10, zap.NewNop())

	tracks := []model.Track{
		makeTrack("1", "One", "A", 20, "2001"),
		makeTrack("2", "Two", "B", 80, "2002"),
		makeTrack("3", "Three", "C", 150, "2003"), // вне диапазона, игнорируется
	}

	signature, err := svc.Profile(tracks)
	if err != nil {
		t.Fatalf("Profile() failed: %v", err)
	}

	band := signature.PopularityBand
	if band.Min != 20 || band.Max != 80 {
		t.Errorf("Expected band [20,80], got [%v,%v]", band.Min, band.Max)
	}
	if band.Average != 50 {
		t.Errorf("Expected average 50, got %v", band.Average)
	}
}

func TestTasteService_Profile_DecadeHistogram(t *testing.T) {
	svc := NewTasteService(newFakeProfileRepo(), 10, zap.NewNop())

	tracks := []model.Track{
		makeTrack("1", "One", "A", 50, "1994-06-01"),
		makeTrack("2", "Two", "B", 50, "1999"),
		makeTrack("3", "Three", "C", 50, "2021-01-01"),
		makeTrack("4", "Four", "D", 50, ""), // без даты, пропускается
	}

	signature, err := svc.Profile(tracks)
	if err != nil {
		t.Fatalf("Profile() failed: %v", err)
	}

	if signature.DecadeHistogram["1990s"] != 2 {
		t.Errorf("Expected 2 tracks in 1990s, got %d", signature.DecadeHistogram["1990s"])
	}
	if signature.DecadeHistogram["2020s"] != 1 {
		t.Errorf("Expected 1 track in 2020s, got %d", signature.DecadeHistogram["2020s"])
	}
	if len(signature.DecadeHistogram) != 2 {
		t.Errorf("Expected 2 decades, got %v", signature.DecadeHistogram)
	}
}

func TestTasteService_Profile_ArtistCap(t *testing.T) {
	svc := NewTasteService(newFakeProfileRepo(), 10, zap.NewNop())

	var tracks []model.Track
	for i := 0; i < 30; i++ {
		tracks = append(tracks, makeTrack(
			fmt.Sprintf("id-%d", i),
			fmt.Sprintf("Track %d", i),
			fmt.Sprintf("Artist %d", i),
			50, "2020"))
	}

	signature, err := svc.Profile(tracks)
	if err != nil {
		t.Fatalf("Profile() failed: %v", err)
	}

	if len(signature.ArtistSet) != maxProfileArtists {
		t.Errorf("Expected %d artists, got %d", maxProfileArtists, len(signature.ArtistSet))
	}
	if signature.ArtistSet[0] != "Artist 0" {
		t.Errorf("Expected insertion order to be preserved, got %q first", signature.ArtistSet[0])
	}
}

func TestTasteService_Analyze(t *testing.T) {
	repo := newFakeProfileRepo()
	svc := NewTasteService(repo, 3, zap.NewNop())
	ctx := context.Background()

	tracks := []model.Track{
		makeTrack("1", "Rock One", "Granite", 60, "2001"),
		makeTrack("2", "Rock Two", "Granite", 70, "2002"),
		makeTrack("3", "Jazz Night", "Velvet", 40, "1995"),
	}

	profile, err := svc.Analyze(ctx, "user-1", tracks)
	if err != nil {
		t.Fatalf("Analyze() failed: %v", err)
	}
	if profile.Confidence != 0.7 {
		t.Errorf("Expected initial confidence 0.7, got %v", profile.Confidence)
	}

	stored, err := svc.GetProfile("user-1")
	if err != nil {
		t.Fatalf("GetProfile() failed: %v", err)
	}
	if stored.UserID != "user-1" {
		t.Errorf("Expected stored profile for user-1, got %q", stored.UserID)
	}
}

func TestTasteService_Analyze_TooFewTracks(t *testing.T) {
	svc := NewTasteService(newFakeProfileRepo(), 10, zap.NewNop())

	tracks := []model.Track{makeTrack("1", "Only One", "Solo", 50, "2020")}

	_, err := svc.Analyze(context.Background(), "user-1", tracks)
	if !errors.Is(err, model.ErrInsufficientData) {
		t.Errorf("Expected ErrInsufficientData, got %v", err)
	}
}

func TestTasteService_GetProfile_NotFound(t *testing.T) {
	svc := NewTasteService(newFakeProfileRepo(), 10, zap.NewNop())

	_, err := svc.GetProfile("missing")
	if !errors.Is(err, model.ErrProfileNotFound) {
		t.Errorf("Expected ErrProfileNotFound, got %v", err)
	}
}
