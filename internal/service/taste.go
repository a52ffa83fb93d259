// Package service содержит бизнес-логику приложения.
package service

import (
	"context"
	"fmt"
	"strings"

	"lyrafy/internal/model"

	"go.uber.org/zap"
)

// Ограничения профиля вкуса
const (
	maxInferredGenres = 10
	maxInferredMoods  = 5
	maxProfileArtists = 20
)

// genreKeywords отображает подстроки в названии трека или имени исполнителя
// на жанровые метки. Эвристика грубая и намеренно сохранена такой:
// трек "Rockstar" поп-исполнителя попадет в "Rock", это известное ограничение.
var genreKeywords = []struct {
	label    string
	keywords []string
}{
	{"Hip-Hop", []string{"rap", "hip", "hop"}},
	{"Rock", []string{"rock", "metal", "punk"}},
	{"Pop", []string{"pop", "mainstream"}},
	{"Jazz", []string{"jazz", "blues", "soul"}},
	{"Electronic", []string{"electronic", "edm", "techno", "house"}},
	{"Country", []string{"country", "folk", "bluegrass"}},
	{"Classical", []string{"classical", "orchestral", "symphony"}},
	{"Reggae", []string{"reggae", "ska", "dancehall"}},
	{"Indie", []string{"indie", "alternative", "underground"}},
	{"R&B", []string{"r&b", "rnb", "soul"}},
}

// fallbackGenre используется, когда ни одно ключевое слово не совпало
const fallbackGenre = "Pop"

// moodKeywords отображает подстроки в названиях треков на пары меток настроения
var moodKeywords = []struct {
	labels   []string
	keywords []string
}{
	{[]string{"Happy", "Upbeat"}, []string{"happy", "joy", "smile", "dance", "party", "celebration"}},
	{[]string{"Energetic", "Intense"}, []string{"energy", "power", "fire", "rock", "metal", "intense"}},
	{[]string{"Calm", "Relaxed"}, []string{"calm", "peace", "quiet", "chill", "soft", "gentle"}},
	{[]string{"Melancholic", "Sad"}, []string{"sad", "lonely", "tears", "heartbreak", "melancholy", "blue"}},
}

// TasteService строит профили вкуса из истории прослушиваний
type TasteService struct {
	profileRepo model.TasteProfileRepository
	minTracks   int
	logger      *zap.Logger
}

// NewTasteService создает новый сервис анализа вкуса
func NewTasteService(profileRepo model.TasteProfileRepository, minTracks int, logger *zap.Logger) *TasteService {
	return &TasteService{
		profileRepo: profileRepo,
		minTracks:   minTracks,
		logger:      logger,
	}
}

// Profile строит вкусовую сигнатуру из набора треков.
// Чистая функция входных метаданных: без каталога, без базы, без случайности.
func (s *TasteService) Profile(tracks []model.Track) (model.TasteSignature, error) {
	if len(tracks) == 0 {
		return model.TasteSignature{}, model.ErrInsufficientData
	}

	return model.TasteSignature{
		InferredGenres:  inferGenres(tracks),
		InferredMoods:   inferMoods(tracks),
		DecadeHistogram: decadeHistogram(tracks),
		PopularityBand:  popularityBand(tracks),
		ArtistSet:       collectArtists(tracks),
	}, nil
}

// Analyze строит сигнатуру и сохраняет ее как профиль пользователя
func (s *TasteService) Analyze(ctx context.Context, userID string, tracks []model.Track) (*model.TasteProfile, error) {
	if userID == "" {
		return nil, fmt.Errorf("user_id is required")
	}
	if len(tracks) < s.minTracks {
		s.logger.Info("Not enough tracks for taste analysis",
			zap.String("user_id", userID),
			zap.Int("tracks", len(tracks)),
			zap.Int("min_tracks", s.minTracks))
		return nil, model.ErrInsufficientData
	}

	signature, err := s.Profile(tracks)
	if err != nil {
		return nil, err
	}

	profile := &model.TasteProfile{
		UserID:     userID,
		Confidence: 0.7, // начальная уверенность до накопления реакций
	}
	profile.ApplySignature(signature)

	if err := s.profileRepo.Upsert(profile); err != nil {
		return nil, fmt.Errorf("failed to store taste profile: %w", err)
	}

	s.logger.Info("Taste profile created",
		zap.String("user_id", userID),
		zap.Int("tracks_analyzed", len(tracks)),
		zap.Strings("genres", signature.InferredGenres),
		zap.Strings("moods", signature.InferredMoods))

	return profile, nil
}

// GetProfile возвращает сохраненный профиль пользователя
func (s *TasteService) GetProfile(userID string) (*model.TasteProfile, error) {
	profile, err := s.profileRepo.GetByUserID(userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load taste profile: %w", err)
	}
	if profile == nil {
		return nil, model.ErrProfileNotFound
	}
	return profile, nil
}

// inferGenres выводит жанровые метки из названий треков и имен исполнителей.
// Частоты агрегируются по всем трекам, возвращается топ по убыванию частоты;
// при равенстве частот сохраняется порядок первого появления (стабильная сортировка).
func inferGenres(tracks []model.Track) []string {
	counts := map[string]int{}
	var order []string

	for _, track := range tracks {
		for _, label := range trackGenres(track) {
			if counts[label] == 0 {
				order = append(order, label)
			}
			counts[label]++
		}
	}

	ranked := rankByCount(order, counts)
	if len(ranked) > maxInferredGenres {
		ranked = ranked[:maxInferredGenres]
	}
	return ranked
}

// trackGenres возвращает жанровые метки одного трека.
// Трек без совпадений получает жанр по умолчанию.
func trackGenres(track model.Track) []string {
	var text strings.Builder
	text.WriteString(strings.ToLower(track.Title))
	for _, artist := range track.Artists {
		text.WriteString(" ")
		text.WriteString(strings.ToLower(artist.Name))
	}
	allText := text.String()

	var labels []string
	for _, entry := range genreKeywords {
		for _, keyword := range entry.keywords {
			if strings.Contains(allText, keyword) {
				labels = append(labels, entry.label)
				break
			}
		}
	}

	if len(labels) == 0 {
		labels = append(labels, fallbackGenre)
	}

	return labels
}

// inferMoods определяет метки настроения по тексту названий треков
// и по общей полосе популярности
func inferMoods(tracks []model.Track) []string {
	titles := make([]string, 0, len(tracks))
	for _, track := range tracks {
		titles = append(titles, strings.ToLower(track.Title))
	}
	allText := strings.Join(titles, " ")

	var moods []string
	for _, entry := range moodKeywords {
		for _, keyword := range entry.keywords {
			if strings.Contains(allText, keyword) {
				moods = append(moods, entry.labels...)
				break
			}
		}
	}

	// Настроения по умолчанию на основе средней популярности
	band := popularityBand(tracks)
	switch {
	case band.Average > 70:
		moods = append(moods, "Popular", "Mainstream")
	case band.Average > 40:
		moods = append(moods, "Moderate", "Balanced")
	default:
		moods = append(moods, "Underground", "Alternative")
	}

	if len(moods) == 0 {
		moods = append(moods, "Diverse", "Mixed")
	}

	moods = dedupeStrings(moods)
	if len(moods) > maxInferredMoods {
		moods = moods[:maxInferredMoods]
	}
	return moods
}

// decadeHistogram строит гистограмму десятилетий выпуска.
// Треки с нечитаемой датой пропускаются, профиль из-за них не ломается.
func decadeHistogram(tracks []model.Track) map[string]int {
	histogram := map[string]int{}
	for _, track := range tracks {
		if decade, ok := track.Decade(); ok {
			histogram[decade]++
		}
	}
	return histogram
}

// popularityBand агрегирует min/max/среднее популярности.
// Значения вне каталожного диапазона [0,100] игнорируются;
// если валидных значений нет, возвращаются нули.
func popularityBand(tracks []model.Track) model.FeatureBand {
	var sum float64
	var count int
	band := model.FeatureBand{}

	for _, track := range tracks {
		value := float64(track.Popularity)
		if value < 0 || value > 100 {
			continue
		}
		if count == 0 {
			band.Min = value
			band.Max = value
		} else {
			if value < band.Min {
				band.Min = value
			}
			if value > band.Max {
				band.Max = value
			}
		}
		sum += value
		count++
	}

	if count == 0 {
		return model.FeatureBand{}
	}

	band.Average = sum / float64(count)
	return band
}

// collectArtists собирает уникальные имена исполнителей в порядке появления
func collectArtists(tracks []model.Track) []string {
	seen := map[string]struct{}{}
	var artists []string

	for _, track := range tracks {
		for _, artist := range track.Artists {
			if artist.Name == "" {
				continue
			}
			key := strings.ToLower(artist.Name)
			if _, ok := seen[key]; ok {
				continue
			}
			seen[key] = struct{}{}
			artists = append(artists, artist.Name)
			if len(artists) >= maxProfileArtists {
				return artists
			}
		}
	}

	return artists
}

// rankByCount сортирует метки по убыванию частоты, сохраняя
// порядок первого появления при равных частотах
func rankByCount(order []string, counts map[string]int) []string {
	ranked := make([]string, len(order))
	copy(ranked, order)

	// Вставочная сортировка стабильна и достаточна для коротких списков меток
	for i := 1; i < len(ranked); i++ {
		for j := i; j > 0 && counts[ranked[j]] > counts[ranked[j-1]]; j-- {
			ranked[j], ranked[j-1] = ranked[j-1], ranked[j]
		}
	}

	return ranked
}

// dedupeStrings удаляет повторы, сохраняя порядок первого появления
func dedupeStrings(values []string) []string {
	seen := map[string]struct{}{}
	result := make([]string, 0, len(values))
	for _, value := range values {
		if _, ok := seen[value]; ok {
			continue
		}
		seen[value] = struct{}{}
		result = append(result, value)
	}
	return result
}
