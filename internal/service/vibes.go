package service

import (
	"math/rand"
	"strings"

	"lyrafy/internal/model"

	"go.uber.org/zap"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// presetVibes фиксированный набор настроений, доступный без профиля
var presetVibes = []model.VibeMode{
	{
		ID:          "chill",
		Name:        "Chill",
		Emoji:       "🌊",
		Description: "Laid-back tracks for unwinding",
		QueryHints:  []string{"chill", "lofi", "relax"},
		Gradient:    []string{"#74b9ff", "#0984e3"},
	},
	{
		ID:          "energy",
		Name:        "Energy",
		Emoji:       "⚡",
		Description: "High-tempo tracks to get moving",
		QueryHints:  []string{"workout", "energy", "pump up"},
		Gradient:    []string{"#fdcb6e", "#e17055"},
	},
	{
		ID:          "focus",
		Name:        "Focus",
		Emoji:       "🎯",
		Description: "Instrumental and ambient sounds for deep work",
		QueryHints:  []string{"focus", "instrumental", "ambient"},
		Gradient:    []string{"#a29bfe", "#6c5ce7"},
	},
	{
		ID:          "party",
		Name:        "Party",
		Emoji:       "🎉",
		Description: "Dance hits for the whole room",
		QueryHints:  []string{"party", "dance", "club"},
		Gradient:    []string{"#fd79a8", "#e84393"},
	},
	{
		ID:          "melancholy",
		Name:        "Melancholy",
		Emoji:       "🌧",
		Description: "Slow songs for rainy evenings",
		QueryHints:  []string{"sad", "acoustic", "melancholy"},
		Gradient:    []string{"#636e72", "#2d3436"},
	},
	{
		ID:          "throwback",
		Name:        "Throwback",
		Emoji:       "📼",
		Description: "Classics and nostalgia from past decades",
		QueryHints:  []string{"throwback", "classics", "oldies"},
		Gradient:    []string{"#e17055", "#d63031"},
	},
}

// randomVibeNames список случайных названий, когда профиля еще нет
var randomVibeNames = []string{
	"Chill Vibes", "Energy Boost", "Midnight Mood", "Summer Feels",
	"Deep Focus", "Party Mode", "Mellow Gold", "Fresh Finds",
	"Throwback Hour", "Late Night Drive", "Morning Coffee", "Weekend Warrior",
	"Rainy Day", "Sunset Sessions", "Power Hour", "Dream State",
	"Urban Pulse", "Acoustic Soul", "Electric Dreams", "Golden Hour",
}

// VibeService управляет режимами настроения и генерацией их названий
type VibeService struct {
	tasteService TasteServiceInterface
	titleCaser   cases.Caser
	logger       *zap.Logger
}

// NewVibeService создает новый сервис настроений
func NewVibeService(tasteService TasteServiceInterface, logger *zap.Logger) *VibeService {
	return &VibeService{
		tasteService: tasteService,
		titleCaser:   cases.Title(language.English),
		logger:       logger,
	}
}

// Presets возвращает фиксированный набор настроений
func (s *VibeService) Presets() []model.VibeMode {
	presets := make([]model.VibeMode, len(presetVibes))
	copy(presets, presetVibes)
	return presets
}

// CustomVibe синтезирует режим настроения из свободного текста пользователя
func (s *VibeService) CustomVibe(text string) model.VibeMode {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return s.Presets()[0]
	}

	lowered := strings.ToLower(trimmed)
	return model.VibeMode{
		ID:          "custom",
		Name:        s.titleCaser.String(lowered),
		Emoji:       "✨",
		Description: "Custom vibe: " + trimmed,
		QueryHints:  []string{lowered},
		Gradient:    []string{"#81ecec", "#00cec9"},
	}
}

// GenerateName придумывает название подборки под вкус пользователя.
// Строится из полосы популярности, ведущего настроения и ведущего жанра
// профиля; без профиля возвращается случайное название из списка.
func (s *VibeService) GenerateName(userID string) string {
	profile, err := s.tasteService.GetProfile(userID)
	if err != nil {
		s.logger.Debug("No taste profile for vibe name, using random",
			zap.String("user_id", userID))
		return randomVibeNames[rand.Intn(len(randomVibeNames))]
	}

	signature := profile.Signature()

	// Популярность как грубая замена энергичности
	var energy string
	switch {
	case signature.PopularityBand.Average >= 70:
		energy = "High Energy"
	case signature.PopularityBand.Average >= 40:
		energy = "Moderate"
	default:
		energy = "Chill"
	}

	mood := "Mixed"
	if len(signature.InferredMoods) > 0 {
		mood = signature.InferredMoods[0]
	}

	genre := fallbackGenre
	if len(signature.InferredGenres) > 0 {
		genre = signature.InferredGenres[0]
	}

	return energy + " " + mood + " " + genre
}
