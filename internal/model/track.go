// Package model содержит модели данных.
//
// Группа: ENTITIES - Основные сущности
// Содержит: Track, Artist, Album
package model

import (
	"strconv"
	"strings"

	"golang.org/x/text/cases"
)

// Artist представляет исполнителя трека
type Artist struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// Image представляет обложку альбома
type Image struct {
	URL    string `json:"url"`
	Width  int    `json:"width,omitempty"`
	Height int    `json:"height,omitempty"`
}

// Album представляет альбом трека
type Album struct {
	ID          string  `json:"id"`
	Name        string  `json:"name"`
	ReleaseDate string  `json:"release_date"`
	CoverImages []Image `json:"cover_images,omitempty"`
}

// Playlist представляет плейлист пользователя в основном каталоге
type Playlist struct {
	ID         string  `json:"id"`
	Name       string  `json:"name"`
	Public     bool    `json:"public"`
	TrackTotal int     `json:"track_total"`
	Images     []Image `json:"images,omitempty"`
}

// Track представляет трек из каталога.
// Идентификаторы уникальны только внутри своего каталога
// и не сравниваются между каталогами.
type Track struct {
	ID         string   `json:"id"`
	Title      string   `json:"title"`
	Artists    []Artist `json:"artists"`
	Album      Album    `json:"album"`
	DurationMs int      `json:"duration_ms"`
	PreviewURL string   `json:"preview_url,omitempty"`
	Popularity int      `json:"popularity"`
}

// PrimaryArtist возвращает имя основного исполнителя трека
func (t Track) PrimaryArtist() string {
	if len(t.Artists) == 0 {
		return ""
	}
	return t.Artists[0].Name
}

// HasPreview сообщает, доступен ли короткий аудио-фрагмент
func (t Track) HasPreview() bool {
	return t.PreviewURL != ""
}

// ReleaseYear извлекает год выпуска из даты альбома.
// Поддерживаются форматы "2018" и "2018-01-19".
func (t Track) ReleaseYear() (int, bool) {
	date := strings.TrimSpace(t.Album.ReleaseDate)
	if date == "" {
		return 0, false
	}

	yearPart := date
	if idx := strings.Index(date, "-"); idx > 0 {
		yearPart = date[:idx]
	}

	year, err := strconv.Atoi(yearPart)
	if err != nil || year <= 0 {
		return 0, false
	}

	return year, true
}

// Decade возвращает десятилетие выпуска трека, например "1990s"
func (t Track) Decade() (string, bool) {
	year, ok := t.ReleaseYear()
	if !ok {
		return "", false
	}
	return strconv.Itoa(year/10*10) + "s", true
}

// titleFolder выполняет Unicode case folding для ключей дедупликации
var titleFolder = cases.Fold()

// NormalizeKey возвращает ключ дедупликации для названия трека:
// обрезанное и приведенное к нижнему регистру название.
// Одинаковые названия разных песен намеренно считаются одной песней.
func NormalizeKey(title string) string {
	return titleFolder.String(strings.TrimSpace(title))
}
