// Package deezer содержит типы для работы с Deezer API.
package deezer

// searchResponse представляет ответ поиска Deezer
type searchResponse struct {
	Data []wireTrack `json:"data"`
}

// wireTrack представляет трек в формате Deezer API
type wireTrack struct {
	ID       int64      `json:"id"`
	Title    string     `json:"title"`
	Preview  string     `json:"preview"`
	Duration int        `json:"duration"` // секунды, не миллисекунды
	Link     string     `json:"link"`
	Artist   wireArtist `json:"artist"`
	Album    wireAlbum  `json:"album"`
}

// wireArtist представляет исполнителя в формате Deezer API
type wireArtist struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// wireAlbum представляет альбом в формате Deezer API
type wireAlbum struct {
	ID          int64  `json:"id"`
	Title       string `json:"title"`
	CoverMedium string `json:"cover_medium"`
	ReleaseDate string `json:"release_date"`
}
