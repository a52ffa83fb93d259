// Package spotify реализует интерфейсы для работы с Spotify Web API.
package spotify

import (
	"context"

	"lyrafy/internal/model"
)

// Interface определяет интерфейс для работы с основным каталогом
type Interface interface {
	// SearchTracks выполняет свободный текстовый поиск треков
	SearchTracks(ctx context.Context, query string, limit int) ([]model.Track, error)

	// GetUserTopTracks получает топ-треки пользователя
	GetUserTopTracks(ctx context.Context, accessToken, timeRange string, limit int) ([]model.Track, error)

	// LikeTrack сохраняет трек в библиотеку пользователя
	LikeTrack(ctx context.Context, accessToken, trackID string) error

	// UnlikeTrack удаляет трек из библиотеки пользователя
	UnlikeTrack(ctx context.Context, accessToken, trackID string) error

	// GetUserPlaylists возвращает плейлисты пользователя
	GetUserPlaylists(ctx context.Context, accessToken string, limit int) ([]model.Playlist, error)

	// GetPlaylistTracks возвращает треки плейлиста
	GetPlaylistTracks(ctx context.Context, accessToken, playlistID string) ([]model.Track, error)

	// CreatePlaylist создает плейлист пользователя
	CreatePlaylist(ctx context.Context, accessToken, name, description string, public bool) (string, error)

	// AddTracksToPlaylist добавляет треки в плейлист
	AddTracksToPlaylist(ctx context.Context, accessToken, playlistID string, trackIDs []string) error

	// RemoveTracksFromPlaylist удаляет треки из плейлиста
	RemoveTracksFromPlaylist(ctx context.Context, accessToken, playlistID string, trackIDs []string) error
}

// Убеждаемся, что Client реализует Interface
var _ Interface = (*Client)(nil)
