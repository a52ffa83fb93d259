// Package spotify реализует клиент основного каталога (Spotify Web API).
package spotify

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"lyrafy/internal/model"

	"github.com/zmb3/spotify/v2"
	"go.uber.org/zap"
)

// tokenTransport добавляет токен к каждому запросу
type tokenTransport struct {
	base      http.RoundTripper
	token     string
	tokenType string
}

func (t *tokenTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	req.Header.Set("Authorization", t.tokenType+" "+t.token)

	// Используем DefaultTransport если base равен nil
	base := t.base
	if base == nil {
		base = http.DefaultTransport
	}

	return base.RoundTrip(req)
}

// Client представляет клиент для работы с Spotify API
type Client struct {
	clientID     string
	clientSecret string
	logger       *zap.Logger
}

// NewClient создает новый Spotify клиент с использованием Client Credentials Flow
func NewClient(clientID, clientSecret string, logger *zap.Logger) (*Client, error) {
	if clientID == "" || clientSecret == "" {
		return nil, fmt.Errorf("spotify client ID and secret are required")
	}

	logger.Info("Spotify catalog client created with client credentials flow")

	return &Client{
		clientID:     clientID,
		clientSecret: clientSecret,
		logger:       logger,
	}, nil
}

// createSpotifyClient создает новый Spotify клиент для каждого запроса
func (c *Client) createSpotifyClient(ctx context.Context) (*spotify.Client, error) {
	// Подготавливаем данные для запроса токена согласно документации Spotify
	data := url.Values{}
	data.Set("grant_type", "client_credentials")

	req, err := http.NewRequestWithContext(ctx, "POST", "https://accounts.spotify.com/api/token", strings.NewReader(data.Encode()))
	if err != nil {
		return nil, fmt.Errorf("failed to create token request: %w", err)
	}

	credentials := base64.StdEncoding.EncodeToString([]byte(c.clientID + ":" + c.clientSecret))
	req.Header.Set("Authorization", "Basic "+credentials)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	httpClient := &http.Client{}
	resp, err := httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to get token: %w", err)
	}
	defer func() {
		if closeErr := resp.Body.Close(); closeErr != nil {
			c.logger.Warn("Failed to close response body", zap.Error(closeErr))
		}
	}()

	if resp.StatusCode != http.StatusOK {
		bodyBytes, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("token request failed with status %d: %s", resp.StatusCode, string(bodyBytes))
	}

	var tokenResponse struct {
		AccessToken string `json:"access_token"`
		TokenType   string `json:"token_type"`
		ExpiresIn   int    `json:"expires_in"`
	}

	if err := json.NewDecoder(resp.Body).Decode(&tokenResponse); err != nil {
		return nil, fmt.Errorf("failed to decode token response: %w", err)
	}

	if tokenResponse.AccessToken == "" {
		return nil, fmt.Errorf("no access token received")
	}

	tokenClient := &http.Client{
		Transport: &tokenTransport{
			base:      http.DefaultTransport,
			token:     tokenResponse.AccessToken,
			tokenType: tokenResponse.TokenType,
		},
	}

	c.logger.Debug("Created new Spotify client for request")

	return spotify.New(tokenClient), nil
}

// userClient создает Spotify клиент, авторизованный пользовательским токеном
func (c *Client) userClient(accessToken string) *spotify.Client {
	tokenClient := &http.Client{
		Transport: &tokenTransport{
			base:      http.DefaultTransport,
			token:     accessToken,
			tokenType: "Bearer",
		},
	}
	return spotify.New(tokenClient)
}

// SearchTracks выполняет свободный текстовый поиск треков в каталоге.
// Неудачный или непонятный каталогу запрос возвращает пустой список, а не ошибку формата.
func (c *Client) SearchTracks(ctx context.Context, query string, limit int) ([]model.Track, error) {
	client, err := c.createSpotifyClient(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to create spotify client: %w", err)
	}

	result, err := client.Search(ctx, query, spotify.SearchTypeTrack, spotify.Limit(limit))
	if err != nil {
		return nil, fmt.Errorf("spotify search failed for %q: %w", query, err)
	}

	if result.Tracks == nil {
		return nil, nil
	}

	tracks := make([]model.Track, 0, len(result.Tracks.Tracks))
	for _, item := range result.Tracks.Tracks {
		tracks = append(tracks, normalizeFullTrack(item))
	}

	c.logger.Debug("Spotify search completed",
		zap.String("query", query),
		zap.Int("results", len(tracks)))

	return tracks, nil
}

// GetUserTopTracks получает топ-треки пользователя по его токену доступа
func (c *Client) GetUserTopTracks(ctx context.Context, accessToken, timeRange string, limit int) ([]model.Track, error) {
	client := c.userClient(accessToken)

	opts := []spotify.RequestOption{spotify.Limit(limit)}
	switch timeRange {
	case "short_term":
		opts = append(opts, spotify.Timerange(spotify.ShortTermRange))
	case "long_term":
		opts = append(opts, spotify.Timerange(spotify.LongTermRange))
	default:
		opts = append(opts, spotify.Timerange(spotify.MediumTermRange))
	}

	page, err := client.CurrentUsersTopTracks(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to get user top tracks: %w", err)
	}

	tracks := make([]model.Track, 0, len(page.Tracks))
	for _, item := range page.Tracks {
		tracks = append(tracks, normalizeFullTrack(item))
	}

	c.logger.Info("Retrieved user top tracks",
		zap.String("time_range", timeRange),
		zap.Int("count", len(tracks)))

	return tracks, nil
}

// LikeTrack сохраняет трек в библиотеку пользователя
func (c *Client) LikeTrack(ctx context.Context, accessToken, trackID string) error {
	client := c.userClient(accessToken)

	if err := client.AddTracksToLibrary(ctx, spotify.ID(trackID)); err != nil {
		return fmt.Errorf("failed to like track %s: %w", trackID, err)
	}

	c.logger.Debug("Track liked", zap.String("track_id", trackID))
	return nil
}

// UnlikeTrack удаляет трек из библиотеки пользователя
func (c *Client) UnlikeTrack(ctx context.Context, accessToken, trackID string) error {
	client := c.userClient(accessToken)

	if err := client.RemoveTracksFromLibrary(ctx, spotify.ID(trackID)); err != nil {
		return fmt.Errorf("failed to unlike track %s: %w", trackID, err)
	}

	c.logger.Debug("Track unliked", zap.String("track_id", trackID))
	return nil
}

// CreatePlaylist создает новый плейлист пользователя и возвращает его ID
func (c *Client) CreatePlaylist(ctx context.Context, accessToken, name, description string, public bool) (string, error) {
	client := c.userClient(accessToken)

	user, err := client.CurrentUser(ctx)
	if err != nil {
		return "", fmt.Errorf("failed to get current user: %w", err)
	}

	playlist, err := client.CreatePlaylistForUser(ctx, user.ID, name, description, public, false)
	if err != nil {
		return "", fmt.Errorf("failed to create playlist %q: %w", name, err)
	}

	c.logger.Info("Playlist created",
		zap.String("playlist_id", string(playlist.ID)),
		zap.String("name", name))

	return string(playlist.ID), nil
}

// AddTracksToPlaylist добавляет треки в плейлист пользователя
func (c *Client) AddTracksToPlaylist(ctx context.Context, accessToken, playlistID string, trackIDs []string) error {
	if len(trackIDs) == 0 {
		return nil
	}

	client := c.userClient(accessToken)

	ids := make([]spotify.ID, 0, len(trackIDs))
	for _, id := range trackIDs {
		ids = append(ids, spotify.ID(id))
	}

	if _, err := client.AddTracksToPlaylist(ctx, spotify.ID(playlistID), ids...); err != nil {
		return fmt.Errorf("failed to add tracks to playlist %s: %w", playlistID, err)
	}

	c.logger.Debug("Tracks added to playlist",
		zap.String("playlist_id", playlistID),
		zap.Int("count", len(trackIDs)))

	return nil
}

// GetUserPlaylists возвращает плейлисты пользователя
func (c *Client) GetUserPlaylists(ctx context.Context, accessToken string, limit int) ([]model.Playlist, error) {
	client := c.userClient(accessToken)

	page, err := client.CurrentUsersPlaylists(ctx, spotify.Limit(limit))
	if err != nil {
		return nil, fmt.Errorf("failed to get user playlists: %w", err)
	}

	playlists := make([]model.Playlist, 0, len(page.Playlists))
	for _, item := range page.Playlists {
		playlists = append(playlists, normalizeSimplePlaylist(item))
	}

	c.logger.Debug("Retrieved user playlists", zap.Int("count", len(playlists)))

	return playlists, nil
}

// GetPlaylistTracks возвращает треки плейлиста пользователя
func (c *Client) GetPlaylistTracks(ctx context.Context, accessToken, playlistID string) ([]model.Track, error) {
	client := c.userClient(accessToken)

	page, err := client.GetPlaylistItems(ctx, spotify.ID(playlistID))
	if err != nil {
		return nil, fmt.Errorf("failed to get playlist tracks %s: %w", playlistID, err)
	}

	tracks := make([]model.Track, 0, len(page.Items))
	for _, item := range page.Items {
		// Эпизоды подкастов в плейлисте пропускаются
		if item.Track.Track == nil {
			continue
		}
		tracks = append(tracks, normalizeFullTrack(*item.Track.Track))
	}

	c.logger.Debug("Retrieved playlist tracks",
		zap.String("playlist_id", playlistID),
		zap.Int("count", len(tracks)))

	return tracks, nil
}

// RemoveTracksFromPlaylist удаляет треки из плейлиста пользователя
func (c *Client) RemoveTracksFromPlaylist(ctx context.Context, accessToken, playlistID string, trackIDs []string) error {
	if len(trackIDs) == 0 {
		return nil
	}

	client := c.userClient(accessToken)

	ids := make([]spotify.ID, 0, len(trackIDs))
	for _, id := range trackIDs {
		ids = append(ids, spotify.ID(id))
	}

	if _, err := client.RemoveTracksFromPlaylist(ctx, spotify.ID(playlistID), ids...); err != nil {
		return fmt.Errorf("failed to remove tracks from playlist %s: %w", playlistID, err)
	}

	c.logger.Debug("Tracks removed from playlist",
		zap.String("playlist_id", playlistID),
		zap.Int("count", len(trackIDs)))

	return nil
}

// normalizeSimplePlaylist приводит плейлист Spotify к каноничной форме Playlist
func normalizeSimplePlaylist(p spotify.SimplePlaylist) model.Playlist {
	images := make([]model.Image, 0, len(p.Images))
	for _, img := range p.Images {
		images = append(images, model.Image{
			URL:    img.URL,
			Width:  int(img.Width),
			Height: int(img.Height),
		})
	}

	return model.Playlist{
		ID:         string(p.ID),
		Name:       p.Name,
		Public:     p.IsPublic,
		TrackTotal: int(p.Tracks.Total),
		Images:     images,
	}
}

// normalizeFullTrack приводит трек Spotify к каноничной форме Track.
// Особенности каталога (типы полей, вложенность) остаются на этой границе.
func normalizeFullTrack(t spotify.FullTrack) model.Track {
	artists := make([]model.Artist, 0, len(t.Artists))
	for _, a := range t.Artists {
		artists = append(artists, model.Artist{
			ID:   string(a.ID),
			Name: a.Name,
		})
	}

	images := make([]model.Image, 0, len(t.Album.Images))
	for _, img := range t.Album.Images {
		images = append(images, model.Image{
			URL:    img.URL,
			Width:  int(img.Width),
			Height: int(img.Height),
		})
	}

	return model.Track{
		ID:      string(t.ID),
		Title:   t.Name,
		Artists: artists,
		Album: model.Album{
			ID:          string(t.Album.ID),
			Name:        t.Album.Name,
			ReleaseDate: t.Album.ReleaseDate,
			CoverImages: images,
		},
		DurationMs: int(t.Duration),
		// Spotify убрал preview URL из Web API, поле почти всегда пустое
		PreviewURL: t.PreviewURL,
		Popularity: int(t.Popularity),
	}
}
