// Package deezer реализует клиент для работы с Deezer API.
package deezer

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"

	"lyrafy/internal/model"

	"go.uber.org/zap"
)

// Config конфигурация клиента Deezer
type Config struct {
	BaseURL          string
	HTTPClientConfig HTTPClientConfig
	RetryConfig      RetryConfig
}

// Client представляет клиент для работы с Deezer API
type Client struct {
	baseURL     string
	httpClient  *http.Client
	retryConfig RetryConfig
	logger      *zap.Logger
}

// Interface определяет интерфейс для работы с резервным каталогом
type Interface interface {
	// SearchTracks выполняет свободный текстовый поиск треков
	SearchTracks(ctx context.Context, query string, limit int) ([]model.Track, error)

	// GetTrack получает трек по его идентификатору
	GetTrack(ctx context.Context, trackID string) (*model.Track, error)
}

// Убеждаемся, что Client реализует Interface
var _ Interface = (*Client)(nil)

// NewClient создает новый клиент Deezer
func NewClient(config Config, logger *zap.Logger) *Client {
	return &Client{
		baseURL:     config.BaseURL,
		httpClient:  NewHTTPClient(config.HTTPClientConfig, logger),
		retryConfig: config.RetryConfig,
		logger:      logger,
	}
}

// SearchTracks ищет треки в каталоге Deezer.
// Запрос, который каталог не понимает, дает пустой результат, а не ошибку.
func (c *Client) SearchTracks(ctx context.Context, query string, limit int) ([]model.Track, error) {
	endpoint := fmt.Sprintf("%s/search/track?q=%s&limit=%d", c.baseURL, url.QueryEscape(query), limit)

	var response searchResponse
	if err := c.getJSON(ctx, endpoint, &response); err != nil {
		return nil, fmt.Errorf("deezer search failed for %q: %w", query, err)
	}

	tracks := make([]model.Track, 0, len(response.Data))
	for _, item := range response.Data {
		tracks = append(tracks, normalizeWireTrack(item))
	}

	c.logger.Debug("Deezer search completed",
		zap.String("query", query),
		zap.Int("results", len(tracks)))

	return tracks, nil
}

// GetTrack получает детали трека из Deezer
func (c *Client) GetTrack(ctx context.Context, trackID string) (*model.Track, error) {
	endpoint := fmt.Sprintf("%s/track/%s", c.baseURL, url.PathEscape(trackID))

	var wire wireTrack
	if err := c.getJSON(ctx, endpoint, &wire); err != nil {
		return nil, fmt.Errorf("failed to get deezer track %s: %w", trackID, err)
	}

	track := normalizeWireTrack(wire)
	return &track, nil
}

// getJSON выполняет GET запрос с retry и декодирует JSON ответ
func (c *Client) getJSON(ctx context.Context, endpoint string, out interface{}) error {
	return withRetry(ctx, c.logger, c.retryConfig, func() error {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
		if err != nil {
			return fmt.Errorf("failed to create request: %w", err)
		}

		resp, err := c.httpClient.Do(req)
		if err != nil {
			return fmt.Errorf("request failed: %w", err)
		}
		defer func() {
			if closeErr := resp.Body.Close(); closeErr != nil {
				c.logger.Warn("Failed to close response body", zap.Error(closeErr))
			}
		}()

		if resp.StatusCode != http.StatusOK {
			bodyBytes, _ := io.ReadAll(resp.Body)
			return fmt.Errorf("unexpected status %d: %s", resp.StatusCode, string(bodyBytes))
		}

		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return fmt.Errorf("failed to decode response: %w", err)
		}

		return nil
	})
}

// normalizeWireTrack приводит трек Deezer к каноничной форме Track.
// Числовые идентификаторы и длительность в секундах конвертируются на этой границе.
func normalizeWireTrack(t wireTrack) model.Track {
	return model.Track{
		ID:    strconv.FormatInt(t.ID, 10),
		Title: t.Title,
		Artists: []model.Artist{
			{
				ID:   strconv.FormatInt(t.Artist.ID, 10),
				Name: t.Artist.Name,
			},
		},
		Album: model.Album{
			ID:          strconv.FormatInt(t.Album.ID, 10),
			Name:        t.Album.Title,
			ReleaseDate: t.Album.ReleaseDate,
			CoverImages: coverImages(t.Album.CoverMedium),
		},
		DurationMs: t.Duration * 1000,
		PreviewURL: t.Preview,
	}
}

func coverImages(coverMedium string) []model.Image {
	if coverMedium == "" {
		return nil
	}
	return []model.Image{{URL: coverMedium}}
}
