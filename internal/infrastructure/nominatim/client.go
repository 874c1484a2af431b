package nominatim

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"sync"

	"github.com/hashicorp/go-retryablehttp"
	"github.com/property-service/internal/config"
	"github.com/property-service/internal/domain"
	"github.com/property-service/internal/domain/repository"
	"github.com/property-service/internal/infrastructure/httpclient"
	"github.com/property-service/internal/pkg/utils"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

// searchResult - элемент ответа /search?format=jsonv2
type searchResult struct {
	Lat         string `json:"lat"`
	Lon         string `json:"lon"`
	DisplayName string `json:"display_name"`
}

type client struct {
	httpClient *retryablehttp.Client
	baseURL    string
	userAgent  string
	logger     *zap.Logger

	// Политика Nominatim: не больше одного запроса одновременно и 1 запрос в секунду
	mu      sync.Mutex
	limiter *rate.Limiter
}

// NewNominatimClient создает геокодер поверх Nominatim
func NewNominatimClient(cfg *config.GeocoderConfig, logger *zap.Logger) repository.GeocodingRepository {
	limit := rate.Inf
	if cfg.RatePerSecond > 0 {
		limit = rate.Limit(cfg.RatePerSecond)
	}

	return &client{
		httpClient: httpclient.New(cfg.RequestTimeout, cfg.RetryMax, logger),
		baseURL:    strings.TrimRight(cfg.BaseURL, "/"),
		userAgent:  cfg.UserAgent,
		logger:     logger,
		limiter:    rate.NewLimiter(limit, 1),
	}
}

// Geocode возвращает координаты первого совпадения, (nil, nil) если адрес не найден
func (c *client) Geocode(ctx context.Context, query string) (*domain.Coordinates, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, nil
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("geocoder rate limit wait: %w", err)
	}

	params := url.Values{}
	params.Set("format", "jsonv2")
	params.Set("limit", "1")
	params.Set("q", query)
	reqURL := fmt.Sprintf("%s/search?%s", c.baseURL, params.Encode())

	c.logger.Debug("Calling Nominatim search", zap.String("query", query))

	req, err := retryablehttp.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Error("Nominatim request failed", zap.String("query", query), zap.Error(err))
		return nil, fmt.Errorf("failed to execute request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		c.logger.Error("Nominatim returned error",
			zap.Int("status_code", resp.StatusCode),
			zap.String("body", string(body)))
		return nil, fmt.Errorf("nominatim error: status %d", resp.StatusCode)
	}

	var results []searchResult
	if err := json.NewDecoder(resp.Body).Decode(&results); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}

	if len(results) == 0 {
		c.logger.Debug("Nominatim found nothing", zap.String("query", query))
		return nil, nil
	}

	lat, err := strconv.ParseFloat(results[0].Lat, 64)
	if err != nil {
		return nil, fmt.Errorf("invalid latitude %q: %w", results[0].Lat, err)
	}
	lng, err := strconv.ParseFloat(results[0].Lon, 64)
	if err != nil {
		return nil, fmt.Errorf("invalid longitude %q: %w", results[0].Lon, err)
	}
	if !utils.ValidateCoordinates(lat, lng) {
		return nil, fmt.Errorf("coordinates out of range: %f,%f", lat, lng)
	}

	c.logger.Debug("Nominatim geocoded",
		zap.String("query", query),
		zap.String("display_name", results[0].DisplayName),
		zap.Float64("lat", lat),
		zap.Float64("lng", lng))

	return &domain.Coordinates{Lat: lat, Lng: lng}, nil
}
