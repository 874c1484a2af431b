package overpass

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sort"
	"strings"

	"github.com/hashicorp/go-retryablehttp"
	"github.com/property-service/internal/config"
	"github.com/property-service/internal/domain"
	"github.com/property-service/internal/domain/repository"
	"github.com/property-service/internal/infrastructure/httpclient"
	"github.com/property-service/internal/pkg/utils"
	"go.uber.org/zap"
)

type element struct {
	Type   string            `json:"type"`
	ID     int64             `json:"id"`
	Lat    float64           `json:"lat"`
	Lon    float64           `json:"lon"`
	Center *point            `json:"center"`
	Tags   map[string]string `json:"tags"`
}

type point struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

type response struct {
	Elements []element `json:"elements"`
}

type client struct {
	httpClient *retryablehttp.Client
	baseURL    string
	userAgent  string
	timeoutSec int
	logger     *zap.Logger
}

// NewOverpassClient создает клиент поиска мест рядом через Overpass API
func NewOverpassClient(cfg *config.PlacesConfig, logger *zap.Logger) repository.PlacesRepository {
	timeoutSec := int(cfg.RequestTimeout.Seconds())
	if timeoutSec <= 0 {
		timeoutSec = 25
	}

	return &client{
		httpClient: httpclient.New(cfg.RequestTimeout, cfg.RetryMax, logger),
		baseURL:    strings.TrimRight(cfg.BaseURL, "/"),
		userAgent:  cfg.UserAgent,
		timeoutSec: timeoutSec,
		logger:     logger,
	}
}

func (c *client) SearchNearby(
	ctx context.Context,
	center domain.Coordinates,
	category domain.PlaceCategory,
	radiusM float64,
	limit int,
) ([]domain.NearbyPlace, error) {
	query, err := buildQuery(center, category, radiusM, c.timeoutSec)
	if err != nil {
		return nil, err
	}

	form := url.Values{}
	form.Set("data", query)

	req, err := retryablehttp.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/interpreter", strings.NewReader(form.Encode()))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("Accept", "application/json")

	c.logger.Debug("Calling Overpass API",
		zap.String("category", string(category)),
		zap.Float64("radius_m", radiusM))

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Error("Overpass request failed", zap.String("category", string(category)), zap.Error(err))
		return nil, fmt.Errorf("failed to execute request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		c.logger.Error("Overpass API returned error",
			zap.String("category", string(category)),
			zap.Int("status_code", resp.StatusCode),
			zap.String("body", string(body)))
		return nil, fmt.Errorf("overpass error: status %d", resp.StatusCode)
	}

	var parsed response
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}

	places := toPlaces(parsed.Elements, center, category, radiusM)
	if limit > 0 && len(places) > limit {
		places = places[:limit]
	}

	c.logger.Debug("Overpass search done",
		zap.String("category", string(category)),
		zap.Int("elements", len(parsed.Elements)),
		zap.Int("places", len(places)))

	return places, nil
}

// toPlaces переводит элементы OSM в места, отсортированные по расстоянию.
// Элементы без имени, координат или известного подтипа отбрасываются.
func toPlaces(elements []element, center domain.Coordinates, category domain.PlaceCategory, radiusM float64) []domain.NearbyPlace {
	places := make([]domain.NearbyPlace, 0, len(elements))
	seen := make(map[string]struct{}, len(elements))

	for _, el := range elements {
		lat, lon := el.Lat, el.Lon
		if el.Center != nil {
			lat, lon = el.Center.Lat, el.Center.Lon
		}
		if lat == 0 && lon == 0 {
			continue
		}

		name := el.Tags["name"]
		if name == "" {
			name = el.Tags["name:en"]
		}
		if name == "" {
			continue
		}

		subType := subTypeFor(category, el.Tags)
		if subType == "" {
			continue
		}

		key := fmt.Sprintf("%s/%d", el.Type, el.ID)
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}

		distance := utils.HaversineMeters(center.Lat, center.Lng, lat, lon)
		if radiusM > 0 && distance > radiusM {
			continue
		}

		places = append(places, domain.NearbyPlace{
			Name:           name,
			Category:       category,
			SubType:        subType,
			DistanceMeters: distance,
			Coordinates:    domain.Coordinates{Lat: lat, Lng: lon},
			Address:        addressFrom(el.Tags),
		})
	}

	sort.SliceStable(places, func(i, j int) bool {
		return places[i].DistanceMeters < places[j].DistanceMeters
	})

	return places
}
