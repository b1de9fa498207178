package googleplaces

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"github.com/yanqian/trip-planner/internal/domain/places"
)

const (
	defaultBaseURL = "https://places.googleapis.com/v1"
	fieldMask      = "places.id,places.displayName,places.formattedAddress,places.location,places.rating,places.priceLevel,places.editorialSummary,places.photos"
	maxResults     = 20
)

// Client searches the Google Places Text Search API.
type Client struct {
	apiKey     string
	baseURL    string
	httpClient *http.Client
	limiter    *rate.Limiter
}

// NewClient builds a client. requestsPerSecond <= 0 disables pacing.
func NewClient(apiKey, baseURL string, requestsPerSecond float64) (*Client, error) {
	if strings.TrimSpace(apiKey) == "" {
		return nil, errors.New("google places api key cannot be empty")
	}
	if strings.TrimSpace(baseURL) == "" {
		baseURL = defaultBaseURL
	}
	limit := rate.Inf
	if requestsPerSecond > 0 {
		limit = rate.Limit(requestsPerSecond)
	}
	return &Client{
		apiKey:     apiKey,
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: 10 * time.Second},
		limiter:    rate.NewLimiter(limit, 1),
	}, nil
}

type searchRequest struct {
	TextQuery      string `json:"textQuery"`
	MaxResultCount int    `json:"maxResultCount"`
	LanguageCode   string `json:"languageCode"`
}

type searchResponse struct {
	Places []apiPlace `json:"places"`
}

type apiPlace struct {
	ID          string `json:"id"`
	DisplayName struct {
		Text string `json:"text"`
	} `json:"displayName"`
	FormattedAddress string `json:"formattedAddress"`
	Location         *struct {
		Latitude  float64 `json:"latitude"`
		Longitude float64 `json:"longitude"`
	} `json:"location"`
	Rating           float64 `json:"rating"`
	PriceLevel       string  `json:"priceLevel"`
	EditorialSummary struct {
		Text string `json:"text"`
	} `json:"editorialSummary"`
	Photos []struct {
		Name string `json:"name"`
	} `json:"photos"`
}

// Search implements places.Finder.
func (c *Client) Search(ctx context.Context, destination, category string, limit int) ([]places.Place, error) {
	if limit <= 0 || limit > maxResults {
		limit = maxResults
	}
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("google places rate limit: %w", err)
	}

	payload, err := json.Marshal(searchRequest{
		TextQuery:      queryFor(category, destination),
		MaxResultCount: limit,
		LanguageCode:   "en",
	})
	if err != nil {
		return nil, fmt.Errorf("encode google places request: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/places:searchText", bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("build google places request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Goog-Api-Key", c.apiKey)
	req.Header.Set("X-Goog-FieldMask", fieldMask)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("google places request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4<<10))
		return nil, fmt.Errorf("google places request error: status=%d body=%s", resp.StatusCode, string(body))
	}

	var raw searchResponse
	if err := json.NewDecoder(resp.Body).Decode(&raw); err != nil {
		return nil, fmt.Errorf("decode google places response: %w", err)
	}
	return toPlaces(raw.Places, destination, category), nil
}

func toPlaces(items []apiPlace, destination, category string) []places.Place {
	out := make([]places.Place, 0, len(items))
	for _, item := range items {
		name := strings.TrimSpace(item.DisplayName.Text)
		if name == "" {
			continue
		}
		cost, known := priceLevelCost[item.PriceLevel]
		if !known {
			cost = categoryDefaults[category].cost
		}
		p := places.Place{
			ID:               item.ID,
			Name:             name,
			Description:      strings.TrimSpace(item.EditorialSummary.Text),
			Location:         strings.TrimSpace(item.FormattedAddress),
			Category:         category,
			Rating:           item.Rating,
			EstimatedCostGBP: cost,
			DurationHours:    categoryDefaults[category].hours,
			BookingRequired:  cost >= 50,
		}
		if p.Description == "" {
			p.Description = fmt.Sprintf("%s in %s.", name, destination)
		}
		if item.Location != nil {
			lat, lng := item.Location.Latitude, item.Location.Longitude
			p.Lat, p.Lng = &lat, &lng
		}
		if len(item.Photos) > 0 {
			p.Image = item.Photos[0].Name
		}
		out = append(out, p)
	}
	return out
}

var priceLevelCost = map[string]int{
	"PRICE_LEVEL_FREE":           0,
	"PRICE_LEVEL_INEXPENSIVE":    10,
	"PRICE_LEVEL_MODERATE":       25,
	"PRICE_LEVEL_EXPENSIVE":      50,
	"PRICE_LEVEL_VERY_EXPENSIVE": 90,
}

type categoryDefault struct {
	query string
	cost  int
	hours float64
}

var categoryDefaults = map[string]categoryDefault{
	places.CategoryAttractions: {"top tourist attractions in %s", 15, 2},
	places.CategoryRestaurants: {"best local restaurants in %s", 25, 1.5},
	places.CategoryCulture:     {"museums and historic sites in %s", 12, 2},
	places.CategoryNature:      {"parks, gardens and beaches in %s", 0, 2},
	places.CategoryActivities:  {"nightlife and things to do in %s", 20, 2.5},
}

func queryFor(category, destination string) string {
	def, ok := categoryDefaults[category]
	if !ok {
		def = categoryDefaults[places.CategoryAttractions]
	}
	return fmt.Sprintf(def.query, destination)
}

var _ places.Finder = (*Client)(nil)
