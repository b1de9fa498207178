package wikipedia

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"github.com/yanqian/trip-planner/internal/domain/places"
)

const (
	defaultBaseURL   = "https://en.wikipedia.org"
	defaultUserAgent = "trip-planner/1.0 (itinerary place lookup)"
)

// Client searches Wikipedia articles for place candidates.
type Client struct {
	baseURL    string
	userAgent  string
	httpClient *http.Client
}

// NewClient builds a Wikipedia search client.
func NewClient(baseURL, userAgent string) *Client {
	if strings.TrimSpace(baseURL) == "" {
		baseURL = defaultBaseURL
	}
	if strings.TrimSpace(userAgent) == "" {
		userAgent = defaultUserAgent
	}
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		userAgent:  userAgent,
		httpClient: &http.Client{Timeout: 10 * time.Second},
	}
}

type searchResponse struct {
	Query struct {
		Search []struct {
			PageID  int    `json:"pageid"`
			Title   string `json:"title"`
			Snippet string `json:"snippet"`
		} `json:"search"`
	} `json:"query"`
}

var categoryTerms = map[string]string{
	places.CategoryAttractions: "landmarks",
	places.CategoryRestaurants: "restaurants",
	places.CategoryCulture:     "museums",
	places.CategoryNature:      "parks",
	places.CategoryActivities:  "tourist attractions",
}

var categoryCost = map[string]int{
	places.CategoryAttractions: 15,
	places.CategoryRestaurants: 25,
	places.CategoryCulture:     12,
	places.CategoryNature:      0,
	places.CategoryActivities:  20,
}

// Search implements places.Finder.
func (c *Client) Search(ctx context.Context, destination, category string, limit int) ([]places.Place, error) {
	if limit <= 0 {
		limit = 8
	}
	term, ok := categoryTerms[category]
	if !ok {
		term = categoryTerms[places.CategoryAttractions]
	}

	q := url.Values{}
	q.Set("action", "query")
	q.Set("list", "search")
	q.Set("format", "json")
	q.Set("srlimit", strconv.Itoa(limit))
	q.Set("srsearch", fmt.Sprintf("%s %s", term, destination))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/w/api.php?"+q.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("build wikipedia request: %w", err)
	}
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("wikipedia request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4<<10))
		return nil, fmt.Errorf("wikipedia request error: status=%d body=%s", resp.StatusCode, string(body))
	}

	var raw searchResponse
	if err := json.NewDecoder(resp.Body).Decode(&raw); err != nil {
		return nil, fmt.Errorf("decode wikipedia response: %w", err)
	}

	out := make([]places.Place, 0, len(raw.Query.Search))
	for _, hit := range raw.Query.Search {
		title := strings.TrimSpace(hit.Title)
		if title == "" || isListArticle(title) {
			continue
		}
		desc := cleanSnippet(hit.Snippet)
		if desc == "" {
			desc = fmt.Sprintf("%s in %s.", title, destination)
		}
		out = append(out, places.Place{
			ID:               "wiki-" + strconv.Itoa(hit.PageID),
			Name:             title,
			Description:      desc,
			Location:         fmt.Sprintf("%s, %s", title, destination),
			Category:         category,
			Rating:           4.2,
			EstimatedCostGBP: categoryCost[category],
			DurationHours:    2,
		})
	}
	return out, nil
}

// cleanSnippet strips the search-match markup Wikipedia puts in snippets.
func cleanSnippet(snippet string) string {
	if strings.TrimSpace(snippet) == "" {
		return ""
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(snippet))
	if err != nil {
		return ""
	}
	text := strings.Join(strings.Fields(doc.Text()), " ")
	if text != "" && !strings.HasSuffix(text, ".") {
		text += "..."
	}
	return text
}

func isListArticle(title string) bool {
	lower := strings.ToLower(title)
	return strings.HasPrefix(lower, "list of") || strings.HasPrefix(lower, "outline of")
}

var _ places.Finder = (*Client)(nil)
