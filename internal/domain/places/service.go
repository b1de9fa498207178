package places

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	gocache "github.com/patrickmn/go-cache"
	"golang.org/x/sync/errgroup"

	apperrors "github.com/yanqian/trip-planner/pkg/errors"
	"github.com/yanqian/trip-planner/pkg/health"
)

// Service exposes place lookup and aggregation.
type Service interface {
	Lookup(ctx context.Context, destination, category string) (LookupResult, error)
	Aggregate(ctx context.Context, destination string, interests []string) []Place
	DiagnoseGoogle(ctx context.Context) *health.Report
}

// Finder searches one external source for places.
type Finder interface {
	Search(ctx context.Context, destination, category string, limit int) ([]Place, error)
}

type service struct {
	cfg     Config
	tiers   []Tier
	curated Finder
	cache   *gocache.Cache
	logger  *slog.Logger
}

// NewService wires the lookup tiers. The curated dataset is always the last tier.
func NewService(cfg Config, tiers []Tier, logger *slog.Logger) Service {
	if cfg.PerCategory <= 0 {
		cfg.PerCategory = 4
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 8 * time.Second
	}
	if cfg.MaxConcurrency <= 0 {
		cfg.MaxConcurrency = 5
	}
	var cache *gocache.Cache
	if cfg.CacheTTL > 0 {
		cache = gocache.New(cfg.CacheTTL, 2*cfg.CacheTTL)
	}
	return &service{
		cfg:     cfg,
		tiers:   tiers,
		curated: NewCuratedFinder(),
		cache:   cache,
		logger:  logger.With("component", "places.service"),
	}
}

func (s *service) Lookup(ctx context.Context, destination, category string) (LookupResult, error) {
	destination = strings.TrimSpace(destination)
	category = strings.ToLower(strings.TrimSpace(category))
	if category == "" {
		category = CategoryAttractions
	}
	if destination == "" {
		return LookupResult{}, apperrors.Wrap(apperrors.CodeInvalidInput, "destination is required", nil)
	}
	if !IsKnownCategory(category) {
		return LookupResult{}, apperrors.Wrap(apperrors.CodeInvalidInput, "unknown category "+category, nil)
	}

	key := cacheKey(destination, category)
	if s.cache != nil {
		if cached, ok := s.cache.Get(key); ok {
			return cached.(LookupResult), nil
		}
	}

	for _, tier := range s.tiers {
		found, err := s.search(ctx, tier.Finder, destination, category)
		if err != nil {
			s.logger.Warn("place tier failed", "source", tier.Source, "destination", destination, "category", category, "error", err)
			continue
		}
		if len(found) == 0 {
			s.logger.Debug("place tier empty", "source", tier.Source, "destination", destination, "category", category)
			continue
		}
		result := LookupResult{Places: found, Source: tier.Source}
		if s.cache != nil {
			s.cache.Set(key, result, gocache.DefaultExpiration)
		}
		return result, nil
	}

	found, _ := s.search(ctx, s.curated, destination, category)
	if found == nil {
		found = []Place{}
	}
	return LookupResult{Places: found, Source: SourceCurated}, nil
}

func (s *service) search(ctx context.Context, finder Finder, destination, category string) ([]Place, error) {
	tierCtx, cancel := context.WithTimeout(ctx, s.cfg.Timeout)
	defer cancel()
	found, err := finder.Search(tierCtx, destination, category, s.cfg.PerCategory)
	if err != nil {
		return nil, err
	}
	if len(found) > s.cfg.PerCategory {
		found = found[:s.cfg.PerCategory]
	}
	return found, nil
}

func (s *service) Aggregate(ctx context.Context, destination string, interests []string) []Place {
	categories := CategoriesFor(interests)
	results := make([][]Place, len(categories))

	var group errgroup.Group
	group.SetLimit(s.cfg.MaxConcurrency)
	for i, category := range categories {
		group.Go(func() error {
			categoryCtx, cancel := context.WithTimeout(ctx, s.cfg.Timeout)
			defer cancel()
			res, err := s.Lookup(categoryCtx, destination, category)
			if err != nil {
				s.logger.Warn("category lookup failed", "destination", destination, "category", category, "error", err)
				return nil
			}
			if errors.Is(categoryCtx.Err(), context.DeadlineExceeded) {
				s.logger.Warn("category lookup timed out", "destination", destination, "category", category)
			}
			results[i] = res.Places
			return nil
		})
	}
	_ = group.Wait()

	seen := make(map[string]struct{})
	out := make([]Place, 0, len(categories)*s.cfg.PerCategory)
	for _, batch := range results {
		for n, p := range batch {
			if n >= s.cfg.PerCategory {
				break
			}
			key := strings.ToLower(strings.TrimSpace(p.Name))
			if key == "" {
				continue
			}
			if _, dup := seen[key]; dup {
				continue
			}
			seen[key] = struct{}{}
			out = append(out, p)
		}
	}
	s.logger.Info("places aggregated", "destination", destination, "categories", len(categories), "places", len(out))
	return out
}

func (s *service) DiagnoseGoogle(ctx context.Context) *health.Report {
	report := health.NewReport(SourceGoogle)
	var google Finder
	for _, tier := range s.tiers {
		if tier.Source == SourceGoogle {
			google = tier.Finder
		}
	}
	if !report.Run("api_key_present", func() (string, error) {
		if google == nil {
			return "", errors.New("google places api key not configured")
		}
		return "configured", nil
	}) {
		report.Skip("search", "api key missing")
		return report
	}
	report.Run("search", func() (string, error) {
		found, err := s.search(ctx, google, "London", CategoryAttractions)
		if err != nil {
			return "", err
		}
		if len(found) == 0 {
			return "", errors.New("search returned no places")
		}
		return "first result: " + found[0].Name, nil
	})
	return report
}

// CategoriesFor maps interest tags to lookup categories in their fixed order.
func CategoriesFor(interests []string) []string {
	wanted := map[string]bool{CategoryAttractions: true}
	for _, raw := range interests {
		switch strings.ToLower(strings.TrimSpace(raw)) {
		case "food", "foodie", "cuisine":
			wanted[CategoryRestaurants] = true
		case "history", "culture", "art", "museums":
			wanted[CategoryCulture] = true
		case "nature", "beaches", "beach", "outdoors":
			wanted[CategoryNature] = true
		case "nightlife":
			wanted[CategoryActivities] = true
		}
	}
	order := []string{CategoryAttractions, CategoryRestaurants, CategoryCulture, CategoryNature, CategoryActivities}
	out := make([]string, 0, len(wanted))
	for _, c := range order {
		if wanted[c] {
			out = append(out, c)
		}
	}
	return out
}

func cacheKey(destination, category string) string {
	return strings.ToLower(destination) + "|" + category
}
