package googleplaces

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/yanqian/trip-planner/internal/domain/places"
)

func TestSearch(t *testing.T) {
	var got searchRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/places:searchText", r.URL.Path)
		require.Equal(t, "key-123", r.Header.Get("X-Goog-Api-Key"))
		require.Contains(t, r.Header.Get("X-Goog-FieldMask"), "places.displayName")
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		_, _ = w.Write([]byte(`{"places":[
			{"id":"p1","displayName":{"text":"Cal Pep"},"formattedAddress":"Plaça de les Olles 8, Barcelona","location":{"latitude":41.38,"longitude":2.18},"rating":4.6,"priceLevel":"PRICE_LEVEL_EXPENSIVE"},
			{"id":"p2","displayName":{"text":"Bar del Pla"},"editorialSummary":{"text":"Tapas bar."}},
			{"id":"p3","displayName":{"text":"  "}}
		]}`))
	}))
	defer srv.Close()

	client, err := NewClient("key-123", srv.URL, 0)
	require.NoError(t, err)
	found, err := client.Search(context.Background(), "Barcelona", places.CategoryRestaurants, 4)
	require.NoError(t, err)

	require.Equal(t, "best local restaurants in Barcelona", got.TextQuery)
	require.Equal(t, 4, got.MaxResultCount)
	require.Len(t, found, 2)

	require.Equal(t, "Cal Pep", found[0].Name)
	require.Equal(t, 50, found[0].EstimatedCostGBP)
	require.True(t, found[0].BookingRequired)
	require.NotNil(t, found[0].Lat)
	require.InDelta(t, 41.38, *found[0].Lat, 0.0001)
	require.Equal(t, "Cal Pep in Barcelona.", found[0].Description)

	require.Equal(t, 25, found[1].EstimatedCostGBP)
	require.Equal(t, "Tapas bar.", found[1].Description)
	require.Nil(t, found[1].Lat)
	require.Equal(t, places.CategoryRestaurants, found[1].Category)
}

func TestSearchStatusError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error":{"status":"PERMISSION_DENIED"}}`, http.StatusForbidden)
	}))
	defer srv.Close()

	client, err := NewClient("key", srv.URL, 5)
	require.NoError(t, err)
	_, err = client.Search(context.Background(), "Paris", places.CategoryAttractions, 4)
	require.ErrorContains(t, err, "status=403")
}

func TestNewClientRequiresKey(t *testing.T) {
	_, err := NewClient("", "", 0)
	require.Error(t, err)
}
