package wikipedia

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/yanqian/trip-planner/internal/domain/places"
)

func TestSearch(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/w/api.php", r.URL.Path)
		require.Equal(t, "museums Lisbon", r.URL.Query().Get("srsearch"))
		require.Equal(t, "3", r.URL.Query().Get("srlimit"))
		require.Equal(t, "test-agent", r.Header.Get("User-Agent"))
		_, _ = w.Write([]byte(`{"query":{"search":[
			{"pageid":12,"title":"Calouste Gulbenkian Museum","snippet":"The <span class=\"searchmatch\">museum</span> holds   art from antiquity"},
			{"pageid":13,"title":"List of museums in Lisbon","snippet":"x"},
			{"pageid":14,"title":"MAAT","snippet":""}
		]}}`))
	}))
	defer srv.Close()

	found, err := NewClient(srv.URL, "test-agent").Search(context.Background(), "Lisbon", places.CategoryCulture, 3)
	require.NoError(t, err)
	require.Len(t, found, 2)

	require.Equal(t, "wiki-12", found[0].ID)
	require.Equal(t, "The museum holds art from antiquity...", found[0].Description)
	require.Equal(t, 12, found[0].EstimatedCostGBP)
	require.Equal(t, "Calouste Gulbenkian Museum, Lisbon", found[0].Location)

	require.Equal(t, "MAAT in Lisbon.", found[1].Description)
}

func TestSearchStatusError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	_, err := NewClient(srv.URL, "").Search(context.Background(), "Lisbon", places.CategoryNature, 3)
	require.ErrorContains(t, err, "status=503")
}

func TestCleanSnippet(t *testing.T) {
	require.Equal(t, "", cleanSnippet("  "))
	require.Equal(t, "A park.", cleanSnippet(`A <span class="searchmatch">park</span>.`))
}
