package itinerary

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestRepairObject(t *testing.T) {
	t.Run("wraps top level array", func(t *testing.T) {
		obj, err := RepairObject(`[{"dayNumber":1,"activities":[]}]`, "days")
		require.NoError(t, err)
		days, ok := obj["days"].([]any)
		require.True(t, ok)
		require.Len(t, days, 1)
	})

	t.Run("appends missing closers", func(t *testing.T) {
		obj, err := RepairObject(`{"days":[{"day_number":1`, "days")
		require.NoError(t, err)
		days := obj["days"].([]any)
		require.Len(t, days, 1)
		require.Equal(t, float64(1), days[0].(map[string]any)["day_number"])
	})

	t.Run("strips fences and labels", func(t *testing.T) {
		obj, err := RepairObject("Response: ```json\n{\"response\":\"Pack layers.\"}\n```", "response")
		require.NoError(t, err)
		require.Equal(t, "Pack layers.", obj["response"])
	})

	t.Run("ignores prose around the object", func(t *testing.T) {
		obj, err := RepairObject(`Sure! Here is the plan: {"days":[]} Enjoy your trip}`, "days")
		require.NoError(t, err)
		require.Contains(t, obj, "days")
	})

	t.Run("lenient syntax", func(t *testing.T) {
		raw := `{days: [{day_number: 1, activities: [{title: 'Park Güell', time: '10:00', estimated_cost_gbp: 10,},],},],}`
		obj, err := RepairObject(raw, "days")
		require.NoError(t, err)
		day := obj["days"].([]any)[0].(map[string]any)
		require.Equal(t, float64(1), day["day_number"])
		act := day["activities"].([]any)[0].(map[string]any)
		require.Equal(t, "Park Güell", act["title"])
		require.Equal(t, "10:00", act["time"])
		require.Equal(t, float64(10), act["estimated_cost_gbp"])
	})

	t.Run("no object fails at extract", func(t *testing.T) {
		_, err := RepairObject("I cannot help with that.", "days")
		var normErr *NormalizeError
		require.True(t, errors.As(err, &normErr))
		require.Equal(t, StageExtract, normErr.Stage)
	})

	t.Run("garbage fails closed", func(t *testing.T) {
		_, err := RepairObject(`{"days" "none"}`, "days")
		var normErr *NormalizeError
		require.True(t, errors.As(err, &normErr))
		require.Equal(t, StageParse, normErr.Stage)
	})
}

func TestIsPlaceholder(t *testing.T) {
	cases := []struct {
		in   string
		want bool
	}{
		{"Activity Name", true},
		{"  brief description ", true},
		{"Lorem ipsum dolor", true},
		{"Visit [destination] museum", true},
		{"...", true},
		{"Sagrada Família", false},
		{"Dinner in El Born", false},
		{"", false},
	}
	for _, tc := range cases {
		require.Equal(t, tc.want, IsPlaceholder(tc.in), tc.in)
	}
}
