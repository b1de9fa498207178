package health

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestReportRun(t *testing.T) {
	report := NewReport("ollama")
	require.True(t, report.Run("probe", func() (string, error) { return "model loaded", nil }))
	require.True(t, report.Passed)

	require.False(t, report.Run("generate", func() (string, error) { return "", errors.New("boom") }))
	report.Skip("parse", "generate failed")

	require.False(t, report.Passed)
	require.Len(t, report.Checks, 3)
	require.Equal(t, "model loaded", report.Checks[0].Detail)
	require.Equal(t, "boom", report.Checks[1].Detail)
	require.Equal(t, "skipped: generate failed", report.Checks[2].Detail)
}
