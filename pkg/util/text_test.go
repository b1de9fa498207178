package util

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestContainsWords(t *testing.T) {
	cases := []struct {
		text, phrase string
		want         bool
	}{
		{"Nice, France", "nice", true},
		{"Venice", "nice", false},
		{"Buenos Aires, Argentina", "buenos aires", true},
		{"Aires Buenos", "buenos aires", false},
		{"São Paulo", "são paulo", true},
		{"Romeo", "rome", false},
		{"Rome", "", false},
	}
	for _, tc := range cases {
		require.Equal(t, tc.want, ContainsWords(tc.text, tc.phrase), "%q in %q", tc.phrase, tc.text)
	}
}
