package util

import (
	"strings"
	"unicode"
)

// Words lowercases s and splits it on anything that is not a letter or digit.
func Words(s string) []string {
	return strings.FieldsFunc(strings.ToLower(s), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
}

// ContainsWords reports whether the words of phrase appear consecutively in text.
// "Nice, France" contains "nice"; "Venice" does not.
func ContainsWords(text, phrase string) bool {
	want := Words(phrase)
	if len(want) == 0 {
		return false
	}
	have := Words(text)
	for i := 0; i+len(want) <= len(have); i++ {
		match := true
		for j, w := range want {
			if have[i+j] != w {
				match = false
				break
			}
		}
		if match {
			return true
		}
	}
	return false
}
