package itinerary

import (
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
	"strings"

	"gopkg.in/yaml.v3"
)

// Normalizer stages reported by NormalizeError.
const (
	StageExtract  = "extract"
	StageParse    = "parse"
	StageValidate = "validate"
)

// NormalizeError reports which repair stage rejected generator output.
type NormalizeError struct {
	Stage string
	Err   error
}

func (e *NormalizeError) Error() string {
	return fmt.Sprintf("normalize %s: %v", e.Stage, e.Err)
}

func (e *NormalizeError) Unwrap() error {
	return e.Err
}

var (
	fencePattern    = regexp.MustCompile("```[A-Za-z]*")
	labelPattern    = regexp.MustCompile(`^\s*(?:\[[^\]\n{}]{1,40}\]|[A-Za-z][A-Za-z '’]{0,40})\s*:\s*`)
	numberedPattern = regexp.MustCompile(`^\s*\d{1,2}[.)]\s+`)
)

// RepairObject runs the extract, repair and parse stages and returns a JSON object.
// A top-level array is wrapped under wrapKey.
func RepairObject(raw, wrapKey string) (map[string]any, error) {
	cleaned := stripNoise(raw)
	span, err := extractSpan(cleaned)
	if err != nil {
		return nil, &NormalizeError{Stage: StageExtract, Err: err}
	}
	value, err := parseLenient(span)
	if err != nil {
		return nil, &NormalizeError{Stage: StageParse, Err: err}
	}
	switch v := value.(type) {
	case map[string]any:
		return v, nil
	case []any:
		return map[string]any{wrapKey: v}, nil
	default:
		return nil, &NormalizeError{Stage: StageValidate, Err: fmt.Errorf("expected an object, got %T", value)}
	}
}

// stripNoise removes code fences and leading labels such as "Response:" or "1. ".
func stripNoise(raw string) string {
	s := fencePattern.ReplaceAllString(raw, "")
	s = strings.TrimSpace(s)
	for {
		next := labelPattern.ReplaceAllString(s, "")
		next = numberedPattern.ReplaceAllString(next, "")
		if next == s {
			return s
		}
		s = next
	}
}

// extractSpan returns the first balanced {...} or [...] span, appending missing closers.
func extractSpan(s string) (string, error) {
	start := strings.IndexAny(s, "{[")
	if start < 0 {
		return "", errors.New("no JSON object found")
	}

	var (
		out        strings.Builder
		stack      []byte
		quote      byte
		escaped    bool
		lastSignif byte
	)
	for i := start; i < len(s); i++ {
		ch := s[i]
		if quote != 0 {
			out.WriteByte(ch)
			switch {
			case escaped:
				escaped = false
			case ch == '\\':
				escaped = true
			case ch == quote:
				quote = 0
				lastSignif = ch
			}
			continue
		}
		switch ch {
		case '"':
			quote = ch
		case '\'':
			if lastSignif == '{' || lastSignif == '[' || lastSignif == ',' || lastSignif == ':' {
				quote = ch
			}
		case '{', '[':
			stack = append(stack, closerFor(ch))
		case '}', ']':
			if !contains(stack, ch) {
				continue
			}
			for len(stack) > 0 && stack[len(stack)-1] != ch {
				out.WriteByte(stack[len(stack)-1])
				stack = stack[:len(stack)-1]
			}
			stack = stack[:len(stack)-1]
		}
		out.WriteByte(ch)
		if ch != ' ' && ch != '\n' && ch != '\r' && ch != '\t' {
			lastSignif = ch
		}
		if len(stack) == 0 {
			return out.String(), nil
		}
	}

	if quote != 0 {
		out.WriteByte(quote)
	}
	for i := len(stack) - 1; i >= 0; i-- {
		out.WriteByte(stack[i])
	}
	return out.String(), nil
}

func closerFor(open byte) byte {
	if open == '{' {
		return '}'
	}
	return ']'
}

func contains(stack []byte, ch byte) bool {
	for _, c := range stack {
		if c == ch {
			return true
		}
	}
	return false
}

// parseLenient tries a strict JSON parse, then a YAML flow parse that accepts
// trailing commas, unquoted keys and single quotes.
func parseLenient(span string) (any, error) {
	var strict any
	strictErr := json.Unmarshal([]byte(span), &strict)
	if strictErr == nil {
		return strict, nil
	}

	var loose any
	if err := yaml.Unmarshal([]byte(prepareFlow(span)), &loose); err != nil {
		return nil, fmt.Errorf("strict: %v; lenient: %w", strictErr, err)
	}
	value := fromYAML(loose)
	if value == nil {
		return nil, fmt.Errorf("strict: %v; lenient: empty document", strictErr)
	}
	return value, nil
}

// prepareFlow adjusts JSON-like text so it reads as a YAML flow collection:
// key separators get a trailing space, tabs become spaces, trailing commas go.
func prepareFlow(span string) string {
	var (
		out        strings.Builder
		quote      byte
		escaped    bool
		structural byte
	)
	out.Grow(len(span) + 16)
	for i := 0; i < len(span); i++ {
		ch := span[i]
		if quote != 0 {
			out.WriteByte(ch)
			switch {
			case escaped:
				escaped = false
			case ch == '\\' && quote == '"':
				escaped = true
			case ch == quote:
				quote = 0
			}
			continue
		}
		switch ch {
		case '"', '\'':
			quote = ch
		case '\t':
			ch = ' '
		case ',':
			if nextSignificant(span, i+1) == '}' || nextSignificant(span, i+1) == ']' {
				continue
			}
			structural = ch
		case '{', '[':
			structural = ch
		case ':':
			keySep := structural == '{' || structural == ','
			structural = ch
			out.WriteByte(ch)
			if keySep && i+1 < len(span) && span[i+1] != ' ' && span[i+1] != '\n' {
				out.WriteByte(' ')
			}
			continue
		}
		out.WriteByte(ch)
	}
	return out.String()
}

func nextSignificant(s string, from int) byte {
	for i := from; i < len(s); i++ {
		switch s[i] {
		case ' ', '\t', '\n', '\r':
			continue
		default:
			return s[i]
		}
	}
	return 0
}

func fromYAML(v any) any {
	switch t := v.(type) {
	case map[string]any:
		out := make(map[string]any, len(t))
		for k, val := range t {
			out[k] = fromYAML(val)
		}
		return out
	case map[any]any:
		out := make(map[string]any, len(t))
		for k, val := range t {
			out[fmt.Sprint(k)] = fromYAML(val)
		}
		return out
	case []any:
		out := make([]any, len(t))
		for i, val := range t {
			out[i] = fromYAML(val)
		}
		return out
	case int:
		return float64(t)
	case int64:
		return float64(t)
	case uint64:
		return float64(t)
	case float64:
		// .inf and .nan are valid YAML but cannot be encoded as JSON.
		if !isFinite(t) {
			return nil
		}
		return t
	default:
		return t
	}
}

var (
	placeholderExact = setOf(
		"...", "string", "activity", "activity name", "activity title", "title",
		"brief description", "description", "description of activity",
		"specific location", "location name", "location", "place name", "name of the place",
		"hh:mm", "yyyy-mm-dd", "local tip", "response", "your response here",
	)
	placeholderFragments = []string{
		"lorem ipsum",
		"[destination]",
		"[activity",
		"<activity",
		"<destination",
		"{destination}",
		"example activity",
		"placeholder",
		"insert ",
	}
)

func setOf(values ...string) map[string]struct{} {
	out := make(map[string]struct{}, len(values))
	for _, v := range values {
		out[v] = struct{}{}
	}
	return out
}

// IsPlaceholder reports whether s looks like template or example text echoed by a model.
func IsPlaceholder(s string) bool {
	clean := strings.ToLower(strings.TrimSpace(s))
	if clean == "" {
		return false
	}
	if _, ok := placeholderExact[clean]; ok {
		return true
	}
	for _, fragment := range placeholderFragments {
		if strings.Contains(clean, fragment) {
			return true
		}
	}
	return false
}
