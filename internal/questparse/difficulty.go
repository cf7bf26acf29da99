package questparse

import (
	"encoding/json"
	"regexp"
	"strings"
)

// DefaultDifficulty is used when a difficulty value cannot be interpreted.
const DefaultDifficulty = 2

var difficultyDigit = regexp.MustCompile(`[1-5]`)

// difficultyWords is checked in order; longer phrases come before the words
// they contain.
var difficultyWords = []struct {
	words []string
	level int
}{
	{[]string{"very easy"}, 1},
	{[]string{"easy"}, 2},
	{[]string{"medium", "moderate"}, 3},
	{[]string{"very hard", "extreme"}, 5},
	{[]string{"hard"}, 4},
}

// NormalizeDifficulty coerces a decoded difficulty value. Numbers pass through
// unchanged for later range checks; strings are matched against difficulty
// words, then the first digit 1-5; anything else becomes DefaultDifficulty.
func NormalizeDifficulty(v any) any {
	switch val := v.(type) {
	case json.Number:
		if _, err := val.Float64(); err == nil {
			return val
		}
		return DefaultDifficulty
	case float64:
		return json.Number(strconvFloat(val))
	case int:
		return val
	case string:
		return difficultyFromString(val)
	default:
		return DefaultDifficulty
	}
}

func difficultyFromString(s string) int {
	s = strings.ToLower(strings.TrimSpace(s))
	for _, entry := range difficultyWords {
		for _, w := range entry.words {
			if strings.Contains(s, w) {
				return entry.level
			}
		}
	}
	if d := difficultyDigit.FindString(s); d != "" {
		return int(d[0] - '0')
	}
	return DefaultDifficulty
}
