package questparse

import (
	"encoding/json"
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"
	"unicode/utf8"
)

const (
	TitleMinLen       = 3
	TitleMaxLen       = 80
	DescriptionMinLen = 10
	DescriptionMaxLen = 600
	DifficultyMin     = 1
	DifficultyMax     = 5
	XPRewardMin       = 5
	XPRewardMax       = 50
	MaxTags           = 8
)

// Issue codes.
const (
	CodeInvalidType      = "invalid_type"
	CodeTooSmall         = "too_small"
	CodeTooBig           = "too_big"
	CodeNotInteger       = "not_integer"
	CodeUnrecognizedKeys = "unrecognized_keys"
)

var allowedKeys = map[string]struct{}{
	"title":       {},
	"description": {},
	"difficulty":  {},
	"xpReward":    {},
	"tags":        {},
}

// Issue is one field-level constraint violation.
type Issue struct {
	Code    string `json:"code"`
	Path    []any  `json:"path"`
	Message string `json:"message"`
}

// ValidationError carries every issue found plus the object that produced them.
type ValidationError struct {
	Issues []Issue
	Raw    map[string]any
}

func (e *ValidationError) Error() string {
	msgs := make([]string, 0, len(e.Issues))
	for _, is := range e.Issues {
		msgs = append(msgs, fmt.Sprintf("%s: %s", pathString(is.Path), is.Message))
	}
	return "questparse: model output failed validation: " + strings.Join(msgs, "; ")
}

// Draft is a validated quest payload, ready to be persisted.
type Draft struct {
	Title       string
	Description string
	Difficulty  int
	XPReward    int
	Tags        []string
}

// Validate checks obj against the quest output contract. Unknown keys are
// rejected and nothing is corrected except the difficulty coercion.
func Validate(obj map[string]any) (*Draft, error) {
	var (
		issues []Issue
		d      Draft
	)
	add := func(code, msg string, path ...any) {
		issues = append(issues, Issue{Code: code, Path: path, Message: msg})
	}

	var unknown []string
	for k := range obj {
		if _, ok := allowedKeys[k]; !ok {
			unknown = append(unknown, k)
		}
	}
	if len(unknown) > 0 {
		sort.Strings(unknown)
		add(CodeUnrecognizedKeys, fmt.Sprintf("Unrecognized key(s) in object: '%s'", strings.Join(unknown, "', '")))
	}

	d.Title = checkString(obj, "title", TitleMinLen, TitleMaxLen, add)
	d.Description = checkString(obj, "description", DescriptionMinLen, DescriptionMaxLen, add)

	raw, present := obj["difficulty"]
	if !present {
		raw = nil
	}
	d.Difficulty = checkInt(NormalizeDifficulty(raw), "difficulty", DifficultyMin, DifficultyMax, add)

	if v, ok := obj["xpReward"]; ok {
		d.XPReward = checkInt(v, "xpReward", XPRewardMin, XPRewardMax, add)
	} else {
		add(CodeInvalidType, "Required", "xpReward")
	}

	d.Tags = checkTags(obj, add)

	if len(issues) > 0 {
		return nil, &ValidationError{Issues: issues, Raw: obj}
	}
	return &d, nil
}

// Parse runs Extract then Validate.
func Parse(raw string) (*Draft, error) {
	obj, err := Extract(raw)
	if err != nil {
		return nil, err
	}
	return Validate(obj)
}

type addFunc func(code, msg string, path ...any)

func checkString(obj map[string]any, key string, minLen, maxLen int, add addFunc) string {
	v, ok := obj[key]
	if !ok {
		add(CodeInvalidType, "Required", key)
		return ""
	}
	s, ok := v.(string)
	if !ok {
		add(CodeInvalidType, "Expected string, received "+typeName(v), key)
		return ""
	}
	n := utf8.RuneCountInString(s)
	switch {
	case n < minLen:
		add(CodeTooSmall, fmt.Sprintf("String must contain at least %d character(s)", minLen), key)
	case n > maxLen:
		add(CodeTooBig, fmt.Sprintf("String must contain at most %d character(s)", maxLen), key)
	}
	return s
}

func checkInt(v any, key string, lo, hi int, add addFunc) int {
	var f float64
	switch val := v.(type) {
	case int:
		f = float64(val)
	case json.Number:
		parsed, err := val.Float64()
		if err != nil {
			add(CodeInvalidType, "Expected number, received string", key)
			return 0
		}
		f = parsed
	default:
		add(CodeInvalidType, "Expected number, received "+typeName(v), key)
		return 0
	}
	if math.IsNaN(f) || math.IsInf(f, 0) || f != math.Trunc(f) {
		add(CodeNotInteger, "Expected integer, received float", key)
		return 0
	}
	switch {
	case f < float64(lo):
		add(CodeTooSmall, fmt.Sprintf("Number must be greater than or equal to %d", lo), key)
	case f > float64(hi):
		add(CodeTooBig, fmt.Sprintf("Number must be less than or equal to %d", hi), key)
	}
	return int(f)
}

func checkTags(obj map[string]any, add addFunc) []string {
	v, ok := obj["tags"]
	if !ok {
		add(CodeInvalidType, "Required", "tags")
		return nil
	}
	list, ok := v.([]any)
	if !ok {
		add(CodeInvalidType, "Expected array, received "+typeName(v), "tags")
		return nil
	}
	if len(list) > MaxTags {
		add(CodeTooBig, fmt.Sprintf("Array must contain at most %d element(s)", MaxTags), "tags")
	}
	tags := make([]string, 0, len(list))
	for i, item := range list {
		s, ok := item.(string)
		if !ok {
			add(CodeInvalidType, "Expected string, received "+typeName(item), "tags", i)
			continue
		}
		tags = append(tags, s)
	}
	return tags
}

func typeName(v any) string {
	switch v.(type) {
	case nil:
		return "null"
	case string:
		return "string"
	case bool:
		return "boolean"
	case json.Number, float64, int:
		return "number"
	case []any:
		return "array"
	case map[string]any:
		return "object"
	default:
		return fmt.Sprintf("%T", v)
	}
}

func pathString(path []any) string {
	if len(path) == 0 {
		return "(root)"
	}
	parts := make([]string, len(path))
	for i, p := range path {
		parts[i] = fmt.Sprint(p)
	}
	return strings.Join(parts, ".")
}

func strconvFloat(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}
