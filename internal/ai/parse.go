package ai

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
)

const (
	MinScore = 0
	MaxScore = 100

	MissingReason = "no assessment provided"
)

// ParseResult is either a successful set of assessments or a failure reason.
type ParseResult struct {
	OK          bool
	Assessments Assessments
	Failure     string
}

func parseFailure(format string, args ...any) ParseResult {
	return ParseResult{Failure: fmt.Sprintf(format, args...)}
}

// ParseRanking reads the first top-level JSON array in raw. Surrounding prose
// and code fences are ignored. It never panics and reports problems through
// the Failure field.
func ParseRanking(raw string) (result ParseResult) {
	defer func() {
		if r := recover(); r != nil {
			result = parseFailure("parse ranking: %v", r)
		}
	}()

	if strings.TrimSpace(raw) == "" {
		return parseFailure("empty response")
	}

	literal, ok := firstArray(raw)
	if !ok {
		return parseFailure("no json array found in response")
	}

	var items []any
	if err := json.Unmarshal([]byte(literal), &items); err != nil {
		return parseFailure("decode json array: %v", err)
	}

	assessments := make(Assessments, len(items))
	for _, item := range items {
		obj, ok := item.(map[string]any)
		if !ok {
			continue
		}
		id := coerceString(obj["candidate_id"])
		if id == "" {
			continue
		}
		if _, seen := assessments[id]; seen {
			continue
		}
		assessments[id] = Assessment{
			CandidateID: id,
			Score:       clampScore(coerceFloat(obj["score"])),
			Reason:      coerceString(obj["reason"]),
		}
	}

	return ParseResult{OK: true, Assessments: assessments}
}

// firstArray returns the first balanced top-level [...] literal of s.
// Brackets inside JSON strings are skipped.
func firstArray(s string) (string, bool) {
	start := -1
	depth := 0
	inString := false
	escaped := false

	for i := 0; i < len(s); i++ {
		c := s[i]
		if start == -1 {
			if c == '[' {
				start = i
				depth = 1
			}
			continue
		}

		if inString {
			switch {
			case escaped:
				escaped = false
			case c == '\\':
				escaped = true
			case c == '"':
				inString = false
			}
			continue
		}

		switch c {
		case '"':
			inString = true
		case '[':
			depth++
		case ']':
			depth--
			if depth == 0 {
				return s[start : i+1], true
			}
		}
	}
	return "", false
}

func clampScore(v float64) float64 {
	switch {
	case math.IsNaN(v):
		return MinScore
	case v < MinScore:
		return MinScore
	case v > MaxScore:
		return MaxScore
	default:
		return v
	}
}

func coerceFloat(v any) float64 {
	switch val := v.(type) {
	case float64:
		return val
	case json.Number:
		f, err := val.Float64()
		if err != nil {
			return math.NaN()
		}
		return f
	case string:
		trimmed := strings.TrimSuffix(strings.TrimSpace(val), "%")
		if trimmed == "" {
			return math.NaN()
		}
		f, err := strconv.ParseFloat(strings.TrimSpace(trimmed), 64)
		if err != nil {
			return math.NaN()
		}
		return f
	default:
		return math.NaN()
	}
}

func coerceString(v any) string {
	switch val := v.(type) {
	case string:
		return strings.TrimSpace(val)
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64)
	case nil:
		return ""
	default:
		return strings.TrimSpace(fmt.Sprint(val))
	}
}
