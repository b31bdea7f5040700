package ranking

import (
	"sort"
	"strings"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"github.com/spigell/staffmatch/internal/scoring"
)

// Key compares two ranked candidates: negative when a goes first.
type Key func(a, b *RankedCandidate) int

// ByDistance orders ascending with unknown distances last.
func ByDistance(a, b *RankedCandidate) int {
	return compareOptional(a.DistanceKm, b.DistanceKm, false)
}

// ByScore orders by the deterministic score, highest first.
func ByScore(a, b *RankedCandidate) int {
	return compareFloat(b.Score, a.Score)
}

// ByAIScore orders by AI score, highest first, unassessed candidates last.
func ByAIScore(a, b *RankedCandidate) int {
	return compareOptional(a.AIScore, b.AIScore, true)
}

// ByName orders by display name using the collation rules of tag, ignoring
// case, and falls back to the id so that no two candidates compare equal.
func ByName(tag language.Tag) Key {
	c := collate.New(tag, collate.IgnoreCase, collate.IgnoreWidth)
	return func(a, b *RankedCandidate) int {
		if r := c.CompareString(a.Name, b.Name); r != 0 {
			return r
		}
		return strings.Compare(a.ID, b.ID)
	}
}

// Sort orders items in place by keys, in priority order. Equal items keep their order.
func Sort(items []RankedCandidate, keys ...Key) {
	sort.SliceStable(items, func(i, j int) bool {
		for _, key := range keys {
			if r := key(&items[i], &items[j]); r != 0 {
				return r < 0
			}
		}
		return false
	})
}

// keysFor returns the comparator chain of a mode and weight profile.
func keysFor(mode Mode, primary scoring.SortKey, tag language.Tag) []Key {
	name := ByName(tag)
	if mode == ModeDistanceOnly || primary == scoring.SortByDistance {
		return []Key{ByDistance, ByScore, name}
	}
	return []Key{ByScore, ByDistance, name}
}

func compareFloat(a, b float64) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}

func compareOptional(a, b *float64, desc bool) int {
	switch {
	case a == nil && b == nil:
		return 0
	case a == nil:
		return 1
	case b == nil:
		return -1
	case desc:
		return compareFloat(*b, *a)
	default:
		return compareFloat(*a, *b)
	}
}
