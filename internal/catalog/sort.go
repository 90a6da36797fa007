package catalog

import (
	"cmp"
	"math/rand/v2"
	"slices"
	"strings"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"github.com/glabrego/tagdeck/internal/tag"
)

type SortType string

const (
	SortAlphabetical SortType = "ALPHABETICAL"
	SortCustom       SortType = "CUSTOM"
	SortRandom       SortType = "RANDOM"
	SortNone         SortType = "NONE"
)

var sortTypes = []SortType{SortAlphabetical, SortCustom, SortRandom, SortNone}

// ParseSortType matches name case-insensitively. Callers fall back to
// SortAlphabetical when ok is false.
func ParseSortType(name string) (SortType, bool) {
	name = strings.TrimSpace(name)
	if name == "" {
		return SortAlphabetical, false
	}
	for _, st := range sortTypes {
		if strings.EqualFold(string(st), name) {
			return st, true
		}
	}
	return SortAlphabetical, false
}

// Shuffler permutes n elements through swap, matching rand.Shuffle.
type Shuffler func(n int, swap func(i, j int))

// Sort returns a new slice ordered by st; the input is never reordered.
// Alphabetical compares names with a case-insensitive collator. Custom
// compares Order ascending. Both are stable. Random reshuffles on each call.
func Sort(tags []tag.Tag, st SortType, shuffle Shuffler) []tag.Tag {
	out := slices.Clone(tags)
	switch st {
	case SortCustom:
		slices.SortStableFunc(out, func(a, b tag.Tag) int {
			return cmp.Compare(a.Order, b.Order)
		})
	case SortRandom:
		if shuffle == nil {
			shuffle = rand.Shuffle
		}
		shuffle(len(out), func(i, j int) { out[i], out[j] = out[j], out[i] })
	case SortNone:
	default:
		// A collator keeps internal buffers, so each call gets its own.
		col := collate.New(language.Und, collate.IgnoreCase)
		slices.SortStableFunc(out, func(a, b tag.Tag) int {
			return col.CompareString(a.Name, b.Name)
		})
	}
	return out
}
