package catalog

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"golang.org/x/text/cases"

	"github.com/glabrego/tagdeck/internal/tag"
)

// Source yields every known tag in a stable order.
type Source interface {
	All() []tag.Tag
}

// Entitlements yields the tags the repository associates with a viewer.
type Entitlements interface {
	ViewerTags(ctx context.Context, viewer uuid.UUID) ([]tag.Tag, error)
}

type Favorites interface {
	Favorites(ctx context.Context, viewer uuid.UUID) ([]string, error)
}

type PermissionGate interface {
	HasPermission(ctx context.Context, viewer uuid.UUID, permission string) bool
}

type Options struct {
	Sort           SortType
	FavoritesFirst bool
	// IncludeUnentitled appends catalog tags the viewer may not use, for
	// preview. They always follow the entitled tags.
	IncludeUnentitled bool
	// FavoritesOnly restricts the result to entitled favorites.
	FavoritesOnly bool
}

type Assembler struct {
	source       Source
	entitlements Entitlements
	favorites    Favorites
	gate         PermissionGate
	shuffle      Shuffler
}

func NewAssembler(source Source, entitlements Entitlements, favorites Favorites, gate PermissionGate) *Assembler {
	return &Assembler{
		source:       source,
		entitlements: entitlements,
		favorites:    favorites,
		gate:         gate,
	}
}

// WithShuffler replaces the random source used by SortRandom.
func (a *Assembler) WithShuffler(s Shuffler) *Assembler {
	a.shuffle = s
	return a
}

// Assemble builds the ordered display list for a viewer. Every call
// materializes a new slice; nothing is cached between calls.
func (a *Assembler) Assemble(ctx context.Context, viewer uuid.UUID, keyword string, opts Options) ([]tag.Tag, error) {
	entitled, err := a.entitlements.ViewerTags(ctx, viewer)
	if err != nil {
		return nil, fmt.Errorf("load viewer tags: %w", err)
	}

	var favorites map[string]struct{}
	if opts.FavoritesFirst || opts.FavoritesOnly {
		ids, err := a.favorites.Favorites(ctx, viewer)
		if err != nil {
			return nil, fmt.Errorf("load favorites: %w", err)
		}
		favorites = make(map[string]struct{}, len(ids))
		for _, id := range ids {
			favorites[id] = struct{}{}
		}
	}

	var out []tag.Tag
	switch {
	case opts.FavoritesOnly:
		favs, _ := partition(entitled, favorites)
		out = Sort(favs, opts.Sort, a.shuffle)
	case opts.FavoritesFirst:
		favs, others := partition(entitled, favorites)
		out = append(Sort(favs, opts.Sort, a.shuffle), Sort(others, opts.Sort, a.shuffle)...)
	default:
		out = Sort(entitled, opts.Sort, a.shuffle)
	}

	if opts.IncludeUnentitled && !opts.FavoritesOnly {
		out = append(out, Sort(a.unentitled(ctx, viewer, entitled), opts.Sort, a.shuffle)...)
	}

	return FilterKeyword(out, keyword), nil
}

func (a *Assembler) unentitled(ctx context.Context, viewer uuid.UUID, entitled []tag.Tag) []tag.Tag {
	seen := make(map[string]struct{}, len(entitled))
	for _, t := range entitled {
		seen[t.ID] = struct{}{}
	}
	var out []tag.Tag
	for _, t := range a.source.All() {
		if _, ok := seen[t.ID]; ok {
			continue
		}
		if a.gate.HasPermission(ctx, viewer, t.Permission) {
			continue
		}
		out = append(out, t)
	}
	return out
}

func partition(tags []tag.Tag, favorites map[string]struct{}) (favs, others []tag.Tag) {
	for _, t := range tags {
		if _, ok := favorites[t.ID]; ok {
			favs = append(favs, t)
		} else {
			others = append(others, t)
		}
	}
	return favs, others
}

// FilterKeyword keeps tags whose name contains keyword, ignoring case.
// Relative order is preserved. An empty keyword keeps everything.
func FilterKeyword(tags []tag.Tag, keyword string) []tag.Tag {
	if keyword == "" {
		return tags
	}
	fold := cases.Fold()
	needle := fold.String(keyword)
	out := make([]tag.Tag, 0, len(tags))
	for _, t := range tags {
		if strings.Contains(fold.String(t.Name), needle) {
			out = append(out, t)
		}
	}
	return out
}
