package catalog

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/glabrego/tagdeck/internal/tag"
)

type fakeEntitlements struct {
	tags []tag.Tag
	err  error
}

func (f fakeEntitlements) ViewerTags(context.Context, uuid.UUID) ([]tag.Tag, error) {
	if f.err != nil {
		return nil, f.err
	}
	return append([]tag.Tag(nil), f.tags...), nil
}

type fakeFavorites []string

func (f fakeFavorites) Favorites(context.Context, uuid.UUID) ([]string, error) {
	return f, nil
}

// fakeGate grants every permission that does not start with "locked.".
type fakeGate struct{}

func (fakeGate) HasPermission(_ context.Context, _ uuid.UUID, permission string) bool {
	return !strings.HasPrefix(permission, "locked.")
}

type fakeSource []tag.Tag

func (f fakeSource) All() []tag.Tag { return append([]tag.Tag(nil), f...) }

var viewer = uuid.MustParse("3f1b8a0e-8c1e-4a53-9d3f-6a2b5f0c9e11")

func named(names ...string) []tag.Tag {
	out := make([]tag.Tag, 0, len(names))
	for _, n := range names {
		out = append(out, tag.Tag{ID: strings.ToLower(n), Name: n})
	}
	return out
}

func TestAssemble_CustomOrder(t *testing.T) {
	entitled := []tag.Tag{
		{ID: "bob", Name: "Bob", Order: 2},
		{ID: "ann", Name: "Ann", Order: 1},
	}
	a := NewAssembler(fakeSource(entitled), fakeEntitlements{tags: entitled}, fakeFavorites(nil), fakeGate{})

	got, err := a.Assemble(context.Background(), viewer, "", Options{Sort: SortCustom})
	require.NoError(t, err)
	assert.Equal(t, []string{"Ann", "Bob"}, tag.Names(got))
}

func TestAssemble_KeywordPreservesSortedOrder(t *testing.T) {
	entitled := named("Ann", "Ben", "Anderson")
	a := NewAssembler(fakeSource(entitled), fakeEntitlements{tags: entitled}, fakeFavorites(nil), fakeGate{})

	got, err := a.Assemble(context.Background(), viewer, "an", Options{Sort: SortNone})
	require.NoError(t, err)
	assert.Equal(t, []string{"Ann", "Anderson"}, tag.Names(got))

	got, err = a.Assemble(context.Background(), viewer, "AN", Options{Sort: SortAlphabetical})
	require.NoError(t, err)
	assert.Equal(t, []string{"Anderson", "Ann"}, tag.Names(got))
}

func TestAssemble_FavoritesFirst(t *testing.T) {
	entitled := named("Alpha", "Beta", "Gamma", "Zulu")
	a := NewAssembler(fakeSource(entitled), fakeEntitlements{tags: entitled}, fakeFavorites{"zulu", "beta"}, fakeGate{})

	got, err := a.Assemble(context.Background(), viewer, "", Options{Sort: SortAlphabetical, FavoritesFirst: true})
	require.NoError(t, err)
	assert.Equal(t, []string{"Beta", "Zulu", "Alpha", "Gamma"}, tag.Names(got))

	favs := map[string]bool{"zulu": true, "beta": true}
	for i := 1; i < len(got); i++ {
		if favs[got[i].ID] {
			assert.True(t, favs[got[i-1].ID], "favorite %s follows non-favorite %s", got[i].ID, got[i-1].ID)
		}
	}
}

func TestAssemble_SingleFavoriteGoesFirst(t *testing.T) {
	entitled := named("Aardvark", "Mango", "Xylophone")
	a := NewAssembler(fakeSource(entitled), fakeEntitlements{tags: entitled}, fakeFavorites{"xylophone"}, fakeGate{})

	got, err := a.Assemble(context.Background(), viewer, "", Options{Sort: SortAlphabetical, FavoritesFirst: true})
	require.NoError(t, err)
	require.NotEmpty(t, got)
	assert.Equal(t, "xylophone", got[0].ID)
}

func TestAssemble_FavoritesFirstDisabledIgnoresFavorites(t *testing.T) {
	entitled := named("Alpha", "Zulu")
	a := NewAssembler(fakeSource(entitled), fakeEntitlements{tags: entitled}, fakeFavorites{"zulu"}, fakeGate{})

	got, err := a.Assemble(context.Background(), viewer, "", Options{Sort: SortAlphabetical})
	require.NoError(t, err)
	assert.Equal(t, []string{"Alpha", "Zulu"}, tag.Names(got))
}

func TestAssemble_IncludeUnentitledAppendsAfterEntitled(t *testing.T) {
	entitled := []tag.Tag{{ID: "zed", Name: "Zed"}}
	all := []tag.Tag{
		{ID: "aaa", Name: "Aaa", Permission: "locked.aaa"},
		{ID: "zed", Name: "Zed"},
		{ID: "open", Name: "Open"},
	}
	a := NewAssembler(fakeSource(all), fakeEntitlements{tags: entitled}, fakeFavorites(nil), fakeGate{})

	got, err := a.Assemble(context.Background(), viewer, "", Options{Sort: SortAlphabetical, IncludeUnentitled: true})
	require.NoError(t, err)
	// "open" is permitted but not entitled by the repository, so it is neither
	// entitled nor a preview entry.
	assert.Equal(t, []string{"zed", "aaa"}, tag.IDs(got))

	got, err = a.Assemble(context.Background(), viewer, "aa", Options{Sort: SortAlphabetical, IncludeUnentitled: true})
	require.NoError(t, err)
	assert.Equal(t, []string{"aaa"}, tag.IDs(got))
}

func TestAssemble_FavoritesOnly(t *testing.T) {
	entitled := named("Alpha", "Beta", "Gamma")
	a := NewAssembler(fakeSource(entitled), fakeEntitlements{tags: entitled}, fakeFavorites{"gamma", "alpha", "ghost"}, fakeGate{})

	got, err := a.Assemble(context.Background(), viewer, "", Options{Sort: SortAlphabetical, FavoritesOnly: true, IncludeUnentitled: true})
	require.NoError(t, err)
	assert.Equal(t, []string{"Alpha", "Gamma"}, tag.Names(got))
}

func TestAssemble_IdempotentForDeterministicSorts(t *testing.T) {
	entitled := []tag.Tag{
		{ID: "c", Name: "charlie", Order: 1},
		{ID: "a", Name: "Alpha", Order: 1},
		{ID: "b", Name: "bravo", Order: 0},
	}
	a := NewAssembler(fakeSource(entitled), fakeEntitlements{tags: entitled}, fakeFavorites{"b"}, fakeGate{})

	for _, st := range []SortType{SortAlphabetical, SortCustom, SortNone} {
		opts := Options{Sort: st, FavoritesFirst: true}
		first, err := a.Assemble(context.Background(), viewer, "", opts)
		require.NoError(t, err)
		second, err := a.Assemble(context.Background(), viewer, "", opts)
		require.NoError(t, err)
		assert.Equal(t, tag.IDs(first), tag.IDs(second), "sort %s", st)
	}
}

func TestAssemble_EntitlementError(t *testing.T) {
	a := NewAssembler(fakeSource(nil), fakeEntitlements{err: errors.New("db down")}, fakeFavorites(nil), fakeGate{})

	_, err := a.Assemble(context.Background(), viewer, "", Options{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "load viewer tags")
}

func TestAssemble_EveryResultIsEntitledOrPreview(t *testing.T) {
	entitled := named("One", "Two")
	all := append(named("One", "Two"), tag.Tag{ID: "three", Name: "Three", Permission: "locked.three"})
	a := NewAssembler(fakeSource(all), fakeEntitlements{tags: entitled}, fakeFavorites(nil), fakeGate{})

	for _, include := range []bool{false, true} {
		got, err := a.Assemble(context.Background(), viewer, "o", Options{Sort: SortRandom, IncludeUnentitled: include})
		require.NoError(t, err)
		for _, tg := range got {
			isEntitled := tg.ID == "one" || tg.ID == "two"
			if !isEntitled {
				assert.True(t, include, "unexpected unentitled tag %s", tg.ID)
				assert.False(t, fakeGate{}.HasPermission(context.Background(), viewer, tg.Permission))
			}
			assert.Contains(t, strings.ToLower(tg.Name), "o")
		}
	}
}
