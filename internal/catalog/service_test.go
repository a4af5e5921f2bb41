package catalog

import (
	"context"
	"testing"

	pkgerrors "github.com/arto/mercator-backend/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEnsureSeedPopulatesEmptyCatalog(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	require.NoError(t, svc.EnsureSeed(ctx))

	chapters, err := svc.ListChapters(ctx)
	require.NoError(t, err)
	require.Len(t, chapters, 4)
	assert.Equal(t, "nature-landscapes-noir", chapters[0].Slug)
	assert.Equal(t, SentinelChapterSlug, chapters[2].Slug)
	assert.True(t, chapters[2].IsLive)

	maps, err := svc.ListMaps(ctx)
	require.NoError(t, err)
	require.Len(t, maps, 1)
	assert.Equal(t, "saxony", maps[0].Slug)
	assert.Equal(t, SentinelChapterSlug, maps[0].ChapterSlug)
	require.Len(t, maps[0].Sizes, 3)
	assert.Equal(t, "3876", maps[0].Sizes[0].ID)

	// Second run is a no-op.
	require.NoError(t, svc.EnsureSeed(ctx))
	maps, err = svc.ListMaps(ctx)
	require.NoError(t, err)
	assert.Len(t, maps, 1)
}

func TestUpsertMapDefaultsAndNormalizes(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	saved, err := svc.UpsertMap(ctx, MapInput{
		Title:      "  Map of Europe, 1554 ",
		PrintImage: " https://example.com/plate.jpg ",
		Images:     []string{" /maps/a.jpg ", "", "/maps/b.jpg"},
	})
	require.NoError(t, err)

	assert.Equal(t, "map-of-europe-1554", saved.Slug)
	assert.Equal(t, "Map of Europe, 1554", saved.Title)
	assert.Equal(t, "1", saved.DisplayID)
	assert.Equal(t, SentinelChapterSlug, saved.ChapterSlug)
	assert.Equal(t, []string{"/maps/a.jpg", "/maps/b.jpg"}, []string(saved.Images))
	assert.Equal(t, "https://example.com/plate.jpg", saved.PrintFiles[RatioTwoThree])
	assert.Equal(t, "https://example.com/plate.jpg", saved.PrintFiles[RatioThreeFour])
	assert.Equal(t, DefaultSizes(), saved.Sizes)

	fetched, err := svc.GetMap(ctx, "map-of-europe-1554")
	require.NoError(t, err)
	assert.Equal(t, saved.Slug, fetched.Slug)
}

func TestUpsertMapRequiresSlugOrTitle(t *testing.T) {
	svc := newTestService(t)

	_, err := svc.UpsertMap(context.Background(), MapInput{Description: "no identity"})
	require.Error(t, err)
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeValidation, typed.Code())
}

func TestUpsertMapReplacePreservesPosition(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	first, err := svc.UpsertMap(ctx, MapInput{Slug: "saxony", Title: "Saxony"})
	require.NoError(t, err)
	_, err = svc.UpsertMap(ctx, MapInput{Slug: "europe", Title: "Europe"})
	require.NoError(t, err)

	replaced, err := svc.UpsertMap(ctx, MapInput{Slug: "saxony", Title: "Saxony, revised"})
	require.NoError(t, err)
	assert.Equal(t, first.Position, replaced.Position)
	assert.Equal(t, first.DisplayID, replaced.DisplayID)

	maps, err := svc.ListMaps(ctx)
	require.NoError(t, err)
	require.Len(t, maps, 2)
	assert.Equal(t, "saxony", maps[0].Slug)
	assert.Equal(t, "Saxony, revised", maps[0].Title)
}

func TestGetMapNotFound(t *testing.T) {
	svc := newTestService(t)

	_, err := svc.GetMap(context.Background(), "atlantis")
	require.Error(t, err)
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeNotFound, typed.Code())
}

func TestListChaptersFallsBackToDefaults(t *testing.T) {
	svc := newTestService(t)

	chapters, err := svc.ListChapters(context.Background())
	require.NoError(t, err)
	require.Len(t, chapters, 4)
	assert.Equal(t, "/collections/nature-landscapes-noir", chapters[0].Href)
}

func TestUpsertChapterDefaults(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	saved, err := svc.UpsertChapter(ctx, ChapterInput{
		Slug:   "iron-age-relics",
		Order:  5,
		Status: "nonsense",
	})
	require.NoError(t, err)

	assert.Equal(t, "05", saved.DisplayID)
	assert.Equal(t, "Untitled chapter", saved.Title)
	assert.Equal(t, "/collections/iron-age-relics", saved.Href)
	assert.Equal(t, "Untitled chapter", saved.SEOTitle)
	assert.Equal(t, "New direction", saved.Status)

	fetched, err := svc.GetChapter(ctx, "iron-age-relics")
	require.NoError(t, err)
	assert.Equal(t, saved.Href, fetched.Href)
}

func TestUpsertChapterRequiresSlug(t *testing.T) {
	svc := newTestService(t)

	_, err := svc.UpsertChapter(context.Background(), ChapterInput{Title: "No slug"})
	require.Error(t, err)
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeValidation, typed.Code())
}

func TestGetChapterSentinelFallback(t *testing.T) {
	svc := newTestService(t)

	chapter, err := svc.GetChapter(context.Background(), SentinelChapterSlug)
	require.NoError(t, err)
	assert.Equal(t, "The Mercator Archives", chapter.Title)
	assert.True(t, chapter.IsLive)

	_, err = svc.GetChapter(context.Background(), "atlantis")
	require.Error(t, err)
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeNotFound, typed.Code())
}
