package catalog

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"comboselect/internal/domain"
)

func openTemp(t *testing.T) *Catalog {
	t.Helper()
	c, err := Open(filepath.Join(t.TempDir(), "data", "catalog.db"))
	require.NoError(t, err)
	t.Cleanup(func() { c.Close() })
	return c
}

func tags() domain.OptionList {
	return domain.OptionList{
		domain.NewOption("misc", "Miscellaneous"),
		domain.NewGroup("Languages",
			domain.Option{Value: "go", Label: "Go"},
			domain.Option{Value: "rust", Label: "Rust"},
		),
		domain.NewDisabledOption("old", "Old_stuff"),
		domain.NewGroup("Databases",
			domain.Option{Value: "sqlite", Label: "SQLite"},
		),
	}
}

func TestSeedRoundTripsShape(t *testing.T) {
	ctx := context.Background()
	c := openTemp(t)

	n, err := c.Seed(ctx, "tags", tags())
	require.NoError(t, err)
	assert.Equal(t, 5, n)

	got, err := c.Collection("tags").FetchInitial(ctx)
	require.NoError(t, err)
	assert.Equal(t, tags(), got)

	names, err := c.Collections(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"tags"}, names)
}

func TestSeedLeavesExistingCollection(t *testing.T) {
	ctx := context.Background()
	c := openTemp(t)

	_, err := c.Seed(ctx, "tags", tags())
	require.NoError(t, err)
	n, err := c.Seed(ctx, "tags", domain.OptionList{domain.NewOption("x", "X")})
	require.NoError(t, err)
	assert.Zero(t, n)

	count, err := c.Count(ctx, "tags")
	require.NoError(t, err)
	assert.Equal(t, 5, count)
}

func TestSearchKeepsGroupsOfMatches(t *testing.T) {
	ctx := context.Background()
	c := openTemp(t)
	_, err := c.Seed(ctx, "tags", tags())
	require.NoError(t, err)

	got, err := c.Collection("tags").Search(ctx, "GO")
	require.NoError(t, err)
	assert.Equal(t, domain.OptionList{
		domain.NewGroup("Languages", domain.Option{Value: "go", Label: "Go"}),
	}, got)

	all, err := c.Collection("tags").Search(ctx, "  ")
	require.NoError(t, err)
	assert.Equal(t, 5, all.Count())
}

func TestSearchTreatsWildcardsLiterally(t *testing.T) {
	ctx := context.Background()
	c := openTemp(t)
	_, err := c.Seed(ctx, "tags", tags())
	require.NoError(t, err)

	got, err := c.Collection("tags").Search(ctx, "_")
	require.NoError(t, err)
	require.Equal(t, 1, got.Count())
	assert.Equal(t, "old", got.Flatten()[0].Value)

	none, err := c.Collection("tags").Search(ctx, "%")
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestSearchFoldsNonASCIICase(t *testing.T) {
	ctx := context.Background()
	c := openTemp(t)
	writers := domain.OptionList{
		domain.NewOption("zola", "Émile Zola"),
		domain.NewOption("oz", "Amos Oz"),
		domain.NewOption("ozick", "ÖZLEM Ozick"),
	}
	_, err := c.Seed(ctx, "writers", writers)
	require.NoError(t, err)

	for _, q := range []string{"émile", "ÉMILE", "özlem"} {
		got, err := c.Collection("writers").Search(ctx, q)
		require.NoError(t, err)
		assert.Equal(t, writers.Filter(q, []string{domain.FieldLabel}), got, q)
		assert.Equal(t, 1, got.Count(), q)
	}
}

func TestSearchFields(t *testing.T) {
	ctx := context.Background()
	c := openTemp(t)
	_, err := c.Seed(ctx, "tags", tags())
	require.NoError(t, err)

	byLabel, err := c.Collection("tags").Search(ctx, "misc")
	require.NoError(t, err)
	assert.Equal(t, 1, byLabel.Count())

	byValue, err := c.Collection("tags", domain.FieldValue).Search(ctx, "sqli")
	require.NoError(t, err)
	assert.Equal(t, 1, byValue.Count())

	labelOnly, err := c.Collection("tags").Search(ctx, "ust")
	require.NoError(t, err)
	assert.Equal(t, 1, labelOnly.Count())
}

func TestLabelLookups(t *testing.T) {
	ctx := context.Background()
	c := openTemp(t)
	_, err := c.Seed(ctx, "authors", SampleAuthors())
	require.NoError(t, err)
	col := c.Collection("authors")

	label, err := col.LabelFor(ctx, "8")
	require.NoError(t, err)
	assert.Equal(t, "Grace Hopper", label)

	label, err = col.LabelFor(ctx, "999")
	require.NoError(t, err)
	assert.Empty(t, label)

	opts, err := col.LabelsFor(ctx, []string{"15", "999", "1", "15"})
	require.NoError(t, err)
	assert.Equal(t, []domain.Option{
		{Value: "15", Label: "Rob Pike"},
		{Value: "1", Label: "Ada Lovelace"},
	}, opts)
}

func TestUpdateLabel(t *testing.T) {
	ctx := context.Background()
	c := openTemp(t)
	_, err := c.Seed(ctx, "authors", SampleAuthors())
	require.NoError(t, err)

	require.NoError(t, c.UpdateLabel(ctx, "authors", "2", "A. M. Turing"))
	label, err := c.Collection("authors").LabelFor(ctx, "2")
	require.NoError(t, err)
	assert.Equal(t, "A. M. Turing", label)

	err = c.UpdateLabel(ctx, "authors", "404", "Nobody")
	assert.ErrorIs(t, err, ErrNotFound)
	err = c.UpdateLabel(ctx, "missing", "2", "Nobody")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestCollectionsAreIsolated(t *testing.T) {
	ctx := context.Background()
	c := openTemp(t)
	_, err := c.Seed(ctx, "a", domain.OptionList{domain.NewOption("1", "One")})
	require.NoError(t, err)
	_, err = c.Seed(ctx, "b", domain.OptionList{domain.NewOption("1", "Uno")})
	require.NoError(t, err)

	label, err := c.Collection("b").LabelFor(ctx, "1")
	require.NoError(t, err)
	assert.Equal(t, "Uno", label)
}

func TestCancelledContext(t *testing.T) {
	c := openTemp(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := c.Collection("tags").FetchInitial(ctx)
	assert.Error(t, err)
}
