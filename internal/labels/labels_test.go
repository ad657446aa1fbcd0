package labels

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"comboselect/internal/domain"
)

type fakeSource struct {
	mu         sync.Mutex
	single     map[string]string
	err        error
	labelCalls int
	batchCalls [][]string
}

func (f *fakeSource) LabelFor(_ context.Context, value string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.labelCalls++
	if f.err != nil {
		return "", f.err
	}
	return f.single[value], nil
}

func (f *fakeSource) LabelsFor(_ context.Context, values []string) ([]domain.Option, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.batchCalls = append(f.batchCalls, append([]string(nil), values...))
	if f.err != nil {
		return nil, f.err
	}
	var out []domain.Option
	for _, v := range values {
		if l, ok := f.single[v]; ok {
			out = append(out, domain.Option{Value: v, Label: l})
		}
	}
	out = append(out, domain.Option{Value: "unasked", Label: "ignored"})
	return out, nil
}

func TestRepositoryIgnoresEmptySentinel(t *testing.T) {
	repo := NewRepository()
	repo.Put("", "Nothing")
	repo.Put("1", "One")

	_, ok := repo.Get("")
	assert.False(t, ok)
	assert.Equal(t, 1, repo.Len())

	repo.Forget("1")
	assert.Zero(t, repo.Len())
}

func TestRepositoryPutOptionsFlattensGroups(t *testing.T) {
	repo := NewRepository()
	repo.PutOptions(domain.OptionList{
		domain.NewOption("1", "One"),
		domain.NewGroup("G", domain.Option{Value: "2", Label: "Two"}),
	})

	label, ok := repo.Get("2")
	require.True(t, ok)
	assert.Equal(t, "Two", label)
	assert.Equal(t, 2, repo.Len())
	_, ok = repo.Get("G")
	assert.False(t, ok, "group labels are not values")
}

func TestLookupOrder(t *testing.T) {
	repo := NewRepository()
	r := NewResolver(repo, domain.Selection{Value: "9"}, "Nine (initial)", nil)
	options := domain.OptionList{domain.NewOption("1", "Alice"), domain.NewOption("2", "Bob")}

	label, ok := r.Lookup("2", options)
	require.True(t, ok)
	assert.Equal(t, "Bob", label)
	cached, _ := repo.Get("2")
	assert.Equal(t, "Bob", cached, "hits from loaded options are cached")

	label, ok = r.Lookup("9", options)
	require.True(t, ok)
	assert.Equal(t, "Nine (initial)", label)

	_, ok = r.Lookup("5", options)
	assert.False(t, ok)
	assert.Equal(t, "5", r.Display("5", options))
	_, cachedFallback := repo.Get("5")
	assert.False(t, cachedFallback, "fallback labels are not cached")
}

func TestRepositoryWinsOverOptions(t *testing.T) {
	repo := NewRepository()
	repo.Put("1", "Cached")
	r := NewResolver(repo, domain.Selection{}, "", nil)

	assert.Equal(t, "Cached", r.Display("1", domain.OptionList{domain.NewOption("1", "Fresh")}))
}

func TestInitialLabelsOnlyForInitialValues(t *testing.T) {
	r := NewResolver(NewRepository(),
		domain.Selection{Multiple: true, Values: []string{"a", "b"}}, "",
		[]domain.Option{{Value: "a", Label: "Alpha"}, {Value: "z", Label: "Zulu"}})

	assert.Equal(t, "Alpha", r.Display("a", nil))
	assert.Equal(t, "z", r.Display("z", nil))
	assert.Equal(t, []string{"b", "z"}, r.Unresolved([]string{"a", "b", "z", ""}, nil))
}

func TestClaimSkipsPendingValues(t *testing.T) {
	r := NewResolver(NewRepository(), domain.Selection{}, "", nil)

	assert.Equal(t, []string{"1", "2"}, r.Claim([]string{"1", "2"}))
	assert.Equal(t, []string{"3"}, r.Claim([]string{"1", "3"}))
	assert.Empty(t, r.Claim([]string{"1"}), "still pending")

	r.Release([]string{"1", "2", "3"})
	assert.Equal(t, []string{"1"}, r.Claim([]string{"1"}))
}

func TestFetchSingleUsesLabelFor(t *testing.T) {
	src := &fakeSource{single: map[string]string{"7": "Seven"}}
	repo := NewRepository()

	got := Fetch(context.Background(), src, repo, []string{"7"}, false)
	assert.Equal(t, map[string]string{"7": "Seven"}, got)
	assert.Equal(t, 1, src.labelCalls)
	assert.Empty(t, src.batchCalls)

	cached, _ := repo.Get("7")
	assert.Equal(t, "Seven", cached)
}

func TestFetchBatchMakesOneCall(t *testing.T) {
	src := &fakeSource{single: map[string]string{"1": "One", "2": "Two"}}
	repo := NewRepository()

	got := Fetch(context.Background(), src, repo, []string{"1", "2", "3"}, true)
	assert.Equal(t, map[string]string{"1": "One", "2": "Two"}, got)
	assert.Equal(t, [][]string{{"1", "2", "3"}}, src.batchCalls)
	_, ok := repo.Get("unasked")
	assert.False(t, ok)
}

func TestFetchErrorYieldsNoLabels(t *testing.T) {
	src := &fakeSource{err: errors.New("boom")}
	repo := NewRepository()

	assert.Empty(t, Fetch(context.Background(), src, repo, []string{"1"}, false))
	assert.Empty(t, Fetch(context.Background(), src, repo, []string{"1", "2"}, true))
	assert.Zero(t, repo.Len())
}
