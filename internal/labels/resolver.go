package labels

import (
	"context"
	"log"
	"sync"

	"comboselect/internal/domain"
)

// Source is the label side of an option provider
type Source interface {
	LabelFor(ctx context.Context, value string) (string, error)
	LabelsFor(ctx context.Context, values []string) ([]domain.Option, error)
}

// Resolver answers "label of value V" in this order: repository, loaded
// options, construction-time initial labels, then (asynchronously) the
// provider. Anything still unresolved displays as the value itself.
type Resolver struct {
	repo          *Repository
	initialValue  string
	initialLabel  string
	initialLabels map[string]string

	mu      sync.Mutex
	pending map[string]struct{}
}

// NewResolver creates a resolver over repo. initial is the selection the
// initial label(s) were rendered for.
func NewResolver(repo *Repository, initial domain.Selection, initialLabel string, initialLabels []domain.Option) *Resolver {
	r := &Resolver{
		repo:          repo,
		initialLabels: make(map[string]string),
		pending:       make(map[string]struct{}),
	}
	if !initial.Multiple {
		r.initialValue = initial.Value
		r.initialLabel = initialLabel
	}
	inInitial := make(map[string]bool, len(initial.Values))
	for _, v := range initial.Values {
		inInitial[v] = true
	}
	for _, o := range initialLabels {
		if inInitial[o.Value] {
			r.initialLabels[o.Value] = o.Label
		}
	}
	return r
}

// Repository returns the backing cache
func (r *Resolver) Repository() *Repository {
	return r.repo
}

// Lookup resolves value without touching the provider. Hits from the
// loaded options or the initial labels are cached.
func (r *Resolver) Lookup(value string, options domain.OptionList) (string, bool) {
	if label, ok := r.repo.Get(value); ok {
		return label, true
	}
	if o, ok := options.Find(value); ok {
		r.repo.Put(value, o.Label)
		return o.Label, true
	}
	if value != "" && value == r.initialValue && r.initialLabel != "" {
		r.repo.Put(value, r.initialLabel)
		return r.initialLabel, true
	}
	if label, ok := r.initialLabels[value]; ok {
		r.repo.Put(value, label)
		return label, true
	}
	return "", false
}

// Display returns the label to show for value, falling back to the value.
// The fallback is never cached.
func (r *Resolver) Display(value string, options domain.OptionList) string {
	if label, ok := r.Lookup(value, options); ok {
		return label
	}
	return value
}

// Unresolved returns the values Lookup can't answer
func (r *Resolver) Unresolved(values []string, options domain.OptionList) []string {
	var missing []string
	for _, v := range values {
		if v == "" {
			continue
		}
		if _, ok := r.Lookup(v, options); !ok {
			missing = append(missing, v)
		}
	}
	return missing
}

// Claim marks values as being fetched and returns the ones that weren't
// already pending. An empty result means no provider call is needed.
func (r *Resolver) Claim(values []string) []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	var claimed []string
	for _, v := range values {
		if _, busy := r.pending[v]; busy {
			continue
		}
		r.pending[v] = struct{}{}
		claimed = append(claimed, v)
	}
	return claimed
}

// Release clears the pending marks set by Claim
func (r *Resolver) Release(values []string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, v := range values {
		delete(r.pending, v)
	}
}

// Fetch asks src for the labels of values, one LabelFor call for a single
// value in single-select mode and one batched LabelsFor call otherwise.
// Returned labels are cached. Errors are logged and yield no labels.
func Fetch(ctx context.Context, src Source, repo *Repository, values []string, batch bool) map[string]string {
	found := make(map[string]string, len(values))
	if len(values) == 0 {
		return found
	}

	if !batch && len(values) == 1 {
		label, err := src.LabelFor(ctx, values[0])
		if err != nil {
			log.Printf("labels: failed to fetch label for %q: %v", values[0], err)
			return found
		}
		if label != "" {
			found[values[0]] = label
		}
	} else {
		opts, err := src.LabelsFor(ctx, values)
		if err != nil {
			log.Printf("labels: failed to fetch %d labels: %v", len(values), err)
			return found
		}
		wanted := make(map[string]bool, len(values))
		for _, v := range values {
			wanted[v] = true
		}
		for _, o := range opts {
			if wanted[o.Value] && o.Label != "" {
				found[o.Value] = o.Label
			}
		}
	}

	for v, label := range found {
		repo.Put(v, label)
	}
	return found
}
