package labels

import (
	"sync"

	"comboselect/internal/domain"
)

// Repository caches value → label mappings for one widget
type Repository struct {
	mu     sync.RWMutex
	labels map[string]string
}

// NewRepository creates an empty repository
func NewRepository() *Repository {
	return &Repository{labels: make(map[string]string)}
}

// Get returns the cached label for value
func (r *Repository) Get(value string) (string, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	label, ok := r.labels[value]
	return label, ok
}

// Put records a label. The empty value is the placeholder sentinel and never cached.
func (r *Repository) Put(value, label string) {
	if value == "" {
		return
	}
	r.mu.Lock()
	r.labels[value] = label
	r.mu.Unlock()
}

// PutOptions records every option of the list, descending into groups
func (r *Repository) PutOptions(list domain.OptionList) {
	opts := list.Flatten()
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, o := range opts {
		if o.Value != "" {
			r.labels[o.Value] = o.Label
		}
	}
}

// Forget drops a cached label so the next lookup goes to the provider
func (r *Repository) Forget(values ...string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, v := range values {
		delete(r.labels, v)
	}
}

// Len returns the number of cached labels
func (r *Repository) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.labels)
}
