package provider

import (
	"context"
	"strings"

	"golang.org/x/sync/singleflight"

	"comboselect/internal/domain"
)

// deduped coalesces identical concurrent label lookups into one call
type deduped struct {
	Provider
	group singleflight.Group
}

// Dedup wraps p so concurrent LabelFor/LabelsFor calls for the same
// value set share one underlying call. The shared call outlives the
// cancellation of whichever caller started it.
func Dedup(p Provider) Provider {
	if _, ok := p.(*deduped); ok {
		return p
	}
	return &deduped{Provider: p}
}

func (d *deduped) LabelFor(ctx context.Context, value string) (string, error) {
	v, err, _ := d.group.Do("one\x00"+value, func() (interface{}, error) {
		return d.Provider.LabelFor(context.WithoutCancel(ctx), value)
	})
	if err != nil {
		return "", err
	}
	return v.(string), nil
}

func (d *deduped) LabelsFor(ctx context.Context, values []string) ([]domain.Option, error) {
	v, err, _ := d.group.Do("many\x00"+strings.Join(values, "\x00"), func() (interface{}, error) {
		return d.Provider.LabelsFor(context.WithoutCancel(ctx), values)
	})
	if err != nil {
		return nil, err
	}
	opts, _ := v.([]domain.Option)
	out := make([]domain.Option, len(opts))
	copy(out, opts)
	return out, nil
}

// Supports forwards capability checks to the wrapped provider
func (d *deduped) Supports(c Capability) bool {
	return Supports(d.Provider, c)
}
