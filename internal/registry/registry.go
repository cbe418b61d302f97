// Package registry maps model identifiers to the family that serves them.
package registry

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path"
	"slices"
	"strings"

	"github.com/DjordjeVuckovic/plm-eval/internal/apperr"
	"github.com/DjordjeVuckovic/plm-eval/internal/embedding"
	"github.com/DjordjeVuckovic/plm-eval/internal/encoder"
)

var (
	ErrUnknownModel   = errors.New("unknown model")
	ErrAmbiguousModel = errors.New("ambiguous model")
	ErrDuplicateModel = errors.New("model registered twice")
)

// Options tune the adapter built for a model.
type Options struct {
	Pooling   encoder.Pooling
	BatchSize int
}

// Constructor builds the single-batch primitive for one model of a family.
type Constructor func(ctx context.Context, name string, cfg *embedding.Config, opts Options) (encoder.TextEncoder, error)

// batchLimiter is implemented by primitives whose backend rejects requests
// above a fixed size.
type batchLimiter interface {
	MaxBatchSize() int
}

type FamilySpec struct {
	Family encoder.Family
	// ContextLength is the model's maximum token count; 0 when it varies per
	// model.
	ContextLength int
	Names         []string
	// Patterns are path.Match globs consulted when no exact name matches.
	Patterns []string
	New      Constructor
}

type Registry struct {
	families map[encoder.Family]*FamilySpec
	order    []encoder.Family
	exact    map[string]encoder.Family
}

func New() *Registry {
	return &Registry{
		families: make(map[encoder.Family]*FamilySpec),
		exact:    make(map[string]encoder.Family),
	}
}

func (r *Registry) Register(spec FamilySpec) error {
	if spec.Family == "" {
		return fmt.Errorf("register: empty family")
	}
	if spec.New == nil {
		return fmt.Errorf("register %s: nil constructor", spec.Family)
	}
	if _, ok := r.families[spec.Family]; ok {
		return fmt.Errorf("register %s: family already registered", spec.Family)
	}

	seen := make(map[string]bool, len(spec.Names))
	for _, name := range spec.Names {
		if other, ok := r.exact[name]; ok {
			return fmt.Errorf("register %s: %q already belongs to %s: %w", spec.Family, name, other, ErrDuplicateModel)
		}
		if seen[name] {
			return fmt.Errorf("register %s: %q listed twice: %w", spec.Family, name, ErrDuplicateModel)
		}
		seen[name] = true
	}
	for _, p := range spec.Patterns {
		if _, err := path.Match(p, ""); err != nil {
			return fmt.Errorf("register %s: pattern %q: %w", spec.Family, p, err)
		}
	}

	for _, name := range spec.Names {
		r.exact[name] = spec.Family
	}
	stored := spec
	r.families[spec.Family] = &stored
	r.order = append(r.order, spec.Family)

	return nil
}

// Resolve finds the family serving name. Exact names win over patterns; a
// name matched by patterns of several families is rejected.
func (r *Registry) Resolve(name string) (*FamilySpec, error) {
	if family, ok := r.exact[name]; ok {
		return r.families[family], nil
	}

	var matched []encoder.Family
	for _, family := range r.order {
		for _, p := range r.families[family].Patterns {
			if ok, _ := path.Match(p, name); ok {
				matched = append(matched, family)
				break
			}
		}
	}

	switch len(matched) {
	case 0:
		return nil, apperr.NewValidationWrap(fmt.Sprintf("resolve %q", name), ErrUnknownModel)
	case 1:
		return r.families[matched[0]], nil
	default:
		families := make([]string, len(matched))
		for i, f := range matched {
			families[i] = string(f)
		}
		return nil, apperr.NewValidationWrap(
			fmt.Sprintf("resolve %q: matched by %s", name, strings.Join(families, ", ")),
			ErrAmbiguousModel,
		)
	}
}

// Build resolves name and wraps its family primitive in an adapter.
func (r *Registry) Build(ctx context.Context, name string, cfg *embedding.Config, opts Options) (*encoder.Adapter, error) {
	spec, err := r.Resolve(name)
	if err != nil {
		return nil, err
	}

	text, err := spec.New(ctx, name, cfg, opts)
	if err != nil {
		return nil, fmt.Errorf("build %s model %q: %w", spec.Family, name, err)
	}

	return encoder.NewAdapter(name, spec.Family, text, encoder.WithBatchSize(batchSize(name, text, opts.BatchSize))), nil
}

// batchSize caps the requested size at the backend's limit, if it has one.
func batchSize(name string, text encoder.TextEncoder, requested int) int {
	l, ok := text.(batchLimiter)
	if !ok {
		return requested
	}
	limit := l.MaxBatchSize()
	if limit <= 0 || (requested > 0 && requested <= limit) {
		return requested
	}
	slog.Info("batch size capped by backend", "model", name, "requested", requested, "limit", limit)
	return limit
}

// Families returns the registered families in registration order.
func (r *Registry) Families() []*FamilySpec {
	out := make([]*FamilySpec, 0, len(r.order))
	for _, f := range r.order {
		out = append(out, r.families[f])
	}
	return out
}

// Names returns the exact identifiers of family, sorted.
func (r *Registry) Names(family encoder.Family) []string {
	spec, ok := r.families[family]
	if !ok {
		return nil
	}
	names := slices.Clone(spec.Names)
	slices.Sort(names)
	return names
}
