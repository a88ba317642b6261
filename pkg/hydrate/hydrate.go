// Package hydrate replaces raw foreign-key ids inside serialized records with
// small {id, name, slug} summaries of the referenced rows.
//
//	h := hydrate.New(hydrate.KeepUnresolved)
//	h.Register("inventory.item",
//	    hydrate.Relation{Field: "category", Resolver: categories},
//	    hydrate.Relation{Field: "sub_category", Resolver: subCategories},
//	)
//	err := h.Hydrate(ctx, records)
//
// Hydration never writes to the store. Every resolver sees the ids as they
// were before any relation was applied, and resolution is batched: one
// Resolve call per relation per Apply.
package hydrate

import (
	"context"
	"encoding/json"
	"fmt"
	"math"

	"github.com/shashiranjanraj/stockpile/pkg/apperr"
	"github.com/shashiranjanraj/stockpile/pkg/resource"
)

// Summary is the embedded form of a referenced row.
type Summary struct {
	ID   uint   `json:"id"`
	Name string `json:"name"`
	Slug string `json:"slug"`
}

// Resolver looks up summaries for a batch of ids. Ids with no matching row
// are simply absent from the returned map.
type Resolver interface {
	Resolve(ctx context.Context, ids []uint) (map[uint]Summary, error)
}

// ResolverFunc adapts a function to Resolver.
type ResolverFunc func(ctx context.Context, ids []uint) (map[uint]Summary, error)

func (f ResolverFunc) Resolve(ctx context.Context, ids []uint) (map[uint]Summary, error) {
	return f(ctx, ids)
}

// Relation names a record field that holds a foreign key and how to resolve it.
type Relation struct {
	Field    string
	Resolver Resolver
}

// Mode decides what happens to ids that resolve to nothing.
type Mode int

const (
	// KeepUnresolved leaves the raw id in place.
	KeepUnresolved Mode = iota
	// NullUnresolved replaces the id with null.
	NullUnresolved
	// Strict fails the whole call with apperr.NotFound.
	Strict
)

// ParseMode maps "keep", "null" and "strict" to a Mode. Anything else is KeepUnresolved.
func ParseMode(s string) Mode {
	switch s {
	case "null":
		return NullUnresolved
	case "strict":
		return Strict
	default:
		return KeepUnresolved
	}
}

// Apply hydrates records in place.
func Apply(ctx context.Context, records []resource.Record, relations []Relation, mode Mode) error {
	if len(records) == 0 || len(relations) == 0 {
		return nil
	}

	// Collect every relation's ids up front so no resolver sees another's output.
	type ref struct {
		rec int
		id  uint
	}
	type pending struct {
		rel   Relation
		ids   []uint
		refs  []ref
		found map[uint]Summary
	}
	work := make([]pending, 0, len(relations))
	for _, rel := range relations {
		p := pending{rel: rel}
		seen := map[uint]bool{}
		for i, rec := range records {
			id, ok := rawID(rec.Fields[rel.Field])
			if !ok {
				continue
			}
			p.refs = append(p.refs, ref{rec: i, id: id})
			if !seen[id] {
				seen[id] = true
				p.ids = append(p.ids, id)
			}
		}
		work = append(work, p)
	}

	for i := range work {
		p := &work[i]
		if len(p.ids) == 0 {
			continue
		}
		found, err := p.rel.Resolver.Resolve(ctx, p.ids)
		if err != nil {
			return fmt.Errorf("hydrate %s: %w", p.rel.Field, err)
		}
		p.found = found
	}

	// Strict mode fails before any record is touched, naming the first
	// unresolved id in relation then record order.
	if mode == Strict {
		for _, p := range work {
			for _, r := range p.refs {
				if _, ok := p.found[r.id]; !ok {
					return apperr.NotFoundf("%s with id %d Doesn't Exists", p.rel.Field, r.id)
				}
			}
		}
	}

	for _, p := range work {
		for _, r := range p.refs {
			if s, ok := p.found[r.id]; ok {
				records[r.rec].Fields[p.rel.Field] = s
			} else if mode == NullUnresolved {
				records[r.rec].Fields[p.rel.Field] = nil
			}
		}
	}

	return nil
}

// rawID reports whether v is an unhydrated foreign key and returns it.
// Nil, zero, negative and non-integral values are not ids.
func rawID(v any) (uint, bool) {
	switch n := v.(type) {
	case uint:
		return n, n > 0
	case *uint:
		if n == nil {
			return 0, false
		}
		return *n, *n > 0
	case uint32:
		return uint(n), n > 0
	case uint64:
		return uint(n), n > 0
	case int:
		return uint(n), n > 0
	case int32:
		return uint(n), n > 0
	case int64:
		return uint(n), n > 0
	case float64:
		if n <= 0 || n != math.Trunc(n) {
			return 0, false
		}
		return uint(n), true
	case json.Number:
		i, err := n.Int64()
		if err != nil || i <= 0 {
			return 0, false
		}
		return uint(i), true
	default:
		return 0, false
	}
}

// Hydrator applies a registered relation set per model name.
type Hydrator struct {
	mode      Mode
	relations map[string][]Relation
}

// New returns an empty Hydrator.
func New(mode Mode) *Hydrator {
	return &Hydrator{mode: mode, relations: map[string][]Relation{}}
}

// Register sets the relations hydrated for records of model.
func (h *Hydrator) Register(model string, rels ...Relation) *Hydrator {
	h.relations[model] = append(h.relations[model], rels...)
	return h
}

// Mode returns the configured unresolved-id policy.
func (h *Hydrator) Mode() Mode { return h.mode }

// Hydrate applies the registered relations to records, grouping them by model.
// Records of unregistered models are left as they are.
func (h *Hydrator) Hydrate(ctx context.Context, records []resource.Record) error {
	groups := map[string][]int{}
	var order []string
	for i, rec := range records {
		if _, ok := h.relations[rec.Model]; !ok {
			continue
		}
		if _, ok := groups[rec.Model]; !ok {
			order = append(order, rec.Model)
		}
		groups[rec.Model] = append(groups[rec.Model], i)
	}

	for _, model := range order {
		idx := groups[model]
		batch := make([]resource.Record, len(idx))
		for j, i := range idx {
			batch[j] = records[i]
		}
		// Fields maps are shared, so hydrating batch updates records too.
		if err := Apply(ctx, batch, h.relations[model], h.mode); err != nil {
			return err
		}
	}
	return nil
}

// One hydrates a single record.
func (h *Hydrator) One(ctx context.Context, rec resource.Record) (resource.Record, error) {
	recs := []resource.Record{rec}
	if err := h.Hydrate(ctx, recs); err != nil {
		return resource.Record{}, err
	}
	return recs[0], nil
}
