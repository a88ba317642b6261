// Package resource serializes models into the record shape every endpoint
// returns:
//
//	{"model": "inventory.item", "pk": 1, "fields": {"name": "Hammer", "category": 3}}
//
// Foreign keys stay as raw ids in Fields; pkg/hydrate swaps them for
// summaries afterwards.
package resource

// Map is a convenient alias for the output of ToArray.
type Map = map[string]any

// Model is implemented by every persisted type that can be serialized.
type Model interface {
	// ResourceName is the qualified model label, e.g. "inventory.item".
	ResourceName() string
	PrimaryKey() uint
	// ToArray returns the record fields with foreign keys as raw ids.
	ToArray() Map
}

// Record is the serialized form of one model.
type Record struct {
	Model  string `json:"model"`
	PK     uint   `json:"pk"`
	Fields Map    `json:"fields"`
}

// New serializes a single model.
func New(m Model) Record {
	return Record{Model: m.ResourceName(), PK: m.PrimaryKey(), Fields: m.ToArray()}
}

// Collection serializes a slice of models, preserving order.
func Collection[T Model](items []T) []Record {
	out := make([]Record, 0, len(items))
	for _, it := range items {
		out = append(out, New(it))
	}
	return out
}

// Without returns a copy of rec with the named fields removed.
func Without(rec Record, fields ...string) Record {
	cp := make(Map, len(rec.Fields))
	for k, v := range rec.Fields {
		cp[k] = v
	}
	for _, f := range fields {
		delete(cp, f)
	}
	return Record{Model: rec.Model, PK: rec.PK, Fields: cp}
}
