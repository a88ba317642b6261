package hydrate_test

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/shashiranjanraj/stockpile/pkg/apperr"
	"github.com/shashiranjanraj/stockpile/pkg/hydrate"
	"github.com/shashiranjanraj/stockpile/pkg/resource"
)

// fakeResolver answers from a fixed table and records every batch it saw.
type fakeResolver struct {
	rows  map[uint]hydrate.Summary
	calls [][]uint
	err   error
}

func (f *fakeResolver) Resolve(_ context.Context, ids []uint) (map[uint]hydrate.Summary, error) {
	f.calls = append(f.calls, append([]uint(nil), ids...))
	if f.err != nil {
		return nil, f.err
	}
	out := map[uint]hydrate.Summary{}
	for _, id := range ids {
		if s, ok := f.rows[id]; ok {
			out[id] = s
		}
	}
	return out, nil
}

var (
	tools = hydrate.Summary{ID: 3, Name: "Tools", Slug: "tools"}
	hand  = hydrate.Summary{ID: 7, Name: "Hand Tools", Slug: "hand-tools"}
)

func itemRecord(pk uint, category, sub any) resource.Record {
	return resource.Record{
		Model:  "inventory.item",
		PK:     pk,
		Fields: resource.Map{"name": "Hammer", "category": category, "sub_category": sub},
	}
}

func TestApplyReplacesIDsWithSummaries(t *testing.T) {
	cats := &fakeResolver{rows: map[uint]hydrate.Summary{3: tools}}
	subs := &fakeResolver{rows: map[uint]hydrate.Summary{7: hand}}

	recs := []resource.Record{itemRecord(1, uint(3), uint(7)), itemRecord(2, uint(3), uint(7))}
	err := hydrate.Apply(context.Background(), recs, []hydrate.Relation{
		{Field: "category", Resolver: cats},
		{Field: "sub_category", Resolver: subs},
	}, hydrate.KeepUnresolved)
	require.NoError(t, err)

	for _, r := range recs {
		assert.Equal(t, tools, r.Fields["category"])
		assert.Equal(t, hand, r.Fields["sub_category"])
		assert.Equal(t, "Hammer", r.Fields["name"])
	}

	// One batch per relation, ids de-duplicated.
	assert.Equal(t, [][]uint{{3}}, cats.calls)
	assert.Equal(t, [][]uint{{7}}, subs.calls)
}

func TestApplyLeavesNullAndAbsentFieldsAlone(t *testing.T) {
	cats := &fakeResolver{rows: map[uint]hydrate.Summary{3: tools}}

	withNil := itemRecord(1, nil, nil)
	absent := resource.Record{Model: "inventory.item", PK: 2, Fields: resource.Map{"name": "Saw"}}
	var nilPtr *uint
	ptr := itemRecord(3, nilPtr, nil)

	recs := []resource.Record{withNil, absent, ptr}
	require.NoError(t, hydrate.Apply(context.Background(), recs,
		[]hydrate.Relation{{Field: "category", Resolver: cats}}, hydrate.Strict))

	assert.Nil(t, recs[0].Fields["category"])
	assert.NotContains(t, recs[1].Fields, "category")
	assert.Equal(t, nilPtr, recs[2].Fields["category"])
	assert.Empty(t, cats.calls, "no ids means no lookups")
}

func TestApplyUnresolvedModes(t *testing.T) {
	cats := &fakeResolver{rows: map[uint]hydrate.Summary{}}
	rel := []hydrate.Relation{{Field: "category", Resolver: cats}}

	keep := []resource.Record{itemRecord(1, uint(99), nil)}
	require.NoError(t, hydrate.Apply(context.Background(), keep, rel, hydrate.KeepUnresolved))
	assert.Equal(t, uint(99), keep[0].Fields["category"])

	null := []resource.Record{itemRecord(1, uint(99), nil)}
	require.NoError(t, hydrate.Apply(context.Background(), null, rel, hydrate.NullUnresolved))
	assert.Nil(t, null[0].Fields["category"])

	strict := []resource.Record{itemRecord(1, uint(99), nil)}
	err := hydrate.Apply(context.Background(), strict, rel, hydrate.Strict)
	require.Error(t, err)
	assert.Equal(t, apperr.NotFound, apperr.KindOf(err))
}

func TestApplyStrictReportsFirstMissingAndLeavesRecords(t *testing.T) {
	cats := &fakeResolver{rows: map[uint]hydrate.Summary{3: tools}}
	subs := &fakeResolver{rows: map[uint]hydrate.Summary{}}
	rels := []hydrate.Relation{{Field: "category", Resolver: cats}, {Field: "sub_category", Resolver: subs}}

	for i := 0; i < 20; i++ {
		recs := []resource.Record{
			itemRecord(1, uint(3), uint(41)),
			itemRecord(2, uint(3), uint(42)),
			itemRecord(3, uint(3), uint(43)),
		}
		err := hydrate.Apply(context.Background(), recs, rels, hydrate.Strict)
		require.Error(t, err)
		assert.Equal(t, "sub_category with id 41 Doesn't Exists", apperr.Message(err))
		for _, r := range recs {
			assert.Equal(t, uint(3), r.Fields["category"])
		}
	}
}

func TestApplySkipsAlreadyHydratedFields(t *testing.T) {
	cats := &fakeResolver{rows: map[uint]hydrate.Summary{3: tools}}
	recs := []resource.Record{itemRecord(1, tools, nil)}

	require.NoError(t, hydrate.Apply(context.Background(), recs,
		[]hydrate.Relation{{Field: "category", Resolver: cats}}, hydrate.KeepUnresolved))

	assert.Equal(t, tools, recs[0].Fields["category"])
	assert.Empty(t, cats.calls)
}

func TestApplyResolversSeeOriginalIDs(t *testing.T) {
	// The second relation reads the same field as the first; it must still
	// receive the raw id rather than the first relation's summary.
	first := &fakeResolver{rows: map[uint]hydrate.Summary{3: tools}}
	second := &fakeResolver{rows: map[uint]hydrate.Summary{}}

	recs := []resource.Record{itemRecord(1, float64(3), nil)}
	require.NoError(t, hydrate.Apply(context.Background(), recs, []hydrate.Relation{
		{Field: "category", Resolver: first},
		{Field: "category", Resolver: second},
	}, hydrate.KeepUnresolved))

	assert.Equal(t, [][]uint{{3}}, second.calls)
}

func TestApplyPropagatesResolverErrors(t *testing.T) {
	boom := errors.New("connection reset")
	recs := []resource.Record{itemRecord(1, uint(3), nil)}

	err := hydrate.Apply(context.Background(), recs,
		[]hydrate.Relation{{Field: "category", Resolver: &fakeResolver{err: boom}}}, hydrate.KeepUnresolved)
	assert.ErrorIs(t, err, boom)
}

func TestHydratorGroupsByModel(t *testing.T) {
	cats := &fakeResolver{rows: map[uint]hydrate.Summary{3: tools}}
	items := &fakeResolver{rows: map[uint]hydrate.Summary{1: {ID: 1, Name: "Hammer", Slug: "hm-100"}}}

	h := hydrate.New(hydrate.KeepUnresolved).
		Register("inventory.item", hydrate.Relation{Field: "category", Resolver: cats}).
		Register("inventory.stock", hydrate.Relation{Field: "item", Resolver: items})

	recs := []resource.Record{
		itemRecord(1, uint(3), nil),
		{Model: "inventory.stock", PK: 1, Fields: resource.Map{"item": uint(1), "qty_in_stock": 5}},
		{Model: "inventory.category", PK: 3, Fields: resource.Map{"name": "Tools"}},
	}
	require.NoError(t, h.Hydrate(context.Background(), recs))

	assert.Equal(t, tools, recs[0].Fields["category"])
	assert.Equal(t, "hm-100", recs[1].Fields["item"].(hydrate.Summary).Slug)
	assert.Equal(t, resource.Map{"name": "Tools"}, recs[2].Fields)
}

func TestTableResolver(t *testing.T) {
	db, err := gorm.Open(sqlite.Open("file:"+uuid.NewString()+"?mode=memory&cache=shared"),
		&gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	require.NoError(t, err)

	require.NoError(t, db.Exec(`CREATE TABLE categories (id integer primary key, name text, slug text)`).Error)
	require.NoError(t, db.Exec(`CREATE TABLE suppliers (id integer primary key, name text, email text)`).Error)
	require.NoError(t, db.Exec(`INSERT INTO categories VALUES (3, 'Tools', 'tools'), (4, 'Garden', 'garden')`).Error)
	require.NoError(t, db.Exec(`INSERT INTO suppliers VALUES (1, 'Acme Corp', 'a@x.io')`).Error)

	got, err := hydrate.Table(db, "categories").Resolve(context.Background(), []uint{3, 9})
	require.NoError(t, err)
	assert.Equal(t, map[uint]hydrate.Summary{3: tools}, got)

	sup, err := hydrate.TableSlugged(db, "suppliers").Resolve(context.Background(), []uint{1})
	require.NoError(t, err)
	assert.Equal(t, hydrate.Summary{ID: 1, Name: "Acme Corp", Slug: "acme-corp"}, sup[1])
}
