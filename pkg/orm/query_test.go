package orm_test

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shashiranjanraj/stockpile/pkg/apperr"
	"github.com/shashiranjanraj/stockpile/pkg/orm"
	"github.com/shashiranjanraj/stockpile/pkg/testkit"
)

type widget struct {
	ID    uint `gorm:"primaryKey"`
	Name  string
	Price int
}

func seed(t *testing.T, n int) *orm.Query {
	t.Helper()
	db := testkit.OpenDB(t)
	require.NoError(t, db.AutoMigrate(&widget{}))
	for i := 1; i <= n; i++ {
		require.NoError(t, db.Create(&widget{Name: fmt.Sprintf("w%02d", i), Price: i * 10}).Error)
	}
	return orm.New(db).WithContext(context.Background())
}

func TestPaginate(t *testing.T) {
	q := seed(t, 23)

	var rows []widget
	meta, err := q.Model(&widget{}).Where("price > ?", 0).Order("price desc").Paginate(&rows, 3, 10)
	require.NoError(t, err)
	assert.Equal(t, 3, meta.Page)
	assert.Equal(t, 3, meta.TotalPages)
	assert.Equal(t, 23, meta.TotalCount)
	require.Len(t, rows, 3)
	assert.Equal(t, []int{30, 20, 10}, []int{rows[0].Price, rows[1].Price, rows[2].Price})
}

func TestPaginatePastTheEnd(t *testing.T) {
	q := seed(t, 2)

	var rows []widget
	meta, err := q.Model(&widget{}).Order("id").Paginate(&rows, 5, 10)
	require.NoError(t, err)
	assert.Empty(t, rows)
	assert.Equal(t, 1, meta.TotalPages)

	_, err = q.Model(&widget{}).Order("id").Paginate(&rows, 0, 10)
	assert.True(t, apperr.Is(err, apperr.InvalidParameter))
}

func TestFirstTranslatesNotFound(t *testing.T) {
	q := seed(t, 1)

	var w widget
	require.NoError(t, q.Where("name = ?", "w01").First(&w, "Widget not found."))
	assert.Equal(t, 10, w.Price)

	err := q.Where("name = ?", "nope").First(&w, "Widget not found.")
	require.Error(t, err)
	assert.True(t, apperr.Is(err, apperr.NotFound))
	assert.Equal(t, "Widget not found.", apperr.Message(err))

	n, err := q.Model(&widget{}).Count()
	require.NoError(t, err)
	assert.EqualValues(t, 1, n)
}
