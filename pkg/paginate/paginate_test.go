package paginate_test

import (
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shashiranjanraj/stockpile/pkg/apperr"
	"github.com/shashiranjanraj/stockpile/pkg/paginate"
)

func seq(n int) []int {
	out := make([]int, n)
	for i := range out {
		out[i] = i + 1
	}
	return out
}

func TestPaginateFirstAndLastPage(t *testing.T) {
	items := seq(23)

	p, err := paginate.Paginate(items, 1, 10)
	require.NoError(t, err)
	assert.Equal(t, seq(10), p.Items)
	assert.Equal(t, 3, p.TotalPages)
	assert.Equal(t, 23, p.TotalCount)

	p, err = paginate.Paginate(items, 3, 10)
	require.NoError(t, err)
	assert.Equal(t, []int{21, 22, 23}, p.Items)
}

func TestPaginatePagesCoverEverythingOnce(t *testing.T) {
	for _, n := range []int{0, 1, 9, 10, 11, 57} {
		for _, size := range []int{1, 3, 10, 100} {
			items := seq(n)
			first, err := paginate.Paginate(items, 1, size)
			require.NoError(t, err)

			var all []int
			for page := 1; page <= first.TotalPages; page++ {
				p, err := paginate.Paginate(items, page, size)
				require.NoError(t, err)
				assert.LessOrEqual(t, len(p.Items), size)
				all = append(all, p.Items...)
			}
			assert.Len(t, all, n, "n=%d size=%d", n, size)
			if n > 0 {
				assert.Equal(t, items, all)
			}
		}
	}
}

func TestPaginateBeyondLastPageIsEmpty(t *testing.T) {
	p, err := paginate.Paginate(seq(5), 4, 2)
	require.NoError(t, err)
	assert.Empty(t, p.Items)
	assert.Equal(t, 3, p.TotalPages)
	assert.Equal(t, 4, p.Page)
}

func TestPaginateEmptySet(t *testing.T) {
	p, err := paginate.Paginate([]string{}, 1, 10)
	require.NoError(t, err)
	assert.Empty(t, p.Items)
	assert.Equal(t, 0, p.TotalPages)
	assert.Equal(t, 0, p.TotalCount)
}

func TestPaginateRejectsNonPositive(t *testing.T) {
	for _, tc := range [][2]int{{0, 10}, {1, 0}, {-1, 5}, {2, -3}} {
		_, err := paginate.Paginate(seq(4), tc[0], tc[1])
		require.Error(t, err)
		assert.Equal(t, apperr.InvalidParameter, apperr.KindOf(err))
		assert.Equal(t, paginate.ErrInvalidMessage, apperr.Message(err))
	}
}

func TestWindow(t *testing.T) {
	b, err := paginate.Window(23, 3, 10)
	require.NoError(t, err)
	assert.Equal(t, paginate.Bounds{Offset: 20, Limit: 3, TotalPages: 3}, b)

	b, err = paginate.Window(23, 9, 10)
	require.NoError(t, err)
	assert.Equal(t, 0, b.Limit)
}

func TestParams(t *testing.T) {
	req, err := paginate.Params(url.Values{"page": {"2"}, "pagesize": {"25"}})
	require.NoError(t, err)
	assert.Equal(t, paginate.Request{Page: 2, PageSize: 25}, req)

	bad := []url.Values{
		{},
		{"page": {"1"}},
		{"page": {"x"}, "pagesize": {"10"}},
		{"page": {"0"}, "pagesize": {"10"}},
		{"page": {"1"}, "pagesize": {"-2"}},
	}
	for _, q := range bad {
		_, err := paginate.Params(q)
		assert.True(t, apperr.Is(err, apperr.InvalidParameter), "query %v", q)
	}
}

func TestHugePageDoesNotOverflow(t *testing.T) {
	b, err := paginate.Window(10, 1<<62, 4)
	require.NoError(t, err)
	assert.Equal(t, paginate.Bounds{Offset: 10, Limit: 0, TotalPages: 3}, b)

	p, err := paginate.Paginate(seq(10), 1<<62, 4)
	require.NoError(t, err)
	assert.Empty(t, p.Items)
	assert.Equal(t, 3, p.TotalPages)
}
