package paginator

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func numbers(n int) SliceSource[int] {
	s := make(SliceSource[int], n)
	for i := range s {
		s[i] = i + 1
	}
	return s
}

type countingSource struct {
	SliceSource[int]
	offsets []int
}

func (c *countingSource) Slice(ctx context.Context, offset, limit int) ([]int, error) {
	c.offsets = append(c.offsets, offset)
	return c.SliceSource.Slice(ctx, offset, limit)
}

type brokenSource struct{}

func (brokenSource) Count(context.Context) (int64, error) { return 0, errors.New("boom") }

func (brokenSource) Slice(context.Context, int, int) ([]int, error) { return nil, nil }

func TestParsePageNumber(t *testing.T) {
	cases := map[string]int{
		"":    1,
		"1":   1,
		"3":   3,
		" 2 ": 2,
		"0":   1,
		"-4":  1,
		"abc": 1,
		"2.5": 1,
	}
	for raw, want := range cases {
		assert.Equal(t, want, ParsePageNumber(raw), "raw=%q", raw)
	}
}

func TestPageSizes(t *testing.T) {
	ctx := context.Background()
	p := New[int](numbers(23), PageSize)

	first, err := p.Page(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, []int{1, 2, 3, 4, 5, 6, 7, 8, 9, 10}, first.Items)
	assert.Equal(t, 3, first.NumPages)
	assert.Equal(t, int64(23), first.TotalItems)
	assert.False(t, first.HasPrevious())
	assert.True(t, first.HasNext())

	second, err := p.Page(ctx, 2)
	require.NoError(t, err)
	assert.Len(t, second.Items, 10)
	assert.Equal(t, 11, second.Items[0])
	assert.True(t, second.HasPrevious())
	assert.True(t, second.HasNext())

	last, err := p.Page(ctx, 3)
	require.NoError(t, err)
	assert.Equal(t, []int{21, 22, 23}, last.Items)
	assert.False(t, last.HasNext())
}

func TestPageBeyondLastIsClamped(t *testing.T) {
	ctx := context.Background()
	p := New[int](numbers(23), PageSize)

	last, err := p.Page(ctx, 3)
	require.NoError(t, err)
	beyond, err := p.Page(ctx, 99)
	require.NoError(t, err)

	assert.Equal(t, last.Items, beyond.Items)
	assert.Equal(t, 3, beyond.Number)
}

func TestInvalidPageNumberServesFirstPage(t *testing.T) {
	ctx := context.Background()
	p := New[int](numbers(15), PageSize)

	for _, raw := range []string{"", "0", "-1", "nope"} {
		page, err := p.GetPage(ctx, raw)
		require.NoError(t, err)
		assert.Equal(t, 1, page.Number)
		assert.Equal(t, 1, page.Items[0])
	}
}

func TestEmptySource(t *testing.T) {
	page, err := New[int](numbers(0), PageSize).GetPage(context.Background(), "5")
	require.NoError(t, err)
	assert.Empty(t, page.Items)
	assert.NotNil(t, page.Items)
	assert.Equal(t, 0, page.NumPages)
	assert.Equal(t, int64(0), page.TotalItems)
	assert.False(t, page.HasNext())
	assert.False(t, page.HasPrevious())
}

func TestExactMultipleOfPageSize(t *testing.T) {
	page, err := New[int](numbers(20), PageSize).Page(context.Background(), 3)
	require.NoError(t, err)
	assert.Equal(t, 2, page.NumPages)
	assert.Equal(t, 2, page.Number)
	assert.Equal(t, 11, page.Items[0])
}

func TestOnlyRequestedWindowIsResolved(t *testing.T) {
	src := &countingSource{SliceSource: numbers(45)}
	_, err := New[int](src, PageSize).Page(context.Background(), 4)
	require.NoError(t, err)
	assert.Equal(t, []int{30}, src.offsets)
}

func TestCountErrorIsReturned(t *testing.T) {
	_, err := New[int](brokenSource{}, PageSize).Page(context.Background(), 1)
	assert.EqualError(t, err, "boom")
}

func TestMeta(t *testing.T) {
	page, err := New[int](numbers(11), 5).Page(context.Background(), 2)
	require.NoError(t, err)
	assert.Equal(t, Meta{
		CurrentPage:     2,
		TotalPages:      3,
		TotalItems:      11,
		ItemsPerPage:    5,
		HasNextPage:     true,
		HasPreviousPage: true,
	}, page.Meta())
}
