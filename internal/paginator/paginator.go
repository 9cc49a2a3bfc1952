// Package paginator slices ordered result sets into fixed-size pages.
//
// A Source only has to answer how many items it holds and return one
// contiguous window, so large feeds are never materialized in full.
package paginator

import (
	"context"
	"strconv"
	"strings"
)

// PageSize is the number of posts shown on every feed page.
const PageSize = 10

// Source is an ordered sequence that can be counted and windowed.
type Source[T any] interface {
	Count(ctx context.Context) (int64, error)
	Slice(ctx context.Context, offset, limit int) ([]T, error)
}

// Page is one window of a Source plus the metadata needed to link around it.
type Page[T any] struct {
	Items      []T
	Number     int
	PerPage    int
	TotalItems int64
	NumPages   int
}

func (p *Page[T]) HasPrevious() bool { return p.Number > 1 }

func (p *Page[T]) HasNext() bool { return p.Number < p.NumPages }

// Meta mirrors the pagination block returned by every list endpoint.
type Meta struct {
	CurrentPage     int   `json:"currentPage"`
	TotalPages      int   `json:"totalPages"`
	TotalItems      int64 `json:"totalItems"`
	ItemsPerPage    int   `json:"itemsPerPage"`
	HasNextPage     bool  `json:"hasNextPage"`
	HasPreviousPage bool  `json:"hasPreviousPage"`
}

func (p *Page[T]) Meta() Meta {
	return Meta{
		CurrentPage:     p.Number,
		TotalPages:      p.NumPages,
		TotalItems:      p.TotalItems,
		ItemsPerPage:    p.PerPage,
		HasNextPage:     p.HasNext(),
		HasPreviousPage: p.HasPrevious(),
	}
}

// Paginator serves pages of a Source.
type Paginator[T any] struct {
	source  Source[T]
	perPage int
}

// New creates a Paginator. A non-positive perPage falls back to PageSize.
func New[T any](source Source[T], perPage int) *Paginator[T] {
	if perPage < 1 {
		perPage = PageSize
	}
	return &Paginator[T]{source: source, perPage: perPage}
}

// ParsePageNumber turns a raw ?page= value into a 1-indexed page number.
// Empty, malformed and non-positive values select the first page.
func ParsePageNumber(raw string) int {
	n, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil || n < 1 {
		return 1
	}
	return n
}

// GetPage is Page with a raw, unparsed page number.
func (p *Paginator[T]) GetPage(ctx context.Context, raw string) (*Page[T], error) {
	return p.Page(ctx, ParsePageNumber(raw))
}

// Page returns the requested page. Numbers past the end are clamped to the
// last page; an empty source yields an empty first page with NumPages 0.
func (p *Paginator[T]) Page(ctx context.Context, number int) (*Page[T], error) {
	total, err := p.source.Count(ctx)
	if err != nil {
		return nil, err
	}
	numPages := int((total + int64(p.perPage) - 1) / int64(p.perPage))

	if number < 1 {
		number = 1
	}
	page := &Page[T]{
		Items:      []T{},
		Number:     number,
		PerPage:    p.perPage,
		TotalItems: total,
		NumPages:   numPages,
	}
	if numPages == 0 {
		page.Number = 1
		return page, nil
	}
	if page.Number > numPages {
		page.Number = numPages
	}

	items, err := p.source.Slice(ctx, (page.Number-1)*p.perPage, p.perPage)
	if err != nil {
		return nil, err
	}
	if items != nil {
		page.Items = items
	}
	return page, nil
}

// SliceSource adapts an already ordered in-memory slice.
type SliceSource[T any] []T

func (s SliceSource[T]) Count(context.Context) (int64, error) {
	return int64(len(s)), nil
}

func (s SliceSource[T]) Slice(_ context.Context, offset, limit int) ([]T, error) {
	if offset >= len(s) {
		return []T{}, nil
	}
	end := offset + limit
	if end > len(s) {
		end = len(s)
	}
	return s[offset:end], nil
}
