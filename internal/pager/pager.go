// Package pager collects a fixed number of items from an offset-paginated
// source.
//
// The source's page size is treated as advisory: a page may hold fewer items
// than requested, so the next offset always advances by the number of items
// actually received. An empty page means the source is exhausted and ends
// collection without an error, even if fewer items than requested were
// gathered.
//
//	items, err := pager.Collect(ctx, fetch, 250, pager.DefaultPageCap)
//	items = pager.Arrange(items, pager.OrderNewestFirst)
package pager

import (
	"context"
	"errors"

	"github.com/samber/lo"
)

// DefaultPageCap is the largest page requested from the API in one call.
const DefaultPageCap = 100

// ErrInvalidPageCap is returned when the page cap is not positive.
var ErrInvalidPageCap = errors.New("page cap must be positive")

// FetchFunc returns up to limit items starting at offset.
type FetchFunc[T any] func(ctx context.Context, limit, offset int) ([]T, error)

// PageFunc is called after every non-empty page. It may be nil.
type PageFunc func(offset, requested, received int)

// Order describes how a collection's source sorts its items.
type Order int

const (
	// OrderAsIs keeps the source order (playlists list oldest additions first).
	OrderAsIs Order = iota

	// OrderNewestFirst marks sources that list the newest items first
	// (favorites). Arrange reverses them so processing runs oldest first.
	OrderNewestFirst
)

// Collector pages through a source.
type Collector[T any] struct {
	fetch   FetchFunc[T]
	pageCap int
	onPage  PageFunc
}

// NewCollector creates a Collector. pageCap bounds the limit passed to fetch.
func NewCollector[T any](fetch FetchFunc[T], pageCap int, onPage PageFunc) *Collector[T] {
	return &Collector[T]{fetch: fetch, pageCap: pageCap, onPage: onPage}
}

// Collect returns at most total items in source order.
//
// fetch is never called with a limit below 1. Collection stops when total
// items were received or when a page comes back empty. A page larger than
// requested is trimmed so the result never exceeds total.
//
// Errors returned by fetch abort collection and are returned unchanged.
func (c *Collector[T]) Collect(ctx context.Context, total int) ([]T, error) {
	if c.pageCap <= 0 {
		return nil, ErrInvalidPageCap
	}

	var (
		items     []T
		retrieved int
		offset    int
	)
	for retrieved < total {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		limit := min(c.pageCap, total-retrieved)
		page, err := c.fetch(ctx, limit, offset)
		if err != nil {
			return nil, err
		}

		n := len(page)
		if n == 0 {
			break
		}
		if n > total-retrieved {
			page = page[:total-retrieved]
		}
		if c.onPage != nil {
			c.onPage(offset, limit, n)
		}

		items = append(items, page...)
		offset += n
		retrieved += len(page)
	}

	return items, nil
}

// Collect is a shorthand for NewCollector(fetch, pageCap, nil).Collect(ctx, total).
func Collect[T any](ctx context.Context, fetch FetchFunc[T], total, pageCap int) ([]T, error) {
	return NewCollector(fetch, pageCap, nil).Collect(ctx, total)
}

// Arrange puts collected items into processing order (oldest first).
//
// items is modified in place for OrderNewestFirst.
func Arrange[T any](items []T, order Order) []T {
	if order == OrderNewestFirst {
		return lo.Reverse(items)
	}
	return items
}
