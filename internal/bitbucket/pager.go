package bitbucket

import (
	"context"
	"fmt"
	"iter"

	"github.com/spiffcs/bbmigrate/internal/log"
)

// pager walks a paginated Bitbucket collection by following "next" links.
// It holds no cursor state, so every call to All restarts at the first page.
type pager[T any] struct {
	client *Client
	first  string
}

func newPager[T any](client *Client, first string) *pager[T] {
	return &pager[T]{client: client, first: first}
}

// All yields every value of every page. A fetch error is yielded once and
// ends the sequence.
func (p *pager[T]) All(ctx context.Context) iter.Seq2[T, error] {
	return func(yield func(T, error) bool) {
		var zero T
		next := p.first
		seen := make(map[string]bool)

		for pageNum := 1; next != ""; pageNum++ {
			if seen[next] {
				yield(zero, fmt.Errorf("pagination loop detected at %s", next))
				return
			}
			seen[next] = true

			var pg page[T]
			if err := p.client.doRequest(ctx, next, &pg); err != nil {
				yield(zero, err)
				return
			}
			log.Debug("fetched page", "page", pageNum, "values", len(pg.Values), "size", pg.Size)

			for _, v := range pg.Values {
				if !yield(v, nil) {
					return
				}
			}
			next = pg.Next
		}
	}
}
