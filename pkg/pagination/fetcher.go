// Package pagination exhausts cursor-paginated directory listings.
package pagination

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/idstore-tools/idstore/pkg/directory"
)

// MaxPages caps the cursor loop. A server that keeps returning cursors
// past this point is misbehaving and the loop aborts with ErrProtocol.
const MaxPages = 10000

// ListCall fetches one page of records starting at cursor.
// A nil cursor requests the first page.
type ListCall[T any] func(ctx context.Context, cursor *string) (directory.Page[T], error)

// FetchAll exhausts a paginated listing into one slice, preserving page
// order and within-page order. On a call failure the fetch aborts and
// surfaces the error; no partial result is returned.
func FetchAll[T any](ctx context.Context, call ListCall[T]) ([]T, error) {
	start := time.Now()

	var items []T
	var cursor *string

	for page := 0; ; page++ {
		if page >= MaxPages {
			return nil, fmt.Errorf("%w after %d pages", directory.ErrProtocol, MaxPages)
		}

		result, err := call(ctx, cursor)
		if err != nil {
			return nil, fmt.Errorf("fetch page %d: %w", page+1, err)
		}

		items = append(items, result.Items...)

		if result.Next == nil || *result.Next == "" {
			break
		}
		cursor = result.Next
	}

	log.Debug().
		Int("items", len(items)).
		Dur("duration", time.Since(start)).
		Msg("Listing fetch complete")

	return items, nil
}

// Count exhausts a paginated listing summing per-page item counts without
// retaining the items. A nil or empty page contributes exactly 0 and the
// loop continues on the cursor alone.
//
// On a mid-pagination failure Count returns the partial sum accumulated so
// far together with the error: a best-effort count is more useful than
// none, but the caller must treat it as partial.
func Count[T any](ctx context.Context, call ListCall[T]) (int, error) {
	total := 0
	var cursor *string

	for page := 0; ; page++ {
		if page >= MaxPages {
			return total, fmt.Errorf("%w after %d pages", directory.ErrProtocol, MaxPages)
		}

		result, err := call(ctx, cursor)
		if err != nil {
			log.Warn().
				Err(err).
				Int("partial_count", total).
				Msg("Count aborted mid-pagination, returning partial sum")
			return total, fmt.Errorf("count page %d: %w", page+1, err)
		}

		total += len(result.Items)

		if result.Next == nil || *result.Next == "" {
			break
		}
		cursor = result.Next
	}

	return total, nil
}
