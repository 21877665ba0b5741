package pagination

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"testing"

	"github.com/idstore-tools/idstore/pkg/directory"
)

// pagedCall serves items in pages of size pageSize with numeric offset cursors.
func pagedCall[T any](items []T, pageSize int) ListCall[T] {
	return func(ctx context.Context, cursor *string) (directory.Page[T], error) {
		offset := 0
		if cursor != nil {
			n, err := strconv.Atoi(*cursor)
			if err != nil {
				return directory.Page[T]{}, err
			}
			offset = n
		}

		end := offset + pageSize
		if end > len(items) {
			end = len(items)
		}

		page := directory.Page[T]{Items: items[offset:end]}
		if end < len(items) {
			next := strconv.Itoa(end)
			page.Next = &next
		}
		return page, nil
	}
}

func makeGroups(n int) []directory.Group {
	groups := make([]directory.Group, n)
	for i := range groups {
		groups[i] = directory.Group{
			ID:          fmt.Sprintf("g%d", i),
			DisplayName: fmt.Sprintf("Group %d", i),
		}
	}
	return groups
}

func TestFetchAll_IndependentOfPageSize(t *testing.T) {
	const n = 7
	groups := makeGroups(n)

	for pageSize := 1; pageSize <= n; pageSize++ {
		t.Run(fmt.Sprintf("page_size_%d", pageSize), func(t *testing.T) {
			got, err := FetchAll(context.Background(), pagedCall(groups, pageSize))
			if err != nil {
				t.Fatalf("FetchAll failed: %v", err)
			}

			if len(got) != n {
				t.Fatalf("got %d records, want %d", len(got), n)
			}
			for i, g := range got {
				if g.ID != groups[i].ID {
					t.Errorf("record %d: got id %s, want %s", i, g.ID, groups[i].ID)
				}
			}
		})
	}
}

func TestFetchAll_EmptyListing(t *testing.T) {
	got, err := FetchAll(context.Background(), pagedCall([]directory.Group{}, 3))
	if err != nil {
		t.Fatalf("FetchAll failed: %v", err)
	}
	if len(got) != 0 {
		t.Errorf("got %d records, want 0", len(got))
	}
}

func TestFetchAll_UpstreamErrorAborts(t *testing.T) {
	upstream := errors.New("listing unavailable")
	calls := 0

	call := func(ctx context.Context, cursor *string) (directory.Page[directory.Group], error) {
		calls++
		if calls == 2 {
			return directory.Page[directory.Group]{}, upstream
		}
		next := "5"
		return directory.Page[directory.Group]{Items: makeGroups(5), Next: &next}, nil
	}

	got, err := FetchAll(context.Background(), call)
	if !errors.Is(err, upstream) {
		t.Fatalf("expected upstream error, got %v", err)
	}
	if got != nil {
		t.Errorf("expected no partial result, got %d records", len(got))
	}
}

func TestFetchAll_NonTerminatingServer(t *testing.T) {
	call := func(ctx context.Context, cursor *string) (directory.Page[directory.Group], error) {
		next := "again"
		return directory.Page[directory.Group]{Next: &next}, nil
	}

	_, err := FetchAll(context.Background(), call)
	if !errors.Is(err, directory.ErrProtocol) {
		t.Fatalf("expected ErrProtocol, got %v", err)
	}
}

func TestCount_ExactAcrossPages(t *testing.T) {
	// 250 members behind a per-page cap of 100 must count as exactly 250
	members := make([]directory.Membership, 250)
	for i := range members {
		members[i] = directory.Membership{MemberUserID: fmt.Sprintf("u%d", i)}
	}

	got, err := Count(context.Background(), pagedCall(members, 100))
	if err != nil {
		t.Fatalf("Count failed: %v", err)
	}
	if got != 250 {
		t.Errorf("got count %d, want 250", got)
	}
}

func TestCount_MatchesFetchAll(t *testing.T) {
	members := make([]directory.Membership, 23)
	for pageSize := 1; pageSize <= len(members); pageSize += 3 {
		fetched, err := FetchAll(context.Background(), pagedCall(members, pageSize))
		if err != nil {
			t.Fatalf("FetchAll failed: %v", err)
		}
		counted, err := Count(context.Background(), pagedCall(members, pageSize))
		if err != nil {
			t.Fatalf("Count failed: %v", err)
		}
		if counted != len(fetched) {
			t.Errorf("page size %d: count %d != fetched %d", pageSize, counted, len(fetched))
		}
	}
}

func TestCount_PartialSumOnFailure(t *testing.T) {
	upstream := errors.New("membership listing failed")
	calls := 0

	call := func(ctx context.Context, cursor *string) (directory.Page[directory.Membership], error) {
		calls++
		if calls == 3 {
			return directory.Page[directory.Membership]{}, upstream
		}
		next := strconv.Itoa(calls * 10)
		return directory.Page[directory.Membership]{
			Items: make([]directory.Membership, 10),
			Next:  &next,
		}, nil
	}

	got, err := Count(context.Background(), call)
	if !errors.Is(err, upstream) {
		t.Fatalf("expected upstream error, got %v", err)
	}
	if got != 20 {
		t.Errorf("got partial count %d, want 20", got)
	}
}

func TestCount_EmptyPageContributesZero(t *testing.T) {
	// A page with no items but a continuation cursor adds 0 and the loop
	// continues on the cursor alone.
	calls := 0
	call := func(ctx context.Context, cursor *string) (directory.Page[directory.Membership], error) {
		calls++
		switch calls {
		case 1:
			next := "next"
			return directory.Page[directory.Membership]{Items: nil, Next: &next}, nil
		default:
			return directory.Page[directory.Membership]{
				Items: make([]directory.Membership, 4),
			}, nil
		}
	}

	got, err := Count(context.Background(), call)
	if err != nil {
		t.Fatalf("Count failed: %v", err)
	}
	if got != 4 {
		t.Errorf("got count %d, want 4", got)
	}
	if calls != 2 {
		t.Errorf("got %d calls, want 2", calls)
	}
}

func TestCount_NonTerminatingServer(t *testing.T) {
	call := func(ctx context.Context, cursor *string) (directory.Page[directory.Membership], error) {
		next := "again"
		return directory.Page[directory.Membership]{
			Items: make([]directory.Membership, 1),
			Next:  &next,
		}, nil
	}

	got, err := Count(context.Background(), call)
	if !errors.Is(err, directory.ErrProtocol) {
		t.Fatalf("expected ErrProtocol, got %v", err)
	}
	if got != MaxPages {
		t.Errorf("got partial count %d, want %d", got, MaxPages)
	}
}
