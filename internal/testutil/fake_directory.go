// Package testutil provides testing utilities for the idstore tool.
package testutil

import (
	"context"
	"strconv"
	"sync"
	"time"

	"github.com/idstore-tools/idstore/pkg/directory"
)

// FakeDirectory is a scripted in-memory directory.API implementation.
// Listings are served in fixed order, split into pages of PageSize items
// with numeric offset cursors. Failures and latency can be injected per
// operation, and call counts plus peak concurrency are tracked.
type FakeDirectory struct {
	Groups  []directory.Group
	Users   []directory.User
	Members map[string][]directory.Membership

	// PageSize is the per-call item cap (default 2, small enough that
	// ordinary fixtures span several pages).
	PageSize int

	// Latency delays every call.
	Latency time.Duration

	// FailOn makes the named operation fail outright.
	FailOn map[string]error

	// FailOnPage makes the named operation fail when serving the given
	// zero-based page.
	FailOnPage map[string]int

	mu        sync.Mutex
	calls     map[string]int
	inFlight  int
	peakQueue int
}

// NewFakeDirectory creates an empty fake with a page size of 2.
func NewFakeDirectory() *FakeDirectory {
	return &FakeDirectory{
		Members:    make(map[string][]directory.Membership),
		PageSize:   2,
		FailOn:     make(map[string]error),
		FailOnPage: make(map[string]int),
		calls:      make(map[string]int),
	}
}

// Calls returns how often the named operation was invoked.
func (f *FakeDirectory) Calls(op string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls[op]
}

// PeakConcurrency returns the highest number of simultaneously active calls.
func (f *FakeDirectory) PeakConcurrency() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.peakQueue
}

func (f *FakeDirectory) enter(op string) {
	f.mu.Lock()
	f.calls[op]++
	f.inFlight++
	if f.inFlight > f.peakQueue {
		f.peakQueue = f.inFlight
	}
	f.mu.Unlock()

	if f.Latency > 0 {
		time.Sleep(f.Latency)
	}
}

func (f *FakeDirectory) leave() {
	f.mu.Lock()
	f.inFlight--
	f.mu.Unlock()
}

func (f *FakeDirectory) checkFailure(op string, pageIdx int) error {
	if err, ok := f.FailOn[op]; ok {
		return err
	}
	if failPage, ok := f.FailOnPage[op]; ok && failPage == pageIdx {
		return &directory.DirectoryError{
			Operation:  op,
			ErrorClass: directory.ErrorClassServer,
			Message:    "injected page failure",
		}
	}
	return nil
}

// ListGroups implements directory.API.
func (f *FakeDirectory) ListGroups(ctx context.Context, cursor *string) (directory.Page[directory.Group], error) {
	f.enter("ListGroups")
	defer f.leave()
	return servePage(f, "ListGroups", f.Groups, cursor)
}

// ListGroupMemberships implements directory.API.
func (f *FakeDirectory) ListGroupMemberships(ctx context.Context, groupID string, cursor *string) (directory.Page[directory.Membership], error) {
	f.enter("ListGroupMemberships")
	defer f.leave()
	return servePage(f, "ListGroupMemberships", f.Members[groupID], cursor)
}

// ListUsers implements directory.API.
func (f *FakeDirectory) ListUsers(ctx context.Context, cursor *string) (directory.Page[directory.User], error) {
	f.enter("ListUsers")
	defer f.leave()
	return servePage(f, "ListUsers", f.Users, cursor)
}

// DescribeUser implements directory.API.
func (f *FakeDirectory) DescribeUser(ctx context.Context, userID string) (directory.User, error) {
	f.enter("DescribeUser")
	defer f.leave()

	if err := f.checkFailure("DescribeUser", 0); err != nil {
		return directory.User{}, err
	}

	for _, u := range f.Users {
		if u.ID == userID {
			return u, nil
		}
	}
	return directory.User{}, &directory.DirectoryError{
		Operation:  "DescribeUser",
		ErrorClass: directory.ErrorClassClient,
		Message:    "no such user " + userID,
	}
}

// servePage slices one page out of items, using a numeric offset cursor.
func servePage[T any](f *FakeDirectory, op string, items []T, cursor *string) (directory.Page[T], error) {
	offset := 0
	if cursor != nil && *cursor != "" {
		n, err := strconv.Atoi(*cursor)
		if err != nil {
			return directory.Page[T]{}, &directory.DirectoryError{
				Operation:  op,
				ErrorClass: directory.ErrorClassClient,
				Message:    "bad cursor " + *cursor,
			}
		}
		offset = n
	}

	size := f.PageSize
	if size <= 0 {
		size = 2
	}

	if err := f.checkFailure(op, offset/size); err != nil {
		return directory.Page[T]{}, err
	}

	end := offset + size
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
