// Package directory defines the identity-store directory API surface:
// the record types returned by listings, the paginated call contract,
// and the AWS-backed client that implements it.
package directory

import "context"

// Group is a directory group as returned by a group listing.
type Group struct {
	ID          string `json:"id"`
	DisplayName string `json:"displayName"`
}

// User is a directory user.
type User struct {
	ID           string `json:"id"`
	UserName     string `json:"userName"`
	DisplayName  string `json:"displayName"`
	PrimaryEmail string `json:"primaryEmail"`
}

// Membership links a group to one member user.
type Membership struct {
	MemberUserID string `json:"memberUserId"`
}

// Page is one page of a cursor-paginated listing.
// Next is the opaque continuation cursor; nil means no more pages.
type Page[T any] struct {
	Items []T
	Next  *string
}

// API is the narrow directory interface the rest of the system consumes.
// Implementations must preserve server-side item order within a page.
type API interface {
	// ListGroups returns one page of groups starting at cursor.
	ListGroups(ctx context.Context, cursor *string) (Page[Group], error)

	// ListGroupMemberships returns one page of memberships for a group.
	ListGroupMemberships(ctx context.Context, groupID string, cursor *string) (Page[Membership], error)

	// ListUsers returns one page of users starting at cursor.
	ListUsers(ctx context.Context, cursor *string) (Page[User], error)

	// DescribeUser fetches a single user by canonical id.
	DescribeUser(ctx context.Context, userID string) (User, error)
}
