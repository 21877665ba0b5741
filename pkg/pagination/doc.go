// Package pagination works around the directory API's per-call item cap.
//
// The directory returns at most PageSize records per call together with an
// opaque continuation cursor; absence of the cursor means end of data. The
// cursor is never interpreted, only passed back.
//
// Example usage:
//
//	groups, err := pagination.FetchAll(ctx, client.ListGroups)
//	n, err := pagination.Count(ctx, func(ctx context.Context, cursor *string) (directory.Page[directory.Membership], error) {
//		return client.ListGroupMemberships(ctx, groupID, cursor)
//	})
//
// FetchAll materializes the whole listing in server order; Count sums
// per-page item counts instead, keeping memory constant for a quantity
// that is ultimately a single integer.
package pagination
