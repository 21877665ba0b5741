//go:build integration

package directory

import (
	"context"
	"errors"
	"testing"
	"time"
)

// TestIntegration_ListGroups runs against a real identity store.
// It needs valid AWS credentials and an SSO instance; without them the
// test skips rather than fails.
func TestIntegration_ListGroups(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
	defer cancel()

	client, err := New(ctx, Config{})
	if err != nil {
		t.Skipf("AWS configuration not available: %v", err)
	}

	if _, err := client.ResolveIdentityStore(ctx); err != nil {
		if errors.Is(err, ErrNoIdentityStore) {
			t.Skip("no SSO instance in this account")
		}
		t.Skipf("identity store not reachable: %v", err)
	}

	page, err := client.ListGroups(ctx, nil)
	if err != nil {
		t.Fatalf("ListGroups failed: %v", err)
	}

	for i, g := range page.Items {
		if g.ID == "" {
			t.Errorf("group %d has empty id", i)
		}
	}
}
