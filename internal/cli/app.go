// Package cli implements the command pipelines behind the idstore
// subcommands, wired over the directory interface so they are testable
// without AWS.
package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/rs/zerolog"

	"github.com/idstore-tools/idstore/pkg/batch"
	"github.com/idstore-tools/idstore/pkg/config"
	"github.com/idstore-tools/idstore/pkg/directory"
	"github.com/idstore-tools/idstore/pkg/format"
	"github.com/idstore-tools/idstore/pkg/logging"
	"github.com/idstore-tools/idstore/pkg/pagination"
	"github.com/idstore-tools/idstore/pkg/prompt"
	"github.com/idstore-tools/idstore/pkg/resolve"
)

// App holds the collaborators a command pipeline needs.
type App struct {
	Dir      directory.API
	Cfg      config.Config
	Out      io.Writer
	Selector *prompt.Selector

	logger zerolog.Logger
}

// New creates an App over the given directory implementation.
func New(dir directory.API, cfg config.Config, out io.Writer, selector *prompt.Selector) *App {
	return &App{
		Dir:      dir,
		Cfg:      cfg,
		Out:      out,
		Selector: selector,
		logger:   logging.NewLogger("cli"),
	}
}

func (a *App) enrichConfig() batch.Config {
	cfg := batch.DefaultConfig()
	cfg.MaxConcurrency = a.Cfg.MaxConcurrency
	return cfg
}

// ListGroups fetches all groups, optionally filters them by a free-text
// search term, and enriches every remaining group with its exact member
// count. Zero search matches is a warning plus empty output, not an error.
func (a *App) ListGroups(ctx context.Context, searchTerm string) error {
	groups, err := pagination.FetchAll(ctx, a.Dir.ListGroups)
	if err != nil {
		return fmt.Errorf("list groups: %w", err)
	}

	if searchTerm != "" {
		needle := strings.ToLower(searchTerm)
		filtered := groups[:0:0]
		for _, g := range groups {
			if strings.Contains(strings.ToLower(g.DisplayName), needle) {
				filtered = append(filtered, g)
			}
		}
		if len(filtered) == 0 {
			a.logger.Warn().
				Str("search_term", searchTerm).
				Msg("No groups matched search term")
		}
		groups = filtered
	}

	counts := batch.Enrich(ctx, groups, func(ctx context.Context, g directory.Group) (int, error) {
		return pagination.Count(ctx, func(ctx context.Context, cursor *string) (directory.Page[directory.Membership], error) {
			return a.Dir.ListGroupMemberships(ctx, g.ID, cursor)
		})
	}, a.enrichConfig())

	rows := make([]format.GroupRow, len(groups))
	for i, g := range groups {
		rows[i] = format.GroupRow{ID: g.ID, DisplayName: g.DisplayName}
		if counts[i].Err == nil {
			n := counts[i].Value
			rows[i].MemberCount = &n
		}
	}

	return format.WriteGroups(a.Out, format.Format(a.Cfg.Output), a.Cfg.Align, rows)
}

// ListUsers fetches and renders all users.
func (a *App) ListUsers(ctx context.Context) error {
	users, err := pagination.FetchAll(ctx, a.Dir.ListUsers)
	if err != nil {
		return fmt.Errorf("list users: %w", err)
	}

	return format.WriteUsers(a.Out, format.Format(a.Cfg.Output), a.Cfg.Align, users)
}

// ListUsersInGroup resolves the group named by groupArg (interactively
// when empty), fetches all its memberships, and enriches each one into a
// full user record. Selection cancellation propagates prompt.ErrCancelled,
// which the command layer turns into a clean zero-status exit.
func (a *App) ListUsersInGroup(ctx context.Context, groupArg string) error {
	groupID, err := a.resolveGroup(ctx, groupArg)
	if err != nil {
		return err
	}

	memberships, err := pagination.FetchAll(ctx, func(ctx context.Context, cursor *string) (directory.Page[directory.Membership], error) {
		return a.Dir.ListGroupMemberships(ctx, groupID, cursor)
	})
	if err != nil {
		return fmt.Errorf("list group memberships: %w", err)
	}

	results := batch.Enrich(ctx, memberships, func(ctx context.Context, m directory.Membership) (directory.User, error) {
		return a.Dir.DescribeUser(ctx, m.MemberUserID)
	}, a.enrichConfig())

	users := make([]directory.User, 0, len(results))
	for _, r := range results {
		if r.Err != nil {
			a.logger.Warn().
				Err(r.Err).
				Int("index", r.Index).
				Str("member_user_id", memberships[r.Index].MemberUserID).
				Msg("Skipping member, user lookup failed")
			continue
		}
		users = append(users, r.Value)
	}

	return format.WriteUsers(a.Out, format.Format(a.Cfg.Output), a.Cfg.Align, users)
}

// resolveGroup maps groupArg to a canonical group id. A canonical-shaped
// argument short-circuits without any listing fetch; an empty argument
// falls back to interactive selection.
func (a *App) resolveGroup(ctx context.Context, groupArg string) (string, error) {
	if resolve.IsCanonicalID(groupArg) {
		return groupArg, nil
	}

	groups, err := pagination.FetchAll(ctx, a.Dir.ListGroups)
	if err != nil {
		return "", fmt.Errorf("list groups: %w", err)
	}

	if groupArg == "" {
		if a.Selector == nil {
			return "", errors.New("no group given and no interactive terminal")
		}
		choices := make([]prompt.Choice, len(groups))
		for i, g := range groups {
			choices[i] = prompt.Choice{ID: g.ID, Label: g.DisplayName}
		}
		return a.Selector.Select("Select a group:", choices)
	}

	resolved, err := resolve.Resolve(groupArg, groups)
	if err != nil {
		return "", err
	}

	a.logger.Debug().
		Str("group", groupArg).
		Str("group_id", resolved.ID).
		Str("match_kind", string(resolved.MatchKind)).
		Msg("Resolved group identifier")

	return resolved.ID, nil
}
