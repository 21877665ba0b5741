// Package format renders directory records as text, json, or table output.
package format

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"text/tabwriter"

	"github.com/idstore-tools/idstore/pkg/directory"
)

// Format selects the output rendering.
type Format string

const (
	// Text emits tab-separated positional fields, one record per line.
	Text Format = "text"

	// JSON emits an array of structured records.
	JSON Format = "json"

	// Table emits human-aligned columns with a header row.
	Table Format = "table"
)

// Valid reports whether f is a known format.
func (f Format) Valid() bool {
	switch f {
	case Text, JSON, Table:
		return true
	default:
		return false
	}
}

// GroupRow is one group with its derived member count.
// MemberCount is nil when enrichment failed for that group.
type GroupRow struct {
	ID          string `json:"id"`
	DisplayName string `json:"displayName"`
	MemberCount *int   `json:"memberCount"`
}

// WriteGroups renders group rows to w. align applies to Table output only;
// when false the table degrades to plain tab-separated columns.
func WriteGroups(w io.Writer, f Format, align bool, rows []GroupRow) error {
	switch f {
	case JSON:
		return writeJSON(w, rows)
	case Table:
		return writeColumns(w, align, []string{"GROUP ID", "DISPLAY NAME", "MEMBERS"}, len(rows), func(i int) []string {
			return []string{rows[i].ID, rows[i].DisplayName, countCell(rows[i].MemberCount)}
		})
	default:
		for _, r := range rows {
			fmt.Fprintf(w, "%s\t%s\t%s\n", r.ID, r.DisplayName, countCell(r.MemberCount))
		}
		return nil
	}
}

// WriteUsers renders users to w.
func WriteUsers(w io.Writer, f Format, align bool, users []directory.User) error {
	switch f {
	case JSON:
		return writeJSON(w, users)
	case Table:
		return writeColumns(w, align, []string{"USER ID", "USER NAME", "DISPLAY NAME", "EMAIL"}, len(users), func(i int) []string {
			u := users[i]
			return []string{u.ID, u.UserName, u.DisplayName, u.PrimaryEmail}
		})
	default:
		for _, u := range users {
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", u.ID, u.UserName, u.DisplayName, u.PrimaryEmail)
		}
		return nil
	}
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func writeColumns(w io.Writer, align bool, header []string, n int, row func(int) []string) error {
	out := w
	var tw *tabwriter.Writer
	if align {
		tw = tabwriter.NewWriter(w, 2, 4, 2, ' ', 0)
		out = tw
	}

	writeRow(out, header)
	for i := 0; i < n; i++ {
		writeRow(out, row(i))
	}

	if tw != nil {
		return tw.Flush()
	}
	return nil
}

func writeRow(w io.Writer, cells []string) {
	for i, c := range cells {
		if i > 0 {
			fmt.Fprint(w, "\t")
		}
		fmt.Fprint(w, c)
	}
	fmt.Fprintln(w)
}

// countCell renders a member count, "-" when enrichment failed.
func countCell(n *int) string {
	if n == nil {
		return "-"
	}
	return strconv.Itoa(*n)
}
