// Package prompt presents a listing for single-choice interactive selection.
package prompt

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// ErrCancelled is returned when the user dismisses the prompt without
// choosing. It is not a failure; callers terminate the operation cleanly.
var ErrCancelled = errors.New("selection cancelled")

// Choice is one selectable entry.
type Choice struct {
	ID    string
	Label string
}

// Selector reads a single choice from In, writing the menu to Out.
type Selector struct {
	In  io.Reader
	Out io.Writer
}

// Select prints the choices as a numbered menu and reads one selection.
// An empty listing, EOF, a blank line, or "q" all yield ErrCancelled.
// An out-of-range or non-numeric entry re-prompts up to three times
// before giving up with ErrCancelled.
func (s *Selector) Select(title string, choices []Choice) (string, error) {
	if len(choices) == 0 {
		return "", ErrCancelled
	}

	fmt.Fprintln(s.Out, title)
	for i, c := range choices {
		fmt.Fprintf(s.Out, "  %3d) %s\n", i+1, c.Label)
	}

	reader := bufio.NewReader(s.In)
	for attempt := 0; attempt < 3; attempt++ {
		fmt.Fprintf(s.Out, "Select 1-%d (q to cancel): ", len(choices))

		line, err := reader.ReadString('\n')
		if err != nil && line == "" {
			return "", ErrCancelled
		}

		input := strings.TrimSpace(line)
		if input == "" || strings.EqualFold(input, "q") {
			return "", ErrCancelled
		}

		n, convErr := strconv.Atoi(input)
		if convErr != nil || n < 1 || n > len(choices) {
			fmt.Fprintf(s.Out, "invalid selection %q\n", input)
			continue
		}

		return choices[n-1].ID, nil
	}

	return "", ErrCancelled
}
