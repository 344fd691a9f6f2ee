package news

import (
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"

	"github.com/ariel-frischer/newsbuilder/internal/fragment"
)

// entryIndent prefixes every continuation line of a wrapped entry.
const entryIndent = "   "

// Group is one rendered entry: a description shared by one or more tickets.
type Group struct {
	Description string
	Tickets     []int
}

// GroupFragments collapses fragments with identical descriptions into a
// single group. Tickets within a group are sorted ascending and groups are
// ordered by their smallest ticket, so the result does not depend on the
// order of the input.
func GroupFragments(fs []fragment.Fragment) []Group {
	index := make(map[string]int)
	var groups []Group
	for _, f := range fs {
		i, ok := index[f.Description]
		if !ok {
			i = len(groups)
			index[f.Description] = i
			groups = append(groups, Group{Description: f.Description})
		}
		groups[i].Tickets = append(groups[i].Tickets, f.Ticket)
	}

	for i := range groups {
		sort.Ints(groups[i].Tickets)
	}
	sort.SliceStable(groups, func(i, j int) bool {
		return groups[i].Tickets[0] < groups[j].Tickets[0]
	})
	return groups
}

// FormatHeader returns a top-level NEWS header: the text underlined with '='
// and followed by a blank line.
func FormatHeader(header string) string {
	return header + "\n" + strings.Repeat("=", len(header)) + "\n\n"
}

// WriteHeader writes FormatHeader(header) to w.
func WriteHeader(w io.Writer, header string) error {
	_, err := io.WriteString(w, FormatHeader(header))
	return err
}

// WriteSection writes a section listing each distinct description with the
// tickets that share it. Nothing is written when fs is empty.
func WriteSection(w io.Writer, heading string, fs []fragment.Fragment, width int) error {
	if len(fs) == 0 {
		return nil
	}

	var b strings.Builder
	writeHeading(&b, heading)
	for _, g := range GroupFragments(fs) {
		entry := fmt.Sprintf(" - %s (%s)", g.Description, ticketList(g.Tickets))
		b.WriteString(fill(entry, width, entryIndent))
		b.WriteString("\n")
	}
	b.WriteString("\n")

	_, err := io.WriteString(w, b.String())
	return err
}

// WriteMisc writes a section that lists ticket numbers only, in the order
// given. Descriptions are ignored. Nothing is written when fs is empty.
func WriteMisc(w io.Writer, heading string, fs []fragment.Fragment, width int) error {
	if len(fs) == 0 {
		return nil
	}

	tickets := make([]int, 0, len(fs))
	for _, f := range fs {
		tickets = append(tickets, f.Ticket)
	}

	var b strings.Builder
	writeHeading(&b, heading)
	b.WriteString(fill(" - "+ticketList(tickets), width, entryIndent))
	b.WriteString("\n\n")

	_, err := io.WriteString(w, b.String())
	return err
}

func writeHeading(b *strings.Builder, heading string) {
	b.WriteString(heading)
	b.WriteString("\n")
	b.WriteString(strings.Repeat("-", len(heading)))
	b.WriteString("\n")
}

// ticketList renders tickets as "#1, #2, #3".
func ticketList(tickets []int) string {
	parts := make([]string, len(tickets))
	for i, t := range tickets {
		parts[i] = "#" + strconv.Itoa(t)
	}
	return strings.Join(parts, ", ")
}
