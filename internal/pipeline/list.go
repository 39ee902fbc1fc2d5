package pipeline

import (
	"html"
	"strings"
)

// ListOptions controls FormattedList. Zero values take the defaults shown.
type ListOptions struct {
	Conjunction  string // "and"
	BeforeEach   string // "‘"
	AfterEach    string // "’"
	Prefix       string // used when the list has one item
	PrefixPlural string // used when the list has several items
}

// FormattedList renders items as prose: "‘a’, ‘b’ and ‘c’". Items are
// HTML-escaped; the surrounding markers are trusted markup.
func FormattedList(items []string, opts ListOptions) string {
	if opts.Conjunction == "" {
		opts.Conjunction = "and"
	}
	if opts.BeforeEach == "" && opts.AfterEach == "" {
		opts.BeforeEach, opts.AfterEach = "‘", "’"
	}

	wrapped := make([]string, len(items))
	for i, item := range items {
		wrapped[i] = opts.BeforeEach + html.EscapeString(item) + opts.AfterEach
	}

	var prefix string
	if len(items) == 1 {
		prefix = opts.Prefix
	} else {
		prefix = opts.PrefixPlural
	}
	if prefix != "" {
		prefix += " "
	}

	switch len(wrapped) {
	case 0:
		return ""
	case 1:
		return prefix + wrapped[0]
	default:
		head := strings.Join(wrapped[:len(wrapped)-1], ", ")
		return prefix + head + " " + opts.Conjunction + " " + wrapped[len(wrapped)-1]
	}
}
