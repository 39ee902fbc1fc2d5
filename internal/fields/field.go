package fields

import (
	"fmt"
	"regexp"
	"strings"

	"notifykit/internal/pipeline"
)

// HTMLMode controls how resolved output treats markup.
type HTMLMode int

const (
	// Passthrough leaves text and values as-is, for plain channels.
	Passthrough HTMLMode = iota
	// Escape HTML-escapes template text and substituted values.
	Escape
)

// Options controls placeholder resolution.
type Options struct {
	HTML HTMLMode

	// RedactMissing replaces unresolved placeholders with a redaction
	// marker instead of highlighting them.
	RedactMissing bool

	// WithoutBrackets renders unresolved placeholders as the bare name,
	// used by the letter address block.
	WithoutBrackets bool

	// MarkdownLists renders list values as markdown bullet lists, so the
	// email renderers turn them into real lists.
	MarkdownLists bool
}

type placeholder struct {
	start, end  int
	name        string
	conditional bool
	text        string
}

// A placeholder is ((name)) or, conditionally, ((name??shown when set)).
// Names cannot contain brackets or question marks.
var placeholderRe = regexp.MustCompile(`\(\(([^()?]+)(\?\?)?([^()]*)\)\)`)

var parseCache = newLRUCache(1024)

func parsePlaceholders(text string) []placeholder {
	if cached, ok := parseCache.get(text); ok {
		return cached
	}
	matches := placeholderRe.FindAllStringSubmatchIndex(text, -1)
	parsed := make([]placeholder, 0, len(matches))
	for _, m := range matches {
		p := placeholder{
			start: m[0],
			end:   m[1],
			name:  strings.TrimSpace(text[m[2]:m[3]]),
		}
		if m[4] >= 0 {
			p.conditional = true
			p.text = text[m[6]:m[7]]
		}
		parsed = append(parsed, p)
	}
	parseCache.put(text, parsed)
	return parsed
}

// Placeholders returns the distinct placeholder names in text, in order of
// first appearance. Names that differ only in case or separators count as
// one placeholder.
func Placeholders(text string) []string {
	seen := make(map[string]struct{})
	var names []string
	for _, p := range parsePlaceholders(text) {
		canon := CanonicalKey(p.name)
		if _, ok := seen[canon]; ok {
			continue
		}
		seen[canon] = struct{}{}
		names = append(names, p.name)
	}
	return names
}

// Resolve substitutes values into the placeholders of text.
func Resolve(text string, values Values, opts Options) string {
	placeholders := parsePlaceholders(text)
	if len(placeholders) == 0 {
		return resolveLiteral(text, opts)
	}
	var b strings.Builder
	b.Grow(len(text) + 32)
	last := 0
	for _, p := range placeholders {
		b.WriteString(resolveLiteral(text[last:p.start], opts))
		b.WriteString(resolveMatch(text, p, values, opts))
		last = p.end
	}
	b.WriteString(resolveLiteral(text[last:], opts))
	return b.String()
}

func resolveLiteral(s string, opts Options) string {
	if opts.HTML == Escape {
		return pipeline.EscapeHTML(s)
	}
	return s
}

func resolveMatch(text string, p placeholder, values Values, opts Options) string {
	value, ok := values.Get(p.name)
	if !ok || value == nil {
		return renderUnresolved(text, p, opts)
	}
	if p.conditional {
		if isTruthy(value) {
			return resolveLiteral(p.text, opts)
		}
		return ""
	}
	if items, ok := asList(value); ok {
		return renderList(items, opts)
	}
	return resolveLiteral(stringify(value), opts)
}

func renderUnresolved(text string, p placeholder, opts Options) string {
	if opts.RedactMissing {
		if opts.HTML == Escape {
			return "<span class='redacted'>hidden</span>"
		}
		return "hidden"
	}
	if opts.HTML != Escape {
		return text[p.start:p.end]
	}
	name := pipeline.EscapeHTML(p.name)
	if p.conditional {
		return "<span class='placeholder-conditional'>((" + name + "??</span>" +
			resolveLiteral(p.text, opts) + "))"
	}
	if opts.WithoutBrackets {
		return "<span class='placeholder-no-brackets'>" + name + "</span>"
	}
	return "<span class='placeholder'>((" + name + "))</span>"
}

func renderList(items []string, opts Options) string {
	rendered := make([]string, len(items))
	for i, item := range items {
		rendered[i] = resolveLiteral(item, opts)
	}
	if opts.MarkdownLists {
		return "\n\n* " + strings.Join(rendered, "\n* ")
	}
	return strings.Join(rendered, ", ")
}

func asList(value any) ([]string, bool) {
	switch t := value.(type) {
	case []string:
		return t, true
	case []any:
		items := make([]string, len(t))
		for i, v := range t {
			items[i] = stringify(v)
		}
		return items, true
	default:
		return nil, false
	}
}

func stringify(value any) string {
	switch t := value.(type) {
	case string:
		return t
	case fmt.Stringer:
		return t.String()
	default:
		return fmt.Sprint(value)
	}
}

func isTruthy(value any) bool {
	switch t := value.(type) {
	case bool:
		return t
	case string:
		return t != ""
	case int:
		return t != 0
	case int64:
		return t != 0
	case float64:
		return t != 0
	case []string:
		return len(t) > 0
	case []any:
		return len(t) > 0
	default:
		return value != nil
	}
}
