package pipeline

import (
	"html"
	"regexp"
	"strings"
)

// Entities users may write literally and expect to survive escaping.
// &lpar; and &rpar; are the only way to put brackets inside the text of a
// conditional placeholder; &nbsp; and &amp; are common paste-ins.
var literalEntities = []string{"&nbsp;", "&amp;", "&lpar;", "&rpar;"}

// A candidate named entity: ampersand, letters/digits, semicolon. Forms
// without the trailing semicolon are ambiguous (query strings, units) and
// are never resolved.
var namedEntity = regexp.MustCompile(`^&[a-zA-Z][a-zA-Z0-9]*;`)

// EscapeHTML escapes &, < and > while keeping deliberate entity usage
// working: the literal entities above pass through untouched, and
// unambiguous named entities (for example &minus; or &micro;) resolve to
// their character. Quotes are not escaped.
func EscapeHTML(s string) string {
	if !strings.ContainsAny(s, "&<>") {
		return s
	}
	var b strings.Builder
	b.Grow(len(s) + 16)
	for i := 0; i < len(s); {
		switch s[i] {
		case '<':
			b.WriteString("&lt;")
			i++
		case '>':
			b.WriteString("&gt;")
			i++
		case '&':
			if lit := matchLiteralEntity(s[i:]); lit != "" {
				b.WriteString(lit)
				i += len(lit)
				continue
			}
			if m := namedEntity.FindString(s[i:]); m != "" {
				decoded := html.UnescapeString(m)
				// A decode that still contains markup characters, or
				// didn't resolve at all, gets escaped instead.
				if decoded != m && !strings.ContainsAny(decoded, "&<>") {
					b.WriteString(decoded)
					i += len(m)
					continue
				}
			}
			b.WriteString("&amp;")
			i++
		default:
			b.WriteByte(s[i])
			i++
		}
	}
	return b.String()
}

func matchLiteralEntity(s string) string {
	for _, lit := range literalEntities {
		if strings.HasPrefix(s, lit) {
			return lit
		}
	}
	return ""
}

// UnescapeHTML resolves entities back to text for plain-text output.
func UnescapeHTML(s string) string {
	return html.UnescapeString(s)
}
