package pipeline

import (
	"regexp"
	"strings"
	"unicode"
)

// Zero-width and otherwise invisible characters that users paste in without
// noticing. These are removed outright rather than treated as spacing.
const obscureWhitespace = "\u180E\u200B\u200C\u200D\u2060\uFEFF"

func isObscureWhitespace(r rune) bool {
	return strings.ContainsRune(obscureWhitespace, r)
}

func removeObscureWhitespace(s string) string {
	return strings.Map(func(r rune) rune {
		if isObscureWhitespace(r) {
			return -1
		}
		return r
	}, s)
}

// AddPrefix returns a stage that prepends "prefix: " to the message.
// An empty prefix is the identity.
func AddPrefix(prefix string) Stage {
	return func(s string) string {
		if prefix == "" {
			return s
		}
		return prefix + ": " + s
	}
}

var whitespaceBeforePunctuation = regexp.MustCompile(`[ \t]+([,.])`)

// RemoveWhitespaceBeforePunctuation drops spaces and tabs directly before a
// comma or full stop, so "Hello Jo ," reads "Hello Jo,".
func RemoveWhitespaceBeforePunctuation(s string) string {
	return whitespaceBeforePunctuation.ReplaceAllString(s, "$1")
}

// ReplaceHyphensWithEnDashes swaps spaced hyphens (and spaced em dashes) used
// as parenthetical dashes for a spaced en dash. Unspaced hyphens, as in
// "2004-2008", are left alone.
func ReplaceHyphensWithEnDashes(s string) string {
	replacer := strings.NewReplacer(
		" --- ", " – ",
		" -- ", " – ",
		" - ", " – ",
		" — ", " – ",
	)
	return replacer.Replace(s)
}

// ReplaceHyphensWithNonBreakingHyphens keeps hyphenated words on one line in
// letter output.
func ReplaceHyphensWithNonBreakingHyphens(s string) string {
	return strings.ReplaceAll(s, "-", "\u2011")
}

// splitLines splits on every line boundary recognized by the channel
// pipelines: LF, CR, CRLF, and the less common vertical separators.
func splitLines(s string) []string {
	var lines []string
	start := 0
	i := 0
	for i < len(s) {
		switch s[i] {
		case '\n', '\v', '\f':
			lines = append(lines, s[start:i])
			i++
			start = i
		case '\r':
			lines = append(lines, s[start:i])
			i++
			if i < len(s) && s[i] == '\n' {
				i++
			}
			start = i
		default:
			r, size := runeAt(s, i)
			if r == '\u0085' || r == '\u2028' || r == '\u2029' {
				lines = append(lines, s[start:i])
				i += size
				start = i
			} else {
				i += size
			}
		}
	}
	if start < len(s) {
		lines = append(lines, s[start:])
	}
	return lines
}

func runeAt(s string, i int) (rune, int) {
	for _, r := range s[i:] {
		return r, len(string(r))
	}
	return 0, 1
}

// NormaliseNewlines rewrites every line boundary as a single LF.
func NormaliseNewlines(s string) string {
	return strings.Join(splitLines(s), "\n")
}

// NormaliseWhitespace removes invisible characters and collapses every run of
// whitespace (including newlines) to a single space, trimmed at both ends.
func NormaliseWhitespace(s string) string {
	return strings.Join(strings.Fields(removeObscureWhitespace(s)), " ")
}

// NormaliseWhitespaceAndNewlines normalises whitespace per line while keeping
// the line structure itself.
func NormaliseWhitespaceAndNewlines(s string) string {
	lines := splitLines(s)
	for i, line := range lines {
		lines[i] = NormaliseWhitespace(line)
	}
	return strings.Join(lines, "\n")
}

var multipleNewlines = regexp.MustCompile(`\n{3,}`)

// NormaliseMultipleNewlines caps consecutive blank lines at one.
func NormaliseMultipleNewlines(s string) string {
	return multipleNewlines.ReplaceAllString(s, "\n\n")
}

// StripWhitespace trims whitespace and invisible characters from both ends.
func StripWhitespace(s string) string {
	return strings.TrimFunc(s, func(r rune) bool {
		return unicode.IsSpace(r) || isObscureWhitespace(r)
	})
}

// StripAndRemoveObscureWhitespace removes invisible characters everywhere and
// trims normal whitespace from the ends only.
func StripAndRemoveObscureWhitespace(s string) string {
	return strings.TrimSpace(removeObscureWhitespace(s))
}

// StripLeadingWhitespace trims whitespace from the start.
func StripLeadingWhitespace(s string) string {
	return strings.TrimLeftFunc(s, unicode.IsSpace)
}

// AddTrailingNewline appends a newline. Markdown block parsing needs the
// final line terminated.
func AddTrailingNewline(s string) string {
	return s + "\n"
}

// StripUnsupportedCharacters removes characters that downstream renderers
// cannot display (currently the unicode line separator).
func StripUnsupportedCharacters(s string) string {
	return strings.ReplaceAll(s, "\u2028", "")
}

// Nl2Br renders newlines as HTML line breaks for single-block previews.
func Nl2Br(s string) string {
	return strings.ReplaceAll(s, "\n", "<br>")
}

var govUK = regexp.MustCompile(`(?i)gov\.uk`)

// UnlinkGovUK inserts a zero-width space into standalone mentions of GOV.UK
// so mail clients stop auto-linking the brand name. Mentions inside URLs,
// hostnames and email addresses are left alone.
func UnlinkGovUK(s string) string {
	matches := govUK.FindAllStringIndex(s, -1)
	if matches == nil {
		return s
	}
	var b strings.Builder
	b.Grow(len(s) + len(matches)*3)
	last := 0
	for _, m := range matches {
		start, end := m[0], m[1]
		if !govUKMentionBefore(s, start) || !govUKMentionAfter(s, end) {
			continue
		}
		// "gov." + zero-width space + "uk", preserving the original case
		b.WriteString(s[last : start+4])
		b.WriteString("\u200B")
		b.WriteString(s[start+4 : end])
		last = end
	}
	b.WriteString(s[last:])
	return b.String()
}

func govUKMentionBefore(s string, start int) bool {
	if start == 0 {
		return true
	}
	r := lastRune(s[:start])
	return unicode.IsSpace(r) || r == '*' || r == '#' || r == '^'
}

func govUKMentionAfter(s string, end int) bool {
	if end == len(s) {
		return true
	}
	switch s[end] {
	case '/', '?', '#':
		return false
	}
	return true
}

func lastRune(s string) rune {
	var r rune
	for _, rr := range s {
		r = rr
	}
	return r
}

// smsURL matches http(s) URLs the way the SMS and email renderers linkify
// them: greedy, but never ending on trailing punctuation.
var smsURL = regexp.MustCompile(`https?://[^\s<]*[^\s<.,:;"')\]]`)

const anchorStyle = `word-wrap: break-word; color: #1D70B8;`

// EscapeHref percent-encodes characters that would let a URL break out of an
// href attribute.
func EscapeHref(url string) string {
	replacer := strings.NewReplacer(
		`"`, "%22",
		"'", "%27",
		"(", "%28",
		")", "%29",
		"<", "%3C",
		">", "%3E",
	)
	return replacer.Replace(url)
}

// AutolinkSMS wraps bare http(s) URLs in styled anchors for SMS previews.
func AutolinkSMS(s string) string {
	return smsURL.ReplaceAllStringFunc(s, func(url string) string {
		return `<a style="` + anchorStyle + `" href="` + EscapeHref(url) + `">` + url + `</a>`
	})
}
