package pipeline

import (
	"regexp"
	"strings"
	"unicode"
)

// MakeQuotesSmart converts straight quotes to typographic ones.
//
// The conversion is context sensitive and deliberately conservative:
//   - HTML tags pass through untouched, so attribute values keep working.
//   - Words containing "://" pass through untouched, so query strings like
//     ?q='foo' are not mangled.
//   - An apostrophe between word characters always becomes a right quote.
func MakeQuotesSmart(s string) string {
	if !strings.ContainsAny(s, `'"`) {
		return s
	}
	var b strings.Builder
	b.Grow(len(s) + 8)
	var prev rune
	for _, tok := range tokenizeHTML(s) {
		if tok.tag {
			b.WriteString(tok.text)
		} else {
			b.WriteString(smartenText(tok.text, prev))
		}
		if r := lastRune(tok.text); r != 0 {
			prev = r
		}
	}
	return b.String()
}

type htmlToken struct {
	text string
	tag  bool
}

func tokenizeHTML(s string) []htmlToken {
	var toks []htmlToken
	for len(s) > 0 {
		open := strings.IndexByte(s, '<')
		if open < 0 {
			toks = append(toks, htmlToken{text: s})
			break
		}
		closing := strings.IndexByte(s[open:], '>')
		if closing < 0 {
			toks = append(toks, htmlToken{text: s})
			break
		}
		if open > 0 {
			toks = append(toks, htmlToken{text: s[:open]})
		}
		toks = append(toks, htmlToken{text: s[open : open+closing+1], tag: true})
		s = s[open+closing+1:]
	}
	return toks
}

func smartenText(s string, prevToken rune) string {
	// A lone quote leans on the preceding token: after any visible
	// character it closes, otherwise it opens.
	if s == "'" || s == `"` {
		closing := prevToken != 0 && !unicode.IsSpace(prevToken)
		switch {
		case s == "'" && closing:
			return "’"
		case s == "'":
			return "‘"
		case closing:
			return "”"
		default:
			return "“"
		}
	}

	runes := []rune(s)
	var b strings.Builder
	b.Grow(len(s) + 8)
	i := 0
	for i < len(runes) {
		// Leave URL-bearing words alone.
		if !unicode.IsSpace(runes[i]) {
			j := i
			for j < len(runes) && !unicode.IsSpace(runes[j]) {
				j++
			}
			word := string(runes[i:j])
			if strings.Contains(word, "://") {
				b.WriteString(word)
				i = j
				continue
			}
		}
		r := runes[i]
		if r != '\'' && r != '"' {
			b.WriteRune(r)
			i++
			continue
		}
		var prev, next rune
		if i > 0 {
			prev = runes[i-1]
		}
		if i+1 < len(runes) {
			next = runes[i+1]
		}
		b.WriteString(smartQuote(r, prev, next))
		i++
	}
	return b.String()
}

func smartQuote(q, prev, next rune) string {
	opens := prev == 0 || unicode.IsSpace(prev) || strings.ContainsRune("([{-–—", prev)
	if q == '"' {
		if opens {
			return "“"
		}
		return "”"
	}
	word := func(r rune) bool { return unicode.IsLetter(r) || unicode.IsDigit(r) }
	switch {
	case word(prev) && word(next):
		return "’"
	case opens && word(next):
		return "‘"
	case prev != 0 && !unicode.IsSpace(prev) && !strings.ContainsRune("([{", prev):
		return "’"
	default:
		return "‘"
	}
}

var emailish = regexp.MustCompile("[a-zA-Z0-9._%+'’`-]+@[a-zA-Z0-9.-]+")

// RemoveSmartQuotesFromEmailAddresses undoes quote smartening inside email
// addresses, where an apostrophe is part of the address.
func RemoveSmartQuotesFromEmailAddresses(s string) string {
	return emailish.ReplaceAllStringFunc(s, func(addr string) string {
		return strings.ReplaceAll(addr, "’", "'")
	})
}

// NiceTypography is the standard typographic cleanup applied to rendered
// content: tidy punctuation spacing, smarten quotes (but not in email
// addresses) and use en dashes for spaced hyphens.
func NiceTypography(s string) string {
	return Take(s).
		Then(RemoveWhitespaceBeforePunctuation).
		Then(MakeQuotesSmart).
		Then(RemoveSmartQuotesFromEmailAddresses).
		Then(ReplaceHyphensWithEnDashes).
		String()
}
