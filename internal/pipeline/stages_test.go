package pipeline

import "testing"

func TestTakeThen(t *testing.T) {
	t.Parallel()

	got := Take("  a - b  ").
		Then(StripWhitespace).
		Then(ReplaceHyphensWithEnDashes).
		Then(nil).
		String()
	if got != "a - b" {
		t.Fatalf("chain = %q", got)
	}

	if got := Take("x").String(); got != "x" {
		t.Fatalf("empty chain = %q", got)
	}
}

func TestAddPrefix(t *testing.T) {
	t.Parallel()

	if got := AddPrefix("a")("b"); got != "a: b" {
		t.Fatalf("AddPrefix = %q", got)
	}
	if got := AddPrefix("")("b"); got != "b" {
		t.Fatalf("empty prefix = %q", got)
	}
}

func TestRemoveWhitespaceBeforePunctuation(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name  string
		dirty string
		clean string
	}{
		{"placeholder comma", "Hello ((name)) ,\n\nThis is a message", "Hello ((name)),\n\nThis is a message"},
		{"name comma", "Hello Jo ,\n\nThis is a message", "Hello Jo,\n\nThis is a message"},
		{"leading mess comma", "\n   \t    , word", "\n, word"},
		{"placeholder stop", "Hello ((name)) .\n\nThis is a message", "Hello ((name)).\n\nThis is a message"},
		{"name stop", "Hello Jo .\n\nThis is a message", "Hello Jo.\n\nThis is a message"},
		{"leading mess stop", "\n   \t    . word", "\n. word"},
	}
	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			if got := RemoveWhitespaceBeforePunctuation(tc.dirty); got != tc.clean {
				t.Fatalf("got %q, want %q", got, tc.clean)
			}
		})
	}
}

func TestReplaceHyphensWithEnDashes(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name  string
		nasty string
		nice  string
	}{
		{
			"running text",
			"The en dash - always with spaces in running text when, as discussed in this section, indicating a parenthesis or pause - and the spaced em dash both have a certain technical advantage over the unspaced em dash. ",
			"The en dash – always with spaces in running text when, as discussed in this section, indicating a parenthesis or pause – and the spaced em dash both have a certain technical advantage over the unspaced em dash. ",
		},
		{"double", "double -- dash", "double – dash"},
		{"triple", "triple --- dash", "triple – dash"},
		{"quadruple untouched", "quadruple ---- dash", "quadruple ---- dash"},
		{"em dash", "em — dash", "em – dash"},
		{"already correct", "already – correct", "already – correct"},
		{"date range untouched", "2004-2008", "2004-2008"},
	}
	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			if got := ReplaceHyphensWithEnDashes(tc.nasty); got != tc.nice {
				t.Fatalf("got %q, want %q", got, tc.nice)
			}
		})
	}
}

func TestReplaceHyphensWithNonBreakingHyphens(t *testing.T) {
	t.Parallel()

	if got := ReplaceHyphensWithNonBreakingHyphens("non-breaking"); got != "non\u2011breaking" {
		t.Fatalf("got %q", got)
	}
}

func TestStripWhitespace(t *testing.T) {
	t.Parallel()

	for _, value := range []string{
		"bar",
		" bar ",
		"\n        \t    bar\n    ",
		" \u180E\u200B \u200C bar \u200D \u2060\uFEFF ",
	} {
		if got := StripWhitespace(value); got != "bar" {
			t.Fatalf("StripWhitespace(%q) = %q", value, got)
		}
	}
}

func TestStripAndRemoveObscureWhitespace(t *testing.T) {
	t.Parallel()

	for _, value := range []string{
		"notifications-email",
		"  \tnotifications-email \x0c ",
		"\rn\u200Coti\u200Dfi\u200Bcati\u2060ons-\u180Eemai\uFEFFl\uFEFF",
	} {
		if got := StripAndRemoveObscureWhitespace(value); got != "notifications-email" {
			t.Fatalf("got %q from %q", got, value)
		}
	}

	// Internal whitespace is kept.
	sentence := "   words \n over multiple lines with \ttabs\t   "
	if got := StripAndRemoveObscureWhitespace(sentence); got != "words \n over multiple lines with \ttabs" {
		t.Fatalf("got %q", got)
	}
}

func TestNormaliseWhitespace(t *testing.T) {
	t.Parallel()

	if got := NormaliseWhitespace("\u200C Your tax   is\ndue\n\n"); got != "Your tax is due" {
		t.Fatalf("got %q", got)
	}
}

func TestNormaliseNewlines(t *testing.T) {
	t.Parallel()

	if got := NormaliseNewlines("one\r\ntwo\rthree\nfour\u2028five"); got != "one\ntwo\nthree\nfour\nfive" {
		t.Fatalf("got %q", got)
	}
}

func TestNormaliseMultipleNewlines(t *testing.T) {
	t.Parallel()

	if got := NormaliseMultipleNewlines("a\n\n\n\n\nb\n\nc"); got != "a\n\nb\n\nc" {
		t.Fatalf("got %q", got)
	}
}

func TestStripUnsupportedCharacters(t *testing.T) {
	t.Parallel()

	if got := StripUnsupportedCharacters("line one\u2028line two"); got != "line oneline two" {
		t.Fatalf("got %q", got)
	}
}

func TestUnlinkGovUK(t *testing.T) {
	t.Parallel()

	cases := []struct {
		content  string
		expected string
	}{
		// Mentions that get the zero-width space.
		{"GOV.UK", "GOV.\u200BUK"},
		{"gov.uk", "gov.\u200Buk"},
		{"content with space infront GOV.UK", "content with space infront GOV.\u200BUK"},
		{"content with tab infront\tGOV.UK", "content with tab infront\tGOV.\u200BUK"},
		{"content with newline infront\nGOV.UK", "content with newline infront\nGOV.\u200BUK"},
		{"*GOV.UK", "*GOV.\u200BUK"},
		{"#GOV.UK", "#GOV.\u200BUK"},
		{"^GOV.UK", "^GOV.\u200BUK"},
		{" #GOV.UK", " #GOV.\u200BUK"},
		{"GOV.UK with CONTENT after", "GOV.\u200BUK with CONTENT after"},
		{"#GOV.UK with CONTENT after", "#GOV.\u200BUK with CONTENT after"},

		// Mentions inside URLs, hostnames and email addresses stay linkable.
		{"https://gov.uk", "https://gov.uk"},
		{"https://www.gov.uk", "https://www.gov.uk"},
		{"www.gov.uk", "www.gov.uk"},
		{"WWW.GOV.UK", "WWW.GOV.UK"},
		{"WWW.GOV.UK.", "WWW.GOV.UK."},
		{"https://www.gov.uk/?utm_source=gov.uk", "https://www.gov.uk/?utm_source=gov.uk"},
		{"mygov.uk", "mygov.uk"},
		{"www.this-site-is-not-gov.uk", "www.this-site-is-not-gov.uk"},
		{"www.gov.uk?websites=bbc.co.uk;gov.uk;nsh.scot", "www.gov.uk?websites=bbc.co.uk;gov.uk;nsh.scot"},
		{"reply to: xxxx@xxx.gov.uk", "reply to: xxxx@xxx.gov.uk"},
		{"southwark.gov.uk", "southwark.gov.uk"},
		{"data.gov.uk", "data.gov.uk"},
		{"gov.uk/foo", "gov.uk/foo"},
		{"*GOV.UK/foo", "*GOV.UK/foo"},
		{"#GOV.UK/foo", "#GOV.UK/foo"},
		{"^GOV.UK/foo", "^GOV.UK/foo"},
		{"gov.uk#departments-and-policy", "gov.uk#departments-and-policy"},
	}
	for _, tc := range cases {
		tc := tc
		t.Run(tc.content, func(t *testing.T) {
			t.Parallel()
			if got := UnlinkGovUK(tc.content); got != tc.expected {
				t.Fatalf("got %q, want %q", got, tc.expected)
			}
		})
	}
}

func TestNl2Br(t *testing.T) {
	t.Parallel()

	if got := Nl2Br("a\nb"); got != "a<br>b" {
		t.Fatalf("got %q", got)
	}
}

func TestAutolinkSMS(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name     string
		in       string
		expected string
	}{
		{
			"plain URL",
			"visit http://example.com today",
			`visit <a style="word-wrap: break-word; color: #1D70B8;" href="http://example.com">http://example.com</a> today`,
		},
		{
			"bracketed URL",
			"(http://example.com)",
			`(<a style="word-wrap: break-word; color: #1D70B8;" href="http://example.com">http://example.com</a>)`,
		},
		{
			"attribute breakout attempt",
			`https://example.com"onclick="alert('hi')`,
			`<a style="word-wrap: break-word; color: #1D70B8;" href="https://example.com%22onclick=%22alert%28%27hi">https://example.com"onclick="alert('hi</a>')`,
		},
		{
			"style breakout attempt",
			`https://example.com"style='text-decoration:blink'`,
			`<a style="word-wrap: break-word; color: #1D70B8;" href="https://example.com%22style=%27text-decoration:blink">https://example.com"style='text-decoration:blink</a>'`,
		},
		{
			"not a URL",
			"www.example.com and test@example.com",
			"www.example.com and test@example.com",
		},
	}
	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			if got := AutolinkSMS(tc.in); got != tc.expected {
				t.Fatalf("got %q, want %q", got, tc.expected)
			}
		})
	}
}

func TestNiceTypography(t *testing.T) {
	t.Parallel()

	got := NiceTypography("Hello Jo ,\n\nDinner at Tiffany's - 7pm")
	want := "Hello Jo,\n\nDinner at Tiffany’s – 7pm"
	if got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
}
