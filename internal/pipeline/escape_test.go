package pipeline

import "testing"

func TestEscapeHTMLKeepsInvalidMarkup(t *testing.T) {
	t.Parallel()

	got := EscapeHTML("<to cancel daily cat facts reply 'cancel'>")
	want := "&lt;to cancel daily cat facts reply 'cancel'&gt;"
	if got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
}

func TestEscapeHTMLEntities(t *testing.T) {
	t.Parallel()

	cases := []struct {
		content string
		escaped string
	}{
		{"&?a;", "&amp;?a;"},
		{"&>a;", "&amp;&gt;a;"},
		{"&*a;", "&amp;*a;"},
		{"&a?;", "&amp;a?;"},
		{"&x?xa;", "&amp;x?xa;"},
		// Query arguments must not turn into entities.
		{"&timestamp=&times;", "&amp;timestamp=×"},
		{"&times=1,2,3", "&amp;times=1,2,3"},
		// Unambiguous named entities resolve to their character.
		{"2&minus;1", "2−1"},
		{"200&micro;g", "200µg"},
		// Without the semicolon they stay ambiguous and get escaped.
		{"2&minus1", "2&amp;minus1"},
		{"200&microg", "200&amp;microg"},
		{"2 &minus 1", "2 &amp;minus 1"},
		{"200&micro g", "200&amp;micro g"},
		// Things which aren't real entities are ignored, not removed.
		{"This &isnotarealentity;", "This &amp;isnotarealentity;"},
		// Deliberate literal entities survive.
		{"Before&nbsp;after", "Before&nbsp;after"},
		{"?a=1&amp;b=2", "?a=1&amp;b=2"},
		{"((var??&lpar;in brackets&rpar;))", "((var??&lpar;in brackets&rpar;))"},
	}
	for _, tc := range cases {
		tc := tc
		t.Run(tc.content, func(t *testing.T) {
			t.Parallel()
			if got := EscapeHTML(tc.content); got != tc.escaped {
				t.Fatalf("got %q, want %q", got, tc.escaped)
			}
		})
	}
}

func TestUnescapeHTML(t *testing.T) {
	t.Parallel()

	if got := UnescapeHTML("a &amp; b &lt;c&gt;"); got != "a & b <c>" {
		t.Fatalf("got %q", got)
	}
}
