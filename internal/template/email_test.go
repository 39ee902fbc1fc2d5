package template

import (
	"strings"
	"testing"

	"notifykit/internal/fields"
)

func newTestHTMLEmail(t *testing.T, rec Record, values fields.Values, opts HTMLEmailOptions) *HTMLEmail {
	t.Helper()
	email, err := NewHTMLEmail(rec, values, opts)
	if err != nil {
		t.Fatal(err)
	}
	return email
}

func TestPlainTextEmailWhitespace(t *testing.T) {
	t.Parallel()
	email, err := NewPlainTextEmail(Record{
		Type:    TypeEmail,
		Subject: "foo",
		Content: "# Heading\n" +
			"\n" +
			"1. one\n" +
			"2. two\n" +
			"3. three\n" +
			"\n" +
			"***\n" +
			"\n" +
			"# Heading\n" +
			"\n" +
			"Paragraph\n" +
			"\n" +
			"Paragraph\n" +
			"\n" +
			"^ callout\n" +
			"\n" +
			"1. one not four\n" +
			"1. two not five",
	}, nil, EmailOptions{})
	if err != nil {
		t.Fatal(err)
	}
	want := "Heading\n" +
		"-----------------------------------------------------------------\n" +
		"\n" +
		"1. one\n" +
		"2. two\n" +
		"3. three\n" +
		"\n" +
		"=================================================================\n" +
		"\n" +
		"\n" +
		"Heading\n" +
		"-----------------------------------------------------------------\n" +
		"\n" +
		"Paragraph\n" +
		"\n" +
		"Paragraph\n" +
		"\n" +
		"callout\n" +
		"\n" +
		"1. one not four\n" +
		"2. two not five\n"
	if got := email.String(); got != want {
		t.Errorf("String() = %q, want %q", got, want)
	}
}

func TestPlainTextEmailUnescapesEntities(t *testing.T) {
	t.Parallel()
	email, err := NewPlainTextEmail(Record{
		Type:    TypeEmail,
		Subject: "foo",
		Content: "Twas&nbsp;the night",
	}, nil, EmailOptions{})
	if err != nil {
		t.Fatal(err)
	}
	if got := email.String(); !strings.Contains(got, "Twas\u00a0the night") {
		t.Errorf("String() = %q, want non-breaking space", got)
	}
}

func TestHeadingOnlyTemplateRenders(t *testing.T) {
	t.Parallel()
	rec := Record{
		Type:    TypeEmail,
		Subject: "foo",
		Content: "# Heading [link](https://example.com)",
	}

	plain, err := NewPlainTextEmail(rec, nil, EmailOptions{})
	if err != nil {
		t.Fatal(err)
	}
	wantPlain := "Heading link: https://example.com\n" +
		"-----------------------------------------------------------------\n"
	if got := plain.String(); !strings.Contains(got, wantPlain) {
		t.Errorf("plain text = %q, want substring %q", got, wantPlain)
	}

	html := newTestHTMLEmail(t, rec, nil, HTMLEmailOptions{})
	wantHTML := `<h2 style="Margin: 0 0 20px 0; padding: 0; font-size: 27px; ` +
		`line-height: 35px; font-weight: bold; color: #0B0C0C;">` +
		`Heading <a style="word-wrap: break-word; color: #1D70B8;" href="https://example.com">link</a>` +
		`</h2>`
	if got := html.String(); !strings.Contains(got, wantHTML) {
		t.Errorf("html email = %q, want substring %q", got, wantHTML)
	}
}

func TestHTMLEmailKeepsNonBreakingSpaceEntity(t *testing.T) {
	t.Parallel()
	email := newTestHTMLEmail(t, Record{
		Type:    TypeEmail,
		Subject: "foo",
		Content: "Twas&nbsp;the night",
	}, nil, HTMLEmailOptions{})
	if got := email.String(); !strings.Contains(got, "Twas&nbsp;the night") {
		t.Errorf("String() = %q, want literal &nbsp; entity", got)
	}
}

func TestEmailSubjectEscaping(t *testing.T) {
	t.Parallel()
	rec := Record{
		Type:    TypeEmail,
		Subject: "Beef & cheese for ((name))",
		Content: "content",
	}
	values := fields.Values{"name": "Mr & Mrs Smith"}

	html := newTestHTMLEmail(t, rec, values, HTMLEmailOptions{})
	if got, want := html.Subject(), "Beef &amp; cheese for Mr &amp; Mrs Smith"; got != want {
		t.Errorf("html Subject() = %q, want %q", got, want)
	}

	// the text/plain part is the one place the subject stays raw
	plain, err := NewPlainTextEmail(rec, values, EmailOptions{})
	if err != nil {
		t.Fatal(err)
	}
	if got, want := plain.Subject(), "Beef & cheese for Mr & Mrs Smith"; got != want {
		t.Errorf("plain Subject() = %q, want %q", got, want)
	}
}

func TestPreheaderIsAtStartOfHTMLEmails(t *testing.T) {
	t.Parallel()
	email := newTestHTMLEmail(t, Record{
		Type:    TypeEmail,
		Subject: "subject",
		Content: "content",
	}, nil, HTMLEmailOptions{CompleteHTML: true, GovukBanner: true})
	want := `<body style="font-family: Helvetica, Arial, sans-serif;font-size: 16px;margin: 0;color:#0b0c0c;">` +
		"\n\n" +
		`<span style="display: none;font-size: 1px;color: #fff; max-height: 0;">content…</span>`
	if got := email.String(); !strings.Contains(got, want) {
		t.Errorf("String() = %q, want substring %q", got, want)
	}
}

func TestPreheaderContent(t *testing.T) {
	t.Parallel()
	cases := []struct {
		name    string
		content string
		values  fields.Values
		want    string
	}{
		{
			name: "flattened markdown",
			content: "Hello (( name ))\n" +
				"\n" +
				"# This - is a \"heading\"\n" +
				"\n" +
				"My favourite websites' URLs are:\n" +
				"- GOV.UK\n" +
				"- https://www.example.com\n",
			values: fields.Values{"name": "Jo"},
			want:   "Hello Jo This – is a “heading” My favourite websites’ URLs are: • GOV.\u200bUK • https://www.example.com",
		},
		{
			name:    "link label only",
			content: "[Markdown link](https://www.example.com)\n",
			want:    "Markdown link",
		},
		{
			name: "truncated to 256 characters",
			content: "\n" +
				"            Lorem Ipsum is simply dummy text of the printing and\n" +
				"            typesetting industry.\n" +
				"\n" +
				"            Lorem Ipsum has been the industry’s standard dummy text\n" +
				"            ever since the 1500s, when an unknown printer took a galley\n" +
				"            of type and scrambled it to make a type specimen book.\n" +
				"\n" +
				"            Lorem Ipsum is simply dummy text of the printing and\n" +
				"            typesetting industry.\n" +
				"\n" +
				"            Lorem Ipsum has been the industry’s standard dummy text\n" +
				"            ever since the 1500s, when an unknown printer took a galley\n" +
				"            of type and scrambled it to make a type specimen book.\n" +
				"        ",
			want: "Lorem Ipsum is simply dummy text of the printing and " +
				"typesetting industry. Lorem Ipsum has been the industry’s " +
				"standard dummy text ever since the 1500s, when an unknown " +
				"printer took a galley of type and scrambled it to make a " +
				"type specimen book. Lorem Ipsu",
		},
		{
			name:    "short content untouched",
			content: "short email",
			want:    "short email",
		},
	}
	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			email := newTestHTMLEmail(t, Record{
				Type:    TypeEmail,
				Subject: "subject",
				Content: tc.content,
			}, tc.values, HTMLEmailOptions{})
			if got := email.Preheader(); got != tc.want {
				t.Errorf("Preheader() = %q, want %q", got, tc.want)
			}
		})
	}
}

func TestHTMLEmailGovukBanner(t *testing.T) {
	t.Parallel()
	rec := Record{Type: TypeEmail, Subject: "subject", Content: "content"}

	with := newTestHTMLEmail(t, rec, nil, HTMLEmailOptions{GovukBanner: true})
	if !strings.Contains(with.String(), "GOV.UK") {
		t.Error("banner enabled but GOV.UK not present")
	}

	without := newTestHTMLEmail(t, rec, nil, HTMLEmailOptions{})
	if strings.Contains(without.String(), "GOV.UK") {
		t.Error("banner disabled but GOV.UK present")
	}
}

func TestHTMLEmailCompleteHTML(t *testing.T) {
	t.Parallel()
	rec := Record{Type: TypeEmail, Subject: "subject", Content: "content"}

	complete := newTestHTMLEmail(t, rec, nil, HTMLEmailOptions{CompleteHTML: true})
	out := complete.String()
	for _, want := range []string{"<!DOCTYPE html", "<html", "<body", "</body>", "</html>"} {
		if !strings.Contains(out, want) {
			t.Errorf("complete document missing %q", want)
		}
	}

	partial := newTestHTMLEmail(t, rec, nil, HTMLEmailOptions{})
	out = partial.String()
	for _, banned := range []string{"DOCTYPE", "html", "body"} {
		if strings.Contains(out, banned) {
			t.Errorf("partial document contains %q:\n%s", banned, out)
		}
	}
}

func TestHTMLEmailBranding(t *testing.T) {
	t.Parallel()
	rec := Record{Type: TypeEmail, Subject: "subject", Content: "content"}
	brandText := "League of Justice"

	t.Run("no logo means no branding", func(t *testing.T) {
		t.Parallel()
		email := newTestHTMLEmail(t, rec, nil, HTMLEmailOptions{BrandName: "Example"})
		if strings.Contains(email.String(), "<img") {
			t.Error("branding rendered without a logo")
		}
	})

	t.Run("logo with brand name", func(t *testing.T) {
		t.Parallel()
		email := newTestHTMLEmail(t, rec, nil, HTMLEmailOptions{
			BrandLogo: "http://example.com/image.png",
			BrandName: "Example",
		})
		out := email.String()
		if !strings.Contains(out, `src="http://example.com/image.png"`) {
			t.Errorf("logo missing from output:\n%s", out)
		}
		if !strings.Contains(out, `alt="Example"`) {
			t.Errorf("alt text should carry the brand name:\n%s", out)
		}
	})

	t.Run("brand text blanks the alt text", func(t *testing.T) {
		t.Parallel()
		email := newTestHTMLEmail(t, rec, nil, HTMLEmailOptions{
			BrandLogo: "http://example.com/image.png",
			BrandText: &brandText,
			BrandName: "Example",
		})
		out := email.String()
		if !strings.Contains(out, `alt=" "`) {
			t.Errorf("alt text should be a single space:\n%s", out)
		}
		if !strings.Contains(out, brandText) {
			t.Errorf("brand text missing:\n%s", out)
		}
	})

	t.Run("brand banner", func(t *testing.T) {
		t.Parallel()
		email := newTestHTMLEmail(t, rec, nil, HTMLEmailOptions{
			BrandLogo:   "http://example.com/image.png",
			BrandText:   &brandText,
			BrandColour: "#f00",
			BrandBanner: true,
		})
		out := email.String()
		if !strings.Contains(out, `bgcolor="#f00"`) {
			t.Errorf("banner colour missing:\n%s", out)
		}
		if strings.Contains(out, `<td width="10" height="10" valign="middle"></td>`) {
			t.Errorf("banner layout should not carry the spacer cell:\n%s", out)
		}
	})

	t.Run("brand block", func(t *testing.T) {
		t.Parallel()
		email := newTestHTMLEmail(t, rec, nil, HTMLEmailOptions{
			BrandLogo:   "http://example.com/image.png",
			BrandText:   &brandText,
			BrandColour: "#f00",
		})
		out := email.String()
		if !strings.Contains(out, `<td width="10" height="10" valign="middle"></td>`) {
			t.Errorf("block layout should carry the spacer cell:\n%s", out)
		}
		if !strings.Contains(out, "border-left: 2px solid #f00;") {
			t.Errorf("block colour missing:\n%s", out)
		}
	})
}

func TestEmailPreviewHeaders(t *testing.T) {
	t.Parallel()
	rec := Record{Type: TypeEmail, Subject: "subject", Content: "content"}

	t.Run("from name shown and escaped", func(t *testing.T) {
		t.Parallel()
		preview, err := NewEmailPreview(rec, nil, EmailPreviewOptions{
			FromName: `<script>alert("")</script>`,
		})
		if err != nil {
			t.Fatal(err)
		}
		out := preview.String()
		if !strings.Contains(out, "<th>From</th>") {
			t.Errorf("From row missing:\n%s", out)
		}
		if strings.Contains(out, "<script>") {
			t.Errorf("from name not escaped:\n%s", out)
		}
		if !strings.Contains(out, `&lt;script&gt;alert("")&lt;/script&gt;`) {
			t.Errorf("escaped from name missing:\n%s", out)
		}
	})

	t.Run("reply to shown", func(t *testing.T) {
		t.Parallel()
		preview, err := NewEmailPreview(rec, nil, EmailPreviewOptions{
			ReplyTo: "test@example.com",
		})
		if err != nil {
			t.Fatal(err)
		}
		out := preview.String()
		if !strings.Contains(out, "<th>Reply&nbsp;to</th>") {
			t.Errorf("Reply to row missing:\n%s", out)
		}
		if !strings.Contains(out, "test@example.com") {
			t.Errorf("reply to address missing:\n%s", out)
		}
	})

	t.Run("recipient", func(t *testing.T) {
		t.Parallel()
		unknown, err := NewEmailPreview(rec, nil, EmailPreviewOptions{ShowRecipient: true})
		if err != nil {
			t.Fatal(err)
		}
		if out := unknown.String(); !strings.Contains(out, "<span class='placeholder-no-brackets'>email address</span>") {
			t.Errorf("placeholder recipient missing:\n%s", out)
		}

		known, err := NewEmailPreview(rec, fields.Values{"email address": "test@example.com"},
			EmailPreviewOptions{ShowRecipient: true})
		if err != nil {
			t.Fatal(err)
		}
		if out := known.String(); !strings.Contains(out, "test@example.com") {
			t.Errorf("recipient address missing:\n%s", out)
		}
	})

	t.Run("subject row", func(t *testing.T) {
		t.Parallel()
		preview, err := NewEmailPreview(rec, nil, EmailPreviewOptions{})
		if err != nil {
			t.Fatal(err)
		}
		if out := preview.String(); !strings.Contains(out, `<h2 class="email-message-subject">subject</h2>`) {
			t.Errorf("subject row missing:\n%s", out)
		}
	})
}
