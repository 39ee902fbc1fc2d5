package renderer

import (
	"strings"
	"testing"
)

func TestSMSPreviewWrapper(t *testing.T) {
	t.Parallel()
	got := SMSPreview(SMSPreviewParams{Body: "Message"})
	want := "\n\n<div class=\"sms-message-wrapper\">\n  Message\n</div>"
	if got != want {
		t.Errorf("SMSPreview = %q, want %q", got, want)
	}
}

func TestSMSPreviewSenderAndRecipient(t *testing.T) {
	t.Parallel()
	got := SMSPreview(SMSPreviewParams{
		Body:          "Message",
		Sender:        "07700 900762",
		ShowSender:    true,
		Recipient:     "07700 900123",
		ShowRecipient: true,
	})
	want := "\n\n" +
		"<div class=\"sms-message-sender\">07700 900762</div>\n" +
		"<div class=\"sms-message-recipient\">To: 07700 900123</div>\n" +
		"<div class=\"sms-message-wrapper\">\n  Message\n</div>"
	if got != want {
		t.Errorf("SMSPreview = %q, want %q", got, want)
	}
}

func TestBroadcastPreviewWrapper(t *testing.T) {
	t.Parallel()
	got := BroadcastPreview(SMSPreviewParams{Body: "Message"})
	want := "<div class=\"broadcast-message-wrapper\">\n  Message\n</div>"
	if got != want {
		t.Errorf("BroadcastPreview = %q, want %q", got, want)
	}
}

func TestHTMLEmailPartialHasNoDocumentWrapper(t *testing.T) {
	t.Parallel()
	got := HTMLEmail(HTMLEmailParams{
		Body:        "<p>hi</p>",
		Preheader:   "hi",
		GovukBanner: true,
	})
	for _, banned := range []string{"DOCTYPE", "html", "body"} {
		if strings.Contains(got, banned) {
			t.Errorf("partial output contains %q:\n%s", banned, got)
		}
	}
}

func TestHTMLEmailBrandingVisibility(t *testing.T) {
	t.Parallel()
	text := "brand"
	cases := []struct {
		name string
		p    HTMLEmailParams
		want bool
	}{
		{"no logo", HTMLEmailParams{BrandName: "x"}, false},
		{"logo only", HTMLEmailParams{BrandLogo: "logo.png"}, false},
		{"logo and name", HTMLEmailParams{BrandLogo: "logo.png", BrandName: "x"}, true},
		{"logo and text", HTMLEmailParams{BrandLogo: "logo.png", BrandText: &text}, true},
	}
	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			if got := tc.p.ShowBranding(); got != tc.want {
				t.Errorf("ShowBranding = %v, want %v", got, tc.want)
			}
		})
	}
}

func TestLetterSkeleton(t *testing.T) {
	t.Parallel()
	got := Letter(LetterParams{
		AdminBaseURL: "http://localhost:6012",
		Subject:      "foo",
		Message:      "MESSAGE",
		AddressLines: []string{"a", "b", "c"},
		ContactBlock: "contact",
		Date:         "1 January 2001",
	})
	want := "      <p>\n" +
		"        1 January 2001\n" +
		"      </p>\n" +
		"      <h1>foo</h1>\n" +
		"      MESSAGE\n" +
		"\n" +
		"    </div>\n" +
		"  </body>\n" +
		"</html>"
	if !strings.HasSuffix(got, want) {
		t.Errorf("Letter = %q, want suffix %q", got, want)
	}
	if !strings.Contains(got, "<ul><li>a</li><li>b</li><li>c</li></ul>") {
		t.Errorf("address block missing:\n%s", got)
	}
	if strings.Contains(got, "<img") {
		t.Error("logo rendered without a file name")
	}
}

func TestLetterImagePages(t *testing.T) {
	t.Parallel()
	got := LetterImage(LetterImageParams{
		Pages: []LetterImagePage{
			{Number: 1, Loading: "eager"},
			{Number: 2, Loading: "lazy"},
		},
		ImageURL:     "http://example.com/endpoint.png",
		AddressLines: []string{"a"},
	})
	for _, want := range []string{
		`<img src="http://example.com/endpoint.png?page=1" alt="" loading="eager">`,
		`<img src="http://example.com/endpoint.png?page=2" alt="" loading="lazy">`,
		`class="visually-hidden"`,
	} {
		if !strings.Contains(got, want) {
			t.Errorf("LetterImage missing %q:\n%s", want, got)
		}
	}
}
