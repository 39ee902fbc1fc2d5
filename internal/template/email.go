package template

import (
	"strings"

	"notifykit/internal/fields"
	"notifykit/internal/markdown"
	"notifykit/internal/pipeline"
	"notifykit/internal/renderer"
)

// preheaderMaxLength caps the hidden summary line shown by email clients.
const preheaderMaxLength = 256

// EmailOptions configures the email variants.
type EmailOptions struct {
	RedactMissing bool
}

type emailBase struct {
	base
	subject string
}

func newEmailBase(rec Record, variant string, values fields.Values, opts EmailOptions) (emailBase, error) {
	b, err := newBase(rec, TypeEmail, variant, values)
	if err != nil {
		return emailBase{}, err
	}
	b.redact = opts.RedactMissing
	return emailBase{base: b, subject: rec.Subject}, nil
}

// Placeholders covers the subject as well as the content.
func (t *emailBase) Placeholders() []string {
	return mergePlaceholders(fields.Placeholders(t.subject), fields.Placeholders(t.content))
}

func (t *emailBase) MissingData() []string {
	return missingFrom(t.Placeholders(), t.values)
}

func (t *emailBase) AdditionalData() []string {
	return t.values.AdditionalKeys(t.Placeholders())
}

// htmlBody is the message formatted for an HTML email, shared by the
// full document and the admin preview.
func (t *emailBase) htmlBody() string {
	return pipeline.Take(fields.Resolve(t.content, t.values, fields.Options{
		HTML:          fields.Escape,
		RedactMissing: t.redact,
		MarkdownLists: true,
	})).
		Then(pipeline.UnlinkGovUK).
		Then(pipeline.StripUnsupportedCharacters).
		Then(pipeline.AddTrailingNewline).
		Then(markdown.EmailHTML).
		Then(pipeline.NiceTypography).
		String()
}

// PlainTextEmail is the text/plain part of an email.
type PlainTextEmail struct {
	emailBase
}

func NewPlainTextEmail(rec Record, values fields.Values, opts EmailOptions) (*PlainTextEmail, error) {
	b, err := newEmailBase(rec, "PlainTextEmail", values, opts)
	if err != nil {
		return nil, err
	}
	return &PlainTextEmail{emailBase: b}, nil
}

func (t *PlainTextEmail) Subject() string {
	return subjectText(t.subject, t.values, fields.Passthrough, t.redact)
}

func (t *PlainTextEmail) String() string {
	return pipeline.Take(fields.Resolve(t.content, t.values, fields.Options{
		HTML:          fields.Passthrough,
		RedactMissing: t.redact,
		MarkdownLists: true,
	})).
		Then(pipeline.UnlinkGovUK).
		Then(pipeline.StripUnsupportedCharacters).
		Then(pipeline.AddTrailingNewline).
		Then(markdown.PlainText).
		Then(pipeline.NiceTypography).
		Then(pipeline.UnescapeHTML).
		Then(pipeline.StripLeadingWhitespace).
		Then(pipeline.AddTrailingNewline).
		String()
}

// HTMLEmailOptions configures the full HTML document.
type HTMLEmailOptions struct {
	EmailOptions

	// CompleteHTML wraps the message in a full document. Off, the output
	// is suitable for embedding in another page.
	CompleteHTML bool

	GovukBanner bool
	BrandLogo   string

	// BrandText distinguishes empty from absent: empty text still blanks
	// the logo alt text.
	BrandText   *string
	BrandColour string
	BrandBanner bool
	BrandName   string
}

// HTMLEmail is the text/html part of an email.
type HTMLEmail struct {
	emailBase
	opts HTMLEmailOptions
}

func NewHTMLEmail(rec Record, values fields.Values, opts HTMLEmailOptions) (*HTMLEmail, error) {
	b, err := newEmailBase(rec, "HTMLEmail", values, opts.EmailOptions)
	if err != nil {
		return nil, err
	}
	return &HTMLEmail{emailBase: b, opts: opts}, nil
}

func (t *HTMLEmail) Subject() string {
	return subjectText(t.subject, t.values, fields.Escape, t.redact)
}

// Preheader flattens the message to a single line and trims it to what
// email clients will show.
func (t *HTMLEmail) Preheader() string {
	flat := pipeline.Take(fields.Resolve(t.content, t.values, fields.Options{
		HTML:          fields.Escape,
		RedactMissing: t.redact,
		MarkdownLists: true,
	})).
		Then(pipeline.UnlinkGovUK).
		Then(pipeline.StripUnsupportedCharacters).
		Then(pipeline.AddTrailingNewline).
		Then(markdown.Preheader).
		Then(pipeline.NiceTypography).
		String()
	joined := strings.Join(strings.Fields(flat), " ")
	if runes := []rune(joined); len(runes) > preheaderMaxLength {
		joined = string(runes[:preheaderMaxLength])
	}
	return strings.TrimSpace(joined)
}

func (t *HTMLEmail) String() string {
	return renderer.HTMLEmail(renderer.HTMLEmailParams{
		Body:         t.htmlBody(),
		Preheader:    t.Preheader(),
		GovukBanner:  t.opts.GovukBanner,
		CompleteHTML: t.opts.CompleteHTML,
		BrandLogo:    t.opts.BrandLogo,
		BrandText:    t.opts.BrandText,
		BrandColour:  t.opts.BrandColour,
		BrandBanner:  t.opts.BrandBanner,
		BrandName:    t.opts.BrandName,
	})
}

// EmailPreviewOptions configures the admin preview of an email.
type EmailPreviewOptions struct {
	EmailOptions
	FromName      string
	ReplyTo       string
	ShowRecipient bool
}

// EmailPreview renders the headers table and message shown in the admin
// interface.
type EmailPreview struct {
	emailBase
	opts EmailPreviewOptions
}

func NewEmailPreview(rec Record, values fields.Values, opts EmailPreviewOptions) (*EmailPreview, error) {
	b, err := newEmailBase(rec, "EmailPreview", values, opts.EmailOptions)
	if err != nil {
		return nil, err
	}
	return &EmailPreview{emailBase: b, opts: opts}, nil
}

func (t *EmailPreview) Subject() string {
	return subjectText(t.subject, t.values, fields.Escape, t.redact)
}

func (t *EmailPreview) String() string {
	var fromName string
	if t.opts.FromName != "" {
		fromName = pipeline.EscapeHTML(t.opts.FromName)
	}
	return renderer.EmailPreview(renderer.EmailPreviewParams{
		Body:          t.htmlBody(),
		Subject:       t.Subject(),
		FromName:      fromName,
		ReplyTo:       t.opts.ReplyTo,
		Recipient:     recipientLine("((email address))", t.values),
		ShowRecipient: t.opts.ShowRecipient,
	})
}
