package template

import (
	"unicode/utf8"

	"notifykit/internal/fields"
	"notifykit/internal/pipeline"
	"notifykit/internal/renderer"
	"notifykit/internal/sms"
)

// SMSOptions configures the SMS variants. The prefix is usually the
// service name and is shown unless HidePrefix is set.
type SMSOptions struct {
	Prefix     string
	HidePrefix bool
	Sender     string
}

// smsBase adds prefix handling and the cached character count shared by
// the message, preview and broadcast variants.
type smsBase struct {
	base
	prefix     string
	showPrefix bool
	sender     string

	// count caches the content count; -1 means not yet computed. Resolved
	// content changes when values change, so SetValues resets it.
	count int
}

func newSMSBase(rec Record, want Type, variant string, values fields.Values, opts SMSOptions) (smsBase, error) {
	b, err := newBase(rec, want, variant, values)
	if err != nil {
		return smsBase{}, err
	}
	return smsBase{
		base:       b,
		prefix:     opts.Prefix,
		showPrefix: !opts.HidePrefix,
		sender:     opts.Sender,
		count:      -1,
	}, nil
}

// Prefix is the effective prefix: empty when hidden.
func (t *smsBase) Prefix() string {
	if !t.showPrefix {
		return ""
	}
	return t.prefix
}

func (t *smsBase) SetPrefix(prefix string) {
	t.prefix = prefix
	t.count = -1
}

func (t *smsBase) Sender() string { return t.sender }

func (t *smsBase) SetValues(values fields.Values) {
	t.count = -1
	t.base.SetValues(values)
}

// unsanitisedContent is the full message before GSM encoding: resolved,
// prefixed and whitespace-normalised. Cheaper than encoding when only the
// length is needed.
func (t *smsBase) unsanitisedContent() string {
	return pipeline.Take(fields.Resolve(t.content, t.values, fields.Options{
		HTML: fields.Passthrough,
	})).
		Then(pipeline.AddPrefix(t.Prefix())).
		Then(pipeline.RemoveWhitespaceBeforePunctuation).
		Then(pipeline.NormaliseWhitespaceAndNewlines).
		Then(pipeline.NormaliseMultipleNewlines).
		Then(pipeline.StripWhitespace).
		String()
}

// ContentWithPlaceholdersFilledIn is the fully formatted message rather
// than a plain rendition of the content, because the prefix is part of
// what gets sent and consumers of the API expect to see it.
func (t *smsBase) ContentWithPlaceholdersFilledIn() string {
	return sms.Encode(t.unsanitisedContent())
}

// ContentCount is the character count of the message including any
// prefix. GSM and non-GSM characters count the same here; FragmentCount
// deals with the difference.
func (t *smsBase) ContentCount() int {
	if t.count < 0 {
		t.count = utf8.RuneCountInString(t.unsanitisedContent())
	}
	return t.count
}

// ContentCountWithoutPrefix subtracts the prefix, its colon and its
// trailing space. Floored at zero because an empty message is stripped to
// nothing after the prefix.
func (t *smsBase) ContentCountWithoutPrefix() int {
	if prefix := t.Prefix(); prefix != "" {
		if n := t.ContentCount() - utf8.RuneCountInString(prefix) - 2; n > 0 {
			return n
		}
		return 0
	}
	return t.ContentCount()
}

// FragmentCount is how many billable fragments the encoded message
// splits into.
func (t *smsBase) FragmentCount() int {
	encoded := sms.Encode(t.unsanitisedContent())
	return sms.FragmentCount(t.ContentCount(), sms.ContainsWelshNonGSM(encoded))
}

// IsMessageTooLong measures without the prefix; services should not be
// penalised for having long names.
func (t *smsBase) IsMessageTooLong() bool {
	return t.ContentCountWithoutPrefix() > SMSCharCountLimit
}

func (t *smsBase) IsMessageEmpty() bool {
	return t.ContentCountWithoutPrefix() == 0
}

// SMSMessage is the message as sent to the provider.
type SMSMessage struct {
	smsBase
}

func NewSMSMessage(rec Record, values fields.Values, opts SMSOptions) (*SMSMessage, error) {
	b, err := newSMSBase(rec, TypeSMS, "SMSMessage", values, opts)
	if err != nil {
		return nil, err
	}
	return &SMSMessage{smsBase: b}, nil
}

func (t *SMSMessage) String() string {
	return sms.Encode(t.unsanitisedContent())
}

// SMSPreviewOptions configures the HTML preview of a text message.
type SMSPreviewOptions struct {
	SMSOptions
	ShowRecipient bool
	ShowSender    bool

	// KeepNonGSMCharacters skips the downgrade to GSM characters so the
	// preview shows exactly what was typed.
	KeepNonGSMCharacters bool

	RedactMissing bool
}

// SMSPreview renders the message as the bubble shown in the admin
// interface.
type SMSPreview struct {
	smsBase
	opts SMSPreviewOptions
}

func NewSMSPreview(rec Record, values fields.Values, opts SMSPreviewOptions) (*SMSPreview, error) {
	b, err := newSMSBase(rec, TypeSMS, "SMSPreview", values, opts.SMSOptions)
	if err != nil {
		return nil, err
	}
	b.redact = opts.RedactMissing
	return &SMSPreview{smsBase: b, opts: opts}, nil
}

func (t *SMSPreview) String() string {
	return renderer.SMSPreview(t.previewParams())
}

func (t *smsBase) previewBody(keepNonGSM, redact bool) string {
	var prefix string
	if p := t.Prefix(); p != "" {
		prefix = pipeline.EscapeHTML(p)
	}
	encode := sms.Encode
	if keepNonGSM {
		encode = nil
	}
	return pipeline.Take(fields.Resolve(t.content, t.values, fields.Options{
		HTML:          fields.Escape,
		RedactMissing: redact,
	})).
		Then(pipeline.AddPrefix(prefix)).
		Then(encode).
		Then(pipeline.RemoveWhitespaceBeforePunctuation).
		Then(pipeline.NormaliseWhitespaceAndNewlines).
		Then(pipeline.NormaliseMultipleNewlines).
		Then(pipeline.Nl2Br).
		Then(pipeline.AutolinkSMS).
		String()
}

func (t *SMSPreview) previewParams() renderer.SMSPreviewParams {
	return renderer.SMSPreviewParams{
		Body:          t.previewBody(t.opts.KeepNonGSMCharacters, t.opts.RedactMissing),
		Sender:        t.sender,
		ShowSender:    t.opts.ShowSender,
		Recipient:     recipientLine("((phone number))", t.values),
		ShowRecipient: t.opts.ShowRecipient,
	}
}

// SMSBodyPreview renders just the message text with missing values
// redacted, for places that list many messages at once.
type SMSBodyPreview struct {
	smsBase
}

func NewSMSBodyPreview(rec Record, values fields.Values) (*SMSBodyPreview, error) {
	b, err := newSMSBase(rec, TypeSMS, "SMSBodyPreview", values, SMSOptions{HidePrefix: true})
	if err != nil {
		return nil, err
	}
	b.redact = true
	return &SMSBodyPreview{smsBase: b}, nil
}

func (t *SMSBodyPreview) String() string {
	return pipeline.Take(fields.Resolve(t.content, t.values, fields.Options{
		HTML:          fields.Escape,
		RedactMissing: true,
	})).
		Then(sms.Encode).
		Then(pipeline.RemoveWhitespaceBeforePunctuation).
		Then(pipeline.NormaliseWhitespaceAndNewlines).
		Then(pipeline.NormaliseMultipleNewlines).
		Then(pipeline.StripWhitespace).
		String()
}

func recipientLine(placeholder string, values fields.Values) string {
	return fields.Resolve(placeholder, values, fields.Options{
		HTML:            fields.Escape,
		WithoutBrackets: true,
	})
}
