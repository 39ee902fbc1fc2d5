package template

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"notifykit/internal/fields"
	"notifykit/internal/pipeline"
)

// Type identifies the channel a template is written for.
type Type string

const (
	TypeSMS       Type = "sms"
	TypeBroadcast Type = "broadcast"
	TypeEmail     Type = "email"
	TypeLetter    Type = "letter"
)

const (
	// SMSCharCountLimit is the longest message we accept, measured without
	// the prefix. Providers will happily send more; beyond this we refuse.
	SMSCharCountLimit = 918

	// LetterMaxPageCount caps how many pages of a letter get rendered.
	LetterMaxPageCount = 10
)

// Record is a stored template as it comes out of the database or API.
type Record struct {
	ID      string
	Name    string
	Type    Type
	Subject string
	Content string
}

// base carries what every channel variant shares.
type base struct {
	id      string
	name    string
	content string
	values  fields.Values
	redact  bool
}

func newBase(rec Record, want Type, variant string, values fields.Values) (base, error) {
	if rec.Type != want {
		return base{}, fmt.Errorf("cannot initialise %s with %s template_type", variant, rec.Type)
	}
	return base{
		id:      rec.ID,
		name:    rec.Name,
		content: rec.Content,
		values:  values,
	}, nil
}

func (b *base) ID() string   { return b.id }
func (b *base) Name() string { return b.name }

// SetValues replaces the value map used for resolution.
func (b *base) SetValues(values fields.Values) { b.values = values }

// Placeholders lists the distinct placeholder names in the content, in
// order of first appearance.
func (b *base) Placeholders() []string {
	return fields.Placeholders(b.content)
}

// MissingData lists placeholders that have no value supplied.
func (b *base) MissingData() []string {
	return missingFrom(b.Placeholders(), b.values)
}

// AdditionalData lists supplied keys that match no placeholder.
func (b *base) AdditionalData() []string {
	return b.values.AdditionalKeys(b.Placeholders())
}

// ContentWithPlaceholdersFilledIn resolves the content verbatim, keeping
// unresolved placeholders as literal ((name)) markers.
func (b *base) ContentWithPlaceholdersFilledIn() string {
	return strings.TrimSpace(fields.Resolve(b.content, b.values, fields.Options{
		HTML:          fields.Passthrough,
		RedactMissing: b.redact,
		MarkdownLists: true,
	}))
}

// ContentCount is the character length of the resolved content.
// Unresolved placeholders count at their literal length.
func (b *base) ContentCount() int {
	return utf8.RuneCountInString(b.ContentWithPlaceholdersFilledIn())
}

// IsMessageEmpty reports whether resolution can produce an empty message.
// Content that does not both start and end with a placeholder cannot be
// empty, whatever values are supplied.
func (b *base) IsMessageEmpty() bool {
	if b.content == "" {
		return true
	}
	if !strings.HasPrefix(b.content, "((") || !strings.HasSuffix(b.content, "))") {
		return false
	}
	return b.ContentCount() == 0
}

// IsMessageTooLong is false for every channel except SMS, which has its
// own budget.
func (b *base) IsMessageTooLong() bool { return false }

func missingFrom(placeholders []string, values fields.Values) []string {
	var missing []string
	for _, name := range placeholders {
		if v, ok := values.Get(name); !ok || v == nil {
			missing = append(missing, name)
		}
	}
	return missing
}

// subjectText renders a one-line subject: resolved, typographically
// tidied, whitespace collapsed.
func subjectText(subject string, values fields.Values, mode fields.HTMLMode, redact bool) string {
	return pipeline.Take(fields.Resolve(subject, values, fields.Options{
		HTML:          mode,
		RedactMissing: redact,
	})).
		Then(pipeline.NiceTypography).
		Then(pipeline.NormaliseWhitespace).
		String()
}

// mergePlaceholders combines placeholder lists in order, dropping names
// that only differ in case or separators.
func mergePlaceholders(lists ...[]string) []string {
	seen := make(map[string]struct{})
	var names []string
	for _, list := range lists {
		for _, name := range list {
			canon := fields.CanonicalKey(name)
			if _, ok := seen[canon]; ok {
				continue
			}
			seen[canon] = struct{}{}
			names = append(names, name)
		}
	}
	return names
}
