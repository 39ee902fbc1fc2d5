package template

import (
	"fmt"
	"regexp"
	"strings"
	"time"

	"notifykit/internal/fields"
	"notifykit/internal/markdown"
	"notifykit/internal/pipeline"
	"notifykit/internal/renderer"
)

// addressBlock is the fallback recipient block, shown with bare
// placeholder names when the supplied address is too sparse to
// normalise.
var addressBlock = strings.Join([]string{
	"((address line 1))",
	"((address line 2))",
	"((address line 3))",
	"((address line 4))",
	"((address line 5))",
	"((address line 6))",
	"((postcode))",
}, "\n")

// LetterOptions configures the letter variants.
type LetterOptions struct {
	ContactBlock  string
	AdminBaseURL  string
	LogoFileName  string
	RedactMissing bool

	// Date defaults to today.
	Date time.Time
}

const defaultAdminBaseURL = "http://localhost:6012"

type letterBase struct {
	base
	subject      string
	contactBlock string
	adminBaseURL string
	logoFileName string
	date         time.Time
}

func newLetterBase(rec Record, variant string, values fields.Values, opts LetterOptions) (letterBase, error) {
	b, err := newBase(rec, TypeLetter, variant, values)
	if err != nil {
		return letterBase{}, err
	}
	b.redact = opts.RedactMissing
	adminBaseURL := opts.AdminBaseURL
	if adminBaseURL == "" {
		adminBaseURL = defaultAdminBaseURL
	}
	date := opts.Date
	if date.IsZero() {
		date = time.Now().UTC()
	}
	return letterBase{
		base:         b,
		subject:      rec.Subject,
		contactBlock: strings.TrimSpace(opts.ContactBlock),
		adminBaseURL: adminBaseURL,
		logoFileName: opts.LogoFileName,
		date:         date,
	}, nil
}

// Placeholders covers the contact block and subject as well as the
// content.
func (t *letterBase) Placeholders() []string {
	return mergePlaceholders(
		fields.Placeholders(t.contactBlock),
		fields.Placeholders(t.subject),
		fields.Placeholders(t.content),
	)
}

func (t *letterBase) MissingData() []string {
	return missingFrom(t.Placeholders(), t.values)
}

func (t *letterBase) AdditionalData() []string {
	return t.values.AdditionalKeys(t.Placeholders())
}

func (t *letterBase) Subject() string {
	return subjectText(t.subject, t.values, fields.Escape, t.redact)
}

func (t *letterBase) formattedDate() string {
	return fmt.Sprintf("%d %s %d", t.date.Day(), t.date.Month(), t.date.Year())
}

func (t *letterBase) renderedContactBlock() string {
	lines := strings.Split(t.contactBlock, "\n")
	for i, line := range lines {
		lines[i] = strings.TrimSpace(line)
	}
	return pipeline.Take(fields.Resolve(strings.Join(lines, "\n"), t.values, fields.Options{
		HTML:          fields.Escape,
		RedactMissing: t.redact,
	})).
		Then(pipeline.RemoveWhitespaceBeforePunctuation).
		Then(pipeline.Nl2Br).
		String()
}

func (t *letterBase) message() string {
	return pipeline.Take(fields.Resolve(t.content, t.values, fields.Options{
		HTML:          fields.Escape,
		RedactMissing: t.redact,
		MarkdownLists: true,
	})).
		Then(pipeline.AddTrailingNewline).
		Then(markdown.LetterPreview).
		Then(pipeline.NiceTypography).
		Then(pipeline.ReplaceHyphensWithNonBreakingHyphens).
		String()
}

// addressLines is the recipient block. A complete address gets
// normalised; anything sparser falls back to the raw placeholder block
// so the sender can see which lines are missing.
func (t *letterBase) addressLines() []string {
	if lines, ok := normalisedAddress(t.values); ok {
		return lines
	}
	return strings.Split(fields.Resolve(addressBlock, t.values, fields.Options{
		HTML:            fields.Escape,
		WithoutBrackets: true,
	}), "\n")
}

func (t *letterBase) logoClass() string {
	if t.logoFileName == "" {
		return ""
	}
	name := strings.ToLower(t.logoFileName)
	if len(name) < 3 {
		return name
	}
	return name[len(name)-3:]
}

func (t *letterBase) letterParams() renderer.LetterParams {
	return renderer.LetterParams{
		AdminBaseURL: t.adminBaseURL,
		LogoFileName: t.logoFileName,
		LogoClass:    t.logoClass(),
		Subject:      t.Subject(),
		Message:      t.message(),
		AddressLines: t.addressLines(),
		ContactBlock: t.renderedContactBlock(),
		Date:         t.formattedDate(),
	}
}

// LetterPreview renders a letter as the HTML preview page.
type LetterPreview struct {
	letterBase
}

func NewLetterPreview(rec Record, values fields.Values, opts LetterOptions) (*LetterPreview, error) {
	b, err := newLetterBase(rec, "LetterPreview", values, opts)
	if err != nil {
		return nil, err
	}
	return &LetterPreview{letterBase: b}, nil
}

func (t *LetterPreview) String() string {
	return renderer.Letter(t.letterParams())
}

// LetterPrint renders the same markup as LetterPreview; the print
// pipeline applies its own stylesheet.
type LetterPrint struct {
	letterBase
}

func NewLetterPrint(rec Record, values fields.Values, opts LetterOptions) (*LetterPrint, error) {
	b, err := newLetterBase(rec, "LetterPrint", values, opts)
	if err != nil {
		return nil, err
	}
	return &LetterPrint{letterBase: b}, nil
}

func (t *LetterPrint) String() string {
	return renderer.Letter(t.letterParams())
}

// Postage classes accepted for printed letters.
const (
	PostageFirst       = "first"
	PostageSecond      = "second"
	PostageEurope      = "europe"
	PostageRestOfWorld = "rest-of-world"
)

var allowedPostageTypes = []string{PostageFirst, PostageSecond, PostageEurope, PostageRestOfWorld}

// LetterImageOptions configures the page-image preview of a letter.
type LetterImageOptions struct {
	LetterOptions
	ImageURL  string
	PageCount int
	Postage   string
}

// LetterImage renders a letter as one image per page.
type LetterImage struct {
	letterBase
	imageURL  string
	pageCount int
	postage   string
}

func NewLetterImage(rec Record, values fields.Values, opts LetterImageOptions) (*LetterImage, error) {
	b, err := newLetterBase(rec, "LetterImage", values, opts.LetterOptions)
	if err != nil {
		return nil, err
	}
	if opts.ImageURL == "" {
		return nil, fmt.Errorf("image_url is required")
	}
	if opts.PageCount == 0 {
		return nil, fmt.Errorf("page_count is required")
	}
	if opts.Postage != "" && !contains(allowedPostageTypes, opts.Postage) {
		return nil, fmt.Errorf("postage must be None, %s", pipeline.FormattedList(allowedPostageTypes, pipeline.ListOptions{
			Conjunction: "or",
			BeforeEach:  "'",
			AfterEach:   "'",
		}))
	}
	return &LetterImage{
		letterBase: b,
		imageURL:   opts.ImageURL,
		pageCount:  opts.PageCount,
		postage:    opts.Postage,
	}, nil
}

// PageNumbers lists the pages shown, capped at the maximum page count.
func (t *LetterImage) PageNumbers() []int {
	n := t.pageCount
	if n > LetterMaxPageCount {
		n = LetterMaxPageCount
	}
	pages := make([]int, n)
	for i := range pages {
		pages[i] = i + 1
	}
	return pages
}

func (t *LetterImage) PostageDescription() string {
	switch t.postage {
	case PostageFirst:
		return "first class"
	case PostageSecond:
		return "second class"
	case PostageEurope, PostageRestOfWorld:
		return "international"
	}
	return ""
}

func (t *LetterImage) PostageClass() string {
	switch t.postage {
	case PostageFirst:
		return "letter-postage-first"
	case PostageSecond:
		return "letter-postage-second"
	case PostageEurope, PostageRestOfWorld:
		return "letter-postage-international"
	}
	return ""
}

func (t *LetterImage) String() string {
	numbers := t.PageNumbers()
	pages := make([]renderer.LetterImagePage, len(numbers))
	for i, n := range numbers {
		loading := "lazy"
		if n == 1 {
			loading = "eager"
		}
		pages[i] = renderer.LetterImagePage{Number: n, Loading: loading}
	}
	return renderer.LetterImage(renderer.LetterImageParams{
		Pages:              pages,
		ImageURL:           t.imageURL,
		AddressLines:       t.addressLines(),
		ContactBlock:       t.renderedContactBlock(),
		Date:               t.formattedDate(),
		Subject:            t.Subject(),
		PostageClass:       t.PostageClass(),
		PostageDescription: t.PostageDescription(),
	})
}

var addressKeys = []string{
	"address line 1",
	"address line 2",
	"address line 3",
	"address line 4",
	"address line 5",
	"address line 6",
}

// postcodeRe matches a UK postcode once whitespace is removed and the
// letters are uppercased.
var postcodeRe = regexp.MustCompile(`^[A-Z]{1,2}[0-9][A-Z0-9]?[0-9][A-Z]{2}$`)

// normalisedAddress builds the recipient block from the personalisation
// values. It reports false when the address has fewer than three or
// more than seven usable lines, in which case the caller falls back to
// the placeholder block. Line 7, if supplied, replaces the postcode.
func normalisedAddress(values fields.Values) ([]string, bool) {
	var raw []string
	for _, key := range addressKeys {
		raw = append(raw, addressValue(values, key))
	}
	if line7 := addressValue(values, "address line 7"); line7 != "" {
		raw = append(raw, line7)
	} else {
		raw = append(raw, addressValue(values, "postcode"))
	}

	var lines []string
	for _, line := range raw {
		line = strings.TrimSpace(strings.TrimRight(strings.TrimSpace(line), ","))
		if line != "" {
			lines = append(lines, line)
		}
	}
	if len(lines) < 3 || len(lines) > 7 {
		return nil, false
	}
	lines[len(lines)-1] = normalisePostcode(lines[len(lines)-1])
	return lines, true
}

func addressValue(values fields.Values, key string) string {
	v, ok := values.Get(key)
	if !ok || v == nil {
		return ""
	}
	return fmt.Sprint(v)
}

// normalisePostcode uppercases and respaces a valid UK postcode.
// Anything else is kept exactly as typed.
func normalisePostcode(line string) string {
	compact := strings.ToUpper(strings.Join(strings.Fields(line), ""))
	if !postcodeRe.MatchString(compact) {
		return line
	}
	return compact[:len(compact)-3] + " " + compact[len(compact)-3:]
}

func contains(list []string, s string) bool {
	for _, item := range list {
		if item == s {
			return true
		}
	}
	return false
}
