package renderer

import "text/template"

// LetterParams is the data for the letter preview page. Message and
// ContactBlock are already rendered; AddressLines are already escaped.
type LetterParams struct {
	AdminBaseURL string
	LogoFileName string
	LogoClass    string
	Subject      string
	Message      string
	AddressLines []string
	ContactBlock string
	Date         string
}

var letterTmpl = template.Must(template.New("letter").Parse(
	"<!DOCTYPE html>\n" +
		"<html>\n" +
		"  <head>\n" +
		"    <meta charset=\"utf-8\">\n" +
		"    <title>{{ .Subject }}</title>\n" +
		"  </head>\n" +
		"  <body>\n" +
		"    <div class=\"letter\">\n" +
		"{{ if .LogoFileName }}" +
		"      <img src=\"{{ .AdminBaseURL }}/static/images/letter-template/{{ .LogoFileName }}\" class=\"{{ .LogoClass }}\" alt=\"\">\n" +
		"{{ end }}" +
		"      <div id=\"to\">\n" +
		"        <ul>" +
		"{{ range .AddressLines }}<li>{{ . }}</li>{{ end }}" +
		"</ul>\n" +
		"      </div>\n" +
		"      <div id=\"contact-block\">\n" +
		"        {{ .ContactBlock }}\n" +
		"      </div>\n" +
		"      <p>\n" +
		"        {{ .Date }}\n" +
		"      </p>\n" +
		"      <h1>{{ .Subject }}</h1>\n" +
		"      {{ .Message }}\n" +
		"\n" +
		"    </div>\n" +
		"  </body>\n" +
		"</html>",
))

// Letter renders the preview page. Print output uses the same markup with
// a different stylesheet, so both variants share this skeleton.
func Letter(p LetterParams) string {
	return execute(letterTmpl, p)
}

// LetterImagePage is one page of a rendered letter image.
type LetterImagePage struct {
	Number  int
	Loading string
}

// LetterImageParams is the data for the page-image preview of a letter.
type LetterImageParams struct {
	Pages              []LetterImagePage
	ImageURL           string
	AddressLines       []string
	ContactBlock       string
	Date               string
	Subject            string
	PostageClass       string
	PostageDescription string
}

var letterImageTmpl = template.Must(template.New("letter_image").Parse(
	"<div class=\"letter-images\">\n" +
		"{{ if .PostageDescription }}" +
		"  <div class=\"{{ .PostageClass }}\">Postage: {{ .PostageDescription }}</div>\n" +
		"{{ end }}" +
		"  <div class=\"visually-hidden\">\n" +
		"    <ul>" +
		"{{ range .AddressLines }}<li>{{ . }}</li>{{ end }}" +
		"</ul>\n" +
		"  </div>\n" +
		"{{ range .Pages }}" +
		"  <img src=\"{{ $.ImageURL }}?page={{ .Number }}\" alt=\"\" loading=\"{{ .Loading }}\">\n" +
		"{{ end }}" +
		"</div>",
))

// LetterImage renders the image-per-page preview. The first page loads
// eagerly and the rest lazily.
func LetterImage(p LetterImageParams) string {
	return execute(letterImageTmpl, p)
}
