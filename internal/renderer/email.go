package renderer

import "text/template"

// HTMLEmailParams carries everything the full email document needs. Body
// and Preheader are already escaped and formatted. BrandText is a pointer
// because empty text is meaningful: it still counts as branding, but it
// changes the alt text of the logo.
type HTMLEmailParams struct {
	Body         string
	Preheader    string
	GovukBanner  bool
	CompleteHTML bool
	BrandLogo    string
	BrandText    *string
	BrandColour  string
	BrandBanner  bool
	BrandName    string
}

func (p HTMLEmailParams) ShowBranding() bool {
	return p.BrandLogo != "" && (p.BrandText != nil || p.BrandName != "")
}

// LogoAlt is a single space when brand text is shown next to the logo, so
// screen readers do not read the organisation name twice.
func (p HTMLEmailParams) LogoAlt() string {
	if p.BrandText != nil {
		return " "
	}
	return p.BrandName
}

func (p HTMLEmailParams) BrandTextOrEmpty() string {
	if p.BrandText == nil {
		return ""
	}
	return *p.BrandText
}

// The inner markup must not contain the strings "DOCTYPE", "html" or
// "body" so that partial rendering really omits the document wrapper.
// That rules out <tbody> anywhere below.
var htmlEmailTmpl = template.Must(template.New("html_email").Parse(
	"{{ if .CompleteHTML }}<!DOCTYPE html>\n" +
		"<html lang=\"en\">\n" +
		"<head>\n" +
		"  <meta charset=\"utf-8\">\n" +
		"  <meta name=\"viewport\" content=\"width=device-width\">\n" +
		"</head>\n" +
		"<body style=\"font-family: Helvetica, Arial, sans-serif;font-size: 16px;margin: 0;color:#0b0c0c;\">\n" +
		"{{ end }}" +
		"\n" +
		"<span style=\"display: none;font-size: 1px;color: #fff; max-height: 0;\">{{ .Preheader }}…</span>\n" +
		"{{ if .GovukBanner }}" +
		"<table role=\"presentation\" width=\"100%\" style=\"border-collapse: collapse;min-width: 100%;width: 100% !important;\" class=\"govuk-banner\">\n" +
		"  <tr>\n" +
		"    <td bgcolor=\"#0b0c0c\" style=\"padding: 20px 10px;color: #ffffff;font-weight: 700;\">GOV.UK</td>\n" +
		"  </tr>\n" +
		"</table>\n" +
		"{{ end }}" +
		"{{ if .ShowBranding }}" +
		"{{ if .BrandBanner }}" +
		"<table role=\"presentation\" width=\"100%\" style=\"border-collapse: collapse;min-width: 100%;width: 100% !important;\" class=\"brand-banner\">\n" +
		"  <tr>\n" +
		"    <td{{ if .BrandColour }} bgcolor=\"{{ .BrandColour }}\"{{ end }} style=\"padding: 20px 10px;\">\n" +
		"      <img src=\"{{ .BrandLogo }}\" alt=\"{{ .LogoAlt }}\" height=\"32\" border=\"0\">\n" +
		"      {{ .BrandTextOrEmpty }}\n" +
		"    </td>\n" +
		"  </tr>\n" +
		"</table>\n" +
		"{{ else }}" +
		"<table role=\"presentation\" width=\"100%\" style=\"border-collapse: collapse;\" class=\"brand-block\">\n" +
		"  <tr>\n" +
		"    <td width=\"10\" height=\"10\" valign=\"middle\"></td>\n" +
		"    <td style=\"padding: 20px 10px;{{ if .BrandColour }}border-left: 2px solid {{ .BrandColour }};{{ end }}\">\n" +
		"      <img src=\"{{ .BrandLogo }}\" alt=\"{{ .LogoAlt }}\" height=\"32\" border=\"0\">\n" +
		"      {{ .BrandTextOrEmpty }}\n" +
		"    </td>\n" +
		"  </tr>\n" +
		"</table>\n" +
		"{{ end }}" +
		"{{ end }}" +
		"<div style=\"max-width: 580px;margin: 0 auto;padding: 0 10px;\">\n" +
		"{{ .Body }}\n" +
		"</div>\n" +
		"{{ if .CompleteHTML }}</body>\n" +
		"</html>\n" +
		"{{ end }}",
))

// HTMLEmail renders the complete email document, or just its inner markup
// when CompleteHTML is false.
func HTMLEmail(p HTMLEmailParams) string {
	return execute(htmlEmailTmpl, p)
}

// EmailPreviewParams is the data for the admin preview of an email:
// headers table plus the rendered message.
type EmailPreviewParams struct {
	Body          string
	Subject       string
	FromName      string
	ReplyTo       string
	Recipient     string
	ShowRecipient bool
}

var emailPreviewTmpl = template.Must(template.New("email_preview").Parse(
	"<table class=\"email-message-meta\">\n" +
		"{{ if .FromName }}  <tr>\n" +
		"    <th>From</th>\n" +
		"    <td>{{ .FromName }}</td>\n" +
		"  </tr>\n{{ end }}" +
		"{{ if .ReplyTo }}  <tr>\n" +
		"    <th>Reply&nbsp;to</th>\n" +
		"    <td>{{ .ReplyTo }}</td>\n" +
		"  </tr>\n{{ end }}" +
		"{{ if .ShowRecipient }}  <tr>\n" +
		"    <th>To</th>\n" +
		"    <td>{{ .Recipient }}</td>\n" +
		"  </tr>\n{{ end }}" +
		"  <tr>\n" +
		"    <th>Subject</th>\n" +
		"    <td><h2 class=\"email-message-subject\">{{ .Subject }}</h2></td>\n" +
		"  </tr>\n" +
		"</table>\n" +
		"<div class=\"email-message-body\">\n" +
		"{{ .Body }}\n" +
		"</div>",
))

// EmailPreview renders the header table and message shown in the admin
// interface.
func EmailPreview(p EmailPreviewParams) string {
	return execute(emailPreviewTmpl, p)
}
