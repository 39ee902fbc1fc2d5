package renderer

import (
	"strings"
	"text/template"
)

// SMSPreviewParams is the data for the message preview box. Body is
// already escaped, encoded and autolinked.
type SMSPreviewParams struct {
	Body          string
	Sender        string
	ShowSender    bool
	Recipient     string
	ShowRecipient bool
}

var smsPreviewTmpl = template.Must(template.New("sms_preview").Parse(
	"\n\n" +
		"{{ if .ShowSender }}<div class=\"sms-message-sender\">{{ .Sender }}</div>\n{{ end }}" +
		"{{ if .ShowRecipient }}<div class=\"sms-message-recipient\">To: {{ .Recipient }}</div>\n{{ end }}" +
		"<div class=\"sms-message-wrapper\">\n" +
		"  {{ .Body }}\n" +
		"</div>",
))

var broadcastPreviewTmpl = template.Must(template.New("broadcast_preview").Parse(
	"<div class=\"broadcast-message-wrapper\">\n" +
		"  {{ .Body }}\n" +
		"</div>",
))

// SMSPreview renders the bubble shown when previewing a text message.
func SMSPreview(p SMSPreviewParams) string {
	return execute(smsPreviewTmpl, p)
}

// BroadcastPreview renders the bubble shown when previewing a broadcast.
// Broadcasts have no sender or recipient, so only the body appears.
func BroadcastPreview(p SMSPreviewParams) string {
	return execute(broadcastPreviewTmpl, p)
}

func execute(t *template.Template, data any) string {
	var b strings.Builder
	if err := t.Execute(&b, data); err != nil {
		return ""
	}
	return b.String()
}
