package renderservice

import (
	"fmt"
	"strings"

	"notifykit/internal/template"
)

// RenderItem turns one notification item into its final content for the
// item's channel. Missing personalisation fails the item rather than leaking
// placeholder markers into output.
func RenderItem(item Item, p Profile) (string, error) {
	switch item.Record.Type {
	case template.TypeSMS:
		msg, err := template.NewSMSMessage(item.Record, item.Values, template.SMSOptions{
			Prefix: p.SMSPrefix,
			Sender: p.SMSSender,
		})
		if err != nil {
			return "", err
		}
		if err := checkMissing(msg.MissingData()); err != nil {
			return "", err
		}
		if msg.IsMessageEmpty() {
			return "", fmt.Errorf("message is empty")
		}
		if msg.IsMessageTooLong() {
			return "", fmt.Errorf("content is too long: %d characters, limit %d",
				msg.ContentCountWithoutPrefix(), template.SMSCharCountLimit)
		}
		return msg.String(), nil

	case template.TypeEmail:
		msg, err := template.NewHTMLEmail(item.Record, item.Values, p.Email)
		if err != nil {
			return "", err
		}
		if err := checkMissing(msg.MissingData()); err != nil {
			return "", err
		}
		return msg.String(), nil

	case template.TypeLetter:
		letter, err := template.NewLetterPrint(item.Record, item.Values, p.Letter)
		if err != nil {
			return "", err
		}
		if err := checkMissing(letter.MissingData()); err != nil {
			return "", err
		}
		return letter.String(), nil

	case template.TypeBroadcast:
		msg, err := template.NewBroadcastMessage(item.Record, item.Values, template.BroadcastOptions{
			Identifier: item.ID,
		})
		if err != nil {
			return "", err
		}
		if err := checkMissing(msg.MissingData()); err != nil {
			return "", err
		}
		if msg.IsMessageTooLong() {
			return "", fmt.Errorf("content is too long: %d characters, limit %d",
				msg.ContentCountWithoutPrefix(), template.SMSCharCountLimit)
		}
		xml, err := msg.XML()
		if err != nil {
			return "", err
		}
		return string(xml), nil

	default:
		return "", fmt.Errorf("cannot render %q notifications", item.Record.Type)
	}
}

func checkMissing(missing []string) error {
	if len(missing) == 0 {
		return nil
	}
	return fmt.Errorf("missing personalisation: %s", strings.Join(missing, ", "))
}
