package template

import (
	"fmt"
	"strings"
	"time"

	"notifykit/internal/cap"
	"notifykit/internal/fields"
	"notifykit/internal/pipeline"
	"notifykit/internal/renderer"
	"notifykit/internal/sms"
)

// broadcastTTL is how long an alert stays live when the event does not
// say otherwise.
const broadcastTTL = 72 * time.Hour

// NotifyIdentifier is the CAP sender URI for alerts we originate.
const NotifyIdentifier = "https://www.notifications.service.gov.uk/"

// BroadcastOptions configures a cell broadcast message.
type BroadcastOptions struct {
	Areas      []string
	Polygons   [][][2]float64
	Identifier string
}

// BroadcastMessage is an emergency alert rendered as a CAP v1.2
// document.
type BroadcastMessage struct {
	smsBase

	Areas      []string
	Identifier string
	MsgType    string
	Sent       time.Time
	Expires    time.Time

	// PreviousEventReferences chains updates and cancels to the alerts
	// they supersede.
	PreviousEventReferences []string

	polygons [][][2]float64
}

func NewBroadcastMessage(rec Record, values fields.Values, opts BroadcastOptions) (*BroadcastMessage, error) {
	b, err := newSMSBase(rec, TypeBroadcast, "BroadcastMessage", values, SMSOptions{})
	if err != nil {
		return nil, err
	}
	now := time.Now().UTC()
	return &BroadcastMessage{
		smsBase:    b,
		Areas:      opts.Areas,
		Identifier: opts.Identifier,
		MsgType:    "Alert",
		Sent:       now,
		Expires:    now.Add(broadcastTTL),
		polygons:   opts.Polygons,
	}, nil
}

// BroadcastEvent is a transmitted alert event as serialised by the API.
// Timestamps are ISO-8601; personalisation has already been
// interpolated into the body.
type BroadcastEvent struct {
	ID                      string
	MessageType             string
	SentAt                  string
	TransmittedFinishesAt   string
	TransmittedContent      string
	Polygons                [][][2]float64
	Areas                   []string
	PreviousEventReferences []string
}

// BroadcastMessageFromEvent rebuilds the message for an already
// transmitted event, so that updates and cancels reproduce the original
// document byte for byte.
func BroadcastMessageFromEvent(event BroadcastEvent) (*BroadcastMessage, error) {
	msg, err := NewBroadcastMessage(Record{
		Type:    TypeBroadcast,
		Content: event.TransmittedContent,
	}, nil, BroadcastOptions{
		Areas:      event.Areas,
		Polygons:   event.Polygons,
		Identifier: event.ID,
	})
	if err != nil {
		return nil, err
	}
	sent, err := parseEventTime(event.SentAt)
	if err != nil {
		return nil, fmt.Errorf("parse sent_at: %w", err)
	}
	expires, err := parseEventTime(event.TransmittedFinishesAt)
	if err != nil {
		return nil, fmt.Errorf("parse transmitted_finishes_at: %w", err)
	}
	msg.MsgType = titleCase(event.MessageType)
	msg.Sent = sent
	msg.Expires = expires
	msg.PreviousEventReferences = event.PreviousEventReferences
	return msg, nil
}

// parseEventTime drops the zone, keeping the wall clock. Event
// timestamps are already UTC in everything but name, with or without a
// zone suffix, and CAP times carry their own -00:00 marker.
func parseEventTime(s string) (time.Time, error) {
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		t, err = time.Parse("2006-01-02T15:04:05", s)
	}
	if err != nil {
		return time.Time{}, err
	}
	y, m, d := t.Date()
	return time.Date(y, m, d, t.Hour(), t.Minute(), t.Second(), t.Nanosecond(), time.UTC), nil
}

// titleCase maps the event message types (alert, update, cancel) to
// their CAP spellings.
func titleCase(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + strings.ToLower(s[1:])
}

// body is the alert text: escaped, GSM-downgraded and
// whitespace-normalised, without the trailing strip the SMS variants do.
func (t *BroadcastMessage) body() string {
	return pipeline.Take(fields.Resolve(strings.TrimSpace(t.content), t.values, fields.Options{
		HTML: fields.Escape,
	})).
		Then(sms.Encode).
		Then(pipeline.RemoveWhitespaceBeforePunctuation).
		Then(pipeline.NormaliseWhitespaceAndNewlines).
		Then(pipeline.NormaliseMultipleNewlines).
		String()
}

// PolygonStrings renders each polygon as space-separated lat,long pairs.
func (t *BroadcastMessage) PolygonStrings() []string {
	out := make([]string, len(t.polygons))
	for i, polygon := range t.polygons {
		out[i] = cap.Polygon(polygon)
	}
	return out
}

// Reference identifies this alert in the references of a future update
// or cancel.
func (t *BroadcastMessage) Reference() string {
	return cap.Reference(NotifyIdentifier, t.Identifier, t.Sent)
}

// Alert assembles the CAP document.
func (t *BroadcastMessage) Alert() cap.Alert {
	return cap.Alert{
		Identifier: t.Identifier,
		Sender:     NotifyIdentifier,
		Sent:       cap.Timestamp(t.Sent),
		Status:     "Actual",
		MsgType:    t.MsgType,
		Scope:      "Public",
		References: strings.Join(t.PreviousEventReferences, " "),
		Info: cap.Info{
			Language:     "en-GB",
			Category:     "Health",
			Event:        "Notify Broadcast",
			ResponseType: "None",
			Urgency:      "Immediate",
			Severity:     "Extreme",
			Certainty:    "Observed",
			Expires:      cap.Timestamp(t.Expires),
			Description:  t.body(),
			Area: cap.Area{
				AreaDesc: joinAreas(t.Areas),
				Polygons: t.PolygonStrings(),
			},
		},
	}
}

// XML serialises the alert.
func (t *BroadcastMessage) XML() ([]byte, error) {
	return cap.Marshal(t.Alert())
}

func (t *BroadcastMessage) String() string {
	out, err := t.XML()
	if err != nil {
		return ""
	}
	return string(out)
}

func joinAreas(areas []string) string {
	return strings.Join(areas, ", ")
}

// BroadcastPreview renders the alert as the bubble shown in the admin
// interface, like an SMS preview without the recipient line.
type BroadcastPreview struct {
	smsBase
	opts SMSPreviewOptions
}

func NewBroadcastPreview(rec Record, values fields.Values, opts SMSPreviewOptions) (*BroadcastPreview, error) {
	b, err := newSMSBase(rec, TypeBroadcast, "BroadcastPreview", values, opts.SMSOptions)
	if err != nil {
		return nil, err
	}
	b.redact = opts.RedactMissing
	return &BroadcastPreview{smsBase: b, opts: opts}, nil
}

func (t *BroadcastPreview) String() string {
	return renderer.BroadcastPreview(renderer.SMSPreviewParams{
		Body: t.previewBody(t.opts.KeepNonGSMCharacters, t.opts.RedactMissing),
	})
}
