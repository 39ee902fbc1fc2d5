package cap

import (
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
)

func TestTimestamp(t *testing.T) {
	t.Parallel()
	got := Timestamp(time.Date(2021, 12, 21, 12, 30, 45, 123456000, time.UTC))
	if want := "2021-12-21T12:30:45-00:00"; got != want {
		t.Errorf("Timestamp = %q, want %q", got, want)
	}
}

func TestReference(t *testing.T) {
	t.Parallel()
	got := Reference(
		"https://www.notifications.service.gov.uk/",
		"9b8d1c1e-5f7a-4b4b-9c9e-000000000000",
		time.Date(2021, 12, 21, 12, 30, 45, 0, time.UTC),
	)
	want := "https://www.notifications.service.gov.uk/,9b8d1c1e-5f7a-4b4b-9c9e-000000000000,2021-12-21T12:30:45-00:00"
	if got != want {
		t.Errorf("Reference = %q, want %q", got, want)
	}
}

func TestPolygon(t *testing.T) {
	t.Parallel()
	got := Polygon([][2]float64{{50.12, 1.2}, {50.13, 1.2}, {50.14, 1.21}})
	if want := "50.12,1.2 50.13,1.2 50.14,1.21"; got != want {
		t.Errorf("Polygon = %q, want %q", got, want)
	}
}

func TestMarshal(t *testing.T) {
	t.Parallel()
	sent := time.Date(2021, 12, 21, 12, 30, 45, 0, time.UTC)
	out, err := Marshal(Alert{
		Identifier: "1234",
		Sender:     "https://www.notifications.service.gov.uk/",
		Sent:       Timestamp(sent),
		Status:     "Actual",
		MsgType:    "Alert",
		Scope:      "Public",
		Info: Info{
			Language:     "en-GB",
			Category:     "Health",
			Event:        "Notify Broadcast",
			ResponseType: "None",
			Urgency:      "Immediate",
			Severity:     "Extreme",
			Certainty:    "Observed",
			Expires:      Timestamp(sent.Add(72 * time.Hour)),
			Description:  "this is an emergency broadcast message",
			Area: Area{
				AreaDesc: "area",
				Polygons: []string{"50.12,1.2 50.13,1.2 50.14,1.21"},
			},
		},
	})
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	want := `<?xml version="1.0" encoding="UTF-8"?>
<alert xmlns="urn:oasis:names:tc:emergency:cap:1.2">
  <identifier>1234</identifier>
  <sender>https://www.notifications.service.gov.uk/</sender>
  <sent>2021-12-21T12:30:45-00:00</sent>
  <status>Actual</status>
  <msgType>Alert</msgType>
  <scope>Public</scope>
  <references></references>
  <info>
    <language>en-GB</language>
    <category>Health</category>
    <event>Notify Broadcast</event>
    <responseType>None</responseType>
    <urgency>Immediate</urgency>
    <severity>Extreme</severity>
    <certainty>Observed</certainty>
    <expires>2021-12-24T12:30:45-00:00</expires>
    <description>this is an emergency broadcast message</description>
    <area>
      <areaDesc>area</areaDesc>
      <polygon>50.12,1.2 50.13,1.2 50.14,1.21</polygon>
    </area>
  </info>
</alert>`
	if diff := cmp.Diff(want, string(out)); diff != "" {
		t.Errorf("Marshal mismatch (-want +got):\n%s", diff)
	}
}
