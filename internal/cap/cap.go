// Package cap builds Common Alerting Protocol v1.2 alert documents for
// cell broadcast messages.
package cap

import (
	"encoding/xml"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// XMLNamespace is the CAP v1.2 namespace URI.
const XMLNamespace = "urn:oasis:names:tc:emergency:cap:1.2"

// Alert is a CAP alert document. Zero-value fields marshal as empty
// elements, which the broadcast gateway rejects, so callers fill every
// field.
type Alert struct {
	XMLName    xml.Name `xml:"alert"`
	Namespace  string   `xml:"xmlns,attr"`
	Identifier string   `xml:"identifier"`
	Sender     string   `xml:"sender"`
	Sent       string   `xml:"sent"`
	Status     string   `xml:"status"`
	MsgType    string   `xml:"msgType"`
	Scope      string   `xml:"scope"`

	// References is always emitted, empty for the first message in a
	// chain, so that consumers can rely on the element being there.
	References string `xml:"references"`

	Info Info `xml:"info"`
}

// Info is the single info block of an alert.
type Info struct {
	Language     string `xml:"language"`
	Category     string `xml:"category"`
	Event        string `xml:"event"`
	ResponseType string `xml:"responseType"`
	Urgency      string `xml:"urgency"`
	Severity     string `xml:"severity"`
	Certainty    string `xml:"certainty"`
	Expires      string `xml:"expires"`
	Description  string `xml:"description"`
	Area         Area   `xml:"area"`
}

// Area holds the alerting area: a description and one polygon element
// per polygon.
type Area struct {
	AreaDesc string   `xml:"areaDesc"`
	Polygons []string `xml:"polygon"`
}

// Timestamp formats a time the way the broadcast gateway expects:
// second precision with a literal -00:00 zone, meaning the zone is
// unknown rather than UTC.
func Timestamp(t time.Time) string {
	return t.Format("2006-01-02T15:04:05") + "-00:00"
}

// Reference identifies an earlier alert in an update or cancel message.
func Reference(sender, identifier string, sent time.Time) string {
	return fmt.Sprintf("%s,%s,%s", sender, identifier, Timestamp(sent))
}

// Polygon flattens coordinate pairs into the space-separated lat,long
// form a polygon element carries.
func Polygon(points [][2]float64) string {
	pairs := make([]string, len(points))
	for i, p := range points {
		pairs[i] = strconv.FormatFloat(p[0], 'g', -1, 64) + "," + strconv.FormatFloat(p[1], 'g', -1, 64)
	}
	return strings.Join(pairs, " ")
}

// Marshal serialises the alert with an XML declaration and two-space
// indenting.
func Marshal(a Alert) ([]byte, error) {
	if a.Namespace == "" {
		a.Namespace = XMLNamespace
	}
	body, err := xml.MarshalIndent(a, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal alert: %w", err)
	}
	return append([]byte(xml.Header), body...), nil
}
