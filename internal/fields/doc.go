// Package fields resolves ((placeholder)) personalisation in notification
// content.
//
// Lookup is forgiving about key style: "First Name", first_name and
// FIRSTNAME all address the same value. Unresolved placeholders render as
// highlighted spans for previews, literal text for plain output, or a
// redaction marker.
package fields
