// Package template turns an abstract notification (content with
// ((placeholder)) markers, an optional subject) into channel-specific
// output: SMS text, preview bubbles, plain and HTML email, letter markup
// and broadcast alert XML. Each channel is a distinct variant over a
// shared base; the bases hold the value map and the derived measurements
// (placeholders, character counts, fragment counts) that drive validation
// and billing.
package template
