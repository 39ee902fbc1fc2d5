// Package status defines the notification delivery status table: which
// statuses exist, which notification types they apply to, whether they bill,
// and which transitions are allowed.
package status

import "fmt"

const (
	TypeEmail  = "email"
	TypeSMS    = "sms"
	TypeLetter = "letter"
)

type Status struct {
	Name string

	// Failure reports whether the status indicates a failure to deliver.
	Failure bool

	// Billable reports whether the user is billed for this notification.
	Billable bool

	// Types lists the notification types the status applies to.
	Types []string

	// To lists the statuses reachable from this one.
	To []string

	// Final statuses accept no further transitions. Usually derived from an
	// empty To list; "sent" is final even though delivery receipts may still
	// upgrade it to "delivered".
	Final bool

	// Aliases are additional names accepted when filtering (e.g. "failed").
	// The status name itself always matches.
	Aliases []string
}

// Success reports a billable, final, non-failure delivery.
func (s Status) Success() bool {
	return !s.Failure && s.Final && s.Billable
}

// CanTransitionTo reports whether name is an allowed next status.
func (s Status) CanTransitionTo(name string) bool {
	return contains(s.To, name)
}

// Matches reports whether the status is named or aliased by name.
func (s Status) Matches(name string) bool {
	return s.Name == name || contains(s.Aliases, name)
}

func (s Status) appliesTo(notificationType string) bool {
	return contains(s.Types, notificationType)
}

// All is the full status table, in display order.
//
// "pending" and "pending-virus-check" are interim states whose outbound
// transitions are not settled, so they carry no To list but stay non-final.
var All = []Status{
	{
		Name:  "cancelled",
		Types: []string{TypeLetter},
		Final: true,
	},
	{
		Name:    "created",
		To:      []string{"pending", "pending-virus-check", "sending", "sent"},
		Types:   []string{TypeEmail, TypeSMS, TypeLetter},
		Aliases: []string{"accepted"},
	},
	{
		Name: "sending",
		To: []string{
			"sent", "delivered",
			"technical-failure", "temporary-failure", "permanent-failure",
			"returned-letter", "cancelled",
		},
		Types:    []string{TypeEmail, TypeSMS, TypeLetter},
		Aliases:  []string{"accepted"},
		Billable: true,
	},
	{
		// international sms
		Name:     "sent",
		To:       []string{"delivered"},
		Types:    []string{TypeSMS},
		Final:    true,
		Billable: true,
	},
	{
		Name:     "delivered",
		Types:    []string{TypeEmail, TypeSMS, TypeLetter},
		Aliases:  []string{"received"},
		Final:    true,
		Billable: true,
	},
	{
		Name:  "pending",
		Types: []string{TypeSMS},
	},
	{
		// Deprecated as a stored status; kept as a filter alias target.
		Name:     "failed",
		Types:    []string{TypeEmail, TypeSMS},
		Final:    true,
		Failure:  true,
		Billable: true,
	},
	{
		Name:    "technical-failure",
		Types:   []string{TypeEmail, TypeSMS, TypeLetter},
		Aliases: []string{"failed"},
		Final:   true,
		Failure: true,
	},
	{
		Name:     "temporary-failure",
		Types:    []string{TypeEmail, TypeSMS},
		Aliases:  []string{"failed"},
		Final:    true,
		Failure:  true,
		Billable: true,
	},
	{
		Name:     "permanent-failure",
		Types:    []string{TypeEmail, TypeSMS},
		Aliases:  []string{"failed"},
		Final:    true,
		Failure:  true,
		Billable: true,
	},
	{
		Name:  "pending-virus-check",
		Types: []string{TypeLetter},
	},
	{
		Name:    "validation-failed",
		Types:   []string{TypeLetter},
		Aliases: []string{"failed"},
		Final:   true,
		Failure: true,
	},
	{
		Name:    "virus-scan-failed",
		Types:   []string{TypeLetter},
		Aliases: []string{"failed"},
		Final:   true,
		Failure: true,
	},
	{
		Name:     "returned-letter",
		Types:    []string{TypeLetter},
		Aliases:  []string{"failed"},
		Final:    true,
		Failure:  true,
		Billable: true,
	},
}

var byName = func() map[string]Status {
	m := make(map[string]Status, len(All))
	for _, s := range All {
		m[s.Name] = s
	}
	return m
}()

func Get(name string) (Status, error) {
	s, ok := byName[name]
	if !ok {
		return Status{}, fmt.Errorf("unknown notification status %q", name)
	}
	return s, nil
}

// Filter selects statuses from the table. Zero-value fields do not filter.
type Filter struct {
	// Type keeps statuses applying to this notification type.
	Type string

	// Names keeps statuses named or aliased by any of these.
	Names []string

	Failure  *bool
	Billable *bool
	Final    *bool
}

// List returns the statuses matching the filter, in table order.
func List(f Filter) []Status {
	out := make([]Status, 0, len(All))
	for _, s := range All {
		if f.Type != "" && !s.appliesTo(f.Type) {
			continue
		}
		if f.Names != nil && !matchesAny(s, f.Names) {
			continue
		}
		if f.Failure != nil && s.Failure != *f.Failure {
			continue
		}
		if f.Billable != nil && s.Billable != *f.Billable {
			continue
		}
		if f.Final != nil && s.Final != *f.Final {
			continue
		}
		out = append(out, s)
	}
	return out
}

func matchesAny(s Status, names []string) bool {
	for _, name := range names {
		if s.Matches(name) {
			return true
		}
	}
	return false
}

func contains(list []string, name string) bool {
	for _, v := range list {
		if v == name {
			return true
		}
	}
	return false
}
