package sms

import (
	"strings"
	"testing"
)

func TestEncode(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name string
		in   string
		out  string
	}{
		{"gsm passthrough", "The quick brown fox: 100% @ £2.50?", "The quick brown fox: 100% @ £2.50?"},
		{"welsh gsm kept", "àèéìòù", "àèéìòù"},
		{"welsh non-gsm kept", "ŴŵŶŷÿÂêÎô", "ŴŵŶŷÿÂêÎô"},
		{"smart punctuation downgraded", "‘single’ “double” – dash … ellipsis", "'single' \"double\" - dash ... ellipsis"},
		{"accents stripped", "ça c’est ñoño, garçon", "ca c'est ñoño, garcon"},
		{"unsupported replaced", "深", "?"},
		{"emoji replaced", "🚀🚀", "??"},
		{"zero width removed", "a\u200Bb", "ab"},
		{"nbsp becomes space", "a\u00A0b", "a b"},
	}
	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			if got := Encode(tc.in); got != tc.out {
				t.Fatalf("Encode(%q) = %q, want %q", tc.in, got, tc.out)
			}
		})
	}
}

func TestEncodeStripsAccentsOutsideWelshSet(t *testing.T) {
	t.Parallel()

	// ō is neither GSM nor Welsh, but has a plain equivalent.
	if got := Encode("tōkyō"); got != "tokyo" {
		t.Fatalf("got %q", got)
	}
}

func TestContainsWelshNonGSM(t *testing.T) {
	t.Parallel()

	if ContainsWelshNonGSM("àèéìòù") {
		t.Fatal("GSM-encodable Welsh characters must not force wide encoding")
	}
	if !ContainsWelshNonGSM("tŷ bach") {
		t.Fatal("ŷ must force wide encoding")
	}
}

func TestFragmentCount(t *testing.T) {
	t.Parallel()

	cases := []struct {
		msg      string
		expected int
	}{
		{strings.Repeat("à", 71), 1},
		{strings.Repeat("à", 160), 1},
		{strings.Repeat("à", 161), 2},
		{strings.Repeat("à", 306), 2},
		{strings.Repeat("à", 307), 3},
		{strings.Repeat("à", 612), 4},
		{strings.Repeat("à", 613), 5},
		{strings.Repeat("à", 765), 5},
		{strings.Repeat("à", 766), 6},
		{strings.Repeat("à", 918), 6},
		{strings.Repeat("à", 919), 7},

		{strings.Repeat("ÿ", 70), 1},
		{strings.Repeat("ÿ", 71), 2},
		{strings.Repeat("ÿ", 134), 2},
		{strings.Repeat("ÿ", 135), 3},
		{strings.Repeat("ÿ", 268), 4},
		{strings.Repeat("ÿ", 269), 5},
		{strings.Repeat("ÿ", 402), 6},
		{strings.Repeat("ÿ", 403), 7},

		// One non-GSM character sends the whole message as unicode.
		{strings.Repeat("à", 70) + "ÿ", 2},
	}
	for _, tc := range cases {
		tc := tc
		count := len([]rune(tc.msg))
		got := FragmentCount(count, ContainsWelshNonGSM(tc.msg))
		if got != tc.expected {
			t.Errorf("FragmentCount for %d chars (wide=%v) = %d, want %d",
				count, ContainsWelshNonGSM(tc.msg), got, tc.expected)
		}
	}
}
