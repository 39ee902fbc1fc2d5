package pipeline

import "testing"

func TestFormattedList(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name     string
		items    []string
		opts     ListOptions
		expected string
	}{
		{"one item", []string{"1"}, ListOptions{}, "‘1’"},
		{"two items", []string{"1", "2"}, ListOptions{}, "‘1’ and ‘2’"},
		{"three items", []string{"1", "2", "3"}, ListOptions{}, "‘1’, ‘2’ and ‘3’"},
		{
			"plural prefix",
			[]string{"1", "2", "3"},
			ListOptions{Prefix: "foo", PrefixPlural: "bar"},
			"bar ‘1’, ‘2’ and ‘3’",
		},
		{
			"singular prefix",
			[]string{"1"},
			ListOptions{Prefix: "foo", PrefixPlural: "bar"},
			"foo ‘1’",
		},
		{
			"custom markers",
			[]string{"1", "2", "3"},
			ListOptions{BeforeEach: "a", AfterEach: "b"},
			"a1b, a2b and a3b",
		},
		{
			"custom conjunction",
			[]string{"1", "2", "3"},
			ListOptions{Conjunction: "foo"},
			"‘1’, ‘2’ foo ‘3’",
		},
		{
			"items are escaped",
			[]string{"&"},
			ListOptions{BeforeEach: "<i>", AfterEach: "</i>"},
			"<i>&amp;</i>",
		},
		{
			"markers are trusted",
			[]string{"1", "2", "3"},
			ListOptions{BeforeEach: "<i>", AfterEach: "</i>"},
			"<i>1</i>, <i>2</i> and <i>3</i>",
		},
	}
	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			if got := FormattedList(tc.items, tc.opts); got != tc.expected {
				t.Fatalf("got %q, want %q", got, tc.expected)
			}
		})
	}
}
