package sms

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// The GSM 03.38 default alphabet plus the escaped extension table.
// Any of these fits in the 7-bit encoding.
const gsmCharacters = "@£$¥èéùìòÇ\nØø\rÅåΔ_ΦΓΛΩΠΨΣΘΞÆæßÉ !\"#¤%&'()*+,-./0123456789" +
	":;<=>?¡ABCDEFGHIJKLMNOPQRSTUVWXYZÄÖÑÜ§¿abcdefghijklmnopqrstuvwxyzäöñüà" +
	"\f^{}\\[~]|€"

// Accented characters used in Welsh that the GSM alphabet cannot encode.
// These are kept as-is and force the whole message into UCS-2.
const welshNonGSMCharacters = "ÂâÊêÎîÔôÛûŴŵŶŷÁáÍíÓóÚúẂẃËëÏïŸÿÀÈÌÒÙẀẁỲỳ"

// Typographic characters with an obvious GSM equivalent.
var downgrades = map[rune]string{
	'‘': "'",
	'’': "'",
	'‚': "'",
	'‛': "'",
	'′': "'",
	'`': "'",
	'“': `"`,
	'”': `"`,
	'„': `"`,
	'‟': `"`,
	'″': `"`,
	'–': "-",
	'—': "-",
	'‒': "-",
	'―': "-",
	'…': "...",
	'\t': " ",
	'\u00A0': " ",
	'\u200B': "",
}

// IsGSM reports whether r is encodable in the GSM default alphabet.
func IsGSM(r rune) bool {
	return strings.ContainsRune(gsmCharacters, r)
}

// IsWelshNonGSM reports whether r is a Welsh character outside the GSM
// alphabet.
func IsWelshNonGSM(r rune) bool {
	return strings.ContainsRune(welshNonGSMCharacters, r)
}

// ContainsWelshNonGSM reports whether any character in s needs the wide
// encoding.
func ContainsWelshNonGSM(s string) bool {
	return strings.ContainsFunc(s, IsWelshNonGSM)
}

var stripMarks = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// Encode downgrades s for SMS delivery: GSM and Welsh characters pass
// through, typographic punctuation maps to its GSM equivalent, other
// accented letters lose their accent, and anything left becomes "?".
func Encode(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		switch {
		case IsGSM(r) || IsWelshNonGSM(r):
			b.WriteRune(r)
		default:
			if repl, ok := downgrades[r]; ok {
				b.WriteString(repl)
				continue
			}
			b.WriteString(downgradeAccent(r))
		}
	}
	return b.String()
}

func downgradeAccent(r rune) string {
	stripped, _, err := transform.String(stripMarks, string(r))
	if err == nil && stripped != string(r) {
		ok := true
		for _, sr := range stripped {
			if !IsGSM(sr) {
				ok = false
				break
			}
		}
		if ok {
			return stripped
		}
	}
	return "?"
}

// Fragment size limits, in characters. A message that fits in one fragment
// may use the whole fragment; longer messages lose room to the concatenation
// headers.
const (
	singleFragmentGSM  = 160
	multiFragmentGSM   = 153
	singleFragmentWide = 70
	multiFragmentWide  = 67
)

// FragmentCount returns the number of billable fragments for a message of
// characterCount characters. containsWelshNonGSM selects the wide (UCS-2)
// limits.
func FragmentCount(characterCount int, containsWelshNonGSM bool) int {
	single, multi := singleFragmentGSM, multiFragmentGSM
	if containsWelshNonGSM {
		single, multi = singleFragmentWide, multiFragmentWide
	}
	if characterCount <= single {
		return 1
	}
	return (characterCount + multi - 1) / multi
}
