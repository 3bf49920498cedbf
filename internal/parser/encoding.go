package parser

import "strings"

// Some exports contain UTF-8 byte sequences even though the file is declared
// (and decoded) as a single-byte legacy encoding. German umlauts then come
// out as two-character artifacts ("Ü" → "Ãœ"). The broken pairs are stable,
// so a literal replacement pass restores the text before any category lookup.
var encodingArtifacts = strings.NewReplacer(
	"Ã¤", "ä",
	"Ã¶", "ö",
	"Ã¼", "ü",
	"Ã„", "Ä",
	"Ã–", "Ö",
	"Ãœ", "Ü",
	"ÃŸ", "ß",
	// ISO 8859-1 maps the second byte of these sequences to C1 control
	// characters instead of printable punctuation.
	"\u00c3\u0084", "Ä",
	"\u00c3\u0096", "Ö",
	"\u00c3\u009c", "Ü",
	"\u00c3\u009f", "ß",
)

func fixEncodingArtifacts(s string) string {
	return encodingArtifacts.Replace(s)
}
