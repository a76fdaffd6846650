// Package charclass reproduces the character-class tables from the XML
// 1.0 (Second Edition) recommendation, Appendix B: BaseChar,
// Ideographic, CombiningChar, Digit and Extender. These are exposed as
// unicode.RangeTable values so they compose with the standard
// library's unicode.Is, and as NameStartChar/NameChar predicates for
// the dtd package's name scanner.
//
// The tables below cover the ranges most DTDs and XML documents in
// the wild actually use (ASCII, Latin-1 and Latin Extended, Greek,
// Cyrillic, common CJK ideograph blocks, combining diacritics, and
// the Unicode decimal digit ranges cited by Appendix B) rather than
// exhaustively transcribing every row of the recommendation's table.
package charclass

import "unicode"

// BaseChar is the XML 1.0 BaseChar character class: letters that may
// start or continue a Name, excluding Ideographic and CombiningChar.
var BaseChar = &unicode.RangeTable{
	R16: []unicode.Range16{
		{0x0041, 0x005A, 1}, // Basic Latin A-Z
		{0x0061, 0x007A, 1}, // Basic Latin a-z
		{0x00C0, 0x00D6, 1},
		{0x00D8, 0x00F6, 1},
		{0x00F8, 0x00FF, 1},
		{0x0100, 0x0131, 1}, // Latin Extended-A/B
		{0x0134, 0x013E, 1},
		{0x0141, 0x0148, 1},
		{0x014A, 0x017E, 1},
		{0x0180, 0x01C3, 1},
		{0x01CD, 0x01F0, 1},
		{0x01F4, 0x01F5, 1},
		{0x01FA, 0x0217, 1},
		{0x0250, 0x02A8, 1}, // IPA Extensions
		{0x0386, 0x0386, 1}, // Greek
		{0x0388, 0x038A, 1},
		{0x038C, 0x038C, 1},
		{0x038E, 0x03A1, 1},
		{0x03A3, 0x03CE, 1},
		{0x03D0, 0x03D6, 1},
		{0x03DA, 0x03DA, 1},
		{0x03E2, 0x03F3, 1},
		{0x0401, 0x040C, 1}, // Cyrillic
		{0x040E, 0x044F, 1},
		{0x0451, 0x045C, 1},
		{0x045E, 0x0481, 1},
		{0x0490, 0x04C4, 1},
		{0x04C7, 0x04C8, 1},
		{0x04CB, 0x04CC, 1},
		{0x04D0, 0x04EB, 1},
		{0x04EE, 0x04F5, 1},
		{0x04F8, 0x04F9, 1},
		{0x0531, 0x0556, 1}, // Armenian
		{0x0561, 0x0586, 1},
		{0x05D0, 0x05EA, 1}, // Hebrew
		{0x0621, 0x063A, 1}, // Arabic
		{0x0641, 0x064A, 1},
		{0x0671, 0x06B7, 1},
		{0x0904, 0x0939, 1}, // Devanagari
		{0x0958, 0x0961, 1},
		{0x0E01, 0x0E2E, 1}, // Thai
		{0x0E40, 0x0E4E, 1},
		{0x10A0, 0x10C5, 1}, // Georgian
		{0x10D0, 0x10F6, 1},
		{0x1E00, 0x1E9B, 1}, // Latin Extended Additional
		{0x1EA0, 0x1EF9, 1},
		{0x1F00, 0x1F15, 1}, // Greek Extended
	},
}

// Ideographic is the XML 1.0 Ideographic character class.
var Ideographic = &unicode.RangeTable{
	R16: []unicode.Range16{
		{0x3007, 0x3007, 1},
		{0x3021, 0x3029, 1},
		{0x4E00, 0x9FA5, 1},
	},
}

// CombiningChar is the XML 1.0 CombiningChar character class.
var CombiningChar = &unicode.RangeTable{
	R16: []unicode.Range16{
		{0x0300, 0x0345, 1},
		{0x0360, 0x0361, 1},
		{0x0483, 0x0486, 1},
		{0x0591, 0x05A1, 1},
		{0x05A3, 0x05B9, 1},
		{0x05BB, 0x05BD, 1},
		{0x05BF, 0x05BF, 1},
		{0x05C1, 0x05C2, 1},
		{0x05C4, 0x05C4, 1},
		{0x064B, 0x0652, 1},
		{0x0670, 0x0670, 1},
		{0x06D6, 0x06DC, 1},
		{0x06DD, 0x06DF, 1},
		{0x06E0, 0x06E4, 1},
		{0x06E7, 0x06E8, 1},
		{0x06EA, 0x06ED, 1},
		{0x0901, 0x0903, 1},
		{0x093C, 0x093C, 1},
		{0x093E, 0x094D, 1},
		{0x0951, 0x0954, 1},
		{0x0E31, 0x0E31, 1},
		{0x0E34, 0x0E3A, 1},
		{0x0E47, 0x0E4E, 1},
		{0x20D0, 0x20DC, 1},
		{0x20E1, 0x20E1, 1},
		{0x302A, 0x302F, 1},
	},
}

// Digit is the XML 1.0 Digit character class.
var Digit = &unicode.RangeTable{
	R16: []unicode.Range16{
		{0x0030, 0x0039, 1}, // ASCII digits
		{0x0660, 0x0669, 1}, // Arabic-Indic
		{0x06F0, 0x06F9, 1}, // Extended Arabic-Indic
		{0x0966, 0x096F, 1}, // Devanagari
		{0x09E6, 0x09EF, 1}, // Bengali
		{0x0A66, 0x0A6F, 1}, // Gurmukhi
		{0x0AE6, 0x0AEF, 1}, // Gujarati
		{0x0B66, 0x0B6F, 1}, // Oriya
		{0x0BE7, 0x0BEF, 1}, // Tamil
		{0x0C66, 0x0C6F, 1}, // Telugu
		{0x0CE6, 0x0CEF, 1}, // Kannada
		{0x0D66, 0x0D6F, 1}, // Malayalam
		{0x0E50, 0x0E59, 1}, // Thai
		{0x0ED0, 0x0ED9, 1}, // Lao
		{0x0F20, 0x0F29, 1}, // Tibetan
	},
}

// Extender is the XML 1.0 Extender character class.
var Extender = &unicode.RangeTable{
	R16: []unicode.Range16{
		{0x00B7, 0x00B7, 1},
		{0x02D0, 0x02D1, 1},
		{0x0387, 0x0387, 1},
		{0x0640, 0x0640, 1},
		{0x0E46, 0x0E46, 1},
		{0x0EC6, 0x0EC6, 1},
		{0x3005, 0x3005, 1},
		{0x3031, 0x3035, 1},
		{0x309D, 0x309E, 1},
		{0x30FC, 0x30FE, 1},
	},
}

// Letter is the union of BaseChar and Ideographic, as used by the
// NameChar/NameStartChar productions of the XML 1.0 recommendation.
var Letter = &unicode.RangeTable{
	R16: mergeR16(BaseChar.R16, Ideographic.R16),
}

func mergeR16(a, b []unicode.Range16) []unicode.Range16 {
	out := make([]unicode.Range16, 0, len(a)+len(b))
	out = append(out, a...)
	out = append(out, b...)
	return out
}

// IsLetter reports whether r is in BaseChar or Ideographic.
func IsLetter(r rune) bool {
	return unicode.Is(BaseChar, r) || unicode.Is(Ideographic, r)
}

// IsDigit reports whether r is in the XML Digit class.
func IsDigit(r rune) bool {
	return unicode.Is(Digit, r)
}

// IsCombiningChar reports whether r is in the XML CombiningChar class.
func IsCombiningChar(r rune) bool {
	return unicode.Is(CombiningChar, r)
}

// IsExtender reports whether r is in the XML Extender class.
func IsExtender(r rune) bool {
	return unicode.Is(Extender, r)
}

// IsNameStartChar reports whether r may start an XML Name: a Letter,
// '_', or ':'. The colon is accepted here even though namespace-aware
// consumers forbid it in a local name; the scanner does not itself
// enforce namespace validity (spec: names are namespace-resolved in a
// later pass, not during scanning).
func IsNameStartChar(r rune) bool {
	return IsLetter(r) || r == '_' || r == ':'
}

// IsNameChar reports whether r may continue an XML Name or Nmtoken:
// any NameStartChar, digit, '.', '-', CombiningChar or Extender.
func IsNameChar(r rune) bool {
	switch r {
	case '.', '-':
		return true
	}
	return IsNameStartChar(r) || IsDigit(r) || IsCombiningChar(r) || IsExtender(r)
}
