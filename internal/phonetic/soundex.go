// Package phonetic implements spec.md §4.2: the Aramix Soundex encoder, a
// custom phonetic code for Arabic names. Grounded on
// original_source/src/utils/phonetic.rs (normalize_arabic_letters,
// get_code, aramix_soundex).
package phonetic

import "strings"

// internalFold is the encoder's own pre-normalization pass, distinct from
// package normalize's §4.1 pipeline: it additionally folds ء to empty and
// آ to ا, and repeats the diacritic strip, matching
// original_source/phonetic.rs's normalize_arabic_letters exactly.
var internalFold = map[rune]string{
	'أ': "ا",
	'إ': "ا",
	'آ': "ا",
	'ى': "ي",
	'ئ': "ي",
	'ؤ': "و",
	'ة': "ه",
	'ء': "",
	'َ': "",
	'ً': "",
	'ُ': "",
	'ٌ': "",
	'ِ': "",
	'ٍ': "",
	'ْ': "",
	'ّ': "",
}

// digitTable is the fixed letter-to-digit mapping (spec.md §4.2); any rune
// absent from this table maps to '0', including ي, ا, whitespace, and
// Latin letters.
var digitTable = map[rune]byte{
	'ب': '1', 'ف': '1',
	'ج': '2', 'ك': '2', 'ق': '2',
	'د': '3', 'ت': '3', 'ض': '3',
	'ر': '4', 'ل': '4', 'ن': '4',
	'س': '5', 'ش': '5', 'ز': '5',
	'ط': '6', 'ظ': '6', 'ص': '6',
	'ع': '7', 'غ': '7', 'ح': '7',
	'خ': '8', 'ه': '8',
	'م': '9', 'و': '9',
}

// maxCodeLen is the Soundex output cap (spec.md §4.2, §8).
const maxCodeLen = 4

// Encode maps name to an Aramix Soundex code of at most 4 characters. It is
// deterministic and total: Encode("") == "".
func Encode(name string) string {
	folded := fold(name)
	runes := []rune(folded)
	if len(runes) == 0 {
		return ""
	}

	var b strings.Builder
	b.Grow(maxCodeLen * 4)
	// The first character is copied verbatim, no mapping.
	b.WriteRune(runes[0])
	count := 1

	lastDigit := byte('0')
	for _, r := range runes[1:] {
		if count >= maxCodeLen {
			break
		}
		digit, ok := digitTable[r]
		if !ok {
			digit = '0'
		}
		if digit == '0' || digit == lastDigit {
			continue
		}
		b.WriteByte(digit)
		count++
		lastDigit = digit
	}

	return b.String()
}

func fold(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if repl, ok := internalFold[r]; ok {
			b.WriteString(repl)
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}
