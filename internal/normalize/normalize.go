// Package normalize implements spec.md §4.1: the Arabic-text canonicalizer
// shared by string similarity and phonetic coding. Grounded on
// original_source/src/utils/normalization.rs (remove_diacritics,
// normalize_arabic, standardize_prefixes), translated from a chained
// String.replace pipeline into two table-driven rune scans plus a fixed
// prefix check — Go idiom for this kind of table-driven text transform, not a
// line-for-line port of the Rust chain.
package normalize

import "strings"

// diacritics are the eight Arabic harakat code points stripped in step 1.
var diacritics = map[rune]bool{
	'ً': true, // tanwin fath
	'ٌ': true, // tanwin damm
	'ٍ': true, // tanwin kasr
	'َ': true, // fatha
	'ُ': true, // damma
	'ِ': true, // kasra
	'ّ': true, // shadda
	'ْ': true, // sukun
}

// letterUnification maps single runes to their unified form (step 2).
var letterUnification = map[rune]string{
	'ة': "ه", // ة -> ه
	'ى': "ي", // ى -> ي
	'أ': "ا", // أ -> ا
	'إ': "ا", // إ -> ا
	'ؤ': "و", // ؤ -> و
	'ئ': "ي", // ئ -> ي
	// Lam-Alef presentation-form ligatures FEF5..FEFC -> لا
	'ﻵ': "لا",
	'ﻶ': "لا",
	'ﻷ': "لا",
	'ﻸ': "لا",
	'ﻹ': "لا",
	'ﻺ': "لا",
	'ﻻ': "لا",
	'ﻼ': "لا",
}

// prefixes is the recognized-prefix set, checked in this order; the first
// match wins and at most one prefix is removed per call (spec.md §4.1 step
// 3, and the deliberate "ابن بن X" -> "بن X" behavior documented in spec.md
// §9's Open Questions).
var prefixes = []string{"ال", "بن", "ابن", "بنت", "أبو", "أم"}

// Normalize applies diacritic stripping, letter unification, and a single
// leading-prefix strip, in that fixed order. It is pure and total.
// Normalize(Normalize(s)) == Normalize(s) holds unless removing the one
// prefix exposes another at the start of the result: "البنا" becomes
// "بنا", which a second call turns into "ا".
func Normalize(s string) string {
	s = stripDiacritics(s)
	s = unifyLetters(s)
	s = stripPrefix(s)
	return s
}

func stripDiacritics(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if diacritics[r] {
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

func unifyLetters(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if repl, ok := letterUnification[r]; ok {
			b.WriteString(repl)
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

func stripPrefix(s string) string {
	for _, p := range prefixes {
		if strings.HasPrefix(s, p) {
			return s[len(p):]
		}
	}
	return s
}
