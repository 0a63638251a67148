package normalize

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIdempotence(t *testing.T) {
	cases := []string{
		"أحمَد",
		"محمد بن علي",
		"ﻻمين",
		"فاطمة",
		"",
		"الحمامي",
	}
	for _, s := range cases {
		once := Normalize(s)
		twice := Normalize(once)
		assert.Equal(t, once, twice, "Normalize not idempotent for %q", s)
	}
}

func TestDiacriticStripping(t *testing.T) {
	assert.Equal(t, Normalize("احمد"), Normalize("أحمَد"))
}

func TestLetterUnification(t *testing.T) {
	assert.Equal(t, Normalize("اسامة"), Normalize("أسامة"))
	assert.Equal(t, Normalize("مومن"), Normalize("مؤمن"))
	assert.Equal(t, Normalize("سيين"), Normalize("سئين"))
	assert.Equal(t, Normalize("هدايه"), Normalize("هداية"))
}

func TestLamAlefLigatureExpansion(t *testing.T) {
	// "ﻻمين" vs "لامين" both normalize to the same string (spec.md §8
	// scenario 5).
	assert.Equal(t, Normalize("لامين"), Normalize("ﻻمين"))
}

func TestPrefixStrippedAtMostOnce(t *testing.T) {
	// Only the prefix runes are removed; the space after them stays.
	assert.Equal(t, " علي", Normalize("بن علي"))
	assert.Equal(t, " صالح", Normalize("ابن صالح"))
	assert.Equal(t, " بن علي", Normalize("ابن بن علي"))
}

func TestNoLowercasingOrWhitespaceCollapse(t *testing.T) {
	// The Normalizer never lowercases (irrelevant for Arabic, but also
	// never touches Latin casing) and never collapses whitespace.
	assert.Equal(t, "a  b", Normalize("a  b"))
}
