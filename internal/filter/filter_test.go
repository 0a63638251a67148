package filter

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/standardbeagle/matchd/internal/identity"
	"github.com/standardbeagle/matchd/internal/normalize"
)

func withLastDOBSex(last string, year int, sex int) identity.NormalizedIdentity {
	n := identity.NormalizedIdentity{LastName: normalize.Normalize(last), Sex: sex}
	if year != 0 {
		n.DOB = identity.DOB{Day: 1, Month: 1, Year: year}
	}
	return n
}

func TestSexGateRejectsMismatch(t *testing.T) {
	q := withLastDOBSex("طرابلسي", 1985, identity.SexMale)
	c := withLastDOBSex("طرابلسي", 1985, identity.SexFemale)
	assert.False(t, Keep(q, c))
}

func TestSexGateUnknownVsUnknownPasses(t *testing.T) {
	q := withLastDOBSex("طرابلسي", 1985, identity.SexUnknown)
	c := withLastDOBSex("طرابلسي", 1985, identity.SexUnknown)
	assert.True(t, Keep(q, c))
}

func TestDecadeWindowCutoff(t *testing.T) {
	// spec.md §8 scenario 3: year=1985 vs 1974, diff=11, rejected.
	q := withLastDOBSex("طرابلسي", 1985, identity.SexMale)
	rejected := withLastDOBSex("طرابلسي", 1974, identity.SexMale)
	assert.False(t, Keep(q, rejected))

	// year=1985 vs 1975, diff=10, kept.
	kept := withLastDOBSex("طرابلسي", 1975, identity.SexMale)
	assert.True(t, Keep(q, kept))
}

func TestDecadeWindowSkippedWhenDOBMissing(t *testing.T) {
	q := withLastDOBSex("طرابلسي", 0, identity.SexMale)
	c := withLastDOBSex("طرابلسي", 1900, identity.SexMale)
	assert.True(t, Keep(q, c))
}

func TestPhoneticLastNameGate(t *testing.T) {
	// spec.md §8 scenario 4.
	q := withLastDOBSex("طرابلسي", 1985, identity.SexMale)
	same := withLastDOBSex("طربلسي", 1985, identity.SexMale)
	unrelated := withLastDOBSex("الحمامي", 1985, identity.SexMale)
	assert.True(t, Keep(q, same))
	assert.False(t, Keep(q, unrelated))
}

func TestFilterConservativeness(t *testing.T) {
	// If a candidate passes with sex=s and year=y, so does any candidate
	// sharing (sex, last_norm) with year within ±10.
	q := withLastDOBSex("طرابلسي", 1985, identity.SexMale)
	c1 := withLastDOBSex("طرابلسي", 1985, identity.SexMale)
	assert.True(t, Keep(q, c1))
	for _, y := range []int{1976, 1980, 1990, 1994} {
		c := withLastDOBSex("طرابلسي", y, identity.SexMale)
		assert.True(t, Keep(q, c), "year %d should pass within window", y)
	}
}
