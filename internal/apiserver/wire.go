package apiserver

import "github.com/standardbeagle/matchd/internal/identity"

// matchRequest is the wire shape of POST /v1/match's body (spec.md §6).
type matchRequest struct {
	FirstName       string  `json:"first_name"`
	LastName        string  `json:"last_name"`
	FatherName      string  `json:"father_name"`
	GrandfatherName string  `json:"grandfather_name"`
	MotherLastName  string  `json:"mother_last_name"`
	MotherName      string  `json:"mother_name"`
	DOB             *[3]int `json:"dob"`
	Sex             int     `json:"sex"`
	PlaceOfBirth    string  `json:"place_of_birth"`
}

// toIdentity converts the wire request into an identity.Identity. A nil
// DOB maps to the zero-value "unknown" sentinel.
func (r matchRequest) toIdentity() identity.Identity {
	id := identity.Identity{
		FirstName:       r.FirstName,
		LastName:        r.LastName,
		FatherName:      r.FatherName,
		GrandfatherName: r.GrandfatherName,
		MotherLastName:  r.MotherLastName,
		MotherFirstName: r.MotherName,
		Sex:             r.Sex,
		PlaceOfBirth:    r.PlaceOfBirth,
	}
	if r.DOB != nil {
		id.DOB = identity.DOB{Day: r.DOB[0], Month: r.DOB[1], Year: r.DOB[2]}
	}
	return id
}

// wireIdentity is the "same keys as input" shape spec.md §6 requires for
// matched_identity in a response, dob rendered as [0,0,0] when unknown.
type wireIdentity struct {
	FirstName       string `json:"first_name"`
	LastName        string `json:"last_name"`
	FatherName      string `json:"father_name"`
	GrandfatherName string `json:"grandfather_name"`
	MotherLastName  string `json:"mother_last_name"`
	MotherName      string `json:"mother_name"`
	DOB             [3]int `json:"dob"`
	Sex             int    `json:"sex"`
	PlaceOfBirth    string `json:"place_of_birth"`
}

func toWireIdentity(n identity.NormalizedIdentity) wireIdentity {
	return wireIdentity{
		FirstName:       n.FirstName,
		LastName:        n.LastName,
		FatherName:      n.FatherName,
		GrandfatherName: n.GrandfatherName,
		MotherLastName:  n.MotherLastName,
		MotherName:      n.MotherFirstName,
		DOB:             [3]int{n.DOB.Day, n.DOB.Month, n.DOB.Year},
		Sex:             n.Sex,
		PlaceOfBirth:    n.PlaceOfBirth,
	}
}

// fieldScoreWire is one breakdown entry.
type fieldScoreWire struct {
	Field string `json:"field"`
	Score int    `json:"score"`
}

// matchResultWire is one ranked entry in the /v1/match response array.
type matchResultWire struct {
	MatchedIdentity wireIdentity     `json:"matched_identity"`
	TotalScore      int              `json:"total_score"`
	Breakdown       []fieldScoreWire `json:"breakdown"`
}

func toWireResults(results []identity.MatchResult) []matchResultWire {
	out := make([]matchResultWire, 0, len(results))
	for _, r := range results {
		breakdown := make([]fieldScoreWire, 0, len(r.Breakdown))
		for _, fs := range r.Breakdown {
			breakdown = append(breakdown, fieldScoreWire{Field: fs.Label, Score: fs.Score})
		}
		out = append(out, matchResultWire{
			MatchedIdentity: toWireIdentity(r.Matched),
			TotalScore:      r.TotalScore,
			Breakdown:       breakdown,
		})
	}
	return out
}
