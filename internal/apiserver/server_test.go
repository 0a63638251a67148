package apiserver

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/standardbeagle/matchd/internal/matcher"
	"github.com/standardbeagle/matchd/internal/store"
)

func newTestServer(rows []store.RawReferenceRow) *Server {
	m := matcher.New(store.NewMemStore(rows), 0, 0, 0)
	return New(m, Options{Addr: ":0"})
}

func postMatch(t *testing.T, s *Server, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, json.NewEncoder(&buf).Encode(body))
	req := httptest.NewRequest(http.MethodPost, "/v1/match", &buf)
	rec := httptest.NewRecorder()
	s.handleMatch(rec, req)
	return rec
}

func TestHandleMatchEmptyBucketReturns404(t *testing.T) {
	s := newTestServer(nil)
	rec := postMatch(t, s, matchRequest{
		FirstName: "أحمد", LastName: "طرابلسي", Sex: 1,
		DOB: &[3]int{1, 1, 2200},
	})
	assert.Equal(t, http.StatusNotFound, rec.Code)

	var body []matchResultWire
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Empty(t, body)
}

func TestHandleMatchEmptyAfterFilterReturns200(t *testing.T) {
	s := newTestServer([]store.RawReferenceRow{
		{FirstName: "سالم", LastName: "الحمامي", Year: 1985, SexRaw: "1"},
	})
	rec := postMatch(t, s, matchRequest{
		FirstName: "أحمد", LastName: "طرابلسي", Sex: 1,
		DOB: &[3]int{15, 6, 1985},
	})
	assert.Equal(t, http.StatusOK, rec.Code)

	var body []matchResultWire
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Empty(t, body)
}

func TestHandleMatchSuccess(t *testing.T) {
	s := newTestServer([]store.RawReferenceRow{
		{
			FirstName: "أحمد", LastName: "طرابلسي", FatherName: "محمد",
			GrandfatherName: "صالح", MotherLastName: "عنيبة", MotherFirstName: "فاطمة",
			Day: 15, Month: 6, Year: 1985, SexRaw: "1", PlaceOfBirth: "تونس",
		},
	})
	rec := postMatch(t, s, matchRequest{
		FirstName: "أحمد", LastName: "طرابلسي", FatherName: "محمد",
		GrandfatherName: "صالح", MotherLastName: "عنيبة", MotherName: "فاطمة",
		Sex: 1, DOB: &[3]int{15, 6, 1985}, PlaceOfBirth: "تونس",
	})
	require.Equal(t, http.StatusOK, rec.Code)

	var body []matchResultWire
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.Len(t, body, 1)
	assert.Equal(t, 100, body[0].TotalScore)
	assert.Len(t, body[0].Breakdown, 9)
}

func TestHandleMatchRejectsNonPost(t *testing.T) {
	s := newTestServer(nil)
	req := httptest.NewRequest(http.MethodGet, "/v1/match", nil)
	rec := httptest.NewRecorder()
	s.handleMatch(rec, req)
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}

func TestHandleMatchRejectsMalformedBody(t *testing.T) {
	s := newTestServer(nil)
	req := httptest.NewRequest(http.MethodPost, "/v1/match", bytes.NewBufferString("{not json"))
	rec := httptest.NewRecorder()
	s.handleMatch(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHandleHealth(t *testing.T) {
	s := newTestServer(nil)
	req := httptest.NewRequest(http.MethodGet, "/v1/health", nil)
	rec := httptest.NewRecorder()
	s.handleHealth(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)

	var body map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "ok", body["status"])
}

func TestHandleVersion(t *testing.T) {
	s := newTestServer(nil)
	req := httptest.NewRequest(http.MethodGet, "/v1/version", nil)
	rec := httptest.NewRecorder()
	s.handleVersion(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
}
