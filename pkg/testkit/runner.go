package testkit

import (
	"bytes"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"
)

// Run executes every scenario in the file at path against handler, each
// as a subtest.
func Run(t *testing.T, handler http.Handler, path string) {
	t.Helper()
	ss, err := Load(path)
	require.NoError(t, err)
	runAll(t, handler, ss)
}

// RunDir executes every scenario file in dir.
func RunDir(t *testing.T, handler http.Handler, dir string) {
	t.Helper()
	ss, err := LoadDir(dir)
	require.NoError(t, err)
	runAll(t, handler, ss)
}

func runAll(t *testing.T, handler http.Handler, ss []*Scenario) {
	for _, s := range ss {
		t.Run(s.Name, func(t *testing.T) {
			Exec(t, handler, s)
		})
	}
}

// Exec fires one scenario and asserts on the recorded response. The
// response body is returned for further checks.
func Exec(t *testing.T, handler http.Handler, s *Scenario) []byte {
	t.Helper()

	body, err := s.Body()
	require.NoError(t, err, "[%s] request body", s.Name)
	var rd io.Reader
	if body != nil {
		rd = bytes.NewReader(body)
	}

	req := httptest.NewRequest(s.RequestMethod, s.RequestURL, rd)
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	for k, v := range s.Headers {
		req.Header.Set(k, v)
	}

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	AssertStatusCode(t, s, rec.Code)
	AssertContains(t, s, rec.Body.Bytes())

	expected, err := s.ExpectedBody()
	require.NoError(t, err, "[%s] response file", s.Name)
	AssertJSONBody(t, s, expected, rec.Body.Bytes())
	return rec.Body.Bytes()
}
