package testkit

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func AssertStatusCode(t *testing.T, s *Scenario, got int) {
	t.Helper()
	assert.Equal(t, s.ExpectedCode, got, "[%s] HTTP status code mismatch", s.Name)
}

// AssertContains checks every responseContains substring.
func AssertContains(t *testing.T, s *Scenario, body []byte) {
	t.Helper()
	for _, want := range s.ResponseContains {
		assert.Contains(t, string(body), want, "[%s] response body", s.Name)
	}
}

// AssertJSONBody compares both documents after decoding, so key order and
// whitespace never matter. An empty expectation is skipped.
func AssertJSONBody(t *testing.T, s *Scenario, expected, actual []byte) {
	t.Helper()
	if len(expected) == 0 {
		return
	}

	var want, got interface{}
	require.NoError(t, json.Unmarshal(expected, &want), "[%s] expected response file is not valid JSON", s.Name)
	if !assert.NoError(t, json.Unmarshal(actual, &got), "[%s] response is not JSON\nbody: %s", s.Name, actual) {
		return
	}
	assert.Equal(t, want, got, "[%s] response body mismatch", s.Name)
}
