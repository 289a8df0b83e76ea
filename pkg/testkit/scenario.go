// Package testkit drives HTTP handlers from JSON scenario files.
//
// A scenario names one request and what the response must look like:
//
//	testdata/
//	  product_missing.json       ← scenario (object or array of objects)
//	  product_missing_res.json   ← expected response body
//
//	func TestPublicPages(t *testing.T) {
//	    testkit.RunDir(t, handler, "testdata")
//	}
package testkit

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Scenario describes a single request and its expected response.
type Scenario struct {
	Name        string `json:"name"`
	Description string `json:"description"`

	RequestMethod   string            `json:"requestMethod"`
	RequestURL      string            `json:"requestUrl"`
	RequestFileName string            `json:"requestFileName"` // body, relative to the scenario file
	RequestBody     json.RawMessage   `json:"requestBody"`     // inline alternative to requestFileName
	Headers         map[string]string `json:"headers"`

	ExpectedCode     int      `json:"expectedCode"`
	ResponseFileName string   `json:"responseFileName"` // whole-body JSON match
	ResponseContains []string `json:"responseContains"` // substrings the body must contain

	dir string
}

// Load reads path, which holds either one scenario object or an array of
// them.
func Load(path string) ([]*Scenario, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("testkit: resolve path %q: %w", path, err)
	}
	data, err := os.ReadFile(abs)
	if err != nil {
		return nil, fmt.Errorf("testkit: read %q: %w", abs, err)
	}

	var out []*Scenario
	if trimmed := bytes.TrimSpace(data); len(trimmed) > 0 && trimmed[0] == '[' {
		err = json.Unmarshal(trimmed, &out)
	} else {
		var s Scenario
		err = json.Unmarshal(trimmed, &s)
		out = []*Scenario{&s}
	}
	if err != nil {
		return nil, fmt.Errorf("testkit: parse %q: %w", abs, err)
	}

	for i, s := range out {
		if err := s.validate(); err != nil {
			return nil, fmt.Errorf("testkit: %q item %d: %w", abs, i, err)
		}
		s.dir = filepath.Dir(abs)
	}
	return out, nil
}

// LoadDir loads every *.json scenario file in dir. Files referenced as
// request or response bodies must use a _req.json or _res.json suffix so
// they are not mistaken for scenarios.
func LoadDir(dir string) ([]*Scenario, error) {
	paths, err := filepath.Glob(filepath.Join(dir, "*.json"))
	if err != nil {
		return nil, err
	}

	var out []*Scenario
	for _, p := range paths {
		if strings.HasSuffix(p, "_req.json") || strings.HasSuffix(p, "_res.json") {
			continue
		}
		ss, err := Load(p)
		if err != nil {
			return nil, err
		}
		out = append(out, ss...)
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("testkit: no scenario files found in %q", dir)
	}
	return out, nil
}

func (s *Scenario) validate() error {
	if s.Name == "" {
		return fmt.Errorf("name is required")
	}
	if s.RequestURL == "" {
		return fmt.Errorf("requestUrl is required")
	}
	if s.ExpectedCode == 0 {
		return fmt.Errorf("expectedCode is required")
	}
	if s.RequestMethod == "" {
		s.RequestMethod = "GET"
	}
	s.RequestMethod = strings.ToUpper(s.RequestMethod)
	return nil
}

// Body returns the compacted request body, or nil when the scenario has
// none.
func (s *Scenario) Body() ([]byte, error) {
	raw := []byte(s.RequestBody)
	if len(raw) == 0 {
		if s.RequestFileName == "" {
			return nil, nil
		}
		var err error
		if raw, err = os.ReadFile(s.resolve(s.RequestFileName)); err != nil {
			return nil, err
		}
	}

	var buf bytes.Buffer
	if err := json.Compact(&buf, raw); err != nil {
		return nil, fmt.Errorf("testkit: %s: request body: %w", s.Name, err)
	}
	return buf.Bytes(), nil
}

// ExpectedBody returns the expected response body, or nil when only the
// status and substrings are checked.
func (s *Scenario) ExpectedBody() ([]byte, error) {
	if s.ResponseFileName == "" {
		return nil, nil
	}
	return os.ReadFile(s.resolve(s.ResponseFileName))
}

func (s *Scenario) resolve(name string) string {
	if filepath.IsAbs(name) {
		return name
	}
	return filepath.Join(s.dir, name)
}
