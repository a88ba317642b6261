// Package testkit drives REST API tests from JSON flow files.
//
// A flow is an ordered list of requests fired against one handler, so later
// steps see the state earlier steps created:
//
//	{
//	  "name": "supply decrements stock",
//	  "steps": [
//	    {"name": "create item", "method": "POST", "url": "/items/create",
//	     "body": {"name": "Hammer", "sku": "HM-100", ...},
//	     "expectedCode": 201},
//	    {"name": "supply", "method": "POST", "url": "/supply/create/hm-100",
//	     "body": {"name": "Acme", "email": "a@acme.io", "phone": "1", "qty_supplied": 3},
//	     "expectedCode": 201,
//	     "response": {"message": "Successfully created the supplier."}, "match": "subset"}
//	  ]
//	}
//
// Steps can capture values from a response ("capture": {"key": "auth_key"})
// and reuse them as {{key}} in later urls, headers and bodies.
//
//	func TestAPI(t *testing.T) {
//	    testkit.RunDir(t, newHandler, "testdata")
//	}
package testkit

import (
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strings"
)

// Flow is one scenario file.
type Flow struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Steps       []Step `json:"steps"`

	dir string
}

// Step is one request and its expectations.
type Step struct {
	Name    string            `json:"name"`
	Method  string            `json:"method"`
	URL     string            `json:"url"`
	Headers map[string]string `json:"headers"`

	// Body is sent as-is; BodyFile is read relative to the flow file.
	Body     json.RawMessage `json:"body"`
	BodyFile string          `json:"bodyFile"`

	ExpectedCode int `json:"expectedCode"`

	// Response is compared against the body; ResponseFile is read relative
	// to the flow file.
	Response     json.RawMessage `json:"response"`
	ResponseFile string          `json:"responseFile"`
	// Match is "exact" (default) or "subset": with subset, objects in the
	// actual body may carry keys the expected body does not name.
	Match string `json:"match"`
	// Ignore lists dotted paths removed from the actual body before
	// comparing, e.g. "item.fields.recorded_at".
	Ignore []string `json:"ignore"`

	// Capture maps a variable name to a dotted path in the response.
	Capture map[string]string `json:"capture"`
}

// LoadFlow reads and validates a flow file.
func LoadFlow(path string) (*Flow, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("testkit: resolve path %q: %w", path, err)
	}

	data, err := os.ReadFile(abs)
	if err != nil {
		return nil, fmt.Errorf("testkit: read %q: %w", abs, err)
	}

	var f Flow
	if err := json.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("testkit: parse %q: %w", abs, err)
	}
	f.dir = filepath.Dir(abs)

	if err := f.validate(); err != nil {
		return nil, fmt.Errorf("testkit: invalid flow %q: %w", abs, err)
	}
	return &f, nil
}

func (f *Flow) validate() error {
	if f.Name == "" {
		return fmt.Errorf("name is required")
	}
	if len(f.Steps) == 0 {
		return fmt.Errorf("at least one step is required")
	}
	for i := range f.Steps {
		s := &f.Steps[i]
		if s.URL == "" {
			return fmt.Errorf("steps[%d].url is required", i)
		}
		if s.ExpectedCode == 0 {
			return fmt.Errorf("steps[%d].expectedCode is required", i)
		}
		if s.Method == "" {
			s.Method = http.MethodGet
		}
		s.Method = strings.ToUpper(s.Method)
		if s.Name == "" {
			s.Name = fmt.Sprintf("%02d %s %s", i+1, s.Method, s.URL)
		}
		switch s.Match {
		case "", "exact", "subset":
		default:
			return fmt.Errorf("steps[%d].match must be exact or subset", i)
		}
	}
	return nil
}

// requestBody returns the raw request body, or nil for none.
func (f *Flow) requestBody(s Step) ([]byte, error) {
	if len(s.Body) > 0 {
		return s.Body, nil
	}
	if s.BodyFile == "" {
		return nil, nil
	}
	return os.ReadFile(f.resolve(s.BodyFile))
}

// expectedBody returns the expected response body, or nil for no check.
func (f *Flow) expectedBody(s Step) ([]byte, error) {
	if len(s.Response) > 0 {
		return s.Response, nil
	}
	if s.ResponseFile == "" {
		return nil, nil
	}
	return os.ReadFile(f.resolve(s.ResponseFile))
}

func (f *Flow) resolve(name string) string {
	if filepath.IsAbs(name) {
		return name
	}
	return filepath.Join(f.dir, name)
}
