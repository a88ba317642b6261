package testkit

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"sort"
	"strings"
	"testing"
)

// Run executes the flow file at path against handler as a subtest.
func Run(t *testing.T, handler http.Handler, path string) {
	t.Helper()

	f, err := LoadFlow(path)
	if err != nil {
		t.Fatalf("%v", err)
	}
	t.Run(f.Name, func(t *testing.T) {
		runFlow(t, handler, f)
	})
}

// RunDir runs every *.json flow in dir. newHandler is called once per flow
// so each flow starts from a fresh store.
func RunDir(t *testing.T, newHandler func(t *testing.T) http.Handler, dir string) {
	t.Helper()

	paths, err := filepath.Glob(filepath.Join(dir, "*.json"))
	if err != nil || len(paths) == 0 {
		t.Fatalf("testkit: no flow files found in %q", dir)
	}
	sort.Strings(paths)

	for _, path := range paths {
		f, err := LoadFlow(path)
		if err != nil {
			t.Errorf("%v", err)
			continue
		}
		t.Run(f.Name, func(t *testing.T) {
			runFlow(t, newHandler(t), f)
		})
	}
}

func runFlow(t *testing.T, handler http.Handler, f *Flow) {
	t.Helper()

	vars := map[string]string{}
	for _, s := range f.Steps {
		if !runStep(t, handler, f, s, vars) {
			// Later steps depend on this one's state.
			return
		}
	}
}

func runStep(t *testing.T, handler http.Handler, f *Flow, s Step, vars map[string]string) bool {
	t.Helper()

	raw, err := f.requestBody(s)
	if err != nil {
		t.Fatalf("[%s] read request body: %v", s.Name, err)
	}

	var body io.Reader
	if raw != nil {
		body = bytes.NewReader([]byte(expand(string(raw), vars)))
	}

	req := httptest.NewRequest(s.Method, expand(s.URL, vars), body)
	req.Header.Set("Accept", "application/json")
	if raw != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	for k, v := range s.Headers {
		req.Header.Set(k, expand(v, vars))
	}

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	ok := AssertStatusCode(t, s, rec.Code, rec.Body.Bytes())

	expected, err := f.expectedBody(s)
	if err != nil {
		t.Fatalf("[%s] read expected response: %v", s.Name, err)
	}
	if expected != nil {
		ok = AssertJSONBody(t, s, []byte(expand(string(expected), vars)), rec.Body.Bytes()) && ok
	}

	if len(s.Capture) > 0 {
		var decoded any
		if err := json.Unmarshal(rec.Body.Bytes(), &decoded); err != nil {
			t.Errorf("[%s] capture: response is not JSON: %v", s.Name, err)
			return false
		}
		for name, path := range s.Capture {
			v, found := lookup(decoded, path)
			if !found {
				t.Errorf("[%s] capture %s: path %q not in response", s.Name, name, path)
				return false
			}
			vars[name] = fmt.Sprint(v)
		}
	}
	return ok
}

// expand replaces {{name}} with captured values.
func expand(s string, vars map[string]string) string {
	if len(vars) == 0 || !strings.Contains(s, "{{") {
		return s
	}
	for k, v := range vars {
		s = strings.ReplaceAll(s, "{{"+k+"}}", v)
	}
	return s
}
