package testkit

import (
	"encoding/json"
	"strconv"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// AssertStatusCode checks the response code; the body is printed on mismatch.
func AssertStatusCode(t *testing.T, s Step, got int, body []byte) bool {
	t.Helper()
	return assert.Equal(t, s.ExpectedCode, got,
		"[%s] HTTP status code mismatch\nbody: %s", s.Name, string(body))
}

// AssertJSONBody compares actual against expected after decoding both, so key
// order and whitespace never matter. Ignored paths are dropped from actual
// first; subset matching prunes actual objects to the keys expected names.
func AssertJSONBody(t *testing.T, s Step, expected, actual []byte) bool {
	t.Helper()

	var expVal, actVal any
	require.NoError(t, json.Unmarshal(expected, &expVal),
		"[%s] expected response is not valid JSON", s.Name)

	if !assert.NoError(t, json.Unmarshal(actual, &actVal),
		"[%s] actual response is not valid JSON\nbody: %s", s.Name, string(actual)) {
		return false
	}

	for _, p := range s.Ignore {
		remove(actVal, strings.Split(p, "."))
	}
	if s.Match == "subset" {
		actVal = prune(expVal, actVal)
	}

	return assert.Equal(t, expVal, actVal, "[%s] response body mismatch", s.Name)
}

// prune keeps only the parts of actual that expected describes. Arrays are
// pruned element-wise and keep their length.
func prune(expected, actual any) any {
	switch exp := expected.(type) {
	case map[string]any:
		act, ok := actual.(map[string]any)
		if !ok {
			return actual
		}
		out := make(map[string]any, len(exp))
		for k, ev := range exp {
			if av, ok := act[k]; ok {
				out[k] = prune(ev, av)
			}
		}
		return out
	case []any:
		act, ok := actual.([]any)
		if !ok {
			return actual
		}
		out := make([]any, len(act))
		for i := range act {
			if i < len(exp) {
				out[i] = prune(exp[i], act[i])
			} else {
				out[i] = act[i]
			}
		}
		return out
	default:
		return actual
	}
}

// remove deletes the value at path. Numeric segments index arrays; "*" walks
// every element.
func remove(v any, path []string) {
	if len(path) == 0 {
		return
	}
	head, rest := path[0], path[1:]

	switch n := v.(type) {
	case map[string]any:
		if len(rest) == 0 {
			delete(n, head)
			return
		}
		remove(n[head], rest)
	case []any:
		if head == "*" {
			for _, el := range n {
				remove(el, rest)
			}
			return
		}
		if i, err := strconv.Atoi(head); err == nil && i >= 0 && i < len(n) {
			remove(n[i], rest)
		}
	}
}

// lookup returns the value at a dotted path.
func lookup(v any, path string) (any, bool) {
	cur := v
	for _, seg := range strings.Split(path, ".") {
		switch n := cur.(type) {
		case map[string]any:
			next, ok := n[seg]
			if !ok {
				return nil, false
			}
			cur = next
		case []any:
			i, err := strconv.Atoi(seg)
			if err != nil || i < 0 || i >= len(n) {
				return nil, false
			}
			cur = n[i]
		default:
			return nil, false
		}
	}
	return cur, true
}
