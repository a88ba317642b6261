package slug_test

import (
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/shashiranjanraj/stockpile/pkg/slug"
)

func TestMake(t *testing.T) {
	cases := map[string]string{
		"Hand Tools":             "hand-tools",
		"HM-100":                 "hm-100",
		"  Café  au lait ":       "cafe-au-lait",
		"Power & Garden--Tools":  "power-garden-tools",
		"___":                    "",
		"":                       "",
		"Crème Brûlée 2":         "creme-brulee-2",
		"already-a-slug":         "already-a-slug",
		"-leading and trailing-": "leading-and-trailing",
	}

	for in, want := range cases {
		assert.Equal(t, want, slug.Make(in), "input %q", in)
	}
}

func TestMakeIsIdempotent(t *testing.T) {
	inputs := []string{"Hand Tools", "HM-100", "Ünïcödé  Wörds!!", "x", " - ", "A_B_C"}
	for _, in := range inputs {
		once := slug.Make(in)
		assert.Equal(t, once, slug.Make(once), "input %q", in)
	}
}

func TestMakeOutputAlphabet(t *testing.T) {
	valid := regexp.MustCompile(`^([a-z0-9]+(-[a-z0-9]+)*)?$`)
	inputs := []string{"Tab\tSeparated", "new\nline", "emoji 🚀 rocket", "100% Cotton", "--x--"}
	for _, in := range inputs {
		assert.Regexp(t, valid, slug.Make(in), "input %q", in)
	}
}
