package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGenerateSlug(t *testing.T) {
	cases := map[string]string{
		"Breakfast":           "breakfast",
		"Quick & Easy Meals":  "quick-easy-meals",
		"  spaced   out  ":    "spaced-out",
		"Déjà vu":             "dj-vu",
		"---already-sluggy--": "already-sluggy",
	}
	for in, want := range cases {
		assert.Equal(t, want, GenerateSlug(in), in)
	}
}
