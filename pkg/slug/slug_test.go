// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package slug_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/taibuivan/yamdb/pkg/slug"
)

func TestFrom(t *testing.T) {
	cases := map[string]string{
		"Science Fiction":   "science-fiction",
		"  Film Noir!! ":    "film-noir",
		"Café Crème":        "cafe-creme",
		"rock_n_roll":       "rock_n_roll",
		"Драма":             "",
		"Sci--Fi // Horror": "sci-fi-horror",
	}

	for input, want := range cases {
		assert.Equal(t, want, slug.From(input), input)
	}
}

func TestFromMax(t *testing.T) {
	assert.Equal(t, "the-lord", slug.FromMax("The Lord of the Rings", 9))
	assert.Equal(t, "short", slug.FromMax("Short", 50))
}
