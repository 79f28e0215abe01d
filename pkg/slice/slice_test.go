// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package slice_test

import (
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/taibuivan/yamdb/pkg/slice"
)

func TestMap(t *testing.T) {
	assert.Equal(t, []string{"1", "2"}, slice.Map([]int{1, 2}, strconv.Itoa))
	assert.Equal(t, []string{}, slice.Map[int](nil, strconv.Itoa))
}

func TestUnique(t *testing.T) {
	assert.Equal(t, []string{"drama", "sci-fi"}, slice.Unique([]string{"drama", "sci-fi", "drama"}))
	assert.Empty(t, slice.Unique[string](nil))
}
