// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package query_test

import (
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/taibuivan/yamdb/pkg/query"
)

func TestContains(t *testing.T) {
	assert.Equal(t, "%dune%", query.Contains("dune"))
	assert.Equal(t, `%100\%\_off\\%`, query.Contains(`100%_off\`))
}

func TestTrimmed(t *testing.T) {
	values := url.Values{"name": {"  Dune "}, "year": {"  "}}

	name, ok := query.Trimmed(values, "name")
	assert.True(t, ok)
	assert.Equal(t, "Dune", name)

	_, ok = query.Trimmed(values, "year")
	assert.False(t, ok)

	_, ok = query.Trimmed(values, "genre")
	assert.False(t, ok)
}
