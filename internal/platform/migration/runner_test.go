// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package migration

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestConvertToPgx5DSN(t *testing.T) {
	cases := map[string]string{
		"postgres://u:p@db:5432/yamdb":   "pgx5://u:p@db:5432/yamdb",
		"postgresql://u:p@db:5432/yamdb": "pgx5://u:p@db:5432/yamdb",
		"pgx5://u:p@db:5432/yamdb":       "pgx5://u:p@db:5432/yamdb",
		"host=db user=u":                 "host=db user=u",
	}

	for input, want := range cases {
		assert.Equal(t, want, convertToPgx5DSN(input), input)
	}
}
