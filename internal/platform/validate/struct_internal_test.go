// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package validate

import (
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
)

/*
TestMustRegister panics on a rejected tag and accepts a well formed one.
*/
func TestMustRegister(t *testing.T) {
	always := func(validator.FieldLevel) bool { return true }

	assert.Panics(t, func() { mustRegister(validator.New(), "", always) })
	assert.NotPanics(t, func() { mustRegister(validator.New(), "always", always) })
}

/*
TestNewStructValidator_CustomTags resolves every custom tag.
*/
func TestNewStructValidator_CustomTags(t *testing.T) {
	engine := newStructValidator()

	assert.NoError(t, engine.Var("sci-fi", "slug"))
	assert.Error(t, engine.Var("sci fi", "slug"))
	assert.NoError(t, engine.Var("reader.one", "username"))
	assert.Error(t, engine.Var("reader one", "username"))
	assert.NoError(t, engine.Var(1972, "year"))
	assert.Error(t, engine.Var(1800, "year"))
}
