// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package validate_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/yamdb/internal/platform/apperr"
	"github.com/taibuivan/yamdb/internal/platform/validate"
)

/*
TestValidator_Required tests the mandatory field validation logic.
*/
func TestValidator_Required(t *testing.T) {
	tests := []struct {
		name     string
		field    string
		value    string
		hasError bool
	}{
		{"valid_string", "name", "yamdb", false},
		{"empty_string", "name", "", true},
		{"whitespace_only", "name", "   ", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := &validate.Validator{}
			v.Required(tt.field, tt.value)

			if tt.hasError {
				assert.True(t, v.HasErrors())
				err := v.Err()
				require.NotNil(t, err)

				ae := apperr.As(err)
				require.NotNil(t, ae)
				assert.Equal(t, "VALIDATION_ERROR", ae.Code)
				assert.Equal(t, tt.field, ae.Details[0].Field)
			} else {
				assert.False(t, v.HasErrors())
				assert.Nil(t, v.Err())
			}
		})
	}
}

/*
TestValidator_Email checks the email format validation rule.
*/
func TestValidator_Email(t *testing.T) {
	tests := []struct {
		name    string
		email   string
		isValid bool
	}{
		{"valid_email", "test@example.com", true},
		{"invalid_format", "invalid-email", false},
		{"missing_domain", "test@", false},
		{"empty", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := &validate.Validator{}
			v.Email("email", tt.email)

			if tt.isValid {
				assert.False(t, v.HasErrors())
			} else {
				assert.True(t, v.HasErrors())
			}
		})
	}
}

/*
TestValidator_Chain tests the fluent API (chaining multiple rules).
*/
func TestValidator_Chain(t *testing.T) {
	v := &validate.Validator{}

	// Multi-rule validation
	err := v.
		Required("username", "tai").
		MinLen("username", "tai", 3).
		MaxLen("username", "tai", 10).
		Email("email", "tai@yamdb.local").
		Err()

	assert.NoError(t, err)
	assert.False(t, v.HasErrors())
}

/*
TestValidator_Chain_Failure tests error accumulation in the chain.
*/
func TestValidator_Chain_Failure(t *testing.T) {
	v := &validate.Validator{}

	err := v.
		Required("username", "").       // Fails
		MinLen("username", "a", 5).     // Fails
		Email("email", "not-an-email"). // Fails
		Err()

	require.Error(t, err)
	ae := apperr.As(err)
	require.NotNil(t, ae)

	// Should accumulate all 3 errors
	assert.Len(t, ae.Details, 3)
}

/*
TestValidator_Year covers the accepted release year window.
*/
func TestValidator_Year(t *testing.T) {
	currentYear := time.Now().Year()

	tests := []struct {
		name    string
		year    int
		isValid bool
	}{
		{"lower_bound", 1900, true},
		{"current_year", currentYear, true},
		{"before_lower_bound", 1899, false},
		{"next_year", currentYear + 1, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := &validate.Validator{}
			v.Year("year", tt.year)
			assert.Equal(t, !tt.isValid, v.HasErrors())
		})
	}
}

/*
TestValidator_Slug checks the slug character set.
*/
func TestValidator_Slug(t *testing.T) {
	assert.False(t, (&validate.Validator{}).Slug("slug", "sci-fi_2").HasErrors())
	assert.True(t, (&validate.Validator{}).Slug("slug", "sci fi").HasErrors())
	assert.True(t, (&validate.Validator{}).Slug("slug", "").HasErrors())
}

type samplePayload struct {
	Email string  `json:"email" validate:"required,email"`
	Slug  string  `json:"slug" validate:"omitempty,slug,max=50"`
	Year  *int    `json:"year" validate:"omitempty,year"`
	Score *int    `json:"score" validate:"omitempty,gte=1,lte=10"`
	Role  *string `json:"role" validate:"omitempty,oneof=user moderator admin"`
}

/*
TestStruct_ReportsJSONFieldNames ensures tag failures carry the JSON field name.
*/
func TestStruct_ReportsJSONFieldNames(t *testing.T) {
	year := 1800
	score := 11
	role := "root"

	err := validate.Struct(&samplePayload{
		Email: "broken",
		Slug:  "bad slug",
		Year:  &year,
		Score: &score,
		Role:  &role,
	})
	require.Error(t, err)

	ae := apperr.As(err)
	require.NotNil(t, ae)
	assert.Equal(t, "VALIDATION_ERROR", ae.Code)

	fields := make(map[string]string)
	for _, detail := range ae.Details {
		fields[detail.Field] = detail.Message
	}

	assert.Equal(t, "Must be a valid email address", fields["email"])
	assert.Contains(t, fields, "slug")
	assert.Equal(t, "1800 is not a correct year!", fields["year"])
	assert.Contains(t, fields["score"], "10")
	assert.Contains(t, fields["role"], "moderator")
}

/*
TestStruct_Valid passes a well-formed payload.
*/
func TestStruct_Valid(t *testing.T) {
	year := 2000
	assert.NoError(t, validate.Struct(&samplePayload{Email: "a@x.com", Slug: "drama", Year: &year}))
	assert.NoError(t, validate.Struct(&samplePayload{Email: "a@x.com"}))
}
