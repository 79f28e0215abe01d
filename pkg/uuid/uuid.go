// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package uuid generates the time-ordered identifiers used for request
correlation.

Version 7 values sort by creation time, so log lines of consecutive requests
stay ordered when grepped by ID.
*/
package uuid

import "github.com/google/uuid"

// New generates a UUIDv7 string, falling back to a random v4 if the
// clock-based generator fails.
func New() string {
	id, err := uuid.NewV7()
	if err != nil {
		return uuid.NewString()
	}
	return id.String()
}

// Valid reports whether value parses as a UUID.
func Valid(value string) bool {
	return uuid.Validate(value) == nil
}
