// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package query holds helpers for turning list query parameters into SQL arguments.
package query

import "strings"

// likeEscaper escapes the LIKE metacharacters of PostgreSQL's default escape syntax.
var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// Contains returns an ILIKE pattern matching values that contain term literally.
func Contains(term string) string {
	return "%" + likeEscaper.Replace(term) + "%"
}

// Trimmed returns the trimmed value of key, and whether it is non-empty.
func Trimmed(values map[string][]string, key string) (string, bool) {
	list, ok := values[key]
	if !ok || len(list) == 0 {
		return "", false
	}
	value := strings.TrimSpace(list[0])
	return value, value != ""
}
