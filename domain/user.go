// Package domain contains core concepts of the chat system.
// This file defines User entities and the normalization rule applied
// to every username and room before comparison or storage.
package domain

import "strings"

// User binds one live connection to a (username, room) pair.
// Username and Room are stored normalized. A User is never mutated in
// place: changing name or room requires a disconnect and a new join.
type User struct {
	ConnID   string `json:"-"`
	Username string `json:"username"`
	Room     string `json:"room"`
}

// Normalize trims surrounding whitespace and case-folds the value.
// Applied to usernames and rooms alike; idempotent.
func Normalize(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
