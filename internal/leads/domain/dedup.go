package domain

import "strings"

// DuplicateCriteria describes the match conditions for finding an existing
// lead before creating a new one. Matching is email OR name+phone; a
// condition only participates when its fields are non-blank.
type DuplicateCriteria struct {
	Email string
	Name  string
	Phone string
}

// MatchByEmail reports whether the email condition applies.
func (c DuplicateCriteria) MatchByEmail() bool {
	return strings.TrimSpace(c.Email) != ""
}

// MatchByNamePhone reports whether the name+phone condition applies.
// Both fields must be present; name alone would collapse distinct people
// with the same name into one lead.
func (c DuplicateCriteria) MatchByNamePhone() bool {
	return strings.TrimSpace(c.Name) != "" && strings.TrimSpace(c.Phone) != ""
}

// HasConditions reports whether any match condition applies. When false the
// duplicate search must be skipped entirely rather than matching everything.
func (c DuplicateCriteria) HasConditions() bool {
	return c.MatchByEmail() || c.MatchByNamePhone()
}
