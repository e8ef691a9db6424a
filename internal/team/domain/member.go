// Package domain holds the identity and role model shared by every
// bounded context: who a user is, which partition they belong to and
// the counters kept per team member.
package domain

import (
	"strings"
	"unicode/utf8"
)

// Role partitions the roster and drives every permission decision.
type Role string

const (
	RoleSales   Role = "sales"
	RoleDealers Role = "dealers"
	RoleAdmin   Role = "admin"
)

// Roles lists the partitions in display order.
var Roles = []Role{RoleSales, RoleDealers, RoleAdmin}

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	switch r {
	case RoleSales, RoleDealers, RoleAdmin:
		return true
	}
	return false
}

// ParseRole converts user input into a Role.
func ParseRole(value string) (Role, bool) {
	r := Role(strings.ToLower(strings.TrimSpace(value)))
	return r, r.Valid()
}

// User is an authenticated person.
type User struct {
	ID           int64
	Username     string
	PasswordHash string
	FirstName    string
	LastName     string
	Avatar       string
	Role         Role
	Email        string
	Phone        string
}

// FullName is the identity a lead's assignedTo field refers to.
func (u User) FullName() string {
	return u.FirstName + " " + u.LastName
}

// Stats are the per-member counters shown on the team and analytics pages.
type Stats struct {
	Leads     int `json:"leads" yaml:"leads"`
	Contacted int `json:"contacted" yaml:"contacted"`
	Converted int `json:"converted" yaml:"converted"`
}

// Add returns s plus delta.
func (s Stats) Add(delta Stats) Stats {
	return Stats{
		Leads:     s.Leads + delta.Leads,
		Contacted: s.Contacted + delta.Contacted,
		Converted: s.Converted + delta.Converted,
	}
}

// Member is a User on the roster.
type Member struct {
	User
	Stats Stats
}

// Avatar derives the two-letter avatar from the first rune of each name.
func Avatar(firstName, lastName string) string {
	return firstRune(firstName) + firstRune(lastName)
}

func firstRune(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return ""
	}
	r, _ := utf8.DecodeRuneInString(s)
	return string(r)
}
