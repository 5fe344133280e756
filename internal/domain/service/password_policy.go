package service

import (
	"fmt"
	"strings"
	"unicode"
)

// PasswordPolicy holds the configurable strength rules for passwords.
// The zero value is not useful; use DefaultPasswordPolicy or build one from
// configuration.
type PasswordPolicy struct {
	MinLength         int
	RequireUppercase  bool
	RequireLowercase  bool
	RequireDigit      bool
	RequireSpecial    bool
	SpecialCharacters string
}

// DefaultPasswordPolicy returns the baseline policy: 12 characters minimum
// with all four character classes required.
func DefaultPasswordPolicy() PasswordPolicy {
	return PasswordPolicy{
		MinLength:         12,
		RequireUppercase:  true,
		RequireLowercase:  true,
		RequireDigit:      true,
		RequireSpecial:    true,
		SpecialCharacters: "!@#$%^&*()_+-=[]{}|;:,.<>?",
	}
}

// Validate reports every violated rule, not just the first.
func (p PasswordPolicy) Validate(password string) []string {
	var violations []string

	if len(password) < p.MinLength {
		violations = append(violations,
			fmt.Sprintf("password must be at least %d characters long", p.MinLength))
	}
	if p.RequireUppercase && !strings.ContainsFunc(password, unicode.IsUpper) {
		violations = append(violations, "password must contain at least one uppercase letter")
	}
	if p.RequireLowercase && !strings.ContainsFunc(password, unicode.IsLower) {
		violations = append(violations, "password must contain at least one lowercase letter")
	}
	if p.RequireDigit && !strings.ContainsFunc(password, unicode.IsDigit) {
		violations = append(violations, "password must contain at least one digit")
	}
	if p.RequireSpecial && !strings.ContainsAny(password, p.SpecialCharacters) {
		violations = append(violations, "password must contain at least one special character")
	}

	return violations
}

func (p PasswordPolicy) IsValid(password string) bool {
	return len(p.Validate(password)) == 0
}
