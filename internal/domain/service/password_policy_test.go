package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDefaultPasswordPolicyAcceptsStrongPassword(t *testing.T) {
	p := DefaultPasswordPolicy()
	assert.Empty(t, p.Validate("Str0ng&Secure!"))
	assert.True(t, p.IsValid("Str0ng&Secure!"))
}

func TestValidateReportsAllViolations(t *testing.T) {
	p := DefaultPasswordPolicy()

	// Short, no uppercase, no digit, no special: four violations at once.
	violations := p.Validate("abc")
	assert.Len(t, violations, 4)

	// Short only.
	violations = p.Validate("Sh0rt!")
	assert.Len(t, violations, 1)
	assert.Contains(t, violations[0], "at least 12 characters")
}

func TestValidateIndividualRules(t *testing.T) {
	p := DefaultPasswordPolicy()

	cases := []struct {
		name     string
		password string
		want     string
	}{
		{"missing uppercase", "lowercase0nly!!!", "uppercase"},
		{"missing lowercase", "UPPERCASE0NLY!!!", "lowercase"},
		{"missing digit", "NoDigitsHere!!!!", "digit"},
		{"missing special", "NoSpecials12345A", "special"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			violations := p.Validate(tc.password)
			assert.Len(t, violations, 1)
			assert.Contains(t, violations[0], tc.want)
		})
	}
}

func TestRelaxedPolicy(t *testing.T) {
	p := PasswordPolicy{MinLength: 8}
	assert.Empty(t, p.Validate("aaaaaaaa"))
	assert.NotEmpty(t, p.Validate("short"))
}
