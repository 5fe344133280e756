package entity

import (
	"fmt"
	"regexp"
	"strings"
)

var emailPattern = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)

// Email is an immutable value object. Construct it through NewEmail so an
// invalid address can never enter the domain.
type Email struct {
	value string
}

func NewEmail(raw string) (Email, error) {
	raw = strings.TrimSpace(raw)
	if !emailPattern.MatchString(raw) {
		return Email{}, fmt.Errorf("invalid email format: %q", raw)
	}
	return Email{value: raw}, nil
}

func (e Email) String() string { return e.value }

func (e Email) IsZero() bool { return e.value == "" }

// LocalPart returns everything before the @.
func (e Email) LocalPart() string {
	return e.value[:strings.LastIndex(e.value, "@")]
}

// Domain returns everything after the @.
func (e Email) Domain() string {
	return e.value[strings.LastIndex(e.value, "@")+1:]
}
