package entity

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewEmail(t *testing.T) {
	valid := []string{
		"alice@example.com",
		"a.b+tag@sub.domain.co",
		"USER_9%x@host.io",
	}
	for _, raw := range valid {
		e, err := NewEmail(raw)
		require.NoError(t, err, raw)
		assert.Equal(t, raw, e.String())
		assert.False(t, e.IsZero())
	}

	invalid := []string{
		"",
		"plainaddress",
		"@missing-local.com",
		"missing-domain@",
		"two@@example.com",
		"no-tld@host",
	}
	for _, raw := range invalid {
		_, err := NewEmail(raw)
		assert.Error(t, err, raw)
	}
}

func TestNewEmailTrimsWhitespace(t *testing.T) {
	e, err := NewEmail("  alice@example.com  ")
	require.NoError(t, err)
	assert.Equal(t, "alice@example.com", e.String())
}

func TestEmailParts(t *testing.T) {
	e, err := NewEmail("alice@example.com")
	require.NoError(t, err)
	assert.Equal(t, "alice", e.LocalPart())
	assert.Equal(t, "example.com", e.Domain())
}

func TestEmailZeroValue(t *testing.T) {
	var e Email
	assert.True(t, e.IsZero())
	assert.Empty(t, e.String())
}
