package utils

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestNewSessionToken(t *testing.T) {
	tok := NewSessionToken(24 * time.Hour)
	require.NotEmpty(t, tok.Raw)
	require.True(t, tok.Exp.After(time.Now().UTC().Add(23*time.Hour)))

	other := NewSessionToken(24 * time.Hour)
	require.NotEqual(t, tok.Raw, other.Raw)
}

func TestHashToken(t *testing.T) {
	h := HashToken("abc")
	require.Len(t, h, 64) // sha256 hex
	require.Equal(t, h, HashToken("abc"))
	require.NotEqual(t, h, HashToken("abd"))
}
