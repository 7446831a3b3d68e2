package models

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestUniqueTags(t *testing.T) {
	require.Equal(t,
		[]string{"go", "cache", "http"},
		UniqueTags([]string{"go", "cache", "go", "http", "cache"}))
	require.Empty(t, UniqueTags(nil))
}

func TestIdentity_DisplayName(t *testing.T) {
	require.Equal(t, "Ada", Identity{Name: "Ada", Email: "a@b.c"}.DisplayName())
	require.Equal(t, "a@b.c", Identity{Email: "a@b.c"}.DisplayName())
}
