package main

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseID(t *testing.T) {
	want := uuid.New()
	id, ok := parseID("donation id", want.String())
	require.True(t, ok)
	assert.Equal(t, want, id)
}

func TestParseID_Malformed(t *testing.T) {
	// Malformed command-line ids must report, not panic.
	assert.NotPanics(t, func() {
		id, ok := parseID("donation id", "not-a-uuid")
		assert.False(t, ok)
		assert.Equal(t, uuid.Nil, id)
	})
}
