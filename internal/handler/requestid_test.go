package handler

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/VladmirB/sigmah/internal/command"
)

func TestFingerprint(t *testing.T) {
	a := command.ForActivity(7)
	a.Filter = "lieu:goma"
	b := command.ForActivity(7)
	b.Filter = "lieu:goma"

	fa, err := Fingerprint(a)
	require.NoError(t, err)
	fb, err := Fingerprint(b)
	require.NoError(t, err)
	assert.Equal(t, fa, fb)
	assert.Len(t, fa, 16)

	b.Limit = 10
	fb, err = Fingerprint(b)
	require.NoError(t, err)
	assert.NotEqual(t, fa, fb)
}

func TestUUIDv7Generator(t *testing.T) {
	id := UUIDv7Generator{}.Generate()
	parsed, err := uuid.Parse(id)
	require.NoError(t, err)
	assert.Equal(t, uuid.Version(7), parsed.Version())
}
