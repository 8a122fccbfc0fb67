package phase

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	p, err := Parse(" Active ")
	require.NoError(t, err)
	assert.Equal(t, Active, p)

	p, err = Parse("passive")
	require.NoError(t, err)
	assert.Equal(t, Passive, p)

	_, err = Parse("frozen")
	assert.Error(t, err)
}

func TestAllows(t *testing.T) {
	tests := []struct {
		path  string
		phase Phase
		want  bool
	}{
		{"/api/auth/login", Passive, true},
		{"/api/auth/register", Passive, true},
		{"/api/system/phase", Passive, true},
		{"/docs", Passive, true},
		{"/openapi.json", Passive, true},
		{"/api/health", Passive, true},
		{"/api/users/profile", Passive, true},
		{"/api/users/gallery", Passive, false},
		{"/api/notes", Passive, false},
		{"/api/notes/received", Passive, false},
		{"/api/notes/abc/read", Passive, false},
		{"/api/users/gallery/extra/nested", Passive, false},
		{"/something/notes-archive", Passive, false},
		{"/api/users/gallery", Active, true},
		{"/api/notes/received", Active, true},
	}

	for _, tc := range tests {
		t.Run(string(tc.phase)+tc.path, func(t *testing.T) {
			assert.Equal(t, tc.want, Allows(tc.path, tc.phase))
		})
	}
}
