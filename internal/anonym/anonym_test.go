package anonym

import (
	"regexp"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

var pseudonymPattern = regexp.MustCompile(`^anonym_\d{6}$`)

func TestDeriveFormatAndDeterminism(t *testing.T) {
	for range 50 {
		sender, receiver := uuid.NewString(), uuid.NewString()
		got := Derive(sender, receiver)
		assert.Regexp(t, pseudonymPattern, got)
		assert.Equal(t, got, Derive(sender, receiver))
	}
}

func TestDeriveKnownValues(t *testing.T) {
	// FNV-1a-32("a_b") = 0x1ba46871 = 463759473.
	assert.Equal(t, "anonym_759473", Derive("a", "b"))
	// FNV-1a-32("_") = 0xda0c196e = 3658226030.
	assert.Equal(t, "anonym_226030", Derive("", ""))
	// FNV-1a-32("u82_v") = 0x402279df = 1076001247, zero padded.
	assert.Equal(t, "anonym_001247", Derive("u82", "v"))
}

func TestDeriveIsOrderSensitive(t *testing.T) {
	differing := 0
	for range 50 {
		a, b := uuid.NewString(), uuid.NewString()
		if Derive(a, b) != Derive(b, a) {
			differing++
		}
	}
	// Collisions mod 1e6 are possible but should be rare.
	assert.GreaterOrEqual(t, differing, 48)
}
