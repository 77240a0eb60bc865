package upload

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestSigner_RoundTrip(t *testing.T) {
	s := NewSigner("secret", time.Minute)

	expires, sig := s.Sign("2024/01/01/abc.jpg")
	assert.NoError(t, s.Verify("2024/01/01/abc.jpg", expires, sig))
}

func TestSigner_RejectsTamperedPath(t *testing.T) {
	s := NewSigner("secret", time.Minute)

	expires, sig := s.Sign("2024/01/01/abc.jpg")
	assert.ErrorIs(t, s.Verify("2024/01/01/other.jpg", expires, sig), ErrBadSignature)
}

func TestSigner_RejectsExtendedExpiry(t *testing.T) {
	s := NewSigner("secret", time.Minute)

	expires, sig := s.Sign("2024/01/01/abc.jpg")
	assert.ErrorIs(t, s.Verify("2024/01/01/abc.jpg", expires+3600, sig), ErrBadSignature)
}

func TestSigner_RejectsExpired(t *testing.T) {
	s := NewSigner("secret", -time.Minute)

	expires, sig := s.Sign("2024/01/01/abc.jpg")
	assert.ErrorIs(t, s.Verify("2024/01/01/abc.jpg", expires, sig), ErrBadSignature)
}

func TestSigner_RejectsWrongKey(t *testing.T) {
	a := NewSigner("secret-a", time.Minute)
	b := NewSigner("secret-b", time.Minute)

	expires, sig := a.Sign("2024/01/01/abc.jpg")
	assert.ErrorIs(t, b.Verify("2024/01/01/abc.jpg", expires, sig), ErrBadSignature)
}

func TestSigner_VerifyParams(t *testing.T) {
	s := NewSigner("secret", time.Minute)

	assert.ErrorIs(t, s.VerifyParams("p", "not-a-number", "sig"), ErrBadSignature)
}
