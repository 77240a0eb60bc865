package upload

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"strconv"
	"time"
)

var ErrBadSignature = errors.New("invalid or expired signature")

// Signer mints expiring HMAC signatures for private file paths. The
// signature covers the path and the expiry, so neither can be swapped.
type Signer struct {
	key []byte
	ttl time.Duration
}

func NewSigner(key string, ttl time.Duration) *Signer {
	return &Signer{key: []byte(key), ttl: ttl}
}

// Sign returns query parameters granting access to path until the TTL runs out.
func (s *Signer) Sign(path string) (expires int64, sig string) {
	expires = time.Now().Add(s.ttl).Unix()
	return expires, s.mac(path, expires)
}

// Verify checks a signature produced by Sign.
func (s *Signer) Verify(path string, expires int64, sig string) error {
	if time.Now().Unix() > expires {
		return ErrBadSignature
	}
	want := s.mac(path, expires)
	if !hmac.Equal([]byte(want), []byte(sig)) {
		return ErrBadSignature
	}
	return nil
}

// VerifyParams is Verify with the raw query string values.
func (s *Signer) VerifyParams(path, expiresStr, sig string) error {
	expires, err := strconv.ParseInt(expiresStr, 10, 64)
	if err != nil {
		return ErrBadSignature
	}
	return s.Verify(path, expires, sig)
}

func (s *Signer) mac(path string, expires int64) string {
	h := hmac.New(sha256.New, s.key)
	fmt.Fprintf(h, "%s\n%d", path, expires)
	return hex.EncodeToString(h.Sum(nil))
}
