package auth

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"errors"
	"math/big"
)

// ErrInvalidToken is returned by verifiers when a bearer token is rejected.
var ErrInvalidToken = errors.New("invalid token")

// StaticTokenSubject is the subject assigned to callers holding the shared API token.
const StaticTokenSubject = "api-token"

// StaticTokenVerifier accepts exactly one shared API token.
type StaticTokenVerifier struct {
	hash string
}

// NewStaticTokenVerifier returns a verifier for token. Only its hash is kept.
func NewStaticTokenVerifier(token string) *StaticTokenVerifier {
	return &StaticTokenVerifier{hash: HashToken(token)}
}

// Verify compares the hashes of token and the configured token in constant time.
func (v *StaticTokenVerifier) Verify(_ context.Context, token string) (string, error) {
	if subtle.ConstantTimeCompare([]byte(HashToken(token)), []byte(v.hash)) != 1 {
		return "", ErrInvalidToken
	}
	return StaticTokenSubject, nil
}

// GenerateToken creates a new API token with the "bk_" prefix.
// Plaintext = "bk_" + base62-encoded 32 cryptographically random bytes.
func GenerateToken() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}

	const alphabet = "0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz"
	encoded := make([]byte, 0, 44)
	n := new(big.Int).SetBytes(b)
	base := big.NewInt(62)
	mod := new(big.Int)
	for n.Sign() > 0 {
		n.DivMod(n, base, mod)
		encoded = append(encoded, alphabet[mod.Int64()])
	}
	// Reverse to get most-significant digit first.
	for i, j := 0, len(encoded)-1; i < j; i, j = i+1, j-1 {
		encoded[i], encoded[j] = encoded[j], encoded[i]
	}

	return "bk_" + string(encoded), nil
}

// HashToken returns the hex-encoded SHA-256 hash of a plaintext token.
func HashToken(plaintext string) string {
	h := sha256.Sum256([]byte(plaintext))
	return hex.EncodeToString(h[:])
}
