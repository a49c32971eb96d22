package hash

import (
	"crypto/rand"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
)

// passwordIterations is the SHA256 iteration count for password derivation.
const passwordIterations = 5000

// SHA256Hex returns the hex-encoded SHA256 hash of the input string.
func SHA256Hex(input string) string {
	h := sha256.Sum256([]byte(input))
	return hex.EncodeToString(h[:])
}

// IteratedSHA256 applies SHA256 iteratively n times to produce a derived hash.
func IteratedSHA256(input string, iterations int) string {
	data := []byte(input)
	for i := 0; i < iterations; i++ {
		h := sha256.Sum256(data)
		data = h[:]
	}
	return hex.EncodeToString(data)
}

// NewSalt returns a random 16-byte hex salt.
func NewSalt() string {
	var b [16]byte
	if _, err := rand.Read(b[:]); err != nil {
		panic(err) // crypto/rand never fails on supported platforms
	}
	return hex.EncodeToString(b[:])
}

// HashPassword derives a storable hash from a password and per-user salt.
func HashPassword(password, salt string) string {
	return IteratedSHA256(salt+password, passwordIterations)
}

// VerifyPassword checks a candidate password against a stored hash in
// constant time.
func VerifyPassword(password, salt, stored string) bool {
	derived := HashPassword(password, salt)
	return subtle.ConstantTimeCompare([]byte(derived), []byte(stored)) == 1
}

// HashIP hashes an IP address with a salt. Logs and abuse records keep only
// the hash, never the raw address.
func HashIP(ip, salt string) string {
	return IteratedSHA256(salt+ip, passwordIterations)
}
