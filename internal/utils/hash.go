package utils

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"hash"
	"sync"
)

// HashHeader carries the hex HMAC-SHA256 of a request body.
const HashHeader = "HashSHA256"

// Hasher computes keyed HMAC-SHA256 digests. Hash instances are pooled per
// Hasher, so hashers with different keys never share state.
type Hasher struct {
	pool sync.Pool
}

// NewHasher returns a Hasher for hashKey, or nil when hashKey is empty.
// A nil *Hasher is valid and disables hashing.
func NewHasher(hashKey string) *Hasher {
	if hashKey == "" {
		return nil
	}

	key := []byte(hashKey)
	return &Hasher{
		pool: sync.Pool{
			New: func() any {
				return hmac.New(sha256.New, key)
			},
		},
	}
}

// Sum returns the hex-encoded HMAC-SHA256 of data.
func (h *Hasher) Sum(data []byte) string {
	if h == nil {
		return ""
	}

	hasher := h.pool.Get().(hash.Hash)
	hasher.Reset()
	hasher.Write(data)
	sum := hasher.Sum(nil)
	hasher.Reset()
	h.pool.Put(hasher)

	return hex.EncodeToString(sum)
}

// Verify reports whether signature is the hex HMAC of data. A nil Hasher
// accepts everything.
func (h *Hasher) Verify(data []byte, signature string) bool {
	if h == nil {
		return true
	}

	expected, err := hex.DecodeString(signature)
	if err != nil {
		return false
	}
	actual, _ := hex.DecodeString(h.Sum(data))

	return hmac.Equal(expected, actual)
}

// HashString computes an HMAC-SHA256 signature over the given string
// using the provided hash key and returns the result as a hex-encoded string.
func HashString(data string, hashKey string) string {
	hasher := hmac.New(sha256.New, []byte(hashKey))
	hasher.Write([]byte(data))
	return hex.EncodeToString(hasher.Sum(nil))
}
