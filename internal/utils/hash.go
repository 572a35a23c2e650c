package utils

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"hash"
	"sync"
)

// Hasher computes keyed HMAC-SHA256 digests with a pool of reusable hash
// instances. A Hasher with an empty key is disabled: it produces empty
// digests and accepts any digest.
type Hasher struct {
	key  []byte
	pool sync.Pool
}

// NewHasher returns a Hasher keyed with hashKey.
func NewHasher(hashKey string) *Hasher {
	h := &Hasher{key: []byte(hashKey)}
	h.pool.New = func() any {
		return hmac.New(sha256.New, h.key)
	}
	return h
}

// Enabled reports whether a key is configured.
func (h *Hasher) Enabled() bool {
	return h != nil && len(h.key) > 0
}

// Hash returns the raw HMAC-SHA256 digest of data, or nil when disabled.
func (h *Hasher) Hash(data []byte) []byte {
	if !h.Enabled() {
		return nil
	}

	mac := h.pool.Get().(hash.Hash)
	mac.Reset()

	mac.Write(data)
	sum := mac.Sum(nil)

	mac.Reset()
	h.pool.Put(mac)

	return sum
}

// HashJSON returns the hex digest of the JSON encoding of v. It returns an
// empty string when the Hasher is disabled or v cannot be encoded.
func (h *Hasher) HashJSON(v any) string {
	if !h.Enabled() {
		return ""
	}

	payload, err := json.Marshal(v)
	if err != nil {
		return ""
	}
	return hex.EncodeToString(h.Hash(payload))
}

// VerifyJSON reports whether digest is the hex digest of v. A disabled
// Hasher accepts everything.
func (h *Hasher) VerifyJSON(v any, digest string) bool {
	if !h.Enabled() {
		return true
	}

	want, err := hex.DecodeString(digest)
	if err != nil {
		return false
	}
	payload, err := json.Marshal(v)
	if err != nil {
		return false
	}
	return hmac.Equal(h.Hash(payload), want)
}

// HashString computes a one-off hex HMAC-SHA256 digest of data.
func HashString(data string, hashKey string) string {
	mac := hmac.New(sha256.New, []byte(hashKey))
	mac.Write([]byte(data))
	return hex.EncodeToString(mac.Sum(nil))
}
