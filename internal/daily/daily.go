package daily

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/binary"
	"time"
)

// DateLayout is the layout of date keys.
const DateLayout = "2006-01-02"

// DateKey returns YYYY-MM-DD in UTC.
func DateKey(t time.Time) string {
	return t.UTC().Format(DateLayout)
}

// Seed returns a deterministic 64-bit seed for a date using HMAC(salt, "rayonlar-YYYY-MM-DD").
func Seed(date time.Time, salt string) uint64 {
	h := hmac.New(sha256.New, []byte(salt))
	h.Write([]byte("rayonlar-" + DateKey(date)))
	sum := h.Sum(nil)
	// first 8 bytes are enough for modulus distribution over a district list
	return binary.BigEndian.Uint64(sum[:8])
}

// Pair returns the start and end indexes to try on the given attempt,
// over a list of n candidates. The two may coincide; callers skip those.
func Pair(seed uint64, attempt, n int) (start, end int) {
	if n <= 0 {
		return 0, 0
	}
	u := uint64(n)
	a := uint64(attempt)
	return int((seed + a) % u), int((seed + a*7 + 13) % u)
}
