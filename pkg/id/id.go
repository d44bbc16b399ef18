// Package id generates identifiers for stored entities and requests.
package id

import (
	"encoding/hex"
	"strconv"
	"time"

	"github.com/google/uuid"
)

// Length is the size of an identifier produced by New.
const Length = 50

// New returns a 50-character entity identifier: the creation time in unix
// milliseconds zero-padded to 15 digits, 32 hex characters of a random UUID
// and a fixed "000" suffix. Identifiers sort lexicographically by creation
// time at millisecond resolution.
func New() string {
	return newAt(time.Now())
}

func newAt(t time.Time) string {
	u := uuid.New()

	var buf [Length]byte
	ms := strconv.FormatInt(t.UnixMilli(), 10)
	pad := 15 - len(ms)
	for i := range pad {
		buf[i] = '0'
	}
	copy(buf[max(pad, 0):15], ms)
	hex.Encode(buf[15:47], u[:])
	copy(buf[47:], "000")
	return string(buf[:])
}

// Timestamp extracts the creation time encoded in an identifier from New.
// The second result is false when s is not in that format.
func Timestamp(s string) (time.Time, bool) {
	if len(s) != Length || s[47:] != "000" {
		return time.Time{}, false
	}
	ms, err := strconv.ParseInt(s[:15], 10, 64)
	if err != nil || ms < 0 {
		return time.Time{}, false
	}
	if _, err := hex.DecodeString(s[15:47]); err != nil {
		return time.Time{}, false
	}
	return time.UnixMilli(ms), true
}

// NewRequestID returns a random UUID string for request correlation.
func NewRequestID() string {
	return uuid.NewString()
}
