// Package id generates ULIDs for storage keys, session IDs, and
// request IDs. ULIDs sort lexicographically by creation time, which
// keeps disk listings and database indexes in upload order.
package id

import (
	"crypto/rand"
	"encoding/binary"
	"time"
)

// Crockford's Base32 alphabet (excludes I, L, O, U to avoid confusion).
const alphabet = "0123456789ABCDEFGHJKMNPQRSTVWXYZ"

// NewULID generates a 26-character ULID: 10 characters of 48-bit
// millisecond timestamp followed by 16 characters of 80-bit entropy.
func NewULID() string {
	ms := uint64(time.Now().UnixMilli())

	var entropy [10]byte
	if _, err := rand.Read(entropy[:]); err != nil {
		// Degraded fallback when the system source is unavailable.
		binary.BigEndian.PutUint64(entropy[:8], uint64(time.Now().UnixNano()))
		binary.BigEndian.PutUint16(entropy[8:], uint16(ms))
	}

	var b [26]byte

	// The timestamp fills the first 10 characters, 5 bits at a time
	// from the top; the leading character carries the 3 spare bits.
	for i := 0; i < 10; i++ {
		b[i] = alphabet[(ms>>uint(45-5*i))&0x1F]
	}

	// The 80 entropy bits fill the remaining 16 characters. Treat them
	// as a 64/16 split so each 5-bit group can straddle the boundary.
	hi := binary.BigEndian.Uint64(entropy[:8])
	lo := uint64(binary.BigEndian.Uint16(entropy[8:]))
	for j := 0; j < 16; j++ {
		shift := 75 - 5*j
		var v uint64
		if shift >= 16 {
			v = hi >> uint(shift-16)
		} else {
			v = hi<<uint(16-shift) | lo>>uint(shift)
		}
		b[10+j] = alphabet[v&0x1F]
	}

	return string(b[:])
}
