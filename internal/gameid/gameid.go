package gameid

import (
	"encoding/binary"
	"fmt"
	"io"
	rand "math/rand/v2"
	"strings"

	"github.com/google/uuid"
)

// Base32 alphabet used by TypeID (Crockford's base32)
const alphabet = "0123456789abcdefghjkmnpqrstvwxyz"

// Generator produces session and round identifiers. Without a random
// source it emits time-ordered UUIDv7 values; with one it emits
// reproducible random UUIDs so seeded simulations stay deterministic.
type Generator struct {
	reader io.Reader
}

// NewGenerator creates a generator. A nil rng selects UUIDv7.
func NewGenerator(rng *rand.Rand) *Generator {
	if rng == nil {
		return &Generator{}
	}
	return &Generator{reader: &randReader{rng: rng}}
}

// Generate creates a new ID: a UUID encoded as a 26-character base32 string.
func Generate() string {
	return NewGenerator(nil).Generate()
}

// Generate creates a new ID using the generator's source.
func (g *Generator) Generate() string {
	return encodeBase32(g.UUID())
}

// UUID returns the next raw identifier.
func (g *Generator) UUID() uuid.UUID {
	if g.reader == nil {
		return uuid.Must(uuid.NewV7())
	}
	return uuid.Must(uuid.NewRandomFromReader(g.reader))
}

// randReader exposes a rand/v2 generator as an io.Reader.
type randReader struct {
	rng *rand.Rand
}

func (r *randReader) Read(p []byte) (int, error) {
	var buf [8]byte
	n := 0
	for n < len(p) {
		binary.LittleEndian.PutUint64(buf[:], r.rng.Uint64())
		n += copy(p[n:], buf[:])
	}
	return n, nil
}

// encodeBase32 encodes a 128-bit UUID as a 26-character base32 string
func encodeBase32(data uuid.UUID) string {
	result := make([]byte, 26)

	// 26 groups of 5 bits; the last group is padded with two zero bits.
	for i := 0; i < 26; i++ {
		bitOffset := i * 5
		byteIndex := bitOffset / 8
		bitIndex := bitOffset % 8

		var value uint8
		if byteIndex < 16 {
			if bitIndex <= 3 {
				value = (data[byteIndex] >> (3 - bitIndex)) & 0x1f
			} else {
				value = (data[byteIndex] << (bitIndex - 3)) & 0x1f
				if byteIndex+1 < 16 {
					value |= data[byteIndex+1] >> (11 - bitIndex)
				}
			}
		}

		result[i] = alphabet[value]
	}

	return string(result)
}

// Validate checks if an ID is valid (26 characters, valid base32)
func Validate(id string) error {
	if len(id) != 26 {
		return fmt.Errorf("id must be exactly 26 characters, got %d", len(id))
	}

	for i, char := range id {
		if !strings.ContainsRune(alphabet, char) {
			return fmt.Errorf("invalid character %c at position %d", char, i)
		}
	}

	return nil
}
