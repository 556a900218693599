package impostor

import (
	crand "crypto/rand"
	"encoding/binary"
	"math/rand/v2"
)

// Source produces uniform integers in [0, n). *rand.Rand satisfies it.
type Source interface {
	IntN(n int) int
}

// NewSource returns a PRNG seeded from crypto/rand, falling back to the
// runtime's global source if the system entropy pool cannot be read.
func NewSource() Source {
	var b [16]byte
	if _, err := crand.Read(b[:]); err != nil {
		return globalSource{}
	}

	return rand.New(rand.NewPCG(binary.LittleEndian.Uint64(b[:8]), binary.LittleEndian.Uint64(b[8:])))
}

type globalSource struct{}

func (globalSource) IntN(n int) int {
	return rand.IntN(n)
}
