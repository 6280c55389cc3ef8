package simulate

import (
	"encoding/binary"
	"math/rand/v2"

	"github.com/spaolacci/murmur3"
)

// injectionStream is hashed in place of an event index for the injection
// generator, so it never collides with an event stream.
const injectionStream = ^uint64(0)

// streamRand returns a generator for one stream of a run. The stream
// depends only on (seed, stream), not on scheduling.
func streamRand(seed, stream uint64) *rand.Rand {
	var buf [16]byte
	binary.LittleEndian.PutUint64(buf[:8], seed)
	binary.LittleEndian.PutUint64(buf[8:], stream)

	h := murmur3.New128()
	h.Write(buf[:])
	hi, lo := h.Sum128()
	return rand.New(rand.NewPCG(hi, lo))
}
