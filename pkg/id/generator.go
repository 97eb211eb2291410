package id

import (
	"encoding/binary"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
)

// DiscriminatorSize is the number of bytes identifying a Generator inside an ID.
const DiscriminatorSize = 5

// Generator mints IDs. All state lives in the Generator value, so tests can
// build deterministic sequences with NewGeneratorWith while production code
// uses NewGenerator. New is lock-free and safe for concurrent use.
type Generator struct {
	discriminator [DiscriminatorSize]byte
	counter       atomic.Uint32
	clock         func() time.Time
}

// NewGenerator returns a Generator with a random discriminator and a random
// counter start.
func NewGenerator() *Generator {
	u := uuid.New()
	var d [DiscriminatorSize]byte
	copy(d[:], u[:DiscriminatorSize])
	return NewGeneratorWith(d, binary.BigEndian.Uint32(u[12:16]), time.Now)
}

// NewGeneratorWith returns a Generator with fixed state. The first ID carries
// counter start; a nil clock means time.Now.
func NewGeneratorWith(discriminator [DiscriminatorSize]byte, start uint32, clock func() time.Time) *Generator {
	if clock == nil {
		clock = time.Now
	}
	g := &Generator{discriminator: discriminator, clock: clock}
	g.counter.Store(start)
	return g
}

// Discriminator returns the bytes stamped into every ID of this generator.
func (g *Generator) Discriminator() [DiscriminatorSize]byte {
	return g.discriminator
}

// New returns a fresh ID.
func (g *Generator) New() ID {
	c := g.counter.Add(1) - 1
	var out ID
	binary.BigEndian.PutUint32(out[0:4], uint32(g.clock().Unix()))
	copy(out[4:4+DiscriminatorSize], g.discriminator[:])
	// only the low 24 bits of the counter are kept
	out[9] = byte(c >> 16)
	out[10] = byte(c >> 8)
	out[11] = byte(c)
	return out
}

var defaultGenerator = sync.OnceValue(NewGenerator)

// New returns an ID from a process-wide Generator created on first use.
// Code that needs reproducible IDs should hold its own Generator instead.
func New() ID {
	return defaultGenerator().New()
}
