package testutil

import (
	"fmt"
	"sync"
)

// SequentialIDs generates render IDs "{prefix}-1", "{prefix}-2", ...
//
// Unlike engine.FixedGenerator it never runs out, and Reset lets the same
// scenario run twice with identical IDs.
//
// Thread-safety: All methods are safe for concurrent use via internal mutex.
type SequentialIDs struct {
	mu     sync.Mutex
	prefix string
	seq    int64
}

// NewSequentialIDs creates a generator. An empty prefix means "render".
func NewSequentialIDs(prefix string) *SequentialIDs {
	if prefix == "" {
		prefix = "render"
	}
	return &SequentialIDs{prefix: prefix}
}

// Generate returns the next ID.
//
// Implements engine.IDGenerator interface.
func (g *SequentialIDs) Generate() string {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.seq++
	return fmt.Sprintf("%s-%d", g.prefix, g.seq)
}

// Count returns how many IDs were generated since creation or Reset.
func (g *SequentialIDs) Count() int64 {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.seq
}

// Reset restarts the sequence. The next ID ends in -1.
func (g *SequentialIDs) Reset() {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.seq = 0
}
