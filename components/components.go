// Package components defines the ECS components for morph particles.
package components

// Position is a particle's current position in normalized [0,1] space.
type Position struct {
	X, Y float32
}

// Tint is a particle's current draw color.
type Tint struct {
	R, G, B, A uint8
}

// Slot ties an entity to its particle index so per-tick output can be
// applied without depending on query iteration order.
type Slot struct {
	Index int
}
