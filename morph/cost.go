package morph

import (
	"math"

	"gonum.org/v1/gonum/floats"
)

// colorScale brings the color term onto the same footing as spatial
// distance: channels are divided by 255 so a full-channel difference
// weighs like a unit move across the image.
const colorScale = 1.0 / 255.0

// lambdaBase is the reference resolution the color weight is calibrated
// against. A proximity importance chosen at 128x128 keeps the same
// perceptual balance at every other resolution.
const lambdaBase = 128.0

// CostModel scores a source/target particle pairing as spatial distance
// plus a weighted color distance. Both terms are Euclidean.
type CostModel struct {
	Lambda float64
}

// NewCostModel derives the color weight from the user-facing proximity
// importance (0..50), normalized by grid resolution.
func NewCostModel(proximityImportance int64, sidelen int) CostModel {
	lambda := float64(proximityImportance) * lambdaBase / float64(sidelen) / 16.0
	return CostModel{Lambda: lambda}
}

// PairCost returns the cost of pairing source particle a with target
// particle b.
func (m CostModel) PairCost(a, b *Particle) float64 {
	dx := float64(a.X - b.X)
	dy := float64(a.Y - b.Y)
	spatial := math.Sqrt(dx*dx + dy*dy)

	dr := (float64(a.R) - float64(b.R)) * colorScale
	dg := (float64(a.G) - float64(b.G)) * colorScale
	db := (float64(a.B) - float64(b.B)) * colorScale
	color := math.Sqrt(dr*dr + dg*dg + db*db)

	return spatial + m.Lambda*color
}

// AssignmentCosts fills dst with the per-particle cost of assign, where
// assign[i] is the target index paired with source index i. dst must have
// length len(assign).
func (m CostModel) AssignmentCosts(dst []float64, src, tgt *ParticleGrid, assign []uint32) {
	for i := range assign {
		dst[i] = m.PairCost(&src.Particles[i], &tgt.Particles[assign[i]])
	}
}

// TotalCost returns the summed cost of an assignment.
func (m CostModel) TotalCost(src, tgt *ParticleGrid, assign []uint32) float64 {
	costs := make([]float64, len(assign))
	m.AssignmentCosts(costs, src, tgt, assign)
	return floats.Sum(costs)
}

// IdentityCost returns the cost of pairing every source index with the
// same target index, the do-nothing baseline.
func (m CostModel) IdentityCost(src, tgt *ParticleGrid) float64 {
	var sum float64
	for i := range src.Particles {
		sum += m.PairCost(&src.Particles[i], &tgt.Particles[i])
	}
	return sum
}

// MaxPairCost bounds the cost of any single pairing for this model.
// Spatial distance tops out at sqrt(2) in normalized space and color
// distance at sqrt(3) after scaling.
func (m CostModel) MaxPairCost() float64 {
	return math.Sqrt2 + m.Lambda*math.Sqrt(3)
}
