package morph

import (
	"math"
	"testing"
)

func TestNewCostModelLambda(t *testing.T) {
	tests := []struct {
		name    string
		prox    int64
		sidelen int
		want    float64
	}{
		{"zero importance", 0, 128, 0},
		{"reference resolution", 16, 128, 1.0},
		{"half resolution doubles weight", 16, 64, 2.0},
		{"double resolution halves weight", 16, 256, 0.5},
		{"max importance", 50, 128, 3.125},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := NewCostModel(tt.prox, tt.sidelen)
			if math.Abs(m.Lambda-tt.want) > 1e-12 {
				t.Errorf("Lambda = %v, want %v", m.Lambda, tt.want)
			}
		})
	}
}

func TestPairCostSpatialOnly(t *testing.T) {
	m := CostModel{Lambda: 0}

	a := Particle{X: 0, Y: 0, R: 255, G: 0, B: 0}
	b := Particle{X: 0.3, Y: 0.4, R: 0, G: 255, B: 255}

	// Colors differ maximally but lambda 0 ignores them: 3-4-5 triangle.
	got := m.PairCost(&a, &b)
	if math.Abs(got-0.5) > 1e-9 {
		t.Errorf("PairCost = %v, want 0.5", got)
	}
}

func TestPairCostColorTerm(t *testing.T) {
	m := CostModel{Lambda: 2}

	// Same position, one full-channel color difference.
	a := Particle{X: 0.5, Y: 0.5, R: 255}
	b := Particle{X: 0.5, Y: 0.5, R: 0}

	got := m.PairCost(&a, &b)
	if math.Abs(got-2.0) > 1e-9 {
		t.Errorf("PairCost = %v, want 2.0", got)
	}
}

func TestIdentityCostSameGrid(t *testing.T) {
	grid := testGrid(t, 4, func(i int) (uint8, uint8, uint8) {
		return uint8(i), uint8(i * 2), uint8(i * 3)
	})
	m := NewCostModel(16, 4)

	if got := m.IdentityCost(grid, grid); got != 0 {
		t.Errorf("IdentityCost of grid against itself = %v, want 0", got)
	}
}

func TestTotalCostMatchesAssignmentCosts(t *testing.T) {
	src := testGrid(t, 2, func(i int) (uint8, uint8, uint8) { return uint8(i * 60), 0, 0 })
	tgt := testGrid(t, 2, func(i int) (uint8, uint8, uint8) { return 0, uint8(i * 60), 0 })
	m := NewCostModel(16, 2)

	assign := []uint32{3, 2, 1, 0}
	costs := make([]float64, 4)
	m.AssignmentCosts(costs, src, tgt, assign)

	var sum float64
	for _, c := range costs {
		sum += c
	}
	if got := m.TotalCost(src, tgt, assign); math.Abs(got-sum) > 1e-12 {
		t.Errorf("TotalCost = %v, want %v", got, sum)
	}

	if max := m.MaxPairCost(); costs[0] > max {
		t.Errorf("pair cost %v exceeds MaxPairCost %v", costs[0], max)
	}
}

// testGrid builds a sidelen x sidelen grid with colors from the given
// function of the particle index.
func testGrid(t *testing.T, sidelen int, color func(i int) (uint8, uint8, uint8)) *ParticleGrid {
	t.Helper()
	pix := make([]byte, sidelen*sidelen*3)
	for i := 0; i < sidelen*sidelen; i++ {
		r, g, b := color(i)
		pix[i*3] = r
		pix[i*3+1] = g
		pix[i*3+2] = b
	}
	grid, err := NewGridFromPixels(pix, sidelen)
	if err != nil {
		t.Fatalf("NewGridFromPixels: %v", err)
	}
	return grid
}
