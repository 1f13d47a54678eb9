package grid

import (
	"math"

	"github.com/zyedidia/generic/mapset"
)

// Battlemap describes a procedurally generated battlefield. Obstacles appear
// where fractal noise exceeds Sparsity; difficult terrain fills the band of
// width Density just below it.
type Battlemap struct {
	Rows        int     `yaml:"rows"`
	Cols        int     `yaml:"cols"`
	Octaves     int     `yaml:"octaves"`
	Persistence float64 `yaml:"persistence"`
	Frequency   float64 `yaml:"frequency"`
	Sparsity    float64 `yaml:"sparsity"`
	Density     float64 `yaml:"density"`
	OffsetX     float64 `yaml:"offset_x"`
	OffsetY     float64 `yaml:"offset_y"`
	Seed        int64   `yaml:"seed"`
	// DifficultCost is the cost factor applied to difficult terrain cells.
	DifficultCost float64 `yaml:"difficult_cost"`
}

const (
	defaultOctaves       = 3
	defaultPersistence   = 0.5
	defaultFrequency     = 0.15
	defaultDifficultCost = 2
)

func (bm Battlemap) withDefaults() Battlemap {
	if bm.Octaves <= 0 {
		bm.Octaves = defaultOctaves
	}
	if bm.Persistence <= 0 {
		bm.Persistence = defaultPersistence
	}
	if bm.Frequency <= 0 {
		bm.Frequency = defaultFrequency
	}
	if bm.DifficultCost <= 0 {
		bm.DifficultCost = defaultDifficultCost
	}
	return bm
}

// Generate builds the movement graph for bm. Cells in reserved are always
// left as normal ground (spawn points).
func Generate(bm Battlemap, reserved mapset.Set[Cell]) (*Graph, error) {
	bm = bm.withDefaults()
	g, err := NewGraph(bm.Rows, bm.Cols)
	if err != nil {
		return nil, err
	}
	difficultFrom := bm.Sparsity - bm.Density
	for j := 0; j < bm.Rows; j++ {
		for i := 0; i < bm.Cols; i++ {
			c := Cell{I: i, J: j}
			if reserved.Size() > 0 && reserved.Has(c) {
				continue
			}
			n := bm.Noise(i, j)
			switch {
			case n > bm.Sparsity:
				err = g.AddObstacle(c)
			case n > difficultFrom && bm.Density > 0:
				err = g.AddDifficultTerrain(c, bm.DifficultCost)
			}
			if err != nil {
				return nil, err
			}
		}
	}
	return g, nil
}

// Noise returns the fractal noise value in [0,1] sampled at cell (i, j).
func (bm Battlemap) Noise(i, j int) float64 {
	bm = bm.withDefaults()
	x := (float64(i) + bm.OffsetX) * bm.Frequency
	y := (float64(j) + bm.OffsetY) * bm.Frequency
	return fractalNoise2D(x, y, bm.Octaves, bm.Persistence, bm.Seed)
}

// fractalNoise2D sums octaves of value noise, doubling the frequency and
// scaling the amplitude by persistence each octave. The sum is normalised
// back into [0,1].
func fractalNoise2D(x, y float64, octaves int, persistence float64, seed int64) float64 {
	total := 0.0
	amp := 1.0
	norm := 0.0
	freq := 1.0
	for o := 0; o < octaves; o++ {
		total += valueNoise2D(x*freq, y*freq, seed+int64(o)) * amp
		norm += amp
		amp *= persistence
		freq *= 2
	}
	if norm == 0 {
		return 0
	}
	return total / norm
}

// valueNoise2D returns a smooth noise value in [0,1] for the given coordinates.
// Lattice value noise with hermite interpolation.
func valueNoise2D(x, y float64, seed int64) float64 {
	xi := int(math.Floor(x))
	yi := int(math.Floor(y))
	xf := x - float64(xi)
	yf := y - float64(yi)

	u := xf * xf * (3 - 2*xf)
	v := yf * yf * (3 - 2*yf)

	n00 := latticeValue(xi, yi, seed)
	n10 := latticeValue(xi+1, yi, seed)
	n01 := latticeValue(xi, yi+1, seed)
	n11 := latticeValue(xi+1, yi+1, seed)

	nx0 := n00*(1-u) + n10*u
	nx1 := n01*(1-u) + n11*u
	return nx0*(1-v) + nx1*v
}

// latticeValue hashes integer coordinates and a seed into [0,1].
func latticeValue(x, y int, seed int64) float64 {
	h := uint64(seed)
	h ^= uint64(x) * 0x517cc1b727220a95
	h ^= uint64(y) * 0x6c62272e07bb0142
	h = h*0x2545f4914f6cdd1d + 0x14057b7ef767814f
	h ^= h >> 16
	h *= 0xd6e8feb86659fd93
	h ^= h >> 16
	return float64(h&0xFFFFFFFF) / float64(0xFFFFFFFF)
}
