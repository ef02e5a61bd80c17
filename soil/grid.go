package soil

import (
	"math"
	"math/rand/v2"

	"github.com/ojrac/opensimplex-go"
	"gonum.org/v1/gonum/stat/distuv"
)

// Cell is the state of one grid cell.
type Cell struct {
	Moisture        float64
	Nitrogen        float64
	Phosphorus      float64
	Potassium       float64
	BaseTemperature float64
	Temperature     float64
}

// band is the row range covered by one horizon.
type band struct {
	start, end int
	horizon    int
}

// Grid is a row-major soil grid. Row 0 is the surface.
type Grid struct {
	Cols, Rows int

	cells  []Cell
	soil   Type
	bands  []band
	params Params
}

// horizonRows returns how many rows a horizon covers.
func horizonRows(rows int, depth float64) int {
	return int(float64(rows)*depth + 1e-9)
}

// NewGrid fills a grid horizon by horizon with gaussian noise around each
// horizon's base values. Rows below the last horizon are left empty.
func NewGrid(cols, rows int, t Type, p Params, rng *rand.Rand) *Grid {
	g := &Grid{
		Cols:   cols,
		Rows:   rows,
		cells:  make([]Cell, cols*rows),
		soil:   t,
		params: p,
	}
	g.computeBands()

	moistNoise := distuv.Normal{Mu: 0, Sigma: p.MoistureNoise, Src: rng}
	nutrNoise := distuv.Normal{Mu: 0, Sigma: p.NutrientNoise, Src: rng}

	var patches opensimplex.Noise
	if p.Patchiness > 0 {
		patches = opensimplex.New(rng.Int64())
	}
	scale := p.PatchScale
	if scale <= 0 {
		scale = 1
	}

	for i := range g.cells {
		g.cells[i].BaseTemperature = p.BaseTemperature
		g.cells[i].Temperature = p.BaseTemperature
	}

	for _, b := range g.bands {
		h := t.Horizons[b.horizon]
		for y := b.start; y < b.end && y < rows; y++ {
			for x := 0; x < cols; x++ {
				c := &g.cells[y*cols+x]
				m := h.Moisture + moistNoise.Rand()
				if patches != nil {
					m *= 1 + p.Patchiness*patches.Eval2(float64(x)/scale, float64(y)/scale)
				}
				c.Moisture = math.Max(0, m)
				c.Nitrogen = math.Max(0, h.Nitrogen+nutrNoise.Rand())
				c.Phosphorus = math.Max(0, h.Phosphorus+nutrNoise.Rand())
				c.Potassium = math.Max(0, h.Potassium+nutrNoise.Rand())
			}
		}
	}

	return g
}

func (g *Grid) computeBands() {
	g.bands = g.bands[:0]
	row := 0
	for i, h := range g.soil.Horizons {
		n := horizonRows(g.Rows, h.Depth)
		g.bands = append(g.bands, band{start: row, end: row + n, horizon: i})
		row += n
	}
}

// Type returns the soil profile the grid was built from.
func (g *Grid) Type() Type {
	return g.soil
}

// InBounds reports whether (x, y) is a grid cell.
func (g *Grid) InBounds(x, y int) bool {
	return x >= 0 && x < g.Cols && y >= 0 && y < g.Rows
}

// Sample returns the reading at (x, y), or the zero Sample outside the grid.
func (g *Grid) Sample(x, y int) Sample {
	if !g.InBounds(x, y) {
		return Sample{}
	}
	c := &g.cells[y*g.Cols+x]
	return Sample{
		Moisture:    c.Moisture,
		Nitrogen:    c.Nitrogen,
		Phosphorus:  c.Phosphorus,
		Potassium:   c.Potassium,
		Temperature: c.Temperature,
	}
}

// Cell returns the full cell state at (x, y).
func (g *Grid) Cell(x, y int) (Cell, bool) {
	if !g.InBounds(x, y) {
		return Cell{}, false
	}
	return g.cells[y*g.Cols+x], true
}

// SetCell overwrites a cell. Negative moisture is clamped to zero.
func (g *Grid) SetCell(x, y int, c Cell) {
	if !g.InBounds(x, y) {
		return
	}
	c.Moisture = math.Max(0, c.Moisture)
	g.cells[y*g.Cols+x] = c
}

// HorizonAt returns the horizon covering row.
func (g *Grid) HorizonAt(row int) (Horizon, bool) {
	for _, b := range g.bands {
		if row >= b.start && row < b.end {
			return g.soil.Horizons[b.horizon], true
		}
	}
	return Horizon{}, false
}

// HorizonStart returns the first row of the named horizon.
func (g *Grid) HorizonStart(name string) (int, bool) {
	for _, b := range g.bands {
		if g.soil.Horizons[b.horizon].Name == name {
			return b.start, true
		}
	}
	return 0, false
}

// HorizonResistance returns the compaction of the horizon covering row, or 1
// when no horizon covers it.
func (g *Grid) HorizonResistance(row int) float64 {
	if h, ok := g.HorizonAt(row); ok {
		return h.Resistance
	}
	return 1
}

// UpdateTemperature applies the diurnal cycle. The swing decays with depth
// and is damped by moisture.
func (g *Grid) UpdateTemperature(base, sunAngle float64) {
	phase := math.Cos(sunAngle - math.Pi/2)
	for y := 0; y < g.Rows; y++ {
		depthFactor := math.Exp(-float64(y) / g.params.DepthDecay)
		row := g.cells[y*g.Cols : (y+1)*g.Cols]
		for i := range row {
			c := &row[i]
			amp := g.params.DiurnalAmplitude * depthFactor * math.Exp(-c.Moisture/g.params.MoistureDecay)
			c.BaseTemperature = base
			c.Temperature = base + amp*phase
		}
	}
}

// Water adds a radial moisture gradient centred on (x, y). Cells within
// 2*size of the centre gain (2*size - dist) scaled by their horizon's moisture.
func (g *Grid) Water(x, y, size int) {
	if size <= 0 {
		return
	}
	reach := size * 2
	for dy := -reach; dy <= reach; dy++ {
		cy := y + dy
		if cy < 0 || cy >= g.Rows {
			continue
		}
		h, ok := g.HorizonAt(cy)
		if !ok {
			continue
		}
		for dx := -reach; dx <= reach; dx++ {
			cx := x + dx
			if cx < 0 || cx >= g.Cols {
				continue
			}
			dist := math.Sqrt(float64(dx*dx + dy*dy))
			if dist > float64(reach) {
				continue
			}
			g.cells[cy*g.Cols+cx].Moisture += math.Max(0, (float64(reach)-dist)*h.Moisture)
		}
	}
}

// Rain wets the whole grid. The top rows take the full share, deeper rows half.
func (g *Grid) Rain(intensity float64) {
	if intensity <= 0 {
		return
	}
	top := float64(g.Rows) * g.params.TopFraction
	for y := 0; y < g.Rows; y++ {
		depthFactor := 0.5
		if float64(y) < top {
			depthFactor = 1.0
		}
		add := (intensity / 200) * (depthFactor / 2) * g.soil.Retention
		row := g.cells[y*g.Cols : (y+1)*g.Cols]
		for i := range row {
			row[i].Moisture += add
		}
	}
}

// TotalMoisture sums moisture over all cells.
func (g *Grid) TotalMoisture() float64 {
	var sum float64
	for i := range g.cells {
		sum += g.cells[i].Moisture
	}
	return sum
}

// MeanMoisture averages moisture over all cells.
func (g *Grid) MeanMoisture() float64 {
	if len(g.cells) == 0 {
		return 0
	}
	return g.TotalMoisture() / float64(len(g.cells))
}
