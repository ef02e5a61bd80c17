// Package roots grows root systems: sets of tips that extend one grid cell
// at a time toward moist, warm, nutrient-rich soil.
package roots

// Direction is a growth direction on the grid. Y grows downward.
type Direction uint8

const (
	Left Direction = iota
	Right
	Down
	Up
	DownLeft
	DownRight

	// Branch directions tag new tips; they are never explored.
	LeftBranch
	RightBranch
)

// numExplore is the number of exploration directions.
const numExplore = 6

// Exploration lists the candidate directions in evaluation order.
// Ties in score resolve to the earliest entry.
var Exploration = [numExplore]Direction{Left, Right, Down, Up, DownLeft, DownRight}

var offsets = [...][2]int{
	Left:        {-1, 0},
	Right:       {1, 0},
	Down:        {0, 1},
	Up:          {0, -1},
	DownLeft:    {-1, 1},
	DownRight:   {1, 1},
	LeftBranch:  {-2, 0}, // half-cell drop truncates to 0 on the grid
	RightBranch: {2, 0},
}

var names = [...]string{
	Left:        "left",
	Right:       "right",
	Down:        "down",
	Up:          "up",
	DownLeft:    "down-left",
	DownRight:   "down-right",
	LeftBranch:  "left-branch",
	RightBranch: "right-branch",
}

// Offset returns the grid step for d.
func (d Direction) Offset() (dx, dy int) {
	o := offsets[d]
	return o[0], o[1]
}

func (d Direction) String() string {
	if int(d) < len(names) {
		return names[d]
	}
	return "unknown"
}

// Point is a grid cell coordinate.
type Point struct {
	X, Y int
}

// Add returns the neighbour of p in direction d.
func (p Point) Add(d Direction) Point {
	dx, dy := d.Offset()
	return Point{X: p.X + dx, Y: p.Y + dy}
}

// Segment is one grid cell of root length.
type Segment struct {
	Pos Point
	Age int // ticks since creation
}
