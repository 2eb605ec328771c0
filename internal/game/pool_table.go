package game

import (
	"errors"
	"math"
	"math/rand"
)

// ErrRackExhausted is returned when the rack has fewer slots than balls to place.
var ErrRackExhausted = errors.New("not enough rack positions for all balls")

// Cushion is one of the four axis-aligned rails bounding the playing surface.
type Cushion struct {
	ID     int     `json:"id"`
	Center Vec2    `json:"center"`
	Width  float64 `json:"width"` // x extent
	Depth  float64 `json:"depth"` // z extent
}

// Horizontal reports whether the cushion runs along the x axis.
// Such a cushion sits on the z axis line x == 0 and turns back the z velocity.
func (c Cushion) Horizontal() bool {
	return c.Center.X == 0
}

// Vertical reports whether the cushion runs along the z axis.
func (c Cushion) Vertical() bool {
	return c.Center.Z == 0
}

// touches reports whether a ball centred at p overlaps the cushion footprint.
func (c Cushion) touches(p Vec2) bool {
	dx := math.Abs(c.Center.X - p.X)
	dz := math.Abs(c.Center.Z - p.Z)
	return dx <= c.Width/2+BallRadius+CushionTolerance &&
		dz <= c.Depth/2+BallRadius+CushionTolerance
}

// Pocket represents one of the 6 pockets on the table.
type Pocket struct {
	ID       int     `json:"id"`
	Position Vec2    `json:"position"`
	Radius   float64 `json:"radius"`
}

// Contains reports whether a ball centred at p has dropped into the pocket.
func (p Pocket) Contains(pos Vec2) bool {
	return pos.Minus(p.Position).MagnitudeSquared() <= p.Radius*p.Radius
}

// Table holds the complete table geometry. It never changes after setup.
type Table struct {
	Cushions  [NumCushions]Cushion `json:"cushions"`
	Pockets   [NumPockets]Pocket   `json:"pockets"`
	HalfWidth float64              `json:"half_width"`
	HalfDepth float64              `json:"half_depth"`
}

// NewStandardTable creates the 9 x 6 table with four rails and six pockets.
func NewStandardTable() *Table {
	hw, hd := TableHalfWidth, TableHalfDepth
	rail := CushionThickness

	t := &Table{HalfWidth: hw, HalfDepth: hd}
	t.Cushions = [NumCushions]Cushion{
		{ID: 0, Center: NewVec2(0, hd+rail/2), Width: 2 * hw, Depth: rail},
		{ID: 1, Center: NewVec2(0, -hd-rail/2), Width: 2 * hw, Depth: rail},
		{ID: 2, Center: NewVec2(hw+rail/2, 0), Width: rail, Depth: 2*hd + 2*rail},
		{ID: 3, Center: NewVec2(-hw-rail/2, 0), Width: rail, Depth: 2*hd + 2*rail},
	}
	t.Pockets = [NumPockets]Pocket{
		{ID: 0, Position: NewVec2(-hw, hd), Radius: PocketRadius},
		{ID: 1, Position: NewVec2(0, hd), Radius: PocketRadius},
		{ID: 2, Position: NewVec2(hw, hd), Radius: PocketRadius},
		{ID: 3, Position: NewVec2(-hw, -hd), Radius: PocketRadius},
		{ID: 4, Position: NewVec2(0, -hd), Radius: PocketRadius},
		{ID: 5, Position: NewVec2(hw, -hd), Radius: PocketRadius},
	}
	return t
}

// MaxX is the largest x a ball centre may take.
func (t *Table) MaxX() float64 { return t.HalfWidth - BallRadius }

// MaxZ is the largest z a ball centre may take.
func (t *Table) MaxZ() float64 { return t.HalfDepth - BallRadius }

// Clamp keeps a ball centre inside the inner rectangle, each axis on its own.
func (t *Table) Clamp(p Vec2) Vec2 {
	return Vec2{
		X: clamp(p.X, -t.MaxX(), t.MaxX()),
		Z: clamp(p.Z, -t.MaxZ(), t.MaxZ()),
	}
}

// InBounds reports whether p is a legal ball centre.
func (t *Table) InBounds(p Vec2) bool {
	return math.Abs(p.X) <= t.MaxX() && math.Abs(p.Z) <= t.MaxZ()
}

// PocketAt returns the first pocket holding p, if any.
func (t *Table) PocketAt(p Vec2) (*Pocket, bool) {
	for i := range t.Pockets {
		if t.Pockets[i].Contains(p) {
			return &t.Pockets[i], true
		}
	}
	return nil, false
}

const (
	rackApexX   = 1.0
	rackRowStep = 0.366 // x distance between rack rows
	rackBallGap = 0.422 // z distance between balls in a row

	rackCueSlot   = 0
	rackEightSlot = 5 // centre of the third row
)

// StandardRackSlots returns the 16 rack positions: the head spot followed by the
// five-row triangle, apex first.
func StandardRackSlots() []Vec2 {
	slots := []Vec2{CueHeadSpot}
	for row := 0; row < 5; row++ {
		x := rackApexX + float64(row)*rackRowStep
		for k := 0; k <= row; k++ {
			z := (float64(k) - float64(row)/2) * rackBallGap
			slots = append(slots, NewVec2(x, z))
		}
	}
	return slots
}

// RackBalls places all balls on the given slots. The cue ball and the black
// take their fixed slots; the 14 group balls are shuffled over the rest.
func RackBalls(slots []Vec2, rng *rand.Rand) ([NumBalls]Ball, error) {
	var balls [NumBalls]Ball
	if len(slots) < NumBalls || rackEightSlot >= len(slots) {
		return balls, ErrRackExhausted
	}

	free := make([]Vec2, 0, len(slots)-2)
	for i, s := range slots {
		if i == rackCueSlot || i == rackEightSlot {
			continue
		}
		free = append(free, s)
	}
	rng.Shuffle(len(free), func(i, j int) { free[i], free[j] = free[j], free[i] })

	next := 0
	for id := 0; id < NumBalls; id++ {
		var pos Vec2
		switch id {
		case CueBallID:
			pos = slots[rackCueSlot]
		case EightBallID:
			pos = slots[rackEightSlot]
		default:
			if next >= len(free) {
				return balls, ErrRackExhausted
			}
			pos = free[next]
			next++
		}
		balls[id] = Ball{ID: id, Position: pos, Active: true}
	}
	return balls, nil
}
