package game

import (
	"errors"
	"math"
	"math/rand"
)

// Input errors. A rejected input leaves the match untouched.
var (
	ErrShotInProgress        = errors.New("a shot is already in progress")
	ErrGroupSelectionPending = errors.New("group selection is pending")
	ErrNoSelectionPending    = errors.New("no group selection is pending")
	ErrInvalidGroup          = errors.New("invalid group")
	ErrNoFreeShot            = errors.New("not a free shot")
	ErrMatchOver             = errors.New("match is over")
	ErrCueBallInactive       = errors.New("cue ball is not on the table")
	ErrInvalidPlacement      = errors.New("invalid cue ball position")
	ErrDegenerateAim         = errors.New("aim point is on the cue ball")
)

// MatchOptions configures a new match.
type MatchOptions struct {
	Seed       int64   // shuffles the rack
	PowerScale float64 // launch speed per unit of aim distance; 0 means 1
	Slots      []Vec2  // rack slots; nil means StandardRackSlots
}

// Match owns every piece of state touched by a tick: balls, table, the shot
// accumulator and the rule state. It is not safe for concurrent use.
type Match struct {
	engine     *PhysicsEngine
	state      MatchState
	outcome    ShotOutcome
	classifier ShotClassifier
	power      float64
	lastResult *ShotResult
}

// NewMatch racks the balls and returns a match waiting for the break.
func NewMatch(opts MatchOptions) (*Match, error) {
	slots := opts.Slots
	if slots == nil {
		slots = StandardRackSlots()
	}
	balls, err := RackBalls(slots, rand.New(rand.NewSource(opts.Seed)))
	if err != nil {
		return nil, err
	}

	power := opts.PowerScale
	if power <= 0 {
		power = 1
	}

	return &Match{
		engine:  NewPhysicsEngine(balls, NewStandardTable()),
		state:   NewMatchState(),
		outcome: NewShotOutcome(),
		power:   power,
	}, nil
}

// Advance runs one tick of dt seconds. It returns the rule result on the tick
// where the shot ends and nil on every other tick.
func (m *Match) Advance(dt float64) *ShotResult {
	if dt < 0 || math.IsNaN(dt) {
		dt = 0
	}

	for _, e := range m.engine.Step(dt) {
		switch e.Type {
		case EventCushion:
			m.outcome.RecordCushion()
		case EventPocket:
			m.outcome.RecordPocket(e.BallID)
		}
	}

	if !m.classifier.Observe(!m.engine.AllStopped()) {
		return nil
	}

	next, result := FinalizeShot(m.state, m.outcome)
	m.state = next
	m.outcome.Reset()

	if m.state.FreeShot && !m.engine.Balls[CueBallID].Active {
		m.respotCueBall()
	}

	m.lastResult = &result
	return &result
}

// AimAndShoot launches the cue ball towards target. The launch speed grows
// with the distance between the cue ball and the aim point.
func (m *Match) AimAndShoot(target Vec2) error {
	if err := m.canShoot(); err != nil {
		return err
	}
	cue := &m.engine.Balls[CueBallID]
	v, ok := launchVelocity(cue.Position, target, m.power)
	if !ok {
		return ErrDegenerateAim
	}
	cue.Velocity = v
	m.state.FreeShot = false
	// The launch frame counts as moving so that even a shot too soft to roll
	// still ends with a falling edge.
	m.classifier.Observe(true)
	return nil
}

func (m *Match) canShoot() error {
	switch {
	case m.state.Over():
		return ErrMatchOver
	case m.state.Phase == PhaseChoosingGroup:
		return ErrGroupSelectionPending
	case m.Moving():
		return ErrShotInProgress
	case !m.engine.Balls[CueBallID].Active:
		return ErrCueBallInactive
	}
	return nil
}

// PlaceCueBall puts the cue ball in hand at pos during a free shot.
func (m *Match) PlaceCueBall(pos Vec2) error {
	switch {
	case m.state.Over():
		return ErrMatchOver
	case m.Moving():
		return ErrShotInProgress
	case !m.state.FreeShot:
		return ErrNoFreeShot
	}
	if !m.spotFree(pos) {
		return ErrInvalidPlacement
	}

	cue := &m.engine.Balls[CueBallID]
	cue.Position = pos
	cue.Velocity = Vec2{}
	cue.Active = true
	m.state.FreeShot = false
	return nil
}

// SelectGroup settles the group choice after both groups dropped on an open table.
func (m *Match) SelectGroup(g Group) error {
	if m.state.Phase != PhaseChoosingGroup {
		return ErrNoSelectionPending
	}
	next, ok := ResolveGroupSelection(m.state, g)
	if !ok {
		return ErrInvalidGroup
	}
	m.state = next
	return nil
}

// spotFree reports whether the cue ball may sit at pos.
func (m *Match) spotFree(pos Vec2) bool {
	table := m.engine.Table
	if math.IsNaN(pos.X) || math.IsNaN(pos.Z) || !table.InBounds(pos) {
		return false
	}
	if _, in := table.PocketAt(pos); in {
		return false
	}
	for i := range m.engine.Balls {
		b := &m.engine.Balls[i]
		if b.ID == CueBallID || !b.Active {
			continue
		}
		if b.Position.Minus(pos).Magnitude() < 2*BallRadius {
			return false
		}
	}
	return true
}

// respotCueBall brings a scratched cue ball back at the head spot, or the
// nearest free point found by respotPosition.
func (m *Match) respotCueBall() {
	cue := &m.engine.Balls[CueBallID]
	cue.Position = m.respotPosition()
	cue.Velocity = Vec2{}
	cue.Active = true
}

// respotPosition slides from the head spot towards the head rail along the
// centre line first. When that line is full it scans the rest of the cloth in
// 2r steps, head end first, working outwards from the centre line.
func (m *Match) respotPosition() Vec2 {
	table := m.engine.Table
	step := 2 * BallRadius

	for x := CueHeadSpot.X; x >= -table.MaxX(); x -= step {
		if p := NewVec2(x, CueHeadSpot.Z); m.spotFree(p) {
			return p
		}
	}

	var columns []float64
	for x := CueHeadSpot.X; x >= -table.MaxX(); x -= step {
		columns = append(columns, x)
	}
	for x := CueHeadSpot.X + step; x <= table.MaxX(); x += step {
		columns = append(columns, x)
	}
	for _, x := range columns {
		for dz := 0.0; dz <= table.MaxZ(); dz += step {
			for _, z := range []float64{CueHeadSpot.Z + dz, CueHeadSpot.Z - dz} {
				if p := NewVec2(x, z); m.spotFree(p) {
					return p
				}
			}
		}
	}

	// Unreachable with fifteen object balls; keep the head spot.
	return CueHeadSpot
}

// Moving reports whether any active ball is still rolling.
func (m *Match) Moving() bool {
	return !m.engine.AllStopped()
}

// State returns a copy of the rule state.
func (m *Match) State() MatchState {
	return m.state
}

// Balls returns a copy of every ball.
func (m *Match) Balls() [NumBalls]Ball {
	return m.engine.Balls
}

// Table returns the table geometry.
func (m *Match) Table() *Table {
	return m.engine.Table
}

// Outcome returns a copy of the shot accumulator.
func (m *Match) Outcome() ShotOutcome {
	out := m.outcome
	out.PocketedIDs = append([]int{}, m.outcome.PocketedIDs...)
	return out
}

// LastResult returns the result of the most recent finished shot, if any.
func (m *Match) LastResult() *ShotResult {
	return m.lastResult
}

// TableSnapshot is the read-only view handed to renderers and caches.
type TableSnapshot struct {
	Balls            []Ball `json:"balls" msgpack:"balls"`
	Turn             Player `json:"turn" msgpack:"turn"`
	Phase            Phase  `json:"phase" msgpack:"phase"`
	RequiredGroup    Group  `json:"required_group" msgpack:"required_group"`
	Open             bool   `json:"open" msgpack:"open"`
	IsBreak          bool   `json:"is_break" msgpack:"is_break"`
	FreeShot         bool   `json:"free_shot" msgpack:"free_shot"`
	SelectionPending bool   `json:"selection_pending" msgpack:"selection_pending"`
	Moving           bool   `json:"moving" msgpack:"moving"`
	Winner           Player `json:"winner,omitempty" msgpack:"winner"`
	WinType          string `json:"win_type,omitempty" msgpack:"win_type"`
	ShotNumber       int    `json:"shot_number" msgpack:"shot_number"`
	SolidsLeft       int    `json:"solids_left" msgpack:"solids_left"`
	StripesLeft      int    `json:"stripes_left" msgpack:"stripes_left"`
}

// Snapshot returns the current read-only view of the match.
func (m *Match) Snapshot() TableSnapshot {
	balls := make([]Ball, NumBalls)
	copy(balls, m.engine.Balls[:])

	return TableSnapshot{
		Balls:            balls,
		Turn:             m.state.Turn,
		Phase:            m.state.Phase,
		RequiredGroup:    m.state.RequiredGroup(),
		Open:             m.state.Phase == PhaseOpen || m.state.Phase == PhaseChoosingGroup,
		IsBreak:          m.state.IsBreak,
		FreeShot:         m.state.FreeShot,
		SelectionPending: m.state.Phase == PhaseChoosingGroup,
		Moving:           m.Moving(),
		Winner:           m.state.Winner,
		WinType:          m.state.WinType,
		ShotNumber:       m.state.ShotNumber,
		SolidsLeft:       m.outcome.SolidsLeft,
		StripesLeft:      m.outcome.StripesLeft,
	}
}
