package game

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// emptyEngine returns an engine with every ball off the table.
func emptyEngine() *PhysicsEngine {
	var balls [NumBalls]Ball
	for i := range balls {
		balls[i] = Ball{ID: i, Position: NewVec2(OutOfPlay, OutOfPlay)}
	}
	return NewPhysicsEngine(balls, NewStandardTable())
}

func (pe *PhysicsEngine) place(id int, pos, vel Vec2) {
	pe.Balls[id] = Ball{ID: id, Position: pos, Velocity: vel, Active: true}
}

func kinetic(balls ...Ball) float64 {
	var e float64
	for _, b := range balls {
		e += b.Velocity.MagnitudeSquared()
	}
	return e
}

func TestBallBallCollisionIsElastic(t *testing.T) {
	table := NewStandardTable()
	maxX, maxZ := table.MaxX(), table.MaxZ()

	tests := []struct {
		name   string
		from   Vec2
		target Vec2
		vel    Vec2
	}{
		{"head on", NewVec2(0, 0), NewVec2(0.41, 0), NewVec2(1, 0)},
		{"oblique", NewVec2(0, 0), NewVec2(0.3, 0.2), NewVec2(1.5, 0.25)},
		{"deep overlap", NewVec2(0, 0), NewVec2(0.1, -0.05), NewVec2(-0.4, 2)},
		{"target against the rail", NewVec2(4.0, 0), NewVec2(maxX, 0), NewVec2(2, 0)},
		{"target in the corner", NewVec2(maxX-0.2, maxZ-0.2), NewVec2(maxX, maxZ), NewVec2(1, 1)},
		{"mover against the rail", NewVec2(-maxX, 1), NewVec2(-maxX+0.3, 1), NewVec2(-0.5, 0.2)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pe := emptyEngine()
			pe.place(0, tt.from, tt.vel)
			pe.place(1, tt.target, Vec2{})

			momentum := pe.Balls[0].Velocity.Plus(pe.Balls[1].Velocity)
			energy := kinetic(pe.Balls[0], pe.Balls[1])

			pe.resolveBallBall(0, 1)

			after := pe.Balls[0].Velocity.Plus(pe.Balls[1].Velocity)
			assert.InDelta(t, momentum.X, after.X, 1e-9)
			assert.InDelta(t, momentum.Z, after.Z, 1e-9)
			assert.InDelta(t, energy, kinetic(pe.Balls[0], pe.Balls[1]), 1e-9)

			gap := pe.Balls[0].Position.Minus(pe.Balls[1].Position).Magnitude()
			assert.InDelta(t, 2*BallRadius, gap, 1e-9)
			assert.True(t, table.InBounds(pe.Balls[0].Position))
			assert.True(t, table.InBounds(pe.Balls[1].Position))

			require.Len(t, pe.Events, 1)
			assert.Equal(t, EventBall, pe.Events[0].Type)
		})
	}
}

func TestRailCollisionSeparatesInOneStep(t *testing.T) {
	pe := emptyEngine()
	maxX := pe.Table.MaxX()
	pe.place(0, NewVec2(3.5, 0), NewVec2(8, 0))
	pe.place(1, NewVec2(maxX, 0), Vec2{})

	events := pe.Step(1.0 / 60)

	require.NotEmpty(t, events)
	assert.Equal(t, EventBall, events[0].Type)
	gap := pe.Balls[0].Position.Minus(pe.Balls[1].Position).Magnitude()
	assert.InDelta(t, 2*BallRadius, gap, 1e-9)
	assert.InDelta(t, maxX, pe.Balls[1].Position.X, 1e-12)
}

func TestHeadOnCollisionSwapsVelocities(t *testing.T) {
	pe := emptyEngine()
	pe.place(0, NewVec2(0, 0), NewVec2(1, 0))
	pe.place(1, NewVec2(0.41, 0), Vec2{})

	pe.resolveBallBall(0, 1)

	assert.InDelta(t, 0, pe.Balls[0].Velocity.X, 1e-12)
	assert.InDelta(t, 1, pe.Balls[1].Velocity.X, 1e-12)
	assert.InDelta(t, -0.005, pe.Balls[0].Position.X, 1e-12)
	assert.InDelta(t, 0.415, pe.Balls[1].Position.X, 1e-12)
}

func TestCoincidentBallsAreSkipped(t *testing.T) {
	pe := emptyEngine()
	pe.place(0, NewVec2(1, 1), NewVec2(1, 0))
	pe.place(1, NewVec2(1, 1), Vec2{})

	pe.resolveBallBall(0, 1)

	assert.Equal(t, NewVec2(1, 0), pe.Balls[0].Velocity)
	assert.Empty(t, pe.Events)
}

func TestInactiveBallsNeverCollide(t *testing.T) {
	pe := emptyEngine()
	pe.place(0, NewVec2(0, 0), NewVec2(1, 0))
	pe.Balls[1] = Ball{ID: 1, Position: NewVec2(0.3, 0)}

	pe.resolveBallBall(0, 1)

	assert.Equal(t, NewVec2(1, 0), pe.Balls[0].Velocity)
	assert.Empty(t, pe.Events)
}

func TestCushionReflection(t *testing.T) {
	table := NewStandardTable()
	maxX, maxZ := table.MaxX(), table.MaxZ()

	tests := []struct {
		name    string
		cushion int
		pos     Vec2
		vel     Vec2
		want    Vec2
		events  int
	}{
		{"top rail flips z", 0, NewVec2(1, maxZ), NewVec2(0.5, 2), NewVec2(0.5, -2), 1},
		{"bottom rail flips z", 1, NewVec2(-1, -maxZ), NewVec2(0.5, -2), NewVec2(0.5, 2), 1},
		{"right rail flips x", 2, NewVec2(maxX, 0.5), NewVec2(3, -1), NewVec2(-3, -1), 1},
		{"left rail flips x", 3, NewVec2(-maxX, 0.5), NewVec2(-3, 1), NewVec2(3, 1), 1},
		{"leaving the rail", 2, NewVec2(maxX, 0), NewVec2(-3, 0), NewVec2(-3, 0), 0},
		{"resting on the rail", 0, NewVec2(0, maxZ), Vec2{}, Vec2{}, 0},
		{"not touching", 2, NewVec2(0, 0), NewVec2(3, 0), NewVec2(3, 0), 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pe := emptyEngine()
			pe.place(0, tt.pos, tt.vel)

			pe.resolveBallCushion(0, tt.cushion)

			assert.Equal(t, tt.want, pe.Balls[0].Velocity)
			assert.Equal(t, tt.pos, pe.Balls[0].Position)
			assert.Len(t, pe.Events, tt.events)
		})
	}
}

func TestCornerContactHitsBothRails(t *testing.T) {
	pe := emptyEngine()
	table := pe.Table
	pe.place(0, NewVec2(table.MaxX(), table.MaxZ()), NewVec2(1, 1))

	for c := range table.Cushions {
		pe.resolveBallCushion(0, c)
	}

	assert.Equal(t, NewVec2(-1, -1), pe.Balls[0].Velocity)
	assert.Len(t, pe.Events, 2)
}

func TestPocketCapture(t *testing.T) {
	pe := emptyEngine()
	pe.place(3, NewVec2(0.1, 2.85), NewVec2(0, 1))
	pe.place(4, NewVec2(0, 0), Vec2{})

	pe.resolveBallPocket(3)
	pe.resolveBallPocket(4)

	b := pe.Balls[3]
	assert.False(t, b.Active)
	assert.Equal(t, NewVec2(OutOfPlay, OutOfPlay), b.Position)
	assert.True(t, b.Velocity.IsZero())
	assert.True(t, pe.Balls[4].Active)

	require.Len(t, pe.Events, 1)
	assert.Equal(t, CollisionEvent{Type: EventPocket, BallID: 3, TargetID: 1, Speed: 1}, pe.Events[0])
}

func TestIntegrateStopsAtThreshold(t *testing.T) {
	table := NewStandardTable()

	tests := []struct {
		name  string
		vel   Vec2
		moves bool
	}{
		{"below threshold snaps", NewVec2(0.0099, -0.0099), false},
		{"exactly threshold moves", NewVec2(StopThreshold, 0), true},
		{"one axis moving", NewVec2(0, -0.5), true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := Ball{ID: 1, Position: NewVec2(0, 0), Velocity: tt.vel, Active: true}
			b.integrate(1.0/60, table)

			if tt.moves {
				assert.NotEqual(t, NewVec2(0, 0), b.Position)
				assert.False(t, b.Velocity.IsZero())
			} else {
				assert.Equal(t, NewVec2(0, 0), b.Position)
				assert.True(t, b.Velocity.IsZero())
			}
		})
	}
}

func TestIntegrateDecayFloorsAtZero(t *testing.T) {
	table := NewStandardTable()
	b := Ball{ID: 1, Position: NewVec2(0, 0), Velocity: NewVec2(0.1, 0), Active: true}

	b.integrate(2, table)

	assert.True(t, b.Velocity.IsZero())
	assert.InDelta(t, 0.1*2*TimeScale, b.Position.X, 1e-12)
}

func TestIntegrateClampsEachAxis(t *testing.T) {
	table := NewStandardTable()
	b := Ball{ID: 1, Position: NewVec2(4.2, 0), Velocity: NewVec2(5, 0.5), Active: true}

	b.integrate(1.0/60, table)

	assert.Equal(t, table.MaxX(), b.Position.X)
	assert.InDelta(t, 0.5*TimeScale/60, b.Position.Z, 1e-12)
}

func TestDecayIsMonotoneAndReachesZero(t *testing.T) {
	pe := emptyEngine()
	pe.place(0, NewVec2(-1, 0), NewVec2(0.2, 0.1))

	prev := pe.Balls[0].Velocity.Magnitude()
	frames := 0
	for ; frames < 5000 && !pe.AllStopped(); frames++ {
		pe.Step(1.0 / 60)
		speed := pe.Balls[0].Velocity.Magnitude()
		require.LessOrEqual(t, speed, prev)
		prev = speed
	}

	assert.True(t, pe.AllStopped())
	assert.Less(t, frames, 5000)
	assert.Equal(t, Vec2{}, pe.Balls[0].Velocity)
}

func TestBreakStaysOnTable(t *testing.T) {
	m, err := NewMatch(MatchOptions{Seed: 11, PowerScale: 3})
	require.NoError(t, err)
	require.NoError(t, m.AimAndShoot(NewVec2(1.0, 0.01)))

	table := m.Table()
	results := 0
	for i := 0; i < 5000 && (i == 0 || m.Moving()); i++ {
		if m.Advance(1.0/60) != nil {
			results++
		}
		for _, b := range m.Balls() {
			if !b.Active {
				assert.Equal(t, NewVec2(OutOfPlay, OutOfPlay), b.Position)
				continue
			}
			require.LessOrEqual(t, math.Abs(b.Position.X), table.MaxX()+1e-9, "ball %d", b.ID)
			require.LessOrEqual(t, math.Abs(b.Position.Z), table.MaxZ()+1e-9, "ball %d", b.ID)
		}
	}

	assert.False(t, m.Moving())
	assert.Equal(t, 1, results)
}

func TestStepOrderReportsEvents(t *testing.T) {
	pe := emptyEngine()
	pe.place(0, NewVec2(-1, 0), NewVec2(3, 0))
	pe.place(1, NewVec2(0, 0), Vec2{})

	events := pe.Simulate(1.0/60, 5000)

	require.NotEmpty(t, events)
	assert.Equal(t, EventBall, events[0].Type)
	assert.Equal(t, 0, events[0].BallID)
	assert.Equal(t, 1, events[0].TargetID)
	assert.True(t, pe.AllStopped())
}

func TestGetFinalPositions(t *testing.T) {
	pe := emptyEngine()
	pe.place(5, NewVec2(1, 2), Vec2{})

	pos := pe.GetFinalPositions()

	assert.Equal(t, NewVec2(1, 2), pos[5])
	assert.Equal(t, NewVec2(OutOfPlay, OutOfPlay), pos[0])
}
