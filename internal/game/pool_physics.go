package game

import (
	"math"
)

// Ball represents a single pool ball's physics state.
type Ball struct {
	ID       int  `json:"id" msgpack:"id"`
	Position Vec2 `json:"position" msgpack:"position"`
	Velocity Vec2 `json:"velocity" msgpack:"velocity"`
	Active   bool `json:"active" msgpack:"active"`
}

// Moving reports whether the ball is on the table with a nonzero velocity.
func (b *Ball) Moving() bool {
	return b.Active && b.Velocity.MagnitudeSquared() != 0
}

// pocket takes the ball out of play.
func (b *Ball) pocket() {
	b.Active = false
	b.Position = NewVec2(OutOfPlay, OutOfPlay)
	b.Velocity = Vec2{}
}

// integrate advances the ball by one frame of dt seconds and applies decay.
func (b *Ball) integrate(dt float64, table *Table) {
	if !b.Active {
		return
	}

	if math.Abs(b.Velocity.X) >= StopThreshold || math.Abs(b.Velocity.Z) >= StopThreshold {
		next := b.Position.Plus(b.Velocity.Times(dt * TimeScale))
		b.Position = table.Clamp(next)
	} else {
		b.Velocity = Vec2{}
	}

	rate := 1 - (1-DecayRate)*dt*DecayFrames
	if rate < 0 {
		rate = 0
	}
	b.Velocity = b.Velocity.Times(rate)
}

// Collision event types.
const (
	EventBall    = "ball"
	EventCushion = "cushion"
	EventPocket  = "pocket"
)

// CollisionEvent records a collision for rule checking and client playback.
type CollisionEvent struct {
	Type     string  `json:"type"` // "ball", "cushion", "pocket"
	BallID   int     `json:"ball_id"`
	TargetID int     `json:"target_id"` // ball ID, cushion ID or pocket ID
	Speed    float64 `json:"speed"`     // impact speed
}

// PhysicsEngine runs the billiard physics simulation one frame at a time.
// Balls are addressed by index so that a pair is never mutated through two aliases.
type PhysicsEngine struct {
	Balls  [NumBalls]Ball
	Table  *Table
	Events []CollisionEvent
}

// NewPhysicsEngine creates a physics engine from ball states and table geometry.
func NewPhysicsEngine(balls [NumBalls]Ball, table *Table) *PhysicsEngine {
	return &PhysicsEngine{
		Balls:  balls,
		Table:  table,
		Events: make([]CollisionEvent, 0),
	}
}

// Step runs one frame: integration, ball-ball collisions, cushions, then pockets.
// It returns the events raised during the frame in resolution order.
func (pe *PhysicsEngine) Step(dt float64) []CollisionEvent {
	pe.Events = pe.Events[:0]

	for i := range pe.Balls {
		pe.Balls[i].integrate(dt, pe.Table)
	}

	for i := 0; i < NumBalls; i++ {
		for j := i + 1; j < NumBalls; j++ {
			pe.resolveBallBall(i, j)
		}
	}

	for i := 0; i < NumBalls; i++ {
		for c := range pe.Table.Cushions {
			pe.resolveBallCushion(i, c)
		}
	}

	for i := 0; i < NumBalls; i++ {
		pe.resolveBallPocket(i)
	}

	return pe.Events
}

// Simulate steps until all balls stop or maxFrames is reached and returns every event.
func (pe *PhysicsEngine) Simulate(dt float64, maxFrames int) []CollisionEvent {
	all := make([]CollisionEvent, 0)
	for n := 0; n < maxFrames && !pe.AllStopped(); n++ {
		all = append(all, pe.Step(dt)...)
	}
	return all
}

// AllStopped returns true if all active balls have zero velocity.
func (pe *PhysicsEngine) AllStopped() bool {
	for i := range pe.Balls {
		if pe.Balls[i].Moving() {
			return false
		}
	}
	return true
}

// intersecting reports whether two balls overlap, measured between 3D centres.
func intersecting(a, b *Ball) bool {
	d := a.Position.Lift(BallHeight).Sub(b.Position.Lift(BallHeight))
	r := 2 * BallRadius
	return d.Dot(d) <= r*r
}

func (pe *PhysicsEngine) resolveBallBall(i, j int) {
	ball := &pe.Balls[i]
	target := &pe.Balls[j]
	if !ball.Active || !target.Active || !intersecting(ball, target) {
		return
	}

	d := ball.Position.Lift(BallHeight).Sub(target.Position.Lift(BallHeight))
	distance := d.Len()
	if distance == 0 {
		// Coincident centres have no normal; let them drift apart next frame.
		return
	}

	n := d.Mul(1 / distance)
	nx, nz := n.X(), n.Z()
	tx, tz := -nz, nx

	ballNormal := nx*ball.Velocity.X + nz*ball.Velocity.Z
	ballTangent := tx*ball.Velocity.X + tz*ball.Velocity.Z
	targetNormal := nx*target.Velocity.X + nz*target.Velocity.Z
	targetTangent := tx*target.Velocity.X + tz*target.Velocity.Z

	// Equal masses: the normal components trade places.
	ballNormal, targetNormal = targetNormal, ballNormal

	ball.Velocity = NewVec2(ballNormal*nx+ballTangent*tx, ballNormal*nz+ballTangent*tz)
	target.Velocity = NewVec2(targetNormal*nx+targetTangent*tx, targetNormal*nz+targetTangent*tz)

	overlap := 2*BallRadius - distance
	correction := NewVec2(overlap/2*nx, overlap/2*nz)
	a := ball.Position.Plus(correction)
	b := target.Position.Minus(correction)
	// A rail keeps part of one ball's push; the other ball takes it instead.
	shift := pe.Table.Clamp(a).Minus(a).Plus(pe.Table.Clamp(b).Minus(b))
	ball.Position = pe.Table.Clamp(a.Plus(shift))
	target.Position = pe.Table.Clamp(b.Plus(shift))

	pe.Events = append(pe.Events, CollisionEvent{
		Type:     EventBall,
		BallID:   ball.ID,
		TargetID: target.ID,
		Speed:    math.Abs(ballNormal - targetNormal),
	})
}

func (pe *PhysicsEngine) resolveBallCushion(i, c int) {
	ball := &pe.Balls[i]
	cushion := pe.Table.Cushions[c]
	if !ball.Active || !cushion.touches(ball.Position) {
		return
	}

	var speed float64
	switch {
	case cushion.Horizontal():
		if ball.Velocity.Z*cushion.Center.Z <= 0 {
			return // resting against it or already leaving
		}
		speed = math.Abs(ball.Velocity.Z)
		ball.Velocity.Z = -ball.Velocity.Z
	case cushion.Vertical():
		if ball.Velocity.X*cushion.Center.X <= 0 {
			return
		}
		speed = math.Abs(ball.Velocity.X)
		ball.Velocity.X = -ball.Velocity.X
	default:
		return
	}

	// One event per reflection, not per frame of contact.
	pe.Events = append(pe.Events, CollisionEvent{
		Type:     EventCushion,
		BallID:   ball.ID,
		TargetID: cushion.ID,
		Speed:    speed,
	})
}

func (pe *PhysicsEngine) resolveBallPocket(i int) {
	ball := &pe.Balls[i]
	if !ball.Active {
		return
	}
	pocket, ok := pe.Table.PocketAt(ball.Position)
	if !ok {
		return
	}

	speed := ball.Velocity.Magnitude()
	ball.pocket()

	pe.Events = append(pe.Events, CollisionEvent{
		Type:     EventPocket,
		BallID:   ball.ID,
		TargetID: pocket.ID,
		Speed:    speed,
	})
}

// GetFinalPositions returns the current positions of all balls.
func (pe *PhysicsEngine) GetFinalPositions() [NumBalls]Vec2 {
	var positions [NumBalls]Vec2
	for i := range pe.Balls {
		positions[i] = pe.Balls[i].Position
	}
	return positions
}
