package game

// Physics and table constants for the 8-ball table.
// Units are table units; the playing surface spans 9 x 6.

const (
	TableHalfWidth = 4.5 // x extent from the centre spot
	TableHalfDepth = 3.0 // z extent from the centre spot
	BallRadius     = 0.21
	BallHeight     = BallRadius // y of every ball centre on the cloth
	PocketRadius   = 0.3

	StopThreshold = 0.01   // per velocity component
	TimeScale     = 3.3    // tunes perceived speed
	DecayRate     = 0.9982 // per-frame velocity retention at the reference frame time
	DecayFrames   = 400.0

	CushionThickness = 0.12
	CushionTolerance = 1e-9

	BreakMinCushions = 4

	NumBalls    = 16 // 0=cue, 1-7=solids, 8=black, 9-15=stripes
	NumPockets  = 6
	NumCushions = 4

	CueBallID   = 0
	EightBallID = 8
	GroupSize   = 7

	OutOfPlay = -999.0
)

// CueHeadSpot is where the cue ball is racked and respotted after a scratch.
var CueHeadSpot = Vec2{X: -2.5, Z: 0}
