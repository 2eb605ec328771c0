package game

// ShotCategory classifies a pocketed ball.
type ShotCategory int

const (
	CategoryCue ShotCategory = iota
	CategoryDesignated
	CategorySolid
	CategoryStripe
)

func (c ShotCategory) String() string {
	switch c {
	case CategoryCue:
		return "cue"
	case CategoryDesignated:
		return "black"
	case CategorySolid:
		return "solid"
	case CategoryStripe:
		return "stripe"
	}
	return "unknown"
}

// CategoryOf maps a ball id to exactly one category.
func CategoryOf(id int) ShotCategory {
	switch {
	case id == CueBallID:
		return CategoryCue
	case id == EightBallID:
		return CategoryDesignated
	case id >= 1 && id <= 7:
		return CategorySolid
	default:
		return CategoryStripe
	}
}

// ShotOutcome accumulates the events of one shot. Remaining counts carry over
// between shots; everything else is cleared by Reset.
type ShotOutcome struct {
	Cushions    int     `json:"cushions" msgpack:"cushions"`
	Pocketed    [4]bool `json:"pocketed" msgpack:"pocketed"` // indexed by ShotCategory
	PocketedIDs []int   `json:"pocketed_ids" msgpack:"pocketed_ids"`
	SolidsLeft  int     `json:"solids_left" msgpack:"solids_left"`
	StripesLeft int     `json:"stripes_left" msgpack:"stripes_left"`
	// Remaining counts captured the moment the black dropped.
	SolidsAtBlack  int `json:"solids_at_black" msgpack:"solids_at_black"`
	StripesAtBlack int `json:"stripes_at_black" msgpack:"stripes_at_black"`
}

// NewShotOutcome returns an empty outcome for a full rack.
func NewShotOutcome() ShotOutcome {
	return ShotOutcome{
		PocketedIDs: make([]int, 0),
		SolidsLeft:  GroupSize,
		StripesLeft: GroupSize,
	}
}

// RecordCushion counts one cushion reflection. A ball resting against a rail
// adds nothing.
func (o *ShotOutcome) RecordCushion() {
	o.Cushions++
}

// RecordPocket classifies a captured ball and updates the remaining counters.
func (o *ShotOutcome) RecordPocket(id int) ShotCategory {
	cat := CategoryOf(id)
	o.Pocketed[cat] = true
	o.PocketedIDs = append(o.PocketedIDs, id)

	switch cat {
	case CategorySolid:
		if o.SolidsLeft > 0 {
			o.SolidsLeft--
		}
	case CategoryStripe:
		if o.StripesLeft > 0 {
			o.StripesLeft--
		}
	case CategoryDesignated:
		o.SolidsAtBlack = o.SolidsLeft
		o.StripesAtBlack = o.StripesLeft
	}
	return cat
}

// Has reports whether a ball of the category dropped during the shot.
func (o *ShotOutcome) Has(c ShotCategory) bool {
	return o.Pocketed[c]
}

// HasGroup reports whether a ball of the group dropped during the shot.
func (o *ShotOutcome) HasGroup(g Group) bool {
	switch g {
	case GroupSolids:
		return o.Pocketed[CategorySolid]
	case GroupStripes:
		return o.Pocketed[CategoryStripe]
	}
	return false
}

// Left returns the number of balls of the group still on the table.
func (o *ShotOutcome) Left(g Group) int {
	switch g {
	case GroupSolids:
		return o.SolidsLeft
	case GroupStripes:
		return o.StripesLeft
	}
	return 0
}

// LeftWhenBlackDropped returns the group's remaining count at the moment the
// black was pocketed during this shot.
func (o *ShotOutcome) LeftWhenBlackDropped(g Group) int {
	switch g {
	case GroupSolids:
		return o.SolidsAtBlack
	case GroupStripes:
		return o.StripesAtBlack
	}
	return 0
}

// Reset clears the per-shot fields.
func (o *ShotOutcome) Reset() {
	o.Cushions = 0
	o.Pocketed = [4]bool{}
	o.PocketedIDs = make([]int, 0)
	o.SolidsAtBlack = 0
	o.StripesAtBlack = 0
}

// ShotClassifier detects the end of a shot: the frame where balls were moving
// last time and none are moving now.
type ShotClassifier struct {
	wasMoving bool
	moving    bool
}

// Observe records this frame's motion and reports whether the shot just ended.
func (c *ShotClassifier) Observe(moving bool) bool {
	c.wasMoving = c.moving
	c.moving = moving
	return c.wasMoving && !c.moving
}

// Moving reports the motion state seen on the last observed frame.
func (c *ShotClassifier) Moving() bool {
	return c.moving
}
