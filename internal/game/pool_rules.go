package game

// Player identifies one of the two seats at the table.
type Player string

const (
	PlayerNone Player = ""
	PlayerA    Player = "A"
	PlayerB    Player = "B"
)

// Opponent returns the other seat.
func (p Player) Opponent() Player {
	if p == PlayerA {
		return PlayerB
	}
	return PlayerA
}

// Group represents a ball group a player must clear.
type Group string

const (
	GroupNone    Group = ""
	GroupSolids  Group = "SOLIDS"
	GroupStripes Group = "STRIPES"
)

// Other returns the opposite group. GroupNone stays GroupNone.
func (g Group) Other() Group {
	switch g {
	case GroupSolids:
		return GroupStripes
	case GroupStripes:
		return GroupSolids
	}
	return GroupNone
}

// Valid reports whether g names one of the two groups.
func (g Group) Valid() bool {
	return g == GroupSolids || g == GroupStripes
}

// Phase is the stage of the match between shots.
type Phase string

const (
	PhaseOpen          Phase = "OPEN"           // no groups assigned yet
	PhaseChoosingGroup Phase = "CHOOSING_GROUP" // shooter must pick a group
	PhaseAssigned      Phase = "ASSIGNED"
	PhaseOver          Phase = "OVER"
)

// Win types.
const (
	WinPocketEight = "pocket_8"
	WinEarlyEight  = "early_8"
	WinScratchOn8  = "scratch_on_8"
)

// Foul types.
const (
	FoulScratch = "scratch"
	FoulBreak   = "break_foul"
)

// MatchState is the rule state between shots.
type MatchState struct {
	Turn       Player `json:"turn" msgpack:"turn"`
	Phase      Phase  `json:"phase" msgpack:"phase"`
	GroupA     Group  `json:"group_a" msgpack:"group_a"` // set once the table is no longer open
	IsBreak    bool   `json:"is_break" msgpack:"is_break"`
	FreeShot   bool   `json:"free_shot" msgpack:"free_shot"`
	Winner     Player `json:"winner,omitempty" msgpack:"winner"`
	WinType    string `json:"win_type,omitempty" msgpack:"win_type"`
	ShotNumber int    `json:"shot_number" msgpack:"shot_number"`
}

// NewMatchState returns the state before the break; player A breaks.
func NewMatchState() MatchState {
	return MatchState{
		Turn:    PlayerA,
		Phase:   PhaseOpen,
		IsBreak: true,
	}
}

// GroupOf returns the group assigned to p, or GroupNone while the table is open.
func (s MatchState) GroupOf(p Player) Group {
	if s.GroupA == GroupNone {
		return GroupNone
	}
	if p == PlayerA {
		return s.GroupA
	}
	return s.GroupA.Other()
}

// RequiredGroup returns the group the player at the table must pocket.
func (s MatchState) RequiredGroup() Group {
	return s.GroupOf(s.Turn)
}

// Open reports whether no group has been assigned yet.
func (s MatchState) Open() bool {
	return s.Phase == PhaseOpen
}

// Over reports whether the match has a winner.
func (s MatchState) Over() bool {
	return s.Phase == PhaseOver
}

// FoulInfo describes a foul that occurred during a shot.
type FoulInfo struct {
	Type    string `json:"type"` // "scratch", "break_foul"
	Message string `json:"message"`
}

// ShotResult represents the rule outcome of one finished shot.
type ShotResult struct {
	ShotNumber       int       `json:"shot_number"`
	Shooter          Player    `json:"shooter"`
	PocketedBalls    []int     `json:"pocketed_balls"`
	Cushions         int       `json:"cushions"`
	Foul             *FoulInfo `json:"foul,omitempty"`
	GroupAssigned    bool      `json:"group_assigned"`
	SelectionPending bool      `json:"selection_pending"`
	GroupA           Group     `json:"group_a"`
	TurnChange       bool      `json:"turn_change"`
	NextTurn         Player    `json:"next_turn"`
	FreeShot         bool      `json:"free_shot"`
	GameOver         bool      `json:"game_over"`
	Winner           Player    `json:"winner,omitempty"`
	WinType          string    `json:"win_type,omitempty"`
}

// FinalizeShot applies the aggregate outcome of a finished shot to the match
// state. Every combination of inputs maps to a next state; a match that is
// already over is returned unchanged.
func FinalizeShot(s MatchState, out ShotOutcome) (MatchState, ShotResult) {
	shooter := s.Turn
	result := ShotResult{
		Shooter:       shooter,
		PocketedBalls: append([]int{}, out.PocketedIDs...),
		Cushions:      out.Cushions,
	}
	if s.Over() || s.Phase == PhaseChoosingGroup {
		return s, result.finish(s)
	}

	s.ShotNumber++
	result.ShotNumber = s.ShotNumber
	wasBreak := s.IsBreak
	s.IsBreak = false
	s.FreeShot = false

	// === FOUL DETECTION ===
	scratch := out.Has(CategoryCue)
	anyGroup := out.Has(CategorySolid) || out.Has(CategoryStripe)

	var foul *FoulInfo
	if scratch {
		foul = &FoulInfo{Type: FoulScratch, Message: "Cue ball pocketed"}
	} else if wasBreak && !anyGroup && out.Cushions < BreakMinCushions {
		foul = &FoulInfo{Type: FoulBreak, Message: "Not enough cushion contacts on break"}
	}
	result.Foul = foul

	// === BLACK BALL ===
	if out.Has(CategoryDesignated) {
		own := s.GroupOf(shooter)
		legal := s.Phase == PhaseAssigned && out.LeftWhenBlackDropped(own) == 0 && !scratch

		s.Phase = PhaseOver
		if legal {
			s.Winner = shooter
			s.WinType = WinPocketEight
		} else {
			s.Winner = shooter.Opponent()
			s.WinType = WinEarlyEight
			if scratch {
				s.WinType = WinScratchOn8
			}
		}
		return s, result.finish(s)
	}

	if foul != nil {
		s.Turn = shooter.Opponent()
		s.FreeShot = true
		return s, result.finish(s)
	}

	// === GROUP ASSIGNMENT / TURN ===
	switch s.Phase {
	case PhaseOpen:
		solids, stripes := out.Has(CategorySolid), out.Has(CategoryStripe)
		switch {
		case wasBreak:
			if !anyGroup {
				s.Turn = shooter.Opponent()
			}
		case solids && stripes:
			s.Phase = PhaseChoosingGroup
		case solids || stripes:
			own := GroupSolids
			if stripes {
				own = GroupStripes
			}
			s = assignGroup(s, shooter, own)
			result.GroupAssigned = true
		default:
			s.Turn = shooter.Opponent()
		}

	case PhaseAssigned:
		own := s.GroupOf(shooter)
		if !out.HasGroup(own) || out.HasGroup(own.Other()) {
			s.Turn = shooter.Opponent()
		}
	}

	return s, result.finish(s)
}

// ResolveGroupSelection settles a pending group choice for the player at the
// table. It reports false, leaving s untouched, when no choice is pending or
// the choice is not a group.
func ResolveGroupSelection(s MatchState, choice Group) (MatchState, bool) {
	if s.Phase != PhaseChoosingGroup || !choice.Valid() {
		return s, false
	}
	return assignGroup(s, s.Turn, choice), true
}

func assignGroup(s MatchState, p Player, g Group) MatchState {
	if p == PlayerA {
		s.GroupA = g
	} else {
		s.GroupA = g.Other()
	}
	s.Phase = PhaseAssigned
	return s
}

// finish copies the post-shot state into the result.
func (r ShotResult) finish(s MatchState) ShotResult {
	r.SelectionPending = s.Phase == PhaseChoosingGroup
	r.GroupA = s.GroupA
	r.TurnChange = s.Turn != r.Shooter
	r.NextTurn = s.Turn
	r.FreeShot = s.FreeShot
	r.GameOver = s.Over()
	r.Winner = s.Winner
	r.WinType = s.WinType
	if r.GameOver {
		r.NextTurn = PlayerNone
	}
	return r
}
