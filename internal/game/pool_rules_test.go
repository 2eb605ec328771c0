package game

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

// shot builds an outcome with the given remaining counts, cushions and pocketed ids in order.
func shot(solidsLeft, stripesLeft, cushions int, ids ...int) ShotOutcome {
	o := NewShotOutcome()
	o.SolidsLeft, o.StripesLeft = solidsLeft, stripesLeft
	for i := 0; i < cushions; i++ {
		o.RecordCushion()
	}
	for _, id := range ids {
		o.RecordPocket(id)
	}
	return o
}

func openState(turn Player) MatchState {
	s := NewMatchState()
	s.IsBreak = false
	s.Turn = turn
	return s
}

func assignedState(turn Player, groupA Group) MatchState {
	s := openState(turn)
	s.Phase = PhaseAssigned
	s.GroupA = groupA
	return s
}

func TestFinalizeShot(t *testing.T) {
	tests := []struct {
		name     string
		state    MatchState
		out      ShotOutcome
		turn     Player
		phase    Phase
		groupA   Group
		freeShot bool
		foul     string
		winner   Player
		winType  string
		assigned bool
	}{
		{
			name:  "break with a group ball keeps the shooter",
			state: NewMatchState(), out: shot(7, 7, 1, 3),
			turn: PlayerA, phase: PhaseOpen,
		},
		{
			name:  "break with four cushions passes the turn",
			state: NewMatchState(), out: shot(7, 7, 4),
			turn: PlayerB, phase: PhaseOpen,
		},
		{
			name:  "break with three cushions is a foul",
			state: NewMatchState(), out: shot(7, 7, 3),
			turn: PlayerB, phase: PhaseOpen, freeShot: true, foul: FoulBreak,
		},
		{
			name:  "break scratch is a foul even with a group ball",
			state: NewMatchState(), out: shot(7, 7, 5, 0, 12),
			turn: PlayerB, phase: PhaseOpen, freeShot: true, foul: FoulScratch,
		},
		{
			name:  "break dropping both groups stays open",
			state: NewMatchState(), out: shot(7, 7, 2, 2, 10),
			turn: PlayerA, phase: PhaseOpen,
		},
		{
			name:  "open table single solid assigns solids to A",
			state: openState(PlayerA), out: shot(7, 7, 0, 4),
			turn: PlayerA, phase: PhaseAssigned, groupA: GroupSolids, assigned: true,
		},
		{
			name:  "open table single solid by B gives A stripes",
			state: openState(PlayerB), out: shot(7, 7, 0, 4, 5),
			turn: PlayerB, phase: PhaseAssigned, groupA: GroupStripes, assigned: true,
		},
		{
			name:  "open table both groups asks for a choice",
			state: openState(PlayerA), out: shot(7, 7, 1, 6, 9),
			turn: PlayerA, phase: PhaseChoosingGroup,
		},
		{
			name:  "open table nothing dropped passes the turn",
			state: openState(PlayerA), out: shot(7, 7, 2),
			turn: PlayerB, phase: PhaseOpen,
		},
		{
			name:  "open table scratch with a group ball assigns nothing",
			state: openState(PlayerA), out: shot(7, 7, 0, 3, 0),
			turn: PlayerB, phase: PhaseOpen, freeShot: true, foul: FoulScratch,
		},
		{
			name:  "assigned own ball continues",
			state: assignedState(PlayerA, GroupSolids), out: shot(5, 7, 1, 2),
			turn: PlayerA, phase: PhaseAssigned, groupA: GroupSolids,
		},
		{
			name:  "assigned own and opponent ball passes the turn",
			state: assignedState(PlayerA, GroupSolids), out: shot(5, 7, 1, 2, 11),
			turn: PlayerB, phase: PhaseAssigned, groupA: GroupSolids,
		},
		{
			name:  "assigned opponent ball only passes the turn",
			state: assignedState(PlayerB, GroupSolids), out: shot(5, 7, 1, 1),
			turn: PlayerA, phase: PhaseAssigned, groupA: GroupSolids,
		},
		{
			name:  "assigned scratch is a foul",
			state: assignedState(PlayerB, GroupSolids), out: shot(5, 7, 1, 0, 9),
			turn: PlayerA, phase: PhaseAssigned, groupA: GroupSolids, freeShot: true, foul: FoulScratch,
		},
		{
			name:  "black after clearing the group wins",
			state: assignedState(PlayerA, GroupSolids), out: shot(1, 4, 2, 7, 8),
			turn: PlayerNone, phase: PhaseOver, groupA: GroupSolids, winner: PlayerA, winType: WinPocketEight,
		},
		{
			name:  "black before the last own ball loses",
			state: assignedState(PlayerA, GroupSolids), out: shot(1, 4, 2, 8, 7),
			turn: PlayerNone, phase: PhaseOver, groupA: GroupSolids, winner: PlayerB, winType: WinEarlyEight,
		},
		{
			name:  "black with own group left loses",
			state: assignedState(PlayerB, GroupSolids), out: shot(0, 3, 1, 8),
			turn: PlayerNone, phase: PhaseOver, groupA: GroupSolids, winner: PlayerA, winType: WinEarlyEight,
		},
		{
			name:  "black with scratch loses even when cleared",
			state: assignedState(PlayerA, GroupStripes), out: shot(4, 0, 1, 8, 0),
			turn: PlayerNone, phase: PhaseOver, groupA: GroupStripes, winner: PlayerB, winType: WinScratchOn8,
			foul: FoulScratch,
		},
		{
			name:  "black on the break loses",
			state: NewMatchState(), out: shot(7, 7, 4, 8),
			turn: PlayerNone, phase: PhaseOver, winner: PlayerB, winType: WinEarlyEight,
		},
		{
			name:  "black on an open table loses",
			state: openState(PlayerB), out: shot(7, 7, 0, 8),
			turn: PlayerNone, phase: PhaseOver, winner: PlayerA, winType: WinEarlyEight,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			next, res := FinalizeShot(tt.state, tt.out)

			assert.Equal(t, tt.phase, next.Phase)
			assert.Equal(t, tt.groupA, next.GroupA)
			assert.Equal(t, tt.freeShot, next.FreeShot)
			assert.Equal(t, tt.winner, next.Winner)
			assert.Equal(t, tt.winType, next.WinType)
			assert.False(t, next.IsBreak)
			assert.Equal(t, tt.state.ShotNumber+1, next.ShotNumber)

			assert.Equal(t, tt.turn, res.NextTurn)
			assert.Equal(t, tt.assigned, res.GroupAssigned)
			assert.Equal(t, tt.phase == PhaseOver, res.GameOver)
			assert.Equal(t, tt.phase == PhaseChoosingGroup, res.SelectionPending)
			assert.Equal(t, tt.state.Turn, res.Shooter)
			assert.Equal(t, tt.out.PocketedIDs, res.PocketedBalls)
			assert.Equal(t, tt.out.Cushions, res.Cushions)
			if tt.foul == "" {
				assert.Nil(t, res.Foul)
			} else if assert.NotNil(t, res.Foul) {
				assert.Equal(t, tt.foul, res.Foul.Type)
			}
			if tt.phase != PhaseOver {
				assert.Equal(t, tt.turn, next.Turn)
				assert.Equal(t, tt.turn != tt.state.Turn, res.TurnChange)
			}
		})
	}
}

func TestFinalizeShotIgnoresFinishedMatch(t *testing.T) {
	s := assignedState(PlayerA, GroupSolids)
	s.Phase = PhaseOver
	s.Winner = PlayerA
	s.WinType = WinPocketEight
	s.ShotNumber = 12

	next, res := FinalizeShot(s, shot(0, 3, 2, 0))

	assert.Equal(t, s, next)
	assert.True(t, res.GameOver)
	assert.Equal(t, PlayerA, res.Winner)
}

func TestRequiredGroupFollowsTheTurn(t *testing.T) {
	s := assignedState(PlayerA, GroupStripes)
	assert.Equal(t, GroupStripes, s.RequiredGroup())

	next, _ := FinalizeShot(s, shot(7, 5, 1))
	assert.Equal(t, PlayerB, next.Turn)
	assert.Equal(t, GroupSolids, next.RequiredGroup())

	assert.Equal(t, GroupNone, NewMatchState().RequiredGroup())
}

func TestResolveGroupSelection(t *testing.T) {
	choosing := openState(PlayerB)
	choosing.Phase = PhaseChoosingGroup

	tests := []struct {
		name   string
		state  MatchState
		choice Group
		ok     bool
		groupA Group
	}{
		{"B takes solids", choosing, GroupSolids, true, GroupStripes},
		{"B takes stripes", choosing, GroupStripes, true, GroupSolids},
		{"no group", choosing, GroupNone, false, GroupNone},
		{"unknown group", choosing, Group("SPOTS"), false, GroupNone},
		{"nothing pending", openState(PlayerB), GroupSolids, false, GroupNone},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			next, ok := ResolveGroupSelection(tt.state, tt.choice)

			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.groupA, next.GroupA)
			if ok {
				assert.Equal(t, PhaseAssigned, next.Phase)
				assert.Equal(t, tt.choice, next.GroupOf(PlayerB))
				assert.Equal(t, tt.choice.Other(), next.GroupOf(PlayerA))
				assert.Equal(t, PlayerB, next.Turn)
			} else {
				assert.Equal(t, tt.state, next)
			}
		})
	}
}

func TestGroupHelpers(t *testing.T) {
	assert.Equal(t, GroupStripes, GroupSolids.Other())
	assert.Equal(t, GroupSolids, GroupStripes.Other())
	assert.Equal(t, GroupNone, GroupNone.Other())
	assert.True(t, GroupSolids.Valid())
	assert.False(t, Group("").Valid())
	assert.Equal(t, PlayerB, PlayerA.Opponent())
	assert.Equal(t, PlayerA, PlayerB.Opponent())
}
