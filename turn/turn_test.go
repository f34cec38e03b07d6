package turn

import (
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/signalnine/ruleforge/expr"
	"github.com/signalnine/ruleforge/spec"
	"github.com/signalnine/ruleforge/state"
	"github.com/signalnine/ruleforge/value"
)

func newGridState(t *testing.T) (*state.GameState, *state.Player, *state.Player) {
	t.Helper()
	s := state.New()
	red := state.NewPlayer("Red", nil)
	black := state.NewPlayer("Black", nil)
	s.AddPlayer(red)
	s.AddPlayer(black)
	s.CurrentPlayer = red
	s.CurrentPhase = "main"
	s.Topology = state.Topology{Kind: state.TopologyGrid, Width: 8, Height: 8}
	return s, red, black
}

func checkersStyleDoc() *spec.Document {
	return &spec.Document{
		Interactions: spec.Interactions{
			List: map[string]spec.ActionSpec{
				"step": {
					Conditions: []string{"eq(board[target], null)"},
					Effects:    []string{"set(board[target], entity)", "set(board[origin], null)"},
					Chainable:  false,
				},
				"jump": {
					Conditions: []string{"eq(board[target], null)"},
					Effects: []string{
						"remove_entity(board[mid])",
						"set(board[target], entity)",
						"set(board[origin], null)",
					},
					Chainable: true,
				},
			},
		},
		GameFlow: spec.GameFlow{
			Phases: map[string]spec.PhaseSpec{
				"main": {AllowedActions: []string{"step", "jump"}},
			},
		},
	}
}

func TestGridMoveSimpleStepCommitsAndAdvancesTurn(t *testing.T) {
	s, red, _ := newGridState(t)
	e := &state.Entity{ID: s.NextEntityID(), Schema: "piece", Owner: red, Rank: "man", Attributes: map[string]value.Value{}}
	s.AddEntity(e)
	s.PlaceOnBoard(e, value.Coord{X: 2, Y: 2})

	doc := &spec.Document{
		Interactions: spec.Interactions{
			List: map[string]spec.ActionSpec{
				"step": {
					Conditions: []string{"eq(board[target], null)"},
					Effects:    []string{"set(board[target], entity)", "set(board[origin], null)"},
				},
			},
		},
		GameFlow: spec.GameFlow{
			Phases: map[string]spec.PhaseSpec{
				"main": {AllowedActions: []string{"step"}},
			},
		},
	}
	ctrl := NewController(doc)
	ev := expr.NewEvaluator(s, expr.NewSeededRNG(1), zerolog.Nop())

	next, err := ctrl.GridMove(ev, []value.Coord{{X: 2, Y: 2}, {X: 3, Y: 3}})
	require.NoError(t, err)
	require.NotNil(t, next)
	assert.Same(t, ev.State, next, "evaluator should end up bound to the committed state")

	moved, ok := next.Board[value.Coord{X: 3, Y: 3}]
	require.True(t, ok)
	assert.Equal(t, "piece", moved.Schema)
	_, stillAtOrigin := next.Board[value.Coord{X: 2, Y: 2}]
	assert.False(t, stillAtOrigin)

	assert.Equal(t, "Black", next.CurrentPlayer.Name)
	// the live state the caller started with must be untouched
	_, stillThereOnLive := s.Board[value.Coord{X: 2, Y: 2}]
	assert.True(t, stillThereOnLive)
}

func TestGridMoveMultiJumpChainRequiresChainableEverySegment(t *testing.T) {
	s, red, black := newGridState(t)
	mover := &state.Entity{ID: s.NextEntityID(), Schema: "piece", Owner: red, Attributes: map[string]value.Value{}}
	s.AddEntity(mover)
	s.PlaceOnBoard(mover, value.Coord{X: 0, Y: 0})

	victim1 := &state.Entity{ID: s.NextEntityID(), Schema: "piece", Owner: black, Attributes: map[string]value.Value{}}
	s.AddEntity(victim1)
	s.PlaceOnBoard(victim1, value.Coord{X: 1, Y: 1})

	victim2 := &state.Entity{ID: s.NextEntityID(), Schema: "piece", Owner: black, Attributes: map[string]value.Value{}}
	s.AddEntity(victim2)
	s.PlaceOnBoard(victim2, value.Coord{X: 3, Y: 3})

	doc := &spec.Document{
		Interactions: spec.Interactions{
			List: map[string]spec.ActionSpec{
				"jump": {
					Conditions: []string{"eq(board[target], null)"},
					Effects: []string{
						"remove_entity(board[mid_pos(origin, target)])",
						"set(board[target], entity)",
						"set(board[origin], null)",
					},
					Chainable: true,
				},
			},
		},
		GameFlow: spec.GameFlow{
			Phases: map[string]spec.PhaseSpec{
				"main": {AllowedActions: []string{"jump"}},
			},
		},
	}

	ctrl := NewController(doc)
	ev := expr.NewEvaluator(s, expr.NewSeededRNG(1), zerolog.Nop())

	next, err := ctrl.GridMove(ev, []value.Coord{{X: 0, Y: 0}, {X: 2, Y: 2}, {X: 4, Y: 4}})
	require.NoError(t, err)
	require.NotNil(t, next)

	_, v1Still := next.Entities[victim1.ID]
	_, v2Still := next.Entities[victim2.ID]
	assert.False(t, v1Still)
	assert.False(t, v2Still)
	assert.Same(t, next.Players[mover.Owner.Name], next.Board[value.Coord{X: 4, Y: 4}].Owner)
}

func TestGridMoveRejectsNonChainableMidPath(t *testing.T) {
	s, red, _ := newGridState(t)
	e := &state.Entity{ID: s.NextEntityID(), Schema: "piece", Owner: red, Attributes: map[string]value.Value{}}
	s.AddEntity(e)
	s.PlaceOnBoard(e, value.Coord{X: 2, Y: 2})

	doc := checkersStyleDoc() // "step" is not chainable
	ctrl := NewController(doc)
	ev := expr.NewEvaluator(s, expr.NewSeededRNG(1), zerolog.Nop())

	_, err := ctrl.GridMove(ev, []value.Coord{{X: 2, Y: 2}, {X: 3, Y: 3}, {X: 4, Y: 4}})
	require.Error(t, err)
	assert.Same(t, s, ev.State, "evaluator must be restored to the live state on rejection")
	_, stillAtOrigin := s.Board[value.Coord{X: 2, Y: 2}]
	assert.True(t, stillAtOrigin, "live state must be untouched on rejection")
}

func TestGridMoveNoMatchLeavesStateUntouched(t *testing.T) {
	s, red, _ := newGridState(t)
	e := &state.Entity{ID: s.NextEntityID(), Schema: "piece", Owner: red, Attributes: map[string]value.Value{}}
	s.AddEntity(e)
	s.PlaceOnBoard(e, value.Coord{X: 2, Y: 2})
	// occupy the target so neither step nor jump's "target is empty" condition holds
	occupant := &state.Entity{ID: s.NextEntityID(), Schema: "piece", Owner: red, Attributes: map[string]value.Value{}}
	s.AddEntity(occupant)
	s.PlaceOnBoard(occupant, value.Coord{X: 3, Y: 3})

	ctrl := NewController(checkersStyleDoc())
	ev := expr.NewEvaluator(s, expr.NewSeededRNG(1), zerolog.Nop())

	_, err := ctrl.GridMove(ev, []value.Coord{{X: 2, Y: 2}, {X: 3, Y: 3}})
	require.Error(t, err)
	assert.Same(t, s, ev.State)
}

func cardGameDoc() *spec.Document {
	return &spec.Document{
		Interactions: spec.Interactions{
			List: map[string]spec.ActionSpec{
				"play": {
					Conditions: []string{"eq(card.color, 'red')"},
					Effects:    []string{"move_to_zone(card, zone('discard'))"},
					EndTurn:    true,
				},
				"draw_card": {
					Effects: []string{"draw_cards(zone('deck'), hand_zone, 1)"},
				},
			},
		},
		GameFlow: spec.GameFlow{
			Phases: map[string]spec.PhaseSpec{
				"main": {AllowedActions: []string{"play", "draw_card"}},
			},
		},
	}
}

func newCardState(t *testing.T) (*state.GameState, *state.Player, *state.Zone, *state.Zone, *state.Zone) {
	t.Helper()
	s := state.New()
	red := state.NewPlayer("Red", nil)
	black := state.NewPlayer("Black", nil)
	s.AddPlayer(red)
	s.AddPlayer(black)
	s.CurrentPlayer = red
	s.CurrentPhase = "main"

	hand := state.NewZone("red_hand", "hand", red, true, true, nil)
	deck := state.NewZone("deck", "stack", nil, true, true, nil)
	discard := state.NewZone("discard", "stack", nil, true, true, nil)
	s.Zones["red_hand"] = hand
	s.Zones["deck"] = deck
	s.Zones["discard"] = discard
	return s, red, hand, deck, discard
}

func TestCardMovePlayLegalCardEndsTurn(t *testing.T) {
	s, _, hand, _, _ := newCardState(t)
	card := &state.Entity{ID: s.NextEntityID(), Schema: "card", Attributes: map[string]value.Value{"color": value.Str("red")}}
	s.AddEntity(card)
	hand.Append(card)
	// a second card keeps the hand non-empty after the play, isolating
	// "ends turn" from the separate empty-hand win condition below.
	other := &state.Entity{ID: s.NextEntityID(), Schema: "card", Attributes: map[string]value.Value{"color": value.Str("black")}}
	s.AddEntity(other)
	hand.Append(other)

	ctrl := NewController(cardGameDoc())
	ev := expr.NewEvaluator(s, expr.NewSeededRNG(1), zerolog.Nop())

	action, winner, err := ctrl.CardMove(ev, 1)
	require.NoError(t, err)
	assert.Equal(t, "play", action)
	assert.Nil(t, winner)
	assert.Equal(t, "Black", s.CurrentPlayer.Name)
	assert.Len(t, hand.Entities, 1)
}

func TestCardMoveDrawOnlyAttemptsDrawCardAction(t *testing.T) {
	s, _, hand, deck, _ := newCardState(t)
	top := &state.Entity{ID: s.NextEntityID(), Schema: "card", Attributes: map[string]value.Value{}}
	s.AddEntity(top)
	deck.Append(top)

	ctrl := NewController(cardGameDoc())
	ev := expr.NewEvaluator(s, expr.NewSeededRNG(1), zerolog.Nop())

	action, winner, err := ctrl.CardMove(ev, 0)
	require.NoError(t, err)
	assert.Equal(t, "draw_card", action)
	assert.Nil(t, winner)
	assert.Len(t, hand.Entities, 1)
	assert.Empty(t, deck.Entities)
}

// TestCardMoveDrawDoesNotMatchCardOnlyAction guards against regressing to
// "try every phase-allowed action with card.* conditions skipped": a
// card-less play action whose only condition references card.* would be
// vacuously truthy and wrongly match on draw instead of draw_card.
func TestCardMoveDrawDoesNotMatchCardOnlyAction(t *testing.T) {
	s, _, hand, deck, _ := newCardState(t)
	top := &state.Entity{ID: s.NextEntityID(), Schema: "card", Attributes: map[string]value.Value{}}
	s.AddEntity(top)
	deck.Append(top)

	doc := &spec.Document{
		Interactions: spec.Interactions{
			List: map[string]spec.ActionSpec{
				"play": {
					Conditions: []string{"eq(card.color, 'red')"},
					Effects:    []string{"move_to_zone(card, zone('discard'))"},
					EndTurn:    true,
				},
				"draw_card": {
					Effects: []string{"draw_cards(zone('deck'), hand_zone, 1)"},
				},
			},
		},
		GameFlow: spec.GameFlow{
			Phases: map[string]spec.PhaseSpec{
				// "play" listed first: if draw ever fell back to scanning
				// allowed_actions with card.* conditions skipped, it would
				// wrongly match "play" here instead of draw_card.
				"main": {AllowedActions: []string{"play", "draw_card"}},
			},
		},
	}
	ctrl := NewController(doc)
	ev := expr.NewEvaluator(s, expr.NewSeededRNG(1), zerolog.Nop())

	action, winner, err := ctrl.CardMove(ev, 0)
	require.NoError(t, err)
	assert.Equal(t, "draw_card", action)
	assert.Nil(t, winner)
	assert.Len(t, hand.Entities, 1)
	assert.Empty(t, deck.Entities)
}

func TestCardMoveInvalidIndexReturnsError(t *testing.T) {
	s, _, _, _, _ := newCardState(t)
	ctrl := NewController(cardGameDoc())
	ev := expr.NewEvaluator(s, expr.NewSeededRNG(1), zerolog.Nop())

	_, _, err := ctrl.CardMove(ev, 5)
	require.Error(t, err)
}

func TestCardMoveWinsWhenHandEmptiedAfterPlay(t *testing.T) {
	s, _, hand, _, _ := newCardState(t)
	card := &state.Entity{ID: s.NextEntityID(), Schema: "card", Attributes: map[string]value.Value{"color": value.Str("red")}}
	s.AddEntity(card)
	hand.Append(card)

	ctrl := NewController(cardGameDoc())
	ev := expr.NewEvaluator(s, expr.NewSeededRNG(1), zerolog.Nop())

	_, winner, err := ctrl.CardMove(ev, 1)
	require.NoError(t, err)
	require.NotNil(t, winner)
	assert.Equal(t, "Red", winner.Name)
}
