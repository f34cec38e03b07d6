package action

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

func newGridState() (*state.GameState, *state.Player, *state.Player) {
	s := state.New()
	red := state.NewPlayer("Red", nil)
	black := state.NewPlayer("Black", nil)
	s.AddPlayer(red)
	s.AddPlayer(black)
	s.CurrentPlayer = red
	s.Topology = state.Topology{Kind: state.TopologyGrid, Width: 8, Height: 8}
	return s, red, black
}

func TestTrySimpleStepMatchesAndApplies(t *testing.T) {
	s, red, _ := newGridState()
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
	}
	eng := NewEngine(doc)
	ev := expr.NewEvaluator(s, expr.NewSeededRNG(1), zerolog.Nop())
	ctx := expr.BaseContext(s)
	ctx["entity"] = e
	ctx["origin"] = value.Coord{X: 2, Y: 2}
	ctx["target"] = value.Coord{X: 3, Y: 3}

	m, err := eng.Try(ev, []string{"step"}, ctx, false)
	require.NoError(t, err)
	require.NotNil(t, m)
	assert.Equal(t, "step", m.ActionName)
	assert.Same(t, e, s.Board[value.Coord{X: 3, Y: 3}])
	_, stillThere := s.Board[value.Coord{X: 2, Y: 2}]
	assert.False(t, stillThere)
}

func TestTryNoMatchReturnsNilMatch(t *testing.T) {
	s, red, _ := newGridState()
	e := &state.Entity{ID: s.NextEntityID(), Schema: "piece", Owner: red, Attributes: map[string]value.Value{}}
	s.AddEntity(e)
	s.PlaceOnBoard(e, value.Coord{X: 2, Y: 2})

	doc := &spec.Document{
		Interactions: spec.Interactions{
			List: map[string]spec.ActionSpec{
				"step": {Conditions: []string{"eq(1, 2)"}},
			},
		},
	}
	eng := NewEngine(doc)
	ev := expr.NewEvaluator(s, expr.NewSeededRNG(1), zerolog.Nop())
	ctx := expr.BaseContext(s)

	m, err := eng.Try(ev, []string{"step"}, ctx, false)
	require.NoError(t, err)
	assert.Nil(t, m)
}

func TestApplyRemoveEntityClearsBoard(t *testing.T) {
	s, red, black := newGridState()
	captured := &state.Entity{ID: s.NextEntityID(), Schema: "piece", Owner: black, Attributes: map[string]value.Value{}}
	s.AddEntity(captured)
	s.PlaceOnBoard(captured, value.Coord{X: 3, Y: 3})

	mover := &state.Entity{ID: s.NextEntityID(), Schema: "piece", Owner: red, Attributes: map[string]value.Value{}}
	s.AddEntity(mover)
	s.PlaceOnBoard(mover, value.Coord{X: 2, Y: 2})

	doc := &spec.Document{
		Interactions: spec.Interactions{
			List: map[string]spec.ActionSpec{
				"jump": {
					Conditions: []string{"eq(board[mid], target_occupant)"},
					Effects: []string{
						"remove_entity(board[mid])",
						"set(board[dest], entity)",
						"set(board[origin], null)",
					},
				},
			},
		},
	}
	eng := NewEngine(doc)
	ev := expr.NewEvaluator(s, expr.NewSeededRNG(1), zerolog.Nop())
	ctx := expr.BaseContext(s)
	ctx["entity"] = mover
	ctx["origin"] = value.Coord{X: 2, Y: 2}
	ctx["mid"] = value.Coord{X: 3, Y: 3}
	ctx["dest"] = value.Coord{X: 4, Y: 4}
	ctx["target_occupant"] = captured
	// override the condition to always pass so only the effects are under test.
	doc.Interactions.List["jump"] = spec.ActionSpec{
		Conditions: []string{"eq(1, 1)"},
		Effects:    doc.Interactions.List["jump"].Effects,
	}

	m, err := eng.Try(ev, []string{"jump"}, ctx, false)
	require.NoError(t, err)
	require.NotNil(t, m)
	_, stillEntity := s.Entities[captured.ID]
	assert.False(t, stillEntity)
	_, midOccupied := s.Board[value.Coord{X: 3, Y: 3}]
	assert.False(t, midOccupied)
	assert.Same(t, mover, s.Board[value.Coord{X: 4, Y: 4}])
}

func TestApplySetStateVar(t *testing.T) {
	s, _, _ := newGridState()
	doc := &spec.Document{
		Interactions: spec.Interactions{
			List: map[string]spec.ActionSpec{
				"bump": {Conditions: []string{"eq(1, 1)"}, Effects: []string{"set(state.turn_count, add(state.turn_count, 1))"}},
			},
		},
	}
	s.Vars["turn_count"] = value.Int(0)
	eng := NewEngine(doc)
	ev := expr.NewEvaluator(s, expr.NewSeededRNG(1), zerolog.Nop())
	ctx := expr.BaseContext(s)

	_, err := eng.Try(ev, []string{"bump"}, ctx, false)
	require.NoError(t, err)
	assert.Equal(t, value.Int(1), s.Vars["turn_count"])
}

func TestTrySkipsCardConditionsWhenNoCard(t *testing.T) {
	s, _, _ := newGridState()
	doc := &spec.Document{
		Interactions: spec.Interactions{
			List: map[string]spec.ActionSpec{
				"draw": {Conditions: []string{"eq(card.color, 'red')"}},
			},
		},
	}
	eng := NewEngine(doc)
	ev := expr.NewEvaluator(s, expr.NewSeededRNG(1), zerolog.Nop())
	ctx := expr.BaseContext(s)

	m, err := eng.Try(ev, []string{"draw"}, ctx, false)
	require.NoError(t, err)
	require.NotNil(t, m)
	assert.Equal(t, "draw", m.ActionName)
}
