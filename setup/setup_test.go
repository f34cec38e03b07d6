package setup

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/signalnine/ruleforge/expr"
	"github.com/signalnine/ruleforge/spec"
	"github.com/signalnine/ruleforge/value"
)

func checkersDoc() *spec.Document {
	return &spec.Document{
		Metadata: spec.Metadata{Name: "checkers"},
		Players: spec.PlayersSpec{
			Count: spec.CountRange{Min: 2, Max: 2},
			Roles: []spec.RoleSpec{{Name: "Red"}, {Name: "Black"}},
		},
		Topology: spec.TopologySpec{Type: "discrete", Structure: "8x8"},
		StateSchema: spec.StateSchema{
			Global: map[string]spec.StateVarSpec{
				"turn_direction": {Initial: 1},
				"starter":        {Initial: "player('Red')"},
			},
		},
		Setup: spec.SetupSpec{
			Steps: []spec.SetupStep{
				{
					Action:        "spawn_entity",
					Schema:        "piece",
					SetAttributes: map[string]interface{}{"owner": "player('Red')", "rank": "man"},
					At:            []string{"grid_nodes(0,0,2,0)"},
				},
			},
		},
		GameFlow: spec.GameFlow{
			InitialPhase: "main",
			Phases:       map[string]spec.PhaseSpec{"main": {AllowedActions: []string{"step"}}},
		},
		Interactions: spec.Interactions{List: map[string]spec.ActionSpec{"step": {}}},
	}
}

func TestBuildStatePlayersAndTopology(t *testing.T) {
	doc := checkersDoc()
	s, err := BuildState(doc, 2, expr.NewSeededRNG(1))
	require.NoError(t, err)
	assert.Len(t, s.Players, 2)
	assert.Equal(t, "main", s.CurrentPhase)
	assert.NotNil(t, s.CurrentPlayer)
	assert.Equal(t, 8, s.Topology.Width)
	assert.Equal(t, 8, s.Topology.Height)
}

func TestBuildStateRejectsOutOfRangeCount(t *testing.T) {
	doc := checkersDoc()
	_, err := BuildState(doc, 5, expr.NewSeededRNG(1))
	assert.Error(t, err)
}

func TestBuildStateGlobalsResolvePlayerRef(t *testing.T) {
	doc := checkersDoc()
	s, err := BuildState(doc, 2, expr.NewSeededRNG(1))
	require.NoError(t, err)
	assert.Equal(t, value.Int(1), s.Vars["turn_direction"])
	starter, ok := s.Vars["starter"].(interface{ IdentityKey() string })
	require.True(t, ok)
	assert.Equal(t, "Red", starter.IdentityKey())
}

func TestSpawnEntityGridNodesRectangle(t *testing.T) {
	doc := checkersDoc()
	s, err := BuildState(doc, 2, expr.NewSeededRNG(1))
	require.NoError(t, err)
	assert.Len(t, s.Entities, 3)
	for x := 0; x <= 2; x++ {
		e, ok := s.Board[value.Coord{X: x, Y: 0}]
		require.True(t, ok)
		assert.Equal(t, "man", e.Rank)
		assert.Equal(t, "Red", e.Owner.Name)
	}
}

func TestDealCardsRoundRobin(t *testing.T) {
	doc := &spec.Document{
		Metadata: spec.Metadata{Name: "shed"},
		Players: spec.PlayersSpec{
			Count: spec.CountRange{Min: 2, Max: 2},
			Roles: []spec.RoleSpec{{Name: "Red"}, {Name: "Black"}},
		},
		Topology: spec.TopologySpec{
			Type: "zones",
			Zones: []spec.ZoneSpec{
				{Name: "draw_pile", Type: "stack", Ordered: true},
				{Name: "red_hand", Type: "hand", Owner: "Red", Ordered: true},
				{Name: "black_hand", Type: "hand", Owner: "Black", Ordered: true},
			},
		},
		Setup: spec.SetupSpec{
			Steps: []spec.SetupStep{
				{Action: "spawn_entity", Schema: "card", At: []string{"zone('draw_pile')", "zone('draw_pile')", "zone('draw_pile')", "zone('draw_pile')"}},
				{Action: "deal_cards", From: "draw_pile", To: spec.StringOrList{"red_hand", "black_hand"}, Count: 2},
			},
		},
		GameFlow: spec.GameFlow{
			InitialPhase: "main",
			Phases:       map[string]spec.PhaseSpec{"main": {AllowedActions: []string{"play"}}},
		},
		Interactions: spec.Interactions{List: map[string]spec.ActionSpec{"play": {}}},
	}
	s, err := BuildState(doc, 2, expr.NewSeededRNG(1))
	require.NoError(t, err)
	assert.Len(t, s.Zones["red_hand"].Entities, 2)
	assert.Len(t, s.Zones["black_hand"].Entities, 2)
	assert.Empty(t, s.Zones["draw_pile"].Entities)
}
