// Package setup implements the Setup Executor (§4.4): it turns a decoded
// spec.Document plus a chosen player count into an initialized
// state.GameState. Grounded on original_source/game.py's setup_game and
// _execute_setup_step, restructured as typed Go functions operating on
// spec.SetupStep documents instead of regex-matched Python dict steps.
package setup

import (
	"fmt"

	"github.com/signalnine/ruleforge/expr"
	"github.com/signalnine/ruleforge/ruleerr"
	"github.com/signalnine/ruleforge/spec"
	"github.com/signalnine/ruleforge/state"
	"github.com/signalnine/ruleforge/value"
)

// BuildState runs the full setup pipeline: players, topology, global
// state variables, then setup.steps in order. rng is the single
// engine-level randomness source §5 requires (shared with the
// expression evaluator's shuffle/random_int builtins so a seeded RNG
// makes the whole run reproducible).
func BuildState(doc *spec.Document, playerCount int, rng expr.RNG) (*state.GameState, error) {
	if playerCount < doc.Players.Count.Min || playerCount > doc.Players.Count.Max {
		return nil, ruleerr.New(ruleerr.SpecLoadError,
			fmt.Sprintf("player count %d outside declared range [%d,%d]", playerCount, doc.Players.Count.Min, doc.Players.Count.Max))
	}

	s := state.New()

	if err := createPlayers(s, doc, playerCount); err != nil {
		return nil, err
	}
	if err := setupTopology(s, doc); err != nil {
		return nil, err
	}
	initGlobals(s, doc)

	for _, step := range doc.Setup.Steps {
		if err := runStep(s, step, rng); err != nil {
			return nil, err
		}
	}

	players := s.OrderedPlayers()
	if len(players) > 0 {
		s.CurrentPlayer = players[0]
	}
	s.CurrentPhase = doc.GameFlow.InitialPhase

	return s, nil
}

// createPlayers materializes one Player per declared role, or, when
// dynamic_roles is set, one Player per requested seat copying the first
// role's attribute template with generated names `Player{i+1}` (§12).
func createPlayers(s *state.GameState, doc *spec.Document, playerCount int) error {
	if doc.Players.DynamicRoles {
		if len(doc.Players.Roles) == 0 {
			return ruleerr.New(ruleerr.SpecLoadError, "dynamic_roles requires at least one role template")
		}
		template := doc.Players.Roles[0]
		for i := 0; i < playerCount; i++ {
			name := fmt.Sprintf("Player%d", i+1)
			s.AddPlayer(state.NewPlayer(name, convertAttrs(template.Attributes)))
		}
		return nil
	}
	for i, role := range doc.Players.Roles {
		if i >= playerCount {
			break
		}
		s.AddPlayer(state.NewPlayer(role.Name, convertAttrs(role.Attributes)))
	}
	return nil
}

func setupTopology(s *state.GameState, doc *spec.Document) error {
	switch doc.Topology.Type {
	case "discrete":
		w, h, ok := spec.ParseStructure(doc.Topology.Structure)
		if !ok {
			return ruleerr.New(ruleerr.SpecLoadError, "topology.structure must be a WxH shape")
		}
		s.Topology = state.Topology{Kind: state.TopologyGrid, Width: w, Height: h}
	case "zones":
		s.Topology = state.Topology{Kind: state.TopologyZones}
	}

	for _, zs := range doc.Topology.Zones {
		var owner *state.Player
		if zs.Owner != "" {
			owner = s.PlayerByName(zs.Owner)
		}
		var visibleTo []*state.Player
		for _, name := range zs.VisibleTo {
			if p := s.PlayerByName(name); p != nil {
				visibleTo = append(visibleTo, p)
			}
		}
		s.Zones[zs.Name] = state.NewZone(zs.Name, zs.Type, owner, zs.Visible, zs.Ordered, visibleTo)
	}
	return nil
}

// initGlobals resolves state_schema.global initial values: `player('X')`
// strings to a Player reference, numeric literals to ints, otherwise the
// raw string (§4.4).
func initGlobals(s *state.GameState, doc *spec.Document) {
	for name, v := range doc.StateSchema.Global {
		s.Vars[name] = resolveScalar(s, v.Initial)
	}
}

func convertAttrs(raw map[string]interface{}) map[string]value.Value {
	out := make(map[string]value.Value, len(raw))
	for k, v := range raw {
		out[k] = resolveScalarNoState(v)
	}
	return out
}

// resolveScalar converts a YAML-decoded scalar to a Value, resolving
// `player('Name')` against already-created players.
func resolveScalar(s *state.GameState, raw interface{}) value.Value {
	if str, ok := raw.(string); ok {
		if name, ok := spec.ParsePlayerRef(str); ok {
			if p := s.PlayerByName(name); p != nil {
				return p
			}
			return value.Null{}
		}
	}
	return resolveScalarNoState(raw)
}

func resolveScalarNoState(raw interface{}) value.Value {
	switch v := raw.(type) {
	case nil:
		return value.Null{}
	case bool:
		return value.Bool(v)
	case int:
		return value.Int(int64(v))
	case int64:
		return value.Int(v)
	case float64:
		return value.Float(v)
	case string:
		return value.Str(v)
	default:
		return value.Str(fmt.Sprintf("%v", v))
	}
}
