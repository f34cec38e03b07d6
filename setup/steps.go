package setup

import (
	"github.com/signalnine/ruleforge/expr"
	"github.com/signalnine/ruleforge/ruleerr"
	"github.com/signalnine/ruleforge/spec"
	"github.com/signalnine/ruleforge/state"
	"github.com/signalnine/ruleforge/value"
)

func runStep(s *state.GameState, step spec.SetupStep, rng expr.RNG) error {
	switch step.Action {
	case "spawn_entity":
		return spawnEntity(s, step)
	case "shuffle_zone":
		return shuffleZone(s, step, rng)
	case "deal_cards":
		return dealCards(s, step)
	case "move_card":
		return moveCard(s, step)
	default:
		return ruleerr.New(ruleerr.SpecLoadError, "unknown setup action: "+step.Action)
	}
}

// spawnEntity creates one entity per resolved location in `at` (§4.4):
// `grid_nodes(x_min,y_min,x_max,y_max)` enumerates the inclusive
// rectangle (one entity per cell), `zone('Name')` yields a single entity
// placed in that zone.
func spawnEntity(s *state.GameState, step spec.SetupStep) error {
	owner, attrs, rank := splitAttributes(s, step.SetAttributes)

	for _, loc := range step.At {
		if nodes, ok := spec.ParseGridNodes(loc); ok {
			for y := nodes.YMin; y <= nodes.YMax; y++ {
				for x := nodes.XMin; x <= nodes.XMax; x++ {
					e := newEntity(s, step.Schema, owner, rank, attrs)
					s.AddEntity(e)
					s.PlaceOnBoard(e, value.Coord{X: x, Y: y})
				}
			}
			continue
		}
		if name, ok := spec.ParseZoneRef(loc); ok {
			z, ok := s.Zones[name]
			if !ok {
				return ruleerr.New(ruleerr.SpecLoadError, "spawn_entity references undeclared zone: "+name)
			}
			e := newEntity(s, step.Schema, owner, rank, attrs)
			s.AddEntity(e)
			z.Append(e)
			continue
		}
		return ruleerr.New(ruleerr.SpecLoadError, "spawn_entity: unrecognized location expression: "+loc)
	}
	return nil
}

func newEntity(s *state.GameState, schema string, owner *state.Player, rank string, attrs map[string]value.Value) *state.Entity {
	if rank == "" {
		rank = "man"
	}
	copied := make(map[string]value.Value, len(attrs))
	for k, v := range attrs {
		copied[k] = v
	}
	return &state.Entity{
		ID:         s.NextEntityID(),
		Schema:     schema,
		Owner:      owner,
		Rank:       rank,
		Pos:        value.Null{},
		Attributes: copied,
	}
}

// splitAttributes pulls the dedicated `owner`/`rank` fields out of
// set_attributes (they live on state.Entity directly rather than in its
// generic attribute bag) and resolves the rest.
func splitAttributes(s *state.GameState, raw map[string]interface{}) (*state.Player, map[string]value.Value, string) {
	var owner *state.Player
	var rank string
	attrs := map[string]value.Value{}
	for k, v := range raw {
		switch k {
		case "owner":
			if str, ok := v.(string); ok {
				if name, ok := spec.ParsePlayerRef(str); ok {
					owner = s.PlayerByName(name)
					continue
				}
			}
		case "rank":
			if str, ok := v.(string); ok {
				rank = str
				continue
			}
		}
		attrs[k] = resolveScalar(s, v)
	}
	return owner, attrs, rank
}

func shuffleZone(s *state.GameState, step spec.SetupStep, rng expr.RNG) error {
	z, ok := s.Zones[step.Zone]
	if !ok {
		return ruleerr.New(ruleerr.SpecLoadError, "shuffle_zone references undeclared zone: "+step.Zone)
	}
	for i := len(z.Entities) - 1; i > 0; i-- {
		j := rng.Intn(i + 1)
		z.Entities[i], z.Entities[j] = z.Entities[j], z.Entities[i]
	}
	return nil
}

// dealCards deals one entity at a time, round-robin, from the head of
// `from` to each zone in `to`, `count` times (§4.4).
func dealCards(s *state.GameState, step spec.SetupStep) error {
	from, ok := s.Zones[step.From]
	if !ok {
		return ruleerr.New(ruleerr.SpecLoadError, "deal_cards references undeclared zone: "+step.From)
	}
	dests := make([]*state.Zone, 0, len(step.To))
	for _, name := range step.To {
		z, ok := s.Zones[name]
		if !ok {
			return ruleerr.New(ruleerr.SpecLoadError, "deal_cards references undeclared zone: "+name)
		}
		dests = append(dests, z)
	}
	for i := 0; i < step.Count; i++ {
		for _, dst := range dests {
			e := from.PopHead()
			if e == nil {
				return nil
			}
			dst.Append(e)
		}
	}
	return nil
}

// moveCard moves `count` entities from the head of `from` to the tail of
// `to` (§4.4).
func moveCard(s *state.GameState, step spec.SetupStep) error {
	from, ok := s.Zones[step.From]
	if !ok {
		return ruleerr.New(ruleerr.SpecLoadError, "move_card references undeclared zone: "+step.From)
	}
	if len(step.To) != 1 {
		return ruleerr.New(ruleerr.SpecLoadError, "move_card requires exactly one destination zone")
	}
	to, ok := s.Zones[step.To[0]]
	if !ok {
		return ruleerr.New(ruleerr.SpecLoadError, "move_card references undeclared zone: "+step.To[0])
	}
	for i := 0; i < step.Count; i++ {
		e := from.PopHead()
		if e == nil {
			return nil
		}
		to.Append(e)
	}
	return nil
}
