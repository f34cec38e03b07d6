// Package state implements the data model of §3: Player, Entity, Zone,
// Board, and the aggregate GameState, grounded on darwindeck's
// engine.GameState / engine.GameState.Clone (engine/types.go), generalized
// from fixed-size pooled arrays to maps keyed by name/id since this
// engine's entity and zone counts are spec-defined, not bounded at four
// players and fifty-two cards.
package state

import (
	"github.com/signalnine/ruleforge/value"
)

// GameState aggregates everything §3 calls "always hold outside an
// in-progress atomic transition": players, entities, board, zones,
// current player/phase, topology, and arbitrary state variables.
type GameState struct {
	// PlayerOrder preserves insertion order; rotation (other_player,
	// next_player) walks this slice, not map iteration order.
	PlayerOrder   []string
	Players       map[string]*Player
	Entities      map[uint64]*Entity
	Board         map[value.Coord]*Entity
	Zones         map[string]*Zone
	CurrentPlayer *Player
	CurrentPhase  string
	Topology      Topology
	Vars          map[string]value.Value

	nextEntityID uint64
}

// New returns an empty GameState ready for setup.
func New() *GameState {
	return &GameState{
		Players:  map[string]*Player{},
		Entities: map[uint64]*Entity{},
		Board:    map[value.Coord]*Entity{},
		Zones:    map[string]*Zone{},
		Vars:     map[string]value.Value{},
	}
}

// AddPlayer registers a player, preserving insertion order for rotation.
func (s *GameState) AddPlayer(p *Player) {
	if _, exists := s.Players[p.Name]; exists {
		return
	}
	s.Players[p.Name] = p
	s.PlayerOrder = append(s.PlayerOrder, p.Name)
}

// PlayerByName looks up a registered player, or nil.
func (s *GameState) PlayerByName(name string) *Player {
	return s.Players[name]
}

// OrderedPlayers returns players in registration order.
func (s *GameState) OrderedPlayers() []*Player {
	out := make([]*Player, 0, len(s.PlayerOrder))
	for _, name := range s.PlayerOrder {
		out = append(out, s.Players[name])
	}
	return out
}

// NextEntityID allocates the next monotonically increasing entity id
// (§3 invariant 6: "never decrease").
func (s *GameState) NextEntityID() uint64 {
	id := s.nextEntityID
	s.nextEntityID++
	return id
}

// AddEntity registers an entity in the entity table (does not place it
// anywhere — callers place it on the board or in a zone separately).
func (s *GameState) AddEntity(e *Entity) {
	s.Entities[e.ID] = e
}

// RemoveEntity deletes an entity from the entity table and, if present,
// clears it from the board too — §9 mandates both mappings stay
// consistent, resolving the ambiguity in the original source.
func (s *GameState) RemoveEntity(e *Entity) {
	delete(s.Entities, e.ID)
	for coord, occupant := range s.Board {
		if occupant == e {
			delete(s.Board, coord)
		}
	}
	if z, ok := e.Pos.(*Zone); ok {
		z.Remove(e)
	}
}

// MoveToZone detaches an entity from wherever it is (board cell or zone)
// and appends it to the tail of dst (§4.5 `move_to_zone`).
func (s *GameState) MoveToZone(e *Entity, dst *Zone) {
	switch cur := e.Pos.(type) {
	case *Zone:
		cur.Remove(e)
	case value.Coord:
		if occupant, ok := s.Board[cur]; ok && occupant == e {
			delete(s.Board, cur)
		}
	}
	dst.Append(e)
}

// PlaceOnBoard places an entity at a coordinate, updating its position
// and removing it from any prior zone/cell first.
func (s *GameState) PlaceOnBoard(e *Entity, c value.Coord) {
	switch cur := e.Pos.(type) {
	case *Zone:
		cur.Remove(e)
	case value.Coord:
		if occupant, ok := s.Board[cur]; ok && occupant == e {
			delete(s.Board, cur)
		}
	}
	s.Board[c] = e
	e.Pos = c
}

// ClearBoardCell removes whatever entity sits at c, clearing its
// position, as `set(board[c], null)` (§4.5).
func (s *GameState) ClearBoardCell(c value.Coord) {
	if e, ok := s.Board[c]; ok {
		if pc, isCoord := e.Pos.(value.Coord); isCoord && pc == c {
			e.Pos = value.Null{}
		}
		delete(s.Board, c)
	}
}

// TurnDirection resolves state.turn_direction, defaulting to 1 when
// unset (§9 open question, resolved per original_source/game.py's
// `getattr(self.state, 'turn_direction', 1)`).
func (s *GameState) TurnDirection() int {
	if v, ok := s.Vars["turn_direction"]; ok {
		if i, ok := value.AsInt(v); ok {
			return i
		}
	}
	return 1
}

// Clone performs the deep snapshot the Turn Controller uses for
// speculative execution (§4.6, §5): players, entities (identity
// preserved by id), zones, and board are all copied; no mutation on the
// clone can be observed through the original.
func (s *GameState) Clone() *GameState {
	clone := &GameState{
		PlayerOrder:  append([]string{}, s.PlayerOrder...),
		Players:      make(map[string]*Player, len(s.Players)),
		Entities:     make(map[uint64]*Entity, len(s.Entities)),
		Board:        make(map[value.Coord]*Entity, len(s.Board)),
		Zones:        make(map[string]*Zone, len(s.Zones)),
		Vars:         make(map[string]value.Value, len(s.Vars)),
		CurrentPhase: s.CurrentPhase,
		Topology:     s.Topology,
		nextEntityID: s.nextEntityID,
	}

	for name, p := range s.Players {
		clone.Players[name] = p.Clone()
	}
	for k, v := range s.Vars {
		clone.Vars[k] = v
	}

	for id, e := range s.Entities {
		ce := e.Clone()
		if e.Owner != nil {
			ce.Owner = clone.Players[e.Owner.Name]
		}
		clone.Entities[id] = ce
	}

	for name, z := range s.Zones {
		cz := z.Clone()
		if z.Owner != nil {
			cz.Owner = clone.Players[z.Owner.Name]
		}
		for i, vp := range cz.VisibleTo {
			if vp != nil {
				cz.VisibleTo[i] = clone.Players[vp.Name]
			}
		}
		for i, e := range cz.Entities {
			ce := clone.Entities[e.ID]
			cz.Entities[i] = ce
			ce.Pos = cz
		}
		clone.Zones[name] = cz
	}

	for coord, e := range s.Board {
		ce := clone.Entities[e.ID]
		clone.Board[coord] = ce
		ce.Pos = coord
	}

	if s.CurrentPlayer != nil {
		clone.CurrentPlayer = clone.Players[s.CurrentPlayer.Name]
	}

	return clone
}
