package state

import (
	"fmt"

	"github.com/signalnine/ruleforge/value"
)

// Entity is a piece or card: a globally unique id, a schema tag, an
// optional owner, a rank, a position (grid coordinate, zone, or absent),
// and a bag of further attributes copied from the spawning spec (§3).
type Entity struct {
	ID         uint64
	Schema     string
	Owner      *Player
	Rank       string
	Pos        value.Value // value.Coord, *Zone, or value.Null{}
	Attributes map[string]value.Value
}

func (*Entity) Kind() value.Kind { return value.KindEntity }
func (e *Entity) Truthy() bool   { return e != nil }

func (e *Entity) IdentityKey() string {
	return fmt.Sprintf("entity#%d", e.ID)
}

func (e *Entity) String() string {
	if e == nil {
		return "null"
	}
	if color, ok := e.Attributes["color"]; ok {
		return fmt.Sprintf("Entity(id=%d, %s-%s)", e.ID, color.String(), e.Rank)
	}
	return fmt.Sprintf("Entity(id=%d, schema=%s)", e.ID, e.Schema)
}

// Attr resolves a property-chain segment against the entity (§4.2: "for
// Entity/Player/Zone" attribute resolution).
func (e *Entity) Attr(name string) value.Value {
	switch name {
	case "id":
		return value.Int(e.ID)
	case "schema":
		return value.Str(e.Schema)
	case "rank":
		return value.Str(e.Rank)
	case "owner":
		if e.Owner == nil {
			return value.Null{}
		}
		return e.Owner
	case "pos":
		return value.OrNull(e.Pos)
	}
	if v, ok := e.Attributes[name]; ok {
		return v
	}
	return value.Null{}
}

// SetAttr assigns a final attribute in a dotted lvalue path (§4.5 `set`).
func (e *Entity) SetAttr(name string, v value.Value) {
	switch name {
	case "rank":
		if s, ok := value.AsString(v); ok {
			e.Rank = s
		}
		return
	case "owner":
		if p, ok := v.(*Player); ok {
			e.Owner = p
		} else if value.IsNull(v) {
			e.Owner = nil
		}
		return
	case "pos":
		e.Pos = v
		return
	}
	e.Attributes[name] = v
}

// Clone produces an independent copy. Owner is a reference into the
// player table being cloned alongside it and must be rebound by the
// caller (GameState.Clone) after the player table is rebuilt.
func (e *Entity) Clone() *Entity {
	attrs := make(map[string]value.Value, len(e.Attributes))
	for k, v := range e.Attributes {
		attrs[k] = v
	}
	return &Entity{
		ID:         e.ID,
		Schema:     e.Schema,
		Owner:      e.Owner,
		Rank:       e.Rank,
		Pos:        e.Pos,
		Attributes: attrs,
	}
}
