package state

import (
	"fmt"

	"github.com/signalnine/ruleforge/value"
)

// Zone is a named, ordered container of entities — a hand, a deck, a
// discard pile (§3). Top is the last element.
type Zone struct {
	Name      string
	Type      string
	Owner     *Player
	Visible   bool
	Ordered   bool
	VisibleTo []*Player
	Entities  []*Entity
}

// NewZone constructs a zone with the given attributes.
func NewZone(name, zoneType string, owner *Player, visible, ordered bool, visibleTo []*Player) *Zone {
	return &Zone{
		Name:      name,
		Type:      zoneType,
		Owner:     owner,
		Visible:   visible,
		Ordered:   ordered,
		VisibleTo: visibleTo,
		Entities:  nil,
	}
}

func (*Zone) Kind() value.Kind      { return value.KindZone }
func (z *Zone) Truthy() bool        { return z != nil }
func (z *Zone) IdentityKey() string { return z.Name }

func (z *Zone) String() string {
	if z == nil {
		return "null"
	}
	return fmt.Sprintf("Zone(%s, %d entities)", z.Name, len(z.Entities))
}

// Attr resolves a property-chain segment against the zone.
func (z *Zone) Attr(name string) value.Value {
	switch name {
	case "name":
		return value.Str(z.Name)
	case "type":
		return value.Str(z.Type)
	case "owner":
		if z.Owner == nil {
			return value.Null{}
		}
		return z.Owner
	case "visible":
		return value.Bool(z.Visible)
	case "ordered":
		return value.Bool(z.Ordered)
	case "entities":
		items := make([]value.Value, len(z.Entities))
		for i, e := range z.Entities {
			items[i] = e
		}
		return value.NewList(items)
	}
	return value.Null{}
}

// Top returns the last entity (top of the pile) or nil.
func (z *Zone) Top() *Entity {
	if len(z.Entities) == 0 {
		return nil
	}
	return z.Entities[len(z.Entities)-1]
}

// Append adds an entity to the tail of the zone and updates its position.
func (z *Zone) Append(e *Entity) {
	z.Entities = append(z.Entities, e)
	e.Pos = z
}

// PopHead removes and returns the first (head) entity, or nil if empty.
func (z *Zone) PopHead() *Entity {
	if len(z.Entities) == 0 {
		return nil
	}
	e := z.Entities[0]
	z.Entities = z.Entities[1:]
	return e
}

// Remove detaches the given entity from the zone if present.
func (z *Zone) Remove(e *Entity) bool {
	for i, cur := range z.Entities {
		if cur == e {
			z.Entities = append(z.Entities[:i], z.Entities[i+1:]...)
			return true
		}
	}
	return false
}

// VisibleToPlayer reports whether p can see this zone's contents. An
// owned zone is visible to its owner always, plus anyone in VisibleTo
// (its Visible flag is not consulted); a public (ownerless) zone is
// visible to all unless marked not Visible.
func (z *Zone) VisibleToPlayer(p *Player) bool {
	if z.Owner == nil {
		return z.Visible
	}
	if z.Owner == p {
		return true
	}
	for _, v := range z.VisibleTo {
		if v == p {
			return true
		}
	}
	return false
}

// Clone produces an independent copy. Owner/VisibleTo/Entities reference
// into tables being cloned alongside it and must be rebound by the
// caller (GameState.Clone).
func (z *Zone) Clone() *Zone {
	entities := make([]*Entity, len(z.Entities))
	copy(entities, z.Entities)
	visibleTo := make([]*Player, len(z.VisibleTo))
	copy(visibleTo, z.VisibleTo)
	return &Zone{
		Name:      z.Name,
		Type:      z.Type,
		Owner:     z.Owner,
		Visible:   z.Visible,
		Ordered:   z.Ordered,
		VisibleTo: visibleTo,
		Entities:  entities,
	}
}
