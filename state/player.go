package state

import (
	"fmt"

	"github.com/signalnine/ruleforge/value"
)

// Player is an immutable identity (name) plus a bag of user-defined
// attributes. Equality and hashing are by name (§3).
type Player struct {
	Name       string
	Attributes map[string]value.Value
}

// NewPlayer creates a player with the given attribute bag.
func NewPlayer(name string, attrs map[string]value.Value) *Player {
	if attrs == nil {
		attrs = map[string]value.Value{}
	}
	return &Player{Name: name, Attributes: attrs}
}

func (*Player) Kind() value.Kind    { return value.KindPlayer }
func (p *Player) Truthy() bool      { return p != nil }
func (p *Player) IdentityKey() string { return p.Name }

func (p *Player) String() string {
	if p == nil {
		return "null"
	}
	return fmt.Sprintf("Player(%s)", p.Name)
}

// Attr resolves a property-chain segment against the player: named
// attributes first, falling back to null.
func (p *Player) Attr(name string) value.Value {
	if name == "name" {
		return value.Str(p.Name)
	}
	if v, ok := p.Attributes[name]; ok {
		return v
	}
	return value.Null{}
}

// Clone produces an independent copy sharing no mutable state with p.
func (p *Player) Clone() *Player {
	attrs := make(map[string]value.Value, len(p.Attributes))
	for k, v := range p.Attributes {
		attrs[k] = v
	}
	return &Player{Name: p.Name, Attributes: attrs}
}
