package expr

import (
	"github.com/signalnine/ruleforge/state"
	"github.com/signalnine/ruleforge/value"
)

// Context binds names to values for one evaluation (§4.2: "context is a
// flat string-to-Value map"). Typical bindings are "state", "board", and
// whatever the calling site adds: "entity", "origin", "start", "target",
// "card", "player", "hand_zone".
type Context map[string]value.Value

// Attributed is implemented by anything a Property node can walk a dotted
// path across: state.Entity, state.Player, state.Zone, and StateValue.
type Attributed interface {
	Attr(name string) value.Value
}

// Indexable is implemented by anything an Index node can subscript
// through its own Index method, such as BoardValue. *value.List and
// *value.Map are subscripted directly by IndexValue instead.
type Indexable interface {
	Index(key value.Value) value.Value
}

// StateValue exposes the global state variable bag (state_schema.global,
// §3) as the `state` context binding's attribute path, e.g.
// `state.turn_count`.
type StateValue struct {
	S *state.GameState
}

func (StateValue) Kind() value.Kind { return value.KindMap }
func (StateValue) Truthy() bool     { return true }
func (StateValue) String() string   { return "state" }

func (s StateValue) Attr(name string) value.Value {
	if v, ok := s.S.Vars[name]; ok {
		return v
	}
	return value.Null{}
}

// BoardValue exposes the board as the `board` context binding, indexed by
// coordinate (a value.Coord or an {x,y} value.Map both normalize, §4.3).
type BoardValue struct {
	S *state.GameState
}

func (BoardValue) Kind() value.Kind { return value.KindMap }
func (BoardValue) Truthy() bool     { return true }
func (BoardValue) String() string   { return "board" }

func (b BoardValue) Index(key value.Value) value.Value {
	c, ok := value.AsCoord(key)
	if !ok {
		return value.Null{}
	}
	if e, ok := b.S.Board[c]; ok {
		return e
	}
	return value.Null{}
}

// BaseContext builds the context bindings every evaluation carries: the
// `state` and `board` globals (§4.2). Callers add call-site bindings
// (entity, origin, target, card, ...) on top.
func BaseContext(s *state.GameState) Context {
	return Context{
		"state": StateValue{S: s},
		"board": BoardValue{S: s},
	}
}
