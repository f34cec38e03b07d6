// Package value implements the tagged runtime value model shared by the
// expression evaluator, game state, and builtin functions.
//
// There is no single concrete Value type; Value is an interface so that
// state.Entity, state.Player, and state.Zone can satisfy it directly,
// letting a board cell, a zone slot, or a context binding all hold the same
// Value without this package importing state (which itself needs to hold
// Values in attribute bags).
package value

import "fmt"

// Kind tags the dynamic type of a Value.
type Kind uint8

const (
	KindNull Kind = iota
	KindBool
	KindInt
	KindFloat
	KindString
	KindCoord
	KindList
	KindMap
	KindEntity
	KindPlayer
	KindZone
)

func (k Kind) String() string {
	switch k {
	case KindNull:
		return "null"
	case KindBool:
		return "bool"
	case KindInt:
		return "int"
	case KindFloat:
		return "float"
	case KindString:
		return "string"
	case KindCoord:
		return "coord"
	case KindList:
		return "list"
	case KindMap:
		return "map"
	case KindEntity:
		return "entity"
	case KindPlayer:
		return "player"
	case KindZone:
		return "zone"
	default:
		return "unknown"
	}
}

// Value is any runtime value the expression evaluator can produce or
// consume. Implementations must be comparable by Equal, not by Go's `==`,
// since List and Map wrap slices/maps.
type Value interface {
	Kind() Kind
	// Truthy reports whether the value counts as true in a condition or
	// as an `and`/`or` operand.
	Truthy() bool
	// String renders the value for concat() and debug tracing.
	String() string
}

// Equal implements the eq()/ne() builtin semantics: value equality across
// primitive kinds, identity equality for entity/player/zone references
// (same Kind and same IdentityKey, via the Identity interface).
func Equal(a, b Value) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	if ia, ok := a.(Identity); ok {
		if ib, ok := b.(Identity); ok {
			return ia.Kind() == ib.Kind() && ia.IdentityKey() == ib.IdentityKey()
		}
		return false
	}
	if a.Kind() != b.Kind() {
		// allow cross int/float comparison, same as Python's numeric equality
		if isNumeric(a) && isNumeric(b) {
			return numeric(a) == numeric(b)
		}
		return false
	}
	switch va := a.(type) {
	case Null:
		return true
	case Bool:
		vb := b.(Bool)
		return bool(va) == bool(vb)
	case Int:
		vb := b.(Int)
		return int64(va) == int64(vb)
	case Float:
		vb := b.(Float)
		return float64(va) == float64(vb)
	case Str:
		vb := b.(Str)
		return string(va) == string(vb)
	case Coord:
		vb := b.(Coord)
		return va.X == vb.X && va.Y == vb.Y
	case *List:
		vb := b.(*List)
		if len(va.Items) != len(vb.Items) {
			return false
		}
		for i := range va.Items {
			if !Equal(va.Items[i], vb.Items[i]) {
				return false
			}
		}
		return true
	case *Map:
		vb := b.(*Map)
		if len(va.Entries) != len(vb.Entries) {
			return false
		}
		for k, v := range va.Entries {
			ov, ok := vb.Entries[k]
			if !ok || !Equal(v, ov) {
				return false
			}
		}
		return true
	default:
		return false
	}
}

// Identity is implemented by Entity/Player/Zone references: equality and
// hashing is by a stable key (name or id), never by Go pointer identity,
// so that the same logical entity compares equal across a clone/rollback
// boundary.
type Identity interface {
	Kind() Kind
	IdentityKey() string
}

func isNumeric(v Value) bool {
	switch v.(type) {
	case Int, Float:
		return true
	}
	return false
}

func numeric(v Value) float64 {
	switch n := v.(type) {
	case Int:
		return float64(n)
	case Float:
		return float64(n)
	}
	return 0
}

// Null is the absence of a value.
type Null struct{}

func (Null) Kind() Kind      { return KindNull }
func (Null) Truthy() bool    { return false }
func (Null) String() string  { return "null" }

// Bool wraps a boolean.
type Bool bool

func (Bool) Kind() Kind       { return KindBool }
func (b Bool) Truthy() bool   { return bool(b) }
func (b Bool) String() string { return fmt.Sprintf("%t", bool(b)) }

// Int wraps a signed integer.
type Int int64

func (Int) Kind() Kind       { return KindInt }
func (i Int) Truthy() bool   { return i != 0 }
func (i Int) String() string { return fmt.Sprintf("%d", int64(i)) }

// Float wraps a floating point number.
type Float float64

func (Float) Kind() Kind       { return KindFloat }
func (f Float) Truthy() bool   { return f != 0 }
func (f Float) String() string { return fmt.Sprintf("%g", float64(f)) }

// Str wraps a string.
type Str string

func (Str) Kind() Kind       { return KindString }
func (s Str) Truthy() bool   { return len(s) > 0 }
func (s Str) String() string { return string(s) }

// Coord is a grid coordinate. It normalizes interchangeably with a
// {x,y} Map whenever used as a board key (§4.3).
type Coord struct {
	X, Y int
}

func (Coord) Kind() Kind      { return KindCoord }
func (Coord) Truthy() bool    { return true }
func (c Coord) String() string {
	return fmt.Sprintf("(%d,%d)", c.X, c.Y)
}

// List is an ordered sequence of Values.
type List struct {
	Items []Value
}

func NewList(items []Value) *List { return &List{Items: items} }

func (*List) Kind() Kind     { return KindList }
func (l *List) Truthy() bool { return len(l.Items) > 0 }
func (l *List) String() string {
	s := "["
	for i, item := range l.Items {
		if i > 0 {
			s += ", "
		}
		s += item.String()
	}
	return s + "]"
}

// Map is a string-keyed record, used for coordinate dictionaries ({x,y})
// and other generic attribute records.
type Map struct {
	Entries map[string]Value
}

func NewMap(entries map[string]Value) *Map { return &Map{Entries: entries} }

func (*Map) Kind() Kind     { return KindMap }
func (m *Map) Truthy() bool { return len(m.Entries) > 0 }
func (m *Map) String() string {
	s := "{"
	first := true
	for k, v := range m.Entries {
		if !first {
			s += ", "
		}
		first = false
		s += k + ": " + v.String()
	}
	return s + "}"
}

// Get looks up a key, returning Null if absent.
func (m *Map) Get(key string) Value {
	if v, ok := m.Entries[key]; ok {
		return v
	}
	return Null{}
}

// AsCoord normalizes a Value to a Coord: a Coord passes through; a Map with
// "x" and "y" integer entries converts; anything else returns (false).
func AsCoord(v Value) (Coord, bool) {
	switch c := v.(type) {
	case Coord:
		return c, true
	case *Map:
		x, okX := c.Entries["x"]
		y, okY := c.Entries["y"]
		if !okX || !okY {
			return Coord{}, false
		}
		xi, okX := AsInt(x)
		yi, okY := AsInt(y)
		if !okX || !okY {
			return Coord{}, false
		}
		return Coord{X: xi, Y: yi}, true
	default:
		return Coord{}, false
	}
}

// AsInt extracts an int from an Int or Float value.
func AsInt(v Value) (int, bool) {
	switch n := v.(type) {
	case Int:
		return int(n), true
	case Float:
		return int(n), true
	default:
		return 0, false
	}
}

// AsFloat extracts a float64 from an Int or Float value.
func AsFloat(v Value) (float64, bool) {
	switch n := v.(type) {
	case Int:
		return float64(n), true
	case Float:
		return float64(n), true
	default:
		return 0, false
	}
}

// AsString extracts a Go string from a Str value.
func AsString(v Value) (string, bool) {
	s, ok := v.(Str)
	return string(s), ok
}

// IsNull reports whether v is nil or the Null value.
func IsNull(v Value) bool {
	if v == nil {
		return true
	}
	_, ok := v.(Null)
	return ok
}

// OrNull returns v, or Null{} if v is nil.
func OrNull(v Value) Value {
	if v == nil {
		return Null{}
	}
	return v
}
