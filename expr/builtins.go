package expr

import (
	"strings"

	"github.com/signalnine/ruleforge/state"
	"github.com/signalnine/ruleforge/value"
)

// BuiltinFunc is one entry of the closed builtin function set (§4.3).
// Arguments arrive already evaluated — none of these builtins need to
// short-circuit, matching the eager argument evaluation of the original
// evaluator's `_call_function`.
type BuiltinFunc func(ev *Evaluator, args []value.Value) (value.Value, error)

// pureBuiltins never mutate state; conditions may call only these.
var pureBuiltins = map[string]BuiltinFunc{
	"eq":              biEq,
	"ne":              biNe,
	"gt":              biCompare(func(a, b float64) bool { return a > b }),
	"lt":              biCompare(func(a, b float64) bool { return a < b }),
	"gte":             biCompare(func(a, b float64) bool { return a >= b }),
	"lte":             biCompare(func(a, b float64) bool { return a <= b }),
	"and":             biAnd,
	"or":              biOr,
	"not":             biNot,
	"abs":             biAbs,
	"sub":             biSub,
	"add":             biAdd,
	"mul":             biMul,
	"mod":             biMod,
	"count":           biCount,
	"zone":            biZone,
	"entities_in_zone": biEntitiesInZone,
	"random_int":      biRandomInt,
	"mid_pos":         biMidPos,
	"path_clear":      biPathClear,
	"other_player":    biOtherPlayer,
	"next_player":     biNextPlayer,
	"top_card":        biTopCard,
	"concat":          biConcat,
}

// effectBuiltins mutate state; reachable only from effect-expression
// evaluation (EvalEffectExpr), never from a condition.
var effectBuiltins = map[string]BuiltinFunc{
	"shuffle":    biShuffle,
	"draw_card":  biDrawCard,
}

func biEq(_ *Evaluator, args []value.Value) (value.Value, error) {
	if len(args) != 2 {
		return value.Bool(false), nil
	}
	return value.Bool(value.Equal(args[0], args[1])), nil
}

func biNe(_ *Evaluator, args []value.Value) (value.Value, error) {
	if len(args) != 2 {
		return value.Bool(true), nil
	}
	return value.Bool(!value.Equal(args[0], args[1])), nil
}

// biCompare builds gt/lt/gte/lte: false whenever either operand isn't
// numeric, matching the original's "if a is None or b is None: return
// False" guard.
func biCompare(cmp func(a, b float64) bool) BuiltinFunc {
	return func(_ *Evaluator, args []value.Value) (value.Value, error) {
		if len(args) != 2 {
			return value.Bool(false), nil
		}
		a, okA := value.AsFloat(args[0])
		b, okB := value.AsFloat(args[1])
		if !okA || !okB {
			return value.Bool(false), nil
		}
		return value.Bool(cmp(a, b)), nil
	}
}

func biAnd(_ *Evaluator, args []value.Value) (value.Value, error) {
	for _, a := range args {
		if a == nil || !a.Truthy() {
			return value.Bool(false), nil
		}
	}
	return value.Bool(true), nil
}

func biOr(_ *Evaluator, args []value.Value) (value.Value, error) {
	for _, a := range args {
		if a != nil && a.Truthy() {
			return value.Bool(true), nil
		}
	}
	return value.Bool(false), nil
}

func biNot(_ *Evaluator, args []value.Value) (value.Value, error) {
	if len(args) != 1 {
		return value.Bool(false), nil
	}
	return value.Bool(!args[0].Truthy()), nil
}

func biAbs(_ *Evaluator, args []value.Value) (value.Value, error) {
	if len(args) != 1 {
		return value.Int(0), nil
	}
	f, ok := value.AsFloat(args[0])
	if !ok {
		return value.Int(0), nil
	}
	if f < 0 {
		f = -f
	}
	if _, isFloat := args[0].(value.Float); isFloat {
		return value.Float(f), nil
	}
	return value.Int(int64(f)), nil
}

func biSub(_ *Evaluator, args []value.Value) (value.Value, error) {
	if len(args) != 2 {
		return value.Int(0), nil
	}
	a, okA := value.AsFloat(args[0])
	b, okB := value.AsFloat(args[1])
	if !okA || !okB {
		return value.Int(0), nil
	}
	return numericResult(args[0], args[1], a-b), nil
}

func biAdd(_ *Evaluator, args []value.Value) (value.Value, error) {
	if len(args) == 0 {
		return value.Int(0), nil
	}
	total := 0.0
	anyFloat := false
	for _, a := range args {
		f, ok := value.AsFloat(a)
		if !ok {
			return value.Int(0), nil
		}
		if _, isFloat := a.(value.Float); isFloat {
			anyFloat = true
		}
		total += f
	}
	if anyFloat {
		return value.Float(total), nil
	}
	return value.Int(int64(total)), nil
}

// biMul has multiplicative identity 1 and skips null/missing args,
// matching the original's `functools.reduce` over non-None operands.
func biMul(_ *Evaluator, args []value.Value) (value.Value, error) {
	total := 1.0
	anyFloat := false
	for _, a := range args {
		if value.IsNull(a) {
			continue
		}
		f, ok := value.AsFloat(a)
		if !ok {
			continue
		}
		if _, isFloat := a.(value.Float); isFloat {
			anyFloat = true
		}
		total *= f
	}
	if anyFloat {
		return value.Float(total), nil
	}
	return value.Int(int64(total)), nil
}

func biMod(_ *Evaluator, args []value.Value) (value.Value, error) {
	if len(args) != 2 {
		return value.Int(0), nil
	}
	a, okA := value.AsInt(args[0])
	b, okB := value.AsInt(args[1])
	if !okA || !okB || b == 0 {
		return value.Int(0), nil
	}
	return value.Int(int64(a % b)), nil
}

func numericResult(a, b value.Value, f float64) value.Value {
	_, aFloat := a.(value.Float)
	_, bFloat := b.(value.Float)
	if aFloat || bFloat {
		return value.Float(f)
	}
	return value.Int(int64(f))
}

func biCount(_ *Evaluator, args []value.Value) (value.Value, error) {
	if len(args) != 1 {
		return value.Int(0), nil
	}
	switch v := args[0].(type) {
	case *state.Zone:
		return value.Int(int64(len(v.Entities))), nil
	case *value.List:
		return value.Int(int64(len(v.Items))), nil
	default:
		return value.Int(0), nil
	}
}

func biZone(ev *Evaluator, args []value.Value) (value.Value, error) {
	if len(args) != 1 {
		return value.Null{}, nil
	}
	name, ok := value.AsString(args[0])
	if !ok {
		return value.Null{}, nil
	}
	if z, ok := ev.State.Zones[name]; ok {
		return z, nil
	}
	return value.Null{}, nil
}

func biEntitiesInZone(ev *Evaluator, args []value.Value) (value.Value, error) {
	if len(args) != 1 {
		return value.NewList(nil), nil
	}
	name, ok := value.AsString(args[0])
	if !ok {
		return value.NewList(nil), nil
	}
	z, ok := ev.State.Zones[name]
	if !ok {
		return value.NewList(nil), nil
	}
	items := make([]value.Value, len(z.Entities))
	for i, e := range z.Entities {
		items[i] = e
	}
	return value.NewList(items), nil
}

// biRandomInt returns an inclusive [min, max] draw, defaulting to a d6
// (1..6) when called with no arguments, matching the original's default.
func biRandomInt(ev *Evaluator, args []value.Value) (value.Value, error) {
	lo, hi := 1, 6
	if len(args) >= 1 {
		if v, ok := value.AsInt(args[0]); ok {
			lo = v
		}
	}
	if len(args) >= 2 {
		if v, ok := value.AsInt(args[1]); ok {
			hi = v
		}
	}
	if hi < lo {
		lo, hi = hi, lo
	}
	return value.Int(int64(lo + ev.RNG.Intn(hi-lo+1))), nil
}

// biMidPos floor-divides the midpoint between two coordinates (accepts a
// Coord or an {x,y} Map for either argument).
func biMidPos(_ *Evaluator, args []value.Value) (value.Value, error) {
	if len(args) != 2 {
		return value.Null{}, nil
	}
	a, okA := value.AsCoord(args[0])
	b, okB := value.AsCoord(args[1])
	if !okA || !okB {
		return value.Null{}, nil
	}
	return value.Coord{X: floorDiv(a.X+b.X, 2), Y: floorDiv(a.Y+b.Y, 2)}, nil
}

func floorDiv(a, b int) int {
	q := a / b
	if (a%b != 0) && ((a < 0) != (b < 0)) {
		q--
	}
	return q
}

// biPathClear walks the straight (orthogonal or diagonal) line between a
// and b, exclusive of both endpoints, and reports whether every
// intermediate board cell is empty. a and b must lie on one of the 8
// compass directions (§4.3); any other pair is not a path and reports
// false.
func biPathClear(ev *Evaluator, args []value.Value) (value.Value, error) {
	if len(args) != 2 {
		return value.Bool(false), nil
	}
	a, okA := value.AsCoord(args[0])
	b, okB := value.AsCoord(args[1])
	if !okA || !okB {
		return value.Bool(false), nil
	}
	rx, ry := b.X-a.X, b.Y-a.Y
	if rx != 0 && ry != 0 && abs(rx) != abs(ry) {
		// not one of the 8 compass directions (horizontal, vertical, or
		// diagonal) — there is no straight line to walk.
		return value.Bool(false), nil
	}
	dx := sign(rx)
	dy := sign(ry)
	x, y := a.X+dx, a.Y+dy
	for x != b.X || y != b.Y {
		if _, occupied := ev.State.Board[value.Coord{X: x, Y: y}]; occupied {
			return value.Bool(false), nil
		}
		x += dx
		y += dy
		if dx == 0 && dy == 0 {
			break
		}
	}
	return value.Bool(true), nil
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}

func sign(n int) int {
	switch {
	case n > 0:
		return 1
	case n < 0:
		return -1
	default:
		return 0
	}
}

func biOtherPlayer(ev *Evaluator, args []value.Value) (value.Value, error) {
	if len(args) != 1 {
		return value.Null{}, nil
	}
	cur, ok := args[0].(*state.Player)
	if !ok {
		return value.Null{}, nil
	}
	for _, p := range ev.State.OrderedPlayers() {
		if p != cur {
			return p, nil
		}
	}
	return value.Null{}, nil
}

func biNextPlayer(ev *Evaluator, args []value.Value) (value.Value, error) {
	if len(args) < 1 {
		return value.Null{}, nil
	}
	cur, ok := args[0].(*state.Player)
	if !ok {
		return value.Null{}, nil
	}
	direction := 1
	if len(args) >= 2 {
		if d, ok := value.AsInt(args[1]); ok {
			direction = d
		}
	}
	players := ev.State.OrderedPlayers()
	if len(players) == 0 {
		return value.Null{}, nil
	}
	idx := -1
	for i, p := range players {
		if p == cur {
			idx = i
			break
		}
	}
	if idx == -1 {
		return value.Null{}, nil
	}
	n := len(players)
	next := ((idx+direction)%n + n) % n
	return players[next], nil
}

func biTopCard(_ *Evaluator, args []value.Value) (value.Value, error) {
	if len(args) != 1 {
		return value.Null{}, nil
	}
	z, ok := args[0].(*state.Zone)
	if !ok {
		return value.Null{}, nil
	}
	top := z.Top()
	if top == nil {
		return value.Null{}, nil
	}
	return top, nil
}

func biConcat(_ *Evaluator, args []value.Value) (value.Value, error) {
	var b strings.Builder
	for _, a := range args {
		if a == nil {
			continue
		}
		b.WriteString(a.String())
	}
	return value.Str(b.String()), nil
}

// biShuffle Fisher-Yates shuffles a zone's entities in place and returns
// the zone (§4.4/§4.5: effect-only, like draw_card, since it mutates the
// zone in place).
func biShuffle(ev *Evaluator, args []value.Value) (value.Value, error) {
	if len(args) != 1 {
		return value.Null{}, nil
	}
	z, ok := args[0].(*state.Zone)
	if !ok {
		return value.Null{}, nil
	}
	for i := len(z.Entities) - 1; i > 0; i-- {
		j := ev.RNG.Intn(i + 1)
		z.Entities[i], z.Entities[j] = z.Entities[j], z.Entities[i]
	}
	return z, nil
}

// biDrawCard moves `count` entities (default 1) from the head of src to
// the tail of dst, updating each entity's position, and returns the
// drawn entities as a list.
func biDrawCard(_ *Evaluator, args []value.Value) (value.Value, error) {
	if len(args) < 2 {
		return value.NewList(nil), nil
	}
	src, okSrc := args[0].(*state.Zone)
	dst, okDst := args[1].(*state.Zone)
	if !okSrc || !okDst {
		return value.NewList(nil), nil
	}
	count := 1
	if len(args) >= 3 {
		if c, ok := value.AsInt(args[2]); ok {
			count = c
		}
	}
	drawn := make([]value.Value, 0, count)
	for i := 0; i < count; i++ {
		e := src.PopHead()
		if e == nil {
			break
		}
		dst.Append(e)
		drawn = append(drawn, e)
	}
	return value.NewList(drawn), nil
}
