package expr

import (
	"sync"

	"github.com/rs/zerolog"

	"github.com/signalnine/ruleforge/state"
	"github.com/signalnine/ruleforge/value"
)

// Evaluator holds the mutable collaborators one expression evaluation
// needs: the live state (read in conditions, read-write in effects), an
// RNG seam, and the §9 design-note AST cache keyed by raw expression
// text. Grounded on GoTinyMUSH's context-carrying evaluator struct
// (pkg/eval/context.go), generalized from a MUSH command context to a
// game-state context.
type Evaluator struct {
	State  *state.GameState
	RNG    RNG
	Log    zerolog.Logger
	cache  map[string]Node
	cacheM sync.Mutex
}

// NewEvaluator constructs an Evaluator over the given state.
func NewEvaluator(s *state.GameState, rng RNG, log zerolog.Logger) *Evaluator {
	if rng == nil {
		rng = NewDefaultRNG()
	}
	return &Evaluator{State: s, RNG: rng, Log: log, cache: map[string]Node{}}
}

// parseCached looks up, or parses and memoizes, the AST for a raw
// expression string (§9: "lex once per distinct expression string, not
// per evaluation").
func (ev *Evaluator) parseCached(s string) Node {
	ev.cacheM.Lock()
	defer ev.cacheM.Unlock()
	if n, ok := ev.cache[s]; ok {
		return n
	}
	n := parse(s)
	ev.cache[s] = n
	return n
}

// Eval evaluates an expression in "condition" mode: only pure builtins
// are reachable, so a condition can never shuffle a zone or draw a card
// (§4.3: conditions are side-effect free by construction).
func (ev *Evaluator) Eval(exprStr string, ctx Context) (value.Value, error) {
	v, err := ev.EvalNode(ev.Parse(exprStr), ctx, false)
	ev.Log.Debug().Str("expr", exprStr).Interface("result", v).Err(err).Msg("condition eval")
	return v, err
}

// EvalEffectExpr evaluates an expression embedded inside an effect
// statement's arguments (e.g. the value expression of `set(lvalue,
// expr)`), where mutating builtins are reachable.
func (ev *Evaluator) EvalEffectExpr(exprStr string, ctx Context) (value.Value, error) {
	v, err := ev.EvalNode(ev.Parse(exprStr), ctx, true)
	ev.Log.Debug().Str("expr", exprStr).Interface("result", v).Err(err).Msg("effect expr eval")
	return v, err
}

// Parse returns the cached AST for a raw expression string, parsing and
// memoizing it on first use. Exported so the effect interpreter (action
// package) can parse effect-statement text once and walk its own closed
// grammar over the same Node types, without going through Eval's
// condition/effect-expression split.
func (ev *Evaluator) Parse(exprStr string) Node {
	return ev.parseCached(exprStr)
}

// EvalNode evaluates an already-parsed Node. Exported for the same
// reason as Parse: the effect interpreter evaluates sub-expression Nodes
// (an lvalue's base, a value expression) directly.
func (ev *Evaluator) EvalNode(n Node, ctx Context, allowEffects bool) (value.Value, error) {
	switch node := n.(type) {
	case *Literal:
		return node.Value, nil

	case *Ident:
		if v, ok := ctx[node.Name]; ok {
			return value.OrNull(v), nil
		}
		return value.Null{}, nil

	case *Index:
		obj, err := ev.EvalNode(node.Obj, ctx, allowEffects)
		if err != nil {
			return nil, err
		}
		key, err := ev.EvalNode(node.Key, ctx, allowEffects)
		if err != nil {
			return nil, err
		}
		return IndexValue(obj, key), nil

	case *Property:
		base, err := ev.EvalNode(node.Base, ctx, allowEffects)
		if err != nil {
			return nil, err
		}
		for _, seg := range node.Path {
			base = AttrValue(base, seg)
		}
		return base, nil

	case *Call:
		args := make([]value.Value, len(node.Args))
		for i, a := range node.Args {
			v, err := ev.EvalNode(a, ctx, allowEffects)
			if err != nil {
				return nil, err
			}
			args[i] = v
		}
		if fn, ok := pureBuiltins[node.Func]; ok {
			return fn(ev, args)
		}
		if allowEffects {
			if fn, ok := effectBuiltins[node.Func]; ok {
				return fn(ev, args)
			}
		}
		// Unknown or (in condition mode) mutating function name: resolves
		// to null rather than erroring, matching the permissive lookup in
		// the original evaluator.
		return value.Null{}, nil
	}
	return value.Null{}, nil
}

// AttrValue resolves one property-chain segment against base, via the
// Attributed interface (Entity/Player/Zone/StateValue) or a plain Map.
// Exported for reuse by the effect interpreter's lvalue-path walk.
func AttrValue(base value.Value, seg string) value.Value {
	switch b := base.(type) {
	case Attributed:
		return b.Attr(seg)
	case *value.Map:
		return b.Get(seg)
	default:
		return value.Null{}
	}
}

// IndexValue resolves one Index node against an already-evaluated
// object/key pair. Exported for reuse by the effect interpreter.
func IndexValue(obj, key value.Value) value.Value {
	switch o := obj.(type) {
	case Indexable:
		return o.Index(key)
	case *value.List:
		if i, ok := value.AsInt(key); ok && i >= 0 && i < len(o.Items) {
			return o.Items[i]
		}
		return value.Null{}
	case *value.Map:
		if s, ok := value.AsString(key); ok {
			return o.Get(s)
		}
		return value.Null{}
	default:
		return value.Null{}
	}
}
