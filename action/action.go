// Package action implements the Action Engine (§4.5): it matches a
// proposed move against a phase's allowed actions and, on match, applies
// the action's closed effect set. Grounded on darwindeck's
// engine/conditions.go (switch-dispatch condition evaluation) and
// engine/effects.go (switch-dispatch effect application), generalized
// from a fixed opcode/target enum to expression-driven dispatch over
// spec.ActionSpec.
package action

import (
	"strings"

	"github.com/signalnine/ruleforge/expr"
	"github.com/signalnine/ruleforge/ruleerr"
	"github.com/signalnine/ruleforge/spec"
	"github.com/signalnine/ruleforge/state"
	"github.com/signalnine/ruleforge/value"
)

// Engine matches actions against the declared interaction library.
type Engine struct {
	Doc *spec.Document
}

// NewEngine builds an Engine over a loaded specification document.
func NewEngine(doc *spec.Document) *Engine {
	return &Engine{Doc: doc}
}

// Match is the outcome of a successful action match.
type Match struct {
	ActionName string
}

// Try attempts each named action in order, evaluating its conditions; on
// the first fully-truthy match it applies the action's effects and
// returns the match. actionNames is caller-supplied and need not be the
// full phase allowed_actions list — the card-mode draw case (§4.6)
// passes just the single draw_card action, since draw only ever attempts
// that one action rather than scanning the whole phase. cardBound
// reports whether ctx["card"] is a real card (false for draw); callers
// that still evaluate card.*-referencing conditions with no card bound
// get them skipped rather than failed.
func (eng *Engine) Try(ev *expr.Evaluator, actionNames []string, ctx expr.Context, cardBound bool) (*Match, error) {
	for _, name := range actionNames {
		as, ok := eng.Doc.Interactions.List[name]
		if !ok {
			ev.Log.Debug().Str("action", name).Msg("action not declared, skipping")
			continue
		}
		matched, err := eng.conditionsHold(ev, as.Conditions, ctx, cardBound)
		if err != nil {
			return nil, err
		}
		if !matched {
			ev.Log.Debug().Str("action", name).Msg("conditions failed")
			continue
		}
		ev.Log.Debug().Str("action", name).Msg("action matched, applying effects")
		for _, effectStr := range as.Effects {
			if err := eng.applyEffectStr(ev, effectStr, ctx); err != nil {
				return nil, err
			}
		}
		return &Match{ActionName: name}, nil
	}
	return nil, nil
}

// IsChainable reports whether the named action may appear as a
// non-terminal segment of a multi-segment path (§4.5).
func (eng *Engine) IsChainable(name string) bool {
	as, ok := eng.Doc.Interactions.List[name]
	return ok && as.Chainable
}

// EndsTurn reports whether the named action forces a turn advance on
// completion (§4.5).
func (eng *Engine) EndsTurn(name string) bool {
	as, ok := eng.Doc.Interactions.List[name]
	return ok && as.EndTurn
}

func (eng *Engine) conditionsHold(ev *expr.Evaluator, conditions []string, ctx expr.Context, cardBound bool) (bool, error) {
	for _, c := range conditions {
		if !cardBound && strings.Contains(c, "card.") {
			continue
		}
		v, err := ev.Eval(c, ctx)
		if err != nil {
			return false, err
		}
		if !v.Truthy() {
			return false, nil
		}
	}
	return true, nil
}

// applyEffectStr parses one effect statement and applies it.
func (eng *Engine) applyEffectStr(ev *expr.Evaluator, effectStr string, ctx expr.Context) error {
	return eng.applyEffectNode(ev, ev.Parse(effectStr), ctx)
}

// applyEffectNode dispatches one already-parsed effect over the closed
// set of §4.5: set, if, remove_entity, move_to_zone, draw_cards.
func (eng *Engine) applyEffectNode(ev *expr.Evaluator, n expr.Node, ctx expr.Context) error {
	call, ok := n.(*expr.Call)
	if !ok {
		return ruleerr.New(ruleerr.SpecLoadError, "effect statement is not a function call")
	}
	switch call.Func {
	case "set":
		return eng.applySet(ev, call.Args, ctx)
	case "if":
		return eng.applyIf(ev, call.Args, ctx)
	case "remove_entity":
		return eng.applyRemoveEntity(ev, call.Args, ctx)
	case "move_to_zone":
		return eng.applyMoveToZone(ev, call.Args, ctx)
	case "draw_cards":
		return eng.applyDrawCards(ev, call.Args, ctx)
	default:
		return ruleerr.New(ruleerr.SpecLoadError, "unknown effect: "+call.Func)
	}
}

// applySet implements `set(lvalue, expr)` (§4.5): lvalue is either
// `board[coord_expr]` (place, or clear on a null value), or a dotted
// path resolving to an Entity/Player attribute, or `state.var`.
func (eng *Engine) applySet(ev *expr.Evaluator, args []expr.Node, ctx expr.Context) error {
	if len(args) != 2 {
		return ruleerr.New(ruleerr.SpecLoadError, "set() requires exactly 2 arguments")
	}
	rhs, err := ev.EvalNode(args[1], ctx, true)
	if err != nil {
		return err
	}

	switch lv := args[0].(type) {
	case *expr.Index:
		key, err := ev.EvalNode(lv.Key, ctx, true)
		if err != nil {
			return err
		}
		coord, ok := value.AsCoord(key)
		if !ok {
			return ruleerr.New(ruleerr.SpecLoadError, "set(board[...]) key is not a coordinate")
		}
		if value.IsNull(rhs) {
			ev.State.ClearBoardCell(coord)
			return nil
		}
		e, ok := rhs.(*state.Entity)
		if !ok {
			return ruleerr.New(ruleerr.SpecLoadError, "set(board[...], x) value is not an entity or null")
		}
		ev.State.PlaceOnBoard(e, coord)
		return nil

	case *expr.Property:
		base, err := ev.EvalNode(lv.Base, ctx, true)
		if err != nil {
			return err
		}
		for _, seg := range lv.Path[:len(lv.Path)-1] {
			base = expr.AttrValue(base, seg)
		}
		last := lv.Path[len(lv.Path)-1]
		switch target := base.(type) {
		case *state.Entity:
			target.SetAttr(last, rhs)
		case *state.Player:
			if last != "name" {
				target.Attributes[last] = rhs
			}
		case expr.StateValue:
			ev.State.Vars[last] = rhs
		}
		return nil

	default:
		return ruleerr.New(ruleerr.SpecLoadError, "set() first argument must be board[...] or a dotted path")
	}
}

func (eng *Engine) applyIf(ev *expr.Evaluator, args []expr.Node, ctx expr.Context) error {
	if len(args) != 2 {
		return ruleerr.New(ruleerr.SpecLoadError, "if() requires exactly 2 arguments")
	}
	cond, err := ev.EvalNode(args[0], ctx, true)
	if err != nil {
		return err
	}
	if !cond.Truthy() {
		return nil
	}
	return eng.applyEffectNode(ev, args[1], ctx)
}

func (eng *Engine) applyRemoveEntity(ev *expr.Evaluator, args []expr.Node, ctx expr.Context) error {
	if len(args) != 1 {
		return ruleerr.New(ruleerr.SpecLoadError, "remove_entity() requires exactly 1 argument")
	}
	v, err := ev.EvalNode(args[0], ctx, true)
	if err != nil {
		return err
	}
	if e, ok := v.(*state.Entity); ok {
		ev.State.RemoveEntity(e)
	}
	return nil
}

func (eng *Engine) applyMoveToZone(ev *expr.Evaluator, args []expr.Node, ctx expr.Context) error {
	if len(args) != 2 {
		return ruleerr.New(ruleerr.SpecLoadError, "move_to_zone() requires exactly 2 arguments")
	}
	entityVal, err := ev.EvalNode(args[0], ctx, true)
	if err != nil {
		return err
	}
	zoneVal, err := ev.EvalNode(args[1], ctx, true)
	if err != nil {
		return err
	}
	e, ok := entityVal.(*state.Entity)
	if !ok {
		return nil
	}
	z, ok := zoneVal.(*state.Zone)
	if !ok {
		return nil
	}
	ev.State.MoveToZone(e, z)
	return nil
}

// applyDrawCards delegates to the `draw_card` builtin's logic (identical
// src/dst/count semantics) rather than duplicating it.
func (eng *Engine) applyDrawCards(ev *expr.Evaluator, args []expr.Node, ctx expr.Context) error {
	if len(args) != 3 {
		return ruleerr.New(ruleerr.SpecLoadError, "draw_cards() requires exactly 3 arguments")
	}
	_, err := ev.EvalNode(&expr.Call{Func: "draw_card", Args: args}, ctx, true)
	return err
}
