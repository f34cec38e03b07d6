// Package turn implements the Turn Controller (§4.6): grid-mode
// speculative multi-segment path commit, and card-mode single-action
// play/draw. Grounded on darwindeck's Clone()-based speculative state
// (engine/types.go) plus simulation/runner.go's single-game loop shape,
// and on original_source/game.py's process_move_path/process_card_action
// for the exact ordering of chain validation, turn advance, and phase
// auto-advance.
package turn

import (
	"fmt"
	"strings"

	"github.com/signalnine/ruleforge/action"
	"github.com/signalnine/ruleforge/expr"
	"github.com/signalnine/ruleforge/ruleerr"
	"github.com/signalnine/ruleforge/spec"
	"github.com/signalnine/ruleforge/state"
	"github.com/signalnine/ruleforge/value"
)

// drawActionName is the fixed action the card-mode draw input (index 0)
// attempts, per spec.md scenario 6 ("Input 0 matches draw_card action").
const drawActionName = "draw_card"

// Controller orchestrates moves against one specification document.
type Controller struct {
	Doc    *spec.Document
	Engine *action.Engine
}

// NewController builds a Controller over a loaded specification.
func NewController(doc *spec.Document) *Controller {
	return &Controller{Doc: doc, Engine: action.NewEngine(doc)}
}

// GridMove validates and applies a path of ≥2 coordinates (§4.6 grid
// mode): the whole move is tried on a clone of ev.State; on any segment
// failure the clone is discarded and the live state is untouched. On
// full success the clone becomes the new live state and the turn
// advances.
func (c *Controller) GridMove(ev *expr.Evaluator, path []value.Coord) (*state.GameState, error) {
	if len(path) < 2 {
		return nil, ruleerr.New(ruleerr.InvalidPositionFormat, "a grid move needs at least 2 positions")
	}

	live := ev.State
	clone := live.Clone()
	ev.State = clone
	committed := false
	defer func() {
		if !committed {
			ev.Log.Debug().Msg("grid move rejected, restoring live state")
			ev.State = live
		}
	}()

	ev.Log.Debug().Int("segments", len(path)-1).Msg("grid move started on speculative clone")

	chainableRequired := len(path) > 2
	for i := 0; i < len(path)-1; i++ {
		origin, target := path[i], path[i+1]

		e, ok := clone.Board[origin]
		if !ok {
			return nil, ruleerr.New(ruleerr.NoPieceAtOrigin, fmt.Sprintf("no piece at %s", origin))
		}

		phase, ok := c.Doc.GameFlow.Phases[clone.CurrentPhase]
		if !ok {
			return nil, ruleerr.New(ruleerr.SpecLoadError, "unknown phase: "+clone.CurrentPhase)
		}

		ctx := expr.BaseContext(clone)
		ctx["entity"] = e
		ctx["origin"] = origin
		ctx["start"] = origin
		ctx["target"] = target

		match, err := c.Engine.Try(ev, phase.AllowedActions, ctx, true)
		if err != nil {
			return nil, err
		}
		if match == nil {
			return nil, ruleerr.New(ruleerr.NoMatchingAction, "no action matches this move")
		}
		if chainableRequired && !c.Engine.IsChainable(match.ActionName) {
			return nil, ruleerr.New(ruleerr.NonChainableInChain, match.ActionName)
		}
		ev.Log.Debug().Str("origin", origin.String()).Str("target", target.String()).Str("action", match.ActionName).Msg("segment committed")
	}

	advanceTurn(clone)
	committed = true
	ev.Log.Debug().Msg("grid move committed")
	return clone, nil
}

// CardMove implements §4.6 card mode: cardIndex is 1-based into the
// current player's hand zone, or 0 for "draw". It mutates ev.State
// directly (card mode has no chained-segment speculation to roll back).
func (c *Controller) CardMove(ev *expr.Evaluator, cardIndex int) (matchedAction string, winner *state.Player, err error) {
	s := ev.State
	actingPlayer := s.CurrentPlayer
	if actingPlayer == nil {
		return "", nil, ruleerr.New(ruleerr.NoMatchingAction, "no current player")
	}

	hand := findHandZone(s, actingPlayer)

	var card *state.Entity
	cardBound := false
	if cardIndex != 0 {
		if hand == nil || cardIndex < 1 || cardIndex > len(hand.Entities) {
			return "", nil, ruleerr.New(ruleerr.InvalidCardIndex, fmt.Sprintf("no card at index %d", cardIndex))
		}
		card = hand.Entities[cardIndex-1]
		cardBound = true
	}

	phase, ok := c.Doc.GameFlow.Phases[s.CurrentPhase]
	if !ok {
		return "", nil, ruleerr.New(ruleerr.SpecLoadError, "unknown phase: "+s.CurrentPhase)
	}

	ctx := expr.BaseContext(s)
	ctx["player"] = actingPlayer
	if hand != nil {
		ctx["hand_zone"] = hand
	}
	if card != nil {
		ctx["card"] = card
	}

	// Draw (cardIndex == 0) only ever attempts the draw_card action,
	// matching original_source/game.py's process_card_action (card_index
	// == -1 sets actions_to_check = ['draw_card']) rather than running
	// every phase-allowed action with card.* conditions skipped — a
	// card-less action whose only conditions reference card.* would
	// otherwise be vacuously true and wrongly match on draw.
	actionsToTry := phase.AllowedActions
	if !cardBound {
		actionsToTry = []string{drawActionName}
	}
	ev.Log.Debug().Str("player", actingPlayer.Name).Int("card_index", cardIndex).Bool("card_bound", cardBound).Msg("card move started")
	match, err := c.Engine.Try(ev, actionsToTry, ctx, cardBound)
	if err != nil {
		return "", nil, err
	}
	if match == nil {
		return "", nil, ruleerr.New(ruleerr.NoMatchingAction, "no action matches this play")
	}
	ev.Log.Debug().Str("action", match.ActionName).Msg("card move matched")

	if c.Engine.EndsTurn(match.ActionName) {
		advanceTurn(s)
	}
	if phase.AutoAdvance {
		s.CurrentPhase = phase.NextPhase
	}

	if hand != nil && len(hand.Entities) == 0 {
		winner = actingPlayer
	}

	return match.ActionName, winner, nil
}

// findHandZone locates the zone the spec §4.6 calls "the player's hand
// zone": owned by p, with "hand" in its name (ported from
// original_source/game.py's zone lookup in process_card_action).
func findHandZone(s *state.GameState, p *state.Player) *state.Zone {
	for _, z := range s.Zones {
		if z.Owner == p && strings.Contains(strings.ToLower(z.Name), "hand") {
			return z
		}
	}
	return nil
}

// advanceTurn rotates CurrentPlayer: other_player for exactly two
// players, else next_player(current, turn_direction) (§4.6).
func advanceTurn(s *state.GameState) {
	players := s.OrderedPlayers()
	if len(players) == 0 || s.CurrentPlayer == nil {
		return
	}
	if len(players) == 2 {
		for _, p := range players {
			if p != s.CurrentPlayer {
				s.CurrentPlayer = p
				return
			}
		}
		return
	}
	direction := s.TurnDirection()
	idx := -1
	for i, p := range players {
		if p == s.CurrentPlayer {
			idx = i
			break
		}
	}
	if idx == -1 {
		return
	}
	n := len(players)
	next := ((idx+direction)%n + n) % n
	s.CurrentPlayer = players[next]
}
