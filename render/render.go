// Package render implements the text presentation layer (§12): grid and
// zone board rendering plus presentation-profile asset resolution.
// spec.md scopes rendering out as an external collaborator, but a
// complete, demonstrably playable repo still ships one — grounded on
// original_source/game.py's render_board/_render_grid_board/
// _render_zone_board/_render_zone/get_asset_for_entity, written the way
// darwindeck's cmd/evolve writes console output: plain fmt.Fprintf
// against an io.Writer, no template engine.
package render

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/signalnine/ruleforge/expr"
	"github.com/signalnine/ruleforge/spec"
	"github.com/signalnine/ruleforge/state"
	"github.com/signalnine/ruleforge/value"
)

// Renderer draws a GameState as text against one presentation profile.
type Renderer struct {
	Doc     *spec.Document
	Profile string
}

// NewRenderer builds a Renderer bound to one named presentation profile.
// A name the document does not declare (including empty) falls back to
// an arbitrary one of the declared profiles, if any.
func NewRenderer(doc *spec.Document, profile string) *Renderer {
	return &Renderer{Doc: doc, Profile: profile}
}

func (r *Renderer) profileSpec() (spec.ProfileSpec, bool) {
	if r.Doc == nil {
		return spec.ProfileSpec{}, false
	}
	if p, ok := r.Doc.Presentation.Profiles[r.Profile]; ok {
		return p, true
	}
	for _, p := range r.Doc.Presentation.Profiles {
		return p, true
	}
	return spec.ProfileSpec{}, false
}

// AssetForEntity resolves the display string for an entity: card_back
// when hidden, else the first entity_assets rule whose conditions all
// hold, substituting '#' with the entity's rank, falling back to "?"
// (§12, ported from get_asset_for_entity).
func (r *Renderer) AssetForEntity(ev *expr.Evaluator, e *state.Entity, hide bool) string {
	profile, ok := r.profileSpec()
	if !ok {
		return "?"
	}
	if hide {
		if profile.CardBack != "" {
			return profile.CardBack
		}
		return "??"
	}

	ctx := expr.Context{"entity": e}
	for _, rule := range profile.EntityAssets {
		matched := true
		for _, cond := range rule.Conditions {
			v, err := ev.Eval(cond, ctx)
			if err != nil || !v.Truthy() {
				matched = false
				break
			}
		}
		if !matched {
			continue
		}
		if strings.Contains(rule.Asset, "#") {
			return strings.ReplaceAll(rule.Asset, "#", e.Rank)
		}
		return rule.Asset
	}
	return "?"
}

// RenderBoard dispatches to the grid or zone renderer per the document's
// declared topology type (§12's render_board).
func (r *Renderer) RenderBoard(w io.Writer, ev *expr.Evaluator, s *state.GameState, viewer *state.Player) {
	switch s.Topology.Kind {
	case state.TopologyGrid:
		r.renderGridBoard(w, ev, s)
	case state.TopologyZones:
		r.renderZoneBoard(w, ev, s, viewer)
	}
}

func columnLabels(width int) string {
	var b strings.Builder
	for i := 0; i < width; i++ {
		fmt.Fprintf(&b, " %c ", 'A'+i)
	}
	return b.String()
}

// renderGridBoard draws an A-labeled/1-indexed grid, rank 1 at the
// bottom, ported from _render_grid_board.
func (r *Renderer) renderGridBoard(w io.Writer, ev *expr.Evaluator, s *state.GameState) {
	width, height := s.Topology.Width, s.Topology.Height
	profile, _ := r.profileSpec()
	lightSq, darkSq := "  ", "##"
	if v, ok := profile.TopologyAssets["empty_light_square"]; ok {
		lightSq = v
	}
	if v, ok := profile.TopologyAssets["empty_dark_square"]; ok {
		darkSq = v
	}

	fmt.Fprintf(w, "\n  %s\n", columnLabels(width))
	for y := height - 1; y >= 0; y-- {
		fmt.Fprintf(w, "%d ", y+1)
		for x := 0; x < width; x++ {
			if e, ok := s.Board[value.Coord{X: x, Y: y}]; ok {
				fmt.Fprintf(w, " %s ", r.AssetForEntity(ev, e, false))
				continue
			}
			if (x+y)%2 == 0 {
				fmt.Fprint(w, lightSq+" ")
			} else {
				fmt.Fprint(w, darkSq+" ")
			}
		}
		fmt.Fprintf(w, " %d\n", y+1)
	}
	fmt.Fprintf(w, "  %s\n\n", columnLabels(width))
}

// renderZoneBoard draws ownerless zones first, then opponents' hands
// (hidden), then the viewer's own hand, ported from _render_zone_board.
func (r *Renderer) renderZoneBoard(w io.Writer, ev *expr.Evaluator, s *state.GameState, viewer *state.Player) {
	fmt.Fprintln(w, "\n"+strings.Repeat("=", 60))

	for _, name := range sortedZoneNames(s) {
		z := s.Zones[name]
		if z.Owner == nil {
			r.renderZone(w, ev, z, true)
		}
	}
	if viewer != nil {
		for _, name := range sortedZoneNames(s) {
			z := s.Zones[name]
			if z.Owner != nil && z.Owner != viewer {
				r.renderZone(w, ev, z, false)
			}
		}
		for _, name := range sortedZoneNames(s) {
			z := s.Zones[name]
			if z.Owner == viewer {
				r.renderZone(w, ev, z, true)
			}
		}
	}

	fmt.Fprintln(w, strings.Repeat("=", 60)+"\n")
}

func (r *Renderer) renderZone(w io.Writer, ev *expr.Evaluator, z *state.Zone, public bool) {
	if z.Owner != nil {
		fmt.Fprintf(w, "\n%s's HAND:\n", z.Owner.Name)
		if !public {
			fmt.Fprintf(w, "  %d cards (hidden)\n", len(z.Entities))
			return
		}
		if len(z.Entities) == 0 {
			fmt.Fprintln(w, "  (empty)")
			return
		}
		for i, e := range z.Entities {
			fmt.Fprintf(w, "  [%d] %s\n", i+1, r.AssetForEntity(ev, e, false))
		}
		return
	}

	fmt.Fprintf(w, "\n%s:\n", strings.ToUpper(strings.ReplaceAll(z.Name, "_", " ")))
	switch {
	case len(z.Entities) == 0:
		fmt.Fprintln(w, "  (empty)")
	case !z.Visible:
		fmt.Fprintf(w, "  %d cards (hidden)\n", len(z.Entities))
	default:
		top := z.Top()
		fmt.Fprintf(w, "  Top card: %s (%d total)\n", r.AssetForEntity(ev, top, false), len(z.Entities))
	}
}

func sortedZoneNames(s *state.GameState) []string {
	names := make([]string, 0, len(s.Zones))
	for name := range s.Zones {
		names = append(names, name)
	}
	// insertion order isn't tracked for zones; a stable lexical order
	// keeps repeated renders of the same state visually consistent.
	sort.Strings(names)
	return names
}
