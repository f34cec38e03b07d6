package spec

import (
	"regexp"
	"strconv"
)

// The micro-syntaxes recognized in setup/initial-value string contexts
// (§6, §4.4): `player('Name')`, `zone('Name')`, and
// `grid_nodes(x_min,y_min,x_max,y_max)`. Ported from
// original_source/game.py's compiled regexes in GamePresenter/setup_game.
var (
	playerRefRe  = regexp.MustCompile(`^player\('([^']+)'\)$`)
	zoneRefRe    = regexp.MustCompile(`^zone\('([^']+)'\)$`)
	gridNodesRe  = regexp.MustCompile(`^grid_nodes\((-?\d+),\s*(-?\d+),\s*(-?\d+),\s*(-?\d+)\)$`)
	structureRe  = regexp.MustCompile(`(\d+)x(\d+)`)
)

// ParsePlayerRef recognizes `player('Name')` and returns the name.
func ParsePlayerRef(s string) (string, bool) {
	m := playerRefRe.FindStringSubmatch(s)
	if m == nil {
		return "", false
	}
	return m[1], true
}

// ParseZoneRef recognizes `zone('Name')` and returns the name.
func ParseZoneRef(s string) (string, bool) {
	m := zoneRefRe.FindStringSubmatch(s)
	if m == nil {
		return "", false
	}
	return m[1], true
}

// GridNodes is an inclusive rectangle of grid cells.
type GridNodes struct {
	XMin, YMin, XMax, YMax int
}

// ParseGridNodes recognizes `grid_nodes(x_min,y_min,x_max,y_max)`.
func ParseGridNodes(s string) (GridNodes, bool) {
	m := gridNodesRe.FindStringSubmatch(s)
	if m == nil {
		return GridNodes{}, false
	}
	xmin, _ := strconv.Atoi(m[1])
	ymin, _ := strconv.Atoi(m[2])
	xmax, _ := strconv.Atoi(m[3])
	ymax, _ := strconv.Atoi(m[4])
	return GridNodes{XMin: xmin, YMin: ymin, XMax: xmax, YMax: ymax}, true
}

// ParseStructure extracts width/height from a topology.structure string
// like "8x8".
func ParseStructure(s string) (width, height int, ok bool) {
	m := structureRe.FindStringSubmatch(s)
	if m == nil {
		return 0, 0, false
	}
	w, _ := strconv.Atoi(m[1])
	h, _ := strconv.Atoi(m[2])
	return w, h, true
}
