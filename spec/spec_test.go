package spec

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const minimalYAML = `
metadata:
  name: test-game
players:
  count:
    min: 2
    max: 2
  roles:
    - name: Red
    - name: Black
topology:
  type: discrete
  structure: "8x8"
state_schema:
  global:
    turn_direction:
      initial: 1
setup:
  steps: []
interactions:
  list:
    step:
      conditions: []
      effects: []
game_flow:
  initial_phase: main
  phases:
    main:
      allowed_actions: [step]
`

func TestLoadValidSpec(t *testing.T) {
	loaded, err := Load(strings.NewReader(minimalYAML))
	require.NoError(t, err)
	assert.Equal(t, "test-game", loaded.Doc.Metadata.Name)
	assert.NotEmpty(t, loaded.SpecID)
	assert.Len(t, loaded.Doc.Players.Roles, 2)
}

func TestLoadRejectsMissingName(t *testing.T) {
	bad := strings.Replace(minimalYAML, "name: test-game", "name: \"\"", 1)
	_, err := Load(strings.NewReader(bad))
	assert.Error(t, err)
}

func TestLoadRejectsUndeclaredAction(t *testing.T) {
	bad := strings.Replace(minimalYAML, "allowed_actions: [step]", "allowed_actions: [nope]", 1)
	_, err := Load(strings.NewReader(bad))
	assert.Error(t, err)
}

func TestParsePlayerRef(t *testing.T) {
	name, ok := ParsePlayerRef("player('Red')")
	assert.True(t, ok)
	assert.Equal(t, "Red", name)

	_, ok = ParsePlayerRef("not a ref")
	assert.False(t, ok)
}

func TestParseGridNodes(t *testing.T) {
	nodes, ok := ParseGridNodes("grid_nodes(0,0,2,1)")
	require.True(t, ok)
	assert.Equal(t, GridNodes{XMin: 0, YMin: 0, XMax: 2, YMax: 1}, nodes)
}

func TestParseStructure(t *testing.T) {
	w, h, ok := ParseStructure("8x8")
	require.True(t, ok)
	assert.Equal(t, 8, w)
	assert.Equal(t, 8, h)
}
