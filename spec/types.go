// Package spec defines the declarative specification document (§6) and
// loads it from YAML, the way jadrian2006-GoTinyMUSH and
// ctclostio-DnD-Game both load their own declarative/config documents
// with gopkg.in/yaml.v3 rather than encoding/json — it tolerates
// comments, which hand-authored game specs benefit from.
package spec

// Document is the top-level specification document (§6).
type Document struct {
	Metadata     Metadata     `yaml:"metadata"`
	Players      PlayersSpec  `yaml:"players"`
	Topology     TopologySpec `yaml:"topology"`
	StateSchema  StateSchema  `yaml:"state_schema"`
	Setup        SetupSpec    `yaml:"setup"`
	Interactions Interactions `yaml:"interactions"`
	GameFlow     GameFlow     `yaml:"game_flow"`
	Presentation Presentation `yaml:"presentation"`
}

// Metadata carries the spec's descriptive name.
type Metadata struct {
	Name string `yaml:"name"`
}

// PlayersSpec declares player count bounds, named roles, and whether
// roles are generated dynamically (§4.4, §12 "dynamic player roles").
type PlayersSpec struct {
	Count        CountRange `yaml:"count"`
	Roles        []RoleSpec `yaml:"roles"`
	DynamicRoles bool       `yaml:"dynamic_roles"`
}

// CountRange bounds the number of players a spec accepts.
type CountRange struct {
	Min int `yaml:"min"`
	Max int `yaml:"max"`
}

// RoleSpec names a player role template and its starting attributes.
type RoleSpec struct {
	Name       string                 `yaml:"name"`
	Attributes map[string]interface{} `yaml:"attributes"`
}

// TopologySpec is either a grid ("discrete", with a "WxH"-shaped
// Structure string) or a named-zone layout ("zones").
type TopologySpec struct {
	Type      string     `yaml:"type"`
	Structure string     `yaml:"structure"`
	Zones     []ZoneSpec `yaml:"zones"`
}

// ZoneSpec declares one named zone and its visibility rules.
type ZoneSpec struct {
	Name      string   `yaml:"name"`
	Type      string   `yaml:"type"`
	Owner     string   `yaml:"owner"`
	Visible   bool     `yaml:"visible"`
	Ordered   bool     `yaml:"ordered"`
	VisibleTo []string `yaml:"visible_to"`
}

// StateSchema declares global state variables and their initial values
// (§4.4: "player('X')" resolves to a Player reference; numeric literals
// to ints; otherwise the raw string).
type StateSchema struct {
	Global map[string]StateVarSpec `yaml:"global"`
}

// StateVarSpec is one global variable's declared initial value.
type StateVarSpec struct {
	Initial interface{} `yaml:"initial"`
}

// SetupSpec is the ordered list of setup steps (§4.4).
type SetupSpec struct {
	Steps []SetupStep `yaml:"steps"`
}

// SetupStep is one setup-executor instruction. Not every field applies
// to every Action; unused fields are simply left zero.
type SetupStep struct {
	Action        string                 `yaml:"action"`
	Schema        string                 `yaml:"schema"`
	SetAttributes map[string]interface{} `yaml:"set_attributes"`
	At            []string               `yaml:"at"`
	Zone          string                 `yaml:"zone"`
	From          string                 `yaml:"from"`
	To            StringOrList           `yaml:"to"`
	Count         int                    `yaml:"count"`
}

// Interactions holds the closed library of named actions.
type Interactions struct {
	List map[string]ActionSpec `yaml:"list"`
}

// ActionSpec is one rule: a condition list, an effect list, and the two
// flags that govern chaining and turn-ending (§4.5).
type ActionSpec struct {
	Conditions []string `yaml:"conditions"`
	Effects    []string `yaml:"effects"`
	Chainable  bool     `yaml:"chainable"`
	EndTurn    bool     `yaml:"end_turn"`
}

// GameFlow is the phase state machine (§4.6).
type GameFlow struct {
	InitialPhase string               `yaml:"initial_phase"`
	Phases       map[string]PhaseSpec `yaml:"phases"`
}

// PhaseSpec names the actions legal during a phase, and optional
// automatic phase advancement.
type PhaseSpec struct {
	AllowedActions []string `yaml:"allowed_actions"`
	AutoAdvance    bool     `yaml:"auto_advance"`
	NextPhase      string   `yaml:"next_phase"`
}

// Presentation declares renderer profiles (§12: implemented by
// render.Renderer even though the spec treats rendering as external).
type Presentation struct {
	Profiles map[string]ProfileSpec `yaml:"profiles"`
}

// ProfileSpec is one presentation profile.
type ProfileSpec struct {
	EntityAssets   []EntityAssetSpec `yaml:"entity_assets"`
	TopologyAssets map[string]string `yaml:"topology_assets"`
	CardBack       string            `yaml:"card_back"`
}

// EntityAssetSpec maps a condition expression to the asset string shown
// when it's the first to match for a given entity.
type EntityAssetSpec struct {
	Conditions []string `yaml:"conditions"`
	Asset      string   `yaml:"asset"`
}
