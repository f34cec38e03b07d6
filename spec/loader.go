package spec

import (
	"io"
	"os"

	"github.com/google/uuid"
	"gopkg.in/yaml.v3"

	"github.com/signalnine/ruleforge/ruleerr"
)

// Loaded pairs a decoded Document with a run-correlation SpecID, attached
// to every subsequent log line the way DnD-Game attaches a request id
// (§11 domain-stack wiring for google/uuid).
type Loaded struct {
	Doc    *Document
	SpecID string
}

// LoadFile reads and decodes a specification document from path.
func LoadFile(path string) (*Loaded, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, ruleerr.Wrap(ruleerr.SpecLoadError, "opening specification file", err)
	}
	defer f.Close()
	return Load(f)
}

// Load decodes a specification document and validates its required
// structure, assigning it a fresh SpecID.
func Load(r io.Reader) (*Loaded, error) {
	var doc Document
	dec := yaml.NewDecoder(r)
	dec.KnownFields(false)
	if err := dec.Decode(&doc); err != nil {
		return nil, ruleerr.Wrap(ruleerr.SpecLoadError, "decoding specification YAML", err)
	}
	if err := validate(&doc); err != nil {
		return nil, err
	}
	return &Loaded{Doc: &doc, SpecID: uuid.NewString()}, nil
}

func validate(doc *Document) error {
	if doc.Metadata.Name == "" {
		return ruleerr.New(ruleerr.SpecLoadError, "metadata.name is required")
	}
	if doc.Players.Count.Min <= 0 || doc.Players.Count.Max < doc.Players.Count.Min {
		return ruleerr.New(ruleerr.SpecLoadError, "players.count must declare a valid min/max range")
	}
	switch doc.Topology.Type {
	case "discrete":
		if _, _, ok := ParseStructure(doc.Topology.Structure); !ok {
			return ruleerr.New(ruleerr.SpecLoadError, "topology.structure must be a WxH shape for discrete topology")
		}
	case "zones":
		if len(doc.Topology.Zones) == 0 {
			return ruleerr.New(ruleerr.SpecLoadError, "topology.zones must declare at least one zone for zones topology")
		}
	default:
		return ruleerr.New(ruleerr.SpecLoadError, "topology.type must be \"discrete\" or \"zones\"")
	}
	if doc.GameFlow.InitialPhase == "" {
		return ruleerr.New(ruleerr.SpecLoadError, "game_flow.initial_phase is required")
	}
	if _, ok := doc.GameFlow.Phases[doc.GameFlow.InitialPhase]; !ok {
		return ruleerr.New(ruleerr.SpecLoadError, "game_flow.initial_phase must name a declared phase")
	}
	for phaseName, phase := range doc.GameFlow.Phases {
		for _, actionName := range phase.AllowedActions {
			if _, ok := doc.Interactions.List[actionName]; !ok {
				return ruleerr.New(ruleerr.SpecLoadError, "phase "+phaseName+" references undeclared action "+actionName)
			}
		}
	}
	return nil
}
