package state

// TopologyKind distinguishes a coordinate-space board from a zone-only
// layout (§3 "Topology").
type TopologyKind uint8

const (
	TopologyZones TopologyKind = iota
	TopologyGrid
)

// Topology describes the board shape. Grid topology carries Width/Height;
// zone topology carries neither (no coordinate space exists).
type Topology struct {
	Kind   TopologyKind
	Width  int
	Height int
}
