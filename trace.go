package menuopts

import (
	"encoding/json"
	"fmt"
	"sort"

	"github.com/goliatone/go-menuopts/layering"
)

// Trace captures provenance information for one path across the scoped
// layers that produced the effective value.
type Trace struct {
	Path   string       `json:"path"`
	Layers []Provenance `json:"layers"`
}

// Provenance details how a specific scope contributed to a traced path.
type Provenance struct {
	Scope      Scope  `json:"scope"`
	SnapshotID string `json:"snapshot_id,omitempty"`
	Path       string `json:"path"`
	Value      any    `json:"value,omitempty"`
	Found      bool   `json:"found"`
}

// Winner returns the strongest layer that supplied a value.
func (t Trace) Winner() (Provenance, bool) {
	for _, layer := range t.Layers {
		if layer.Found {
			return layer, true
		}
	}
	return Provenance{}, false
}

// ToJSON serialises the trace into JSON for logging or transport helpers.
func (t Trace) ToJSON() ([]byte, error) {
	type alias Trace
	return json.Marshal(alias(t))
}

// TraceFromJSON deserialises a JSON payload produced by ToJSON.
func TraceFromJSON(payload []byte) (Trace, error) {
	type alias Trace
	var trace alias
	if err := json.Unmarshal(payload, &trace); err != nil {
		return Trace{}, err
	}
	return Trace(trace), nil
}

// Resolved is a merged stack: the effective values plus the layers they came
// from.
type Resolved struct {
	Values layering.Snapshot
	layers []Layer
}

// ResolveWithTrace returns the effective value at path and every layer's
// contribution, strongest first.
func (r *Resolved) ResolveWithTrace(path string) (any, Trace, error) {
	if r == nil {
		return nil, Trace{}, fmt.Errorf("menuopts: nothing resolved")
	}
	trace := Trace{Path: path, Layers: make([]Provenance, 0, len(r.layers))}
	for _, layer := range r.layers {
		value, found := layering.Lookup(layer.Snapshot, path)
		trace.Layers = append(trace.Layers, Provenance{
			Scope:      layer.Scope.clone(),
			SnapshotID: layer.SnapshotID,
			Path:       path,
			Value:      value,
			Found:      found,
		})
	}
	value, ok := layering.Lookup(r.Values, path)
	if !ok {
		return nil, trace, &NotFoundError{CustomID: path}
	}
	return value, trace, nil
}

// FlattenWithProvenance attributes every effective path to the layer that
// supplied it, sorted by path.
func (r *Resolved) FlattenWithProvenance() []Provenance {
	if r == nil {
		return nil
	}
	paths := layering.Paths(r.Values)
	sort.Strings(paths)
	out := make([]Provenance, 0, len(paths))
	for _, path := range paths {
		_, trace, err := r.ResolveWithTrace(path)
		if err != nil {
			continue
		}
		if winner, ok := trace.Winner(); ok {
			out = append(out, winner)
		}
	}
	return out
}
