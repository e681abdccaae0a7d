package menuopts

import (
	"errors"
	"fmt"
	"sort"

	"github.com/goliatone/go-menuopts/layering"
)

// Scope models a named precedence bucket for option values. Higher priority
// values represent stronger layers.
type Scope struct {
	Name     string         `json:"name"`
	Label    string         `json:"label,omitempty"`
	Priority int            `json:"priority"`
	Metadata map[string]any `json:"metadata,omitempty"`
}

// Priorities of the built-in scopes. Higher numbers win.
const (
	ScopePriorityDefaults = 100
	ScopePriorityPlayer   = 500
)

// ScopeOption configures metadata on Scope creation.
type ScopeOption func(*scopeConfig)

type scopeConfig struct {
	label    string
	metadata map[string]any
}

// WithScopeLabel sets a human-friendly label on the scope.
func WithScopeLabel(label string) ScopeOption {
	return func(cfg *scopeConfig) {
		cfg.label = label
	}
}

// WithScopeMetadata attaches arbitrary metadata to the scope. The map is
// copied.
func WithScopeMetadata(metadata map[string]any) ScopeOption {
	return func(cfg *scopeConfig) {
		if len(metadata) == 0 {
			return
		}
		cfg.metadata = copyMetadata(metadata)
	}
}

// NewScope builds a Scope. Validation is deferred to NewStack.
func NewScope(name string, priority int, opts ...ScopeOption) Scope {
	cfg := scopeConfig{}
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}
	return Scope{
		Name:     name,
		Label:    cfg.label,
		Priority: priority,
		Metadata: copyMetadata(cfg.metadata),
	}
}

// DefaultsScope holds option defaults.
func DefaultsScope() Scope {
	return NewScope("defaults", ScopePriorityDefaults, WithScopeLabel("Option Defaults"))
}

// PlayerScope holds the values one player reported.
func PlayerScope(player Player) Scope {
	var opts []ScopeOption
	opts = append(opts, WithScopeLabel("Player"))
	if player != nil {
		opts = append(opts, WithScopeMetadata(map[string]any{"player_id": player.PlayerID()}))
	}
	return NewScope("player", ScopePriorityPlayer, opts...)
}

func (s Scope) clone() Scope {
	return Scope{
		Name:     s.Name,
		Label:    s.Label,
		Priority: s.Priority,
		Metadata: copyMetadata(s.Metadata),
	}
}

// Layer pairs a scope with the values captured for it, keyed by custom id.
type Layer struct {
	Scope      Scope
	Snapshot   layering.Snapshot
	SnapshotID string
}

// LayerOption configures optional metadata for a layer.
type LayerOption func(*Layer)

// WithSnapshotID sets the snapshot identifier used for auditing.
func WithSnapshotID(id string) LayerOption {
	return func(layer *Layer) {
		layer.SnapshotID = id
	}
}

// NewLayer constructs a Layer holding copies of scope and snapshot.
func NewLayer(scope Scope, snapshot map[string]any, opts ...LayerOption) Layer {
	layer := Layer{
		Scope:    scope.clone(),
		Snapshot: layering.Clone(snapshot),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(&layer)
		}
	}
	return layer
}

var (
	// ErrScopeNameRequired indicates a missing scope name.
	ErrScopeNameRequired = errors.New("menuopts: scope name must be provided")
	// ErrDuplicateScopeName indicates NewStack received two layers with the
	// same scope name.
	ErrDuplicateScopeName = errors.New("menuopts: scope names must be unique")
	// ErrPriorityOrder indicates NewStack found two layers with the same
	// priority.
	ErrPriorityOrder = errors.New("menuopts: scope priorities must be strictly ordered")
)

// Stack is an immutable set of layers ordered from strongest to weakest.
type Stack struct {
	layers []Layer
}

// NewStack validates and sorts layers so the highest priority is first.
func NewStack(layers ...Layer) (*Stack, error) {
	seen := make(map[string]struct{}, len(layers))
	copied := make([]Layer, len(layers))
	for i, layer := range layers {
		if layer.Scope.Name == "" {
			return nil, ErrScopeNameRequired
		}
		if _, ok := seen[layer.Scope.Name]; ok {
			return nil, fmt.Errorf("%w: %s", ErrDuplicateScopeName, layer.Scope.Name)
		}
		seen[layer.Scope.Name] = struct{}{}
		copied[i] = cloneLayer(layer)
	}

	sort.Slice(copied, func(i, j int) bool {
		if copied[i].Scope.Priority == copied[j].Scope.Priority {
			return copied[i].Scope.Name < copied[j].Scope.Name
		}
		return copied[i].Scope.Priority > copied[j].Scope.Priority
	})
	for i := 1; i < len(copied); i++ {
		if copied[i-1].Scope.Priority <= copied[i].Scope.Priority {
			return nil, fmt.Errorf("%w: %d", ErrPriorityOrder, copied[i].Scope.Priority)
		}
	}
	return &Stack{layers: copied}, nil
}

// Layers returns copies of the layers, strongest first.
func (s *Stack) Layers() []Layer {
	if s == nil || len(s.layers) == 0 {
		return nil
	}
	out := make([]Layer, len(s.layers))
	for i := range s.layers {
		out[i] = cloneLayer(s.layers[i])
	}
	return out
}

// Len returns the number of layers in the stack.
func (s *Stack) Len() int {
	if s == nil {
		return 0
	}
	return len(s.layers)
}

// Merge flattens the stack into one snapshot, keeping layer provenance.
func (s *Stack) Merge() (*Resolved, error) {
	if s == nil || len(s.layers) == 0 {
		return nil, fmt.Errorf("menuopts: stack must include at least one layer")
	}
	snapshots := make([]layering.Snapshot, len(s.layers))
	for i := range s.layers {
		snapshots[i] = s.layers[i].Snapshot
	}
	return &Resolved{
		Values: layering.Merge(snapshots...),
		layers: s.Layers(),
	}, nil
}

func cloneLayer(layer Layer) Layer {
	return Layer{
		Scope:      layer.Scope.clone(),
		Snapshot:   layering.Clone(layer.Snapshot),
		SnapshotID: layer.SnapshotID,
	}
}

func copyMetadata(origin map[string]any) map[string]any {
	if len(origin) == 0 {
		return nil
	}
	out := make(map[string]any, len(origin))
	for key, value := range origin {
		out[key] = value
	}
	return out
}
