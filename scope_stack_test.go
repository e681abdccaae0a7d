package menuopts

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewStackOrdersByPriority(t *testing.T) {
	low := NewLayer(NewScope("defaults", ScopePriorityDefaults), map[string]any{"Volume": 0.8})
	high := NewLayer(NewScope("player", ScopePriorityPlayer), map[string]any{"Volume": 0.3})

	stack, err := NewStack(low, high)
	require.NoError(t, err)
	layers := stack.Layers()
	require.Len(t, layers, 2)
	assert.Equal(t, "player", layers[0].Scope.Name)
	assert.Equal(t, "defaults", layers[1].Scope.Name)
}

func TestNewStackValidation(t *testing.T) {
	cases := []struct {
		name   string
		layers []Layer
		want   error
	}{
		{
			name:   "missing name",
			layers: []Layer{NewLayer(NewScope("", 1), nil)},
			want:   ErrScopeNameRequired,
		},
		{
			name:   "duplicate name",
			layers: []Layer{NewLayer(NewScope("a", 1), nil), NewLayer(NewScope("a", 2), nil)},
			want:   ErrDuplicateScopeName,
		},
		{
			name:   "equal priorities",
			layers: []Layer{NewLayer(NewScope("a", 1), nil), NewLayer(NewScope("b", 1), nil)},
			want:   ErrPriorityOrder,
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := NewStack(tc.layers...)
			assert.ErrorIs(t, err, tc.want)
		})
	}
}

func TestStackMergeKeepsInputsIntact(t *testing.T) {
	defaults := map[string]any{"Volume": 0.8, "Color": "Green"}
	reported := map[string]any{"Color": "Blue"}

	stack, err := NewStack(
		NewLayer(DefaultsScope(), defaults),
		NewLayer(PlayerScope(BasicPlayer{ID: "alice"}), reported, WithSnapshotID("alice")),
	)
	require.NoError(t, err)
	resolved, err := stack.Merge()
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"Volume": 0.8, "Color": "Blue"}, resolved.Values)

	resolved.Values["Color"] = "Red"
	assert.Equal(t, "Blue", reported["Color"], "merge must not alias its inputs")
	assert.Equal(t, "Green", defaults["Color"], "merge must not alias its inputs")

	provenance := resolved.FlattenWithProvenance()
	require.Len(t, provenance, 2)
	assert.Equal(t, "Color", provenance[0].Path)
	assert.Equal(t, "player", provenance[0].Scope.Name)
	assert.Equal(t, "Volume", provenance[1].Path)
	assert.Equal(t, "defaults", provenance[1].Scope.Name)
}

func TestEmptyStackCannotMerge(t *testing.T) {
	stack, err := NewStack()
	require.NoError(t, err)
	_, err = stack.Merge()
	assert.Error(t, err)
}

func TestScopeMetadataIsCopied(t *testing.T) {
	meta := map[string]any{"player_id": "alice"}
	scope := NewScope("player", ScopePriorityPlayer, WithScopeLabel("Player"), WithScopeMetadata(meta))
	meta["player_id"] = "bob"
	assert.Equal(t, "alice", scope.Metadata["player_id"])
	assert.Equal(t, "Player", scope.Label)
}

func TestTraceJSONRoundTrip(t *testing.T) {
	stack, err := NewStack(
		NewLayer(DefaultsScope(), map[string]any{"Volume": 0.8}),
		NewLayer(PlayerScope(BasicPlayer{ID: "alice"}), map[string]any{}, WithSnapshotID("alice")),
	)
	require.NoError(t, err)
	resolved, err := stack.Merge()
	require.NoError(t, err)
	_, trace, err := resolved.ResolveWithTrace("Volume")
	require.NoError(t, err)

	payload, err := trace.ToJSON()
	require.NoError(t, err)
	decoded, err := TraceFromJSON(payload)
	require.NoError(t, err)

	winner, ok := decoded.Winner()
	require.True(t, ok)
	assert.Equal(t, "defaults", winner.Scope.Name)
	assert.Equal(t, 0.8, winner.Value)
	assert.False(t, decoded.Layers[0].Found, "player layer misses")
	assert.Equal(t, "alice", decoded.Layers[0].SnapshotID)
}
