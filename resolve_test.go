package menuopts_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	menuopts "github.com/goliatone/go-menuopts"
)

func TestDefaultsCoverValueOptions(t *testing.T) {
	h := newHarness(t)
	registerFor(t, h, menuopts.BasicPlayer{ID: "alice"},
		volumeSlider(),
		colorDropdown(),
		&menuopts.TwoButtons{Base: menuopts.Base{CustomIDValue: "Confirm", LabelText: "Confirm"}, First: "Yes", Second: "No", SecondDefault: true},
		&menuopts.TextInput{Base: menuopts.Base{CustomIDValue: "Name", LabelText: "Name"}},
		&menuopts.Button{Base: menuopts.Base{CustomIDValue: "Reset", LabelText: "Reset"}, Text: "Reset"},
	)

	assert.Equal(t, map[string]any{
		"Volume":  0.8,
		"Color":   "Green",
		"Confirm": false,
		"Name":    "",
	}, h.svc.Defaults())
}

func TestSnapshotLayersReportedValuesOverDefaults(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	player := menuopts.BasicPlayer{ID: "alice"}
	slider, dropdown := volumeSlider(), colorDropdown()
	registerFor(t, h, player, slider, dropdown)

	require.NoError(t, h.transport.Report(ctx, player, dropdown.ID(), menuopts.SettingValue{Kind: menuopts.KindDropdown, SelectedIndex: 2}))

	snapshot, err := h.svc.Snapshot(ctx, player)
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"Volume": 0.8, "Color": "Blue"}, snapshot)

	other, err := h.svc.Snapshot(ctx, menuopts.BasicPlayer{ID: "bob"})
	require.NoError(t, err)
	assert.Equal(t, "Green", other["Color"])
}

func TestResolveWithTraceReportsWinningScope(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	player := menuopts.BasicPlayer{ID: "alice"}
	slider := volumeSlider()
	registerFor(t, h, player, slider)

	value, trace, err := h.svc.ResolveWithTrace(ctx, player, "Volume")
	require.NoError(t, err)
	assert.Equal(t, 0.8, value)
	winner, ok := trace.Winner()
	require.True(t, ok)
	assert.Equal(t, "defaults", winner.Scope.Name)

	require.NoError(t, h.transport.Report(ctx, player, slider.ID(), menuopts.SettingValue{Kind: menuopts.KindSlider, Number: 0.3}))

	value, trace, err = h.svc.ResolveWithTrace(ctx, player, "Volume")
	require.NoError(t, err)
	assert.Equal(t, 0.3, value)
	require.Len(t, trace.Layers, 2)
	assert.Equal(t, "player", trace.Layers[0].Scope.Name)
	assert.Equal(t, "alice", trace.Layers[0].SnapshotID)
	assert.True(t, trace.Layers[0].Found)
	assert.True(t, trace.Layers[1].Found)
	assert.Equal(t, 0.8, trace.Layers[1].Value)
}

func TestResolveWithTraceErrors(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	player := menuopts.BasicPlayer{ID: "alice"}
	registerFor(t, h, player, &menuopts.Button{Base: menuopts.Base{CustomIDValue: "Reset", LabelText: "Reset"}, Text: "Reset"})

	_, _, err := h.svc.ResolveWithTrace(ctx, player, "missing")
	assert.ErrorIs(t, err, menuopts.ErrNotFound)

	_, _, err = h.svc.ResolveWithTrace(ctx, player, "Reset")
	assert.ErrorIs(t, err, menuopts.ErrNotFound)

	_, err = h.svc.Snapshot(ctx, nil)
	assert.ErrorIs(t, err, menuopts.ErrValidation)
}
