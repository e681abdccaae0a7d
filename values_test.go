package menuopts_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	menuopts "github.com/goliatone/go-menuopts"
)

// customText returns a string value but is not a built-in kind.
type customText struct {
	menuopts.Base
}

func (*customText) Kind() menuopts.Kind                { return menuopts.KindUnknown }
func (*customText) ReturnableType() menuopts.ValueType { return menuopts.ValueString }

func registerFor(t *testing.T, h *harness, player menuopts.Player, options ...menuopts.Option) {
	t.Helper()
	h.transport.Connect(player)
	require.NoError(t, h.svc.Register(context.Background(), menuopts.NewOptionNode("Menu", options...), nil))
}

func TestGetStringValueOnSliderIsTypeMismatch(t *testing.T) {
	h := newHarness(t)
	player := menuopts.BasicPlayer{ID: "alice"}
	registerFor(t, h, player, volumeSlider())

	_, err := h.svc.GetStringValue(context.Background(), player, "Volume")
	require.ErrorIs(t, err, menuopts.ErrTypeMismatch)

	var mismatch *menuopts.TypeMismatchError
	require.True(t, errors.As(err, &mismatch))
	assert.Equal(t, menuopts.ValueNumber, mismatch.Have)
	assert.Equal(t, menuopts.ValueString, mismatch.Want)
}

func TestGetNumberValueUnknownIsNotFound(t *testing.T) {
	h := newHarness(t)
	_, err := h.svc.GetNumberValue(context.Background(), menuopts.BasicPlayer{ID: "alice"}, "unknown")
	require.ErrorIs(t, err, menuopts.ErrNotFound)
}

func TestDropdownReportsSelectedEntry(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	player := menuopts.BasicPlayer{ID: "alice"}
	dropdown := colorDropdown()
	registerFor(t, h, player, dropdown)

	require.NoError(t, h.transport.Report(ctx, player, dropdown.ID(), menuopts.SettingValue{
		Kind:          menuopts.KindDropdown,
		SelectedIndex: 2,
	}))

	got, err := h.svc.GetStringValue(ctx, player, "Color")
	require.NoError(t, err)
	assert.Equal(t, "Blue", got)
}

func TestDropdownPrefersReportedText(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	player := menuopts.BasicPlayer{ID: "alice"}
	dropdown := colorDropdown()
	registerFor(t, h, player, dropdown)

	require.NoError(t, h.transport.Report(ctx, player, dropdown.ID(), menuopts.SettingValue{
		Kind:          menuopts.KindDropdown,
		SelectedIndex: 0,
		SelectedText:  "Green",
	}))
	got, err := h.svc.GetStringValue(ctx, player, "Color")
	require.NoError(t, err)
	assert.Equal(t, "Green", got)
}

func TestDropdownIndexOutOfRangeIsUnavailable(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	player := menuopts.BasicPlayer{ID: "alice"}
	dropdown := colorDropdown()
	registerFor(t, h, player, dropdown)

	require.NoError(t, h.transport.Report(ctx, player, dropdown.ID(), menuopts.SettingValue{SelectedIndex: 9}))
	_, err := h.svc.GetStringValue(ctx, player, "Color")
	require.ErrorIs(t, err, menuopts.ErrValueUnavailable)
}

func TestTypedValueExtraction(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	player := menuopts.BasicPlayer{ID: "alice"}
	slider := volumeSlider()
	name := &menuopts.TextInput{Base: menuopts.Base{CustomIDValue: "Name", LabelText: "Name"}}
	confirm := &menuopts.TwoButtons{Base: menuopts.Base{CustomIDValue: "Confirm", LabelText: "Confirm"}, First: "Yes", Second: "No"}
	registerFor(t, h, player, slider, name, confirm)

	require.NoError(t, h.transport.Report(ctx, player, slider.ID(), menuopts.SettingValue{Kind: menuopts.KindSlider, Number: 0.25}))
	require.NoError(t, h.transport.Report(ctx, player, name.ID(), menuopts.SettingValue{Kind: menuopts.KindTextInput, Text: "Kestrel"}))
	require.NoError(t, h.transport.Report(ctx, player, confirm.ID(), menuopts.SettingValue{Kind: menuopts.KindTwoButtons, IsFirst: false}))

	number, err := h.svc.GetNumberValue(ctx, player, "Volume")
	require.NoError(t, err)
	assert.Equal(t, 0.25, number)

	text, err := h.svc.GetStringValue(ctx, player, "Name")
	require.NoError(t, err)
	assert.Equal(t, "Kestrel", text)

	choice, err := h.svc.GetBooleanValue(ctx, player, "Confirm")
	require.NoError(t, err)
	assert.False(t, choice)

	_, err = h.svc.GetBooleanValue(ctx, player, "Name")
	assert.ErrorIs(t, err, menuopts.ErrTypeMismatch)
}

func TestMissingSettingIsValueUnavailable(t *testing.T) {
	h := newHarness(t)
	player := menuopts.BasicPlayer{ID: "alice"}
	registerFor(t, h, player, volumeSlider())

	_, err := h.svc.GetNumberValue(context.Background(), player, "Volume")
	require.ErrorIs(t, err, menuopts.ErrValueUnavailable)
}

func TestNilPlayerIsValidationError(t *testing.T) {
	h := newHarness(t)
	registerFor(t, h, menuopts.BasicPlayer{ID: "alice"}, volumeSlider())

	_, err := h.svc.GetNumberValue(context.Background(), nil, "Volume")
	require.ErrorIs(t, err, menuopts.ErrValidation)
}

func TestLiveSettingOfAnotherKindIsInternalConsistency(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	player := menuopts.BasicPlayer{ID: "alice"}
	slider := volumeSlider()
	registerFor(t, h, player, slider)

	require.NoError(t, h.transport.Report(ctx, player, slider.ID(), menuopts.SettingValue{Kind: menuopts.KindDropdown}))
	_, err := h.svc.GetNumberValue(ctx, player, "Volume")
	require.ErrorIs(t, err, menuopts.ErrInternalConsistency)
}

func TestCustomOptionWithoutExtractionIsInternalConsistency(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	player := menuopts.BasicPlayer{ID: "alice"}
	custom := &customText{Base: menuopts.Base{CustomIDValue: "Custom", LabelText: "Custom"}}
	registerFor(t, h, player, custom)

	require.NoError(t, h.transport.Report(ctx, player, custom.ID(), menuopts.SettingValue{Text: "x"}))
	_, err := h.svc.GetStringValue(ctx, player, "Custom")
	require.ErrorIs(t, err, menuopts.ErrInternalConsistency)
}
