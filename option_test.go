package menuopts

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestKindRoundTripsThroughString(t *testing.T) {
	for kind := KindButton; kind <= KindTwoButtons; kind++ {
		assert.Equal(t, kind, ParseKind(kind.String()), "ParseKind(%q)", kind.String())
	}
	assert.Equal(t, KindUnknown, ParseKind("radio"))
}

func TestReturnableTypesAreFixedPerKind(t *testing.T) {
	cases := []struct {
		option Option
		want   ValueType
	}{
		{&Button{}, ValueNone},
		{&Keybind{}, ValueNone},
		{&TextArea{}, ValueNone},
		{&Dropdown{}, ValueString},
		{&TextInput{}, ValueString},
		{&Slider{}, ValueNumber},
		{&TwoButtons{}, ValueBoolean},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, tc.option.ReturnableType(), "%s", tc.option.Kind())
	}
}

func TestOptionValidation(t *testing.T) {
	base := Base{CustomIDValue: "id", LabelText: "Label"}
	cases := []struct {
		name    string
		option  Validatable
		field   string
		wantErr bool
	}{
		{"button ok", &Button{Base: base, Text: "Go"}, "", false},
		{"button missing text", &Button{Base: base}, "text", true},
		{"button negative hold", &Button{Base: base, Text: "Go", HoldTime: -1}, "hold_time", true},
		{"missing custom id", &Keybind{Base: Base{LabelText: "x"}}, "custom_id", true},
		{"missing label", &TextArea{Base: Base{CustomIDValue: "x"}}, "label", true},
		{"dropdown empty", &Dropdown{Base: base}, "entries", true},
		{"dropdown default out of range", &Dropdown{Base: base, Entries: []string{"a"}, DefaultIndex: 1}, "default_index", true},
		{"slider inverted", &Slider{Base: base, MinValue: 2, MaxValue: 1, DefaultValue: 1}, "max", true},
		{"slider default outside", &Slider{Base: base, MaxValue: 1, DefaultValue: 2}, "default", true},
		{"text input negative limit", &TextInput{Base: base, CharacterLimit: -1}, "character_limit", true},
		{"two buttons missing second", &TwoButtons{Base: base, First: "Yes"}, "second", true},
		{"two buttons ok", &TwoButtons{Base: base, First: "Yes", Second: "No"}, "", false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.option.Validate()
			if !tc.wantErr {
				require.NoError(t, err)
				return
			}
			var verr *ValidationError
			require.ErrorAs(t, err, &verr)
			assert.Equal(t, tc.field, verr.Field)
			assert.ErrorIs(t, err, ErrValidation)
		})
	}
}

func TestNodeValidateJoinsChildErrors(t *testing.T) {
	node := NewOptionNode("Audio",
		&Button{Base: Base{CustomIDValue: "a", LabelText: "A"}},
		&Slider{Base: Base{CustomIDValue: "a", LabelText: "Dup"}, MaxValue: 1},
		nil,
	)
	err := node.Validate()
	require.Error(t, err)
	for _, fragment := range []string{"text", "already used", "options[2]"} {
		assert.Contains(t, err.Error(), fragment)
	}

	assert.ErrorIs(t, NewOptionNode("  ").Validate(), ErrValidation)
}

func TestDropdownDefaultEntry(t *testing.T) {
	d := &Dropdown{Entries: []string{"Red", "Green", "Blue"}, DefaultIndex: 1}
	got, ok := d.DefaultEntry()
	assert.True(t, ok)
	assert.Equal(t, "Green", got)

	d.DefaultIndex = 5
	_, ok = d.DefaultEntry()
	assert.False(t, ok, "out-of-range default")
}
