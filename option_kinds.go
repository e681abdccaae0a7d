package menuopts

import (
	"context"
	"strings"
)

// Button is a pressable button. It reports no value.
type Button struct {
	Base     `yaml:",inline"`
	Text     string  `json:"text" yaml:"text" validate:"required"`
	HoldTime float64 `json:"hold_time,omitempty" yaml:"hold_time,omitempty" validate:"gte=0"`

	OnClicked func(ctx context.Context, player Player, button *Button) `json:"-" yaml:"-"`
}

func (*Button) Kind() Kind                { return KindButton }
func (*Button) ReturnableType() ValueType { return ValueNone }

func (b *Button) Validate() error {
	if err := b.validateBase(KindButton); err != nil {
		return err
	}
	if strings.TrimSpace(b.Text) == "" {
		return fieldError(KindButton, b.CustomIDValue, "text", "must not be empty")
	}
	if b.HoldTime < 0 {
		return fieldError(KindButton, b.CustomIDValue, "hold_time", "must not be negative")
	}
	return nil
}

// Keybind suggests a key the player can bind. It reports no value.
type Keybind struct {
	Base                `yaml:",inline"`
	SuggestedKey        string `json:"suggested_key,omitempty" yaml:"suggested_key,omitempty"`
	PreventInteractOnUI bool   `json:"prevent_interaction_on_gui,omitempty" yaml:"prevent_interaction_on_gui,omitempty"`

	OnPressed func(ctx context.Context, player Player, keybind *Keybind) `json:"-" yaml:"-"`
}

func (*Keybind) Kind() Kind                { return KindKeybind }
func (*Keybind) ReturnableType() ValueType { return ValueNone }

func (k *Keybind) Validate() error {
	return k.validateBase(KindKeybind)
}

// DropdownEntryType controls how the client renders dropdown entries.
type DropdownEntryType string

const (
	EntryRegular        DropdownEntryType = "regular"
	EntryScrollable     DropdownEntryType = "scrollable"
	EntryScrollableLoop DropdownEntryType = "scrollable_loop"
	EntryHybrid         DropdownEntryType = "hybrid"
	EntryHybridLoop     DropdownEntryType = "hybrid_loop"
)

// Dropdown lets the player select one entry. Its value is the selected
// entry's text.
type Dropdown struct {
	Base         `yaml:",inline"`
	Entries      []string          `json:"entries" yaml:"entries" validate:"min=1,dive,required"`
	DefaultIndex int               `json:"default_index" yaml:"default_index" validate:"gte=0"`
	EntryType    DropdownEntryType `json:"entry_type,omitempty" yaml:"entry_type,omitempty"`

	OnValueReceived ValueReceiverFunc `json:"-" yaml:"-"`
}

func (*Dropdown) Kind() Kind                { return KindDropdown }
func (*Dropdown) ReturnableType() ValueType { return ValueString }

func (d *Dropdown) ValueReceivedHandler() ValueReceiverFunc { return d.OnValueReceived }

// DefaultEntry returns the entry selected before the player changes anything.
func (d *Dropdown) DefaultEntry() (string, bool) {
	if d.DefaultIndex < 0 || d.DefaultIndex >= len(d.Entries) {
		return "", false
	}
	return d.Entries[d.DefaultIndex], true
}

func (d *Dropdown) Validate() error {
	if err := d.validateBase(KindDropdown); err != nil {
		return err
	}
	if len(d.Entries) == 0 {
		return fieldError(KindDropdown, d.CustomIDValue, "entries", "must not be empty")
	}
	if d.DefaultIndex < 0 || d.DefaultIndex >= len(d.Entries) {
		return fieldError(KindDropdown, d.CustomIDValue, "default_index", "out of range")
	}
	return nil
}

// TextInput accepts free text from the player.
type TextInput struct {
	Base           `yaml:",inline"`
	Placeholder    string `json:"placeholder,omitempty" yaml:"placeholder,omitempty"`
	CharacterLimit int    `json:"character_limit,omitempty" yaml:"character_limit,omitempty" validate:"gte=0"`
	ContentType    string `json:"content_type,omitempty" yaml:"content_type,omitempty"`

	OnValueReceived ValueReceiverFunc `json:"-" yaml:"-"`
}

func (*TextInput) Kind() Kind                { return KindTextInput }
func (*TextInput) ReturnableType() ValueType { return ValueString }

func (t *TextInput) ValueReceivedHandler() ValueReceiverFunc { return t.OnValueReceived }

func (t *TextInput) Validate() error {
	if err := t.validateBase(KindTextInput); err != nil {
		return err
	}
	if t.CharacterLimit < 0 {
		return fieldError(KindTextInput, t.CustomIDValue, "character_limit", "must not be negative")
	}
	return nil
}

// TextArea displays read-only text.
type TextArea struct {
	Base          `yaml:",inline"`
	FoldoutMode   string `json:"foldout_mode,omitempty" yaml:"foldout_mode,omitempty" validate:"omitempty,oneof=none collapse_on_entry extend_on_entry collapsed_by_default extended_by_default"`
	TextAlignment string `json:"text_alignment,omitempty" yaml:"text_alignment,omitempty"`
}

func (*TextArea) Kind() Kind                { return KindTextArea }
func (*TextArea) ReturnableType() ValueType { return ValueNone }

func (t *TextArea) Validate() error {
	return t.validateBase(KindTextArea)
}

// Slider selects a number between MinValue and MaxValue.
type Slider struct {
	Base          `yaml:",inline"`
	MinValue      float64 `json:"min" yaml:"min"`
	MaxValue      float64 `json:"max" yaml:"max" validate:"gtefield=MinValue"`
	DefaultValue  float64 `json:"default" yaml:"default" validate:"gtefield=MinValue,ltefield=MaxValue"`
	Integer       bool    `json:"integer,omitempty" yaml:"integer,omitempty"`
	StringFormat  string  `json:"string_format,omitempty" yaml:"string_format,omitempty"`
	DisplayFormat string  `json:"display_format,omitempty" yaml:"display_format,omitempty"`

	OnValueReceived ValueReceiverFunc `json:"-" yaml:"-"`
}

// Slider format defaults applied by the builder.
const (
	DefaultSliderStringFormat  = "0.##"
	DefaultSliderDisplayFormat = "{0}"
)

func (*Slider) Kind() Kind                { return KindSlider }
func (*Slider) ReturnableType() ValueType { return ValueNumber }

func (s *Slider) ValueReceivedHandler() ValueReceiverFunc { return s.OnValueReceived }

func (s *Slider) Validate() error {
	if err := s.validateBase(KindSlider); err != nil {
		return err
	}
	if s.MaxValue < s.MinValue {
		return fieldError(KindSlider, s.CustomIDValue, "max", "must be >= min")
	}
	if s.DefaultValue < s.MinValue || s.DefaultValue > s.MaxValue {
		return fieldError(KindSlider, s.CustomIDValue, "default", "must be within [min, max]")
	}
	return nil
}

// TwoButtons is a binary choice. Its value is true when the first button is
// selected.
type TwoButtons struct {
	Base          `yaml:",inline"`
	First         string `json:"first" yaml:"first" validate:"required"`
	Second        string `json:"second" yaml:"second" validate:"required"`
	SecondDefault bool   `json:"second_default,omitempty" yaml:"second_default,omitempty"`

	OnChoice        func(ctx context.Context, player Player, isFirst bool) `json:"-" yaml:"-"`
	OnValueReceived ValueReceiverFunc                                      `json:"-" yaml:"-"`
}

func (*TwoButtons) Kind() Kind                { return KindTwoButtons }
func (*TwoButtons) ReturnableType() ValueType { return ValueBoolean }

func (t *TwoButtons) ValueReceivedHandler() ValueReceiverFunc { return t.OnValueReceived }

func (t *TwoButtons) Validate() error {
	if err := t.validateBase(KindTwoButtons); err != nil {
		return err
	}
	if strings.TrimSpace(t.First) == "" {
		return fieldError(KindTwoButtons, t.CustomIDValue, "first", "must not be empty")
	}
	if strings.TrimSpace(t.Second) == "" {
		return fieldError(KindTwoButtons, t.CustomIDValue, "second", "must not be empty")
	}
	return nil
}

var (
	_ Option        = (*Button)(nil)
	_ Option        = (*Keybind)(nil)
	_ ValueReceiver = (*Dropdown)(nil)
	_ ValueReceiver = (*TextInput)(nil)
	_ Option        = (*TextArea)(nil)
	_ ValueReceiver = (*Slider)(nil)
	_ ValueReceiver = (*TwoButtons)(nil)
)
