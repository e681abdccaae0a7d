package menuopts

import (
	"context"
	"fmt"
	"strings"
)

// Kind identifies the concrete option variant.
type Kind uint8

const (
	KindUnknown Kind = iota
	KindButton
	KindKeybind
	KindDropdown
	KindTextInput
	KindTextArea
	KindSlider
	KindTwoButtons
)

func (k Kind) String() string {
	switch k {
	case KindButton:
		return "button"
	case KindKeybind:
		return "keybind"
	case KindDropdown:
		return "dropdown"
	case KindTextInput:
		return "text_input"
	case KindTextArea:
		return "text_area"
	case KindSlider:
		return "slider"
	case KindTwoButtons:
		return "two_buttons"
	default:
		return "unknown"
	}
}

// ParseKind converts the String form back into a Kind.
func ParseKind(value string) Kind {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "button":
		return KindButton
	case "keybind":
		return KindKeybind
	case "dropdown":
		return KindDropdown
	case "text_input", "textinput":
		return KindTextInput
	case "text_area", "textarea":
		return KindTextArea
	case "slider":
		return KindSlider
	case "two_buttons", "twobuttons":
		return KindTwoButtons
	default:
		return KindUnknown
	}
}

// ValueType is the kind of value a player's live setting can be read as.
type ValueType uint8

const (
	ValueNone ValueType = iota
	ValueString
	ValueNumber
	ValueBoolean
)

func (v ValueType) String() string {
	switch v {
	case ValueString:
		return "string"
	case ValueNumber:
		return "number"
	case ValueBoolean:
		return "boolean"
	default:
		return "none"
	}
}

// Option is one element of a settings menu. Implementations outside this
// package are accepted for registration; value extraction only knows the
// built-in kinds.
type Option interface {
	CustomID() string
	ID() int32
	SetID(int32)
	Kind() Kind
	ReturnableType() ValueType
	Label() string
	Hint() string
}

// ValueReceiverFunc handles a value reported by a player.
type ValueReceiverFunc func(ctx context.Context, player Player, option Option)

// ValueReceiver is implemented by options that want value-received
// notifications.
type ValueReceiver interface {
	Option
	ValueReceivedHandler() ValueReceiverFunc
}

// Validatable options check their own fields.
type Validatable interface {
	Validate() error
}

// Base carries the fields shared by every built-in option.
type Base struct {
	CustomIDValue string `json:"custom_id" yaml:"custom_id" validate:"required,max=128"`
	LabelText     string `json:"label" yaml:"label" validate:"required"`
	HintText      string `json:"hint,omitempty" yaml:"hint,omitempty"`

	id int32
}

func (b *Base) CustomID() string { return b.CustomIDValue }
func (b *Base) ID() int32        { return b.id }
func (b *Base) SetID(id int32)   { b.id = id }
func (b *Base) Label() string    { return b.LabelText }
func (b *Base) Hint() string     { return b.HintText }

func (b *Base) validateBase(kind Kind) error {
	if strings.TrimSpace(b.CustomIDValue) == "" {
		return fieldError(kind, b.CustomIDValue, "custom_id", "must not be empty")
	}
	if strings.TrimSpace(b.LabelText) == "" {
		return fieldError(kind, b.CustomIDValue, "label", "must not be empty")
	}
	return nil
}

func fieldError(kind Kind, customID, field, reason string) error {
	return &ValidationError{
		Subject: fmt.Sprintf("%s %q", kind, customID),
		Field:   field,
		Reason:  reason,
	}
}
