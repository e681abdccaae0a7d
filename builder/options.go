package builder

import (
	"context"
	"fmt"

	menuopts "github.com/goliatone/go-menuopts"
)

// OptionBuilder is implemented by every option builder so nodes can take
// them directly.
type OptionBuilder interface {
	BuildOption() (menuopts.Option, error)
}

// DropdownBuilder builds a *menuopts.Dropdown.
type DropdownBuilder struct {
	option       menuopts.Dropdown
	defaultEntry *string
}

// Dropdown starts a dropdown with the given custom id and label.
func Dropdown(customID, label string) *DropdownBuilder {
	return &DropdownBuilder{option: menuopts.Dropdown{
		Base:      menuopts.Base{CustomIDValue: customID, LabelText: label},
		EntryType: menuopts.EntryRegular,
	}}
}

func (b *DropdownBuilder) Hint(hint string) *DropdownBuilder {
	b.option.HintText = hint
	return b
}

// Entries appends selectable entries in display order.
func (b *DropdownBuilder) Entries(entries ...string) *DropdownBuilder {
	b.option.Entries = append(b.option.Entries, entries...)
	return b
}

func (b *DropdownBuilder) DefaultIndex(index int) *DropdownBuilder {
	b.option.DefaultIndex = index
	b.defaultEntry = nil
	return b
}

// DefaultEntry selects the default by text. Build fails if no entry matches.
func (b *DropdownBuilder) DefaultEntry(text string) *DropdownBuilder {
	b.defaultEntry = &text
	return b
}

func (b *DropdownBuilder) EntryType(entryType menuopts.DropdownEntryType) *DropdownBuilder {
	b.option.EntryType = entryType
	return b
}

func (b *DropdownBuilder) OnValueReceived(fn menuopts.ValueReceiverFunc) *DropdownBuilder {
	b.option.OnValueReceived = fn
	return b
}

func (b *DropdownBuilder) Build() (*menuopts.Dropdown, error) {
	option := b.option
	option.Entries = append([]string(nil), b.option.Entries...)
	var pending []error

	if b.defaultEntry != nil {
		index := -1
		for i, entry := range option.Entries {
			if entry == *b.defaultEntry {
				index = i
				break
			}
		}
		if index < 0 {
			pending = append(pending, &menuopts.ValidationError{
				Subject: fmt.Sprintf("%s %q", menuopts.KindDropdown, option.CustomIDValue),
				Field:   "default_entry",
				Reason:  fmt.Sprintf("%q is not one of the entries", *b.defaultEntry),
			})
		} else {
			option.DefaultIndex = index
		}
	}
	if err := validate.Var(string(option.EntryType), "omitempty,oneof=regular scrollable scrollable_loop hybrid hybrid_loop"); err != nil {
		pending = append(pending, translate(fmt.Sprintf("%s %q", menuopts.KindDropdown, option.CustomIDValue), "entry_type", err)...)
	}
	if err := check(&option, pending); err != nil {
		return nil, err
	}
	return &option, nil
}

func (b *DropdownBuilder) BuildOption() (menuopts.Option, error) { return b.Build() }

// SliderBuilder builds a *menuopts.Slider.
type SliderBuilder struct {
	option menuopts.Slider
}

// Slider starts a slider over [0, 1] with the default format strings.
func Slider(customID, label string) *SliderBuilder {
	return &SliderBuilder{option: menuopts.Slider{
		Base:          menuopts.Base{CustomIDValue: customID, LabelText: label},
		MaxValue:      1,
		StringFormat:  menuopts.DefaultSliderStringFormat,
		DisplayFormat: menuopts.DefaultSliderDisplayFormat,
	}}
}

func (b *SliderBuilder) Hint(hint string) *SliderBuilder {
	b.option.HintText = hint
	return b
}

// Range sets the bounds and clamps the current default into them.
func (b *SliderBuilder) Range(minValue, maxValue float64) *SliderBuilder {
	b.option.MinValue = minValue
	b.option.MaxValue = maxValue
	if b.option.DefaultValue < minValue {
		b.option.DefaultValue = minValue
	}
	return b
}

func (b *SliderBuilder) Default(value float64) *SliderBuilder {
	b.option.DefaultValue = value
	return b
}

// Integer restricts the slider to whole numbers.
func (b *SliderBuilder) Integer() *SliderBuilder {
	b.option.Integer = true
	return b
}

// Formats overrides the value and display format strings. Empty values keep
// the defaults.
func (b *SliderBuilder) Formats(stringFormat, displayFormat string) *SliderBuilder {
	if stringFormat != "" {
		b.option.StringFormat = stringFormat
	}
	if displayFormat != "" {
		b.option.DisplayFormat = displayFormat
	}
	return b
}

func (b *SliderBuilder) OnValueReceived(fn menuopts.ValueReceiverFunc) *SliderBuilder {
	b.option.OnValueReceived = fn
	return b
}

func (b *SliderBuilder) Build() (*menuopts.Slider, error) {
	option := b.option
	if err := check(&option, nil); err != nil {
		return nil, err
	}
	return &option, nil
}

func (b *SliderBuilder) BuildOption() (menuopts.Option, error) { return b.Build() }

// ButtonBuilder builds a *menuopts.Button.
type ButtonBuilder struct {
	option menuopts.Button
}

// Button starts a button whose text defaults to its label.
func Button(customID, label string) *ButtonBuilder {
	return &ButtonBuilder{option: menuopts.Button{
		Base: menuopts.Base{CustomIDValue: customID, LabelText: label},
		Text: label,
	}}
}

func (b *ButtonBuilder) Hint(hint string) *ButtonBuilder {
	b.option.HintText = hint
	return b
}

func (b *ButtonBuilder) Text(text string) *ButtonBuilder {
	b.option.Text = text
	return b
}

// HoldTime is how long, in seconds, the button must be held.
func (b *ButtonBuilder) HoldTime(seconds float64) *ButtonBuilder {
	b.option.HoldTime = seconds
	return b
}

func (b *ButtonBuilder) OnClicked(fn func(ctx context.Context, player menuopts.Player, button *menuopts.Button)) *ButtonBuilder {
	b.option.OnClicked = fn
	return b
}

func (b *ButtonBuilder) Build() (*menuopts.Button, error) {
	option := b.option
	if err := check(&option, nil); err != nil {
		return nil, err
	}
	return &option, nil
}

func (b *ButtonBuilder) BuildOption() (menuopts.Option, error) { return b.Build() }

// KeybindBuilder builds a *menuopts.Keybind.
type KeybindBuilder struct {
	option menuopts.Keybind
}

func Keybind(customID, label string) *KeybindBuilder {
	return &KeybindBuilder{option: menuopts.Keybind{
		Base: menuopts.Base{CustomIDValue: customID, LabelText: label},
	}}
}

func (b *KeybindBuilder) Hint(hint string) *KeybindBuilder {
	b.option.HintText = hint
	return b
}

func (b *KeybindBuilder) SuggestedKey(key string) *KeybindBuilder {
	b.option.SuggestedKey = key
	return b
}

// PreventInteractOnUI suppresses the binding while a game UI is open.
func (b *KeybindBuilder) PreventInteractOnUI() *KeybindBuilder {
	b.option.PreventInteractOnUI = true
	return b
}

func (b *KeybindBuilder) OnPressed(fn func(ctx context.Context, player menuopts.Player, keybind *menuopts.Keybind)) *KeybindBuilder {
	b.option.OnPressed = fn
	return b
}

func (b *KeybindBuilder) Build() (*menuopts.Keybind, error) {
	option := b.option
	if err := check(&option, nil); err != nil {
		return nil, err
	}
	return &option, nil
}

func (b *KeybindBuilder) BuildOption() (menuopts.Option, error) { return b.Build() }

// TextInputBuilder builds a *menuopts.TextInput.
type TextInputBuilder struct {
	option menuopts.TextInput
}

func TextInput(customID, label string) *TextInputBuilder {
	return &TextInputBuilder{option: menuopts.TextInput{
		Base: menuopts.Base{CustomIDValue: customID, LabelText: label},
	}}
}

func (b *TextInputBuilder) Hint(hint string) *TextInputBuilder {
	b.option.HintText = hint
	return b
}

func (b *TextInputBuilder) Placeholder(text string) *TextInputBuilder {
	b.option.Placeholder = text
	return b
}

// CharacterLimit caps the input length. Zero means unlimited.
func (b *TextInputBuilder) CharacterLimit(limit int) *TextInputBuilder {
	b.option.CharacterLimit = limit
	return b
}

func (b *TextInputBuilder) ContentType(contentType string) *TextInputBuilder {
	b.option.ContentType = contentType
	return b
}

func (b *TextInputBuilder) OnValueReceived(fn menuopts.ValueReceiverFunc) *TextInputBuilder {
	b.option.OnValueReceived = fn
	return b
}

func (b *TextInputBuilder) Build() (*menuopts.TextInput, error) {
	option := b.option
	if err := check(&option, nil); err != nil {
		return nil, err
	}
	return &option, nil
}

func (b *TextInputBuilder) BuildOption() (menuopts.Option, error) { return b.Build() }

// TextAreaBuilder builds a *menuopts.TextArea.
type TextAreaBuilder struct {
	option menuopts.TextArea
}

func TextArea(customID, label string) *TextAreaBuilder {
	return &TextAreaBuilder{option: menuopts.TextArea{
		Base: menuopts.Base{CustomIDValue: customID, LabelText: label},
	}}
}

func (b *TextAreaBuilder) Hint(hint string) *TextAreaBuilder {
	b.option.HintText = hint
	return b
}

func (b *TextAreaBuilder) FoldoutMode(mode string) *TextAreaBuilder {
	b.option.FoldoutMode = mode
	return b
}

func (b *TextAreaBuilder) TextAlignment(alignment string) *TextAreaBuilder {
	b.option.TextAlignment = alignment
	return b
}

func (b *TextAreaBuilder) Build() (*menuopts.TextArea, error) {
	option := b.option
	if err := check(&option, nil); err != nil {
		return nil, err
	}
	return &option, nil
}

func (b *TextAreaBuilder) BuildOption() (menuopts.Option, error) { return b.Build() }

// TwoButtonsBuilder builds a *menuopts.TwoButtons.
type TwoButtonsBuilder struct {
	option menuopts.TwoButtons
}

// TwoButtons starts a binary choice between first and second.
func TwoButtons(customID, label, first, second string) *TwoButtonsBuilder {
	return &TwoButtonsBuilder{option: menuopts.TwoButtons{
		Base:   menuopts.Base{CustomIDValue: customID, LabelText: label},
		First:  first,
		Second: second,
	}}
}

func (b *TwoButtonsBuilder) Hint(hint string) *TwoButtonsBuilder {
	b.option.HintText = hint
	return b
}

// SecondDefault makes the second button the initial selection.
func (b *TwoButtonsBuilder) SecondDefault() *TwoButtonsBuilder {
	b.option.SecondDefault = true
	return b
}

func (b *TwoButtonsBuilder) OnChoice(fn func(ctx context.Context, player menuopts.Player, isFirst bool)) *TwoButtonsBuilder {
	b.option.OnChoice = fn
	return b
}

func (b *TwoButtonsBuilder) OnValueReceived(fn menuopts.ValueReceiverFunc) *TwoButtonsBuilder {
	b.option.OnValueReceived = fn
	return b
}

func (b *TwoButtonsBuilder) Build() (*menuopts.TwoButtons, error) {
	option := b.option
	if err := check(&option, nil); err != nil {
		return nil, err
	}
	return &option, nil
}

func (b *TwoButtonsBuilder) BuildOption() (menuopts.Option, error) { return b.Build() }
