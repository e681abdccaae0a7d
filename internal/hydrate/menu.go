package hydrate

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	menuopts "github.com/goliatone/go-menuopts"
	"github.com/goliatone/go-menuopts/builder"
)

// Format is the encoding of a definition document.
type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// FormatFor infers the format from a file extension. Unknown extensions are
// treated as YAML, which also accepts JSON.
func FormatFor(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return FormatJSON
	default:
		return FormatYAML
	}
}

// MenuDefinition is the document form of an option node.
type MenuDefinition struct {
	Header  string             `json:"header" yaml:"header"`
	Hint    string             `json:"hint,omitempty" yaml:"hint,omitempty"`
	Padding bool               `json:"padding,omitempty" yaml:"padding,omitempty"`
	Options []OptionDefinition `json:"options" yaml:"options"`
}

// OptionDefinition carries the attributes of any option kind. Fields that do
// not apply to Kind are ignored.
type OptionDefinition struct {
	Kind     string `json:"kind" yaml:"kind"`
	CustomID string `json:"custom_id" yaml:"custom_id"`
	Label    string `json:"label" yaml:"label"`
	Hint     string `json:"hint,omitempty" yaml:"hint,omitempty"`

	Entries      []string `json:"entries,omitempty" yaml:"entries,omitempty"`
	DefaultIndex *int     `json:"default_index,omitempty" yaml:"default_index,omitempty"`
	DefaultEntry string   `json:"default_entry,omitempty" yaml:"default_entry,omitempty"`
	EntryType    string   `json:"entry_type,omitempty" yaml:"entry_type,omitempty"`

	Min           *float64 `json:"min,omitempty" yaml:"min,omitempty"`
	Max           *float64 `json:"max,omitempty" yaml:"max,omitempty"`
	Default       *float64 `json:"default,omitempty" yaml:"default,omitempty"`
	Integer       bool     `json:"integer,omitempty" yaml:"integer,omitempty"`
	StringFormat  string   `json:"string_format,omitempty" yaml:"string_format,omitempty"`
	DisplayFormat string   `json:"display_format,omitempty" yaml:"display_format,omitempty"`

	Placeholder    string `json:"placeholder,omitempty" yaml:"placeholder,omitempty"`
	CharacterLimit int    `json:"character_limit,omitempty" yaml:"character_limit,omitempty"`
	ContentType    string `json:"content_type,omitempty" yaml:"content_type,omitempty"`

	FoldoutMode   string `json:"foldout_mode,omitempty" yaml:"foldout_mode,omitempty"`
	TextAlignment string `json:"text_alignment,omitempty" yaml:"text_alignment,omitempty"`

	First         string `json:"first,omitempty" yaml:"first,omitempty"`
	Second        string `json:"second,omitempty" yaml:"second,omitempty"`
	SecondDefault bool   `json:"second_default,omitempty" yaml:"second_default,omitempty"`

	Text     string  `json:"text,omitempty" yaml:"text,omitempty"`
	HoldTime float64 `json:"hold_time,omitempty" yaml:"hold_time,omitempty"`

	SuggestedKey        string `json:"suggested_key,omitempty" yaml:"suggested_key,omitempty"`
	PreventInteractOnUI bool   `json:"prevent_interaction_on_gui,omitempty" yaml:"prevent_interaction_on_gui,omitempty"`
}

// Parse decodes a JSON or YAML document into a generic payload.
func Parse(data []byte, format Format) (map[string]any, error) {
	var payload map[string]any
	switch format {
	case FormatJSON:
		if err := json.Unmarshal(data, &payload); err != nil {
			return nil, fmt.Errorf("hydrate: parse json: %w", err)
		}
	case FormatYAML, "":
		if err := yaml.NewDecoder(bytes.NewReader(data)).Decode(&payload); err != nil {
			return nil, fmt.Errorf("hydrate: parse yaml: %w", err)
		}
	default:
		return nil, fmt.Errorf("hydrate: unsupported format %q", format)
	}
	if payload == nil {
		return nil, errors.New("hydrate: document is empty")
	}
	return payload, nil
}

// NewMenuDecoder returns a Decoder for menu definitions with the kind
// normalisation pre-hook and the non-empty post-hook installed ahead of opts.
func NewMenuDecoder(opts ...DecoderOption[MenuDefinition]) *Decoder[MenuDefinition] {
	base := []DecoderOption[MenuDefinition]{
		WithPreHook[MenuDefinition](NormalizeKinds),
		WithPostHook[MenuDefinition](RequireOptions),
	}
	return NewDecoder(append(base, opts...)...)
}

// LoadFile reads path and hydrates it into a validated option node.
func LoadFile(path string, opts ...DecoderOption[MenuDefinition]) (*menuopts.OptionNode, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("hydrate: read %s: %w", path, err)
	}
	return Load(Context{Source: path, Format: FormatFor(path)}, data, opts...)
}

// Load hydrates data into a validated option node.
func Load(ctx Context, data []byte, opts ...DecoderOption[MenuDefinition]) (*menuopts.OptionNode, error) {
	payload, err := Parse(data, ctx.Format)
	if err != nil {
		return nil, err
	}
	definition, err := NewMenuDecoder(opts...).Decode(ctx, payload)
	if err != nil {
		return nil, err
	}
	return definition.Node()
}

// NormalizeKinds lower-cases option kinds and maps aliases such as
// "TextInput" to their canonical names.
func NormalizeKinds(_ Context, payload map[string]any) (map[string]any, error) {
	options, ok := payload["options"].([]any)
	if !ok {
		return payload, nil
	}
	for i, raw := range options {
		option, ok := raw.(map[string]any)
		if !ok {
			return nil, fmt.Errorf("options[%d] must be a mapping", i)
		}
		kind, _ := option["kind"].(string)
		parsed := menuopts.ParseKind(kind)
		if parsed == menuopts.KindUnknown {
			return nil, fmt.Errorf("options[%d] has unknown kind %q", i, kind)
		}
		option["kind"] = parsed.String()
	}
	return payload, nil
}

// RequireOptions rejects definitions without options.
func RequireOptions(_ Context, definition *MenuDefinition) error {
	if definition == nil || len(definition.Options) == 0 {
		return errors.New("menu defines no options")
	}
	return nil
}

// Node builds and validates the option node described by d.
func (d MenuDefinition) Node() (*menuopts.OptionNode, error) {
	node := builder.Node(d.Header).Hint(d.Hint)
	if d.Padding {
		node.Padding()
	}
	for _, option := range d.Options {
		node.With(option.builder())
	}
	return node.Build()
}

func (o OptionDefinition) builder() builder.OptionBuilder {
	switch menuopts.ParseKind(o.Kind) {
	case menuopts.KindButton:
		b := builder.Button(o.CustomID, o.Label).Hint(o.Hint).HoldTime(o.HoldTime)
		if o.Text != "" {
			b.Text(o.Text)
		}
		return b
	case menuopts.KindKeybind:
		b := builder.Keybind(o.CustomID, o.Label).Hint(o.Hint).SuggestedKey(o.SuggestedKey)
		if o.PreventInteractOnUI {
			b.PreventInteractOnUI()
		}
		return b
	case menuopts.KindDropdown:
		b := builder.Dropdown(o.CustomID, o.Label).Hint(o.Hint).Entries(o.Entries...)
		if o.EntryType != "" {
			b.EntryType(menuopts.DropdownEntryType(o.EntryType))
		}
		if o.DefaultIndex != nil {
			b.DefaultIndex(*o.DefaultIndex)
		}
		if o.DefaultEntry != "" {
			b.DefaultEntry(o.DefaultEntry)
		}
		return b
	case menuopts.KindTextInput:
		return builder.TextInput(o.CustomID, o.Label).
			Hint(o.Hint).
			Placeholder(o.Placeholder).
			CharacterLimit(o.CharacterLimit).
			ContentType(o.ContentType)
	case menuopts.KindTextArea:
		return builder.TextArea(o.CustomID, o.Label).
			Hint(o.Hint).
			FoldoutMode(o.FoldoutMode).
			TextAlignment(o.TextAlignment)
	case menuopts.KindSlider:
		b := builder.Slider(o.CustomID, o.Label).Hint(o.Hint).Formats(o.StringFormat, o.DisplayFormat)
		minValue, maxValue := 0.0, 1.0
		if o.Min != nil {
			minValue = *o.Min
		}
		if o.Max != nil {
			maxValue = *o.Max
		}
		b.Range(minValue, maxValue)
		if o.Default != nil {
			b.Default(*o.Default)
		}
		if o.Integer {
			b.Integer()
		}
		return b
	case menuopts.KindTwoButtons:
		b := builder.TwoButtons(o.CustomID, o.Label, o.First, o.Second).Hint(o.Hint)
		if o.SecondDefault {
			b.SecondDefault()
		}
		return b
	default:
		return unknownKind{kind: o.Kind, customID: o.CustomID}
	}
}

type unknownKind struct {
	kind     string
	customID string
}

func (u unknownKind) BuildOption() (menuopts.Option, error) {
	return nil, &menuopts.ValidationError{
		Subject: fmt.Sprintf("option %q", u.customID),
		Field:   "kind",
		Reason:  fmt.Sprintf("unknown kind %q", u.kind),
	}
}
