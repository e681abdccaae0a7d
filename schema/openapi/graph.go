package openapi

import (
	"sort"

	menuopts "github.com/goliatone/go-menuopts"
)

type schemaNode struct {
	Type              string
	Format            string
	Title             string
	Description       string
	Properties        map[string]*schemaNode
	Required          []string
	Enum              []any
	Default           any
	Minimum           *float64
	Maximum           *float64
	MultipleOf        *float64
	MaxLength         *int
	ReadOnly          bool
	additionalMapping map[string]any
}

func newObjectNode() *schemaNode {
	return &schemaNode{
		Type:       "object",
		Properties: map[string]*schemaNode{},
	}
}

func (n *schemaNode) baseMap() map[string]any {
	result := map[string]any{}
	if n.Type != "" {
		result["type"] = n.Type
	}
	if n.Format != "" {
		result["format"] = n.Format
	}
	if n.Title != "" {
		result["title"] = n.Title
	}
	if n.Description != "" {
		result["description"] = n.Description
	}
	if n.Default != nil {
		result["default"] = n.Default
	}
	if len(n.Enum) > 0 {
		result["enum"] = n.Enum
	}
	if n.Minimum != nil {
		result["minimum"] = *n.Minimum
	}
	if n.Maximum != nil {
		result["maximum"] = *n.Maximum
	}
	if n.MultipleOf != nil {
		result["multipleOf"] = *n.MultipleOf
	}
	if n.MaxLength != nil {
		result["maxLength"] = *n.MaxLength
	}
	if n.ReadOnly {
		result["readOnly"] = true
	}
	return result
}

func (n *schemaNode) toMap() map[string]any {
	result := n.baseMap()

	if len(n.Properties) > 0 || n.Type == "object" {
		props := make(map[string]any, len(n.Properties))
		for _, name := range sortedKeys(n.Properties) {
			props[name] = n.Properties[name].toMap()
		}
		result["properties"] = props
	}

	if len(n.Required) > 0 {
		names := append([]string{}, n.Required...)
		sort.Strings(names)
		result["required"] = names
	}

	for _, key := range sortedKeys(n.additionalMapping) {
		result[key] = n.additionalMapping[key]
	}
	return result
}

func (n *schemaNode) extension(key string, value any) {
	if n.additionalMapping == nil {
		n.additionalMapping = map[string]any{}
	}
	n.additionalMapping[key] = value
}

// buildNodeGraph describes node as an object whose properties are the values
// its options return. Options without a value are listed read-only.
func buildNodeGraph(node *menuopts.OptionNode) *schemaNode {
	root := newObjectNode()
	if node == nil {
		return root
	}
	root.Title = node.Header
	root.Description = node.Hint
	for _, option := range node.Options {
		if option == nil {
			continue
		}
		if _, exists := root.Properties[option.CustomID()]; exists {
			continue
		}
		child := optionSchema(option)
		root.Properties[option.CustomID()] = child
		if option.ReturnableType() != menuopts.ValueNone {
			root.Required = append(root.Required, option.CustomID())
		}
	}
	return root
}

func optionSchema(option menuopts.Option) *schemaNode {
	node := &schemaNode{
		Title:       option.Label(),
		Description: option.Hint(),
	}
	node.extension("x-menuopts-kind", option.Kind().String())
	if id := option.ID(); id != 0 {
		node.extension("x-menuopts-id", id)
	}

	switch typed := option.(type) {
	case *menuopts.Dropdown:
		node.Type = "string"
		node.Enum = make([]any, 0, len(typed.Entries))
		for _, entry := range typed.Entries {
			node.Enum = append(node.Enum, entry)
		}
		if entry, ok := typed.DefaultEntry(); ok {
			node.Default = entry
		}
	case *menuopts.Slider:
		node.Type = "number"
		if typed.Integer {
			node.Type = "integer"
		}
		minimum, maximum := typed.MinValue, typed.MaxValue
		node.Minimum = &minimum
		node.Maximum = &maximum
		node.Default = typed.DefaultValue
	case *menuopts.TwoButtons:
		node.Type = "boolean"
		node.Default = !typed.SecondDefault
		node.extension("x-menuopts-choices", []any{typed.First, typed.Second})
	case *menuopts.TextInput:
		node.Type = "string"
		node.Default = ""
		if typed.CharacterLimit > 0 {
			limit := typed.CharacterLimit
			node.MaxLength = &limit
		}
	default:
		node.Type = "null"
		node.ReadOnly = true
	}
	return node
}

func sortedKeys[V any](values map[string]V) []string {
	keys := make([]string, 0, len(values))
	for key := range values {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}
