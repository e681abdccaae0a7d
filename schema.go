package menuopts

import "errors"

// FieldDescriptor describes one option of a node and the value it returns.
type FieldDescriptor struct {
	Path    string `json:"path"`
	Kind    string `json:"kind"`
	Type    string `json:"type"`
	Label   string `json:"label,omitempty"`
	Default any    `json:"default,omitempty"`
}

// DefaultSchemaGenerator returns the built-in descriptor-based schema generator.
func DefaultSchemaGenerator() SchemaGenerator {
	return descriptorGenerator{}
}

type descriptorGenerator struct{}

func (descriptorGenerator) Generate(node *OptionNode) (SchemaDocument, error) {
	descriptors := []FieldDescriptor{}
	if node != nil {
		for _, option := range node.Options {
			if option == nil {
				continue
			}
			descriptor := FieldDescriptor{
				Path:  option.CustomID(),
				Kind:  option.Kind().String(),
				Type:  option.ReturnableType().String(),
				Label: option.Label(),
			}
			if value, ok := defaultValue(option); ok {
				descriptor.Default = value
			}
			descriptors = append(descriptors, descriptor)
		}
	}
	return SchemaDocument{
		Format:   SchemaFormatDescriptors,
		Document: descriptors,
	}, nil
}

// Schema describes node with the configured generator.
func (s *Service) Schema(node *OptionNode) (SchemaDocument, error) {
	if node == nil {
		return SchemaDocument{}, errors.New("menuopts: schema requires a node")
	}
	generator := s.cfg.schemaGenerator
	if generator == nil {
		generator = DefaultSchemaGenerator()
	}
	return generator.Generate(node)
}
