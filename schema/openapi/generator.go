package openapi

import (
	menuopts "github.com/goliatone/go-menuopts"
)

type generator struct {
	config generatorConfig
}

// NewGenerator constructs an OpenAPI-compatible schema generator.
func NewGenerator(opts ...GeneratorOption) menuopts.SchemaGenerator {
	cfg := defaultGeneratorConfig()
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}
	return generator{config: cfg}
}

// Option wires the OpenAPI schema generator into a menuopts.Service.
func Option(opts ...GeneratorOption) menuopts.ServiceOption {
	return menuopts.WithSchemaGenerator(NewGenerator(opts...))
}

// Generate describes node as an OpenAPI document whose request body carries
// the node's option values. A nil node yields an empty object body.
func (g generator) Generate(node *menuopts.OptionNode) (menuopts.SchemaDocument, error) {
	document, err := buildDocument(g.config, buildNodeGraph(node))
	if err != nil {
		return menuopts.SchemaDocument{}, err
	}
	return menuopts.SchemaDocument{
		Format:   menuopts.SchemaFormatOpenAPI,
		Document: document,
	}, nil
}
