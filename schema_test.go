package menuopts

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDescriptorGeneratorDescribesOptions(t *testing.T) {
	node := NewOptionNode("Audio",
		&Slider{Base: Base{CustomIDValue: "Volume", LabelText: "Volume"}, MaxValue: 1, DefaultValue: 0.5},
		&Button{Base: Base{CustomIDValue: "Reset", LabelText: "Reset"}, Text: "Reset"},
	)

	doc, err := DefaultSchemaGenerator().Generate(node)
	require.NoError(t, err)
	assert.Equal(t, SchemaFormatDescriptors, doc.Format)
	assert.Equal(t, []FieldDescriptor{
		{Path: "Volume", Kind: "slider", Type: "number", Label: "Volume", Default: 0.5},
		{Path: "Reset", Kind: "button", Type: "none", Label: "Reset"},
	}, doc.Document)
}

func TestDescriptorGeneratorNilNode(t *testing.T) {
	doc, err := DefaultSchemaGenerator().Generate(nil)
	require.NoError(t, err)
	require.IsType(t, []FieldDescriptor{}, doc.Document)
	assert.Empty(t, doc.Document)
}

type staticGenerator struct{}

func (staticGenerator) Generate(*OptionNode) (SchemaDocument, error) {
	return SchemaDocument{Format: SchemaFormatOpenAPI, Document: "static"}, nil
}

func TestServiceSchemaUsesConfiguredGenerator(t *testing.T) {
	svc := &Service{cfg: applyServiceOptions([]ServiceOption{WithSchemaGenerator(staticGenerator{})})}
	doc, err := svc.Schema(NewOptionNode("Audio"))
	require.NoError(t, err)
	assert.Equal(t, "static", doc.Document)

	_, err = svc.Schema(nil)
	assert.Error(t, err)
}
