package builder

import (
	"errors"

	menuopts "github.com/goliatone/go-menuopts"
)

// NodeBuilder builds a *menuopts.OptionNode from option builders or ready
// options.
type NodeBuilder struct {
	node menuopts.OptionNode
	errs []error
}

// Node starts a node with header.
func Node(header string) *NodeBuilder {
	return &NodeBuilder{node: menuopts.OptionNode{Header: header}}
}

func (b *NodeBuilder) Hint(hint string) *NodeBuilder {
	b.node.Hint = hint
	return b
}

// Padding adds spacing below the node header.
func (b *NodeBuilder) Padding() *NodeBuilder {
	b.node.Padding = true
	return b
}

// With builds each option builder and appends the result. Failures are
// reported by Build.
func (b *NodeBuilder) With(builders ...OptionBuilder) *NodeBuilder {
	for _, builder := range builders {
		if builder == nil {
			continue
		}
		option, err := builder.BuildOption()
		if err != nil {
			b.errs = append(b.errs, err)
			continue
		}
		b.node.Options = append(b.node.Options, option)
	}
	return b
}

// Add appends options that were built elsewhere.
func (b *NodeBuilder) Add(options ...menuopts.Option) *NodeBuilder {
	b.node.Options = append(b.node.Options, options...)
	return b
}

func (b *NodeBuilder) Build() (*menuopts.OptionNode, error) {
	errs := append([]error(nil), b.errs...)
	if err := validate.Struct(&b.node); err != nil {
		errs = append(errs, translate("node", "", err)...)
	}
	if len(errs) == 0 {
		if err := b.node.Validate(); err != nil {
			errs = append(errs, err)
		}
	}
	if err := errors.Join(errs...); err != nil {
		return nil, err
	}
	node := b.node
	node.Options = append([]menuopts.Option(nil), b.node.Options...)
	return &node, nil
}
