package menuopts

import (
	"errors"
	"fmt"
	"strings"
)

// OptionNode groups options under one header. A node is not itself assigned
// a numeric id.
type OptionNode struct {
	Header  string   `json:"header" yaml:"header" validate:"required"`
	Hint    string   `json:"hint,omitempty" yaml:"hint,omitempty"`
	Padding bool     `json:"padding,omitempty" yaml:"padding,omitempty"`
	Options []Option `json:"-" yaml:"-"`
}

// NewOptionNode returns a node holding options in order.
func NewOptionNode(header string, options ...Option) *OptionNode {
	return &OptionNode{Header: header, Options: options}
}

// Add appends options to the node.
func (n *OptionNode) Add(options ...Option) *OptionNode {
	n.Options = append(n.Options, options...)
	return n
}

// CustomIDs lists the custom id of every child in order.
func (n *OptionNode) CustomIDs() []string {
	if n == nil {
		return nil
	}
	ids := make([]string, 0, len(n.Options))
	for _, option := range n.Options {
		if option != nil {
			ids = append(ids, option.CustomID())
		}
	}
	return ids
}

// Validate checks the header and every child that can validate itself.
// Child failures are joined.
func (n *OptionNode) Validate() error {
	if n == nil {
		return &ValidationError{Subject: "node", Reason: "must not be nil"}
	}
	if strings.TrimSpace(n.Header) == "" {
		return &ValidationError{Subject: "node", Field: "header", Reason: "must not be empty"}
	}
	var errs []error
	seen := make(map[string]int, len(n.Options))
	for i, option := range n.Options {
		if option == nil {
			errs = append(errs, &ValidationError{Subject: fmt.Sprintf("node %q", n.Header), Field: fmt.Sprintf("options[%d]", i), Reason: "must not be nil"})
			continue
		}
		if prev, ok := seen[option.CustomID()]; ok {
			errs = append(errs, &ValidationError{
				Subject: fmt.Sprintf("node %q", n.Header),
				Field:   fmt.Sprintf("options[%d]", i),
				Reason:  fmt.Sprintf("custom id %q already used by options[%d]", option.CustomID(), prev),
			})
			continue
		}
		seen[option.CustomID()] = i
		if v, ok := option.(Validatable); ok {
			if err := v.Validate(); err != nil {
				errs = append(errs, err)
			}
		}
	}
	return errors.Join(errs...)
}
