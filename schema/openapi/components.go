package openapi

import (
	"fmt"
	"regexp"
	"strings"
)

const componentPrefix = "#/components/schemas/"

// components collects schemas published under #/components/schemas.
type components struct {
	schemas map[string]any
}

func newComponents() *components {
	return &components{schemas: map[string]any{}}
}

// add publishes schema under a sanitised, unique form of name and returns
// its reference.
func (c *components) add(name string, schema map[string]any) string {
	base := sanitizeComponentName(name)
	if base == "" {
		base = "Menu"
	}
	candidate := base
	for i := 1; ; i++ {
		if _, taken := c.schemas[candidate]; !taken {
			break
		}
		candidate = fmt.Sprintf("%s%d", base, i)
	}
	c.schemas[candidate] = schema
	return componentPrefix + candidate
}

var componentNameRegexp = regexp.MustCompile(`[^a-zA-Z0-9_]+`)

func sanitizeComponentName(name string) string {
	name = strings.Trim(componentNameRegexp.ReplaceAllString(name, "_"), "_")
	if name == "" {
		return ""
	}
	if name[0] >= '0' && name[0] <= '9' {
		name = "_" + name
	}
	return name
}
