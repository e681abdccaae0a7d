package openapi

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

// buildDocument wraps the node schema in a single-operation OpenAPI document
// whose request body carries the node's values.
func buildDocument(cfg generatorConfig, root *schemaNode) (map[string]any, error) {
	if root == nil {
		return nil, errors.New("openapi: root schema node cannot be nil")
	}

	published := newComponents()
	body := root.toMap()
	if cfg.rootComponent != "" {
		body = map[string]any{"$ref": published.add(cfg.rootComponent, body)}
	}

	info := map[string]any{
		"title":   cfg.info.Title,
		"version": cfg.info.Version,
	}
	if cfg.info.Description != "" {
		info["description"] = cfg.info.Description
	}

	document := map[string]any{
		"openapi": cfg.openAPIVersion,
		"info":    info,
		"paths": map[string]any{
			cfg.operation.Path: map[string]any{
				methodOf(cfg.operation): operationFor(cfg, body),
			},
		},
	}
	if len(published.schemas) > 0 {
		document["components"] = map[string]any{"schemas": published.schemas}
	}

	if err := validateDocument(document); err != nil {
		return nil, err
	}
	return document, nil
}

func operationFor(cfg generatorConfig, body map[string]any) map[string]any {
	statuses := sortedKeys(cfg.responses)
	responses := make(map[string]any, len(statuses))
	for _, status := range statuses {
		responses[status] = map[string]any{"description": cfg.responses[status].Description}
	}

	operationID := cfg.operation.OperationID
	if operationID == "" {
		operationID = fmt.Sprintf("%s:%s", methodOf(cfg.operation), cfg.operation.Path)
	}
	operation := map[string]any{
		"operationId": operationID,
		"requestBody": map[string]any{
			"required": true,
			"content": map[string]any{
				cfg.contentType: map[string]any{"schema": body},
			},
		},
		"responses": responses,
	}
	if summary := strings.TrimSpace(cfg.operation.Summary); summary != "" {
		operation["summary"] = summary
	}
	return operation
}

func methodOf(operation operationConfig) string {
	if method := strings.ToLower(operation.Method); method != "" {
		return method
	}
	return "post"
}

// validateDocument checks the fields OpenAPI consumers require.
func validateDocument(document map[string]any) error {
	if document == nil {
		return errors.New("openapi: document cannot be nil")
	}
	if version, _ := document["openapi"].(string); version == "" {
		return errors.New("openapi: document missing version string")
	}
	info, _ := document["info"].(map[string]any)
	if info == nil {
		return errors.New("openapi: document missing info section")
	}
	for _, field := range []string{"title", "version"} {
		if value, _ := info[field].(string); value == "" {
			return fmt.Errorf("openapi: info.%s must be set", field)
		}
	}

	paths, _ := document["paths"].(map[string]any)
	if len(paths) == 0 {
		return errors.New("openapi: document must define at least one path")
	}
	pathKeys := make([]string, 0, len(paths))
	for key := range paths {
		pathKeys = append(pathKeys, key)
	}
	sort.Strings(pathKeys)
	for _, path := range pathKeys {
		item, _ := paths[path].(map[string]any)
		if len(item) == 0 {
			return fmt.Errorf("openapi: path %q missing operations", path)
		}
		for method, value := range item {
			if err := validateOperation(value); err != nil {
				return fmt.Errorf("openapi: operation %s %s %w", method, path, err)
			}
		}
	}
	return nil
}

func validateOperation(value any) error {
	operation, _ := value.(map[string]any)
	if operation == nil {
		return errors.New("invalid payload")
	}
	if _, ok := operation["operationId"].(string); !ok {
		return errors.New("missing operationId")
	}
	requestBody, _ := operation["requestBody"].(map[string]any)
	if requestBody == nil {
		return errors.New("missing requestBody")
	}
	if content, _ := requestBody["content"].(map[string]any); len(content) == 0 {
		return errors.New("requestBody missing content")
	}
	if _, ok := operation["responses"].(map[string]any); !ok {
		return errors.New("missing responses")
	}
	return nil
}
