// Package layering merges value snapshots keyed by option custom id. Layers
// are ordered from strongest to weakest; stronger values win and nested maps
// are merged key by key.
package layering

import "strings"

// Snapshot maps a path segment to a value or a nested Snapshot.
type Snapshot = map[string]any

// Merge composes layers ordered from strongest to weakest into a new
// snapshot. Inputs are never mutated. Nil layers are skipped.
func Merge(layers ...Snapshot) Snapshot {
	merged := Snapshot{}
	for i := len(layers) - 1; i >= 0; i-- {
		if layers[i] == nil {
			continue
		}
		merged = overlay(layers[i], merged)
	}
	return merged
}

// overlay returns weak with strong's values applied on top.
func overlay(strong, weak Snapshot) Snapshot {
	out := make(Snapshot, len(weak)+len(strong))
	for key, value := range weak {
		out[key] = cloneValue(value)
	}
	for key, value := range strong {
		strongMap, strongIsMap := value.(Snapshot)
		weakMap, weakIsMap := out[key].(Snapshot)
		if strongIsMap && weakIsMap {
			out[key] = overlay(strongMap, weakMap)
			continue
		}
		out[key] = cloneValue(value)
	}
	return out
}

// Clone deep-copies nested maps and slices of snapshot.
func Clone(snapshot Snapshot) Snapshot {
	if snapshot == nil {
		return nil
	}
	return cloneValue(snapshot).(Snapshot)
}

func cloneValue(value any) any {
	switch typed := value.(type) {
	case Snapshot:
		out := make(Snapshot, len(typed))
		for key, nested := range typed {
			out[key] = cloneValue(nested)
		}
		return out
	case []any:
		out := make([]any, len(typed))
		for i, nested := range typed {
			out[i] = cloneValue(nested)
		}
		return out
	case []string:
		return append([]string(nil), typed...)
	default:
		return value
	}
}

// Lookup resolves a dot-separated path. A key containing dots is matched
// whole before the path is split.
func Lookup(snapshot Snapshot, path string) (any, bool) {
	if snapshot == nil {
		return nil, false
	}
	if value, ok := snapshot[path]; ok {
		return value, true
	}
	head, rest, found := strings.Cut(path, ".")
	if !found {
		return nil, false
	}
	nested, ok := snapshot[head].(Snapshot)
	if !ok {
		return nil, false
	}
	return Lookup(nested, rest)
}

// Paths lists every leaf path in snapshot in no particular order.
func Paths(snapshot Snapshot) []string {
	var paths []string
	var walk func(prefix string, node Snapshot)
	walk = func(prefix string, node Snapshot) {
		for key, value := range node {
			path := key
			if prefix != "" {
				path = prefix + "." + key
			}
			if nested, ok := value.(Snapshot); ok && len(nested) > 0 {
				walk(path, nested)
				continue
			}
			paths = append(paths, path)
		}
	}
	walk("", snapshot)
	return paths
}
