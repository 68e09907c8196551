// Package apitree reorganizes the flat API descriptor records into a tree keyed
// by name and extracts the description of every node into a flat mapping.
package apitree

import (
	"slices"
	"strconv"
	"strings"
)

const (
	// Separator joins path segments in flattened keys and splits record names
	Separator = "."

	nameField        = "name"
	descriptionField = "description"
)

// Build nests every record under the path given by its dotted name. The
// record's fields, with nested named arrays objectified, become the leaf
// object. Records landing on the same leaf are merged, later fields winning.
// A record without a name is placed under its index.
func Build(records []map[string]any) map[string]any {
	tree := make(map[string]any)

	for i, record := range records {
		segments := []string{strconv.Itoa(i)}
		if name, ok := record[nameField].(string); ok && name != "" {
			segments = strings.Split(name, Separator)
		}

		node := tree
		for _, seg := range segments {
			child, ok := node[seg].(map[string]any)
			if !ok {
				child = make(map[string]any)
				node[seg] = child
			}
			node = child
		}

		for k, v := range record {
			node[k] = Objectify(v)
		}
	}

	return tree
}

// Objectify converts, recursively, every array whose elements are all objects
// with a non-empty string "name" into an object keyed by that name
func Objectify(v any) any {
	switch x := v.(type) {
	case map[string]any:
		out := make(map[string]any, len(x))
		for k, child := range x {
			out[k] = Objectify(child)
		}
		return out

	case []any:
		if keyed, ok := keyByName(x); ok {
			return keyed
		}
		out := make([]any, len(x))
		for i, child := range x {
			out[i] = Objectify(child)
		}
		return out

	default:
		return v
	}
}

func keyByName(items []any) (map[string]any, bool) {
	if len(items) == 0 {
		return nil, false
	}

	for _, item := range items {
		obj, ok := item.(map[string]any)
		if !ok {
			return nil, false
		}
		if name, ok := obj[nameField].(string); !ok || name == "" {
			return nil, false
		}
	}

	out := make(map[string]any, len(items))
	for _, item := range items {
		obj := item.(map[string]any)
		out[obj[nameField].(string)] = Objectify(obj)
	}
	return out, true
}

// Descriptions walks tree and returns every non-empty string "description"
// field keyed by the dotted path of the object holding it. Keys are visited
// in sorted order; when two paths flatten to the same key the one visited
// last wins.
func Descriptions(tree map[string]any) map[string]string {
	out := make(map[string]string)
	collect(tree, nil, out)
	return out
}

func collect(node any, path []string, out map[string]string) {
	switch x := node.(type) {
	case map[string]any:
		keys := make([]string, 0, len(x))
		for k := range x {
			keys = append(keys, k)
		}
		slices.Sort(keys)

		for _, k := range keys {
			if k == descriptionField && len(path) > 0 {
				if desc, ok := x[k].(string); ok {
					if desc != "" {
						out[strings.Join(path, Separator)] = desc
					}
					continue
				}
			}
			collect(x[k], append(slices.Clone(path), k), out)
		}

	case []any:
		for i, child := range x {
			collect(child, append(slices.Clone(path), strconv.Itoa(i)), out)
		}
	}
}

// Flatten builds the tree from records and extracts its descriptions
func Flatten(records []map[string]any) map[string]string {
	return Descriptions(Build(records))
}
