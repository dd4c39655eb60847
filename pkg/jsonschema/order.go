package jsonschema

import (
	"strconv"

	"gopkg.in/yaml.v3"
)

// propertyOrders records the declaration order of every properties block in
// the document, keyed by JSON-Pointer path ("#/properties",
// "#/$defs/Address/properties", …). Go maps drop key order during decoding,
// but field order matters to forms, so the raw document is walked once with
// an order-preserving parser. YAML handles both YAML and JSON payloads here.
func propertyOrders(raw []byte) map[string][]string {
	var doc yaml.Node
	if err := yaml.Unmarshal(raw, &doc); err != nil {
		return nil
	}

	root := &doc
	if root.Kind == yaml.DocumentNode && len(root.Content) > 0 {
		root = root.Content[0]
	}

	orders := make(map[string][]string)
	walkOrders(root, "#", orders)
	if len(orders) == 0 {
		return nil
	}
	return orders
}

func walkOrders(node *yaml.Node, path string, orders map[string][]string) {
	if node == nil {
		return
	}
	switch node.Kind {
	case yaml.MappingNode:
		for i := 0; i+1 < len(node.Content); i += 2 {
			key := node.Content[i]
			value := node.Content[i+1]
			if key.Kind != yaml.ScalarNode {
				continue
			}
			childPath := joinPath(path, key.Value)
			if key.Value == "properties" && value.Kind == yaml.MappingNode {
				orders[childPath] = mappingKeys(value)
			}
			walkOrders(value, childPath, orders)
		}
	case yaml.SequenceNode:
		for i, child := range node.Content {
			walkOrders(child, joinPath(path, strconv.Itoa(i)), orders)
		}
	}
}

func mappingKeys(node *yaml.Node) []string {
	keys := make([]string, 0, len(node.Content)/2)
	for i := 0; i+1 < len(node.Content); i += 2 {
		key := node.Content[i]
		if key.Kind != yaml.ScalarNode {
			continue
		}
		keys = append(keys, key.Value)
	}
	return keys
}
