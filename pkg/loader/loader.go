// Package loader reads and writes GitLab CI YAML documents as raw
// trees. A raw tree is built from map[string]any, []any and plain
// scalars, with !reference tags decoded into *reference.Reference so
// later stages must handle them explicitly instead of mistaking them
// for strings.
package loader

import (
	"fmt"

	"github.com/opnlabs/glci/pkg/reference"
	"gopkg.in/yaml.v3"
)

// Load parses a YAML document into a raw tree. When resolveRefs is
// true every !reference tag is substituted with the value it points
// at; otherwise references are kept as *reference.Reference
// placeholders that Dump re-emits bit-for-bit. An empty document
// loads as an empty mapping.
func Load(data []byte, resolveRefs bool) (map[string]any, error) {
	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("loader: %w", err)
	}

	if doc.Kind == 0 || len(doc.Content) == 0 {
		return map[string]any{}, nil
	}

	root := doc.Content[0]
	value, err := decode(root)
	if err != nil {
		return nil, err
	}

	tree, ok := value.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("loader: top level must be a mapping, got %s", kindName(root))
	}

	if resolveRefs {
		return reference.Resolve(tree)
	}
	return tree, nil
}

// Dump serializes a raw tree back to YAML. Unresolved references are
// written using the original !reference tag syntax; a fully resolved
// tree is indistinguishable from one that never used references.
func Dump(tree map[string]any) ([]byte, error) {
	node, err := encode(tree)
	if err != nil {
		return nil, err
	}
	return yaml.Marshal(node)
}

func decode(n *yaml.Node) (any, error) {
	switch n.Kind {
	case yaml.AliasNode:
		return decode(n.Alias)
	case yaml.ScalarNode:
		var v any
		if err := n.Decode(&v); err != nil {
			return nil, fmt.Errorf("loader: line %d: %w", n.Line, err)
		}
		return v, nil
	case yaml.SequenceNode:
		if n.Tag == reference.Tag {
			return decodeReference(n)
		}
		out := make([]any, 0, len(n.Content))
		for _, item := range n.Content {
			v, err := decode(item)
			if err != nil {
				return nil, err
			}
			out = append(out, v)
		}
		return out, nil
	case yaml.MappingNode:
		out := make(map[string]any, len(n.Content)/2)
		for i := 0; i+1 < len(n.Content); i += 2 {
			var key string
			if err := n.Content[i].Decode(&key); err != nil {
				return nil, fmt.Errorf("loader: line %d: mapping key: %w", n.Content[i].Line, err)
			}
			v, err := decode(n.Content[i+1])
			if err != nil {
				return nil, err
			}
			out[key] = v
		}
		return out, nil
	default:
		return nil, fmt.Errorf("loader: line %d: unsupported node kind", n.Line)
	}
}

func decodeReference(n *yaml.Node) (*reference.Reference, error) {
	if len(n.Content) == 0 {
		return nil, fmt.Errorf("loader: line %d: !reference requires at least a block name", n.Line)
	}
	parts := make([]string, 0, len(n.Content))
	for _, item := range n.Content {
		if item.Kind != yaml.ScalarNode {
			return nil, fmt.Errorf("loader: line %d: !reference entries must be strings", item.Line)
		}
		parts = append(parts, item.Value)
	}
	return reference.New(parts[0], parts[1:]...), nil
}

func encode(v any) (*yaml.Node, error) {
	switch val := v.(type) {
	case *reference.Reference:
		node := &yaml.Node{Kind: yaml.SequenceNode, Tag: reference.Tag, Style: yaml.FlowStyle}
		parts := append([]string{val.Block}, val.Path...)
		for _, p := range parts {
			node.Content = append(node.Content, &yaml.Node{
				Kind:  yaml.ScalarNode,
				Tag:   "!!str",
				Value: p,
			})
		}
		return node, nil
	case map[string]any:
		node := &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}
		for _, key := range sortedKeys(val) {
			keyNode := &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: key}
			valNode, err := encode(val[key])
			if err != nil {
				return nil, err
			}
			node.Content = append(node.Content, keyNode, valNode)
		}
		return node, nil
	case []any:
		node := &yaml.Node{Kind: yaml.SequenceNode, Tag: "!!seq"}
		for _, item := range val {
			itemNode, err := encode(item)
			if err != nil {
				return nil, err
			}
			node.Content = append(node.Content, itemNode)
		}
		return node, nil
	default:
		node := &yaml.Node{}
		if err := node.Encode(v); err != nil {
			return nil, fmt.Errorf("loader: cannot encode %T: %w", v, err)
		}
		return node, nil
	}
}

func kindName(n *yaml.Node) string {
	switch n.Kind {
	case yaml.ScalarNode:
		return "a scalar"
	case yaml.SequenceNode:
		return "a sequence"
	case yaml.MappingNode:
		return "a mapping"
	default:
		return "an unsupported node"
	}
}
