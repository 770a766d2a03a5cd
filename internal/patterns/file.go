package patterns

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// LoadFile reads a YAML (or JSON) pattern file. The file is a mapping of
// type name to a pattern or list of patterns; key order is kept.
//
//	int: ['^-?\d+$']
//	hex: '^[0-9a-f]+$'
func LoadFile(path string) ([]Family, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read patterns file: %w", err)
	}
	fams, err := Parse(b)
	if err != nil {
		return nil, fmt.Errorf("parse patterns file %s: %w", path, err)
	}
	return fams, nil
}

// Parse decodes pattern families from YAML bytes, preserving key order.
func Parse(data []byte) ([]Family, error) {
	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, err
	}
	if doc.Kind == 0 || len(doc.Content) == 0 {
		return nil, nil
	}
	root := doc.Content[0]
	if root.Kind != yaml.MappingNode {
		return nil, fmt.Errorf("line %d: expected a mapping of type name to patterns", root.Line)
	}
	fams := make([]Family, 0, len(root.Content)/2)
	for i := 0; i+1 < len(root.Content); i += 2 {
		key, val := root.Content[i], root.Content[i+1]
		f := Family{Name: key.Value}
		switch val.Kind {
		case yaml.ScalarNode:
			f.Patterns = []string{val.Value}
		case yaml.SequenceNode:
			if err := val.Decode(&f.Patterns); err != nil {
				return nil, fmt.Errorf("type %q: %w", key.Value, err)
			}
		default:
			return nil, fmt.Errorf("line %d: type %q must map to a pattern or a list of patterns", val.Line, key.Value)
		}
		fams = append(fams, f)
	}
	return fams, nil
}

// Encode renders families as an ordered YAML mapping.
func Encode(fams []Family) ([]byte, error) {
	root := &yaml.Node{Kind: yaml.MappingNode}
	for _, f := range fams {
		seq := &yaml.Node{Kind: yaml.SequenceNode}
		for _, p := range f.Patterns {
			seq.Content = append(seq.Content, &yaml.Node{Kind: yaml.ScalarNode, Value: p, Style: yaml.SingleQuotedStyle})
		}
		root.Content = append(root.Content,
			&yaml.Node{Kind: yaml.ScalarNode, Value: f.Name},
			seq,
		)
	}
	b, err := yaml.Marshal(root)
	if err != nil {
		return nil, fmt.Errorf("marshal yaml: %w", err)
	}
	return b, nil
}
