package report

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/leapstack-labs/feedlint/pkg/notice"
)

// Sample is the context of one notice. It encodes as an object whose keys
// keep their declaration order.
type Sample []notice.Field

// MarshalJSON implements json.Marshaler.
func (s Sample) MarshalJSON() ([]byte, error) {
	var b bytes.Buffer
	b.WriteByte('{')
	for i, f := range s {
		if i > 0 {
			b.WriteByte(',')
		}
		key, err := json.Marshal(f.Name)
		if err != nil {
			return nil, err
		}
		val, err := json.Marshal(notice.PlainValue(f.Value))
		if err != nil {
			return nil, fmt.Errorf("encoding %s: %w", f.Name, err)
		}
		b.Write(key)
		b.WriteByte(':')
		b.Write(val)
	}
	b.WriteByte('}')
	return b.Bytes(), nil
}

// MarshalYAML implements yaml.Marshaler.
func (s Sample) MarshalYAML() (any, error) {
	node := &yaml.Node{Kind: yaml.MappingNode}
	for _, f := range s {
		var val yaml.Node
		if err := val.Encode(notice.PlainValue(f.Value)); err != nil {
			return nil, fmt.Errorf("encoding %s: %w", f.Name, err)
		}
		node.Content = append(node.Content,
			&yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: f.Name},
			&val)
	}
	return node, nil
}

// String renders the sample as space separated name=value pairs.
func (s Sample) String() string {
	parts := make([]string, 0, len(s))
	for _, f := range s {
		parts = append(parts, f.Name+"="+notice.FormatValue(f.Value))
	}
	return strings.Join(parts, " ")
}
