package metadata

import (
	"errors"
	"fmt"
	"strings"

	"github.com/viant/digestius/proposal"
	"gopkg.in/yaml.v3"
)

const delimiter = "---"

var errNotMapping = errors.New("header is not a mapping")

// Outcome classifies a header decoding attempt.
type Outcome int

const (
	// Absent means the content has no delimited header block.
	Absent Outcome = iota
	// Malformed means the block exists but does not decode to a mapping.
	Malformed
	// Decoded means the block decoded to a mapping.
	Decoded
)

func (o Outcome) String() string {
	switch o {
	case Malformed:
		return "malformed"
	case Decoded:
		return "decoded"
	}
	return "absent"
}

// Result is the outcome of decoding a header block.
type Result struct {
	Metadata *Metadata
	Outcome  Outcome
	Err      error
}

// Header returns the body of the leading header block. The block must open
// on the first line and closes at the first subsequent line equal to ---.
func Header(content string) (string, bool) {
	lines := strings.Split(content, "\n")
	if len(lines) < 2 || strings.TrimSuffix(lines[0], "\r") != delimiter {
		return "", false
	}
	for i := 1; i < len(lines); i++ {
		if strings.TrimSuffix(lines[i], "\r") == delimiter {
			return strings.Join(lines[1:i], "\n"), true
		}
	}
	return "", false
}

// Decode decodes the header block. Unknown fields are retained as decoded.
func Decode(content string) Result {
	header, ok := Header(content)
	if !ok {
		return Result{Metadata: New(), Outcome: Absent}
	}
	var root yaml.Node
	if err := yaml.Unmarshal([]byte(header), &root); err != nil {
		return Result{Metadata: New(), Outcome: Malformed, Err: fmt.Errorf("decode header: %w", err)}
	}
	if root.Kind != yaml.DocumentNode || len(root.Content) == 0 || root.Content[0].Kind != yaml.MappingNode {
		return Result{Metadata: New(), Outcome: Malformed, Err: errNotMapping}
	}
	mapping := root.Content[0]
	ret := New()
	for i := 0; i+1 < len(mapping.Content); i += 2 {
		keyNode, valueNode := mapping.Content[i], mapping.Content[i+1]
		if keyNode.Kind != yaml.ScalarNode {
			continue
		}
		value, err := decodeValue(valueNode)
		if err != nil {
			return Result{Metadata: New(), Outcome: Malformed, Err: fmt.Errorf("decode field %s: %w", keyNode.Value, err)}
		}
		ret.Set(keyNode.Value, value)
	}
	return Result{Metadata: ret, Outcome: Decoded}
}

// decodeValue decodes node keeping nested mappings in document order.
func decodeValue(node *yaml.Node) (any, error) {
	switch node.Kind {
	case yaml.AliasNode:
		return decodeValue(node.Alias)
	case yaml.MappingNode:
		mapping := &Mapping{}
		for i := 0; i+1 < len(node.Content); i += 2 {
			if node.Content[i].Tag == "!!merge" {
				var merged any
				if err := node.Decode(&merged); err != nil {
					return nil, err
				}
				return merged, nil
			}
			key, err := decodeValue(node.Content[i])
			if err != nil {
				return nil, err
			}
			value, err := decodeValue(node.Content[i+1])
			if err != nil {
				return nil, err
			}
			mapping.Keys = append(mapping.Keys, key)
			mapping.Values = append(mapping.Values, value)
		}
		return mapping, nil
	case yaml.SequenceNode:
		items := make([]any, 0, len(node.Content))
		for _, child := range node.Content {
			item, err := decodeValue(child)
			if err != nil {
				return nil, err
			}
			items = append(items, item)
		}
		return items, nil
	}
	var value any
	if err := node.Decode(&value); err != nil {
		return nil, err
	}
	return value, nil
}

// Parse returns normalized header metadata; a missing or malformed header yields empty metadata.
func Parse(content string) *Metadata {
	result := Decode(content)
	if result.Outcome != Decoded {
		return New()
	}
	result.Metadata.Normalize()
	return result.Metadata
}

// ParseFor parses metadata and resolves the identifier alias for kind.
func ParseFor(content string, kind proposal.Kind) *Metadata {
	ret := Parse(content)
	if ret.Len() > 0 {
		ret.ResolveAlias(kind)
	}
	return ret
}
