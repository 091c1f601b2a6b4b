package lang

import (
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"
)

var _ yaml.Marshaler = TokenSet(0)
var _ yaml.Unmarshaler = (*TokenSet)(nil)

// MarshalYAML implements yaml.Marshaler.  A set is written as a sequence of
// token names in alphabet order.
func (s TokenSet) MarshalYAML() (interface{}, error) {
	names := make([]string, 0, s.Len())
	for _, t := range s.Tokens() {
		names = append(names, t.String())
	}
	return names, nil
}

// UnmarshalYAML implements yaml.Unmarshaler.  Both a sequence of token names
// and a single comma separated scalar are accepted.
func (s *TokenSet) UnmarshalYAML(node *yaml.Node) error {
	var names []string
	switch node.Kind {
	case yaml.ScalarNode:
		if node.Value != "" {
			names = strings.Split(node.Value, ",")
		}
	case yaml.SequenceNode:
		if err := node.Decode(&names); err != nil {
			return err
		}
	default:
		return fmt.Errorf("line %d: abstract value must be a token list", node.Line)
	}
	set, err := ParseTokenSet(names)
	if err != nil {
		return fmt.Errorf("line %d: %w", node.Line, err)
	}
	*s = set
	return nil
}
