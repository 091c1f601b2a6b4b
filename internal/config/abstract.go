package config

import (
	"fmt"
	"os"

	"github.com/majwic/lisp-abstract-interpreter/lang"
	"gopkg.in/yaml.v3"
)

// LoadAbstractFile reads a YAML map from input names to token lists:
//
//	x: [NumPos, NumZero]
//	flag: BTrue, BFalse
func LoadAbstractFile(path string) (map[string]lang.TokenSet, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("error reading abstract file %s: %w", path, err)
	}
	bindings, err := ParseAbstract(b)
	if err != nil {
		return nil, fmt.Errorf("error parsing abstract file %s: %w", path, err)
	}
	return bindings, nil
}

// ParseAbstract decodes abstract input bindings from YAML.
func ParseAbstract(b []byte) (map[string]lang.TokenSet, error) {
	var bindings map[string]lang.TokenSet
	if err := yaml.Unmarshal(b, &bindings); err != nil {
		return nil, err
	}
	if bindings == nil {
		bindings = make(map[string]lang.TokenSet)
	}
	return bindings, nil
}

// MarshalAbstract encodes abstract input bindings as YAML.
func MarshalAbstract(bindings map[string]lang.TokenSet) ([]byte, error) {
	return yaml.Marshal(bindings)
}
