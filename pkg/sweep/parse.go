package sweep

import (
	"fmt"
	"strconv"
	"strings"
)

// ParseCCMapping parses a "number:label" spec, e.g. "74:cutoff".
func ParseCCMapping(spec string) (CCMapping, error) {
	num, label, ok := strings.Cut(spec, ":")
	if !ok {
		return CCMapping{}, fmt.Errorf("invalid CC mapping %q, want number:label", spec)
	}
	n, err := strconv.Atoi(strings.TrimSpace(num))
	if err != nil {
		return CCMapping{}, fmt.Errorf("invalid CC number in %q: %w", spec, err)
	}
	label = strings.TrimSpace(label)
	if label == "" {
		return CCMapping{}, fmt.Errorf("empty label in CC mapping %q", spec)
	}
	return CCMapping{Number: n, Label: label}, nil
}

// ParseCCMappings parses a list of "number:label" specs, preserving order.
func ParseCCMappings(specs []string) ([]CCMapping, error) {
	mappings := make([]CCMapping, 0, len(specs))
	for _, spec := range specs {
		m, err := ParseCCMapping(spec)
		if err != nil {
			return nil, err
		}
		mappings = append(mappings, m)
	}
	return mappings, nil
}

// ParseCCValues parses a comma-separated value list, e.g. "0,64,127",
// preserving order and duplicates.
func ParseCCValues(s string) ([]int, error) {
	if strings.TrimSpace(s) == "" {
		return nil, nil
	}
	parts := strings.Split(s, ",")
	values := make([]int, 0, len(parts))
	for _, part := range parts {
		v, err := strconv.Atoi(strings.TrimSpace(part))
		if err != nil {
			return nil, fmt.Errorf("invalid CC value %q: %w", strings.TrimSpace(part), err)
		}
		values = append(values, v)
	}
	return values, nil
}
