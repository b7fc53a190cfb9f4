package userconfig

import (
	"errors"
	"fmt"
	"strings"
)

var errEmptyKey = errors.New("config key cannot be empty")

// tree is a nested map addressed by dotted keys.
type tree map[string]any

func splitKey(key string) ([]string, error) {
	if key == "" {
		return nil, errEmptyKey
	}
	parts := strings.Split(key, ".")
	for _, p := range parts {
		if p == "" {
			return nil, fmt.Errorf("invalid config key %q", key)
		}
	}
	return parts, nil
}

// child returns the mapping stored under name, if the value is one.
func child(m map[string]any, name string) (map[string]any, bool) {
	switch v := m[name].(type) {
	case map[string]any:
		return v, true
	case map[any]any:
		converted := make(map[string]any, len(v))
		for k, val := range v {
			converted[fmt.Sprint(k)] = val
		}
		m[name] = converted
		return converted, true
	default:
		return nil, false
	}
}

// parent walks to the mapping holding the last segment of parts. When create
// is set, missing or scalar intermediate values are replaced by mappings.
func (t tree) parent(parts []string, create bool) (map[string]any, bool) {
	m := map[string]any(t)
	for _, p := range parts[:len(parts)-1] {
		next, ok := child(m, p)
		if !ok {
			if !create {
				return nil, false
			}
			next = map[string]any{}
			m[p] = next
		}
		m = next
	}
	return m, true
}

func (t tree) get(key string) (any, bool) {
	parts, err := splitKey(key)
	if err != nil {
		return nil, false
	}

	m, ok := t.parent(parts, false)
	if !ok {
		return nil, false
	}

	v, ok := m[parts[len(parts)-1]]
	return v, ok
}

func (t tree) set(key string, value any) error {
	parts, err := splitKey(key)
	if err != nil {
		return err
	}

	m, _ := t.parent(parts, true)
	m[parts[len(parts)-1]] = value
	return nil
}

// delete reports whether anything was removed.
func (t tree) delete(key string) bool {
	parts, err := splitKey(key)
	if err != nil {
		return false
	}

	m, ok := t.parent(parts, false)
	if !ok {
		return false
	}

	last := parts[len(parts)-1]
	if _, ok := m[last]; !ok {
		return false
	}
	delete(m, last)
	return true
}
