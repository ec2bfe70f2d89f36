// Package properties reads and writes Java-style properties files, the
// key=value format build tools use for local signing configuration.
package properties

import "sort"

// ConfigMap is an immutable set of key/value pairs loaded from a properties
// source. The zero value is an empty map.
type ConfigMap struct {
	values map[string]string
}

// NewConfigMap returns a ConfigMap holding a copy of values.
func NewConfigMap(values map[string]string) *ConfigMap {
	m := &ConfigMap{values: make(map[string]string, len(values))}
	for k, v := range values {
		m.values[k] = v
	}
	return m
}

// Empty returns a ConfigMap without entries.
func Empty() *ConfigMap {
	return &ConfigMap{values: map[string]string{}}
}

// Get returns the value stored under key and whether it was present.
func (m *ConfigMap) Get(key string) (string, bool) {
	if m == nil {
		return "", false
	}
	v, ok := m.values[key]
	return v, ok
}

// GetOr returns the value stored under key, or def when absent.
func (m *ConfigMap) GetOr(key, def string) string {
	if v, ok := m.Get(key); ok {
		return v
	}
	return def
}

// Len returns the number of entries.
func (m *ConfigMap) Len() int {
	if m == nil {
		return 0
	}
	return len(m.values)
}

// Keys returns the keys in sorted order.
func (m *ConfigMap) Keys() []string {
	if m == nil {
		return nil
	}
	keys := make([]string, 0, len(m.values))
	for k := range m.values {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// ToMap returns a copy of the entries.
func (m *ConfigMap) ToMap() map[string]string {
	out := make(map[string]string, m.Len())
	if m == nil {
		return out
	}
	for k, v := range m.values {
		out[k] = v
	}
	return out
}
