// Package meta provides the heterogeneous (key string) -> opaque value map
// attached to architecture and task-graph elements throughout this
// module, mirroring core.Vertex.Metadata and core.Edge's use of a plain
// map[string]interface{} rather than a typed schema.
//
// The core placement and routing algorithms never branch on metadata
// contents; only user-supplied RuleSet implementations and Cost/Address
// functions are expected to read it. Keeping access behind Metadata's
// methods (instead of letting callers range over a bare map) leaves room to
// add copy-on-write semantics later without touching call sites.
package meta

// Metadata is a heterogeneous key-value bag attached to a single element
// (architecture component, task node, task edge). The zero value is usable and contains no
// entries.
type Metadata map[string]interface{}

// Get returns the value stored under key and whether it was present.
func (m Metadata) Get(key string) (interface{}, bool) {
	if m == nil {
		return nil, false
	}
	v, ok := m[key]

	return v, ok
}

// Set stores value under key, allocating the underlying map if needed.
// Returns the (possibly newly-allocated) Metadata so callers can write
// `m = m.Set(k, v)` on a nil zero value.
func (m Metadata) Set(key string, value interface{}) Metadata {
	if m == nil {
		m = make(Metadata)
	}
	m[key] = value

	return m
}

// GetString returns the string stored under key, or "" if absent or not a
// string.
func (m Metadata) GetString(key string) string {
	v, ok := m.Get(key)
	if !ok {
		return ""
	}
	s, ok := v.(string)
	if !ok {
		return ""
	}

	return s
}

// GetInt returns the int stored under key, or 0 if absent or not an int.
func (m Metadata) GetInt(key string) int {
	v, ok := m.Get(key)
	if !ok {
		return 0
	}
	i, ok := v.(int)
	if !ok {
		return 0
	}

	return i
}
