package feature

import "strings"

// ExtraValue holds the value(s) recorded for one attribute key. A key seen
// once is a scalar; a repeated key (e.g. multiple GTF "tag" attributes)
// becomes an array. The distinction is observable in rendering: a lone
// scalar renders bare, an array renders comma-joined.
type ExtraValue struct {
	values []string
	array  bool
}

// Scalar returns a single-valued ExtraValue.
func Scalar(v string) ExtraValue {
	return ExtraValue{values: []string{v}}
}

// Array returns a multi-valued ExtraValue.
func Array(vs ...string) ExtraValue {
	return ExtraValue{values: vs, array: true}
}

// IsArray reports whether the value holds more than one entry semantically.
func (e ExtraValue) IsArray() bool {
	return e.array
}

// First returns the first recorded value, or "" if none.
func (e ExtraValue) First() string {
	if len(e.values) == 0 {
		return ""
	}
	return e.values[0]
}

// Values returns all recorded values in insertion order.
func (e ExtraValue) Values() []string {
	return e.values
}

// Push appends a value. A scalar is promoted to a two-element array.
func (e *ExtraValue) Push(v string) {
	e.values = append(e.values, v)
	if len(e.values) > 1 {
		e.array = true
	}
}

// Render formats the value for output: scalars as-is, arrays comma-joined.
func (e ExtraValue) Render() string {
	if !e.array {
		return e.First()
	}
	return strings.Join(e.values, ",")
}

// Extras maps attribute keys to their value(s). It carries attributes and
// columns outside the fixed schema of a record.
type Extras map[string]ExtraValue

// NewExtras returns an empty Extras map.
func NewExtras() Extras {
	return make(Extras)
}

// Add records a key/value pair. The first write to a key stores a scalar;
// later writes promote it to an array and append.
func (x Extras) Add(key, value string) {
	if existing, ok := x[key]; ok {
		existing.Push(value)
		x[key] = existing
		return
	}
	x[key] = Scalar(value)
}

// Merge folds all key/value pairs from other into x, with repeats
// accumulating into arrays.
func (x Extras) Merge(other Extras) {
	for key, value := range other {
		if existing, ok := x[key]; ok {
			for _, v := range value.Values() {
				existing.Push(v)
			}
			x[key] = existing
			continue
		}
		cp := ExtraValue{values: append([]string(nil), value.values...), array: value.array}
		x[key] = cp
	}
}

// Get returns the value for key and whether it is present.
func (x Extras) Get(key string) (ExtraValue, bool) {
	v, ok := x[key]
	return v, ok
}

// First returns the first value for key, or "" if the key is absent.
func (x Extras) First(key string) string {
	if v, ok := x[key]; ok {
		return v.First()
	}
	return ""
}
