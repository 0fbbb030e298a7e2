package core

import "fmt"

// Kind identifies the dynamic type held by a Value.
type Kind int

const (
	// KindNull represents an explicit null value.
	KindNull Kind = iota
	// KindString represents a string value.
	KindString
	// KindNumber represents a numeric value (stored as float64).
	KindNumber
	// KindBool represents a boolean value.
	KindBool
	// KindStringList represents an ordered list of strings.
	KindStringList
)

// String returns the kind name for diagnostics.
func (k Kind) String() string {
	switch k {
	case KindNull:
		return "null"
	case KindString:
		return "string"
	case KindNumber:
		return "number"
	case KindBool:
		return "bool"
	case KindStringList:
		return "string list"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// Value is a tagged union for document metadata entries. The zero value is
// null. Accessors return a typed value or an error wrapping ErrMetadataType,
// never a silent conversion.
type Value struct {
	kind Kind
	str  string
	num  float64
	b    bool
	list []string
}

// Null returns an explicit null value.
func Null() Value { return Value{} }

// String returns a string value.
func String(s string) Value { return Value{kind: KindString, str: s} }

// Number returns a numeric value.
func Number(f float64) Value { return Value{kind: KindNumber, num: f} }

// Bool returns a boolean value.
func Bool(b bool) Value { return Value{kind: KindBool, b: b} }

// StringList returns an ordered list-of-strings value.
func StringList(list []string) Value { return Value{kind: KindStringList, list: list} }

// Kind returns the dynamic type of the value.
func (v Value) Kind() Kind { return v.kind }

// IsNull reports whether the value is null.
func (v Value) IsNull() bool { return v.kind == KindNull }

// AsString returns the string value.
func (v Value) AsString() (string, error) {
	if v.kind != KindString {
		return "", fmt.Errorf("%w: have %s, want string", ErrMetadataType, v.kind)
	}
	return v.str, nil
}

// AsNumber returns the numeric value.
func (v Value) AsNumber() (float64, error) {
	if v.kind != KindNumber {
		return 0, fmt.Errorf("%w: have %s, want number", ErrMetadataType, v.kind)
	}
	return v.num, nil
}

// AsBool returns the boolean value.
func (v Value) AsBool() (bool, error) {
	if v.kind != KindBool {
		return false, fmt.Errorf("%w: have %s, want bool", ErrMetadataType, v.kind)
	}
	return v.b, nil
}

// AsStringList returns the list value.
func (v Value) AsStringList() ([]string, error) {
	if v.kind != KindStringList {
		return nil, fmt.Errorf("%w: have %s, want string list", ErrMetadataType, v.kind)
	}
	return v.list, nil
}

// Metadata is an ordered key-to-Value mapping. Iteration and serialization
// follow insertion order. The zero value is an empty mapping ready for use.
type Metadata struct {
	keys   []string
	values map[string]Value
}

// Set stores a value under key, preserving the original insertion position
// if the key already exists.
func (m *Metadata) Set(key string, value Value) {
	if m.values == nil {
		m.values = make(map[string]Value)
	}
	if _, exists := m.values[key]; !exists {
		m.keys = append(m.keys, key)
	}
	m.values[key] = value
}

// Get returns the value for key and whether it is present.
func (m *Metadata) Get(key string) (Value, bool) {
	v, ok := m.values[key]
	return v, ok
}

// Keys returns the keys in insertion order.
func (m *Metadata) Keys() []string {
	out := make([]string, len(m.keys))
	copy(out, m.keys)
	return out
}

// Len returns the number of entries.
func (m *Metadata) Len() int { return len(m.keys) }

// String returns the string value for key.
// Fails with ErrMetadataMissing or ErrMetadataType.
func (m *Metadata) String(key string) (string, error) {
	v, ok := m.values[key]
	if !ok {
		return "", fmt.Errorf("%w: %q", ErrMetadataMissing, key)
	}
	s, err := v.AsString()
	if err != nil {
		return "", fmt.Errorf("%q: %w", key, err)
	}
	return s, nil
}

// Number returns the numeric value for key.
func (m *Metadata) Number(key string) (float64, error) {
	v, ok := m.values[key]
	if !ok {
		return 0, fmt.Errorf("%w: %q", ErrMetadataMissing, key)
	}
	f, err := v.AsNumber()
	if err != nil {
		return 0, fmt.Errorf("%q: %w", key, err)
	}
	return f, nil
}

// Int returns the numeric value for key truncated to an int.
func (m *Metadata) Int(key string) (int, error) {
	f, err := m.Number(key)
	if err != nil {
		return 0, err
	}
	return int(f), nil
}

// Bool returns the boolean value for key.
func (m *Metadata) Bool(key string) (bool, error) {
	v, ok := m.values[key]
	if !ok {
		return false, fmt.Errorf("%w: %q", ErrMetadataMissing, key)
	}
	b, err := v.AsBool()
	if err != nil {
		return false, fmt.Errorf("%q: %w", key, err)
	}
	return b, nil
}

// StringList returns the list value for key.
func (m *Metadata) StringList(key string) ([]string, error) {
	v, ok := m.values[key]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrMetadataMissing, key)
	}
	list, err := v.AsStringList()
	if err != nil {
		return nil, fmt.Errorf("%q: %w", key, err)
	}
	return list, nil
}
