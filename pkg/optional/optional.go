package optional

import "encoding/json"

// Value distinguishes three JSON states for a sparse update field: absent
// (leave the stored value alone), present-but-null (clear it), and present
// with a value (set it). encoding/json never calls UnmarshalJSON for absent
// fields, which is what makes the presence flag reliable.
type Value[T any] struct {
	present bool
	value   *T
}

// Set returns a present Value holding v.
func Set[T any](v T) Value[T] {
	return Value[T]{present: true, value: &v}
}

// Null returns a present Value holding null.
func Null[T any]() Value[T] {
	return Value[T]{present: true}
}

// Present reports whether the field appeared in the input at all.
func (o Value[T]) Present() bool {
	return o.present
}

// IsNull reports whether the field appeared as an explicit null.
func (o Value[T]) IsNull() bool {
	return o.present && o.value == nil
}

// Get returns the held value and whether one is held.
func (o Value[T]) Get() (T, bool) {
	if o.value == nil {
		var zero T
		return zero, false
	}
	return *o.value, true
}

func (o *Value[T]) UnmarshalJSON(data []byte) error {
	o.present = true
	if string(data) == "null" {
		o.value = nil
		return nil
	}
	var v T
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	o.value = &v
	return nil
}

func (o Value[T]) MarshalJSON() ([]byte, error) {
	if o.value == nil {
		return []byte("null"), nil
	}
	return json.Marshal(*o.value)
}
