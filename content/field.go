package content

import (
	"bytes"
	"encoding/json"
	"strings"
)

// Field is an optional input value. Set reports whether the key was present in the
// request body at all, Null whether it was present with an explicit null.
type Field[T any] struct {
	Set   bool
	Null  bool
	Value T
}

// Some returns a present, non-null Field.
func Some[T any](v T) Field[T] {
	return Field[T]{Set: true, Value: v}
}

func (f *Field[T]) UnmarshalJSON(data []byte) error {
	f.Set = true
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		var zero T
		f.Null = true
		f.Value = zero
		return nil
	}
	return json.Unmarshal(data, &f.Value)
}

func (f Field[T]) MarshalJSON() ([]byte, error) {
	if !f.Set || f.Null {
		return []byte("null"), nil
	}
	return json.Marshal(f.Value)
}

// Present reports whether the field carries a non-null value.
func (f Field[T]) Present() bool {
	return f.Set && !f.Null
}

// Truthy decodes any JSON value using JavaScript truthiness:
// false, 0, "", null become false and everything else becomes true.
type Truthy bool

func (t *Truthy) UnmarshalJSON(data []byte) error {
	var v any
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	switch x := v.(type) {
	case nil:
		*t = false
	case bool:
		*t = Truthy(x)
	case float64:
		*t = x != 0
	case string:
		*t = x != ""
	default:
		*t = true
	}
	return nil
}

// StringList is a list input that also accepts a JSON encoded string.
// A string that does not decode to an array yields an empty list.
type StringList []string

func (l *StringList) UnmarshalJSON(data []byte) error {
	var raw any
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	if s, ok := raw.(string); ok {
		var inner any
		if err := json.Unmarshal([]byte(s), &inner); err != nil {
			*l = StringList{}
			return nil
		}
		raw = inner
	}
	items, ok := raw.([]any)
	if !ok {
		*l = StringList{}
		return nil
	}
	out := make(StringList, 0, len(items))
	for _, item := range items {
		switch x := item.(type) {
		case nil:
			continue
		case string:
			if x = strings.TrimSpace(x); x != "" {
				out = append(out, x)
			}
		default:
			b, _ := json.Marshal(x)
			out = append(out, strings.Trim(string(b), `"`))
		}
	}
	*l = out
	return nil
}

// ParseStringList decodes a list from a plain string, e.g. a multipart form value.
func ParseStringList(s string) StringList {
	quoted, err := json.Marshal(s)
	if err != nil {
		return StringList{}
	}
	var l StringList
	if err := l.UnmarshalJSON(quoted); err != nil {
		return StringList{}
	}
	return l
}
