package lua

import (
	"strconv"
)

// DecodeFunc converts a dynamic value into a typed result. Conversions are
// fallible and non-fatal: callers may probe several candidate shapes for the
// same value and accept whichever succeeds.
type DecodeFunc[T any] func(*Value) (T, error)

// Bool decodes a boolean value.
func Bool(v *Value) (bool, error) {
	if v.Kind != KindBool {
		return false, ErrNotBool
	}

	return v.Bool, nil
}

// Str decodes a string value.
func Str(v *Value) (string, error) {
	if v.Kind != KindStr {
		return "", ErrNotStr
	}

	return v.Str, nil
}

// Int decodes an integer value.
func Int(v *Value) (int64, error) {
	if v.Kind != KindInt {
		return 0, ErrNotInt
	}

	return v.Int, nil
}

// Float decodes a floating-point value, promoting an integer value.
func Float(v *Value) (float64, error) {
	switch v.Kind {
	case KindFloat:
		return v.Float, nil

	case KindInt:
		return float64(v.Int), nil

	default:
		return 0, ErrNotFloat
	}
}

// Raw returns the value unconverted. It never fails and exists so container
// decoders can extract sub-trees for later probing.
func Raw(v *Value) (*Value, error) { return v, nil }

// Slice decodes an array value by converting every element with elem.
// A failed element fails the whole conversion, naming the element index.
func Slice[T any](elem DecodeFunc[T]) DecodeFunc[[]T] {
	return func(v *Value) ([]T, error) {
		if v.Kind != KindArray {
			return nil, ErrNotArray
		}

		out := make([]T, len(v.Array))

		for i, item := range v.Array {
			dec, err := elem(item)
			if err != nil {
				return nil, NewError("index " + strconv.Itoa(i)).Wrap(err)
			}

			out[i] = dec
		}

		return out, nil
	}
}

// Table decodes a map value by converting every entry's value with elem.
// A failed entry fails the whole conversion, naming the offending key.
func Table[T any](elem DecodeFunc[T]) DecodeFunc[map[string]T] {
	return func(v *Value) (map[string]T, error) {
		if v.Kind != KindMap {
			return nil, ErrNotMap
		}

		out := make(map[string]T, len(v.Map))

		for key, item := range v.Map {
			dec, err := elem(item)
			if err != nil {
				return nil, NewError("key " + strconv.Quote(key)).Wrap(err)
			}

			out[key] = dec
		}

		return out, nil
	}
}

// Pair decodes an array of exactly two elements. An array of any other
// length fails with ErrPairLength, distinct from the wrong-kind failure.
func Pair[A, B any](first DecodeFunc[A], second DecodeFunc[B]) func(*Value) (A, B, error) {
	return func(v *Value) (a A, b B, err error) {
		if v.Kind != KindArray {
			return a, b, ErrNotArray
		}

		if len(v.Array) != 2 {
			return a, b, ErrPairLength
		}

		a, err = first(v.Array[0])
		if err != nil {
			return a, b, NewError("index 0").Wrap(err)
		}

		b, err = second(v.Array[1])
		if err != nil {
			return a, b, NewError("index 1").Wrap(err)
		}

		return a, b, nil
	}
}

// Fields is a decoded map whose entries are consumed one field at a time.
type Fields map[string]*Value

// AsFields decodes a map value into a Fields lookup. The result is a
// shallow copy, so taking fields does not mutate the parsed tree.
func AsFields(v *Value) (Fields, error) {
	if v.Kind != KindMap {
		return nil, ErrNotMap
	}

	f := make(Fields, len(v.Map))

	for key, val := range v.Map {
		f[key] = val
	}

	return f, nil
}

// Field looks up and removes key from f, converting it with dec.
//
// An absent key fails with ErrMissingField; a present but malformed value
// fails with the conversion error. Callers can apply a default only for the
// absent case by testing errors.Is(err, ErrMissingField).
func Field[T any](f Fields, key string, dec DecodeFunc[T]) (T, error) {
	var zero T

	v, ok := f[key]
	if !ok {
		return zero, NewError("field " + strconv.Quote(key)).
			Wrap(ErrMissingField)
	}

	delete(f, key)

	out, err := dec(v)
	if err != nil {
		return zero, NewError("field " + strconv.Quote(key)).Wrap(err)
	}

	return out, nil
}

// FieldOr is Field with a default applied when the key is absent.
// A present but malformed value still fails.
func FieldOr[T any](f Fields, key string, dec DecodeFunc[T], def T) (T, error) {
	if _, ok := f[key]; !ok {
		return def, nil
	}

	return Field(f, key, dec)
}
