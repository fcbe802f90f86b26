package observer

import (
	"bytes"
	"encoding/json"
	"errors"
)

var ErrCyclicValue = errors.New("observer: cyclic value")

// marshalValue encodes objects as JSON objects of their enumerable keys and
// arrays as JSON arrays. Reads go through Get, so an active subscriber
// records everything it serializes.
func marshalValue(v any) ([]byte, error) {
	var buf bytes.Buffer
	if err := encodeValue(&buf, v, map[any]struct{}{}); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func encodeValue(buf *bytes.Buffer, v any, seen map[any]struct{}) error {
	switch t := v.(type) {
	case *Object:
		if t == nil {
			buf.WriteString("null")
			return nil
		}
		if _, ok := seen[t]; ok {
			return ErrCyclicValue
		}
		seen[t] = struct{}{}
		defer delete(seen, t)

		buf.WriteByte('{')
		for i, key := range t.Keys() {
			if i > 0 {
				buf.WriteByte(',')
			}
			k, err := json.Marshal(key)
			if err != nil {
				return err
			}
			buf.Write(k)
			buf.WriteByte(':')
			if err := encodeValue(buf, t.Get(key), seen); err != nil {
				return err
			}
		}
		buf.WriteByte('}')
		return nil
	case *Array:
		if t == nil {
			buf.WriteString("null")
			return nil
		}
		if _, ok := seen[t]; ok {
			return ErrCyclicValue
		}
		seen[t] = struct{}{}
		defer delete(seen, t)

		buf.WriteByte('[')
		for i, item := range t.items {
			if i > 0 {
				buf.WriteByte(',')
			}
			if err := encodeValue(buf, item, seen); err != nil {
				return err
			}
		}
		buf.WriteByte(']')
		return nil
	default:
		b, err := json.Marshal(v)
		if err != nil {
			return err
		}
		buf.Write(b)
		return nil
	}
}
