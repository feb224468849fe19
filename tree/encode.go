package tree

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// MarshalJSON encodes the value preserving container key order. Indexed
// sequences encode as arrays.
func (v Value) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	if err := v.encode(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (v Value) encode(buf *bytes.Buffer) error {
	switch v.kind {
	case KindNull:
		buf.WriteString("null")
	case KindBool, KindNumber, KindString:
		data, err := json.Marshal(v.Interface())
		if err != nil {
			return fmt.Errorf("encode %s: %w", v.kind, err)
		}
		buf.Write(data)
	case KindContainer:
		if v.c.IsSequence() && v.c.Indexed() {
			return encodeArray(buf, v.c)
		}
		return encodeObject(buf, v.c)
	}
	return nil
}

func encodeArray(buf *bytes.Buffer, c *Container) error {
	buf.WriteByte('[')
	i := 0
	for _, item := range c.All() {
		if i > 0 {
			buf.WriteByte(',')
		}
		if err := item.encode(buf); err != nil {
			return err
		}
		i++
	}
	buf.WriteByte(']')
	return nil
}

func encodeObject(buf *bytes.Buffer, c *Container) error {
	buf.WriteByte('{')
	i := 0
	for key, item := range c.All() {
		if i > 0 {
			buf.WriteByte(',')
		}
		name, err := json.Marshal(key)
		if err != nil {
			return fmt.Errorf("encode key %q: %w", key, err)
		}
		buf.Write(name)
		buf.WriteByte(':')
		if err := item.encode(buf); err != nil {
			return fmt.Errorf("key %q: %w", key, err)
		}
		i++
	}
	buf.WriteByte('}')
	return nil
}
