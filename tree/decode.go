package tree

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strconv"

	"github.com/jacoelho/flame/internal/stack"
)

// ErrMalformed reports input that is not a single well-formed JSON value.
var ErrMalformed = errors.New("tree: malformed JSON document")

type frame struct {
	c       *Container
	key     string
	needKey bool
}

// DecodeJSON reads a single JSON document preserving object key order.
func DecodeJSON(r io.Reader) (Value, error) {
	dec := json.NewDecoder(r)
	dec.UseNumber()

	frames := stack.New[*frame]()
	var (
		root Value
		done bool
	)

	for {
		tok, err := dec.Token()
		if errors.Is(err, io.EOF) {
			if !frames.IsEmpty() {
				return Null(), fmt.Errorf("%w: unexpected end of input at depth %d", ErrMalformed, frames.Size())
			}
			if !done {
				return Null(), fmt.Errorf("%w: empty input", ErrMalformed)
			}
			return root, nil
		}
		if err != nil {
			return Null(), fmt.Errorf("%w: %v", ErrMalformed, err)
		}
		if done {
			return Null(), fmt.Errorf("%w: unexpected data after top-level value", ErrMalformed)
		}

		var value Value
		switch current := tok.(type) {
		case json.Delim:
			switch current {
			case '{':
				frames.Push(&frame{c: NewContainer(), needKey: true})
				continue
			case '[':
				frames.Push(&frame{c: NewSequence()})
				continue
			default:
				closed, _ := frames.Pop()
				value = Object(closed.c)
			}
		case string:
			if top, ok := frames.Peek(); ok && top.needKey {
				top.key = current
				top.needKey = false
				continue
			}
			value = String(current)
		case json.Number:
			f, err := current.Float64()
			if err != nil {
				return Null(), fmt.Errorf("%w: number %s: %v", ErrMalformed, current, err)
			}
			value = Number(f)
		case bool:
			value = Bool(current)
		case nil:
			value = Null()
		}

		parent, ok := frames.Peek()
		if !ok {
			root = value
			done = true
			continue
		}
		if parent.c.IsSequence() {
			parent.c.Set(strconv.Itoa(parent.c.Len()), value)
			continue
		}
		parent.c.Set(parent.key, value)
		parent.needKey = true
	}
}

// UnmarshalValue decodes a JSON document held in memory.
func UnmarshalValue(data []byte) (Value, error) {
	return DecodeJSON(bytes.NewReader(data))
}

func (v *Value) UnmarshalJSON(data []byte) error {
	decoded, err := UnmarshalValue(data)
	if err != nil {
		return err
	}
	*v = decoded
	return nil
}
