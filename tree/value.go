package tree

import (
	"fmt"
	"log/slog"
)

// Kind identifies the variant held by a Value.
type Kind uint8

const (
	KindNull Kind = iota
	KindBool
	KindNumber
	KindString
	KindContainer
)

func (k Kind) String() string {
	switch k {
	case KindNull:
		return "null"
	case KindBool:
		return "bool"
	case KindNumber:
		return "number"
	case KindString:
		return "string"
	case KindContainer:
		return "container"
	default:
		return fmt.Sprintf("Kind(%d)", uint8(k))
	}
}

// Value is a node of the document tree. The zero Value is Null.
type Value struct {
	kind Kind
	b    bool
	n    float64
	s    string
	c    *Container
}

func Null() Value { return Value{} }

func Bool(b bool) Value { return Value{kind: KindBool, b: b} }

func Number(n float64) Value { return Value{kind: KindNumber, n: n} }

func String(s string) Value { return Value{kind: KindString, s: s} }

// Object wraps a container. A nil container yields Null.
func Object(c *Container) Value {
	if c == nil {
		return Value{}
	}
	return Value{kind: KindContainer, c: c}
}

func (v Value) Kind() Kind { return v.kind }

func (v Value) IsNull() bool { return v.kind == KindNull }

func (v Value) AsBool() (bool, bool) { return v.b, v.kind == KindBool }

func (v Value) AsNumber() (float64, bool) { return v.n, v.kind == KindNumber }

func (v Value) AsString() (string, bool) { return v.s, v.kind == KindString }

func (v Value) AsContainer() (*Container, bool) { return v.c, v.kind == KindContainer }

// Equal reports deep equality. Container key order is ignored but the
// sequence flag is not: a sequence never equals a plain container.
func Equal(a, b Value) bool {
	if a.kind != b.kind {
		return false
	}
	switch a.kind {
	case KindNull:
		return true
	case KindBool:
		return a.b == b.b
	case KindNumber:
		return a.n == b.n
	case KindString:
		return a.s == b.s
	case KindContainer:
		return equalContainers(a.c, b.c)
	default:
		return false
	}
}

func equalContainers(a, b *Container) bool {
	if a == b {
		return true
	}
	if a.Len() != b.Len() || a.IsSequence() != b.IsSequence() {
		return false
	}
	for key, av := range a.All() {
		bv, ok := b.Get(key)
		if !ok || !Equal(av, bv) {
			return false
		}
	}
	return true
}

// String renders the value as compact JSON.
func (v Value) String() string {
	data, err := v.MarshalJSON()
	if err != nil {
		return fmt.Sprintf("!(%v)", err)
	}
	return string(data)
}

// LogValue renders the value as compact JSON in structured logs.
func (v Value) LogValue() slog.Value {
	return slog.StringValue(v.String())
}
