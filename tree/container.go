package tree

import (
	"iter"
	"maps"
	"slices"
	"strconv"
)

// Container is an insertion-ordered mapping from string keys to values.
type Container struct {
	keys   []string
	values map[string]Value
	seq    bool
}

func NewContainer() *Container {
	return &Container{values: make(map[string]Value)}
}

// NewSequence builds a sequence-shaped container keyed "0".."n-1".
func NewSequence(values ...Value) *Container {
	c := &Container{
		keys:   make([]string, 0, len(values)),
		values: make(map[string]Value, len(values)),
		seq:    true,
	}
	for i, v := range values {
		c.Set(strconv.Itoa(i), v)
	}
	return c
}

func (c *Container) Len() int {
	if c == nil {
		return 0
	}
	return len(c.keys)
}

// Keys returns a copy of the keys in insertion order.
func (c *Container) Keys() []string {
	if c == nil {
		return nil
	}
	return slices.Clone(c.keys)
}

func (c *Container) Get(key string) (Value, bool) {
	if c == nil {
		return Value{}, false
	}
	v, ok := c.values[key]
	return v, ok
}

// Set stores v under key. New keys are appended; existing keys keep their
// position.
func (c *Container) Set(key string, v Value) {
	if c.values == nil {
		c.values = make(map[string]Value)
	}
	if _, ok := c.values[key]; !ok {
		c.keys = append(c.keys, key)
	}
	c.values[key] = v
}

// Delete removes key and reports whether it was present.
func (c *Container) Delete(key string) bool {
	if _, ok := c.values[key]; !ok {
		return false
	}
	delete(c.values, key)
	if i := slices.Index(c.keys, key); i >= 0 {
		c.keys = slices.Delete(c.keys, i, i+1)
	}
	return true
}

// All iterates entries in insertion order.
func (c *Container) All() iter.Seq2[string, Value] {
	return func(yield func(string, Value) bool) {
		if c == nil {
			return
		}
		for _, key := range c.keys {
			if !yield(key, c.values[key]) {
				return
			}
		}
	}
}

// Clone makes a shallow copy preserving key order and the sequence flag.
func (c *Container) Clone() *Container {
	if c == nil {
		return NewContainer()
	}
	values := make(map[string]Value, len(c.values))
	maps.Copy(values, c.values)
	return &Container{
		keys:   slices.Clone(c.keys),
		values: values,
		seq:    c.seq,
	}
}

func (c *Container) IsSequence() bool {
	return c != nil && c.seq
}

func (c *Container) SetSequence(seq bool) {
	c.seq = seq
}

// Indexed reports whether the keys are exactly "0".."n-1" in order.
func (c *Container) Indexed() bool {
	if c == nil {
		return false
	}
	for i, key := range c.keys {
		if key != strconv.Itoa(i) {
			return false
		}
	}
	return true
}
