package tree

import (
	"encoding/json"
	"fmt"
	"slices"
	"strconv"

	"github.com/goccy/go-yaml"
	"github.com/jacoelho/flame/internal/number"
)

// FromAny converts decoded Go data into a Value.
//
// Maps with string keys are sorted by key since Go maps carry no order;
// yaml.MapSlice keeps its order. Values of other types (structs, typed
// slices) are converted through their JSON encoding.
func FromAny(v any) (Value, error) {
	switch current := v.(type) {
	case nil:
		return Null(), nil
	case Value:
		return current, nil
	case *Container:
		return Object(current), nil
	case bool:
		return Bool(current), nil
	case string:
		return String(current), nil
	case []any:
		values := make([]Value, 0, len(current))
		for i, item := range current {
			converted, err := FromAny(item)
			if err != nil {
				return Null(), fmt.Errorf("index %d: %w", i, err)
			}
			values = append(values, converted)
		}
		return Object(NewSequence(values...)), nil
	case map[string]any:
		c := NewContainer()
		keys := make([]string, 0, len(current))
		for key := range current {
			keys = append(keys, key)
		}
		slices.Sort(keys)
		for _, key := range keys {
			converted, err := FromAny(current[key])
			if err != nil {
				return Null(), fmt.Errorf("key %q: %w", key, err)
			}
			c.Set(key, converted)
		}
		return Object(c), nil
	case yaml.MapSlice:
		c := NewContainer()
		for _, item := range current {
			key := mapSliceKey(item.Key)
			converted, err := FromAny(item.Value)
			if err != nil {
				return Null(), fmt.Errorf("key %q: %w", key, err)
			}
			c.Set(key, converted)
		}
		return Object(c), nil
	}

	if f, ok := number.ToFloat64(v); ok {
		return Number(f), nil
	}

	data, err := json.Marshal(v)
	if err != nil {
		return Null(), fmt.Errorf("convert %T: %w", v, err)
	}
	return UnmarshalValue(data)
}

func mapSliceKey(key any) string {
	switch k := key.(type) {
	case string:
		return k
	case nil:
		return "null"
	default:
		if f, ok := number.ToFloat64(k); ok {
			return strconv.FormatFloat(f, 'f', -1, 64)
		}
		return fmt.Sprint(k)
	}
}

// Interface converts the value into plain Go data: nil, bool, float64,
// string, []any for indexed sequences and map[string]any otherwise.
func (v Value) Interface() any {
	switch v.kind {
	case KindBool:
		return v.b
	case KindNumber:
		return v.n
	case KindString:
		return v.s
	case KindContainer:
		if v.c.IsSequence() && v.c.Indexed() {
			out := make([]any, 0, v.c.Len())
			for _, item := range v.c.All() {
				out = append(out, item.Interface())
			}
			return out
		}
		out := make(map[string]any, v.c.Len())
		for key, item := range v.c.All() {
			out[key] = item.Interface()
		}
		return out
	default:
		return nil
	}
}
