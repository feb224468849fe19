package tree

import (
	"encoding/json"
	"errors"
	"slices"
	"strings"
	"testing"
)

func TestDecodeJSONPreservesKeyOrder(t *testing.T) {
	t.Parallel()

	v := mustDecode(t, `{"zeta":1,"alpha":{"y":true,"x":null},"list":["a",2]}`)

	c, ok := v.AsContainer()
	if !ok {
		t.Fatalf("root kind = %s, want container", v.Kind())
	}
	if got := c.Keys(); !slices.Equal(got, []string{"zeta", "alpha", "list"}) {
		t.Fatalf("Keys() = %v", got)
	}

	alpha, _ := c.Get("alpha")
	inner, _ := alpha.AsContainer()
	if got := inner.Keys(); !slices.Equal(got, []string{"y", "x"}) {
		t.Fatalf("alpha Keys() = %v", got)
	}
	if x, ok := inner.Get("x"); !ok || !x.IsNull() {
		t.Fatalf("alpha.x = (%v, %v), want stored null", x, ok)
	}

	list, _ := c.Get("list")
	seq, _ := list.AsContainer()
	if !seq.IsSequence() || !seq.Indexed() || seq.Len() != 2 {
		t.Fatalf("list = %v, want two element sequence", list)
	}
}

func TestDecodeJSONScalars(t *testing.T) {
	t.Parallel()

	tests := []struct {
		doc  string
		want Value
	}{
		{doc: `null`, want: Null()},
		{doc: `true`, want: Bool(true)},
		{doc: `12.5`, want: Number(12.5)},
		{doc: `"hi"`, want: String("hi")},
	}

	for _, tt := range tests {
		t.Run(tt.doc, func(t *testing.T) {
			if got := mustDecode(t, tt.doc); !Equal(got, tt.want) {
				t.Fatalf("decode %s = %v, want %v", tt.doc, got, tt.want)
			}
		})
	}
}

func TestDecodeJSONErrors(t *testing.T) {
	t.Parallel()

	for _, doc := range []string{``, `{"a":`, `[1,2`, `{} {}`, `{"a" 1}`} {
		t.Run(doc, func(t *testing.T) {
			_, err := DecodeJSON(strings.NewReader(doc))
			if !errors.Is(err, ErrMalformed) {
				t.Fatalf("DecodeJSON(%q) error = %v, want ErrMalformed", doc, err)
			}
		})
	}
}

func TestMarshalJSONRoundTrip(t *testing.T) {
	t.Parallel()

	doc := `{"b":[1,"two",{"z":false,"a":null}],"a":"x"}`
	data, err := json.Marshal(mustDecode(t, doc))
	if err != nil {
		t.Fatalf("Marshal() error = %v", err)
	}
	if string(data) != doc {
		t.Fatalf("Marshal() = %s, want %s", data, doc)
	}
}

func TestMarshalJSONSequenceWithGapEncodesObject(t *testing.T) {
	t.Parallel()

	seq := NewSequence(String("a"), String("b"), String("c"))
	seq.Delete("1")

	if got := Object(seq).String(); got != `{"0":"a","2":"c"}` {
		t.Fatalf("String() = %s", got)
	}
}

func TestUnmarshalJSONIntoStruct(t *testing.T) {
	t.Parallel()

	var payload struct {
		Data Value `json:"data"`
	}
	if err := json.Unmarshal([]byte(`{"data":{"k":"v","a":1}}`), &payload); err != nil {
		t.Fatalf("Unmarshal() error = %v", err)
	}
	if got := payload.Data.String(); got != `{"k":"v","a":1}` {
		t.Fatalf("Data = %s", got)
	}
}

func TestDecodeYAML(t *testing.T) {
	t.Parallel()

	v, err := DecodeYAML(strings.NewReader(`
user:
  zed: {name: Z, age: 3}
  abe: {name: A, age: 4.5}
tags: [x, y]
`))
	if err != nil {
		t.Fatalf("DecodeYAML() error = %v", err)
	}
	if got := v.String(); got != `{"user":{"zed":{"name":"Z","age":3},"abe":{"name":"A","age":4.5}},"tags":["x","y"]}` {
		t.Fatalf("DecodeYAML() = %s", got)
	}
}

func TestDecodeYAMLEmpty(t *testing.T) {
	t.Parallel()

	v, err := DecodeYAML(strings.NewReader(""))
	if err != nil {
		t.Fatalf("DecodeYAML() error = %v", err)
	}
	if !v.IsNull() {
		t.Fatalf("DecodeYAML(empty) = %v, want null", v)
	}
}

func TestFromAny(t *testing.T) {
	t.Parallel()

	type user struct {
		Name string `json:"name"`
		Age  int    `json:"age"`
	}

	tests := []struct {
		name  string
		input any
		want  string
	}{
		{name: "map_sorted", input: map[string]any{"b": 1, "a": []any{true, nil}}, want: `{"a":[true,null],"b":1}`},
		{name: "int64", input: int64(7), want: `7`},
		{name: "struct", input: user{Name: "X", Age: 3}, want: `{"name":"X","age":3}`},
		{name: "typed_slice", input: []string{"a", "b"}, want: `["a","b"]`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := FromAny(tt.input)
			if err != nil {
				t.Fatalf("FromAny() error = %v", err)
			}
			if got.String() != tt.want {
				t.Fatalf("FromAny() = %s, want %s", got, tt.want)
			}
		})
	}
}

func TestFromAnyRejectsUnencodable(t *testing.T) {
	t.Parallel()

	if _, err := FromAny(make(chan int)); err == nil {
		t.Fatal("FromAny(chan) expected error")
	}
}

func TestInterface(t *testing.T) {
	t.Parallel()

	got := mustDecode(t, `{"a":[1,"x"],"b":{"c":true}}`).Interface()
	m, ok := got.(map[string]any)
	if !ok {
		t.Fatalf("Interface() = %T, want map", got)
	}
	list, ok := m["a"].([]any)
	if !ok || len(list) != 2 || list[0] != float64(1) || list[1] != "x" {
		t.Fatalf("a = %#v", m["a"])
	}
	if inner, ok := m["b"].(map[string]any); !ok || inner["c"] != true {
		t.Fatalf("b = %#v", m["b"])
	}
}
