// Package script runs YAML files of store operations.
//
// A script is a sequence of steps:
//
//	- name: first three items
//	  op: get
//	  path: /item
//	  query:
//	    orderBy: $key
//	    limitToFirst: 3
//	  expect: [zeroth, first, second]
//
//	- op: post
//	  path: /comment
//	  value: {body: hi}
//	  capture: comment
//
//	- op: get
//	  path: /comment/{{ .comment }}/body
//	  expect: hi
package script

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/goccy/go-yaml"
	"github.com/goccy/go-yaml/ast"
	"github.com/jacoelho/flame"
	"github.com/jacoelho/flame/tree"
)

var (
	ErrInvalidScript = errors.New("invalid script")
	ErrExpectation   = errors.New("expectation failed")
)

// Step is one store operation.
type Step struct {
	Name    string
	Op      string
	Path    string
	Value   Literal
	Query   Literal
	Params  string
	Select  string
	Expect  Literal
	Capture string
}

// Literal is a YAML value kept in document order. Set reports whether the
// field appeared at all, so an explicit null differs from an omitted field.
type Literal struct {
	Value tree.Value
	Set   bool
}

// UnmarshalYAML decodes a step mapping. Unknown fields are rejected.
func (s *Step) UnmarshalYAML(node ast.Node) error {
	var pairs []*ast.MappingValueNode
	switch n := node.(type) {
	case *ast.MappingNode:
		pairs = n.Values
	case *ast.MappingValueNode:
		pairs = []*ast.MappingValueNode{n}
	default:
		return errors.New("step must be a mapping")
	}

	for _, pair := range pairs {
		key, ok := pair.Key.(*ast.StringNode)
		if !ok {
			return errors.New("step key must be a string")
		}

		var err error
		switch key.Value {
		case "name":
			s.Name, err = nodeToString(pair.Value)
		case "op":
			s.Op, err = nodeToString(pair.Value)
		case "path":
			s.Path, err = nodeToString(pair.Value)
		case "params":
			s.Params, err = nodeToString(pair.Value)
		case "select":
			s.Select, err = nodeToString(pair.Value)
		case "capture":
			s.Capture, err = nodeToString(pair.Value)
		case "value":
			s.Value, err = nodeToLiteral(pair.Value)
		case "query":
			s.Query, err = nodeToLiteral(pair.Value)
		case "expect":
			s.Expect, err = nodeToLiteral(pair.Value)
		default:
			return fmt.Errorf("unsupported step key %q", key.Value)
		}
		if err != nil {
			return fmt.Errorf("%s: %w", key.Value, err)
		}
	}
	return nil
}

func nodeToString(node ast.Node) (string, error) {
	switch n := node.(type) {
	case *ast.StringNode:
		return n.Value, nil
	case *ast.NullNode:
		return "", nil
	default:
		return "", fmt.Errorf("must be a string, got %s", node.Type())
	}
}

func nodeToLiteral(node ast.Node) (Literal, error) {
	var raw any
	if err := yaml.NodeToValue(node, &raw, yaml.UseOrderedMap()); err != nil {
		return Literal{}, err
	}
	v, err := tree.FromAny(raw)
	if err != nil {
		return Literal{}, err
	}
	return Literal{Value: v, Set: true}, nil
}

// Parse decodes and validates a script.
func Parse(r io.Reader) ([]Step, error) {
	var steps []Step
	if err := yaml.NewDecoder(r).Decode(&steps); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("%w: empty script", ErrInvalidScript)
		}
		return nil, fmt.Errorf("%w: %v", ErrInvalidScript, err)
	}
	if len(steps) == 0 {
		return nil, fmt.Errorf("%w: no steps", ErrInvalidScript)
	}

	for i := range steps {
		steps[i].Op = strings.ToLower(strings.TrimSpace(steps[i].Op))
		if err := steps[i].validate(); err != nil {
			return nil, fmt.Errorf("%w: step %d: %v", ErrInvalidScript, i+1, err)
		}
	}
	return steps, nil
}

func (s Step) validate() error {
	switch flame.Op(s.Op) {
	case flame.OpGet:
		if s.Value.Set {
			return errors.New("get does not take a value")
		}
		if s.Query.Set && s.Params != "" {
			return errors.New("use either query or params")
		}
		if s.Query.Set {
			if c, ok := s.Query.Value.AsContainer(); !ok || c.IsSequence() {
				return errors.New("query must be a mapping")
			}
		}
	case flame.OpPut, flame.OpPatch, flame.OpPost:
		if !s.Value.Set {
			return fmt.Errorf("%s requires a value", s.Op)
		}
	case flame.OpDelete:
		if s.Value.Set {
			return errors.New("delete does not take a value")
		}
	case "":
		return errors.New("op is required")
	default:
		return fmt.Errorf("unsupported op %q", s.Op)
	}

	if s.Op != string(flame.OpGet) && (s.Query.Set || s.Params != "") {
		return fmt.Errorf("%s does not take a query", s.Op)
	}
	if s.Path == "" {
		return errors.New("path is required")
	}
	if s.Select != "" && !strings.HasPrefix(s.Select, "$") {
		return fmt.Errorf("select %q must start with $", s.Select)
	}
	return nil
}

// Label names the step in output.
func (s Step) Label() string {
	if s.Name != "" {
		return s.Name
	}
	return s.Op + " " + s.Path
}

// query builds the read query from params or the query mapping.
func (s Step) query() (flame.Query, error) {
	if s.Params != "" {
		return flame.ParseQuery(s.Params)
	}
	c, ok := s.Query.Value.AsContainer()
	if !ok {
		return nil, nil
	}
	q := make(flame.Query, c.Len())
	for key, v := range c.All() {
		q[key] = v
	}
	return q, nil
}
