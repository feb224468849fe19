package query

import (
	"fmt"
	"regexp"
	"strconv"

	"github.com/jacoelho/flame/internal/number"
	"github.com/jacoelho/flame/tree"
)

// Reserved orderBy tokens.
const (
	OrderByKey   = "$key"
	OrderByValue = "$value"
)

// Options is a compiled query.
type Options struct {
	OrderBy    string
	StartAt    tree.Value
	HasStartAt bool
	EqualTo    tree.Value
	HasEqualTo bool
	Limit      int
	HasLimit   bool
	// Reverse flips the presentation order of the limited result.
	Reverse bool
	Shallow bool
}

// Default is applied to reads that carry no query at all.
func Default() *Options {
	return &Options{OrderBy: OrderByKey}
}

// Compile validates params and resolves them into Options. A nil Params
// compiles to Default; an explicit query without orderBy does not.
func Compile(p Params) (*Options, error) {
	if p == nil {
		return Default(), nil
	}
	if err := p.Validate(); err != nil {
		return nil, err
	}

	opts := &Options{}

	if raw, ok := present(p, OptionOrderBy); ok {
		order, isString := raw.(string)
		if !isString {
			if v, isValue := raw.(tree.Value); isValue {
				order, isString = v.AsString()
			}
		}
		if !isString {
			return nil, fmt.Errorf("%w: %s must be a string, got %T", ErrInvalidOption, OptionOrderBy, raw)
		}
		opts.OrderBy = unquote(order)
	}

	var err error
	if opts.StartAt, opts.HasStartAt, err = scalarParam(p, OptionStartAt); err != nil {
		return nil, err
	}
	if opts.EqualTo, opts.HasEqualTo, err = scalarParam(p, OptionEqualTo); err != nil {
		return nil, err
	}

	if raw, ok := present(p, OptionLimitToLast); ok {
		if opts.Limit, err = limitParam(OptionLimitToLast, raw); err != nil {
			return nil, err
		}
		opts.HasLimit, opts.Reverse = true, true
	} else if raw, ok := present(p, OptionLimitToFirst); ok {
		if opts.Limit, err = limitParam(OptionLimitToFirst, raw); err != nil {
			return nil, err
		}
		opts.HasLimit = true
	}

	if raw, ok := present(p, OptionShallow); ok {
		v, err := tree.FromAny(raw)
		if err != nil {
			return nil, fmt.Errorf("%w: %s: %v", ErrInvalidOption, OptionShallow, err)
		}
		shallow, isBool := v.AsBool()
		if !isBool {
			return nil, fmt.Errorf("%w: %s must be a boolean, got %s", ErrInvalidOption, OptionShallow, v.Kind())
		}
		opts.Shallow = shallow
	}

	if opts.OrderBy == "" {
		if !opts.Shallow || opts.HasStartAt || opts.HasEqualTo || opts.HasLimit {
			return nil, ErrMissingOrderBy
		}
		opts.OrderBy = OrderByKey
	}

	if opts.OrderBy == OrderByKey {
		opts.StartAt = keyValue(opts.StartAt)
		opts.EqualTo = keyValue(opts.EqualTo)
	}

	return opts, nil
}

// present treats nil values as absent.
func present(p Params, key string) (any, bool) {
	raw, ok := p[key]
	if !ok || raw == nil {
		return nil, false
	}
	if v, isValue := raw.(tree.Value); isValue && v.IsNull() {
		return nil, false
	}
	return raw, true
}

func scalarParam(p Params, key string) (tree.Value, bool, error) {
	raw, ok := present(p, key)
	if !ok {
		return tree.Null(), false, nil
	}
	v, err := tree.FromAny(raw)
	if err != nil {
		return tree.Null(), false, fmt.Errorf("%w: %s: %v", ErrInvalidOption, key, err)
	}
	if s, isString := v.AsString(); isString {
		v = tree.String(unquote(s))
	}
	return v, true, nil
}

func limitParam(key string, raw any) (int, error) {
	if v, isValue := raw.(tree.Value); isValue {
		raw = v.Interface()
	}
	limit, ok := number.ToInt(raw)
	if !ok {
		return 0, fmt.Errorf("%w: %s must be an integer, got %v", ErrInvalidOption, key, raw)
	}
	if limit < 1 {
		return 0, fmt.Errorf("%w: %s must be positive, got %d", ErrInvalidOption, key, limit)
	}
	return limit, nil
}

var digits = regexp.MustCompile(`^[0-9]+$`)

// keyValue parses purely numeric string keys as numbers.
func keyValue(v tree.Value) tree.Value {
	s, ok := v.AsString()
	if !ok || !digits.MatchString(s) {
		return v
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return v
	}
	return tree.Number(f)
}
