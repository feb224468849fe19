package query

import (
	"errors"
	"fmt"
	"net/url"
	"regexp"
	"slices"
	"strconv"
	"strings"
)

// Recognised option names.
const (
	OptionOrderBy      = "orderBy"
	OptionStartAt      = "startAt"
	OptionLimitToFirst = "limitToFirst"
	OptionLimitToLast  = "limitToLast"
	OptionShallow      = "shallow"
	OptionEqualTo      = "equalTo"
)

var knownOptions = []string{
	OptionOrderBy,
	OptionStartAt,
	OptionLimitToFirst,
	OptionLimitToLast,
	OptionShallow,
	OptionEqualTo,
}

var (
	ErrUnknownOption  = errors.New("unknown query option")
	ErrMissingOrderBy = errors.New("expecting orderBy in query")
	ErrInvalidOption  = errors.New("invalid query option")
)

// UnknownOptionError names the offending option and the value it carried.
type UnknownOptionError struct {
	Key   string
	Value any
}

func (e *UnknownOptionError) Error() string {
	return fmt.Sprintf("%s %s=%v", ErrUnknownOption, e.Key, e.Value)
}

func (e *UnknownOptionError) Unwrap() error {
	return ErrUnknownOption
}

// Params is a query mapping as supplied by a caller. Values may be Go
// scalars, json.Number, or tree values.
type Params map[string]any

// Validate rejects option names outside the recognised set. Keys are checked
// in sorted order so the reported key is deterministic.
func (p Params) Validate() error {
	keys := make([]string, 0, len(p))
	for key := range p {
		keys = append(keys, key)
	}
	slices.Sort(keys)

	for _, key := range keys {
		if !slices.Contains(knownOptions, key) {
			return &UnknownOptionError{Key: key, Value: p[key]}
		}
	}
	return nil
}

var jsonNumber = regexp.MustCompile(`^-?(0|[1-9][0-9]*)(\.[0-9]+)?([eE][+-]?[0-9]+)?$`)

// FromValues decodes REST-style string parameters. Quoted values stay strings
// with their quotes (they are stripped at compile time), true and false become
// booleans, JSON number literals become numbers, and anything else is a bare
// string. For repeated keys the last value wins.
func FromValues(values url.Values) Params {
	params := make(Params, len(values))
	for key, list := range values {
		if len(list) == 0 {
			continue
		}
		params[key] = decodeParam(list[len(list)-1])
	}
	return params
}

// Parse decodes a raw query string such as orderBy="$key"&limitToFirst=3.
func Parse(raw string) (Params, error) {
	values, err := url.ParseQuery(strings.TrimPrefix(raw, "?"))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidOption, err)
	}
	return FromValues(values), nil
}

func decodeParam(raw string) any {
	if strings.HasPrefix(raw, `"`) {
		return raw
	}
	switch raw {
	case "true":
		return true
	case "false":
		return false
	}
	if jsonNumber.MatchString(raw) {
		if f, err := strconv.ParseFloat(raw, 64); err == nil {
			return f
		}
	}
	return raw
}

// unquote strips a leading double quote and, when present, the matching
// trailing one.
func unquote(s string) string {
	if !strings.HasPrefix(s, `"`) {
		return s
	}
	return strings.TrimSuffix(s[1:], `"`)
}
