package tree

import (
	"errors"
	"fmt"
	"io"

	"github.com/goccy/go-yaml"
)

// DecodeYAML reads a single YAML document preserving mapping order. An
// empty document decodes to Null.
func DecodeYAML(r io.Reader) (Value, error) {
	decoder := yaml.NewDecoder(r, yaml.UseOrderedMap())

	var data any
	if err := decoder.Decode(&data); err != nil {
		if errors.Is(err, io.EOF) {
			return Null(), nil
		}
		return Null(), fmt.Errorf("failed to decode YAML: %w", err)
	}

	return FromAny(data)
}
