package flame

import (
	"log/slog"

	"github.com/jacoelho/flame/internal/query"
	"github.com/jacoelho/flame/tree"
)

// Op names a store operation.
type Op string

const (
	OpGet    Op = "get"
	OpPut    Op = "put"
	OpPatch  Op = "patch"
	OpPost   Op = "post"
	OpDelete Op = "delete"
)

// Observer is called before every operation. arg is the Query for get, the
// payload tree.Value for put, patch and post, and nil for delete.
type Observer func(op Op, path string, arg any)

// NewLogObserver logs each operation at debug level.
func NewLogObserver(logger *slog.Logger) Observer {
	return func(op Op, path string, arg any) {
		attrs := []any{"op", string(op), "path", path}
		switch current := arg.(type) {
		case tree.Value:
			attrs = append(attrs, "payload", current)
		case query.Params:
			if current != nil {
				attrs = append(attrs, "query", map[string]any(current))
			}
		}
		logger.Debug("store operation", attrs...)
	}
}
