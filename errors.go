package flame

import (
	"errors"

	"github.com/jacoelho/flame/internal/pushid"
	"github.com/jacoelho/flame/internal/query"
)

var (
	// ErrUnknownQueryOption is wrapped by *UnknownQueryOptionError.
	ErrUnknownQueryOption = query.ErrUnknownOption
	// ErrMissingOrderBy is returned for queries that filter or limit without orderBy.
	ErrMissingOrderBy = query.ErrMissingOrderBy
	// ErrInvalidQueryOption reports a recognised option with an unusable value.
	ErrInvalidQueryOption = query.ErrInvalidOption
	// ErrInvariantViolation reports a push key that could not be minted correctly.
	ErrInvariantViolation = pushid.ErrInvariantViolation
	// ErrInvalidPatch is returned when a non-container value would be merged into a container.
	ErrInvalidPatch = errors.New("patch value must be a container")
)

// UnknownQueryOptionError names the offending query option.
type UnknownQueryOptionError = query.UnknownOptionError
