package reflection

import "errors"

var (
	ErrClassNotFound    = errors.New("reflection: class not found")
	ErrPropertyNotFound = errors.New("reflection: property not found")
	ErrEnumNotFound     = errors.New("reflection: enum not found")

	// ErrInvalidDump is returned for API dumps that decode but describe an
	// inconsistent class hierarchy.
	ErrInvalidDump = errors.New("reflection: invalid api dump")

	// ErrInvalidPatch is returned for patches referring to missing targets.
	ErrInvalidPatch = errors.New("reflection: invalid patch")
)
