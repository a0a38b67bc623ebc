package metadata

import "errors"

var (
	// ErrEmptyMetadata reports a metadata file whose trimmed content is empty.
	ErrEmptyMetadata = errors.New("metadata file is empty")
	// ErrMalformedJSON reports content that looked structured but failed to decode.
	ErrMalformedJSON = errors.New("malformed json metadata")
	// ErrInvalidShape reports a structured file whose root is not an object.
	ErrInvalidShape = errors.New("json metadata must be an object")
)
