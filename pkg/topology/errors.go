package topology

import "errors"

var (
	// ErrInvalidIndex reports a triangle corner outside the vertex array.
	ErrInvalidIndex = errors.New("invalid vertex index")
	// ErrMalformedMesh reports arrays that do not fit together: ragged
	// lengths or solid ranges that overlap, invert or run past the end.
	ErrMalformedMesh = errors.New("malformed mesh")
)
