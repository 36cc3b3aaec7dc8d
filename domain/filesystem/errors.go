package filesystem

import (
	"errors"
	"io/fs"
)

var (
	// ErrNotFound is returned when a path does not exist on the remote side.
	ErrNotFound = fs.ErrNotExist

	// ErrPermission is returned when the remote side refuses access.
	ErrPermission = fs.ErrPermission

	// ErrUnsupported is returned for operations the backend cannot express,
	// such as visibility on a document library.
	ErrUnsupported = errors.New("operation not supported")

	// ErrMissingAttribute is returned when metadata lacks the requested attribute.
	ErrMissingAttribute = errors.New("attribute not reported by remote")
)
