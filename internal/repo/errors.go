package repo

import "errors"

var (
	// ErrNotFound means no document exists for the requested id.
	ErrNotFound = errors.New("no such resource")

	// ErrForbidden means the workout belongs to a different identity subject.
	ErrForbidden = errors.New("resource belongs to another owner")

	// ErrEdgeExists means both sides already record the workout-exercise link.
	ErrEdgeExists = errors.New("relationship already exists")

	// ErrEdgeMissing means the link is not present on both sides.
	ErrEdgeMissing = errors.New("relationship does not exist")
)
