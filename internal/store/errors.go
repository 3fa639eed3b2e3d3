package store

import "github.com/pkg/errors"

var (
	// ErrNotFound indicates the identifier resolves to no record.
	ErrNotFound = errors.New("spear job not found")

	// ErrDuplicateToken indicates a create collided with an
	// already-assigned task token. The dispatch bridge treats this
	// as a benign redelivery; direct callers surface a conflict.
	ErrDuplicateToken = errors.New("task token already in use")

	// ErrSystemNotFound indicates the referenced RayStation system
	// does not exist.
	ErrSystemNotFound = errors.New("raystation system not found")
)
