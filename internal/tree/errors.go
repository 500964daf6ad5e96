package tree

import "errors"

var (
	// ErrNotFound is returned for node ids that are not in the tree.
	ErrNotFound = errors.New("tree: node not found")
	// ErrWrongRole is returned when an operation targets a node of the wrong role.
	ErrWrongRole = errors.New("tree: node has the wrong role for this operation")
)
