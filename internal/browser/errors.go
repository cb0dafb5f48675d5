package browser

import (
	"errors"
	"fmt"
	"strconv"
)

// ErrInvalidSelection is returned for input that is neither a command nor a
// number shown in the current listing.
var ErrInvalidSelection = errors.New("invalid selection")

var errRootFolder = errors.New("cannot delete the root folder")

// errReported marks an error that was already shown to the user.
var errReported = errors.New("already reported")

// OperationError is a failed Drive or local operation on a named target.
type OperationError struct {
	Op     string
	Target string
	Err    error
}

func (e *OperationError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Op, e.Target, e.Err)
}

func (e *OperationError) Unwrap() error {
	return e.Err
}

// parseSelection resolves a menu choice to a node of idx.
func parseSelection(choice string, idx *MenuIndex) (int, error) {
	n, err := strconv.Atoi(choice)
	if err != nil {
		return 0, fmt.Errorf("%w: %q is not a number", ErrInvalidSelection, choice)
	}
	if _, ok := idx.Lookup(n); !ok {
		return 0, fmt.Errorf("%w: no entry %d", ErrInvalidSelection, n)
	}
	return n, nil
}
