package program

import (
	"errors"
	"fmt"
)

// ErrLink is matched by every *LinkError.
var ErrLink = errors.New("program: link failed")

// LinkError carries the device program info log of a failed link, or the reason the
// shader units could not be linked at all.
type LinkError struct {
	Key string
	Log string
}

func (e *LinkError) Error() string {
	if e.Log == "" {
		return fmt.Sprintf("program %q: link failed", e.Key)
	}
	return fmt.Sprintf("program %q: link failed: %s", e.Key, e.Log)
}

func (e *LinkError) Unwrap() error {
	return ErrLink
}
