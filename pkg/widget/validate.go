package widget

import (
	"errors"
	"fmt"
	"strings"
)

// ErrDuplicateID marks specifications whose elements share an id. Responses
// are keyed by id, so duplicates would silently overwrite each other.
var ErrDuplicateID = errors.New("widget: duplicate element id")

// ValidationError lists the ids that appear more than once.
type ValidationError struct {
	Duplicates []string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("widget: duplicate element id(s): %s", strings.Join(e.Duplicates, ", "))
}

func (e *ValidationError) Unwrap() error {
	return ErrDuplicateID
}

// Validate checks the invariants the interpreter relies on. Elements with an
// empty id are ignored.
func (s Spec) Validate() error {
	seen := make(map[string]int, len(s.Elements))
	var duplicates []string
	for _, element := range s.Elements {
		if element.ID == "" {
			continue
		}
		seen[element.ID]++
		if seen[element.ID] == 2 {
			duplicates = append(duplicates, element.ID)
		}
	}
	if len(duplicates) == 0 {
		return nil
	}
	return &ValidationError{Duplicates: duplicates}
}
