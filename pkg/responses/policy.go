package responses

import (
	"fmt"
	"strings"
)

// MergePolicy decides what happens to captured answers when an edit replaces
// the active specification.
type MergePolicy string

const (
	// PolicyRetain keeps answers for ids present in both the old and the new
	// specification and drops the rest.
	PolicyRetain MergePolicy = "retain"
	// PolicyReset clears every answer on each edit.
	PolicyReset MergePolicy = "reset"
)

// ParseMergePolicy maps a configuration string onto a policy. An empty string
// selects PolicyRetain.
func ParseMergePolicy(raw string) (MergePolicy, error) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "", "retain", "merge":
		return PolicyRetain, nil
	case "reset":
		return PolicyReset, nil
	default:
		return "", fmt.Errorf("responses: unknown merge policy %q", raw)
	}
}

// Apply adjusts store for a replacement specification whose element ids are
// newIDs.
func (p MergePolicy) Apply(store *Store, newIDs []string) {
	if store == nil {
		return
	}
	switch p {
	case PolicyReset:
		store.Reset()
	default:
		store.Retain(newIDs)
	}
}
