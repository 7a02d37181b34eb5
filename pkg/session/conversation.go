package session

import (
	"fmt"
	"time"
)

// Role identifies the author of a conversation entry.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
	RoleError     Role = "error"
)

// Notice texts shown to the user.
const (
	EditFailedNotice     = "Failed to apply changes. Please try again."
	GenerateFailedNotice = "Failed to generate widget. Please try again."
)

// Message is one entry of the edit conversation. Patch holds an RFC 7386 merge
// patch from the previous specification to the new one on successful edits.
type Message struct {
	Role      Role      `json:"type"`
	Text      string    `json:"message"`
	Patch     string    `json:"patch,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

// EditAppliedText is the assistant reply recorded after a successful edit.
func EditAppliedText(instruction string) string {
	return fmt.Sprintf("Updated the widget based on your request: \"%s\"", instruction)
}
