// ABOUTME: Wire envelope shared by the real-time hub and its clients
// ABOUTME: Invocations carry join/leave calls; events carry generation lifecycle updates

package livesync

import "pagesmith-api/core/domain"

// Hub methods a client may invoke
const (
	MethodJoinPage  = "JoinPage"
	MethodLeavePage = "LeavePage"
)

// MessageType discriminates hub envelopes
type MessageType string

const (
	// MessageInvocation is a client call awaiting a completion
	MessageInvocation MessageType = "invocation"

	// MessageCompletion answers an invocation; Error is set on failure
	MessageCompletion MessageType = "completion"

	// MessageEvent carries a generation lifecycle event to a group member
	MessageEvent MessageType = "event"
)

// Message is the JSON envelope exchanged over the hub connection
type Message struct {
	Type         MessageType   `json:"type"`
	InvocationID string        `json:"invocation_id,omitempty"`
	Method       string        `json:"method,omitempty"`
	PageID       string        `json:"page_id,omitempty"`
	Event        *domain.Event `json:"event,omitempty"`
	Error        string        `json:"error,omitempty"`
}
