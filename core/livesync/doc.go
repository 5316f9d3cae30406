// Package livesync keeps an open editing session in step with an external
// generation process.
//
// A Session joins the page's group on a real-time hub and applies the four
// generation lifecycle events (BuildingStarted, BuildingProgress,
// ContentReplaced, BuildingCompleted) to an Editor. All editor mutations,
// including local edits submitted through Session.Edit, run on one goroutine,
// so a replacement document never lands in the middle of a local batch.
//
// Connection state:
//
//	Disconnected -> Connecting -> Joined -> Disconnected
//
// Connecting retries with capped exponential backoff until Close. Every
// successful connect performs exactly one Join. Close marks the session closed
// before tearing anything down; a connect or join that completes afterwards
// leaves and disconnects instead of delivering events.
package livesync
