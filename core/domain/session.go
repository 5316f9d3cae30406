// ABOUTME: Generation session model tracking an external generation run during editing
// ABOUTME: Ephemeral per editing session and never persisted

package domain

// GenerationPhase is the lifecycle phase of a generation run
type GenerationPhase int

const (
	PhaseIdle GenerationPhase = iota
	PhaseBuilding
	PhaseProgress
	PhaseCompleted
	PhaseFailed
)

// String returns a readable name for the phase
func (p GenerationPhase) String() string {
	switch p {
	case PhaseBuilding:
		return "building"
	case PhaseProgress:
		return "progress"
	case PhaseCompleted:
		return "completed"
	case PhaseFailed:
		return "failed"
	default:
		return "idle"
	}
}

// GenerationSession is the status surfaced to the person editing a page
type GenerationSession struct {
	Phase       GenerationPhase `json:"phase"`
	Message     string          `json:"message,omitempty"`
	CurrentStep int             `json:"current_step,omitempty"`
	TotalSteps  int             `json:"total_steps,omitempty"`
}

// Active reports whether a generation run is in flight
func (s GenerationSession) Active() bool {
	return s.Phase == PhaseBuilding || s.Phase == PhaseProgress
}
