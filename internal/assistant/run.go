package assistant

// RunState is the normalized status of an asynchronous run.
type RunState string

const (
	RunQueued     RunState = "queued"
	RunInProgress RunState = "in_progress"
	RunCompleted  RunState = "completed"
	RunFailed     RunState = "failed"
)

// Terminal reports whether the state ends the run.
func (s RunState) Terminal() bool {
	return s == RunCompleted || s == RunFailed
}

// normalizeStatus folds the backend's richer status vocabulary into the four
// states the relay cares about. Anything that can no longer produce a
// response counts as failed.
func normalizeStatus(status string) RunState {
	switch status {
	case "queued":
		return RunQueued
	case "in_progress", "requires_action", "cancelling":
		return RunInProgress
	case "completed":
		return RunCompleted
	default:
		// failed, cancelled, expired, incomplete, unknown
		return RunFailed
	}
}
