package core

import "errors"

// Sentinel errors for the turn-level failure taxonomy. ToolFailure and
// classification ambiguity are recovered below the graph (coordinator and
// director level) and never surface here; these three terminate, or refuse
// to start, exactly one turn and leave the session state consistent.
var (
	// ErrStepLimitExceeded means routing did not converge before the
	// configured step ceiling.
	ErrStepLimitExceeded = errors.New("step limit exceeded")

	// ErrTurnTimeout means the wall-clock ceiling for the turn elapsed.
	ErrTurnTimeout = errors.New("turn timeout")

	// ErrSessionLockTimeout means a concurrent turn for the same session
	// did not release the lock in time. Surfaced to the caller as a
	// "still processing" response, never as a transport failure.
	ErrSessionLockTimeout = errors.New("session lock timeout")
)
