package shell

import (
	"errors"
	"fmt"
)

// ErrAlreadyRunning is returned by Run when the app was already started.
var ErrAlreadyRunning = errors.New("shell: already running")

// StartupError reports a failure before the render thread was started.
// Nothing the failed stage would have created is left behind.
type StartupError struct {
	Stage string
	Err   error
}

func (e *StartupError) Error() string {
	return fmt.Sprintf("shell: startup failed at %s: %v", e.Stage, e.Err)
}

func (e *StartupError) Unwrap() error {
	return e.Err
}

// FatalError reports a render thread failure: device initialization, a
// fatal device callback or a panic in a render-thread hook.
type FatalError struct {
	Err error
}

func (e *FatalError) Error() string {
	return fmt.Sprintf("shell: render thread failed: %v", e.Err)
}

func (e *FatalError) Unwrap() error {
	return e.Err
}
