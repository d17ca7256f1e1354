package disk

import "fmt"

// ProbeError is returned when disk space cannot be read for a path. Callers
// treat the affected root as unusable for the current placement decision
// only, not permanently.
type ProbeError struct {
	Path string
	Err  error
}

func (e ProbeError) Error() string {
	return fmt.Sprintf("failed to probe disk space for %s: %v", e.Path, e.Err)
}

func (e ProbeError) Unwrap() error {
	return e.Err
}
