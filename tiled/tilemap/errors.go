package tilemap

import "fmt"

// ValidationError reports a map whose parts parsed but do not agree with
// each other.
type ValidationError struct {
	What string
	Msg  string
	Err  error
}

func (e *ValidationError) Error() string {
	msg := fmt.Sprintf("%s: %s", e.What, e.Msg)
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *ValidationError) Unwrap() error {
	return e.Err
}

func invalid(what, format string, args ...any) error {
	return &ValidationError{What: what, Msg: fmt.Sprintf(format, args...)}
}
