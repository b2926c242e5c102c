package upstream

import (
	"errors"
	"fmt"
)

// Error kinds. Match them with errors.Is.
var (
	ErrTransport    = errors.New("backend unreachable")
	ErrApplication  = errors.New("backend rejected request")
	ErrUnauthorized = errors.New("not authorized")
	ErrMalformed    = errors.New("malformed backend response")
)

// Error is returned by every Client call that fails.
type Error struct {
	Kind    error
	Op      string
	Status  int
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e == nil {
		return ""
	}
	msg := e.Message
	if msg == "" && e.Err != nil {
		msg = e.Err.Error()
	}
	if msg == "" {
		msg = e.Kind.Error()
	}
	if e.Status != 0 {
		return fmt.Sprintf("%s: %s (%d)", e.Op, msg, e.Status)
	}
	return fmt.Sprintf("%s: %s", e.Op, msg)
}

func (e *Error) Unwrap() error { return e.Err }

func (e *Error) Is(target error) bool { return e.Kind == target }

// UserMessage is the text to show the user: the backend's own message for
// application failures, the kind otherwise.
func UserMessage(err error) string {
	var ue *Error
	if errors.As(err, &ue) {
		if ue.Message != "" {
			return ue.Message
		}
		return ue.Kind.Error()
	}
	if err == nil {
		return ""
	}
	return err.Error()
}
