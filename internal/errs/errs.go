package errs

import (
	"fmt"
	"strings"
)

type ErrUnknownMode struct {
	Mode  string
	Known []string
}

func (e ErrUnknownMode) Error() string {
	if e.Mode == "" {
		return fmt.Sprintf("a mode is required, choose from: %s", strings.Join(e.Known, ", "))
	}
	return fmt.Sprintf("unknown mode %q, choose from: %s", e.Mode, strings.Join(e.Known, ", "))
}
func (e ErrUnknownMode) Is(err error) bool {
	_, ok := err.(ErrUnknownMode)
	return ok
}

// ErrUsage is returned when the command line couldn't be parsed.
type ErrUsage struct {
	Err error
}

func (e ErrUsage) Error() string {
	return e.Err.Error()
}
func (e ErrUsage) Is(err error) bool {
	_, ok := err.(ErrUsage)
	return ok
}
func (e ErrUsage) Unwrap() error { return e.Err }
