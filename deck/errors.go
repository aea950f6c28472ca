package deck

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrMissingOption       = errors.New("missing required option")
	ErrOrder               = errors.New("expected *NODE definition before *ELEMENT definition")
	ErrMalformedLine       = errors.New("malformed line")
	ErrUnknownSetReference = errors.New("unknown set reference")
	ErrMissingIncludeFile  = errors.New("missing include file")
	ErrIncludeCycle        = errors.New("include cycle")
)

// MissingOptionError lists every required keyword option absent from a
// keyword line
type MissingOptionError struct {
	Keys []string
	Line string
}

func (e *MissingOptionError) Error() string {
	return fmt.Sprintf("Missing required keys: %s in line: '%s'", strings.Join(e.Keys, ", "), e.Line)
}

func (e *MissingOptionError) Unwrap() error { return ErrMissingOption }

// LineError places a parse error in its deck file
type LineError struct {
	File string
	Line int
	Text string
	Err  error
}

func (e *LineError) Error() string {
	return fmt.Sprintf("%s:%d: %v", e.File, e.Line, e.Err)
}

func (e *LineError) Unwrap() error { return e.Err }

func malformed(format string, args ...interface{}) error {
	return fmt.Errorf("%w: %s", ErrMalformedLine, fmt.Sprintf(format, args...))
}
