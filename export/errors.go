package export

import (
	"errors"
	"fmt"
)

// FormatError reports an export document that does not have the expected shape.
type FormatError struct {
	Doc    string
	Reason string
	Err    error
}

func (e *FormatError) Error() string {
	msg := e.Reason
	if e.Doc != "" {
		msg = e.Doc + ": " + msg
	}
	if e.Err != nil {
		msg = fmt.Sprintf("%s: %v", msg, e.Err)
	}
	return msg
}

func (e *FormatError) Unwrap() error {
	return e.Err
}

func IsFormatError(err error) bool {
	var fe *FormatError
	return errors.As(err, &fe)
}

func formatError(doc, reason string, err error) error {
	return &FormatError{Doc: doc, Reason: reason, Err: err}
}
