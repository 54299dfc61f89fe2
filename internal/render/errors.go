package render

import (
	"errors"
	"fmt"
)

// ErrNilNode is the cause of a render called without a report or element.
var ErrNilNode = errors.New("nothing to render")

// RenderError is a failed render. Index is the position of the failing
// element among the report's children, or -1 when the failure is not tied to
// one element (opening or closing the document, or a single-element render).
type RenderError struct {
	Element string
	Index   int
	Err     error
}

func (e *RenderError) Error() string {
	if e.Index < 0 {
		return fmt.Sprintf("render %s: %v", e.Element, e.Err)
	}
	return fmt.Sprintf("render element %d (%s): %v", e.Index, e.Element, e.Err)
}

func (e *RenderError) Unwrap() error {
	return e.Err
}
