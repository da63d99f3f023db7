package pptxjson

import (
	"errors"
	"fmt"
)

// maxGroupDepth bounds group nesting while building a shape tree.
const maxGroupDepth = 64

var (
	// ErrCyclicGroup is reported when a group contains itself.
	ErrCyclicGroup = errors.New("cyclic group reference")
	// ErrGroupTooDeep is reported when groups nest deeper than maxGroupDepth.
	ErrGroupTooDeep = errors.New("group nesting too deep")
	// ErrInvalidTransform is reported for transforms that cannot be normalized.
	ErrInvalidTransform = errors.New("invalid transform")

	// ErrNotPresentation is returned when a package has no presentation part.
	ErrNotPresentation = errors.New("not a presentation package")
	// ErrPartTooLarge is returned when a part exceeds the configured limit.
	ErrPartTooLarge = errors.New("part exceeds size limit")
	// ErrTooManyParts is returned when a package holds too many entries.
	ErrTooManyParts = errors.New("package holds too many parts")
)

// GeometryError is a structurally invalid element. The element is dropped
// and the rest of its slide is still decoded.
type GeometryError struct {
	// Element names the offending element (its cNvPr name or tag).
	Element string
	Err     error
}

func (e *GeometryError) Error() string {
	return fmt.Sprintf("element %q: %v", e.Element, e.Err)
}

func (e *GeometryError) Unwrap() error { return e.Err }
