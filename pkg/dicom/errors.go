package dicom

import (
	"errors"
	"fmt"

	"github.com/jpfielding/brachy.go/pkg/dicom/tag"
)

// Parse failures. A File is never returned alongside one of these.
var (
	ErrNotDICOM          = errors.New("dicom: missing DICM marker")
	ErrShortRead         = errors.New("dicom: short read")
	ErrMalformedSequence = errors.New("dicom: malformed sequence")
	ErrInvalidVR         = errors.New("dicom: invalid value representation")
)

// ParseError locates a parse failure in the stream
type ParseError struct {
	Offset int64 // byte offset of the element or item header being read
	Tag    tag.Tag
	Err    error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse %v at offset %d: %v", e.Tag, e.Offset, e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}
