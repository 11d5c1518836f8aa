package headings

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrInvalidMappingKey = errors.New("invalid mapping key")
	ErrUnmatchedHeading  = errors.New("unmatched heading")
	ErrAmbiguousHeading  = errors.New("ambiguous heading")
	ErrDuplicateColumn   = errors.New("duplicate column for property")
	ErrIndexOutOfRange   = errors.New("index out of range")
	ErrNoSingleMatch     = errors.New("no single match")
	ErrNilMatcher        = errors.New("nil matcher in mapping")
)

// InvalidMappingKeyError lists every key of a mapping that is not a schema
// property.
type InvalidMappingKeyError struct {
	Keys []string
}

func (e *InvalidMappingKeyError) Error() string {
	return fmt.Sprintf("Invalid keys in mapping: %s", strings.Join(e.Keys, ","))
}

func (e *InvalidMappingKeyError) Unwrap() error { return ErrInvalidMappingKey }

type UnmatchedHeadingError struct {
	Heading string
	Mapping Mapping
}

func (e *UnmatchedHeadingError) Error() string {
	return fmt.Sprintf("No matches for %s in mapping %s", e.Heading, e.Mapping)
}

func (e *UnmatchedHeadingError) Unwrap() error { return ErrUnmatchedHeading }

type AmbiguousHeadingError struct {
	Heading    string
	Properties []Property
}

func (e *AmbiguousHeadingError) Error() string {
	names := make([]string, len(e.Properties))
	for i, p := range e.Properties {
		names[i] = p.String()
	}
	return fmt.Sprintf("Multiple matches for %s in mapping: %s", e.Heading, strings.Join(names, ", "))
}

func (e *AmbiguousHeadingError) Unwrap() error { return ErrAmbiguousHeading }

// DuplicateColumnError is returned when two headings resolve to the same
// property, First is the earlier column.
type DuplicateColumnError struct {
	Property Property
	First    int
	Second   int
}

func (e *DuplicateColumnError) Error() string {
	return fmt.Sprintf("Duplicate mapping of %s to indices %d and %d", e.Property, e.First, e.Second)
}

func (e *DuplicateColumnError) Unwrap() error { return ErrDuplicateColumn }

type IndexOutOfRangeError struct {
	Property Property
	Index    int
	Row      []string
}

func (e *IndexOutOfRangeError) Error() string {
	quoted := make([]string, len(e.Row))
	for i, cell := range e.Row {
		quoted[i] = fmt.Sprintf("%q", cell)
	}
	return fmt.Sprintf("%s (index %d) out of range for [%s]", e.Property, e.Index, strings.Join(quoted, ", "))
}

func (e *IndexOutOfRangeError) Unwrap() error { return ErrIndexOutOfRange }

type NoSingleMatchError struct {
	Slug  string
	Table FragmentTable
	// Found holds the distinct properties that matched, empty when nothing did.
	Found []Property
}

func (e *NoSingleMatchError) Error() string {
	return fmt.Sprintf("no single match found for %s in %s", e.Slug, e.Table)
}

func (e *NoSingleMatchError) Unwrap() error { return ErrNoSingleMatch }
