package query

import (
	"errors"
	"fmt"
)

var errMissingTitledBody = errors.New("no child element with a title attribute")

// ParseError is returned when a query catalog is not well-formed XML.
type ParseError struct {
	Err error
}

func (err ParseError) Error() string {
	return fmt.Sprintf("malformed query catalog XML: %v", err.Err)
}

func (err ParseError) Unwrap() error {
	return err.Err
}

// StructuralError is returned when a catalog parses as XML but a query element does not
// have the expected shape.
type StructuralError struct {
	// Position of the offending query element in the catalog, starting at 0.
	QueryIndex int
	Reason     string
}

func (err StructuralError) Error() string {
	return fmt.Sprintf("invalid query element at index %d in catalog: %s", err.QueryIndex, err.Reason)
}
