package loader

import (
	"errors"
	"fmt"
)

// ErrUnknownMetric is returned by Dataset.Column for a name outside models.Metrics.
var ErrUnknownMetric = errors.New("unknown metric")

// LoadError reports a resource that could not be read or that lacks a required column.
type LoadError struct {
	Resource string
	Err      error
}

func (e *LoadError) Error() string {
	if e.Resource == "" {
		return fmt.Sprintf("load: %v", e.Err)
	}
	return fmt.Sprintf("load %s: %v", e.Resource, e.Err)
}

func (e *LoadError) Unwrap() error {
	return e.Err
}

// DateParseError reports a date cell that matches none of the accepted layouts.
// Row is the 1-based data row, not counting the header.
type DateParseError struct {
	Resource string
	Row      int
	Value    string
}

func (e *DateParseError) Error() string {
	if e.Resource == "" {
		return fmt.Sprintf("parse date on row %d: %q", e.Row, e.Value)
	}
	return fmt.Sprintf("%s: parse date on row %d: %q", e.Resource, e.Row, e.Value)
}
