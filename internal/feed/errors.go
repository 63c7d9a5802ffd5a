package feed

import "fmt"

// DataFormatError reports a row of a data file that could not be parsed.
type DataFormatError struct {
	Source string
	Line   int
	Column string
	Value  string
	Err    error
}

func (e *DataFormatError) Error() string {
	if e.Column == "" {
		return fmt.Sprintf("%s:%d: malformed row: %v", e.Source, e.Line, e.Err)
	}
	return fmt.Sprintf("%s:%d: invalid %s %q: %v", e.Source, e.Line, e.Column, e.Value, e.Err)
}

func (e *DataFormatError) Unwrap() error {
	return e.Err
}
