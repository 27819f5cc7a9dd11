package linedemux

import (
	"errors"
	"fmt"
)

// ErrInputNotFound is reported when the input file does not exist
var ErrInputNotFound = errors.New("input not found")

// ErrSameOutput is reported when both suffixes resolve to the same output file
var ErrSameOutput = errors.New("avg and max outputs are the same file")

// InputError is a failure to open or read the input file
type InputError struct {
	Path string
	Err  error
}

func (e *InputError) Error() string {
	if e.Path == "" {
		return fmt.Sprintf("Error reading input: %v", e.Err)
	}
	return fmt.Sprintf("Error reading input %s: %v", e.Path, e.Err)
}

func (e *InputError) Unwrap() error { return e.Err }

// OutputError is a failure to create, write or close one of the output files
type OutputError struct {
	Path string
	Err  error
}

func (e *OutputError) Error() string {
	if e.Path == "" {
		return fmt.Sprintf("Error writing output: %v", e.Err)
	}
	return fmt.Sprintf("Error writing output %s: %v", e.Path, e.Err)
}

func (e *OutputError) Unwrap() error { return e.Err }
