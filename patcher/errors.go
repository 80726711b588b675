package patcher

import "fmt"

// OutputConflictError indicates two images that would be written to the same file.
type OutputConflictError struct {
	FileName string
	First    string
	Second   string
}

func (e *OutputConflictError) Error() string {
	return fmt.Sprintf("output conflict: %s and %s both map to %s", e.First, e.Second, e.FileName)
}

// OutputNameError indicates a variant name that cannot be used in a file name.
type OutputNameError struct {
	Name string
}

func (e *OutputNameError) Error() string {
	return fmt.Sprintf("variant name %q cannot be used as a file name", e.Name)
}
