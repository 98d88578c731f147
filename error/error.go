package error

import (
	"fmt"
	"strings"
)

// SpecError is a defect in a grammar declaration.
type SpecError struct {
	Cause error

	// Detail is usually the symbol or production the error refers to.
	Detail string

	// SourceName is the name of the grammar the error belongs to.
	SourceName string
}

func (e *SpecError) Error() string {
	var b strings.Builder
	if e.SourceName != "" {
		fmt.Fprintf(&b, "%v: ", e.SourceName)
	}
	fmt.Fprintf(&b, "error: %v", e.Cause)
	if e.Detail != "" {
		fmt.Fprintf(&b, ": %v", e.Detail)
	}
	return b.String()
}

func (e *SpecError) Unwrap() error {
	return e.Cause
}

// SpecErrors is the full list of defects found in one grammar declaration.
type SpecErrors []*SpecError

func (e SpecErrors) Error() string {
	if len(e) == 0 {
		return ""
	}
	var b strings.Builder
	fmt.Fprintf(&b, "%v", e[0])
	for _, err := range e[1:] {
		fmt.Fprintf(&b, "\n%v", err)
	}
	return b.String()
}
