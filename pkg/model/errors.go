package model

import (
	"errors"
	"fmt"
)

// ErrSearchLimit is wrapped by every error returned when a solve is cut off by its node budget or context
var ErrSearchLimit = errors.New("search exceeded limit")

type ParseError struct {
	Input  string
	Reason string
}

func (err *ParseError) Error() string {
	return fmt.Sprintf("cannot parse %q: %v", err.Input, err.Reason)
}

// WindowError reports a malformed time-window constraint; it is fatal and raised before search begins
type WindowError struct {
	Day    string
	Reason string
}

func (err *WindowError) Error() string {
	return fmt.Sprintf("invalid time window for %q: %v", err.Day, err.Reason)
}

// InfeasibleDomainError reports a variable left without candidate sections before search starts
type InfeasibleDomainError struct {
	Variable Variable
	Reason   string
}

func (err *InfeasibleDomainError) Error() string {
	return fmt.Sprintf("no candidate sections for %q: %v", err.Variable, err.Reason)
}
