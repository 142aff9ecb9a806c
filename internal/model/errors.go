package model

import (
	"errors"
	"strings"
)

var (
	ErrConfigValidation  = errors.New("config validation error")
	ErrData              = errors.New("data error")
	ErrOrderRejected     = errors.New("order rejected")
	ErrSimulation        = errors.New("simulation error")
	ErrComparison        = errors.New("comparison error")
	ErrUnresolvedOperand = errors.New("unresolved operand")
	ErrCancelled         = errors.New("backtest cancelled")
	ErrNotFound          = errors.New("not found")
)

// ValidationError carries every fatal problem found in a strategy config plus the
// non-fatal warnings collected alongside them.
type ValidationError struct {
	Errors   []string
	Warnings []string
}

func (e *ValidationError) Error() string {
	return ErrConfigValidation.Error() + ": " + strings.Join(e.Errors, "; ")
}

func (e *ValidationError) Unwrap() error {
	return ErrConfigValidation
}
