package errors

import (
	"fmt"

	"github.com/cockroachdb/errors"
)

type InvalidConfigurationError struct {
	Field  string
	Reason string
}

func NewInvalidConfigurationError(field, reason string) *InvalidConfigurationError {
	return &InvalidConfigurationError{Field: field, Reason: reason}
}

func (e *InvalidConfigurationError) Error() string {
	return fmt.Sprintf("invalid configuration %q: %s", e.Field, e.Reason)
}

func IsInvalidConfigurationError(err error) bool {
	var e *InvalidConfigurationError
	return errors.As(err, &e)
}

type UnknownWorkloadError struct {
	Name string
}

func NewUnknownWorkloadError(name string) *UnknownWorkloadError {
	return &UnknownWorkloadError{Name: name}
}

func (e *UnknownWorkloadError) Error() string {
	return fmt.Sprintf("unknown workload %q", e.Name)
}

func IsUnknownWorkloadError(err error) bool {
	var e *UnknownWorkloadError
	return errors.As(err, &e)
}

// VerificationError reports a workload whose results do not match what its
// jobs should have produced.
type VerificationError struct {
	Workload string
	Detail   string
}

func NewVerificationError(workload, format string, args ...any) *VerificationError {
	return &VerificationError{Workload: workload, Detail: fmt.Sprintf(format, args...)}
}

func (e *VerificationError) Error() string {
	return fmt.Sprintf("workload %s failed verification: %s", e.Workload, e.Detail)
}

func IsVerificationError(err error) bool {
	var e *VerificationError
	return errors.As(err, &e)
}
