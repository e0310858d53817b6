package booking

import (
	"errors"
	"fmt"
)

// Error codes for the reservation and commit pipelines.
const (
	CodeValidation          = "validationError"
	CodeNotFound            = "notFoundError"
	CodeReferenceNotFound   = "referenceNotFoundError"
	CodePricing             = "pricingError"
	CodePaymentNotConfirmed = "paymentNotConfirmedError"
	CodeMissingIdentity     = "missingIdentityError"
	CodeConflict            = "conflictError"
)

// FlowError is a caller-facing failure with a stable code. Validation and
// pricing failures surface before any payment session is opened; commit
// failures never leave a partial booking behind.
type FlowError struct {
	Code    string
	Message string
}

func (e *FlowError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func NewValidationError(format string, args ...any) error {
	return &FlowError{Code: CodeValidation, Message: fmt.Sprintf(format, args...)}
}

func NewNotFoundError(format string, args ...any) error {
	return &FlowError{Code: CodeNotFound, Message: fmt.Sprintf(format, args...)}
}

func NewReferenceNotFoundError(format string, args ...any) error {
	return &FlowError{Code: CodeReferenceNotFound, Message: fmt.Sprintf(format, args...)}
}

func NewPricingError(format string, args ...any) error {
	return &FlowError{Code: CodePricing, Message: fmt.Sprintf(format, args...)}
}

func NewPaymentNotConfirmedError(format string, args ...any) error {
	return &FlowError{Code: CodePaymentNotConfirmed, Message: fmt.Sprintf(format, args...)}
}

func NewMissingIdentityError(format string, args ...any) error {
	return &FlowError{Code: CodeMissingIdentity, Message: fmt.Sprintf(format, args...)}
}

func NewConflictError(format string, args ...any) error {
	return &FlowError{Code: CodeConflict, Message: fmt.Sprintf(format, args...)}
}

// CodeOf extracts the flow error code, or "" for unclassified errors.
func CodeOf(err error) string {
	var fe *FlowError
	if errors.As(err, &fe) {
		return fe.Code
	}
	return ""
}
