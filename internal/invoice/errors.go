package invoice

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

// Error represents a failure reported by the invoicing core.
//
// Errors fall into three groups:
//   - User input: empty order, insufficient payment, invalid contact, invalid quantity
//   - Invariant breach: ledger monotonicity violation
//   - Environment: persistence unavailable, finalize already in progress
//
// User-input errors never mutate state and are never retried automatically.
type Error struct {
	// Code identifies the error category.
	Code ErrorCode

	// Message is a human-readable description.
	Message string

	// Details contains additional context.
	Details map[string]string

	// Err is the underlying cause, if any.
	Err error
}

// ErrorCode categorizes invoicing errors.
type ErrorCode string

const (
	// ErrCodeEmptyOrder indicates finalize was attempted with no line items.
	ErrCodeEmptyOrder ErrorCode = "EMPTY_ORDER"

	// ErrCodeInsufficientPayment indicates the payment is not a valid
	// non-negative number or is below the total.
	ErrCodeInsufficientPayment ErrorCode = "INSUFFICIENT_PAYMENT"

	// ErrCodeInvalidContact indicates the messaging destination is not 8-15 digits.
	ErrCodeInvalidContact ErrorCode = "INVALID_CONTACT_FORMAT"

	// ErrCodeInvalidQuantity indicates a non-positive quantity was added.
	ErrCodeInvalidQuantity ErrorCode = "INVALID_QUANTITY"

	// ErrCodeUnknownProduct indicates the catalog has no product with the given ID.
	ErrCodeUnknownProduct ErrorCode = "UNKNOWN_PRODUCT"

	// ErrCodeMonotonicity indicates a ledger append would break invoice ordering.
	ErrCodeMonotonicity ErrorCode = "LEDGER_MONOTONICITY_VIOLATION"

	// ErrCodePersistence indicates durable storage could not be used.
	ErrCodePersistence ErrorCode = "PERSISTENCE_UNAVAILABLE"

	// ErrCodeInProgress indicates a finalize call overlapped another one.
	ErrCodeInProgress ErrorCode = "FINALIZE_IN_PROGRESS"
)

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the underlying cause.
func (e *Error) Unwrap() error {
	return e.Err
}

// UserInput reports whether the operator can fix the error by correcting input.
func (e *Error) UserInput() bool {
	switch e.Code {
	case ErrCodeEmptyOrder, ErrCodeInsufficientPayment, ErrCodeInvalidContact,
		ErrCodeInvalidQuantity, ErrCodeUnknownProduct:
		return true
	}
	return false
}

// CodeOf returns the code of the first *Error in err's chain, or "".
func CodeOf(err error) ErrorCode {
	var ie *Error
	if errors.As(err, &ie) {
		return ie.Code
	}
	return ""
}

// IsEmptyOrder returns true if err is an empty-order error.
func IsEmptyOrder(err error) bool { return CodeOf(err) == ErrCodeEmptyOrder }

// IsInsufficientPayment returns true if err is an insufficient-payment error.
func IsInsufficientPayment(err error) bool { return CodeOf(err) == ErrCodeInsufficientPayment }

// IsInvalidContact returns true if err is an invalid-contact error.
func IsInvalidContact(err error) bool { return CodeOf(err) == ErrCodeInvalidContact }

// IsMonotonicityViolation returns true if err is a ledger ordering violation.
func IsMonotonicityViolation(err error) bool { return CodeOf(err) == ErrCodeMonotonicity }

// IsPersistenceUnavailable returns true if err reports unusable storage.
func IsPersistenceUnavailable(err error) bool { return CodeOf(err) == ErrCodePersistence }

// IsUserInput returns true if err is an *Error the operator can correct.
func IsUserInput(err error) bool {
	var ie *Error
	return errors.As(err, &ie) && ie.UserInput()
}

// NewEmptyOrderError creates an Error for finalizing an empty order.
func NewEmptyOrderError() *Error {
	return &Error{
		Code:    ErrCodeEmptyOrder,
		Message: "la orden no tiene productos",
	}
}

// NewInsufficientPaymentError creates an Error for a payment below total.
func NewInsufficientPaymentError(payment, total decimal.Decimal) *Error {
	return &Error{
		Code:    ErrCodeInsufficientPayment,
		Message: fmt.Sprintf("el pago %s es menor que el total %s", FormatMoney(payment), FormatMoney(total)),
		Details: map[string]string{
			"payment": payment.StringFixed(2),
			"total":   total.StringFixed(2),
		},
	}
}

// NewInvalidPaymentError creates an Error for unparsable or negative payment input.
func NewInvalidPaymentError(input string) *Error {
	return &Error{
		Code:    ErrCodeInsufficientPayment,
		Message: fmt.Sprintf("el pago %q no es un monto válido", input),
		Details: map[string]string{"input": input},
	}
}

// NewInvalidContactError creates an Error for a malformed messaging destination.
func NewInvalidContactError(contact string) *Error {
	return &Error{
		Code:    ErrCodeInvalidContact,
		Message: "el contacto debe tener de 8 a 15 dígitos, sin espacios ni signos",
		Details: map[string]string{"contact": contact},
	}
}

// NewInvalidQuantityError creates an Error for a non-positive quantity.
func NewInvalidQuantityError(quantity int) *Error {
	return &Error{
		Code:    ErrCodeInvalidQuantity,
		Message: fmt.Sprintf("la cantidad debe ser un entero positivo, se recibió %d", quantity),
	}
}

// NewUnknownProductError creates an Error for a catalog miss.
func NewUnknownProductError(id string) *Error {
	return &Error{
		Code:    ErrCodeUnknownProduct,
		Message: fmt.Sprintf("no existe producto con id %q", id),
		Details: map[string]string{"id": id},
	}
}

// NewMonotonicityError creates an Error for an append that does not exceed
// the highest invoice number already in the ledger.
func NewMonotonicityError(got, highest int) *Error {
	return &Error{
		Code:    ErrCodeMonotonicity,
		Message: fmt.Sprintf("la factura %d no sigue a la factura más alta del día %d", got, highest),
		Details: map[string]string{
			"invoice_number": fmt.Sprintf("%d", got),
			"highest":        fmt.Sprintf("%d", highest),
		},
	}
}

// NewPersistenceError wraps a storage failure for the given slot.
func NewPersistenceError(slot string, err error) *Error {
	return &Error{
		Code:    ErrCodePersistence,
		Message: fmt.Sprintf("almacenamiento no disponible (%q)", slot),
		Details: map[string]string{"slot": slot},
		Err:     err,
	}
}

// NewInProgressError creates an Error for an overlapping finalize call.
func NewInProgressError() *Error {
	return &Error{
		Code:    ErrCodeInProgress,
		Message: "otra factura se está finalizando",
	}
}
