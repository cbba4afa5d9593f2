package domain

import "errors"

// Conversation-level errors. All of them are recoverable: handlers map
// them to a localized message and re-prompt the same step.
var (
	// ErrUnknownItem signals an item id that the catalog cannot resolve.
	ErrUnknownItem = errors.New("unknown item")
	// ErrUnknownCategory signals a category id that the catalog cannot resolve.
	ErrUnknownCategory = errors.New("unknown category")
	// ErrEmptyCart rejects a checkout started with nothing in the cart.
	ErrEmptyCart = errors.New("cart is empty")
	// ErrInvalidChoice rejects a delivery mode outside delivery/pickup.
	ErrInvalidChoice = errors.New("invalid choice")
	// ErrEmptyInput rejects blank free-text input for a required field.
	ErrEmptyInput = errors.New("empty input")
	// ErrInvalidStage rejects an input that does not match the current
	// checkout stage. The draft stays untouched.
	ErrInvalidStage = errors.New("invalid checkout stage")
	// ErrNotFound signals a missing order id.
	ErrNotFound = errors.New("order not found")
	// ErrInvalidStatus rejects a status outside the recognized set.
	ErrInvalidStatus = errors.New("invalid status")
	// ErrPersistence wraps an order-write failure. It is surfaced to the
	// user as "order not placed" and never retried silently.
	ErrPersistence = errors.New("order persistence failed")
)
