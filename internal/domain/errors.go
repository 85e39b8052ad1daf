package domain

import (
	"errors"
	"fmt"
)

// Error message string constants - single source of truth for error messages
// Use these in assert.Contains() checks when testing error messages
const (
	// Character errors
	ErrMsgDuplicateName = "a character with that name already exists"
	ErrMsgNotOwner      = "only the character owner can do that"
	ErrMsgNotAllowed    = "you are not allowed to use that character"

	// Lookup errors
	ErrMsgNotFound = "not found"

	// Inventory errors
	ErrMsgDuplicateItem      = "the character already has an item with that name"
	ErrMsgInsufficientStock  = "insufficient stock"
	ErrMsgPurchaseFailed     = "purchase failed"
	ErrMsgConfirmationActive = "a confirmation is already pending"

	// Input errors
	ErrMsgInvalidInput = "invalid input"

	// Database/System errors
	ErrMsgTxClosed = "tx is closed"
)

// Common domain errors
// These errors should be used consistently across all layers of the application.
// Wrap these errors with fmt.Errorf("%w: %s", domain.ErrXxx, details) for additional context.
var (
	ErrDuplicateName = errors.New(ErrMsgDuplicateName)
	ErrNotOwner      = errors.New(ErrMsgNotOwner)
	ErrNotAllowed    = errors.New(ErrMsgNotAllowed)

	// ErrNotFound is the parent of every lookup failure.
	ErrNotFound          = errors.New(ErrMsgNotFound)
	ErrCharacterNotFound = fmt.Errorf("character %w", ErrNotFound)
	ErrItemNotFound      = fmt.Errorf("item %w", ErrNotFound)

	ErrDuplicateItem     = errors.New(ErrMsgDuplicateItem)
	ErrInsufficientStock = errors.New(ErrMsgInsufficientStock)

	// ErrPurchaseFailed marks a commit-time failure. It is usually joined with
	// the cause (stock changed or item removed) so both match errors.Is.
	ErrPurchaseFailed = errors.New(ErrMsgPurchaseFailed)

	ErrConfirmationPending = errors.New(ErrMsgConfirmationActive)
	ErrInvalidInput        = errors.New(ErrMsgInvalidInput)
)
