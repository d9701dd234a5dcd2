package service

import "errors"

// Sentinel errors shared across services. Handlers map these onto HTTP
// status codes; services wrap them with context via fmt.Errorf("%w").
var (
	// ErrNotFound is returned when a referenced company, item, or invoice
	// does not exist.
	ErrNotFound = errors.New("not found")

	// ErrEmptySelection is returned when invoice assembly finds no
	// billable items for the requested company and date range.
	ErrEmptySelection = errors.New("no billable items in selection")

	// ErrRateMismatch is returned when items sharing a grouping key carry
	// different effective hourly rates.
	ErrRateMismatch = errors.New("inconsistent hourly rate within line item group")

	// ErrItemInvoiced is returned on attempts to modify or delete a
	// billable item that is already attached to an invoice.
	ErrItemInvoiced = errors.New("billable item is already invoiced")

	// ErrInvalidStatus is returned on invoice status transitions that are
	// not allowed from the current status.
	ErrInvalidStatus = errors.New("invalid invoice status transition")
)
