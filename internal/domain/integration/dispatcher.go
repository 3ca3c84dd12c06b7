package integration

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
)

var (
	ErrDispatchFailed       = errors.New("integration: invoice dispatch rejected by partner")
	ErrPartnerUnavailable   = errors.New("integration: partner endpoint unavailable")
	ErrPartnerNotConfigured = errors.New("integration: partner endpoint not configured")
)

// InvoiceDispatcher delivers invoices to the trading partner.
// Each call is exactly one delivery attempt.
type InvoiceDispatcher interface {
	Dispatch(ctx context.Context, invoices []Invoice810) (*DispatchResult, error)
}

// DispatchResult is the confirmation of an accepted delivery
type DispatchResult struct {
	StatusCode int
	// Payload is the exact request body that was sent
	Payload json.RawMessage
}

// DispatchError is returned when the partner answers with a non-success status
type DispatchError struct {
	StatusCode int
	Body       string
}

func (e *DispatchError) Error() string {
	return fmt.Sprintf("%v: HTTP %d", ErrDispatchFailed, e.StatusCode)
}

func (e *DispatchError) Unwrap() error {
	return ErrDispatchFailed
}
