package service

import "errors"

var (
	ErrPartyTooLarge     = errors.New("party size exceeds total seats")
	ErrCustomerNotFound  = errors.New("customer not found")
	ErrNotReady          = errors.New("customer not ready or already seated")
	ErrNotSeated         = errors.New("customer is not seated")
	ErrLedgerUnavailable = errors.New("available seats unavailable")

	ErrProcessorRunning    = errors.New("departure processor is already running")
	ErrProcessorNotRunning = errors.New("departure processor is not running")
)
