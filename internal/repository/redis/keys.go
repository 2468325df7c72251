package repository

import "errors"

const (
	customersKey      = "waitlist:customers"
	customerIDKey     = "waitlist:customer_id_counter"
	availableSeatsKey = "waitlist:available_seats"
	departuresKey     = "waitlist:departures"
)

var (
	// ErrCustomerNotFound covers both a missing record and one that cannot be decoded.
	ErrCustomerNotFound = errors.New("customer not found")
	ErrLedgerMissing    = errors.New("available seats not set")
)
