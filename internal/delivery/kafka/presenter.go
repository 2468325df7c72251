package kafka

import "time"

// Events published BY Waitlist Service

type CustomerJoinedEvent struct {
	CustomerID int64     `json:"customer_id"`
	Name       string    `json:"name"`
	PartySize  int       `json:"party_size"`
	Status     string    `json:"status"`
	Position   int       `json:"position"`
	Timestamp  time.Time `json:"timestamp"`
}

type TableReadyEvent struct {
	CustomerID int64     `json:"customer_id"`
	PartySize  int       `json:"party_size"`
	Trigger    string    `json:"trigger"` // join, status_check, departure
	Timestamp  time.Time `json:"timestamp"`
}

type CustomerSeatedEvent struct {
	CustomerID     int64     `json:"customer_id"`
	PartySize      int       `json:"party_size"`
	AvailableSeats int       `json:"available_seats"`
	DepartAt       time.Time `json:"depart_at"`
	Timestamp      time.Time `json:"timestamp"`
}

type CustomerDepartedEvent struct {
	CustomerID     int64     `json:"customer_id"`
	PartySize      int       `json:"party_size"`
	AvailableSeats int       `json:"available_seats"`
	Timestamp      time.Time `json:"timestamp"`
}

// Events consumed BY Waitlist Service (from the host station)

type TableClearedEvent struct {
	CustomerID int64     `json:"customer_id"`
	Timestamp  time.Time `json:"timestamp"`
}

type NoShowEvent struct {
	CustomerID int64     `json:"customer_id"`
	Timestamp  time.Time `json:"timestamp"`
}
