package service

import (
	"time"

	"github.com/vogiaan1904/seatqueue/internal/models"
)

type JoinInput struct {
	Name      string `json:"name" validate:"required"`
	PartySize int    `json:"partySize" validate:"required,gt=0"`
}

type CustomerOutput struct {
	ID        int64                 `json:"id"`
	Name      string                `json:"name"`
	PartySize int                   `json:"partySize"`
	Status    models.CustomerStatus `json:"status"`
	Position  int                   `json:"position"`
}

type CheckInOutput struct {
	Message string `json:"message"`
}

type ProcessorStatus struct {
	IsRunning         bool      `json:"is_running"`
	StartedAt         time.Time `json:"started_at,omitempty"`
	LastProcessed     time.Time `json:"last_processed,omitempty"`
	TotalDeparted     int64     `json:"total_departed"`
	ErrorCount        int64     `json:"error_count"`
	PendingDepartures int64     `json:"pending_departures"`
}

func newCustomerOutput(c *models.Customer, position int) *CustomerOutput {
	return &CustomerOutput{
		ID:        c.ID,
		Name:      c.Name,
		PartySize: c.PartySize,
		Status:    c.Status,
		Position:  position,
	}
}
