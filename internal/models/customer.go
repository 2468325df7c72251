package models

type CustomerStatus string

const (
	CustomerStatusWaiting    CustomerStatus = "waiting"
	CustomerStatusTableReady CustomerStatus = "tableReady"
	CustomerStatusSeated     CustomerStatus = "seated"
)

// Customer is a party on the waitlist. Departed parties are deleted, never tombstoned.
type Customer struct {
	ID        int64          `json:"id"`
	Name      string         `json:"name"`
	PartySize int            `json:"partySize"`
	Status    CustomerStatus `json:"status"`
}

// IsQueued reports whether the party still holds a place in line.
func (c *Customer) IsQueued() bool {
	return c.Status == CustomerStatusWaiting || c.Status == CustomerStatusTableReady
}

func (c *Customer) IsWaiting() bool {
	return c.Status == CustomerStatusWaiting
}

func (c *Customer) CanCheckIn(availableSeats int) bool {
	return c.Status == CustomerStatusTableReady && c.PartySize <= availableSeats
}

func (c *Customer) MarkTableReady() {
	c.Status = CustomerStatusTableReady
}

func (c *Customer) MarkSeated() {
	c.Status = CustomerStatusSeated
}
