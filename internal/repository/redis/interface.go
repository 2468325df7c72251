package repository

import (
	"context"
	"time"

	"github.com/vogiaan1904/seatqueue/internal/models"
)

type CustomerRepository interface {
	NextID(ctx context.Context) (int64, error)
	Put(ctx context.Context, c *models.Customer) error
	Get(ctx context.Context, id int64) (*models.Customer, error)
	Delete(ctx context.Context, id int64) (bool, error)
	// List never fails: storage errors are logged and yield an empty slice.
	List(ctx context.Context) []*models.Customer
}

// SeatLedger holds the number of unoccupied seats. There is no compare-and-swap.
type SeatLedger interface {
	Get(ctx context.Context) (int, error)
	Set(ctx context.Context, n int) error
}

// DepartureQueue persists pending departures in a sorted set scored by due time.
type DepartureQueue interface {
	Schedule(ctx context.Context, customerID int64, delay time.Duration) error
	PopDue(ctx context.Context, now time.Time, limit int) ([]int64, error)
	Pending(ctx context.Context) (int64, error)
}
