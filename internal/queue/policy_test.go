package queue

import (
	"testing"

	"github.com/vogiaan1904/seatqueue/internal/models"
)

func customer(id int64, size int, status models.CustomerStatus) *models.Customer {
	return &models.Customer{ID: id, Name: "party", PartySize: size, Status: status}
}

func TestPosition(t *testing.T) {
	all := []*models.Customer{
		customer(5, 2, models.CustomerStatusWaiting),
		customer(1, 2, models.CustomerStatusSeated),
		customer(3, 2, models.CustomerStatusTableReady),
		customer(2, 2, models.CustomerStatusWaiting),
		customer(4, 2, models.CustomerStatusSeated),
	}

	tests := []struct {
		name    string
		subject *models.Customer
		want    int
	}{
		{name: "frontOfLine", subject: all[3], want: 0},
		{name: "seatedAheadIgnored", subject: all[2], want: 1},
		{name: "lastInLine", subject: all[0], want: 2},
		{name: "newcomerCountsEveryoneQueued", subject: customer(6, 2, models.CustomerStatusWaiting), want: 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Position(tt.subject, all); got != tt.want {
				t.Errorf("Position() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestIsEligibleForTable(t *testing.T) {
	tests := []struct {
		name     string
		c        *models.Customer
		position int
		seats    int
		want     bool
	}{
		{name: "fits", c: customer(1, 4, models.CustomerStatusWaiting), position: 0, seats: 4, want: true},
		{name: "tooBig", c: customer(1, 5, models.CustomerStatusWaiting), position: 0, seats: 4, want: false},
		{name: "notFront", c: customer(1, 1, models.CustomerStatusWaiting), position: 1, seats: 10, want: false},
		{name: "alreadyReady", c: customer(1, 1, models.CustomerStatusTableReady), position: 0, seats: 10, want: false},
		{name: "seated", c: customer(1, 1, models.CustomerStatusSeated), position: 0, seats: 10, want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsEligibleForTable(tt.c, tt.position, tt.seats); got != tt.want {
				t.Errorf("IsEligibleForTable() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestTryPromote(t *testing.T) {
	t.Run("promotesFrontWaiting", func(t *testing.T) {
		c := customer(1, 4, models.CustomerStatusWaiting)
		pos, promoted := TryPromote(c, nil, 10)
		if pos != 0 || !promoted {
			t.Fatalf("TryPromote() = (%d, %v), want (0, true)", pos, promoted)
		}
		if c.Status != models.CustomerStatusTableReady {
			t.Errorf("Status = %q, want tableReady", c.Status)
		}
	})

	t.Run("idempotent", func(t *testing.T) {
		c := customer(1, 4, models.CustomerStatusTableReady)
		if _, promoted := TryPromote(c, []*models.Customer{c}, 10); promoted {
			t.Error("TryPromote() promoted an already ready party")
		}
		if c.Status != models.CustomerStatusTableReady {
			t.Errorf("Status = %q, want tableReady", c.Status)
		}
	})

	t.Run("behindSomeone", func(t *testing.T) {
		ahead := customer(1, 4, models.CustomerStatusTableReady)
		c := customer(2, 8, models.CustomerStatusWaiting)
		pos, promoted := TryPromote(c, []*models.Customer{ahead, c}, 10)
		if pos != 1 || promoted {
			t.Errorf("TryPromote() = (%d, %v), want (1, false)", pos, promoted)
		}
		if c.Status != models.CustomerStatusWaiting {
			t.Errorf("Status = %q, want waiting", c.Status)
		}
	})

	t.Run("insufficientSeats", func(t *testing.T) {
		c := customer(1, 6, models.CustomerStatusWaiting)
		if _, promoted := TryPromote(c, nil, 5); promoted {
			t.Error("TryPromote() promoted a party that does not fit")
		}
	})
}

// A party that is not waiting must have been at the front of the line when it advanced.
func TestPromotionRequiresFrontOfLine(t *testing.T) {
	all := []*models.Customer{
		customer(1, 2, models.CustomerStatusWaiting),
		customer(2, 2, models.CustomerStatusWaiting),
		customer(3, 2, models.CustomerStatusWaiting),
	}

	for _, c := range all {
		pos, promoted := TryPromote(c, all, 10)
		if promoted && pos != 0 {
			t.Errorf("customer %d promoted at position %d", c.ID, pos)
		}
	}

	if all[0].Status != models.CustomerStatusTableReady {
		t.Errorf("customer 1 status = %q, want tableReady", all[0].Status)
	}
	for _, c := range all[1:] {
		if c.Status != models.CustomerStatusWaiting {
			t.Errorf("customer %d status = %q, want waiting", c.ID, c.Status)
		}
	}
}

func TestFirstWaiting(t *testing.T) {
	if got := FirstWaiting(nil); got != nil {
		t.Errorf("FirstWaiting(nil) = %+v, want nil", got)
	}

	all := []*models.Customer{
		customer(4, 2, models.CustomerStatusSeated),
		customer(9, 2, models.CustomerStatusWaiting),
		customer(3, 2, models.CustomerStatusWaiting),
	}
	if got := FirstWaiting(all); got == nil || got.ID != 9 {
		t.Errorf("FirstWaiting() = %+v, want customer 9 (scan order)", got)
	}
}

func TestSeatedTotal(t *testing.T) {
	all := []*models.Customer{
		customer(1, 4, models.CustomerStatusSeated),
		customer(2, 3, models.CustomerStatusTableReady),
		customer(3, 2, models.CustomerStatusSeated),
	}
	if got := SeatedTotal(all); got != 6 {
		t.Errorf("SeatedTotal() = %d, want 6", got)
	}
}
