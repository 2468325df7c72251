// Package queue holds the side-effect free rules that decide where a party
// stands in line and when it may be offered a table.
package queue

import "github.com/vogiaan1904/seatqueue/internal/models"

// Position counts queued parties that joined before subject. Zero is the front of the line.
func Position(subject *models.Customer, all []*models.Customer) int {
	pos := 0
	for _, c := range all {
		if c.IsQueued() && c.ID < subject.ID {
			pos++
		}
	}
	return pos
}

func IsEligibleForTable(c *models.Customer, position, availableSeats int) bool {
	return position == 0 && c.IsWaiting() && c.PartySize <= availableSeats
}

// TryPromote computes the party's position and moves it to tableReady when it is
// eligible. Calling it again on a promoted or seated party changes nothing.
func TryPromote(c *models.Customer, all []*models.Customer, availableSeats int) (int, bool) {
	pos := Position(c, all)
	if !IsEligibleForTable(c, pos, availableSeats) {
		return pos, false
	}

	c.MarkTableReady()
	return pos, true
}

// FirstWaiting scans all in the order given. The store does not promise id order,
// so neither does this.
func FirstWaiting(all []*models.Customer) *models.Customer {
	for _, c := range all {
		if c.IsWaiting() {
			return c
		}
	}
	return nil
}

// SeatedTotal sums the party sizes currently occupying seats.
func SeatedTotal(all []*models.Customer) int {
	total := 0
	for _, c := range all {
		if c.Status == models.CustomerStatusSeated {
			total += c.PartySize
		}
	}
	return total
}
