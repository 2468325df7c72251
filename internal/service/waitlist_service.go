package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/vogiaan1904/seatqueue/config"
	"github.com/vogiaan1904/seatqueue/internal/delivery/kafka"
	"github.com/vogiaan1904/seatqueue/internal/delivery/kafka/producer"
	"github.com/vogiaan1904/seatqueue/internal/models"
	"github.com/vogiaan1904/seatqueue/internal/notify"
	"github.com/vogiaan1904/seatqueue/internal/queue"
	repo "github.com/vogiaan1904/seatqueue/internal/repository/redis"
	pkgLog "github.com/vogiaan1904/seatqueue/pkg/logger"
)

const (
	triggerJoin      = "join"
	triggerStatus    = "status_check"
	triggerDeparture = "departure"
)

type WaitlistService interface {
	Join(ctx context.Context, in JoinInput) (*CustomerOutput, error)
	GetStatus(ctx context.Context, id int64) (*CustomerOutput, error)
	CheckIn(ctx context.Context, id int64) (*CheckInOutput, error)
	Depart(ctx context.Context, id int64) error
	ClearTable(ctx context.Context, id int64) error
	Delete(ctx context.Context, id int64) error
	Reconcile(ctx context.Context) (int, error)
}

// DepartureScheduler arranges for Depart to run after a delay.
type DepartureScheduler interface {
	Schedule(ctx context.Context, customerID int64, delay time.Duration) error
}

type waitlistService struct {
	custRepo repo.CustomerRepository
	ledger   repo.SeatLedger
	sched    DepartureScheduler
	notifier notify.Notifier
	prod     producer.Producer
	l        pkgLog.Logger
	cfg      config.WaitlistConfig

	// Serialises the read-modify-write sequences against the store.
	mu sync.Mutex
}

// NewWaitlistService wires the waitlist. prod may be nil when Kafka is disabled.
func NewWaitlistService(
	custRepo repo.CustomerRepository,
	ledger repo.SeatLedger,
	sched DepartureScheduler,
	notifier notify.Notifier,
	prod producer.Producer,
	l pkgLog.Logger,
	cfg config.WaitlistConfig,
) WaitlistService {
	return &waitlistService{
		custRepo: custRepo,
		ledger:   ledger,
		sched:    sched,
		notifier: notifier,
		prod:     prod,
		l:        l,
		cfg:      cfg,
	}
}

func (s *waitlistService) Join(ctx context.Context, in JoinInput) (*CustomerOutput, error) {
	if in.PartySize > s.cfg.TotalSeats {
		s.l.Warnf(ctx, "service.waitlistService.Join: %v", ErrPartyTooLarge)
		return nil, ErrPartyTooLarge
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	seats, err := s.availableSeats(ctx)
	if err != nil {
		return nil, err
	}

	id, err := s.custRepo.NextID(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to allocate customer id: %w", err)
	}

	c := &models.Customer{
		ID:        id,
		Name:      in.Name,
		PartySize: in.PartySize,
		Status:    models.CustomerStatusWaiting,
	}

	pos, promoted := queue.TryPromote(c, s.custRepo.List(ctx), seats)

	if err := s.custRepo.Put(ctx, c); err != nil {
		return nil, fmt.Errorf("failed to save customer: %w", err)
	}

	s.l.Info(ctx, "Customer joined waitlist",
		"customer_id", c.ID,
		"party_size", c.PartySize,
		"status", c.Status,
		"position", pos,
	)

	if s.prod != nil {
		if err := s.prod.PublishCustomerJoined(ctx, kafka.CustomerJoinedEvent{
			CustomerID: c.ID,
			Name:       c.Name,
			PartySize:  c.PartySize,
			Status:     string(c.Status),
			Position:   pos,
		}); err != nil {
			s.l.Warnf(ctx, "service.waitlistService.Join: failed to publish customer joined: %v", err)
		}
	}
	if promoted {
		s.publishTableReady(ctx, c, triggerJoin)
	}

	return newCustomerOutput(c, pos), nil
}

func (s *waitlistService) GetStatus(ctx context.Context, id int64) (*CustomerOutput, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	c, err := s.getCustomer(ctx, id)
	if err != nil {
		return nil, err
	}

	seats, err := s.availableSeats(ctx)
	if err != nil {
		return nil, err
	}

	pos, promoted := queue.TryPromote(c, s.custRepo.List(ctx), seats)
	if promoted {
		if err := s.custRepo.Put(ctx, c); err != nil {
			return nil, fmt.Errorf("failed to save customer: %w", err)
		}

		s.l.Info(ctx, "Customer promoted on status check",
			"customer_id", c.ID,
			"available_seats", seats,
		)
		s.publishTableReady(ctx, c, triggerStatus)
	}

	return newCustomerOutput(c, pos), nil
}

func (s *waitlistService) CheckIn(ctx context.Context, id int64) (*CheckInOutput, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	c, err := s.getCustomer(ctx, id)
	if err != nil {
		if errors.Is(err, ErrCustomerNotFound) {
			return nil, ErrNotReady
		}
		return nil, err
	}

	seats, err := s.availableSeats(ctx)
	if err != nil {
		return nil, err
	}

	if !c.CanCheckIn(seats) {
		s.l.Warn(ctx, "Customer cannot check in",
			"customer_id", c.ID,
			"status", c.Status,
			"party_size", c.PartySize,
			"available_seats", seats,
		)
		return nil, ErrNotReady
	}

	remaining := seats - c.PartySize
	if err := s.setAvailableSeats(ctx, remaining); err != nil {
		return nil, err
	}

	c.MarkSeated()
	if err := s.custRepo.Put(ctx, c); err != nil {
		s.rollbackCheckIn(ctx, c, seats, false)
		return nil, fmt.Errorf("failed to save customer: %w", err)
	}

	serveTime := time.Duration(c.PartySize) * s.cfg.ServeTimePerPerson
	if err := s.sched.Schedule(ctx, c.ID, serveTime); err != nil {
		s.rollbackCheckIn(ctx, c, seats, true)
		return nil, fmt.Errorf("failed to schedule departure: %w", err)
	}

	s.l.Info(ctx, "Customer checked in",
		"customer_id", c.ID,
		"party_size", c.PartySize,
		"available_seats", remaining,
		"serve_time", serveTime,
	)

	if s.prod != nil {
		if err := s.prod.PublishCustomerSeated(ctx, kafka.CustomerSeatedEvent{
			CustomerID:     c.ID,
			PartySize:      c.PartySize,
			AvailableSeats: remaining,
			DepartAt:       time.Now().Add(serveTime),
		}); err != nil {
			s.l.Warnf(ctx, "service.waitlistService.CheckIn: failed to publish customer seated: %v", err)
		}
	}

	return &CheckInOutput{
		Message: fmt.Sprintf("Customer %d checked in and seated", c.ID),
	}, nil
}

// rollbackCheckIn puts the seats back and, when the seated record was saved,
// returns the party to tableReady so the check-in can be retried.
func (s *waitlistService) rollbackCheckIn(ctx context.Context, c *models.Customer, seats int, saved bool) {
	if err := s.ledger.Set(ctx, seats); err != nil {
		s.l.Errorf(ctx, "service.waitlistService.rollbackCheckIn: %v", err)
	}

	if !saved {
		return
	}

	c.MarkTableReady()
	if err := s.custRepo.Put(ctx, c); err != nil {
		s.l.Errorf(ctx, "service.waitlistService.rollbackCheckIn: %v", err)
	}
}

// Depart frees the party's seats and offers them to the first waiting party.
func (s *waitlistService) Depart(ctx context.Context, id int64) error {
	next, err := s.depart(ctx, id, false)
	s.notify(ctx, next)
	return err
}

// ClearTable is Depart for a host-reported cleared table. Only seated parties
// hold seats, so any other party is rejected with ErrNotSeated.
func (s *waitlistService) ClearTable(ctx context.Context, id int64) error {
	next, err := s.depart(ctx, id, true)
	s.notify(ctx, next)
	return err
}

// notify runs outside s.mu; socket writes may block for the write deadline.
func (s *waitlistService) notify(ctx context.Context, customerID int64) {
	if customerID == 0 {
		return
	}
	s.notifier.Notify(ctx, customerID)
}

// depart returns the id of the promoted party, or zero.
func (s *waitlistService) depart(ctx context.Context, id int64, requireSeated bool) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	c, err := s.getCustomer(ctx, id)
	if err != nil {
		if errors.Is(err, ErrCustomerNotFound) {
			s.l.Info(ctx, "Departing customer already gone", "customer_id", id)
			return 0, nil
		}
		return 0, err
	}

	if requireSeated && c.Status != models.CustomerStatusSeated {
		s.l.Warn(ctx, "Refusing to clear table of unseated customer",
			"customer_id", c.ID,
			"status", c.Status,
		)
		return 0, ErrNotSeated
	}

	seats, err := s.availableSeats(ctx)
	if err != nil {
		return 0, err
	}

	if _, err := s.custRepo.Delete(ctx, c.ID); err != nil {
		return 0, fmt.Errorf("failed to delete customer: %w", err)
	}

	freed := seats + c.PartySize
	if err := s.setAvailableSeats(ctx, freed); err != nil {
		if perr := s.custRepo.Put(ctx, c); perr != nil {
			s.l.Errorf(ctx, "service.waitlistService.depart: restore customer: %v", perr)
		}
		return 0, err
	}

	s.l.Info(ctx, "Customer departed",
		"customer_id", c.ID,
		"party_size", c.PartySize,
		"available_seats", freed,
	)

	if s.prod != nil {
		if err := s.prod.PublishCustomerDeparted(ctx, kafka.CustomerDepartedEvent{
			CustomerID:     c.ID,
			PartySize:      c.PartySize,
			AvailableSeats: freed,
		}); err != nil {
			s.l.Warnf(ctx, "service.waitlistService.depart: failed to publish customer departed: %v", err)
		}
	}

	next := queue.FirstWaiting(s.custRepo.List(ctx))
	if next == nil {
		return 0, nil
	}

	seats, err = s.availableSeats(ctx)
	if err != nil {
		return 0, err
	}

	if next.PartySize > seats {
		s.l.Debug(ctx, "Next waiting party does not fit yet",
			"customer_id", next.ID,
			"party_size", next.PartySize,
			"available_seats", seats,
		)
		return 0, nil
	}

	next.MarkTableReady()
	if err := s.custRepo.Put(ctx, next); err != nil {
		return 0, fmt.Errorf("failed to save customer: %w", err)
	}

	s.publishTableReady(ctx, next, triggerDeparture)

	return next.ID, nil
}

// Delete removes a customer without touching the seat ledger.
func (s *waitlistService) Delete(ctx context.Context, id int64) error {
	removed, err := s.custRepo.Delete(ctx, id)
	if err != nil {
		return fmt.Errorf("failed to delete customer: %w", err)
	}

	s.l.Info(ctx, "Customer removed", "customer_id", id, "removed", removed)
	return nil
}

// Reconcile rebuilds the seat ledger from the seated parties in the store.
func (s *waitlistService) Reconcile(ctx context.Context) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	all := s.custRepo.List(ctx)
	seats := s.cfg.TotalSeats - queue.SeatedTotal(all)

	if err := s.setAvailableSeats(ctx, seats); err != nil {
		return 0, err
	}

	s.l.Info(ctx, "Available seats reconciled",
		"available_seats", seats,
		"customers", len(all),
	)

	return seats, nil
}

func (s *waitlistService) getCustomer(ctx context.Context, id int64) (*models.Customer, error) {
	c, err := s.custRepo.Get(ctx, id)
	if err != nil {
		if errors.Is(err, repo.ErrCustomerNotFound) {
			return nil, ErrCustomerNotFound
		}
		return nil, fmt.Errorf("failed to get customer: %w", err)
	}
	return c, nil
}

// availableSeats treats a missing or unreadable ledger as unavailable, never as zero.
func (s *waitlistService) availableSeats(ctx context.Context) (int, error) {
	seats, err := s.ledger.Get(ctx)
	if err != nil {
		s.l.Errorf(ctx, "service.waitlistService.availableSeats: %v", err)
		return 0, ErrLedgerUnavailable
	}
	return seats, nil
}

func (s *waitlistService) setAvailableSeats(ctx context.Context, n int) error {
	if n < 0 || n > s.cfg.TotalSeats {
		s.l.Warn(ctx, "Available seats out of bounds",
			"available_seats", n,
			"total_seats", s.cfg.TotalSeats,
		)
	}

	if err := s.ledger.Set(ctx, n); err != nil {
		return fmt.Errorf("failed to save available seats: %w", err)
	}
	return nil
}

func (s *waitlistService) publishTableReady(ctx context.Context, c *models.Customer, trigger string) {
	if s.prod == nil {
		return
	}

	if err := s.prod.PublishTableReady(ctx, kafka.TableReadyEvent{
		CustomerID: c.ID,
		PartySize:  c.PartySize,
		Trigger:    trigger,
	}); err != nil {
		s.l.Warnf(ctx, "service.waitlistService.publishTableReady: %v", err)
	}
}
