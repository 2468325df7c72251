package service

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"github.com/vogiaan1904/seatqueue/internal/delivery/kafka"
	"github.com/vogiaan1904/seatqueue/internal/models"
	repo "github.com/vogiaan1904/seatqueue/internal/repository/redis"
)

var errStore = errors.New("store down")

type fakeCustomerRepo struct {
	mu        sync.Mutex
	nextID    int64
	customers map[int64]models.Customer
	putErr    error
	deleteErr error
}

func newFakeCustomerRepo(cs ...models.Customer) *fakeCustomerRepo {
	r := &fakeCustomerRepo{customers: map[int64]models.Customer{}}
	for _, c := range cs {
		r.customers[c.ID] = c
		if c.ID > r.nextID {
			r.nextID = c.ID
		}
	}
	return r
}

func (r *fakeCustomerRepo) NextID(ctx context.Context) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.nextID++
	return r.nextID, nil
}

func (r *fakeCustomerRepo) Put(ctx context.Context, c *models.Customer) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.putErr != nil {
		return r.putErr
	}
	r.customers[c.ID] = *c
	return nil
}

func (r *fakeCustomerRepo) Get(ctx context.Context, id int64) (*models.Customer, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.customers[id]
	if !ok {
		return nil, repo.ErrCustomerNotFound
	}
	return &c, nil
}

func (r *fakeCustomerRepo) Delete(ctx context.Context, id int64) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.deleteErr != nil {
		return false, r.deleteErr
	}
	_, ok := r.customers[id]
	delete(r.customers, id)
	return ok, nil
}

func (r *fakeCustomerRepo) List(ctx context.Context) []*models.Customer {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]*models.Customer, 0, len(r.customers))
	for _, c := range r.customers {
		c := c
		out = append(out, &c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

func (r *fakeCustomerRepo) status(id int64) models.CustomerStatus {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.customers[id].Status
}

func (r *fakeCustomerRepo) has(id int64) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	_, ok := r.customers[id]
	return ok
}

type fakeLedger struct {
	mu     sync.Mutex
	seats  int
	set    bool
	getErr error
	// failGets makes the next n Get calls fail.
	failGets int
}

func newFakeLedger(seats int) *fakeLedger {
	return &fakeLedger{seats: seats, set: true}
}

func (l *fakeLedger) Get(ctx context.Context) (int, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.getErr != nil {
		return 0, l.getErr
	}
	if l.failGets > 0 {
		l.failGets--
		return 0, errStore
	}
	if !l.set {
		return 0, repo.ErrLedgerMissing
	}
	return l.seats, nil
}

func (l *fakeLedger) Set(ctx context.Context, n int) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.seats = n
	l.set = true
	return nil
}

func (l *fakeLedger) value() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.seats
}

type scheduledDeparture struct {
	customerID int64
	delay      time.Duration
}

type fakeScheduler struct {
	mu        sync.Mutex
	scheduled []scheduledDeparture
	err       error
}

func (s *fakeScheduler) Schedule(ctx context.Context, customerID int64, delay time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return s.err
	}
	s.scheduled = append(s.scheduled, scheduledDeparture{customerID: customerID, delay: delay})
	return nil
}

type fakeNotifier struct {
	mu       sync.Mutex
	notified []int64
}

func (n *fakeNotifier) Notify(ctx context.Context, customerID int64) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.notified = append(n.notified, customerID)
}

// lockCheckingNotifier records whether the service lock was free while notifying.
type lockCheckingNotifier struct {
	svc      *waitlistService
	lockFree bool
	called   bool
}

func (n *lockCheckingNotifier) Notify(ctx context.Context, customerID int64) {
	n.called = true
	if n.svc.mu.TryLock() {
		n.lockFree = true
		n.svc.mu.Unlock()
	}
}

type fakeProducer struct {
	mu         sync.Mutex
	joined     []kafka.CustomerJoinedEvent
	tableReady []kafka.TableReadyEvent
	seated     []kafka.CustomerSeatedEvent
	departed   []kafka.CustomerDepartedEvent
}

func (p *fakeProducer) PublishCustomerJoined(ctx context.Context, e kafka.CustomerJoinedEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.joined = append(p.joined, e)
	return nil
}

func (p *fakeProducer) PublishTableReady(ctx context.Context, e kafka.TableReadyEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.tableReady = append(p.tableReady, e)
	return nil
}

func (p *fakeProducer) PublishCustomerSeated(ctx context.Context, e kafka.CustomerSeatedEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.seated = append(p.seated, e)
	return nil
}

func (p *fakeProducer) PublishCustomerDeparted(ctx context.Context, e kafka.CustomerDepartedEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.departed = append(p.departed, e)
	return nil
}

func (p *fakeProducer) Close() error { return nil }

type fakeDepartureSource struct {
	mu         sync.Mutex
	due        []int64
	popErr     error
	pendingErr error
}

func (s *fakeDepartureSource) PopDue(ctx context.Context, now time.Time, limit int) ([]int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.popErr != nil {
		return nil, s.popErr
	}
	n := min(limit, len(s.due))
	out := s.due[:n]
	s.due = s.due[n:]
	return out, nil
}

func (s *fakeDepartureSource) Pending(ctx context.Context) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.pendingErr != nil {
		return 0, s.pendingErr
	}
	return int64(len(s.due)), nil
}

// departRecorder stands in for the waitlist on the processor side.
type departRecorder struct {
	WaitlistService
	mu       sync.Mutex
	departed []int64
	failFor  map[int64]bool
}

func (d *departRecorder) Depart(ctx context.Context, id int64) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.failFor[id] {
		return errStore
	}
	d.departed = append(d.departed, id)
	return nil
}

func (d *departRecorder) count() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.departed)
}
