package notify

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/vogiaan1904/seatqueue/pkg/logger"
)

type fakeSession struct {
	mu     sync.Mutex
	events []string
	err    error
}

func (f *fakeSession) Send(event string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.err != nil {
		return f.err
	}
	f.events = append(f.events, event)
	return nil
}

func (f *fakeSession) sent() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.events...)
}

func TestRegistry(t *testing.T) {
	r := NewRegistry()

	a := &fakeSession{}
	b := &fakeSession{}

	idA := r.Register(1, a)
	idB := r.Register(1, b)
	r.Register(2, &fakeSession{})

	if idA == idB {
		t.Fatal("Register() returned duplicate session ids")
	}

	if got := len(r.SessionsFor(1)); got != 2 {
		t.Errorf("SessionsFor(1) len = %d, want 2", got)
	}

	r.Unregister(1, idA)
	if got := len(r.SessionsFor(1)); got != 1 {
		t.Errorf("SessionsFor(1) after unregister len = %d, want 1", got)
	}

	r.Forget(1)
	if got := len(r.SessionsFor(1)); got != 0 {
		t.Errorf("SessionsFor(1) after forget len = %d, want 0", got)
	}
	if got := len(r.SessionsFor(2)); got != 1 {
		t.Errorf("SessionsFor(2) len = %d, want 1", got)
	}

	// Unregistering an unknown session is a no-op.
	r.Unregister(42, "missing")
}

func TestRegistryConcurrency(t *testing.T) {
	r := NewRegistry()

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			id := r.Register(int64(i%5), &fakeSession{})
			r.SessionsFor(int64(i % 5))
			r.Unregister(int64(i%5), id)
		}(i)
	}
	wg.Wait()

	for i := int64(0); i < 5; i++ {
		if got := len(r.SessionsFor(i)); got != 0 {
			t.Errorf("SessionsFor(%d) len = %d, want 0", i, got)
		}
	}
}

func TestNotifierDeliversToOneSession(t *testing.T) {
	r := NewRegistry()
	n := NewNotifier(r, logger.InitializeTestZapLogger())

	a := &fakeSession{}
	b := &fakeSession{}
	r.Register(7, a)
	r.Register(7, b)

	n.Notify(context.Background(), 7)

	total := len(a.sent()) + len(b.sent())
	if total != 1 {
		t.Errorf("events delivered = %d, want exactly 1", total)
	}
	for _, s := range []*fakeSession{a, b} {
		for _, e := range s.sent() {
			if e != EventTableReady {
				t.Errorf("event = %q, want %q", e, EventTableReady)
			}
		}
	}

	if got := len(r.SessionsFor(7)); got != 0 {
		t.Errorf("sessions remaining after notify = %d, want 0", got)
	}
}

func TestNotifierSkipsBrokenSessions(t *testing.T) {
	r := NewRegistry()
	n := NewNotifier(r, logger.InitializeTestZapLogger())

	broken := &fakeSession{err: errors.New("closed")}
	ok := &fakeSession{}
	r.Register(3, broken)
	r.Register(3, ok)

	n.Notify(context.Background(), 3)

	if got := ok.sent(); len(got) != 1 {
		t.Errorf("healthy session events = %v, want one tableReady", got)
	}
}

func TestNotifierWithoutSessions(t *testing.T) {
	r := NewRegistry()
	n := NewNotifier(r, logger.InitializeTestZapLogger())

	// Must not panic or block.
	n.Notify(context.Background(), 99)
}
