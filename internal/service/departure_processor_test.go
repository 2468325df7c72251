package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/vogiaan1904/seatqueue/pkg/logger"
)

func newTestProcessor(src DepartureSource, svc WaitlistService) DepartureProcessor {
	return NewDepartureProcessor(src, svc, logger.InitializeTestZapLogger(), testConfig())
}

func TestProcessDue(t *testing.T) {
	src := &fakeDepartureSource{due: []int64{1, 2, 3, 4, 5, 6, 7}}
	rec := &departRecorder{failFor: map[int64]bool{3: true}}
	dp := newTestProcessor(src, rec)

	n, err := dp.ProcessDue(context.Background())
	if err != nil {
		t.Fatalf("ProcessDue() error = %v", err)
	}
	if n != 4 {
		t.Errorf("departed = %d, want 4 (batch of 5, one failure)", n)
	}
	if got := dp.GetStatus().PendingDepartures; got != 2 {
		t.Errorf("PendingDepartures = %d, want 2", got)
	}

	n, err = dp.ProcessDue(context.Background())
	if err != nil {
		t.Fatalf("ProcessDue() error = %v", err)
	}
	if n != 2 {
		t.Errorf("departed = %d, want 2", n)
	}

	st := dp.GetStatus()
	if st.TotalDeparted != 6 {
		t.Errorf("TotalDeparted = %d, want 6", st.TotalDeparted)
	}
	if st.ErrorCount != 1 {
		t.Errorf("ErrorCount = %d, want 1", st.ErrorCount)
	}
	if st.LastProcessed.IsZero() {
		t.Error("LastProcessed not set")
	}
	if st.PendingDepartures != 0 {
		t.Errorf("PendingDepartures = %d, want 0", st.PendingDepartures)
	}
}

func TestProcessDuePendingCountFails(t *testing.T) {
	src := &fakeDepartureSource{due: []int64{1, 2, 3, 4, 5, 6, 7}}
	rec := &departRecorder{}
	dp := newTestProcessor(src, rec)
	ctx := context.Background()

	if _, err := dp.ProcessDue(ctx); err != nil {
		t.Fatalf("ProcessDue() error = %v", err)
	}

	src.mu.Lock()
	src.pendingErr = errStore
	src.mu.Unlock()

	n, err := dp.ProcessDue(ctx)
	if err != nil {
		t.Fatalf("ProcessDue() error = %v", err)
	}
	if n != 2 {
		t.Errorf("departed = %d, want 2", n)
	}
	if got := dp.GetStatus().PendingDepartures; got != 2 {
		t.Errorf("PendingDepartures = %d, want last known 2", got)
	}
}

func TestProcessDueSourceError(t *testing.T) {
	src := &fakeDepartureSource{popErr: errStore}
	dp := newTestProcessor(src, &departRecorder{})

	_, err := dp.ProcessDue(context.Background())
	if !errors.Is(err, errStore) {
		t.Fatalf("ProcessDue() error = %v, want store error", err)
	}
	if dp.GetStatus().ErrorCount != 1 {
		t.Errorf("ErrorCount = %d, want 1", dp.GetStatus().ErrorCount)
	}
}

func TestDepartureProcessorStartStop(t *testing.T) {
	src := &fakeDepartureSource{due: []int64{1, 2}}
	rec := &departRecorder{}
	dp := newTestProcessor(src, rec)
	ctx := context.Background()

	if err := dp.Stop(); !errors.Is(err, ErrProcessorNotRunning) {
		t.Errorf("Stop() before Start error = %v, want ErrProcessorNotRunning", err)
	}

	if err := dp.Start(ctx); err != nil {
		t.Fatalf("Start() error = %v", err)
	}
	if err := dp.Start(ctx); !errors.Is(err, ErrProcessorRunning) {
		t.Errorf("second Start() error = %v, want ErrProcessorRunning", err)
	}
	if !dp.GetStatus().IsRunning {
		t.Error("IsRunning = false after Start")
	}

	deadline := time.Now().Add(2 * time.Second)
	for rec.count() < 2 && time.Now().Before(deadline) {
		time.Sleep(10 * time.Millisecond)
	}
	if rec.count() != 2 {
		t.Errorf("departed = %d, want 2", rec.count())
	}

	if err := dp.Stop(); err != nil {
		t.Fatalf("Stop() error = %v", err)
	}
	if dp.GetStatus().IsRunning {
		t.Error("IsRunning = true after Stop")
	}
}
