package grpc

import (
	"context"
	"time"

	"github.com/vogiaan1904/seatqueue/pkg/logger"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
)

const (
	ServiceName = "waitlist"

	pingTimeout = 2 * time.Second
)

// Pinger reports whether the backing store is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

type PingerFunc func(ctx context.Context) error

func (f PingerFunc) Ping(ctx context.Context) error {
	return f(ctx)
}

// HealthService serves grpc.health.v1.Health for the whole server and for
// ServiceName, driven by periodic store pings.
type HealthService struct {
	srv      *health.Server
	pinger   Pinger
	interval time.Duration
	l        logger.Logger
}

func NewHealthService(pinger Pinger, interval time.Duration, l logger.Logger) *HealthService {
	srv := health.NewServer()
	srv.SetServingStatus("", healthpb.HealthCheckResponse_NOT_SERVING)
	srv.SetServingStatus(ServiceName, healthpb.HealthCheckResponse_NOT_SERVING)

	return &HealthService{
		srv:      srv,
		pinger:   pinger,
		interval: interval,
		l:        l,
	}
}

func (h *HealthService) Register(s *grpc.Server) {
	healthpb.RegisterHealthServer(s, h.srv)
}

// Refresh pings the store once and publishes the result.
func (h *HealthService) Refresh(ctx context.Context) healthpb.HealthCheckResponse_ServingStatus {
	pingCtx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()

	st := healthpb.HealthCheckResponse_SERVING
	if err := h.pinger.Ping(pingCtx); err != nil {
		h.l.Warnf(ctx, "delivery.grpc.HealthService.Refresh: %v", err)
		st = healthpb.HealthCheckResponse_NOT_SERVING
	}

	h.srv.SetServingStatus("", st)
	h.srv.SetServingStatus(ServiceName, st)
	return st
}

// Run refreshes until ctx is done, then marks everything NOT_SERVING.
func (h *HealthService) Run(ctx context.Context) error {
	ticker := time.NewTicker(h.interval)
	defer ticker.Stop()

	h.Refresh(ctx)
	for {
		select {
		case <-ctx.Done():
			h.srv.Shutdown()
			return nil
		case <-ticker.C:
			h.Refresh(ctx)
		}
	}
}
