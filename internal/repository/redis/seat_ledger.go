package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"
	"github.com/vogiaan1904/seatqueue/pkg/logger"
)

type redisSeatLedger struct {
	cli *redis.Client
	l   logger.Logger
}

func NewRedisSeatLedger(cli *redis.Client, l logger.Logger) SeatLedger {
	return &redisSeatLedger{
		cli: cli,
		l:   l,
	}
}

func (r *redisSeatLedger) Get(ctx context.Context) (int, error) {
	n, err := r.cli.Get(ctx, availableSeatsKey).Int()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			r.l.Error(ctx, "Failed to get available seats", "error", ErrLedgerMissing)
			return 0, ErrLedgerMissing
		}

		r.l.Errorf(ctx, "redisSeatLedger.Get: %v", err)
		return 0, fmt.Errorf("failed to read available seats: %w", err)
	}

	return n, nil
}

func (r *redisSeatLedger) Set(ctx context.Context, n int) error {
	if err := r.cli.Set(ctx, availableSeatsKey, n, 0).Err(); err != nil {
		r.l.Errorf(ctx, "redisSeatLedger.Set: %v", err)
		return err
	}

	return nil
}
