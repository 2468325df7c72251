package repository

import (
	"context"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/vogiaan1904/seatqueue/pkg/logger"
)

// Removes due members in the same call so a departure is handed out at most once.
var popDueScript = redis.NewScript(`
	local key = KEYS[1]
	local now = ARGV[1]
	local limit = tonumber(ARGV[2])

	local members = redis.call('ZRANGEBYSCORE', key, '-inf', now, 'LIMIT', 0, limit)
	if #members > 0 then
		redis.call('ZREM', key, unpack(members))
	end

	return members
`)

type redisDepartureQueue struct {
	cli *redis.Client
	l   logger.Logger
}

func NewRedisDepartureQueue(cli *redis.Client, l logger.Logger) DepartureQueue {
	return &redisDepartureQueue{
		cli: cli,
		l:   l,
	}
}

func (r *redisDepartureQueue) Schedule(ctx context.Context, customerID int64, delay time.Duration) error {
	dueAt := time.Now().Add(delay)

	if err := r.cli.ZAdd(ctx, departuresKey, redis.Z{
		Score:  float64(dueAt.UnixMilli()),
		Member: strconv.FormatInt(customerID, 10),
	}).Err(); err != nil {
		r.l.Errorf(ctx, "redisDepartureQueue.Schedule: %v", err)
		return err
	}

	r.l.Debug(ctx, "Departure scheduled",
		"customer_id", customerID,
		"due_at", dueAt,
	)

	return nil
}

func (r *redisDepartureQueue) PopDue(ctx context.Context, now time.Time, limit int) ([]int64, error) {
	res, err := popDueScript.Run(ctx, r.cli, []string{departuresKey}, now.UnixMilli(), limit).StringSlice()
	if err != nil {
		if err == redis.Nil {
			return nil, nil
		}

		r.l.Errorf(ctx, "redisDepartureQueue.PopDue: %v", err)
		return nil, err
	}

	ids := make([]int64, 0, len(res))
	for _, m := range res {
		id, err := strconv.ParseInt(m, 10, 64)
		if err != nil {
			r.l.Warn(ctx, "Dropping malformed departure entry",
				"member", m,
				"error", err,
			)
			continue
		}
		ids = append(ids, id)
	}

	if len(ids) > 0 {
		r.l.Debug(ctx, "Popped due departures", "count", len(ids))
	}

	return ids, nil
}

func (r *redisDepartureQueue) Pending(ctx context.Context) (int64, error) {
	n, err := r.cli.ZCard(ctx, departuresKey).Result()
	if err != nil {
		r.l.Errorf(ctx, "redisDepartureQueue.Pending: %v", err)
		return 0, err
	}

	return n, nil
}
