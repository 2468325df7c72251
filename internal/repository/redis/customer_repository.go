package repository

import (
	"context"
	"encoding/json"
	"errors"
	"strconv"

	"github.com/redis/go-redis/v9"
	"github.com/vogiaan1904/seatqueue/internal/models"
	"github.com/vogiaan1904/seatqueue/pkg/logger"
)

type redisCustomerRepository struct {
	cli *redis.Client
	l   logger.Logger
}

func NewRedisCustomerRepository(cli *redis.Client, l logger.Logger) CustomerRepository {
	return &redisCustomerRepository{
		cli: cli,
		l:   l,
	}
}

func (r *redisCustomerRepository) NextID(ctx context.Context) (int64, error) {
	id, err := r.cli.Incr(ctx, customerIDKey).Result()
	if err != nil {
		r.l.Errorf(ctx, "redisCustomerRepository.NextID: %v", err)
		return 0, err
	}

	return id, nil
}

func (r *redisCustomerRepository) Put(ctx context.Context, c *models.Customer) error {
	data, err := json.Marshal(c)
	if err != nil {
		r.l.Errorf(ctx, "redisCustomerRepository.Put.Marshal: %v", err)
		return err
	}

	if err := r.cli.HSet(ctx, customersKey, r.field(c.ID), data).Err(); err != nil {
		r.l.Errorf(ctx, "redisCustomerRepository.Put: %v", err)
		return err
	}

	r.l.Debug(ctx, "Customer saved",
		"customer_id", c.ID,
		"status", c.Status,
	)

	return nil
}

func (r *redisCustomerRepository) Get(ctx context.Context, id int64) (*models.Customer, error) {
	data, err := r.cli.HGet(ctx, customersKey, r.field(id)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrCustomerNotFound
		}

		r.l.Errorf(ctx, "redisCustomerRepository.Get: %v", err)
		return nil, err
	}

	var c models.Customer
	if err := json.Unmarshal(data, &c); err != nil {
		r.l.Error(ctx, "Failed to decode customer",
			"customer_id", id,
			"error", err,
		)
		return nil, ErrCustomerNotFound
	}

	return &c, nil
}

func (r *redisCustomerRepository) Delete(ctx context.Context, id int64) (bool, error) {
	removed, err := r.cli.HDel(ctx, customersKey, r.field(id)).Result()
	if err != nil {
		r.l.Errorf(ctx, "redisCustomerRepository.Delete: %v", err)
		return false, err
	}

	if removed > 0 {
		r.l.Debug(ctx, "Customer deleted", "customer_id", id)
	}

	return removed > 0, nil
}

func (r *redisCustomerRepository) List(ctx context.Context) []*models.Customer {
	raw, err := r.cli.HGetAll(ctx, customersKey).Result()
	if err != nil {
		r.l.Errorf(ctx, "redisCustomerRepository.List: %v", err)
		return []*models.Customer{}
	}

	cs := make([]*models.Customer, 0, len(raw))
	for field, data := range raw {
		var c models.Customer
		if err := json.Unmarshal([]byte(data), &c); err != nil {
			r.l.Error(ctx, "Skipping undecodable customer",
				"field", field,
				"error", err,
			)
			continue
		}
		cs = append(cs, &c)
	}

	return cs
}

func (r *redisCustomerRepository) field(id int64) string {
	return strconv.FormatInt(id, 10)
}
