package consumer

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/IBM/sarama"
	"github.com/vogiaan1904/seatqueue/internal/delivery/kafka"
	"github.com/vogiaan1904/seatqueue/internal/service"
)

var errMissingCustomerID = errors.New("event has no customer id")

// HandleTableCleared departs a seated party early when the host clears its
// table. Reports for unseated parties are dropped.
func (c *Consumer) HandleTableCleared(ctx context.Context, message *sarama.ConsumerMessage) error {
	var e kafka.TableClearedEvent
	if err := json.Unmarshal(message.Value, &e); err != nil {
		c.l.Errorf(ctx, "delivery.kafka.consumer.HandleTableCleared: %v", err)
		return err
	}
	if e.CustomerID <= 0 {
		return errMissingCustomerID
	}

	c.l.Info(ctx, "Table cleared by host", "customer_id", e.CustomerID)

	if err := c.wlSvc.ClearTable(ctx, e.CustomerID); err != nil {
		if errors.Is(err, service.ErrNotSeated) {
			c.l.Warn(ctx, "Ignoring table cleared for unseated customer", "customer_id", e.CustomerID)
			return nil
		}
		c.l.Errorf(ctx, "delivery.kafka.consumer.HandleTableCleared: %v", err)
		return err
	}

	return nil
}

// HandleNoShow drops a party that never arrived. Seats are untouched.
func (c *Consumer) HandleNoShow(ctx context.Context, message *sarama.ConsumerMessage) error {
	var e kafka.NoShowEvent
	if err := json.Unmarshal(message.Value, &e); err != nil {
		c.l.Errorf(ctx, "delivery.kafka.consumer.HandleNoShow: %v", err)
		return err
	}
	if e.CustomerID <= 0 {
		return errMissingCustomerID
	}

	c.l.Info(ctx, "No-show reported by host", "customer_id", e.CustomerID)

	if err := c.wlSvc.Delete(ctx, e.CustomerID); err != nil {
		c.l.Errorf(ctx, "delivery.kafka.consumer.HandleNoShow: %v", err)
		return err
	}

	return nil
}
