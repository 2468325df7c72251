package producer

import (
	"context"
	"encoding/json"
	"strconv"
	"time"

	"github.com/IBM/sarama"
	kafka "github.com/vogiaan1904/seatqueue/internal/delivery/kafka"
	"github.com/vogiaan1904/seatqueue/pkg/logger"
)

type Producer interface {
	PublishCustomerJoined(ctx context.Context, event kafka.CustomerJoinedEvent) error
	PublishTableReady(ctx context.Context, event kafka.TableReadyEvent) error
	PublishCustomerSeated(ctx context.Context, event kafka.CustomerSeatedEvent) error
	PublishCustomerDeparted(ctx context.Context, event kafka.CustomerDepartedEvent) error
	Close() error
}

type implProducer struct {
	l    logger.Logger
	prod sarama.SyncProducer
}

func NewProducer(prod sarama.SyncProducer, l logger.Logger) Producer {
	return &implProducer{
		l:    l,
		prod: prod,
	}
}

func (p *implProducer) PublishCustomerJoined(ctx context.Context, event kafka.CustomerJoinedEvent) error {
	event.Timestamp = time.Now()
	return p.publish(ctx, kafka.TopicCustomerJoined, event.CustomerID, event)
}

func (p *implProducer) PublishTableReady(ctx context.Context, event kafka.TableReadyEvent) error {
	event.Timestamp = time.Now()
	return p.publish(ctx, kafka.TopicTableReady, event.CustomerID, event)
}

func (p *implProducer) PublishCustomerSeated(ctx context.Context, event kafka.CustomerSeatedEvent) error {
	event.Timestamp = time.Now()
	return p.publish(ctx, kafka.TopicCustomerSeated, event.CustomerID, event)
}

func (p *implProducer) PublishCustomerDeparted(ctx context.Context, event kafka.CustomerDepartedEvent) error {
	event.Timestamp = time.Now()
	return p.publish(ctx, kafka.TopicCustomerDeparted, event.CustomerID, event)
}

// Keyed by customer id so one party's lifecycle stays ordered on a partition.
func (p *implProducer) publish(ctx context.Context, topic string, customerID int64, event any) error {
	val, err := json.Marshal(event)
	if err != nil {
		p.l.Errorf(ctx, "delivery.kafka.producer.publish: %v", err)
		return err
	}

	msg := &sarama.ProducerMessage{
		Topic: topic,
		Key:   sarama.StringEncoder(strconv.FormatInt(customerID, 10)),
		Value: sarama.ByteEncoder(val),
		Headers: []sarama.RecordHeader{
			{
				Key:   []byte("timestamp"),
				Value: []byte(time.Now().Format(time.RFC3339)),
			},
		},
	}

	partition, offset, err := p.prod.SendMessage(msg)
	if err != nil {
		p.l.Errorf(ctx, "delivery.kafka.producer.publish: %v", err)
		return err
	}

	p.l.Debug(ctx, "Event published",
		"topic", topic,
		"customer_id", customerID,
		"partition", partition,
		"offset", offset,
	)

	return nil
}

func (p *implProducer) Close() error {
	return p.prod.Close()
}
