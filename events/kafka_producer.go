package events

import (
	"context"
	"encoding/json"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"

	"assetverse/metrics"
)

var jsonMarshal = json.Marshal

const queueSize = 1000

type KafkaWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// KafkaProducer queues events and writes them from a single goroutine.
// A full queue drops the event rather than blocking the request.
type KafkaProducer struct {
	writer    KafkaWriter
	events    chan Event
	logger    *zap.Logger
	closeChan chan struct{}
	done      chan struct{}
}

func NewKafkaProducer(brokers []string, topic string, logger *zap.Logger) *KafkaProducer {
	logger = logger.Named("kafka_producer")
	ensureTopic(brokers[0], topic, logger)

	return newKafkaProducer(&kafka.Writer{
		Addr:                   kafka.TCP(brokers...),
		Balancer:               &kafka.Hash{},
		Topic:                  topic,
		AllowAutoTopicCreation: true,
	}, logger)
}

func newKafkaProducer(w KafkaWriter, logger *zap.Logger) *KafkaProducer {
	p := &KafkaProducer{
		writer:    w,
		events:    make(chan Event, queueSize),
		logger:    logger,
		closeChan: make(chan struct{}),
		done:      make(chan struct{}),
	}
	go p.eventLoop()
	return p
}

// ensureTopic creates the topic, retrying while the broker starts up.
// Failure is logged only; the writer can still auto-create.
func ensureTopic(broker, topic string, logger *zap.Logger) {
	op := func() error {
		conn, err := kafka.Dial("tcp", broker)
		if err != nil {
			return err
		}
		defer conn.Close()
		return conn.CreateTopics(kafka.TopicConfig{
			Topic:             topic,
			NumPartitions:     3,
			ReplicationFactor: 1,
		})
	}

	b := backoff.WithMaxRetries(backoff.NewExponentialBackOff(backoff.WithMaxElapsedTime(10*time.Second)), 3)
	if err := backoff.Retry(op, b); err != nil {
		logger.Warn("failed to create topic (may already exist)", zap.String("topic", topic), zap.Error(err))
	}
}

func (p *KafkaProducer) Publish(_ context.Context, e Event) {
	select {
	case p.events <- e:
	default:
		metrics.EventsDropped.Inc()
		p.logger.Warn("Kafka producer queue full, dropping event",
			zap.String("event_type", string(e.Type)),
		)
	}
}

func (p *KafkaProducer) eventLoop() {
	defer close(p.done)
	for {
		select {
		case e := <-p.events:
			p.sendEvent(context.Background(), e)
		case <-p.closeChan:
			p.drain()
			return
		}
	}
}

// drain writes whatever was queued before Close.
func (p *KafkaProducer) drain() {
	for {
		select {
		case e := <-p.events:
			p.sendEvent(context.Background(), e)
		default:
			return
		}
	}
}

func (p *KafkaProducer) sendEvent(ctx context.Context, e Event) {
	value, err := jsonMarshal(e)
	if err != nil {
		p.logger.Error("Failed to serialize event", zap.Error(err), zap.String("event_type", string(e.Type)))
		return
	}

	msg := kafka.Message{
		Value:   value,
		Headers: []kafka.Header{{Key: "type", Value: []byte(e.Type)}},
	}
	if len(e.Audience) > 0 {
		msg.Key = []byte(e.Audience[0])
	}

	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		p.logger.Error("Failed to produce event",
			zap.Error(err),
			zap.String("event_type", string(e.Type)),
		)
	}
}

func (p *KafkaProducer) Close() {
	close(p.closeChan)
	<-p.done
	if err := p.writer.Close(); err != nil {
		p.logger.Error("Failed to close Kafka writer", zap.Error(err))
	}
}
