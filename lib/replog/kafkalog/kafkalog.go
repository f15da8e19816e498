package kafkalog

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/ValentinKolb/rKV/lib/replog"
	"github.com/VictoriaMetrics/metrics"
	"github.com/segmentio/kafka-go"
)

const (
	headerOp       = "op"
	headerProducer = "producer"
)

var asyncFailures = metrics.GetOrCreateCounter(`rkv_log_async_failures_total{backend="kafka"}`)

// --------------------------------------------------------------------------
// Configuration
// --------------------------------------------------------------------------

// Config configures the Kafka adapter.
type Config struct {
	Brokers      []string      // bootstrap brokers, e.g. localhost:9092
	Topic        string        // topic shared by all instances
	Acks         string        // none, one or all
	BatchTimeout time.Duration // max time a record waits in the producer batch
	DialTimeout  time.Duration // timeout of the startup connectivity check
}

// DefaultConfig returns the settings the service was originally deployed with.
func DefaultConfig() Config {
	return Config{
		Brokers:      []string{"localhost:9092"},
		Topic:        "distributed_kv_store",
		Acks:         "none",
		BatchTimeout: 10 * time.Millisecond,
		DialTimeout:  5 * time.Second,
	}
}

func (c Config) requiredAcks() (kafka.RequiredAcks, error) {
	switch strings.ToLower(c.Acks) {
	case "", "none":
		return kafka.RequireNone, nil
	case "one":
		return kafka.RequireOne, nil
	case "all":
		return kafka.RequireAll, nil
	default:
		return 0, fmt.Errorf("invalid acks %q (none, one, all)", c.Acks)
	}
}

// --------------------------------------------------------------------------
// Producer
// --------------------------------------------------------------------------

type kafkaLogImpl struct {
	config Config
	writer *kafka.Writer
}

// NewKafkaLog validates the configuration, checks that at least one broker is
// reachable and creates an asynchronous producer. Failures here are configuration
// failures and should abort startup.
func NewKafkaLog(ctx context.Context, config Config) (replog.ILog, error) {
	if len(config.Brokers) == 0 {
		return nil, errors.New("kafka: no brokers configured")
	}
	if config.Topic == "" {
		return nil, errors.New("kafka: topic must not be empty")
	}
	acks, err := config.requiredAcks()
	if err != nil {
		return nil, fmt.Errorf("kafka: %w", err)
	}
	if err := ping(ctx, config); err != nil {
		return nil, err
	}

	writer := &kafka.Writer{
		Addr:                   kafka.TCP(config.Brokers...),
		Topic:                  config.Topic,
		Balancer:               &kafka.Hash{}, // same key, same partition, so per-key order holds
		RequiredAcks:           acks,
		Async:                  true,
		BatchTimeout:           config.BatchTimeout,
		AllowAutoTopicCreation: true,
		ErrorLogger:            kafka.LoggerFunc(replog.Logger.Errorf),
		Completion: func(messages []kafka.Message, err error) {
			if err != nil {
				asyncFailures.Add(len(messages))
				replog.Logger.Warningf("kafka: failed to deliver %d record(s): %v", len(messages), err)
			}
		},
	}

	replog.Logger.Infof("kafka: producing to topic %q on %v", config.Topic, config.Brokers)
	return &kafkaLogImpl{config: config, writer: writer}, nil
}

// ping dials the brokers until one answers.
func ping(ctx context.Context, config Config) error {
	ctx, cancel := context.WithTimeout(ctx, config.DialTimeout)
	defer cancel()

	var lastErr error
	for _, broker := range config.Brokers {
		conn, err := kafka.DialContext(ctx, "tcp", broker)
		if err != nil {
			lastErr = err
			continue
		}
		_ = conn.Close()
		return nil
	}
	return fmt.Errorf("kafka: no broker reachable: %w", lastErr)
}

// Append enqueues rec. With the async writer a nil error only means the record
// entered the producer batch; delivery failures are reported by the completion hook.
func (k *kafkaLogImpl) Append(ctx context.Context, rec replog.Record) error {
	msg, err := toMessage(rec)
	if err != nil {
		return err
	}
	return k.writer.WriteMessages(ctx, msg)
}

// Subscribe creates a group reader. New groups start at the first offset.
func (k *kafkaLogImpl) Subscribe(group string) (replog.ISubscription, error) {
	if group == "" {
		return nil, errors.New("kafka: consumer group must not be empty")
	}
	reader := kafka.NewReader(kafka.ReaderConfig{
		Brokers:        k.config.Brokers,
		GroupID:        group,
		Topic:          k.config.Topic,
		StartOffset:    kafka.FirstOffset,
		MaxWait:        500 * time.Millisecond,
		CommitInterval: time.Second,
		ErrorLogger:    kafka.LoggerFunc(replog.Logger.Errorf),
	})
	replog.Logger.Infof("kafka: consuming topic %q as group %q", k.config.Topic, group)
	return &subscriptionImpl{reader: reader}, nil
}

// Close flushes pending records.
func (k *kafkaLogImpl) Close() error {
	return k.writer.Close()
}

// --------------------------------------------------------------------------
// Consumer
// --------------------------------------------------------------------------

type subscriptionImpl struct {
	reader *kafka.Reader
}

// Poll reads the next message. Offsets are committed by the reader in the background.
func (s *subscriptionImpl) Poll(ctx context.Context, timeout time.Duration) (replog.Record, bool, error) {
	pollCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	msg, err := s.reader.ReadMessage(pollCtx)
	if err != nil {
		if ctx.Err() != nil {
			return replog.Record{}, false, ctx.Err()
		}
		if errors.Is(err, context.DeadlineExceeded) {
			return replog.Record{}, false, nil
		}
		return replog.Record{}, false, err
	}

	rec, err := fromMessage(msg)
	if err != nil {
		return replog.Record{}, false, fmt.Errorf("kafka: partition %d offset %d: %w", msg.Partition, msg.Offset, err)
	}
	return rec, true, nil
}

func (s *subscriptionImpl) Close() error {
	return s.reader.Close()
}

// --------------------------------------------------------------------------
// Message mapping
// --------------------------------------------------------------------------

// toMessage maps a record onto a Kafka message: key and value as is, op tag and
// producer id as headers.
func toMessage(rec replog.Record) (kafka.Message, error) {
	if !rec.Op.Valid() {
		return kafka.Message{}, fmt.Errorf("kafka: invalid op %s", rec.Op)
	}
	value := rec.Value
	if value == nil {
		value = []byte{}
	}
	msg := kafka.Message{
		Key:   []byte(rec.Key),
		Value: value,
		Headers: []kafka.Header{
			{Key: headerOp, Value: []byte(rec.Op.String())},
		},
	}
	if rec.Producer != "" {
		msg.Headers = append(msg.Headers, kafka.Header{Key: headerProducer, Value: []byte(rec.Producer)})
	}
	return msg, nil
}

// fromMessage is the inverse of toMessage. Messages without an op header are
// treated as PUT so that plain external producers can feed the log.
func fromMessage(msg kafka.Message) (replog.Record, error) {
	rec := replog.Record{
		Op:    replog.OpPut,
		Key:   string(msg.Key),
		Value: msg.Value,
	}
	for _, h := range msg.Headers {
		switch h.Key {
		case headerOp:
			op, err := replog.ParseOp(string(h.Value))
			if err != nil {
				return replog.Record{}, fmt.Errorf("%w: %w", replog.ErrMalformedRecord, err)
			}
			rec.Op = op
		case headerProducer:
			rec.Producer = string(h.Value)
		}
	}
	if rec.Key == "" {
		return replog.Record{}, fmt.Errorf("%w: record without key", replog.ErrMalformedRecord)
	}
	if rec.Value == nil {
		rec.Value = []byte{}
	}
	return rec, nil
}
