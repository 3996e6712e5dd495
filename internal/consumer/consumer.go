package consumer

import (
	"context"
	"errors"
	"io"

	"github.com/segmentio/kafka-go"

	"github.com/eyuppastirmaci/agenda-pulse/internal/logger"
)

// Handler processes the payload of one broker message. A returned error is
// logged and the message is dropped; consumption always continues.
type Handler func(ctx context.Context, payload []byte) error

// Consumer reads one topic as part of a consumer group and feeds every
// message through its handler. Offsets are committed after each read, so a
// poison message is consumed once and skipped, never retried forever.
type Consumer struct {
	reader *kafka.Reader
	topic  string
	handle Handler
}

func New(brokers []string, topic, groupID string, handle Handler) *Consumer {
	return &Consumer{
		reader: kafka.NewReader(kafka.ReaderConfig{
			Brokers:  brokers,
			Topic:    topic,
			GroupID:  groupID,
			MinBytes: 1,
			MaxBytes: 10e6,
		}),
		topic:  topic,
		handle: handle,
	}
}

// Run blocks consuming messages until ctx is cancelled or the reader is
// closed.
func (c *Consumer) Run(ctx context.Context) {
	logger.Info("consumer started", "topic", c.topic)

	for {
		msg, err := c.reader.ReadMessage(ctx)
		if err != nil {
			if ctx.Err() != nil || errors.Is(err, io.EOF) || errors.Is(err, io.ErrClosedPipe) {
				logger.Info("consumer stopped", "topic", c.topic)
				return
			}
			logger.Error("failed to read message", "topic", c.topic, "error", err)
			continue
		}

		if err := c.handle(ctx, msg.Value); err != nil {
			logger.ConsumerLog(c.topic, string(msg.Key), err)
		}
	}
}

func (c *Consumer) Close() error {
	return c.reader.Close()
}
