package tradefeed

import (
	"context"

	"github.com/segmentio/kafka-go"

	orderv1 "github.com/ruixianxue/trading-simulator/internal/domain/order/v1"
	"github.com/ruixianxue/trading-simulator/pkg/config"
	"github.com/ruixianxue/trading-simulator/pkg/errors"
	"github.com/ruixianxue/trading-simulator/pkg/logger"
)

// Publisher writes executed trades to a Kafka topic for downstream
// consumers. It sits outside the matching path: the engine commits first and
// publishes after.
type Publisher struct {
	kafkaWriter *kafka.Writer
	logger      logger.Interface
}

// NewPublisher creates a new Kafka trade publisher.
func NewPublisher(cfg config.TradeFeedConfig, logger logger.Interface) *Publisher {
	kafkaWriter := &kafka.Writer{
		Addr:     kafka.TCP(cfg.Brokers...),
		Topic:    cfg.Topic,
		Balancer: &kafka.LeastBytes{},
	}

	return &Publisher{
		kafkaWriter: kafkaWriter,
		logger:      logger,
	}
}

// PublishTrades publishes one message per trade, keyed by trade id.
func (p *Publisher) PublishTrades(ctx context.Context, trades []*orderv1.Trade) error {
	messages := make([]kafka.Message, 0, len(trades))
	for _, trade := range trades {
		messages = append(messages, kafka.Message{
			Key:   []byte(trade.ID),
			Value: FromTrade(trade).ToBytes(),
		})
	}

	if err := p.kafkaWriter.WriteMessages(ctx, messages...); err != nil {
		p.logger.Error(err, logger.Field{Key: "tradeCount", Value: len(trades)})
		return errors.NewTracer("failed to publish trade events").Wrap(err)
	}

	return nil
}

// Close flushes and closes the underlying writer.
func (p *Publisher) Close() error {
	return p.kafkaWriter.Close()
}
