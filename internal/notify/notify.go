package notify

import (
	"context"
	"log/slog"
	"strings"

	"github.com/pranavdhawann/weather-dashboard/internal/model"
	"github.com/pranavdhawann/weather-dashboard/internal/observability"
	kafkago "github.com/segmentio/kafka-go"
)

// MessageWriter abstracts the kafka writer for testability.
type MessageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafkago.Message) error
	Close() error
}

// Publisher sends batched alert notifications to a Kafka topic. One
// collection run produces at most one message, regardless of how many alerts
// fired.
type Publisher struct {
	writer  MessageWriter
	subject string
	logger  *slog.Logger
	metrics *observability.Metrics
}

// NewPublisher creates a Publisher writing to the given brokers and topic.
func NewPublisher(brokers []string, topic, subject string, m *observability.Metrics, logger *slog.Logger) *Publisher {
	writer := &kafkago.Writer{
		Addr:     kafkago.TCP(brokers...),
		Topic:    topic,
		Balancer: &kafkago.LeastBytes{},
	}
	return &Publisher{
		writer:  writer,
		subject: subject,
		logger:  logger,
		metrics: m,
	}
}

// PublishAlerts sends one message whose key is the subject and whose value is
// a plain-text body listing every alert from the run. Publishing nothing for
// an empty alert set is not an error.
func (p *Publisher) PublishAlerts(ctx context.Context, alerts []model.Alert) error {
	if len(alerts) == 0 {
		return nil
	}

	lines := make([]string, 0, len(alerts))
	for _, a := range alerts {
		lines = append(lines, a.Message)
	}
	body := "WEATHER ALERTS\n\n" + strings.Join(lines, "\n")

	err := p.writer.WriteMessages(ctx, kafkago.Message{
		Key:   []byte(p.subject),
		Value: []byte(body),
	})
	if err != nil {
		p.metrics.NotifyFailuresTotal.Inc()
		return err
	}
	p.logger.Info("published alert notification", "alerts", len(alerts))
	return nil
}

// Close shuts down the underlying Kafka writer.
func (p *Publisher) Close() error {
	return p.writer.Close()
}
