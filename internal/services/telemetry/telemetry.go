package telemetry

import (
	"context"
	"encoding/json"
	"time"

	"github.com/segmentio/kafka-go"
	"github.com/sirupsen/logrus"

	"github.com/iwtcode/printerPanel/internal/config"
	"github.com/iwtcode/printerPanel/models"
)

// Publisher публикует применённые снапшоты состояния в Kafka.
// Публикация fire-and-forget: ошибка логируется и не распространяется.
type Publisher struct {
	writer  *kafka.Writer
	panelID string
	logger  *logrus.Entry
}

// NewPublisher создает продюсера телеметрии. При выключенной телеметрии
// возвращает nil: методы nil-продюсера безопасные no-op.
func NewPublisher(cfg *config.AppConfig, logger *logrus.Logger) *Publisher {
	if !cfg.Kafka.Enable {
		return nil
	}

	writer := &kafka.Writer{
		Addr:     kafka.TCP(cfg.Kafka.Broker),
		Topic:    cfg.Kafka.Topic,
		Balancer: &kafka.LeastBytes{},
	}

	return &Publisher{
		writer:  writer,
		panelID: cfg.PanelID,
		logger:  logger.WithField("component", "telemetry"),
	}
}

// PublishSnapshot отправляет снапшот флагов состояния в Kafka.
func (p *Publisher) PublishSnapshot(ctx context.Context, flags models.StatusFlags) {
	if p == nil {
		return
	}

	snapshot := models.TelemetrySnapshot{
		PanelID:   p.panelID,
		Timestamp: time.Now().UTC(),
		Flags:     flags,
	}

	value, err := json.Marshal(snapshot)
	if err != nil {
		p.logger.WithError(err).Error("failed to serialize snapshot")
		return
	}

	err = p.writer.WriteMessages(ctx, kafka.Message{
		Key:   []byte(p.panelID),
		Value: value,
	})
	if err != nil {
		p.logger.WithError(err).Error("failed to publish snapshot")
	}
}

// Close закрывает соединение с Kafka.
func (p *Publisher) Close() error {
	if p == nil {
		return nil
	}
	return p.writer.Close()
}
