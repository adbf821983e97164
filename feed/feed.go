package feed

import (
	"context"
	"time"

	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"

	"github.com/iwtcode/printerPanel/models"
)

// PanelSink принимает сообщения фида состояния.
type PanelSink interface {
	ApplyCurrentData(data *models.StateData)
	ApplyHistoryData(data *models.StateData)
	ApplyFeedback(update models.FeedbackUpdate)
}

// Client читает push-фид состояния принтера по websocket и маршрутизирует
// сообщения в панель. При обрыве соединения переподключается с фиксированной
// паузой до отмены контекста.
type Client struct {
	url     string
	sink    PanelSink
	logger  *logrus.Entry
	backoff time.Duration
}

// NewClient создает клиент фида состояния.
func NewClient(url string, sink PanelSink, logger *logrus.Logger) *Client {
	return &Client{
		url:     url,
		sink:    sink,
		logger:  logger.WithField("component", "feed"),
		backoff: 3 * time.Second,
	}
}

// Run подключается к фиду и читает сообщения до отмены контекста.
func (c *Client) Run(ctx context.Context) error {
	for {
		conn, _, err := websocket.DefaultDialer.DialContext(ctx, c.url, nil)
		if err != nil {
			c.logger.WithError(err).Error("feed connection failed")
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(c.backoff):
				continue
			}
		}

		c.logger.WithField("url", c.url).Info("feed connected")
		c.readLoop(ctx, conn)

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(c.backoff):
		}
	}
}

func (c *Client) readLoop(ctx context.Context, conn *websocket.Conn) {
	defer conn.Close()

	// Закрытие соединения по отмене контекста прерывает блокирующее чтение.
	done := make(chan struct{})
	defer close(done)
	go func() {
		select {
		case <-ctx.Done():
			conn.Close()
		case <-done:
		}
	}()

	for {
		var msg models.FeedMessage
		if err := conn.ReadJSON(&msg); err != nil {
			if ctx.Err() == nil {
				c.logger.WithError(err).Warn("feed read failed, reconnecting")
			}
			return
		}
		c.route(msg)
	}
}

func (c *Client) route(msg models.FeedMessage) {
	switch {
	case msg.Current != nil:
		c.sink.ApplyCurrentData(msg.Current)
	case msg.History != nil:
		c.sink.ApplyHistoryData(msg.History)
	case msg.Feedback != nil:
		c.sink.ApplyFeedback(*msg.Feedback)
	}
}
