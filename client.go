package printerpanel

import (
	"context"
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/iwtcode/printerPanel/models"
	"github.com/iwtcode/printerPanel/panel"
	"github.com/iwtcode/printerPanel/transport"
)

// Client является основной точкой входа для взаимодействия с библиотекой.
// Он объединяет зеркало состояния, дериватор инструментов, нормализованное
// дерево контролов, диспетчер команд и контроллер клавиатуры.
type Client struct {
	config     *Config
	logger     *logrus.Logger
	status     *panel.StatusMirror
	profile    *panel.Value[*panel.PrinterProfile]
	tools      *panel.ToolSetDeriver
	dispatcher *panel.CommandDispatcher
	keyboard   *panel.KeyboardController
	transport  *transport.Client

	mu       sync.RWMutex
	controls []*panel.Control
	registry *panel.FeedbackRegistry
}

// New создает и возвращает новый экземпляр клиента панели.
func New(cfg *Config) (*Client, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config must not be nil")
	}

	logger := logrus.New()

	if cfg.LogLevel == "off" || cfg.LogLevel == "none" {
		logger.SetOutput(io.Discard)
	} else {
		level, err := logrus.ParseLevel(cfg.LogLevel)
		if err != nil {
			level = logrus.InfoLevel
		}
		logger.SetLevel(level)
		logger.SetOutput(os.Stdout)
	}

	logger.SetFormatter(&logrus.TextFormatter{
		FullTimestamp:   true,
		ForceColors:     true,
		TimestampFormat: "2006-01-02 15:04:05",
	})

	tr := transport.NewClient(cfg.APIURL, cfg.APIKey, time.Duration(cfg.TimeoutMs)*time.Millisecond, logger)

	status := panel.NewStatusMirror()
	profile := panel.NewValue[*panel.PrinterProfile](nil)
	dispatcher := panel.NewCommandDispatcher(tr, profile, cfg.DefaultExtrusionLength, logger)

	c := &Client{
		config:     cfg,
		logger:     logger,
		status:     status,
		profile:    profile,
		tools:      panel.NewToolSetDeriver(profile),
		dispatcher: dispatcher,
		keyboard:   panel.NewKeyboardController(cfg.KeyboardControl, dispatcher, status, logger),
		transport:  tr,
		registry:   panel.NewFeedbackRegistry(),
	}
	return c, nil
}

// Close снимает подписки клиента.
func (c *Client) Close() {
	if c.tools != nil {
		c.tools.Close()
	}
}

// GetLogger возвращает используемый логгер.
func (c *Client) GetLogger() *logrus.Logger {
	return c.logger
}

// LoadControls запрашивает определения контролов у контроллера и
// нормализует их. Вызывается один раз при старте.
func (c *Client) LoadControls(ctx context.Context) error {
	raw, err := c.transport.FetchControls(ctx)
	if err != nil {
		return fmt.Errorf("failed to fetch custom controls: %w", err)
	}

	controls, registry := panel.Normalize(raw)

	c.mu.Lock()
	c.controls = controls
	c.registry = registry
	c.mu.Unlock()

	c.logger.WithField("count", len(controls)).Info("custom controls loaded")
	return nil
}

// Controls возвращает нормализованное дерево пользовательских контролов.
func (c *Client) Controls() []*panel.Control {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.controls
}

// ControlAt возвращает узел дерева контролов по пути индексов.
func (c *Client) ControlAt(path []int) (*panel.Control, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	nodes := c.controls
	var node *panel.Control
	for _, idx := range path {
		if idx < 0 || idx >= len(nodes) {
			return nil, false
		}
		node = nodes[idx]
		nodes = node.Children
	}
	if node == nil {
		return nil, false
	}
	return node, true
}

// Status возвращает зеркало состояния принтера.
func (c *Client) Status() *panel.StatusMirror {
	return c.status
}

// Dispatcher возвращает диспетчер команд.
func (c *Client) Dispatcher() *panel.CommandDispatcher {
	return c.dispatcher
}

// Keyboard возвращает контроллер клавиатуры.
func (c *Client) Keyboard() *panel.KeyboardController {
	return c.keyboard
}

// Tools возвращает текущий список инструментов.
func (c *Client) Tools() []models.ToolDescriptor {
	return c.tools.Tools()
}

// SetProfile заменяет активный профиль принтера.
func (c *Client) SetProfile(p *panel.PrinterProfile) {
	c.profile.Set(p)
}

// ApplyCurrentData применяет снапшот состояния из сообщения "current".
func (c *Client) ApplyCurrentData(data *models.StateData) {
	c.status.ApplyCurrentData(data)
}

// ApplyHistoryData применяет снапшот состояния из сообщения "history".
func (c *Client) ApplyHistoryData(data *models.StateData) {
	c.status.ApplyHistoryData(data)
}

// ApplyFeedback перезаписывает слот вывода feedback-контрола.
// Обновление для незарегистрированного имени молча игнорируется.
func (c *Client) ApplyFeedback(update models.FeedbackUpdate) {
	c.mu.RLock()
	registry := c.registry
	c.mu.RUnlock()

	if !registry.Update(update) {
		c.logger.WithField("name", update.Name).Debug("feedback for unknown control ignored")
	}
}

// Registry возвращает реестр слотов обратной связи.
func (c *Client) Registry() *panel.FeedbackRegistry {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.registry
}
