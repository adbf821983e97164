package transport

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/iwtcode/printerPanel/models"
)

// Пути REST API удалённого контроллера принтера.
const (
	printHeadPath = "/api/printer/printhead"
	toolPath      = "/api/printer/tool"
	commandPath   = "/api/printer/command"
	controlsPath  = "/api/printer/controls"
)

// Client выполняет REST-запросы к удалённому контроллеру принтера.
// Слой не повторяет запросы и не разбирает тела ответов команд: ошибка
// транспорта возвращается вызывающему как есть.
type Client struct {
	baseURL string
	apiKey  string
	http    *http.Client
	logger  *logrus.Entry
}

// NewClient создает REST-клиент контроллера.
func NewClient(baseURL, apiKey string, timeout time.Duration, logger *logrus.Logger) *Client {
	return &Client{
		baseURL: baseURL,
		apiKey:  apiKey,
		http:    &http.Client{Timeout: timeout},
		logger:  logger.WithField("component", "transport"),
	}
}

// SendPrintHeadCommand отправляет команду печатающей головке (jog, home).
func (c *Client) SendPrintHeadCommand(ctx context.Context, payload any) error {
	return c.post(ctx, printHeadPath, payload)
}

// SendToolCommand отправляет команду инструменту (extrude, select).
func (c *Client) SendToolCommand(ctx context.Context, payload any) error {
	return c.post(ctx, toolPath, payload)
}

// SendCustomCommand отправляет команду пользовательского контрола.
func (c *Client) SendCustomCommand(ctx context.Context, payload any) error {
	return c.post(ctx, commandPath, payload)
}

// FetchControls запрашивает определения пользовательских контролов.
// Вызывается один раз при старте панели.
func (c *Client) FetchControls(ctx context.Context) ([]models.CustomControl, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+controlsPath, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build controls request: %w", err)
	}
	c.setHeaders(req)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("controls request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("controls request returned status %d", resp.StatusCode)
	}

	var body struct {
		Controls []models.CustomControl `json:"controls"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("failed to decode controls response: %w", err)
	}

	c.logger.WithField("count", len(body.Controls)).Debug("controls fetched")
	return body.Controls, nil
}

func (c *Client) post(ctx context.Context, path string, payload any) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal payload for %s: %w", path, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(data))
	if err != nil {
		return fmt.Errorf("failed to build request for %s: %w", path, err)
	}
	c.setHeaders(req)

	c.logger.WithFields(logrus.Fields{"path": path, "payload": string(data)}).Debug("sending command")

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("request to %s failed: %w", path, err)
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("request to %s returned status %d", path, resp.StatusCode)
	}
	return nil
}

func (c *Client) setHeaders(req *http.Request) {
	req.Header.Set("Content-Type", "application/json")
	if c.apiKey != "" {
		req.Header.Set("X-Api-Key", c.apiKey)
	}
}
