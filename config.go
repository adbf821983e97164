package printerpanel

import (
	"os"
	"strconv"
)

// Config хранит модель конфигурации панели.
type Config struct {
	APIURL                 string
	APIKey                 string
	FeedURL                string
	TimeoutMs              int32
	KeyboardControl        bool
	DefaultExtrusionLength float64
	LogLevel               string
}

// Load загружает конфигурацию из переменных окружения.
func Load() *Config {
	apiURL := os.Getenv("PANEL_API_URL")
	if apiURL == "" {
		apiURL = "http://localhost:5000"
	}

	feedURL := os.Getenv("PANEL_FEED_URL")
	if feedURL == "" {
		feedURL = "ws://localhost:5000/sockjs/websocket"
	}

	timeoutStr := os.Getenv("PANEL_TIMEOUT")
	timeout, err := strconv.ParseInt(timeoutStr, 10, 32)
	if err != nil || timeout == 0 {
		timeout = 10000
	}

	keyboard := true
	if v := os.Getenv("FEATURE_KEYBOARD_CONTROL"); v != "" {
		if parsed, err := strconv.ParseBool(v); err == nil {
			keyboard = parsed
		}
	}

	length := 5.0
	if v := os.Getenv("DEFAULT_EXTRUSION_LENGTH"); v != "" {
		if parsed, err := strconv.ParseFloat(v, 64); err == nil && parsed > 0 {
			length = parsed
		}
	}

	logLevel := os.Getenv("LOG_LEVEL")
	if logLevel == "" {
		logLevel = "info"
	}

	return &Config{
		APIURL:                 apiURL,
		APIKey:                 os.Getenv("PANEL_API_KEY"),
		FeedURL:                feedURL,
		TimeoutMs:              int32(timeout),
		KeyboardControl:        keyboard,
		DefaultExtrusionLength: length,
		LogLevel:               logLevel,
	}
}
