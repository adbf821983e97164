package config

import (
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// AppConfig содержит конфигурацию сервиса панели.
type AppConfig struct {
	ServerPort string
	GinMode    string
	PanelID    string
	Kafka      KafkaConfig
}

// KafkaConfig содержит настройки публикации телеметрии.
type KafkaConfig struct {
	Enable bool
	Broker string
	Topic  string
}

// LoadConfiguration загружает конфигурацию из .env файла или переменных окружения.
func LoadConfiguration() (*AppConfig, error) {
	_ = godotenv.Load()

	config := &AppConfig{
		ServerPort: getEnv("APP_PORT", "8082"),
		GinMode:    getEnv("GIN_MODE", "debug"),
		PanelID:    getEnv("PANEL_ID", "printer-panel"),
		Kafka: KafkaConfig{
			Enable: getEnvAsBool("KAFKA_ENABLE", false),
			Broker: getEnv("KAFKA_BROKER", "localhost:9092"),
			Topic:  getEnv("KAFKA_TOPIC", "panel_state"),
		},
	}

	return config, nil
}

func getEnv(key, defaultVal string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultVal
}

func getEnvAsBool(key string, defaultVal bool) bool {
	if value, exists := os.LookupEnv(key); exists {
		if parsed, err := strconv.ParseBool(value); err == nil {
			return parsed
		}
	}
	return defaultVal
}
