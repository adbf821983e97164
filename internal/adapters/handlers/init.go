package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	printerpanel "github.com/iwtcode/printerPanel"
	"github.com/iwtcode/printerPanel/internal/config"
)

// Handler - структура для обработчиков HTTP-запросов панели.
type Handler struct {
	panel  *printerpanel.Client
	logger *logrus.Entry
}

// NewHandler создает новый экземпляр Handler.
func NewHandler(panel *printerpanel.Client, logger *logrus.Logger) *Handler {
	return &Handler{
		panel:  panel,
		logger: logger.WithField("component", "handler"),
	}
}

// ProvideRouter настраивает и возвращает HTTP-роутер.
func ProvideRouter(h *Handler, cfg *config.AppConfig) http.Handler {
	gin.SetMode(cfg.GinMode)

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(LoggingMiddleware(h.logger))

	// Группа API v1
	v1 := router.Group("/api/v1")
	{
		v1.GET("/state", h.GetState)
		v1.GET("/controls", h.GetControls)
		v1.POST("/controls/refresh", h.ReloadControls)
		v1.POST("/feedback", h.ApplyFeedback)

		printhead := v1.Group("/printhead")
		{
			printhead.POST("/jog", h.Jog)
			printhead.POST("/home", h.Home)
		}

		tool := v1.Group("/tool")
		{
			tool.POST("/extrude", h.Extrude)
			tool.POST("/retract", h.Retract)
			tool.POST("/select", h.SelectTool)
		}

		command := v1.Group("/command")
		{
			command.POST("", h.CustomCommand)
			command.POST("/confirm", h.ConfirmCommand)
		}

		v1.POST("/keyboard", h.Keyboard)
	}

	return router
}
