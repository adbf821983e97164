package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	dmodels "github.com/iwtcode/printerPanel/internal/domain/models"
)

// Keyboard обрабатывает событие нажатия клавиши от веб-интерфейса.
func (h *Handler) Keyboard(c *gin.Context) {
	var req dmodels.KeyboardRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err, "Invalid request payload")
		return
	}

	result := h.panel.Keyboard().HandleKeyDown(req.Code)
	c.JSON(http.StatusOK, gin.H{
		"status": "ok",
		"result": result,
	})
}
