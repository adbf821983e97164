package handlers

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	dmodels "github.com/iwtcode/printerPanel/internal/domain/models"
	"github.com/iwtcode/printerPanel/models"
)

// Jog отправляет относительное перемещение печатающей головки.
func (h *Handler) Jog(c *gin.Context) {
	var req dmodels.JogRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err, "Invalid request payload")
		return
	}

	if req.Distance != 0 {
		h.panel.Dispatcher().JogDistance(req.Axis, req.Multiplier, req.Distance)
	} else {
		h.panel.Dispatcher().Jog(req.Axis, req.Multiplier)
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// Home отправляет возврат осей в нулевое положение.
func (h *Handler) Home(c *gin.Context) {
	var req dmodels.HomeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err, "Invalid request payload")
		return
	}

	h.panel.Dispatcher().Home(req.Axes...)
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// Extrude подает филамент.
func (h *Handler) Extrude(c *gin.Context) {
	h.extrude(c, false)
}

// Retract втягивает филамент.
func (h *Handler) Retract(c *gin.Context) {
	h.extrude(c, true)
}

func (h *Handler) extrude(c *gin.Context, retract bool) {
	var req dmodels.ExtrudeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err, "Invalid request payload")
		return
	}

	if req.Amount != 0 {
		h.panel.Dispatcher().SetExtrusionAmount(req.Amount)
	}
	if retract {
		h.panel.Dispatcher().Retract()
	} else {
		h.panel.Dispatcher().Extrude()
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// SelectTool выбирает активный инструмент.
func (h *Handler) SelectTool(c *gin.Context) {
	var req dmodels.SelectToolRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err, "Invalid request payload")
		return
	}

	h.panel.Dispatcher().SelectTool(models.ToolDescriptor{Key: req.Tool})
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// CustomCommand выполняет команду пользовательского контрола по пути в
// дереве. Контрол с подтверждением не отправляется сразу: в ответе
// возвращаются токен и сообщение вооруженного гейта.
func (h *Handler) CustomCommand(c *gin.Context) {
	var req dmodels.CommandRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err, "Invalid request payload")
		return
	}

	control, ok := h.panel.ControlAt(req.Path)
	if !ok {
		h.NotFound(c, fmt.Errorf("no control at path %v", req.Path))
		return
	}

	token, pending := h.panel.Dispatcher().CustomCommand(control)
	if pending {
		c.JSON(http.StatusOK, gin.H{
			"status":  "confirmation_required",
			"token":   token,
			"message": control.Confirm,
		})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// ConfirmCommand подтверждает отложенную команду по токену. Устаревший
// токен сообщается как 404: соответствующий гейт уже вытеснен или сработал.
func (h *Handler) ConfirmCommand(c *gin.Context) {
	var req dmodels.ConfirmRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err, "Invalid request payload")
		return
	}

	if !h.panel.Dispatcher().Acknowledge(req.Token) {
		h.NotFound(c, fmt.Errorf("no pending confirmation for token"))
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
