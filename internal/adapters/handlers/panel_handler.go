package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	dmodels "github.com/iwtcode/printerPanel/internal/domain/models"
	"github.com/iwtcode/printerPanel/models"
	"github.com/iwtcode/printerPanel/panel"
	"github.com/iwtcode/printerPanel/pkg/errors"
)

// GetState возвращает текущие флаги состояния и производные значения панели.
func (h *Handler) GetState(c *gin.Context) {
	status := h.panel.Status()
	c.JSON(http.StatusOK, gin.H{
		"flags":               status.Flags(),
		"is_operational":      status.IsOperational(),
		"is_printing":         status.IsPrinting(),
		"tools":               h.panel.Tools(),
		"distances":           h.panel.Dispatcher().Distances(),
		"active_distance":     h.panel.Dispatcher().ActiveDistance(),
		"keycontrol_possible": h.panel.Keyboard().KeycontrolPossible(),
	})
}

// GetControls возвращает нормализованное дерево пользовательских контролов.
// Контрол отображается заблокированным, пока принтер не operational.
func (h *Handler) GetControls(c *gin.Context) {
	views := make([]dmodels.ControlView, 0, len(h.panel.Controls()))
	for _, control := range h.panel.Controls() {
		views = append(views, controlView(control))
	}
	c.JSON(http.StatusOK, gin.H{
		"controls": views,
		"enabled":  h.panel.Status().IsOperational(),
	})
}

// ReloadControls повторно запрашивает определения контролов у контроллера
// и заменяет нормализованное дерево целиком.
func (h *Handler) ReloadControls(c *gin.Context) {
	if err := h.panel.LoadControls(c.Request.Context()); err != nil {
		h.InternalError(c, errors.NewAppError(http.StatusInternalServerError, errors.InternalServerError, err, false))
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"status": "ok",
		"count":  len(h.panel.Controls()),
	})
}

// ApplyFeedback перезаписывает слот вывода feedback-контрола.
func (h *Handler) ApplyFeedback(c *gin.Context) {
	var update models.FeedbackUpdate
	if err := c.ShouldBindJSON(&update); err != nil {
		h.BadRequest(c, err, "Invalid request payload")
		return
	}

	h.panel.ApplyFeedback(update)
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func controlView(control *panel.Control) dmodels.ControlView {
	view := dmodels.ControlView{
		Name:     control.Name,
		Type:     control.Type,
		Template: string(panel.TemplateFor(control)),
		Command:  control.Command,
		Commands: control.Commands,
		Confirm:  control.Confirm,
	}

	for _, in := range control.Input {
		view.Input = append(view.Input, dmodels.InputView{
			Parameter: in.Parameter,
			Default:   in.Default,
			Value:     in.Value,
		})
	}

	if control.Output != nil {
		output := control.Output.Output()
		view.Output = &output
	}

	for _, child := range control.Children {
		view.Children = append(view.Children, controlView(child))
	}

	return view
}
