package models

import "time"

// StatusFlags содержит фиксированный набор флагов состояния принтера.
// Флаги всегда заменяются целиком из одного снапшота, частичное обновление не допускается.
type StatusFlags struct {
	ClosedOrError bool `json:"closedOrError"`
	Operational   bool `json:"operational"`
	Paused        bool `json:"paused"`
	Printing      bool `json:"printing"`
	Error         bool `json:"error"`
	Ready         bool `json:"ready"`
	Loading       bool `json:"loading"`
}

// PrinterState содержит состояние принтера внутри снапшота.
type PrinterState struct {
	Text  string       `json:"text,omitempty"`
	Flags *StatusFlags `json:"flags"`
}

// StateData представляет один снапшот состояния из внешнего фида.
type StateData struct {
	State *PrinterState `json:"state"`
}

// FeedMessage представляет одно push-сообщение фида состояния.
// Заполнено ровно одно из полей.
type FeedMessage struct {
	Current  *StateData      `json:"current,omitempty"`
	History  *StateData      `json:"history,omitempty"`
	Feedback *FeedbackUpdate `json:"feedback,omitempty"`
}

// FeedbackUpdate содержит обновление вывода для feedback-контрола.
type FeedbackUpdate struct {
	Name   string `json:"name"`
	Output string `json:"output"`
}

// ToolDescriptor описывает один инструмент (экструдер) принтера.
type ToolDescriptor struct {
	Name string `json:"name"`
	Key  string `json:"key"`
}

// Типы пользовательских контролов.
const (
	ControlTypeCommand            = "command"
	ControlTypeCommands           = "commands"
	ControlTypeParametricCommand  = "parametric_command"
	ControlTypeParametricCommands = "parametric_commands"
	ControlTypeFeedbackCommand    = "feedback_command"
	ControlTypeFeedback           = "feedback"
	ControlTypeSection            = "section"
)

// ControlInput описывает один входной параметр параметрического контрола.
type ControlInput struct {
	Parameter string `json:"parameter"`
	Default   any    `json:"default"`
	Value     any    `json:"value,omitempty"`
}

// CustomControl представляет сырое определение пользовательского контрола,
// как оно приходит от удалённого контроллера. Дерево рекурсивно: секция
// содержит произвольно вложенные дочерние контролы.
type CustomControl struct {
	Name     string          `json:"name,omitempty"`
	Type     string          `json:"type"`
	Command  string          `json:"command,omitempty"`
	Commands []string        `json:"commands,omitempty"`
	Input    []ControlInput  `json:"input,omitempty"`
	Confirm  string          `json:"confirm,omitempty"`
	Children []CustomControl `json:"children,omitempty"`
}

// HomePayload — команда возврата осей в нулевое положение.
type HomePayload struct {
	Command string   `json:"command"`
	Axes    []string `json:"axes"`
}

// JogPayload — команда относительного перемещения. Ключ оси динамический,
// поэтому тело запроса собирается как map: {"command":"jog", "x": 10}.
type JogPayload map[string]any

// ExtrudePayload — команда подачи или ретракта филамента.
type ExtrudePayload struct {
	Command string  `json:"command"`
	Amount  float64 `json:"amount"`
}

// SelectToolPayload — команда выбора активного инструмента.
type SelectToolPayload struct {
	Command string `json:"command"`
	Tool    string `json:"tool"`
}

// CommandPayload — произвольная команда пользовательского контрола.
type CommandPayload struct {
	Command    string         `json:"command,omitempty"`
	Commands   []string       `json:"commands,omitempty"`
	Parameters map[string]any `json:"parameters,omitempty"`
}

// TelemetrySnapshot — снапшот флагов состояния, публикуемый в телеметрию.
type TelemetrySnapshot struct {
	PanelID   string      `json:"panel_id"`
	Timestamp time.Time   `json:"timestamp"`
	Flags     StatusFlags `json:"flags"`
}
