package models

// JogRequest определяет структуру запроса относительного перемещения.
// Distance опционален: ноль означает активную предустановку дистанции.
type JogRequest struct {
	Axis       string  `json:"axis" binding:"required"`
	Multiplier float64 `json:"multiplier" binding:"required"`
	Distance   float64 `json:"distance"`
}

// HomeRequest определяет структуру запроса возврата осей в ноль.
type HomeRequest struct {
	Axes []string `json:"axes" binding:"required,min=1"`
}

// ExtrudeRequest определяет структуру запроса подачи филамента.
// Amount опционален: ноль означает общую величину подачи панели.
type ExtrudeRequest struct {
	Amount float64 `json:"amount"`
}

// SelectToolRequest определяет структуру запроса выбора инструмента.
type SelectToolRequest struct {
	Tool string `json:"tool" binding:"required"`
}

// CommandRequest адресует пользовательский контрол путем индексов в
// нормализованном дереве.
type CommandRequest struct {
	Path []int `json:"path" binding:"required"`
}

// ConfirmRequest определяет структуру подтверждения отложенной команды.
type ConfirmRequest struct {
	Token string `json:"token" binding:"required"`
}

// KeyboardRequest определяет структуру события нажатия клавиши.
type KeyboardRequest struct {
	Code int `json:"code" binding:"required"`
}

// ControlView — узел дерева контролов в ответе API, дополненный шаблоном
// отображения и текущим выводом feedback-слота.
type ControlView struct {
	Name     string        `json:"name,omitempty"`
	Type     string        `json:"type"`
	Template string        `json:"template"`
	Command  string        `json:"command,omitempty"`
	Commands []string      `json:"commands,omitempty"`
	Input    []InputView   `json:"input,omitempty"`
	Confirm  string        `json:"confirm,omitempty"`
	Output   *string       `json:"output,omitempty"`
	Children []ControlView `json:"children,omitempty"`
}

// InputView — входной параметр контрола в ответе API.
type InputView struct {
	Parameter string `json:"parameter"`
	Default   any    `json:"default"`
	Value     any    `json:"value"`
}
