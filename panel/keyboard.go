package panel

import (
	"fmt"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
)

// KeyAction идентифицирует действие панели, на которое отображается клавиша.
type KeyAction string

const (
	ActionJogXPlus  KeyAction = "jog_x_plus"
	ActionJogXMinus KeyAction = "jog_x_minus"
	ActionJogYPlus  KeyAction = "jog_y_plus"
	ActionJogYMinus KeyAction = "jog_y_minus"
	ActionJogZPlus  KeyAction = "jog_z_plus"
	ActionJogZMinus KeyAction = "jog_z_minus"
	ActionHomeXY    KeyAction = "home_xy"
	ActionHomeZ     KeyAction = "home_z"
	ActionDistance1 KeyAction = "distance_1"
	ActionDistance2 KeyAction = "distance_2"
	ActionDistance3 KeyAction = "distance_3"
	ActionDistance4 KeyAction = "distance_4"
)

// Коды клавиш браузерного события keydown.
const (
	keyEnd      = 35
	keyHome     = 36
	keyLeft     = 37
	keyUp       = 38
	keyRight    = 39
	keyDown     = 40
	keyPageUp   = 33
	keyPageDown = 34
	keyDigit1   = 49
	keyDigit4   = 52
	keyNumpad1  = 97
	keyNumpad4  = 100
	keyS        = 83
	keyW        = 87
)

// KeyBinding связывает код клавиши с действием и флагом визуальной подсветки.
type KeyBinding struct {
	Action    KeyAction
	Visualize bool
}

// Статическая таблица привязок клавиш. Определяется один раз и не меняется.
var keyBindings = map[int]KeyBinding{
	keyLeft:        {ActionJogXMinus, true},
	keyRight:       {ActionJogXPlus, true},
	keyUp:          {ActionJogYPlus, true},
	keyDown:        {ActionJogYMinus, true},
	keyPageUp:      {ActionJogZPlus, true},
	keyW:           {ActionJogZPlus, true},
	keyPageDown:    {ActionJogZMinus, true},
	keyS:           {ActionJogZMinus, true},
	keyHome:        {ActionHomeXY, true},
	keyEnd:         {ActionHomeZ, true},
	keyDigit1:      {ActionDistance1, false},
	keyDigit1 + 1:  {ActionDistance2, false},
	keyDigit1 + 2:  {ActionDistance3, false},
	keyDigit4:      {ActionDistance4, false},
	keyNumpad1:     {ActionDistance1, false},
	keyNumpad1 + 1: {ActionDistance2, false},
	keyNumpad1 + 2: {ActionDistance3, false},
	keyNumpad4:     {ActionDistance4, false},
}

// Некорректная таблица привязок — ошибка программирования, не runtime-сбой.
func init() {
	for code, b := range keyBindings {
		if b.Action == "" {
			panic(fmt.Sprintf("panel: key binding without action for code %d", code))
		}
	}
}

// KeyResult — итог обработки нажатия клавиши.
type KeyResult struct {
	// SuppressDefault указывает подавить действие браузера по умолчанию.
	SuppressDefault bool `json:"suppress_default"`
	// Acted указывает, что целевое действие было вызвано.
	Acted bool `json:"acted"`
	// Action — вызванное действие, если Acted.
	Action KeyAction `json:"action,omitempty"`
}

// visualFlashWindow — длительность косметической подсветки цели.
const visualFlashWindow = 150 * time.Millisecond

// KeyboardController отображает коды клавиш на действия панели, применяет
// гейтинг по флагу конфигурации и управляет кратковременной визуальной
// подсветкой целей.
type KeyboardController struct {
	enabled    bool
	dispatcher *CommandDispatcher
	status     *StatusMirror
	logger     *logrus.Entry

	flashWindow time.Duration

	mu         sync.Mutex
	active     bool
	helpActive bool
	visual     map[KeyAction]bool
}

// NewKeyboardController создает контроллер клавиатуры. При выключенном
// флаге конфигурации все обработчики становятся no-op.
func NewKeyboardController(enabled bool, dispatcher *CommandDispatcher, status *StatusMirror, logger *logrus.Logger) *KeyboardController {
	return &KeyboardController{
		enabled:     enabled,
		dispatcher:  dispatcher,
		status:      status,
		logger:      logger.WithField("component", "keyboard"),
		flashWindow: visualFlashWindow,
		visual:      make(map[KeyAction]bool),
	}
}

// OnFocus включает захват клавиатуры при фокусе области захвата.
func (k *KeyboardController) OnFocus() {
	if !k.enabled {
		return
	}
	k.mu.Lock()
	k.active = true
	k.mu.Unlock()
}

// OnHoverEnter включает захват клавиатуры при наведении на область захвата.
func (k *KeyboardController) OnHoverEnter() {
	k.OnFocus()
}

// OnHoverLeave выключает захват клавиатуры при уходе из области захвата.
func (k *KeyboardController) OnHoverLeave() {
	if !k.enabled {
		return
	}
	k.mu.Lock()
	k.active = false
	k.mu.Unlock()
}

// Active сообщает, включен ли захват клавиатуры.
func (k *KeyboardController) Active() bool {
	k.mu.Lock()
	defer k.mu.Unlock()
	return k.active
}

// ToggleHelp переключает подсказку по клавишам.
func (k *KeyboardController) ToggleHelp() {
	k.mu.Lock()
	k.helpActive = !k.helpActive
	k.mu.Unlock()
}

// HelpActive сообщает, показана ли подсказка по клавишам.
func (k *KeyboardController) HelpActive() bool {
	k.mu.Lock()
	defer k.mu.Unlock()
	return k.helpActive
}

// KeycontrolPossible сообщает, доступно ли сейчас управление с клавиатуры.
// Вычисляется на каждый запрос, не кэшируется.
func (k *KeyboardController) KeycontrolPossible() bool {
	return k.enabled && k.status.IsOperational() && k.Active()
}

// VisualActive сообщает, подсвечена ли сейчас цель действия.
func (k *KeyboardController) VisualActive(action KeyAction) bool {
	k.mu.Lock()
	defer k.mu.Unlock()
	return k.visual[action]
}

// HandleKeyDown обрабатывает нажатие клавиши. При выключенной функции —
// no-op с сохранением действия браузера по умолчанию. Известная клавиша
// подавляет действие по умолчанию и всегда вызывает целевое действие;
// неизвестная только подавляет действие по умолчанию.
func (k *KeyboardController) HandleKeyDown(code int) KeyResult {
	if !k.enabled {
		return KeyResult{}
	}

	binding, ok := keyBindings[code]
	if !ok {
		return KeyResult{SuppressDefault: true}
	}

	if binding.Visualize {
		k.flash(binding.Action)
	}
	k.invoke(binding.Action)

	return KeyResult{
		SuppressDefault: true,
		Acted:           true,
		Action:          binding.Action,
	}
}

// flash подсвечивает цель на фиксированное окно и затем гасит. Наложившиеся
// окна по одной цели оба гасят один и тот же флаг — безвредно.
func (k *KeyboardController) flash(action KeyAction) {
	k.mu.Lock()
	k.visual[action] = true
	k.mu.Unlock()

	time.AfterFunc(k.flashWindow, func() {
		k.mu.Lock()
		k.visual[action] = false
		k.mu.Unlock()
	})
}

func (k *KeyboardController) invoke(action KeyAction) {
	switch action {
	case ActionJogXPlus:
		k.dispatcher.Jog("x", 1)
	case ActionJogXMinus:
		k.dispatcher.Jog("x", -1)
	case ActionJogYPlus:
		k.dispatcher.Jog("y", 1)
	case ActionJogYMinus:
		k.dispatcher.Jog("y", -1)
	case ActionJogZPlus:
		k.dispatcher.Jog("z", 1)
	case ActionJogZMinus:
		k.dispatcher.Jog("z", -1)
	case ActionHomeXY:
		k.dispatcher.Home("x", "y")
	case ActionHomeZ:
		k.dispatcher.Home("z")
	case ActionDistance1:
		k.dispatcher.SelectDistance(0)
	case ActionDistance2:
		k.dispatcher.SelectDistance(1)
	case ActionDistance3:
		k.dispatcher.SelectDistance(2)
	case ActionDistance4:
		k.dispatcher.SelectDistance(3)
	default:
		k.logger.WithField("action", action).Warn("unknown key action")
	}
}
