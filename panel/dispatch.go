package panel

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/iwtcode/printerPanel/models"
)

// Commander — транспортная граница панели. Отправка команд для панели
// fire-and-forget: результат не ожидается, ошибки транспорта обрабатывает
// сама граница.
type Commander interface {
	SendPrintHeadCommand(ctx context.Context, payload any) error
	SendToolCommand(ctx context.Context, payload any) error
	SendCustomCommand(ctx context.Context, payload any) error
}

// Confirmer — абстракция модального подтверждения. Панель открывает
// подтверждение с сообщением и колбэком; показ и скрытие самого окна —
// забота реализации.
type Confirmer interface {
	Confirm(message string, ack func())
}

// Предустановленные дистанции перемещения, мм.
var jogDistances = []float64{0.1, 1, 10, 100}

// confirmGate — ожидающее подтверждения отложенное отправление.
// Одновременно вооружен максимум один гейт; новый вытесняет предыдущий.
type confirmGate struct {
	token   string
	message string
	fired   bool
	send    func()
}

// CommandDispatcher собирает тела команд jog/home/extrude/select/custom,
// применяет подтверждение и передает их транспортной границе.
type CommandDispatcher struct {
	commander Commander
	confirmer Confirmer
	profile   *Value[*PrinterProfile]
	logger    *logrus.Entry

	// Общая величина подачи филамента; ноль означает "использовать
	// сконфигурированную длину по умолчанию".
	extrusionAmount *Value[float64]
	defaultLength   float64

	distanceIdx *Value[int]

	sendTimeout time.Duration

	mu   sync.Mutex
	gate *confirmGate
}

// NewCommandDispatcher создает диспетчер команд.
func NewCommandDispatcher(commander Commander, profile *Value[*PrinterProfile], defaultLength float64, logger *logrus.Logger) *CommandDispatcher {
	return &CommandDispatcher{
		commander:       commander,
		profile:         profile,
		logger:          logger.WithField("component", "dispatcher"),
		extrusionAmount: NewValue(0.0),
		defaultLength:   defaultLength,
		distanceIdx:     NewValue(2), // 10 мм
		sendTimeout:     10 * time.Second,
	}
}

// SetConfirmer устанавливает абстракцию модального подтверждения.
func (d *CommandDispatcher) SetConfirmer(c Confirmer) {
	d.mu.Lock()
	d.confirmer = c
	d.mu.Unlock()
}

// Distances возвращает список предустановленных дистанций перемещения.
func (d *CommandDispatcher) Distances() []float64 {
	out := make([]float64, len(jogDistances))
	copy(out, jogDistances)
	return out
}

// SelectDistance выбирает активную предустановку дистанции по индексу.
// Индекс вне диапазона игнорируется.
func (d *CommandDispatcher) SelectDistance(idx int) {
	if idx < 0 || idx >= len(jogDistances) {
		return
	}
	d.distanceIdx.Set(idx)
}

// ActiveDistance возвращает активную дистанцию перемещения.
func (d *CommandDispatcher) ActiveDistance() float64 {
	return jogDistances[d.distanceIdx.Get()]
}

// Jog отправляет относительное перемещение по оси на активную дистанцию.
func (d *CommandDispatcher) Jog(axis string, multiplier float64) {
	d.JogDistance(axis, multiplier, d.ActiveDistance())
}

// JogDistance отправляет относительное перемещение по оси на заданную
// дистанцию. Если профиль помечает ось инвертированной, множитель
// меняет знак до умножения.
func (d *CommandDispatcher) JogDistance(axis string, multiplier, distance float64) {
	if axis == "" {
		return
	}
	if d.profile.Get().AxisInverted(axis) {
		multiplier = -multiplier
	}
	payload := models.JogPayload{
		"command": "jog",
		axis:      multiplier * distance,
	}
	d.send(d.commander.SendPrintHeadCommand, payload)
}

// Home отправляет команду возврата осей в нулевое положение.
func (d *CommandDispatcher) Home(axes ...string) {
	if len(axes) == 0 {
		return
	}
	d.send(d.commander.SendPrintHeadCommand, models.HomePayload{
		Command: "home",
		Axes:    axes,
	})
}

// SetExtrusionAmount задает общую величину подачи филамента.
func (d *CommandDispatcher) SetExtrusionAmount(amount float64) {
	d.extrusionAmount.Set(amount)
}

// Extrude подает филамент на текущую величину подачи.
func (d *CommandDispatcher) Extrude() {
	d.extrude(1)
}

// Retract втягивает филамент на текущую величину подачи.
func (d *CommandDispatcher) Retract() {
	d.extrude(-1)
}

func (d *CommandDispatcher) extrude(direction float64) {
	amount := d.extrusionAmount.Get()
	if amount == 0 {
		amount = d.defaultLength
	}
	d.send(d.commander.SendToolCommand, models.ExtrudePayload{
		Command: "extrude",
		Amount:  direction * amount,
	})
}

// SelectTool выбирает активный инструмент. Дескриптор без ключа —
// молчаливый no-op: отправлять нечего.
func (d *CommandDispatcher) SelectTool(tool models.ToolDescriptor) {
	if tool.Key == "" {
		return
	}
	d.send(d.commander.SendToolCommand, models.SelectToolPayload{
		Command: "select",
		Tool:    tool.Key,
	})
}

// CustomCommand отправляет команду пользовательского контрола. Контрол с
// сообщением подтверждения не отправляется сразу: возвращается токен
// вооруженного гейта, и отправка откладывается до Acknowledge. Новый гейт
// вытесняет предыдущий — одновременно ожидает не больше одного.
func (d *CommandDispatcher) CustomCommand(c *Control) (token string, pending bool) {
	payload, ok := buildCustomPayload(c)
	if !ok {
		return "", false
	}

	sendFn := func() {
		d.send(d.commander.SendCustomCommand, payload)
	}

	if c.Confirm == "" {
		sendFn()
		return "", false
	}

	gate := &confirmGate{
		token:   uuid.NewString(),
		message: c.Confirm,
		send:    sendFn,
	}

	d.mu.Lock()
	d.gate = gate
	confirmer := d.confirmer
	d.mu.Unlock()

	if confirmer != nil {
		t := gate.token
		confirmer.Confirm(gate.message, func() { d.Acknowledge(t) })
	}
	return gate.token, true
}

// Acknowledge подтверждает ожидающий гейт по токену и выполняет отложенную
// отправку ровно один раз. Устаревший или повторно использованный токен —
// молчаливый no-op.
func (d *CommandDispatcher) Acknowledge(token string) bool {
	d.mu.Lock()
	gate := d.gate
	if gate == nil || gate.token != token || gate.fired {
		d.mu.Unlock()
		return false
	}
	gate.fired = true
	d.gate = nil
	d.mu.Unlock()

	gate.send()
	return true
}

// PendingConfirm возвращает токен и сообщение вооруженного гейта, если он есть.
func (d *CommandDispatcher) PendingConfirm() (token, message string, ok bool) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.gate == nil {
		return "", "", false
	}
	return d.gate.token, d.gate.message, true
}

// buildCustomPayload собирает тело запроса для контрола командных типов.
// Для параметрических вариантов параметры отображаются в текущие значения.
func buildCustomPayload(c *Control) (*models.CommandPayload, bool) {
	if c == nil {
		return nil, false
	}
	switch c.Type {
	case models.ControlTypeCommand, models.ControlTypeFeedbackCommand:
		return &models.CommandPayload{Command: c.Command}, true
	case models.ControlTypeCommands:
		return &models.CommandPayload{Commands: c.Commands}, true
	case models.ControlTypeParametricCommand:
		return &models.CommandPayload{Command: c.Command, Parameters: inputParameters(c.Input)}, true
	case models.ControlTypeParametricCommands:
		return &models.CommandPayload{Commands: c.Commands, Parameters: inputParameters(c.Input)}, true
	default:
		return nil, false
	}
}

func inputParameters(inputs []Input) map[string]any {
	params := make(map[string]any, len(inputs))
	for _, in := range inputs {
		params[in.Parameter] = in.Value
	}
	return params
}

// send передает тело запроса транспортной границе, не дожидаясь результата.
// Ошибка транспорта только логируется: повторы и видимые пользователю
// сообщения — ответственность границы.
func (d *CommandDispatcher) send(fn func(context.Context, any) error, payload any) {
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), d.sendTimeout)
		defer cancel()
		if err := fn(ctx, payload); err != nil {
			d.logger.WithError(err).Error("command send failed")
		}
	}()
}
