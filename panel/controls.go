package panel

import (
	"sync"

	"github.com/iwtcode/printerPanel/models"
)

// FeedbackSlot — живое отображаемое значение одного feedback-контрола.
type FeedbackSlot struct {
	mu     sync.RWMutex
	output string
}

// Output возвращает текущее значение слота.
func (s *FeedbackSlot) Output() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.output
}

func (s *FeedbackSlot) set(v string) {
	s.mu.Lock()
	s.output = v
	s.mu.Unlock()
}

// FeedbackRegistry — реестр соответствия имени контрола его слоту вывода.
// Записи создаются при нормализации дерева и живут до конца работы панели.
type FeedbackRegistry struct {
	mu    sync.RWMutex
	slots map[string]*FeedbackSlot
}

// NewFeedbackRegistry создает пустой реестр.
func NewFeedbackRegistry() *FeedbackRegistry {
	return &FeedbackRegistry{slots: make(map[string]*FeedbackSlot)}
}

// register создает свежий слот под именем контрола. Повторная регистрация
// того же имени перезаписывает предыдущий слот: последняя побеждает.
func (r *FeedbackRegistry) register(name string) *FeedbackSlot {
	slot := &FeedbackSlot{}
	r.mu.Lock()
	r.slots[name] = slot
	r.mu.Unlock()
	return slot
}

// Lookup возвращает слот по имени контрола.
func (r *FeedbackRegistry) Lookup(name string) (*FeedbackSlot, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	slot, ok := r.slots[name]
	return slot, ok
}

// Update перезаписывает значение зарегистрированного слота. Обновление с
// незарегистрированным именем — молчаливый no-op.
func (r *FeedbackRegistry) Update(u models.FeedbackUpdate) bool {
	slot, ok := r.Lookup(u.Name)
	if !ok {
		return false
	}
	slot.set(u.Output)
	return true
}

// Input — входной параметр нормализованного контрола. Value заполняется
// из Default при нормализации и далее изменяется только интерфейсом.
type Input struct {
	Parameter string `json:"parameter"`
	Default   any    `json:"default"`
	Value     any    `json:"value"`
}

// Control — нормализованный узел дерева пользовательских контролов.
type Control struct {
	Name     string     `json:"name,omitempty"`
	Type     string     `json:"type"`
	Command  string     `json:"command,omitempty"`
	Commands []string   `json:"commands,omitempty"`
	Input    []Input    `json:"input,omitempty"`
	Confirm  string     `json:"confirm,omitempty"`
	Children []*Control `json:"children,omitempty"`

	// Слот вывода; заполнен только у feedback-контролов.
	Output *FeedbackSlot `json:"-"`
}

// Normalize рекурсивно преобразует сырое дерево контролов в операбельное.
// Входное дерево не изменяется; реестр слотов обратной связи строится
// заново при каждом вызове, поэтому повторная нормализация не дублирует
// ни значения параметров, ни регистрации.
func Normalize(raw []models.CustomControl) ([]*Control, *FeedbackRegistry) {
	reg := NewFeedbackRegistry()
	out := make([]*Control, 0, len(raw))
	for i := range raw {
		out = append(out, normalizeNode(&raw[i], reg))
	}
	return out, reg
}

func normalizeNode(raw *models.CustomControl, reg *FeedbackRegistry) *Control {
	c := &Control{
		Name:     raw.Name,
		Type:     raw.Type,
		Command:  raw.Command,
		Commands: append([]string(nil), raw.Commands...),
		Confirm:  raw.Confirm,
	}

	switch raw.Type {
	case models.ControlTypeParametricCommand, models.ControlTypeParametricCommands:
		// Default копируется в Value как есть, без проверки по схеме.
		c.Input = make([]Input, 0, len(raw.Input))
		for _, in := range raw.Input {
			c.Input = append(c.Input, Input{
				Parameter: in.Parameter,
				Default:   in.Default,
				Value:     in.Default,
			})
		}
	case models.ControlTypeFeedbackCommand, models.ControlTypeFeedback:
		c.Output = reg.register(raw.Name)
	case models.ControlTypeSection:
		c.Children = make([]*Control, 0, len(raw.Children))
		for i := range raw.Children {
			c.Children = append(c.Children, normalizeNode(&raw.Children[i], reg))
		}
	}
	// Прочие типы проходят без изменений и отображаются пустым шаблоном.

	return c
}

// TemplateID идентифицирует шаблон отображения контрола.
type TemplateID string

// Шаблоны отображения, по одному на тип контрола.
const (
	TemplateCommand            TemplateID = "custom_control_command"
	TemplateCommands           TemplateID = "custom_control_commands"
	TemplateParametricCommand  TemplateID = "custom_control_parametric_command"
	TemplateParametricCommands TemplateID = "custom_control_parametric_commands"
	TemplateFeedbackCommand    TemplateID = "custom_control_feedback_command"
	TemplateFeedback           TemplateID = "custom_control_feedback"
	TemplateSection            TemplateID = "custom_control_section"
	TemplateEmpty              TemplateID = "custom_control_empty"
)

// TemplateFor возвращает шаблон отображения для типа контрола.
// Нераспознанный тип отображается пустым шаблоном.
func TemplateFor(c *Control) TemplateID {
	switch c.Type {
	case models.ControlTypeCommand:
		return TemplateCommand
	case models.ControlTypeCommands:
		return TemplateCommands
	case models.ControlTypeParametricCommand:
		return TemplateParametricCommand
	case models.ControlTypeParametricCommands:
		return TemplateParametricCommands
	case models.ControlTypeFeedbackCommand:
		return TemplateFeedbackCommand
	case models.ControlTypeFeedback:
		return TemplateFeedback
	case models.ControlTypeSection:
		return TemplateSection
	default:
		return TemplateEmpty
	}
}
