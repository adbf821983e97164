package panel

import (
	"fmt"
	"sync"

	"github.com/iwtcode/printerPanel/models"
)

// ToolSetDeriver следит за активным профилем принтера и числом его
// экструдеров и пересобирает упорядоченный список инструментов при каждом
// изменении. Список всегда заменяется целиком, поэлементно не правится.
type ToolSetDeriver struct {
	mu           sync.Mutex
	tools        []models.ToolDescriptor
	unsubProfile func()
	unsubCount   func()
}

// NewToolSetDeriver создает дериватор, подписанный на наблюдаемый профиль.
// Список инструментов вычисляется сразу из текущего профиля.
func NewToolSetDeriver(current *Value[*PrinterProfile]) *ToolSetDeriver {
	d := &ToolSetDeriver{}
	d.unsubProfile = current.Subscribe(d.onProfileChange)
	d.onProfileChange(current.Get())
	return d
}

// onProfileChange снимает подписку на счетчик экструдеров предыдущего
// профиля перед установкой новой: смена профиля не должна копить
// устаревшие подписки.
func (d *ToolSetDeriver) onProfileChange(p *PrinterProfile) {
	d.mu.Lock()
	if d.unsubCount != nil {
		d.unsubCount()
		d.unsubCount = nil
	}

	if p == nil || p.Extruder == nil {
		d.tools = nil
		d.mu.Unlock()
		return
	}

	d.unsubCount = p.Extruder.Subscribe(func(count int) {
		d.mu.Lock()
		d.tools = buildTools(count)
		d.mu.Unlock()
	})
	d.tools = buildTools(p.Extruder.Get())
	d.mu.Unlock()
}

// buildTools строит список инструментов для заданного числа экструдеров.
// Единственный экструдер называется "Hotend", несколько — "Tool N".
// Неположительное число экструдеров дает пустой список.
func buildTools(count int) []models.ToolDescriptor {
	switch {
	case count <= 0:
		return nil
	case count == 1:
		return []models.ToolDescriptor{{Name: "Hotend", Key: "tool0"}}
	default:
		tools := make([]models.ToolDescriptor, count)
		for i := 0; i < count; i++ {
			tools[i] = models.ToolDescriptor{
				Name: fmt.Sprintf("Tool %d", i),
				Key:  fmt.Sprintf("tool%d", i),
			}
		}
		return tools
	}
}

// Tools возвращает копию текущего списка инструментов.
func (d *ToolSetDeriver) Tools() []models.ToolDescriptor {
	d.mu.Lock()
	defer d.mu.Unlock()
	out := make([]models.ToolDescriptor, len(d.tools))
	copy(out, d.tools)
	return out
}

// Close снимает все активные подписки.
func (d *ToolSetDeriver) Close() {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.unsubCount != nil {
		d.unsubCount()
		d.unsubCount = nil
	}
	if d.unsubProfile != nil {
		d.unsubProfile()
		d.unsubProfile = nil
	}
}
