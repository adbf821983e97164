package panel

import (
	"sync"

	"github.com/iwtcode/printerPanel/models"
)

// StatusMirror хранит флаги состояния принтера, обновляемые из внешнего
// фида снапшотов. Флаги заменяются атомарно целой группой; снапшот без
// блока флагов молча игнорируется.
type StatusMirror struct {
	mu        sync.RWMutex
	flags     models.StatusFlags
	nextID    int
	listeners map[int]func(models.StatusFlags)
}

// NewStatusMirror создает зеркало состояния с незаполненными флагами.
func NewStatusMirror() *StatusMirror {
	return &StatusMirror{
		listeners: make(map[int]func(models.StatusFlags)),
	}
}

// ApplyCurrentData применяет снапшот из сообщения "current".
func (m *StatusMirror) ApplyCurrentData(data *models.StateData) {
	m.apply(data)
}

// ApplyHistoryData применяет снапшот из сообщения "history".
// Семантически идентично ApplyCurrentData.
func (m *StatusMirror) ApplyHistoryData(data *models.StateData) {
	m.apply(data)
}

func (m *StatusMirror) apply(data *models.StateData) {
	if data == nil || data.State == nil || data.State.Flags == nil {
		return
	}

	m.mu.Lock()
	m.flags = *data.State.Flags
	flags := m.flags
	fns := make([]func(models.StatusFlags), 0, len(m.listeners))
	for _, fn := range m.listeners {
		fns = append(fns, fn)
	}
	m.mu.Unlock()

	for _, fn := range fns {
		fn(flags)
	}
}

// Flags возвращает копию текущих флагов состояния.
func (m *StatusMirror) Flags() models.StatusFlags {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.flags
}

// IsOperational сообщает, готов ли принтер принимать команды.
func (m *StatusMirror) IsOperational() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.flags.Operational
}

// IsPrinting сообщает, выполняется ли печать.
func (m *StatusMirror) IsPrinting() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.flags.Printing
}

// Subscribe регистрирует подписчика, вызываемого после каждого применённого
// снапшота, и возвращает функцию отписки.
func (m *StatusMirror) Subscribe(fn func(models.StatusFlags)) func() {
	m.mu.Lock()
	id := m.nextID
	m.nextID++
	m.listeners[id] = fn
	m.mu.Unlock()

	return func() {
		m.mu.Lock()
		delete(m.listeners, id)
		m.mu.Unlock()
	}
}
