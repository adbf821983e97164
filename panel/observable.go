package panel

import "sync"

// Value хранит одно наблюдаемое значение и синхронно уведомляет
// подписчиков при каждой записи.
type Value[T any] struct {
	mu        sync.Mutex
	value     T
	nextID    int
	listeners map[int]func(T)
}

// NewValue создает наблюдаемое значение с начальным содержимым.
func NewValue[T any](initial T) *Value[T] {
	return &Value[T]{
		value:     initial,
		listeners: make(map[int]func(T)),
	}
}

// Get возвращает текущее значение.
func (v *Value[T]) Get() T {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.value
}

// Set записывает новое значение и уведомляет всех подписчиков.
// Уведомления выполняются вне блокировки, чтобы подписчик мог
// обращаться к значению из своего колбэка.
func (v *Value[T]) Set(val T) {
	v.mu.Lock()
	v.value = val
	fns := make([]func(T), 0, len(v.listeners))
	for _, fn := range v.listeners {
		fns = append(fns, fn)
	}
	v.mu.Unlock()

	for _, fn := range fns {
		fn(val)
	}
}

// Subscribe регистрирует подписчика и возвращает функцию отписки.
// Повторный вызов функции отписки безопасен.
func (v *Value[T]) Subscribe(fn func(T)) func() {
	v.mu.Lock()
	id := v.nextID
	v.nextID++
	v.listeners[id] = fn
	v.mu.Unlock()

	return func() {
		v.mu.Lock()
		delete(v.listeners, id)
		v.mu.Unlock()
	}
}
