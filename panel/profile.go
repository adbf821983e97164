package panel

// Axis описывает настройки одной оси активного профиля принтера.
type Axis struct {
	Inverted bool `json:"inverted"`
}

// PrinterProfile представляет активный профиль принтера. Панель только
// читает профиль, никогда не изменяет его. Количество экструдеров —
// наблюдаемое значение: оно может меняться без смены самого профиля.
type PrinterProfile struct {
	ID       string
	Name     string
	Axes     map[string]Axis
	Extruder *Value[int]
}

// NewPrinterProfile создает профиль с заданным числом экструдеров.
func NewPrinterProfile(id, name string, extruderCount int) *PrinterProfile {
	return &PrinterProfile{
		ID:       id,
		Name:     name,
		Axes:     make(map[string]Axis),
		Extruder: NewValue(extruderCount),
	}
}

// AxisInverted сообщает, инвертирована ли ось в профиле.
// Отсутствующий профиль или неизвестная ось считаются неинвертированными.
func (p *PrinterProfile) AxisInverted(axis string) bool {
	if p == nil {
		return false
	}
	return p.Axes[axis].Inverted
}
