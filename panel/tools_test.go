package panel

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/iwtcode/printerPanel/models"
)

func TestSingleExtruderYieldsHotend(t *testing.T) {
	profile := NewPrinterProfile("p1", "Default", 1)
	current := NewValue(profile)

	d := NewToolSetDeriver(current)
	defer d.Close()

	require.Equal(t, []models.ToolDescriptor{{Name: "Hotend", Key: "tool0"}}, d.Tools())
}

func TestMultipleExtrudersYieldOrderedTools(t *testing.T) {
	profile := NewPrinterProfile("p1", "Quad", 4)
	current := NewValue(profile)

	d := NewToolSetDeriver(current)
	defer d.Close()

	tools := d.Tools()
	require.Len(t, tools, 4)
	for i, tool := range tools {
		require.Equal(t, models.ToolDescriptor{
			Name: "Tool " + string(rune('0'+i)),
			Key:  "tool" + string(rune('0'+i)),
		}, tool, "Инструменты должны идти в порядке индексов")
	}
}

func TestNonPositiveExtruderCountYieldsEmptyList(t *testing.T) {
	profile := NewPrinterProfile("p1", "Broken", 0)
	current := NewValue(profile)

	d := NewToolSetDeriver(current)
	defer d.Close()

	require.Empty(t, d.Tools(), "Неположительное число экструдеров дает пустой список")
}

func TestCountChangeRebuildsToolList(t *testing.T) {
	profile := NewPrinterProfile("p1", "Default", 1)
	current := NewValue(profile)

	d := NewToolSetDeriver(current)
	defer d.Close()

	profile.Extruder.Set(2)

	tools := d.Tools()
	require.Len(t, tools, 2)
	require.Equal(t, "Tool 0", tools[0].Name)
	require.Equal(t, "Tool 1", tools[1].Name)
}

func TestProfileSwapReleasesStaleCountSubscription(t *testing.T) {
	oldProfile := NewPrinterProfile("p1", "Old", 2)
	newProfile := NewPrinterProfile("p2", "New", 1)
	current := NewValue(oldProfile)

	d := NewToolSetDeriver(current)
	defer d.Close()

	current.Set(newProfile)
	require.Equal(t, []models.ToolDescriptor{{Name: "Hotend", Key: "tool0"}}, d.Tools())

	// Изменение счетчика старого профиля не должно влиять на список.
	oldProfile.Extruder.Set(5)
	require.Equal(t, []models.ToolDescriptor{{Name: "Hotend", Key: "tool0"}}, d.Tools(),
		"Подписка на счетчик старого профиля должна быть снята при смене профиля")
}

func TestNilProfileYieldsEmptyList(t *testing.T) {
	current := NewValue[*PrinterProfile](nil)

	d := NewToolSetDeriver(current)
	defer d.Close()

	require.Empty(t, d.Tools())
}
