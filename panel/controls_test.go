package panel

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/iwtcode/printerPanel/models"
)

func TestNormalizeSeedsParametricValues(t *testing.T) {
	raw := []models.CustomControl{{
		Name:    "Fan Speed",
		Type:    models.ControlTypeParametricCommand,
		Command: "M106 S%(speed)s",
		Input:   []models.ControlInput{{Parameter: "speed", Default: 50}},
	}}

	controls, _ := Normalize(raw)

	require.Len(t, controls, 1)
	require.Len(t, controls[0].Input, 1)
	require.Equal(t, "speed", controls[0].Input[0].Parameter)
	require.Equal(t, 50, controls[0].Input[0].Default, "Default не должен изменяться")
	require.Equal(t, 50, controls[0].Input[0].Value, "Value должен быть заполнен из Default")

	// Вход остается нетронутым: нормализация чистая.
	require.Nil(t, raw[0].Input[0].Value, "Сырое дерево не должно мутироваться")
}

func TestNormalizeRegistersFeedbackSlot(t *testing.T) {
	raw := []models.CustomControl{{
		Name: "temp",
		Type: models.ControlTypeFeedback,
	}}

	controls, registry := Normalize(raw)

	slot, ok := registry.Lookup("temp")
	require.True(t, ok, "Слот должен быть зарегистрирован под именем контрола")
	require.Equal(t, "", slot.Output(), "Слот инициализируется пустой строкой")
	require.Same(t, slot, controls[0].Output)

	require.True(t, registry.Update(models.FeedbackUpdate{Name: "temp", Output: "200C"}))
	require.Equal(t, "200C", slot.Output())

	require.False(t, registry.Update(models.FeedbackUpdate{Name: "unknown", Output: "x"}),
		"Обновление незарегистрированного имени — молчаливый no-op")
}

func TestNormalizeRecursesIntoNestedSections(t *testing.T) {
	raw := []models.CustomControl{{
		Name: "Outer",
		Type: models.ControlTypeSection,
		Children: []models.CustomControl{{
			Name: "Inner",
			Type: models.ControlTypeSection,
			Children: []models.CustomControl{{
				Name:    "bed_temp",
				Type:    models.ControlTypeFeedbackCommand,
				Command: "M105",
			}},
		}},
	}}

	controls, registry := Normalize(raw)

	slot, ok := registry.Lookup("bed_temp")
	require.True(t, ok, "Глубоко вложенный feedback-контрол должен быть зарегистрирован")

	nested := controls[0].Children[0].Children[0]
	require.Same(t, slot, nested.Output)

	registry.Update(models.FeedbackUpdate{Name: "bed_temp", Output: "60C"})
	require.Equal(t, "60C", nested.Output.Output())
}

func TestNormalizePassesUnknownTypesThrough(t *testing.T) {
	raw := []models.CustomControl{{Name: "mystery", Type: "hologram"}}

	controls, _ := Normalize(raw)

	require.Equal(t, "hologram", controls[0].Type)
	require.Nil(t, controls[0].Input)
	require.Nil(t, controls[0].Output)
	require.Equal(t, TemplateEmpty, TemplateFor(controls[0]),
		"Нераспознанный тип отображается пустым шаблоном")
}

func TestDuplicateFeedbackNamesLastRegistrationWins(t *testing.T) {
	raw := []models.CustomControl{
		{Name: "temp", Type: models.ControlTypeFeedback},
		{Name: "temp", Type: models.ControlTypeFeedback},
	}

	controls, registry := Normalize(raw)

	slot, ok := registry.Lookup("temp")
	require.True(t, ok)
	require.Same(t, slot, controls[1].Output, "Последняя регистрация перезаписывает предыдущую")

	registry.Update(models.FeedbackUpdate{Name: "temp", Output: "95C"})
	require.Equal(t, "95C", controls[1].Output.Output())
	require.Equal(t, "", controls[0].Output.Output(), "Вытесненный слот не обновляется")
}

func TestTemplateForCoversAllTypes(t *testing.T) {
	cases := map[string]TemplateID{
		models.ControlTypeCommand:            TemplateCommand,
		models.ControlTypeCommands:           TemplateCommands,
		models.ControlTypeParametricCommand:  TemplateParametricCommand,
		models.ControlTypeParametricCommands: TemplateParametricCommands,
		models.ControlTypeFeedbackCommand:    TemplateFeedbackCommand,
		models.ControlTypeFeedback:           TemplateFeedback,
		models.ControlTypeSection:            TemplateSection,
		"":                                   TemplateEmpty,
	}

	for controlType, want := range cases {
		require.Equal(t, want, TemplateFor(&Control{Type: controlType}))
	}
}
