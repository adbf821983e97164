package printerpanel

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/iwtcode/printerPanel/models"
	"github.com/iwtcode/printerPanel/panel"
)

func newTestClient(t *testing.T, controlsJSON string) *Client {
	t.Helper()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(controlsJSON))
	}))
	t.Cleanup(server.Close)

	c, err := New(&Config{
		APIURL:                 server.URL,
		TimeoutMs:              2000,
		KeyboardControl:        true,
		DefaultExtrusionLength: 5,
		LogLevel:               "off",
	})
	require.NoError(t, err, "Не удалось создать клиента панели")
	t.Cleanup(c.Close)

	require.NoError(t, c.LoadControls(context.Background()), "Не удалось загрузить контролы")
	return c
}

func TestNewRequiresConfig(t *testing.T) {
	_, err := New(nil)
	require.Error(t, err)
}

func TestControlAtResolvesNestedPaths(t *testing.T) {
	c := newTestClient(t, `{"controls":[
		{"name":"Top","type":"command","command":"G28"},
		{"name":"Section","type":"section","children":[
			{"name":"Nested","type":"command","command":"M106"}
		]}
	]}`)

	top, ok := c.ControlAt([]int{0})
	require.True(t, ok)
	require.Equal(t, "Top", top.Name)

	nested, ok := c.ControlAt([]int{1, 0})
	require.True(t, ok)
	require.Equal(t, "Nested", nested.Name)

	_, ok = c.ControlAt([]int{1, 5})
	require.False(t, ok)
	_, ok = c.ControlAt(nil)
	require.False(t, ok)
}

func TestApplyFeedbackRoutesToRegisteredSlot(t *testing.T) {
	c := newTestClient(t, `{"controls":[{"name":"temp","type":"feedback"}]}`)

	c.ApplyFeedback(models.FeedbackUpdate{Name: "temp", Output: "210C"})

	slot, ok := c.Registry().Lookup("temp")
	require.True(t, ok)
	require.Equal(t, "210C", slot.Output())

	// Неизвестное имя — молчаливый no-op.
	c.ApplyFeedback(models.FeedbackUpdate{Name: "ghost", Output: "x"})
}

func TestSetProfileDrivesToolDerivation(t *testing.T) {
	c := newTestClient(t, `{"controls":[]}`)

	require.Empty(t, c.Tools(), "Без профиля список инструментов пуст")

	c.SetProfile(panel.NewPrinterProfile("p1", "Dual", 2))

	tools := c.Tools()
	require.Len(t, tools, 2)
	require.Equal(t, "tool0", tools[0].Key)
	require.Equal(t, "tool1", tools[1].Key)
}
