package panel

import (
	"context"
	"io"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"

	"github.com/iwtcode/printerPanel/models"
)

type fakeCommander struct {
	printHead chan any
	tool      chan any
	custom    chan any
}

func newFakeCommander() *fakeCommander {
	return &fakeCommander{
		printHead: make(chan any, 8),
		tool:      make(chan any, 8),
		custom:    make(chan any, 8),
	}
}

func (f *fakeCommander) SendPrintHeadCommand(_ context.Context, payload any) error {
	f.printHead <- payload
	return nil
}

func (f *fakeCommander) SendToolCommand(_ context.Context, payload any) error {
	f.tool <- payload
	return nil
}

func (f *fakeCommander) SendCustomCommand(_ context.Context, payload any) error {
	f.custom <- payload
	return nil
}

func testLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return logger
}

func waitPayload(t *testing.T, ch chan any) any {
	t.Helper()
	select {
	case payload := <-ch:
		return payload
	case <-time.After(time.Second):
		t.Fatal("Команда не была отправлена на транспортную границу")
		return nil
	}
}

func requireNoPayload(t *testing.T, ch chan any) {
	t.Helper()
	select {
	case payload := <-ch:
		t.Fatalf("Неожиданная отправка команды: %v", payload)
	case <-time.After(50 * time.Millisecond):
	}
}

func newTestDispatcher(profile *PrinterProfile) (*CommandDispatcher, *fakeCommander) {
	commander := newFakeCommander()
	d := NewCommandDispatcher(commander, NewValue(profile), 5, testLogger())
	return d, commander
}

func TestJogInvertedAxisNegatesMultiplier(t *testing.T) {
	profile := NewPrinterProfile("p1", "Default", 1)
	profile.Axes["x"] = Axis{Inverted: true}
	d, commander := newTestDispatcher(profile)

	d.JogDistance("x", 1, 10)

	payload := waitPayload(t, commander.printHead)
	require.Equal(t, models.JogPayload{"command": "jog", "x": -10.0}, payload)
}

func TestJogNonInvertedAxis(t *testing.T) {
	d, commander := newTestDispatcher(NewPrinterProfile("p1", "Default", 1))

	d.JogDistance("x", 1, 10)

	payload := waitPayload(t, commander.printHead)
	require.Equal(t, models.JogPayload{"command": "jog", "x": 10.0}, payload)
}

func TestJogWithoutDistanceUsesActivePreset(t *testing.T) {
	d, commander := newTestDispatcher(nil)

	// Активная предустановка по умолчанию — 10 мм.
	d.Jog("y", -1)
	require.Equal(t, models.JogPayload{"command": "jog", "y": -10.0}, waitPayload(t, commander.printHead))

	d.SelectDistance(0)
	d.Jog("y", 1)
	require.Equal(t, models.JogPayload{"command": "jog", "y": 0.1}, waitPayload(t, commander.printHead))
}

func TestSelectDistanceIgnoresOutOfRangeIndex(t *testing.T) {
	d, _ := newTestDispatcher(nil)

	d.SelectDistance(99)
	require.Equal(t, 10.0, d.ActiveDistance())
}

func TestHome(t *testing.T) {
	d, commander := newTestDispatcher(nil)

	d.Home("x", "y")

	payload := waitPayload(t, commander.printHead)
	require.Equal(t, models.HomePayload{Command: "home", Axes: []string{"x", "y"}}, payload)
}

func TestExtrudeFallsBackToDefaultLength(t *testing.T) {
	d, commander := newTestDispatcher(nil)

	d.Extrude()
	require.Equal(t, models.ExtrudePayload{Command: "extrude", Amount: 5}, waitPayload(t, commander.tool))

	d.Retract()
	require.Equal(t, models.ExtrudePayload{Command: "extrude", Amount: -5}, waitPayload(t, commander.tool),
		"Ретракт меняет знак величины подачи")

	d.SetExtrusionAmount(2.5)
	d.Extrude()
	require.Equal(t, models.ExtrudePayload{Command: "extrude", Amount: 2.5}, waitPayload(t, commander.tool))
}

func TestSelectToolWithoutKeyIsNoop(t *testing.T) {
	d, commander := newTestDispatcher(nil)

	d.SelectTool(models.ToolDescriptor{})
	requireNoPayload(t, commander.tool)

	d.SelectTool(models.ToolDescriptor{Name: "Tool 1", Key: "tool1"})
	require.Equal(t, models.SelectToolPayload{Command: "select", Tool: "tool1"}, waitPayload(t, commander.tool))
}

func TestCustomCommandVariants(t *testing.T) {
	d, commander := newTestDispatcher(nil)

	token, pending := d.CustomCommand(&Control{Type: models.ControlTypeCommand, Command: "M106 S255"})
	require.False(t, pending)
	require.Empty(t, token)
	require.Equal(t, &models.CommandPayload{Command: "M106 S255"}, waitPayload(t, commander.custom))

	d.CustomCommand(&Control{Type: models.ControlTypeCommands, Commands: []string{"G28", "G1 Z10"}})
	require.Equal(t, &models.CommandPayload{Commands: []string{"G28", "G1 Z10"}}, waitPayload(t, commander.custom))

	d.CustomCommand(&Control{
		Type:    models.ControlTypeParametricCommand,
		Command: "M104 S%(temp)s",
		Input:   []Input{{Parameter: "temp", Default: 210, Value: 215}},
	})
	require.Equal(t, &models.CommandPayload{
		Command:    "M104 S%(temp)s",
		Parameters: map[string]any{"temp": 215},
	}, waitPayload(t, commander.custom))

	// Секция не является командным контролом: отправлять нечего.
	_, pending = d.CustomCommand(&Control{Type: models.ControlTypeSection})
	require.False(t, pending)
	requireNoPayload(t, commander.custom)
}

func TestConfirmGateDefersSendUntilAcknowledged(t *testing.T) {
	d, commander := newTestDispatcher(nil)

	token, pending := d.CustomCommand(&Control{
		Type:    models.ControlTypeCommand,
		Command: "M112",
		Confirm: "Really stop everything?",
	})
	require.True(t, pending)
	require.NotEmpty(t, token)
	requireNoPayload(t, commander.custom)

	gotToken, message, ok := d.PendingConfirm()
	require.True(t, ok)
	require.Equal(t, token, gotToken)
	require.Equal(t, "Really stop everything?", message)

	require.True(t, d.Acknowledge(token))
	require.Equal(t, &models.CommandPayload{Command: "M112"}, waitPayload(t, commander.custom))

	// Повторное подтверждение не отправляет команду второй раз.
	require.False(t, d.Acknowledge(token))
	requireNoPayload(t, commander.custom)

	_, _, ok = d.PendingConfirm()
	require.False(t, ok, "Сработавший гейт должен быть снят")
}

func TestNewConfirmGateReplacesPreviousOne(t *testing.T) {
	d, commander := newTestDispatcher(nil)

	firstToken, _ := d.CustomCommand(&Control{
		Type: models.ControlTypeCommand, Command: "M81", Confirm: "Power off?",
	})
	secondToken, _ := d.CustomCommand(&Control{
		Type: models.ControlTypeCommand, Command: "M999", Confirm: "Reset?",
	})

	require.False(t, d.Acknowledge(firstToken), "Вытесненный гейт не должен срабатывать")
	requireNoPayload(t, commander.custom)

	require.True(t, d.Acknowledge(secondToken))
	require.Equal(t, &models.CommandPayload{Command: "M999"}, waitPayload(t, commander.custom))
}

type fakeConfirmer struct {
	message string
	ack     func()
}

func (f *fakeConfirmer) Confirm(message string, ack func()) {
	f.message = message
	f.ack = ack
}

func TestConfirmerAcknowledgmentFiresGate(t *testing.T) {
	d, commander := newTestDispatcher(nil)
	confirmer := &fakeConfirmer{}
	d.SetConfirmer(confirmer)

	d.CustomCommand(&Control{Type: models.ControlTypeCommand, Command: "G28", Confirm: "Home all?"})
	require.Equal(t, "Home all?", confirmer.message)
	requireNoPayload(t, commander.custom)

	confirmer.ack()
	require.Equal(t, &models.CommandPayload{Command: "G28"}, waitPayload(t, commander.custom))

	// Колбэк подтверждения идемпотентен.
	confirmer.ack()
	requireNoPayload(t, commander.custom)
}
