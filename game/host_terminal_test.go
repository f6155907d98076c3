package game

import (
	"context"
	"testing"
	"time"

	"github.com/gdamore/tcell/v2"
)

func newTestTerminalHost(t *testing.T) *TerminalHost {
	t.Helper()
	screen := tcell.NewSimulationScreen("UTF-8")
	if err := screen.Init(); err != nil {
		t.Fatalf("screen init: %v", err)
	}
	t.Cleanup(screen.Fini)
	screen.SetSize(80, 24)
	return NewTerminalHost(screen, NewKeymap(testSections()), 0)
}

func TestTerminalHostKeys(t *testing.T) {
	h := newTestTerminalHost(t)
	h.handle(tcell.NewEventKey(tcell.KeyRune, '3', tcell.ModNone))
	h.handle(tcell.NewEventKey(tcell.KeyRune, 'e', tcell.ModNone))
	h.handle(tcell.NewEventKey(tcell.KeyRune, 'x', tcell.ModNone))
	h.handle(tcell.NewEventKey(tcell.KeyDown, 0, tcell.ModNone))
	h.handle(tcell.NewEventKey(tcell.KeyEscape, 0, tcell.ModNone))

	got := h.Commands()
	want := []CommandKind{CmdSection, CmdForceTier, CmdScroll, CmdQuit}
	if len(got) != len(want) {
		t.Fatalf("got %d commands, want %d: %+v", len(got), len(want), got)
	}
	for i, k := range want {
		if got[i].Kind != k {
			t.Errorf("command %d kind = %d, want %d", i, got[i].Kind, k)
		}
	}
	if got[0].Section != 2 {
		t.Errorf("section = %d, want 2", got[0].Section)
	}
	if got[2].Scroll != scrollStep {
		t.Errorf("scroll = %v, want %v", got[2].Scroll, scrollStep)
	}
	if len(h.Commands()) != 0 {
		t.Error("Commands() should drain the queue")
	}
}

func TestTerminalHostMouse(t *testing.T) {
	h := newTestTerminalHost(t)

	h.handle(tcell.NewEventMouse(40, 12, tcell.ButtonNone, tcell.ModNone))
	p := h.Pointer()
	if !p.Present {
		t.Fatal("pointer should be present")
	}
	if p.X <= 0 || p.X > 0.05 || p.Y >= 0 || p.Y < -0.1 {
		t.Errorf("pointer = (%v, %v), want just right of and below centre", p.X, p.Y)
	}

	h.handle(tcell.NewEventMouse(0, 0, tcell.WheelUp, tcell.ModNone))
	cmds := h.Commands()
	if len(cmds) != 1 || cmds[0].Kind != CmdScroll || cmds[0].Scroll != -scrollStep {
		t.Errorf("wheel up = %+v, want one scroll of %v", cmds, -scrollStep)
	}
	if p := h.Pointer(); p.X >= -0.9 || p.Y <= 0.9 {
		t.Errorf("corner pointer = (%v, %v), want top-left", p.X, p.Y)
	}

	h.handle(tcell.NewEventMouse(200, 5, tcell.ButtonNone, tcell.ModNone))
	if h.Pointer().Present {
		t.Error("pointer outside the screen should be absent")
	}
}

func TestTerminalHostFocus(t *testing.T) {
	h := newTestTerminalHost(t)
	if !h.Visible() {
		t.Fatal("host should start visible")
	}
	h.handle(tcell.NewEventFocus(false))
	if h.Visible() {
		t.Error("focus lost should hide the host")
	}
	h.handle(tcell.NewEventFocus(true))
	if !h.Visible() {
		t.Error("focus gained should show the host")
	}
}

func TestTerminalHostWaitBlocksWhileHidden(t *testing.T) {
	h := newTestTerminalHost(t)
	h.ticker = time.NewTicker(time.Hour)

	h.events <- tcell.NewEventFocus(false)
	if !h.Wait(context.Background()) {
		t.Fatal("Wait should report the focus loss")
	}
	if h.Visible() {
		t.Fatal("host should be hidden")
	}

	// Fast ticks must not wake a hidden host
	h.ticker.Stop()
	h.ticker = time.NewTicker(time.Millisecond)
	t.Cleanup(h.ticker.Stop)
	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	if h.Wait(ctx) {
		t.Fatal("hidden Wait returned on a tick")
	}

	h.events <- tcell.NewEventKey(tcell.KeyEscape, 0, tcell.ModNone)
	if !h.Wait(context.Background()) {
		t.Fatal("Wait should return for a queued command")
	}
	if cmds := h.Commands(); len(cmds) != 1 || cmds[0].Kind != CmdQuit {
		t.Errorf("commands = %+v, want quit", cmds)
	}

	h.events <- tcell.NewEventFocus(true)
	if !h.Wait(context.Background()) || !h.Visible() {
		t.Error("focus gained should wake the host visible")
	}
}
