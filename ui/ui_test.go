package ui

import (
	"path/filepath"
	"runtime"
	"testing"
	"time"

	"github.com/gdamore/tcell/v2"

	"github.com/lixenwraith/cuecast/audio"
	"github.com/lixenwraith/cuecast/config"
	"github.com/lixenwraith/cuecast/input"
	"github.com/lixenwraith/cuecast/status"
)

// fakePlayer records engine calls so key handling can be asserted without an
// audio backend.
type fakePlayer struct {
	triggers    []audio.Button
	preloads    []string
	invalidates []string
	outputs     []string
	stopAlls    int
}

func (f *fakePlayer) Trigger(btn audio.Button) error {
	f.triggers = append(f.triggers, btn)
	return nil
}
func (f *fakePlayer) Preload(path string)    { f.preloads = append(f.preloads, path) }
func (f *fakePlayer) Invalidate(path string) { f.invalidates = append(f.invalidates, path) }
func (f *fakePlayer) SetOutput(id string)    { f.outputs = append(f.outputs, id) }
func (f *fakePlayer) StopAll()               { f.stopAlls++ }
func (f *fakePlayer) ActiveVoices() int      { return 0 }

func testUI(t *testing.T, hotkeys map[string]int) (*UI, *fakePlayer, *config.Store) {
	t.Helper()

	screen := tcell.NewSimulationScreen("UTF-8")
	if err := screen.Init(); err != nil {
		t.Fatalf("sim screen: %v", err)
	}
	screen.SetSize(80, 24)
	t.Cleanup(screen.Fini)

	store, err := config.Load(filepath.Join(t.TempDir(), "config.json"))
	if err != nil {
		t.Fatalf("config: %v", err)
	}
	cfg := store.Get()
	cfg.Buttons[0] = config.ButtonConfig{Label: "Kick", Path: "/sounds/kick.wav", Gain: 0.9}
	cfg.Buttons[2] = config.ButtonConfig{Label: "Horn", Path: "/sounds/horn.wav", Gain: 1.0}
	if _, err := store.Update(config.Patch{Buttons: cfg.Buttons, Hotkeys: hotkeys}); err != nil {
		t.Fatalf("config update: %v", err)
	}

	disp, err := input.NewDispatcher(hotkeys)
	if err != nil {
		t.Fatalf("dispatcher: %v", err)
	}

	player := &fakePlayer{}
	u := New(screen, player, store, disp, status.NewRegistry())
	return u, player, store
}

func key(k tcell.Key, r rune, mods tcell.ModMask) *tcell.EventKey {
	return tcell.NewEventKey(k, r, mods)
}

func TestDigitKeyTriggersButton(t *testing.T) {
	u, player, _ := testUI(t, nil)

	u.handleKey(key(tcell.KeyRune, '1', tcell.ModNone))

	if len(player.triggers) != 1 {
		t.Fatalf("expected 1 trigger, got %d", len(player.triggers))
	}
	got := player.triggers[0]
	if got.Path != "/sounds/kick.wav" || got.Label != "Kick" || got.Gain != 0.9 {
		t.Errorf("unexpected trigger %+v", got)
	}
}

func TestUnassignedButtonDoesNotTrigger(t *testing.T) {
	u, player, _ := testUI(t, nil)

	u.handleKey(key(tcell.KeyRune, '2', tcell.ModNone)) // button 2 is unassigned

	if len(player.triggers) != 0 {
		t.Errorf("unassigned button must not reach the engine, got %v", player.triggers)
	}
}

func TestHotkeyTakesPrecedence(t *testing.T) {
	// Bind the rune '1' to button 3; the built-in digit binding must lose.
	u, player, _ := testUI(t, map[string]int{"1": 2})

	u.handleKey(key(tcell.KeyRune, '1', tcell.ModNone))

	if len(player.triggers) != 1 {
		t.Fatalf("expected 1 trigger, got %d", len(player.triggers))
	}
	if player.triggers[0].Path != "/sounds/horn.wav" {
		t.Errorf("expected the hotkey target, got %+v", player.triggers[0])
	}
}

func TestFunctionHotkeyTriggers(t *testing.T) {
	u, player, _ := testUI(t, map[string]int{"Ctrl+F1": 0})

	u.handleKey(key(tcell.KeyF1, 0, tcell.ModCtrl))

	if len(player.triggers) != 1 || player.triggers[0].Path != "/sounds/kick.wav" {
		t.Errorf("expected Ctrl+F1 to play button 1, got %v", player.triggers)
	}
}

func TestEnterTriggersSelection(t *testing.T) {
	u, player, _ := testUI(t, nil)

	u.handleKey(key(tcell.KeyRight, 0, tcell.ModNone))
	u.handleKey(key(tcell.KeyRight, 0, tcell.ModNone))
	u.handleKey(key(tcell.KeyEnter, 0, tcell.ModNone))

	if len(player.triggers) != 1 || player.triggers[0].Path != "/sounds/horn.wav" {
		t.Errorf("expected selection trigger of button 3, got %v", player.triggers)
	}
}

func TestStopAllKey(t *testing.T) {
	u, player, _ := testUI(t, nil)

	u.handleKey(key(tcell.KeyRune, 's', tcell.ModNone))

	if player.stopAlls != 1 {
		t.Errorf("expected 1 stop-all, got %d", player.stopAlls)
	}
}

func TestQuitKeys(t *testing.T) {
	for _, ev := range []*tcell.EventKey{
		key(tcell.KeyRune, 'q', tcell.ModNone),
		key(tcell.KeyEscape, 0, tcell.ModNone),
		key(tcell.KeyCtrlC, 0, tcell.ModCtrl),
	} {
		u, _, _ := testUI(t, nil)
		u.handleKey(ev)
		if !u.quit {
			t.Errorf("expected quit after %v", ev.Key())
		}
	}
}

func TestAssignFlow(t *testing.T) {
	u, player, store := testUI(t, nil)

	// Open the prompt on button 1 (already assigned to kick.wav).
	u.handleKey(key(tcell.KeyRune, 'a', tcell.ModNone))
	if u.prompt == nil {
		t.Fatal("expected an open prompt")
	}

	// Replace the prefilled path entirely, type a new one, commit.
	u.handleKey(key(tcell.KeyCtrlU, 0, tcell.ModCtrl))
	for _, r := range "/sounds/new.wav" {
		u.handleKey(key(tcell.KeyRune, r, tcell.ModNone))
	}
	u.handleKey(key(tcell.KeyEnter, 0, tcell.ModNone))

	if u.prompt != nil {
		t.Error("expected prompt closed after commit")
	}
	if len(player.invalidates) != 1 || player.invalidates[0] != "/sounds/kick.wav" {
		t.Errorf("expected old path invalidated, got %v", player.invalidates)
	}
	if len(player.preloads) != 1 || player.preloads[0] != "/sounds/new.wav" {
		t.Errorf("expected new path preloaded, got %v", player.preloads)
	}

	got := store.Get().Buttons[0]
	if got.Path != "/sounds/new.wav" {
		t.Errorf("expected persisted path, got %q", got.Path)
	}
	if got.Label != "new" {
		t.Errorf("expected label derived from filename, got %q", got.Label)
	}
}

func TestAssignCancelKeepsButton(t *testing.T) {
	u, player, store := testUI(t, nil)

	u.handleKey(key(tcell.KeyRune, 'a', tcell.ModNone))
	u.handleKey(key(tcell.KeyEscape, 0, tcell.ModNone))

	if u.prompt != nil {
		t.Error("expected prompt closed after cancel")
	}
	if len(player.invalidates) != 0 {
		t.Errorf("cancel must not invalidate, got %v", player.invalidates)
	}
	if got := store.Get().Buttons[0].Path; got != "/sounds/kick.wav" {
		t.Errorf("cancel must keep the assignment, got %q", got)
	}
}

func TestPromptSwallowsHotkeys(t *testing.T) {
	u, player, _ := testUI(t, nil)

	u.handleKey(key(tcell.KeyRune, 'a', tcell.ModNone))
	u.handleKey(key(tcell.KeyRune, '1', tcell.ModNone)) // edits the prompt, no trigger

	if len(player.triggers) != 0 {
		t.Errorf("prompt input must not trigger buttons, got %v", player.triggers)
	}
	u.handleKey(key(tcell.KeyEscape, 0, tcell.ModNone))
}

func TestGainAdjustClamps(t *testing.T) {
	u, _, store := testUI(t, nil)

	for loopIdx := 0; loopIdx < 20; loopIdx++ {
		u.handleKey(key(tcell.KeyRune, ']', tcell.ModNone))
	}
	if got := store.Get().Buttons[0].Gain; got != 2.0 {
		t.Errorf("expected gain clamped at 2.0, got %f", got)
	}

	for loopIdx := 0; loopIdx < 30; loopIdx++ {
		u.handleKey(key(tcell.KeyRune, '[', tcell.ModNone))
	}
	if got := store.Get().Buttons[0].Gain; got != 0.1 {
		t.Errorf("expected gain clamped at 0.1, got %f", got)
	}
}

func TestMouseClickTriggers(t *testing.T) {
	u, player, _ := testUI(t, nil)
	u.draw() // establish geometry on the simulation screen

	// Cell (0,0) starts at the grid top-left corner.
	u.handleMouse(tcell.NewEventMouse(1, gridTop, tcell.Button1, tcell.ModNone))

	if len(player.triggers) != 1 || player.triggers[0].Path != "/sounds/kick.wav" {
		t.Errorf("expected click on button 1 to trigger, got %v", player.triggers)
	}
	if u.sel != 0 {
		t.Errorf("expected click to move selection, got %d", u.sel)
	}
}

func TestMouseClickOnGapIgnored(t *testing.T) {
	u, player, _ := testUI(t, nil)
	u.draw()

	u.handleMouse(tcell.NewEventMouse(0, 0, tcell.Button1, tcell.ModNone)) // title row

	if len(player.triggers) != 0 {
		t.Errorf("title row click must not trigger, got %v", player.triggers)
	}
}

func TestRunReleasesRepaintGoroutine(t *testing.T) {
	u, _, _ := testUI(t, nil)
	sim := u.screen.(tcell.SimulationScreen)

	before := runtime.NumGoroutine()
	done := make(chan struct{})
	go func() {
		u.Run()
		close(done)
	}()

	sim.InjectKey(tcell.KeyRune, 'q', tcell.ModNone)
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Run did not return on quit")
	}

	// The repaint goroutine must wind down once Run returns.
	deadline := time.Now().Add(time.Second)
	for runtime.NumGoroutine() > before && time.Now().Before(deadline) {
		time.Sleep(10 * time.Millisecond)
	}
	if got := runtime.NumGoroutine(); got > before {
		t.Errorf("goroutines leaked after Run returned: %d > %d", got, before)
	}
}

func TestPromptDrawMultibyteLabel(t *testing.T) {
	u, _, _ := testUI(t, nil)

	label := "fájl für 1: "
	p := newPrompt(label, "abc")
	p.draw(u.screen, 0, 0, 60)

	// The entered text starts right after the label, measured in cells.
	cells := len([]rune(label))
	if got, _, _, _ := u.screen.GetContent(cells, 0); got != 'a' {
		t.Errorf("expected text at cell %d after multibyte label, got %q", cells, got)
	}
	if got, _, _, _ := u.screen.GetContent(cells-1, 0); got != ' ' {
		t.Errorf("expected label to end at cell %d, got %q", cells-1, got)
	}
}

func TestMoveSelectionStaysInGrid(t *testing.T) {
	u, _, _ := testUI(t, nil)

	u.handleKey(key(tcell.KeyLeft, 0, tcell.ModNone)) // already at column 0
	if u.sel != 0 {
		t.Errorf("expected selection pinned at 0, got %d", u.sel)
	}

	// Walk to the far corner; further moves are ignored.
	for loopIdx := 0; loopIdx < 10; loopIdx++ {
		u.handleKey(key(tcell.KeyRight, 0, tcell.ModNone))
		u.handleKey(key(tcell.KeyDown, 0, tcell.ModNone))
	}
	if u.sel != config.DefaultButtonCount-1 {
		t.Errorf("expected selection at last button, got %d", u.sel)
	}
}
