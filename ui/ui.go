// Package ui renders the button grid and drives the engine from mouse and
// keyboard events. It owns the terminal for the lifetime of Run.
package ui

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/gdamore/tcell/v2"

	"github.com/lixenwraith/cuecast/audio"
	"github.com/lixenwraith/cuecast/config"
	"github.com/lixenwraith/cuecast/input"
	"github.com/lixenwraith/cuecast/status"
)

// Player is the engine surface the UI drives. Satisfied by *audio.Engine;
// narrowed to an interface so UI tests can run against a fake.
type Player interface {
	Trigger(btn audio.Button) error
	Preload(path string)
	Invalidate(path string)
	SetOutput(deviceID string)
	StopAll()
	ActiveVoices() int
}

// redrawInterval paces the periodic repaint that keeps the voice counter and
// status message fresh between input events.
const redrawInterval = 100 * time.Millisecond

// UI is the interactive soundboard screen.
type UI struct {
	screen  tcell.Screen
	player  Player
	store   *config.Store
	disp    *input.Dispatcher
	reg     *status.Registry
	cfg     config.AppConfig
	devices []audio.Device
	devIdx  int // index into devices+1 cycle; 0 = system default
	sel     int
	prompt  *prompt
	quit    bool
}

// New builds the UI over an initialized screen.
func New(screen tcell.Screen, player Player, store *config.Store, disp *input.Dispatcher, reg *status.Registry) *UI {
	u := &UI{
		screen: screen,
		player: player,
		store:  store,
		disp:   disp,
		reg:    reg,
		cfg:    store.Get(),
	}
	if devs, err := audio.OutputDevices(); err == nil {
		u.devices = devs
		for i, d := range devs {
			if d.ID == u.cfg.OutputDeviceID {
				u.devIdx = i + 1
			}
		}
	}
	return u
}

// Run drives the event loop until quit. The caller owns screen Fini.
func (u *UI) Run() {
	u.screen.EnableMouse()

	ticker := time.NewTicker(redrawInterval)
	defer ticker.Stop()
	done := make(chan struct{})
	defer close(done)
	go func() {
		// Stop does not close the ticker channel; done ends the goroutine.
		for {
			select {
			case <-done:
				return
			case <-ticker.C:
				u.screen.PostEvent(tcell.NewEventInterrupt(nil))
			}
		}
	}()

	u.draw()
	for !u.quit {
		ev := u.screen.PollEvent()
		if ev == nil {
			return
		}
		switch ev := ev.(type) {
		case *tcell.EventResize:
			u.screen.Sync()
		case *tcell.EventInterrupt:
			// periodic repaint only
		case *tcell.EventMouse:
			u.handleMouse(ev)
		case *tcell.EventKey:
			u.handleKey(ev)
		}
		u.draw()
	}
}

func (u *UI) handleKey(ev *tcell.EventKey) {
	if u.prompt != nil {
		u.handlePromptKey(ev)
		return
	}

	// Configured hotkeys take precedence over built-in bindings.
	if idx, ok := u.disp.Resolve(ev); ok {
		u.triggerIndex(idx)
		return
	}

	switch ev.Key() {
	case tcell.KeyEscape, tcell.KeyCtrlC:
		u.quit = true
		return
	case tcell.KeyEnter:
		u.triggerIndex(u.sel)
		return
	case tcell.KeyUp:
		u.moveSelection(0, -1)
		return
	case tcell.KeyDown:
		u.moveSelection(0, 1)
		return
	case tcell.KeyLeft:
		u.moveSelection(-1, 0)
		return
	case tcell.KeyRight:
		u.moveSelection(1, 0)
		return
	}

	switch ev.Rune() {
	case 'q':
		u.quit = true
	case ' ':
		u.triggerIndex(u.sel)
	case 'h':
		u.moveSelection(-1, 0)
	case 'j':
		u.moveSelection(0, 1)
	case 'k':
		u.moveSelection(0, -1)
	case 'l':
		u.moveSelection(1, 0)
	case 's':
		u.player.StopAll()
	case 'a':
		u.beginAssign()
	case 'o':
		u.cycleOutput()
	case '[':
		u.adjustGain(-0.1)
	case ']':
		u.adjustGain(0.1)
	case '1', '2', '3', '4', '5', '6', '7', '8', '9':
		u.triggerIndex(int(ev.Rune() - '1'))
	case '0':
		u.triggerIndex(9)
	}
}

func (u *UI) handleMouse(ev *tcell.EventMouse) {
	if ev.Buttons()&tcell.Button1 == 0 {
		return
	}
	x, y := ev.Position()
	if idx, ok := u.buttonAt(x, y); ok {
		u.sel = idx
		u.triggerIndex(idx)
	}
}

// triggerIndex plays the button at idx, if it exists and is assigned.
func (u *UI) triggerIndex(idx int) {
	if idx < 0 || idx >= len(u.cfg.Buttons) {
		return
	}
	btn := u.cfg.Buttons[idx]
	// Unassigned buttons no-op inside the engine too; skipping here avoids
	// churning the status line.
	if btn.Path == "" {
		return
	}
	u.player.Trigger(audio.Button{
		Label: btn.Label,
		Path:  btn.Path,
		Gain:  btn.Gain,
	})
}

func (u *UI) moveSelection(dx, dy int) {
	cols := gridCols(len(u.cfg.Buttons))
	col := u.sel%cols + dx
	row := u.sel/cols + dy
	rows := (len(u.cfg.Buttons) + cols - 1) / cols
	if col < 0 || col >= cols || row < 0 || row >= rows {
		return
	}
	idx := row*cols + col
	if idx < len(u.cfg.Buttons) {
		u.sel = idx
	}
}

// beginAssign opens the path prompt for the selected button.
func (u *UI) beginAssign() {
	btn := u.cfg.Buttons[u.sel]
	u.prompt = newPrompt(fmt.Sprintf("file for button %d: ", u.sel+1), btn.Path)
}

// commitAssign applies a finished path prompt: drop the old decode, persist
// the new assignment, warm the cache for the new file.
func (u *UI) commitAssign(path string) {
	path = strings.TrimSpace(path)
	btn := u.cfg.Buttons[u.sel]

	if btn.Path != "" && btn.Path != path {
		u.player.Invalidate(btn.Path)
	}

	btn.Path = path
	if path != "" {
		base := filepath.Base(path)
		btn.Label = strings.TrimSuffix(base, filepath.Ext(base))
	} else {
		btn.Label = fmt.Sprintf("Button %d", u.sel+1)
	}

	cfg, err := u.store.SetButton(u.sel, btn)
	if err != nil {
		u.setMessage(fmt.Sprintf("save failed: %v", err))
		return
	}
	u.cfg = cfg

	if path != "" {
		u.player.Preload(path)
	}
}

func (u *UI) adjustGain(delta float64) {
	btn := u.cfg.Buttons[u.sel]
	btn.Gain += delta
	if btn.Gain < 0.1 {
		btn.Gain = 0.1
	}
	if btn.Gain > 2.0 {
		btn.Gain = 2.0
	}
	cfg, err := u.store.SetButton(u.sel, btn)
	if err != nil {
		u.setMessage(fmt.Sprintf("save failed: %v", err))
		return
	}
	u.cfg = cfg
}

// cycleOutput steps through default + enumerated devices and persists the
// choice. The bind itself is best-effort inside the engine.
func (u *UI) cycleOutput() {
	if len(u.devices) == 0 {
		u.setMessage("no output devices enumerated")
		return
	}
	u.devIdx = (u.devIdx + 1) % (len(u.devices) + 1)

	id := ""
	if u.devIdx > 0 {
		id = u.devices[u.devIdx-1].ID
	}
	u.player.SetOutput(id)

	cfg, err := u.store.Update(config.Patch{OutputDeviceID: &id})
	if err != nil {
		u.setMessage(fmt.Sprintf("save failed: %v", err))
		return
	}
	u.cfg = cfg
}

func (u *UI) setMessage(msg string) {
	u.reg.Strings.Get(status.KeyMessage).Store(msg)
}
