package input

import (
	"fmt"
	"sort"

	"github.com/gdamore/tcell/v2"
)

// Dispatcher resolves key events to button indices using the configured
// accelerator map. Bindings are parsed once at (re)bind time so the event
// path does no string work.
type Dispatcher struct {
	bindings []binding
}

type binding struct {
	accel string
	chord Chord
	index int
}

// NewDispatcher parses the accelerator map. Unparseable accelerators fail
// loudly: a silently dead hotkey is worse than a startup error.
func NewDispatcher(hotkeys map[string]int) (*Dispatcher, error) {
	d := &Dispatcher{}
	if err := d.Rebind(hotkeys); err != nil {
		return nil, err
	}
	return d, nil
}

// Rebind replaces all bindings, e.g. after a config update.
func (d *Dispatcher) Rebind(hotkeys map[string]int) error {
	bindings := make([]binding, 0, len(hotkeys))
	for accel, index := range hotkeys {
		chord, err := ParseAccelerator(accel)
		if err != nil {
			return fmt.Errorf("hotkey %q: %w", accel, err)
		}
		bindings = append(bindings, binding{accel: accel, chord: chord, index: index})
	}
	// Deterministic resolution order when accelerators collide.
	sort.Slice(bindings, func(i, j int) bool { return bindings[i].accel < bindings[j].accel })
	d.bindings = bindings
	return nil
}

// Resolve returns the button index bound to the event, if any.
func (d *Dispatcher) Resolve(ev *tcell.EventKey) (int, bool) {
	for _, b := range d.bindings {
		if b.chord.Match(ev) {
			return b.index, true
		}
	}
	return 0, false
}

// AccelFor returns the accelerator string bound to a button index, for
// display on the grid.
func (d *Dispatcher) AccelFor(index int) (string, bool) {
	for _, b := range d.bindings {
		if b.index == index {
			return b.accel, true
		}
	}
	return "", false
}
