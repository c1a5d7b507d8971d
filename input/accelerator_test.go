package input

import (
	"testing"

	"github.com/gdamore/tcell/v2"
)

func TestParseAccelerator(t *testing.T) {
	cases := []struct {
		accel string
		want  Chord
	}{
		{"F1", Chord{Key: tcell.KeyF1}},
		{"f12", Chord{Key: tcell.KeyF12}},
		{"Ctrl+F1", Chord{Mods: tcell.ModCtrl, Key: tcell.KeyF1}},
		{"Ctrl+Shift+F5", Chord{Mods: tcell.ModCtrl | tcell.ModShift, Key: tcell.KeyF5}},
		{"Alt+K", Chord{Mods: tcell.ModAlt, Key: tcell.KeyRune, Rune: 'k'}},
		{"5", Chord{Key: tcell.KeyRune, Rune: '5'}},
		{"Space", Chord{Key: tcell.KeyRune, Rune: ' '}},
		{"Enter", Chord{Key: tcell.KeyEnter}},
		{"Ctrl+p", Chord{Mods: tcell.ModCtrl, Key: tcell.KeyCtrlP}},
		{"meta+x", Chord{Mods: tcell.ModMeta, Key: tcell.KeyRune, Rune: 'x'}},
	}

	for _, tc := range cases {
		got, err := ParseAccelerator(tc.accel)
		if err != nil {
			t.Errorf("%q: unexpected error %v", tc.accel, err)
			continue
		}
		if got != tc.want {
			t.Errorf("%q: got %+v, want %+v", tc.accel, got, tc.want)
		}
	}
}

func TestParseAcceleratorErrors(t *testing.T) {
	for _, accel := range []string{"", "Ctrl+", "Hyper+X", "Ctrl+Banana", "F99"} {
		if _, err := ParseAccelerator(accel); err == nil {
			t.Errorf("%q: expected parse error", accel)
		}
	}
}

func TestChordMatch(t *testing.T) {
	cases := []struct {
		accel string
		ev    *tcell.EventKey
		want  bool
	}{
		{"F1", tcell.NewEventKey(tcell.KeyF1, 0, tcell.ModNone), true},
		{"F1", tcell.NewEventKey(tcell.KeyF2, 0, tcell.ModNone), false},
		{"F1", tcell.NewEventKey(tcell.KeyF1, 0, tcell.ModCtrl), false},
		{"Ctrl+F1", tcell.NewEventKey(tcell.KeyF1, 0, tcell.ModCtrl), true},
		{"k", tcell.NewEventKey(tcell.KeyRune, 'k', tcell.ModNone), true},
		// Shifted rune: the terminal upcases the rune, shift is not compared.
		{"k", tcell.NewEventKey(tcell.KeyRune, 'K', tcell.ModShift), true},
		{"k", tcell.NewEventKey(tcell.KeyRune, 'k', tcell.ModAlt), false},
		{"Alt+k", tcell.NewEventKey(tcell.KeyRune, 'k', tcell.ModAlt), true},
		// Ctrl+letter arrives as a control key with ModCtrl set.
		{"Ctrl+p", tcell.NewEventKey(tcell.KeyCtrlP, 0, tcell.ModCtrl), true},
		{"Ctrl+p", tcell.NewEventKey(tcell.KeyCtrlP, 0, tcell.ModCtrl|tcell.ModAlt), false},
		{"Space", tcell.NewEventKey(tcell.KeyRune, ' ', tcell.ModNone), true},
	}

	for _, tc := range cases {
		chord, err := ParseAccelerator(tc.accel)
		if err != nil {
			t.Fatalf("%q: %v", tc.accel, err)
		}
		if got := chord.Match(tc.ev); got != tc.want {
			t.Errorf("%q vs %v/%q/%v: got %v, want %v",
				tc.accel, tc.ev.Key(), string(tc.ev.Rune()), tc.ev.Modifiers(), got, tc.want)
		}
	}
}

func TestChordStringRoundTrip(t *testing.T) {
	for _, accel := range []string{"Ctrl+F1", "Alt+K", "F12", "Ctrl+P"} {
		chord, err := ParseAccelerator(accel)
		if err != nil {
			t.Fatalf("%q: %v", accel, err)
		}
		back, err := ParseAccelerator(chord.String())
		if err != nil {
			t.Fatalf("%q: re-parse of %q failed: %v", accel, chord.String(), err)
		}
		if back != chord {
			t.Errorf("%q: round trip %q changed chord: %+v vs %+v", accel, chord.String(), chord, back)
		}
	}
}

func TestDispatcherResolve(t *testing.T) {
	d, err := NewDispatcher(map[string]int{
		"Ctrl+F1": 0,
		"F2":      1,
		"Alt+K":   7,
	})
	if err != nil {
		t.Fatalf("dispatcher: %v", err)
	}

	if idx, ok := d.Resolve(tcell.NewEventKey(tcell.KeyF1, 0, tcell.ModCtrl)); !ok || idx != 0 {
		t.Errorf("Ctrl+F1: got (%d,%v)", idx, ok)
	}
	if idx, ok := d.Resolve(tcell.NewEventKey(tcell.KeyF2, 0, tcell.ModNone)); !ok || idx != 1 {
		t.Errorf("F2: got (%d,%v)", idx, ok)
	}
	if idx, ok := d.Resolve(tcell.NewEventKey(tcell.KeyRune, 'k', tcell.ModAlt)); !ok || idx != 7 {
		t.Errorf("Alt+K: got (%d,%v)", idx, ok)
	}
	if _, ok := d.Resolve(tcell.NewEventKey(tcell.KeyF3, 0, tcell.ModNone)); ok {
		t.Error("unbound key must not resolve")
	}
}

func TestDispatcherRejectsBadAccelerator(t *testing.T) {
	if _, err := NewDispatcher(map[string]int{"Hyper+Q": 0}); err == nil {
		t.Error("expected dispatcher construction to fail on a bad accelerator")
	}
}

func TestDispatcherRebind(t *testing.T) {
	d, err := NewDispatcher(map[string]int{"F1": 0})
	if err != nil {
		t.Fatalf("dispatcher: %v", err)
	}
	if err := d.Rebind(map[string]int{"F2": 3}); err != nil {
		t.Fatalf("rebind: %v", err)
	}

	if _, ok := d.Resolve(tcell.NewEventKey(tcell.KeyF1, 0, tcell.ModNone)); ok {
		t.Error("old binding must be gone after rebind")
	}
	if idx, ok := d.Resolve(tcell.NewEventKey(tcell.KeyF2, 0, tcell.ModNone)); !ok || idx != 3 {
		t.Errorf("new binding: got (%d,%v)", idx, ok)
	}

	// A failed rebind keeps the previous bindings intact.
	if err := d.Rebind(map[string]int{"Bogus+X": 1}); err == nil {
		t.Fatal("expected rebind to fail")
	}
	if idx, ok := d.Resolve(tcell.NewEventKey(tcell.KeyF2, 0, tcell.ModNone)); !ok || idx != 3 {
		t.Errorf("bindings must survive failed rebind: got (%d,%v)", idx, ok)
	}
}

func TestAccelFor(t *testing.T) {
	d, err := NewDispatcher(map[string]int{"Ctrl+F1": 0, "F2": 1})
	if err != nil {
		t.Fatalf("dispatcher: %v", err)
	}
	if accel, ok := d.AccelFor(1); !ok || accel != "F2" {
		t.Errorf("got (%q,%v)", accel, ok)
	}
	if _, ok := d.AccelFor(9); ok {
		t.Error("unbound index must not report an accelerator")
	}
}
