// Package input translates accelerator strings ("Ctrl+F1", "Alt+K", "3")
// into tcell key chords and resolves incoming key events to button indices.
package input

import (
	"fmt"
	"strings"
	"unicode"

	"github.com/gdamore/tcell/v2"
)

// Chord is a parsed accelerator: a modifier mask plus either a special key
// or a rune binding.
type Chord struct {
	Mods tcell.ModMask
	Key  tcell.Key
	Rune rune
}

// Special key names accepted in accelerators, beyond F1-F12.
var specialKeys = map[string]tcell.Key{
	"enter":  tcell.KeyEnter,
	"tab":    tcell.KeyTab,
	"esc":    tcell.KeyEscape,
	"escape": tcell.KeyEscape,
	"space":  tcell.KeyRune, // matched via Rune ' '
	"up":     tcell.KeyUp,
	"down":   tcell.KeyDown,
	"left":   tcell.KeyLeft,
	"right":  tcell.KeyRight,
	"home":   tcell.KeyHome,
	"end":    tcell.KeyEnd,
	"pgup":   tcell.KeyPgUp,
	"pgdn":   tcell.KeyPgDn,
	"insert": tcell.KeyInsert,
	"delete": tcell.KeyDelete,
}

// ParseAccelerator parses strings like "Ctrl+Shift+F1", "Alt+K" or "5".
// Key names are case-insensitive; "+" separates parts with the key last.
func ParseAccelerator(accel string) (Chord, error) {
	var c Chord

	parts := strings.Split(accel, "+")
	if len(parts) == 0 || strings.TrimSpace(parts[len(parts)-1]) == "" {
		return c, fmt.Errorf("empty accelerator %q", accel)
	}

	keyPart := strings.TrimSpace(parts[len(parts)-1])
	for _, mod := range parts[:len(parts)-1] {
		switch strings.ToLower(strings.TrimSpace(mod)) {
		case "ctrl", "control":
			c.Mods |= tcell.ModCtrl
		case "alt":
			c.Mods |= tcell.ModAlt
		case "shift":
			c.Mods |= tcell.ModShift
		case "meta", "super", "cmd":
			c.Mods |= tcell.ModMeta
		default:
			return c, fmt.Errorf("unknown modifier %q in %q", mod, accel)
		}
	}

	lower := strings.ToLower(keyPart)

	// Function keys F1-F64 map contiguously from tcell.KeyF1.
	if len(lower) > 1 && lower[0] == 'f' {
		var n int
		if _, err := fmt.Sscanf(lower, "f%d", &n); err == nil && n >= 1 && n <= 64 {
			c.Key = tcell.KeyF1 + tcell.Key(n-1)
			return c, nil
		}
	}

	if k, ok := specialKeys[lower]; ok {
		if lower == "space" {
			c.Key = tcell.KeyRune
			c.Rune = ' '
			return c, nil
		}
		c.Key = k
		return c, nil
	}

	runes := []rune(keyPart)
	if len(runes) != 1 {
		return c, fmt.Errorf("unknown key %q in %q", keyPart, accel)
	}
	r := unicode.ToLower(runes[0])

	// Ctrl+letter arrives from the terminal as a control key, not a rune.
	if c.Mods&tcell.ModCtrl != 0 && r >= 'a' && r <= 'z' {
		c.Key = tcell.KeyCtrlA + tcell.Key(r-'a')
		c.Rune = 0
		return c, nil
	}

	c.Key = tcell.KeyRune
	c.Rune = r
	return c, nil
}

// Match reports whether a key event hits this chord. Shift is ignored for
// rune chords because the terminal already applies it to the rune itself.
func (c Chord) Match(ev *tcell.EventKey) bool {
	mods := ev.Modifiers()
	if c.Key == tcell.KeyRune {
		if ev.Key() != tcell.KeyRune {
			return false
		}
		if mods&(tcell.ModCtrl|tcell.ModAlt|tcell.ModMeta) != c.Mods&(tcell.ModCtrl|tcell.ModAlt|tcell.ModMeta) {
			return false
		}
		return unicode.ToLower(ev.Rune()) == c.Rune
	}

	if ev.Key() != c.Key {
		return false
	}
	// Control keys carry ModCtrl implicitly on some terminals; compare with
	// ctrl stripped when the chord itself encodes a control key.
	if c.Key >= tcell.KeyCtrlA && c.Key <= tcell.KeyCtrlZ {
		return mods&tcell.ModAlt == c.Mods&tcell.ModAlt
	}
	return mods == c.Mods
}

func (c Chord) String() string {
	var parts []string
	if c.Mods&tcell.ModCtrl != 0 {
		parts = append(parts, "Ctrl")
	}
	if c.Mods&tcell.ModAlt != 0 {
		parts = append(parts, "Alt")
	}
	if c.Mods&tcell.ModShift != 0 {
		parts = append(parts, "Shift")
	}
	if c.Mods&tcell.ModMeta != 0 {
		parts = append(parts, "Meta")
	}
	switch {
	case c.Key == tcell.KeyRune:
		parts = append(parts, strings.ToUpper(string(c.Rune)))
	case c.Key >= tcell.KeyCtrlA && c.Key <= tcell.KeyCtrlZ:
		parts = append(parts, strings.ToUpper(string(rune('a'+c.Key-tcell.KeyCtrlA))))
	case c.Key >= tcell.KeyF1 && c.Key <= tcell.KeyF64:
		parts = append(parts, fmt.Sprintf("F%d", int(c.Key-tcell.KeyF1)+1))
	default:
		parts = append(parts, tcell.KeyNames[c.Key])
	}
	return strings.Join(parts, "+")
}
