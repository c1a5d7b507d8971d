package ui

import (
	"github.com/gdamore/tcell/v2"
)

// prompt is a single-line text editor for path entry.
type prompt struct {
	label string
	text  []rune
	pos   int
}

func newPrompt(label, initial string) *prompt {
	p := &prompt{label: label, text: []rune(initial)}
	p.pos = len(p.text)
	return p
}

// handlePromptKey routes keys while a prompt is open. Enter commits, Esc
// cancels; everything else edits the line.
func (u *UI) handlePromptKey(ev *tcell.EventKey) {
	p := u.prompt
	switch ev.Key() {
	case tcell.KeyEnter:
		u.prompt = nil
		u.commitAssign(string(p.text))
	case tcell.KeyEscape, tcell.KeyCtrlC:
		u.prompt = nil
	case tcell.KeyBackspace, tcell.KeyBackspace2:
		if p.pos > 0 {
			p.text = append(p.text[:p.pos-1], p.text[p.pos:]...)
			p.pos--
		}
	case tcell.KeyDelete:
		if p.pos < len(p.text) {
			p.text = append(p.text[:p.pos], p.text[p.pos+1:]...)
		}
	case tcell.KeyLeft:
		if p.pos > 0 {
			p.pos--
		}
	case tcell.KeyRight:
		if p.pos < len(p.text) {
			p.pos++
		}
	case tcell.KeyHome, tcell.KeyCtrlA:
		p.pos = 0
	case tcell.KeyEnd, tcell.KeyCtrlE:
		p.pos = len(p.text)
	case tcell.KeyCtrlU:
		p.text = p.text[:0]
		p.pos = 0
	case tcell.KeyRune:
		p.text = append(p.text[:p.pos], append([]rune{ev.Rune()}, p.text[p.pos:]...)...)
		p.pos++
	}
}

func (p *prompt) draw(s tcell.Screen, x, y, maxW int) {
	labelW := len([]rune(p.label))
	drawTextClipped(s, x, y, maxW, tcell.StyleDefault.Bold(true), p.label)
	tx := x + labelW
	drawTextClipped(s, tx, y, maxW-labelW, tcell.StyleDefault, string(p.text))
	s.ShowCursor(tx+p.pos, y)
}
