package ui

import (
	"fmt"

	"github.com/gdamore/tcell/v2"

	"github.com/lixenwraith/cuecast/status"
)

const (
	gridTop    = 2 // rows above the grid: title + blank
	cellHeight = 4 // 3 content rows + 1 gap
	cellGap    = 1
)

var (
	styleTitle      = tcell.StyleDefault.Foreground(tcell.ColorYellow).Bold(true)
	styleCell       = tcell.StyleDefault.Foreground(tcell.ColorWhite).Background(tcell.ColorDarkBlue)
	styleCellEmpty  = tcell.StyleDefault.Foreground(tcell.ColorGray).Background(tcell.ColorBlack)
	styleCellSel    = tcell.StyleDefault.Foreground(tcell.ColorBlack).Background(tcell.ColorAqua)
	styleStatusBar  = tcell.StyleDefault.Foreground(tcell.ColorBlack).Background(tcell.ColorSilver)
	styleStatusText = tcell.StyleDefault.Foreground(tcell.ColorGreen)
)

// gridCols picks the column count for n buttons: 4 wide up to the default
// 16-button board, growing for larger grids.
func gridCols(n int) int {
	cols := 4
	for cols*cols < n {
		cols++
	}
	return cols
}

func (u *UI) draw() {
	u.screen.Clear()
	u.screen.HideCursor()
	w, h := u.screen.Size()

	drawText(u.screen, 0, 0, styleTitle, "CueCast")
	drawText(u.screen, 10, 0, tcell.StyleDefault,
		"enter/click: play  s: stop all  a: assign  o: output  [ ]: gain  q: quit")

	cols := gridCols(len(u.cfg.Buttons))
	cellW := (w - (cols-1)*cellGap) / cols
	if cellW < 8 {
		cellW = 8
	}

	for i, btn := range u.cfg.Buttons {
		col := i % cols
		row := i / cols
		x := col * (cellW + cellGap)
		y := gridTop + row*cellHeight
		if y+cellHeight-1 >= h-2 {
			break
		}

		style := styleCell
		if btn.Path == "" {
			style = styleCellEmpty
		}
		if i == u.sel {
			style = styleCellSel
		}

		fillRect(u.screen, x, y, cellW, cellHeight-1, style)

		num := fmt.Sprintf("%d", i+1)
		if accel, ok := u.disp.AccelFor(i); ok {
			num += " [" + accel + "]"
		}
		drawTextClipped(u.screen, x+1, y, cellW-2, style, num)
		drawTextClipped(u.screen, x+1, y+1, cellW-2, style.Bold(true), btn.Label)
		if btn.Path != "" {
			drawTextClipped(u.screen, x+1, y+2, cellW-2, style, fmt.Sprintf("gain %.1f", btn.Gain))
		} else {
			drawTextClipped(u.screen, x+1, y+2, cellW-2, style, "(unassigned)")
		}
	}

	u.drawFooter(w, h)
	u.screen.Show()
}

func (u *UI) drawFooter(w, h int) {
	fillRect(u.screen, 0, h-1, w, 1, styleStatusBar)

	out := u.reg.Strings.Get(status.KeyOutputDevice).Load()
	if out == "" {
		out = "default"
	}
	left := fmt.Sprintf(" voices: %d  out: %s", u.player.ActiveVoices(), out)
	drawTextClipped(u.screen, 0, h-1, w, styleStatusBar, left)

	if u.prompt != nil {
		fillRect(u.screen, 0, h-2, w, 1, tcell.StyleDefault)
		u.prompt.draw(u.screen, 0, h-2, w)
		return
	}

	if msg := u.reg.Message(); msg != "" {
		drawTextClipped(u.screen, 0, h-2, w, styleStatusText, msg)
	}
}

func drawText(s tcell.Screen, x, y int, style tcell.Style, text string) {
	for i, r := range text {
		s.SetContent(x+i, y, r, nil, style)
	}
}

func drawTextClipped(s tcell.Screen, x, y, maxW int, style tcell.Style, text string) {
	i := 0
	for _, r := range text {
		if i >= maxW {
			return
		}
		s.SetContent(x+i, y, r, nil, style)
		i++
	}
}

func fillRect(s tcell.Screen, x, y, w, h int, style tcell.Style) {
	for row := 0; row < h; row++ {
		for col := 0; col < w; col++ {
			s.SetContent(x+col, y+row, ' ', nil, style)
		}
	}
}

// buttonAt maps screen coordinates back to a grid index.
func (u *UI) buttonAt(x, y int) (int, bool) {
	w, _ := u.screen.Size()
	cols := gridCols(len(u.cfg.Buttons))
	cellW := (w - (cols-1)*cellGap) / cols
	if cellW < 8 {
		cellW = 8
	}

	if y < gridTop {
		return 0, false
	}
	row := (y - gridTop) / cellHeight
	if (y-gridTop)%cellHeight == cellHeight-1 {
		return 0, false // gap row
	}
	col := x / (cellW + cellGap)
	if col >= cols || x%(cellW+cellGap) >= cellW {
		return 0, false
	}
	idx := row*cols + col
	if idx >= len(u.cfg.Buttons) {
		return 0, false
	}
	return idx, true
}
