package views

import (
	"strings"

	xansi "github.com/charmbracelet/x/ansi"
)

// Layer is a rendered block placed at screen cell (X, Y)
type Layer struct {
	Content string
	X, Y    int
}

// Overlay draws layers over base without disturbing the cells left and
// right of each layer. base is padded to height lines of width cells.
func Overlay(base string, width, height int, layers ...Layer) string {
	lines := strings.Split(base, "\n")
	for len(lines) < height {
		lines = append(lines, "")
	}
	for i, l := range lines {
		if n := xansi.StringWidth(l); n < width {
			lines[i] = l + strings.Repeat(" ", width-n)
		}
	}

	for _, layer := range layers {
		if layer.Content == "" {
			continue
		}
		overlayAt(lines, strings.Split(layer.Content, "\n"), width, layer.X, layer.Y)
	}
	if height > 0 && len(lines) > height {
		lines = lines[:height]
	}
	return strings.Join(lines, "\n")
}

func overlayAt(bgLines, fgLines []string, width, x, y int) {
	if x < 0 {
		x = 0
	}
	if y < 0 {
		y = 0
	}
	fgW := 0
	for _, l := range fgLines {
		fgW = max(fgW, xansi.StringWidth(l))
	}
	if fgW == 0 || x >= width {
		return
	}
	fgW = min(fgW, width-x)

	for i := 0; i < len(fgLines) && y+i < len(bgLines); i++ {
		bg := bgLines[y+i]
		left := xansi.Cut(bg, 0, x)
		right := xansi.Cut(bg, x+fgW, width)

		fg := fgLines[i]
		if n := xansi.StringWidth(fg); n < fgW {
			fg += strings.Repeat(" ", fgW-n)
		} else if n > fgW {
			fg = xansi.Cut(fg, 0, fgW)
		}
		bgLines[y+i] = left + fg + right
	}
}
