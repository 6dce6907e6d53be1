package tetris

import (
	"fmt"

	"github.com/vovakirdan/blockfall/internal/core"
)

const (
	cellWidth = 2 // Each board cell is drawn two columns wide
	wellW     = Cols*cellWidth + 2
	wellH     = Rows + 2
	sidebarW  = 18
	gap       = 2
)

var kindColors = [KindCount + 1]core.Color{
	KindI: core.ColorCyan,
	KindJ: core.ColorBlue,
	KindL: core.ColorOrange,
	KindO: core.ColorYellow,
	KindS: core.ColorGreen,
	KindT: core.ColorMagenta,
	KindZ: core.ColorRed,
}

// CellColor returns the display color for a board cell.
func CellColor(c Cell) core.Color {
	if int(c) < len(kindColors) {
		return kindColors[c]
	}
	return core.ColorDefault
}

// Render draws the game state to the screen.
func (g *Game) Render(dst *core.Screen) {
	dst.Clear()

	if g.tooSmall || g.session == nil {
		g.renderTooSmall(dst)
		return
	}

	snap := g.session.Snapshot()

	// The title sits on row 0, so only the horizontal position is centred.
	layout := core.NewRect(0, 0, g.screenW, g.screenH).CenterIn(wellW+gap+sidebarW, wellH)
	wellX := layout.X
	wellY := 1

	title := g.Title()
	dst.DrawTextColored(wellX+(wellW-len(title))/2, 0, title, core.ColorBrightWhite)

	g.renderWell(dst, snap, wellX, wellY)
	g.renderSidebar(dst, snap, wellX+wellW+gap, wellY)
	g.renderOverlays(dst, snap, wellX, wellY)
}

// renderTooSmall shows a "window too small" message.
func (g *Game) renderTooSmall(dst *core.Screen) {
	y := g.screenH / 2
	dst.DrawTextCentered(y, "Window too small")
	dst.DrawTextCentered(y+1, fmt.Sprintf("Need %dx%d", minScreenW, minScreenH))
}

// renderWell draws the border, settled cells, ghost and active piece.
func (g *Game) renderWell(dst *core.Screen, snap Snapshot, x0, y0 int) {
	dst.DrawBoxColored(core.NewRect(x0, y0, wellW, wellH), core.ColorGray)

	for y := range Rows {
		for x := range Cols {
			px, py := x0+1+x*cellWidth, y0+1+y
			if c := snap.Board[y][x]; c != Empty {
				drawBlock(dst, px, py, '█', CellColor(c))
			} else {
				dst.SetColored(px+1, py, '·', core.ColorGray)
			}
		}
	}

	p := snap.Active
	if p == nil || snap.Phase == PhaseIdle {
		return
	}

	if g.cfg.Display.Ghost && snap.GhostY > p.Y {
		drawShape(dst, p.Shape, x0+1+p.X*cellWidth, y0+1+snap.GhostY, snap.GhostY, '░', core.ColorGray)
	}
	drawShape(dst, p.Shape, x0+1+p.X*cellWidth, y0+1+p.Y, p.Y, '█', CellColor(Cell(p.Kind)))
}

// drawShape draws a shape whose top row sits at board row boardY.
// Rows above the well are skipped.
func drawShape(dst *core.Screen, s Shape, px, py, boardY int, r rune, c core.Color) {
	for dy, row := range s {
		if boardY+dy < 0 {
			continue
		}
		for dx, v := range row {
			if v != Empty {
				drawBlock(dst, px+dx*cellWidth, py+dy, r, c)
			}
		}
	}
}

func drawBlock(dst *core.Screen, x, y int, r rune, c core.Color) {
	for i := range cellWidth {
		dst.SetColored(x+i, y, r, c)
	}
}

// renderSidebar draws the next piece preview, score panel and piece counts.
func (g *Game) renderSidebar(dst *core.Screen, snap Snapshot, x, y int) {
	dst.DrawBoxColored(core.NewRect(x, y, sidebarW, 6), core.ColorGray)
	dst.DrawText(x+2, y, " NEXT ")
	if n := snap.Next; n != nil && snap.Phase != PhaseIdle {
		px := x + (sidebarW-n.Shape.Width()*cellWidth)/2
		drawShape(dst, n.Shape, px, y+2, 0, '█', CellColor(Cell(n.Kind)))
	}

	row := y + 7
	dst.DrawText(x, row, fmt.Sprintf("Score  %d", snap.Score))
	dst.DrawText(x, row+1, fmt.Sprintf("Level  %d", snap.Level))
	dst.DrawText(x, row+2, fmt.Sprintf("Lines  %d", snap.Lines))
	dst.DrawText(x, row+3, fmt.Sprintf("Speed  %dms", snap.Interval.Milliseconds()))

	if !g.cfg.Display.Stats {
		return
	}
	row += 5
	dst.DrawText(x, row, fmt.Sprintf("Pieces %d", snap.Pieces))
	for k := KindI; k <= KindZ; k++ {
		ky := row + 1 + int(k-1)/2
		kx := x + (int(k-1)%2)*9
		dst.SetColored(kx, ky, '■', CellColor(Cell(k)))
		dst.DrawText(kx+2, ky, fmt.Sprintf("%s %d", k, snap.Drawn[k]))
	}
}

// renderOverlays draws game state overlays.
func (g *Game) renderOverlays(dst *core.Screen, snap Snapshot, wellX, wellY int) {
	well := core.NewRect(wellX, wellY, wellW, wellH)

	switch snap.Phase {
	case PhaseIdle:
		drawOverlay(dst, well, "BLOCKFALL", "Enter: start")
	case PhasePaused:
		drawOverlay(dst, well, "PAUSED", "P: resume", "R: restart")
	case PhaseOver:
		drawOverlay(dst, well, "GAME OVER", fmt.Sprintf("Score %d", snap.Score), "R: restart")
	}
}

// drawOverlay draws a text box centred in area.
func drawOverlay(dst *core.Screen, area core.Rect, lines ...string) {
	maxLen := 0
	for _, line := range lines {
		maxLen = max(maxLen, len(line))
	}

	box := area.CenterIn(maxLen+4, len(lines)+2)
	dst.DrawRect(box, ' ')
	dst.DrawBoxColored(box, core.ColorWhite)

	for i, line := range lines {
		dst.DrawTextColored(box.X+(box.W-len(line))/2, box.Y+1+i, line, core.ColorBrightWhite)
	}
}
