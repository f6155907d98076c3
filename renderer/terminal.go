package renderer

import (
	"fmt"
	"math"

	"github.com/gdamore/tcell/v2"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/pthm-cable/driftfield/camera"
	"github.com/pthm-cable/driftfield/quality"
)

// ramp maps accumulated brightness to a glyph, dimmest first.
var ramp = []rune(" .:-=+*#%@")

// TerminalBackend projects the field onto a tcell screen. Each cell
// accumulates additive colour from the points that land in it.
type TerminalBackend struct {
	screen tcell.Screen
	tier   quality.Tier

	points *PointBuffer
	lines  *LineBuffer

	// Scratch accumulation buffers, resized with the screen.
	accum []float32
	cols  int
	rows  int

	// Drawn is the number of non-empty cells in the last presented frame.
	Drawn int

	livePoints int
	liveLines  int
	released   bool
}

// NewTerminalBackend wraps an initialized tcell screen. The backend does not
// own the screen's lifetime beyond Dispose, which calls Fini.
func NewTerminalBackend(screen tcell.Screen) *TerminalBackend {
	return &TerminalBackend{screen: screen}
}

// Screen returns the underlying tcell screen.
func (b *TerminalBackend) Screen() tcell.Screen {
	return b.screen
}

// AllocatePoints implements Backend.
func (b *TerminalBackend) AllocatePoints(n int) (*PointBuffer, error) {
	if b.released {
		return nil, ErrReleased
	}
	b.livePoints++
	return NewPointBuffer(n, func() error {
		b.livePoints--
		return nil
	}), nil
}

// AllocateLines implements Backend.
func (b *TerminalBackend) AllocateLines(m int) (*LineBuffer, error) {
	if b.released {
		return nil, ErrReleased
	}
	b.liveLines++
	return NewLineBuffer(m, func() error {
		b.liveLines--
		return nil
	}), nil
}

// Submit implements Backend.
func (b *TerminalBackend) Submit(points *PointBuffer, lines *LineBuffer) {
	b.points = points
	b.lines = lines
}

// SetTier implements Backend.
func (b *TerminalBackend) SetTier(tier quality.Tier) {
	b.tier = tier
}

// Present rasterizes the submitted buffers and shows the screen.
func (b *TerminalBackend) Present(view camera.View, hud HUD) {
	if b.released {
		return
	}
	cols, rows := b.screen.Size()
	if cols <= 0 || rows <= 0 {
		return
	}
	b.resize(cols, rows)
	clear(b.accum)

	// Terminal cells are roughly twice as tall as wide
	w, h := float64(cols), float64(rows*2)

	if l := b.lines; l != nil && !l.Released() {
		for i := 0; i < l.Count; i++ {
			p := l.Positions[i*6 : i*6+6]
			c := l.Colors[i*6 : i*6+6]
			b.line(view, w, h,
				r3.Vec{X: float64(p[0]), Y: float64(p[1]), Z: float64(p[2])},
				r3.Vec{X: float64(p[3]), Y: float64(p[4]), Z: float64(p[5])},
				[3]float32{(c[0] + c[3]) * 0.15, (c[1] + c[4]) * 0.15, (c[2] + c[5]) * 0.15},
			)
		}
	}

	if pts := b.points; pts != nil && !pts.Released() {
		for i := 0; i < pts.Count; i++ {
			p := pts.Positions[i*3 : i*3+3]
			c := pts.Colors[i*3 : i*3+3]
			wp := r3.Vec{X: float64(p[0]), Y: float64(p[1]), Z: float64(p[2])}
			sx, sy, _, ok := view.WorldToScreen(wp, w, h)
			if !ok {
				continue
			}
			k := 0.25 * pts.Sizes[i]
			b.add(int(sx), int(sy/2), [3]float32{c[0] * k, c[1] * k, c[2] * k})
		}
	}

	b.screen.Clear()
	b.Drawn = 0
	for y := 0; y < rows; y++ {
		for x := 0; x < cols; x++ {
			i := (y*cols + x) * 3
			r, g, bl := b.accum[i], b.accum[i+1], b.accum[i+2]
			lum := math.Max(float64(r), math.Max(float64(g), float64(bl)))
			if lum <= 0.02 {
				continue
			}
			idx := int(math.Min(lum, 1) * float64(len(ramp)-1))
			if idx < 1 {
				idx = 1
			}
			style := tcell.StyleDefault.Foreground(tcell.NewRGBColor(
				int32(unit8(r/float32(lum))), int32(unit8(g/float32(lum))), int32(unit8(bl/float32(lum))),
			))
			b.screen.SetContent(x, y, ramp[idx], nil, style)
			b.Drawn++
		}
	}

	if hud.Visible {
		b.drawHUD(hud, cols)
	}
	b.screen.Show()
}

func (b *TerminalBackend) resize(cols, rows int) {
	if cols == b.cols && rows == b.rows {
		return
	}
	b.cols, b.rows = cols, rows
	b.accum = make([]float32, cols*rows*3)
}

func (b *TerminalBackend) add(x, y int, c [3]float32) {
	if x < 0 || y < 0 || x >= b.cols || y >= b.rows {
		return
	}
	i := (y*b.cols + x) * 3
	b.accum[i] += c[0]
	b.accum[i+1] += c[1]
	b.accum[i+2] += c[2]
}

// line walks the projected segment one cell at a time.
func (b *TerminalBackend) line(view camera.View, w, h float64, p0, p1 r3.Vec, c [3]float32) {
	x0, y0, _, ok0 := view.WorldToScreen(p0, w, h)
	x1, y1, _, ok1 := view.WorldToScreen(p1, w, h)
	if !ok0 || !ok1 {
		return
	}
	y0, y1 = y0/2, y1/2
	steps := int(math.Max(math.Abs(x1-x0), math.Abs(y1-y0)))
	if steps > 2*(b.cols+b.rows) {
		return
	}
	for s := 0; s <= steps; s++ {
		t := 0.0
		if steps > 0 {
			t = float64(s) / float64(steps)
		}
		b.add(int(x0+(x1-x0)*t), int(y0+(y1-y0)*t), c)
	}
}

func (b *TerminalBackend) drawHUD(hud HUD, cols int) {
	auto := "auto"
	if !hud.AutoQuality {
		auto = "manual"
	}
	text := fmt.Sprintf(" %s | %s | %.0f fps (avg %.1f) | %s/%s | %d particles | %d links ",
		hud.Title, hud.Section, hud.FPS, hud.MeanFPS, hud.Tier, auto, hud.Particles, hud.Connections)
	style := tcell.StyleDefault.Foreground(tcell.ColorWhite).Background(tcell.ColorBlack)
	x := 0
	for _, r := range text {
		if x >= cols {
			break
		}
		b.screen.SetContent(x, 0, r, nil, style)
		x++
	}
}

// Dispose finalizes the tcell screen.
func (b *TerminalBackend) Dispose() error {
	if b.released {
		return ErrReleased
	}
	b.released = true
	b.screen.Fini()
	return nil
}
