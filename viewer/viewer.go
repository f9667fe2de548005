// Package viewer draws projected frames on a terminal and maps keys to simulation controls
package viewer

import (
	"fmt"
	"math"
	"sync"

	"github.com/gdamore/tcell/v2"
	"github.com/lucasb-eyer/go-colorful"

	"github.com/lixenwraith/particles/camera"
	"github.com/lixenwraith/particles/engine"
	"github.com/lixenwraith/particles/render"
	"github.com/lixenwraith/particles/status"
)

const (
	speedStep = 1.25
	zoomStep  = 0.8

	// Far vertices fade toward the background by up to this fraction
	depthFade = 0.6
)

// Glyphs from nearest to farthest
var depthGlyphs = []rune{'@', 'o', '*', '.'}

// Cue is notified of control changes, audio.SoundManager satisfies it
type Cue interface {
	PlayPause(paused bool)
}

// Viewer is an engine.FrameSink drawing each vertex as one terminal cell
// Present runs on the tick goroutine and HandleEvent on the input loop; mu serializes screen access
type Viewer struct {
	mu       sync.Mutex
	screen   tcell.Screen
	cam      *camera.Camera
	controls *engine.Controls
	registry *status.Registry
	cue      Cue

	baseSpeed float64
	showHUD   bool
	depth     []float32
	last      engine.FrameInfo
}

// New creates a viewer sized to the screen
// registry and cue may be nil
func New(screen tcell.Screen, cam *camera.Camera, controls *engine.Controls, registry *status.Registry, cue Cue) *Viewer {
	w, h := screen.Size()
	cam.Resize(w, h)
	return &Viewer{
		screen:    screen,
		cam:       cam,
		controls:  controls,
		registry:  registry,
		cue:       cue,
		baseSpeed: controls.Speed(),
		showHUD:   true,
	}
}

// Present draws one frame and shows it
func (v *Viewer) Present(frame render.Frame, info engine.FrameInfo) {
	v.mu.Lock()
	defer v.mu.Unlock()

	v.last = info
	v.screen.Clear()

	w, h := v.cam.Size()
	if w <= 0 || h <= 0 {
		// Collapsed terminal, nothing to draw until the next resize
		v.screen.Show()
		return
	}
	cells := w * h
	if cap(v.depth) < cells {
		v.depth = make([]float32, cells)
	}
	v.depth = v.depth[:cells]
	for i := range v.depth {
		v.depth[i] = math.MaxFloat32
	}

	verts := frame.Count * render.VerticesPerParticle
	for i := 0; i < verts; i++ {
		a := frame.Vertices[i*render.VertexStride : (i+1)*render.VertexStride]
		col, row, z, ok := v.cam.Project(a[0], a[1], a[2])
		if !ok {
			continue
		}
		idx := row*w + col
		if z >= v.depth[idx] {
			continue
		}
		v.depth[idx] = z
		t := v.depthShade(z)
		v.screen.SetContent(col, row, glyphFor(t), nil, styleFor(a[3], a[4], a[5], t))
	}

	if v.showHUD {
		v.drawHUD(w)
	}
	v.screen.Show()
}

// HandleEvent applies one input event, returns false when the user quits
func (v *Viewer) HandleEvent(ev tcell.Event) bool {
	switch ev := ev.(type) {
	case *tcell.EventKey:
		return v.handleKey(ev)
	case *tcell.EventResize:
		v.mu.Lock()
		v.screen.Sync()
		w, h := v.screen.Size()
		v.cam.Resize(w, h)
		v.mu.Unlock()
	}
	return true
}

func (v *Viewer) handleKey(ev *tcell.EventKey) bool {
	switch ev.Key() {
	case tcell.KeyEscape, tcell.KeyCtrlC:
		return false
	case tcell.KeyRune:
	default:
		return true
	}

	switch ev.Rune() {
	case 'q':
		return false
	case ' ':
		paused := v.controls.TogglePause()
		if v.cue != nil {
			v.cue.PlayPause(paused)
		}
	case '+', '=':
		v.controls.ScaleSpeed(speedStep)
	case '-', '_':
		v.controls.ScaleSpeed(1 / speedStep)
	case 'r':
		v.controls.SetSpeed(v.baseSpeed)
	case 'z':
		v.zoom(zoomStep)
	case 'x':
		v.zoom(1 / zoomStep)
	case 'h':
		v.mu.Lock()
		v.showHUD = !v.showHUD
		v.mu.Unlock()
	}
	return true
}

func (v *Viewer) zoom(factor float32) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.cam.Zoom(factor)
}

func (v *Viewer) drawHUD(width int) {
	hud := tcell.StyleDefault.Foreground(tcell.ColorWhite).Background(tcell.ColorBlack)

	header := fmt.Sprintf(" t=%.2f tick=%d speed=%.2fx ", v.last.Time, v.last.Tick, v.controls.Speed())
	if v.last.Paused {
		header += "[PAUSED] "
	}
	drawText(v.screen, 0, 0, width, header, hud.Bold(true))

	if v.registry == nil {
		return
	}
	for i, line := range v.registry.Lines() {
		drawText(v.screen, 0, i+1, width, " "+line+" ", hud)
	}
}

func drawText(s tcell.Screen, x, y, maxWidth int, text string, style tcell.Style) {
	for _, r := range text {
		if x >= maxWidth {
			return
		}
		s.SetContent(x, y, r, nil, style)
		x++
	}
}

// depthShade maps NDC depth to [0,1] around the camera target
// 0 is a quarter of the camera distance nearer than the target, 1 as much farther
func (v *Viewer) depthShade(z float32) float64 {
	d := float64(v.cam.Distance)
	rel := (float64(v.cam.LinearDepth(z)) - d) / d
	return math.Max(0, math.Min(1, 0.5+rel*2))
}

// glyphFor picks a denser glyph for nearer points
func glyphFor(t float64) rune {
	i := int(t * float64(len(depthGlyphs)))
	if i < 0 {
		i = 0
	}
	if i >= len(depthGlyphs) {
		i = len(depthGlyphs) - 1
	}
	return depthGlyphs[i]
}

// styleFor blends the vertex color toward black with depth
func styleFor(r, g, b float32, t float64) tcell.Style {
	c := colorful.Color{R: float64(r), G: float64(g), B: float64(b)}
	c = c.BlendRgb(colorful.Color{}, t*depthFade).Clamped()
	cr, cg, cb := c.RGB255()
	return tcell.StyleDefault.Foreground(tcell.NewRGBColor(int32(cr), int32(cg), int32(cb)))
}
