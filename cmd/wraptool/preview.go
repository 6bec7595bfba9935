package main

import (
	"fmt"
	"time"

	"github.com/gdamore/tcell/v2"

	"github.com/Faultbox/bandage-wrap/internal/session"
	"github.com/Faultbox/bandage-wrap/pkg/curve"
	"github.com/Faultbox/bandage-wrap/pkg/math"
)

const curveSamples = 600

var (
	styleStatus  = tcell.StyleDefault.Foreground(tcell.ColorBlack).Background(tcell.ColorSilver)
	styleCurve   = tcell.StyleDefault.Foreground(tcell.ColorDarkGoldenrod)
	styleRibbon  = tcell.StyleDefault.Foreground(tcell.ColorWhite)
	styleBack    = tcell.StyleDefault.Foreground(tcell.ColorGray)
	styleSegment = tcell.StyleDefault.Foreground(tcell.ColorGreen)
)

// preview animates a session in the terminal.
type preview struct {
	screen  tcell.Screen
	session *session.Session
	canvas  *canvas
	samples []math.Vec3

	active bool
	rate   float32
}

func cmdPreview(args []string) error {
	fs, o := newFlagSet("preview")
	fps := fs.Int("fps", 30, "Frames per second")
	fs.Parse(args)

	e, err := o.load()
	if err != nil {
		return err
	}
	s, err := session.New(e.curve, e.session)
	if err != nil {
		return err
	}

	screen, err := tcell.NewScreen()
	if err != nil {
		return err
	}
	if err := screen.Init(); err != nil {
		return err
	}
	defer screen.Fini()

	p := &preview{
		screen:  screen,
		session: s,
		active:  true,
		rate:    e.session.WrapRate,
	}
	if err := p.layout(e.curve); err != nil {
		return err
	}
	return p.run(time.Second / time.Duration(max(*fps, 1)))
}

func (p *preview) layout(c *curve.Curve) error {
	w, h := p.screen.Size()
	// Last row is the status line.
	p.canvas = newCanvas(w, h-1)
	p.canvas.fit(c.Bounds())

	pts, err := c.Sample(curveSamples)
	if err != nil {
		return err
	}
	p.samples = pts
	return nil
}

func (p *preview) run(frame time.Duration) error {
	events := make(chan tcell.Event, 8)
	done := make(chan struct{})
	defer close(done)
	go func() {
		for {
			ev := p.screen.PollEvent()
			if ev == nil {
				return
			}
			select {
			case events <- ev:
			case <-done:
				return
			}
		}
	}()

	ticker := time.NewTicker(frame)
	defer ticker.Stop()
	last := time.Now()

	for {
		select {
		case ev := <-events:
			switch ev := ev.(type) {
			case *tcell.EventKey:
				if quit := p.handleKey(ev); quit {
					return nil
				}
			case *tcell.EventResize:
				if err := p.layout(p.session.Curve()); err != nil {
					return err
				}
				p.screen.Sync()
			}
		case now := <-ticker.C:
			if _, err := p.session.Tick(now.Sub(last), p.active); err != nil {
				return err
			}
			last = now
			p.draw()
		}
	}
}

func (p *preview) handleKey(ev *tcell.EventKey) bool {
	switch ev.Key() {
	case tcell.KeyEscape, tcell.KeyCtrlC:
		return true
	case tcell.KeyRune:
		switch ev.Rune() {
		case 'q':
			return true
		case ' ':
			p.active = !p.active
		case 'r':
			p.session.Reset()
		case '+', '=':
			p.setRate(p.rate * 1.5)
		case '-':
			p.setRate(p.rate / 1.5)
		}
	}
	return false
}

func (p *preview) setRate(rate float32) {
	cfg := p.session.Config()
	covered := p.session.Covered()
	cfg.WrapRate = max(rate, 0.01)
	if err := p.session.Reconfigure(cfg); err != nil {
		return
	}
	p.rate = cfg.WrapRate
	// Reconfigure restarts the wrap; keep the progress made so far.
	p.session.Seek(covered)
}

func (p *preview) draw() {
	c := p.canvas
	c.clear()

	for _, s := range p.samples {
		c.plot(s, '.', layerCurve)
	}

	m := p.session.Mesh()
	for i := 0; i+1 < len(m.Vertices); i += 2 {
		c.line(m.Vertices[i], m.Vertices[i+1], '#', layerRibbon)
	}
	for _, seg := range p.session.Segments() {
		c.plot(seg.Position, '=', layerSegment)
	}

	p.screen.Clear()
	for y := 0; y < c.h; y++ {
		for x := 0; x < c.w; x++ {
			cl := c.at(x, y)
			if cl.layer == layerEmpty {
				continue
			}
			p.screen.SetContent(x, y, cl.r, nil, cellStyle(cl))
		}
	}
	p.drawStatus()
	p.screen.Show()
}

func cellStyle(cl cell) tcell.Style {
	if !cl.front {
		return styleBack
	}
	switch cl.layer {
	case layerRibbon:
		return styleRibbon
	case layerSegment:
		return styleSegment
	default:
		return styleCurve
	}
}

func (p *preview) drawStatus() {
	w, h := p.screen.Size()
	state := "wrapping"
	if !p.active {
		state = "paused"
	}
	if p.session.Done() {
		state = "done"
	}
	l := p.session.Curve().Length()
	line := fmt.Sprintf(" %s  %.2f/%.2f (%3.0f%%)  rate %.2f  [space] pause  [+/-] rate  [r] reset  [q] quit",
		state, p.session.Covered(), l, 100*p.session.Progress(), p.rate)

	for x := 0; x < w; x++ {
		r := ' '
		if x < len(line) {
			r = rune(line[x])
		}
		p.screen.SetContent(x, h-1, r, nil, styleStatus)
	}
}
