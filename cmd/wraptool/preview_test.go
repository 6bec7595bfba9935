package main

import (
	"strings"
	"testing"

	"github.com/gdamore/tcell/v2"

	"github.com/Faultbox/bandage-wrap/internal/session"
	"github.com/Faultbox/bandage-wrap/pkg/spiral"
)

func newTestPreview(t *testing.T, mode session.Mode) *preview {
	t.Helper()

	screen := tcell.NewSimulationScreen("UTF-8")
	if err := screen.Init(); err != nil {
		t.Fatalf("screen init: %v", err)
	}
	t.Cleanup(screen.Fini)
	screen.SetSize(80, 24)

	c, err := spiral.Build(spiral.DefaultParams())
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	cfg := session.DefaultConfig()
	cfg.Mode = mode
	s, err := session.New(c, cfg)
	if err != nil {
		t.Fatalf("session.New: %v", err)
	}

	p := &preview{screen: screen, session: s, active: true, rate: cfg.WrapRate}
	if err := p.layout(c); err != nil {
		t.Fatalf("layout: %v", err)
	}
	return p
}

func screenText(s tcell.Screen) (rows []string) {
	w, h := s.Size()
	for y := 0; y < h; y++ {
		var b strings.Builder
		for x := 0; x < w; x++ {
			r, _, _, _ := s.GetContent(x, y)
			b.WriteRune(r)
		}
		rows = append(rows, b.String())
	}
	return rows
}

func countRune(rows []string, r rune) int {
	n := 0
	for _, row := range rows {
		n += strings.Count(row, string(r))
	}
	return n
}

func TestPreviewDrawsCoverage(t *testing.T) {
	p := newTestPreview(t, session.ModeMesh)

	p.draw()
	rows := screenText(p.screen)
	if countRune(rows, '#') != 0 {
		t.Error("ribbon drawn before any coverage")
	}
	if countRune(rows[:len(rows)-1], '.') == 0 {
		t.Error("curve not drawn")
	}

	if _, err := p.session.Seek(p.session.Curve().Length() / 2); err != nil {
		t.Fatalf("Seek: %v", err)
	}
	p.draw()
	rows = screenText(p.screen)
	if countRune(rows, '#') == 0 {
		t.Error("ribbon not drawn at half coverage")
	}
	if status := rows[len(rows)-1]; !strings.Contains(status, "wrapping") || !strings.Contains(status, "50%") {
		t.Errorf("status line = %q", status)
	}
}

func TestPreviewDrawsSegments(t *testing.T) {
	p := newTestPreview(t, session.ModeSegments)
	if _, err := p.session.Seek(p.session.Curve().Length()); err != nil {
		t.Fatalf("Seek: %v", err)
	}

	p.draw()
	rows := screenText(p.screen)
	if countRune(rows, '=') == 0 {
		t.Error("segments not drawn")
	}
	if !strings.Contains(rows[len(rows)-1], "done") {
		t.Errorf("status line = %q, want done", rows[len(rows)-1])
	}
}

func TestPreviewKeys(t *testing.T) {
	p := newTestPreview(t, session.ModeMesh)
	key := func(r rune) bool {
		return p.handleKey(tcell.NewEventKey(tcell.KeyRune, r, tcell.ModNone))
	}

	if key(' ') || p.active {
		t.Error("space should pause without quitting")
	}
	if key(' ') || !p.active {
		t.Error("space should resume")
	}

	before := p.rate
	if key('+'); p.rate <= before {
		t.Errorf("rate after + = %v, want above %v", p.rate, before)
	}
	if got := p.session.Config().WrapRate; got != p.rate {
		t.Errorf("session rate = %v, want %v", got, p.rate)
	}

	if _, err := p.session.Seek(1); err != nil {
		t.Fatalf("Seek: %v", err)
	}
	key('-')
	if p.session.Covered() != 1 {
		t.Errorf("rate change lost coverage: %v", p.session.Covered())
	}
	key('r')
	if p.session.Covered() != 0 {
		t.Errorf("r left coverage at %v", p.session.Covered())
	}

	if !key('q') {
		t.Error("q should quit")
	}
	if !p.handleKey(tcell.NewEventKey(tcell.KeyEscape, 0, tcell.ModNone)) {
		t.Error("escape should quit")
	}
}
