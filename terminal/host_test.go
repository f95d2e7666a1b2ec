package terminal

import (
	"context"
	"image/color"
	"io"
	"log/slog"
	"sync/atomic"
	"testing"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/pthm-cable/starfield/config"
	"github.com/pthm-cable/starfield/starfield"
)

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	cfg, err := config.Load("")
	require.NoError(t, err)
	cfg.Derived.FrameInterval = 2 * time.Millisecond
	cfg.Derived.Options.Count = 60
	return cfg
}

// starCells reads the front buffer unlocked, so it must run on the goroutine
// that calls Show.
func starCells(s tcell.SimulationScreen) int {
	cells, _, _ := s.GetContents()
	n := 0
	for _, c := range cells {
		if len(c.Runes) == 0 {
			continue
		}
		switch c.Runes[0] {
		case '·', '•', '●':
			n++
		}
	}
	return n
}

func TestHost_RunsResizesAndQuits(t *testing.T) {
	defer goleak.VerifyNone(t)

	screen := tcell.NewSimulationScreen("UTF-8")
	var painted atomic.Int64
	countStars := func(tcell.Screen) { painted.Store(int64(starCells(screen))) }
	h, err := NewHost(screen, testConfig(t), Options{
		Seed:    3,
		Logger:  slog.New(slog.NewTextHandler(io.Discard, nil)),
		OnFrame: countStars,
	})
	require.NoError(t, err)
	screen.SetSize(40, 12)

	done := make(chan error, 1)
	go func() { done <- h.Run(context.Background()) }()

	require.Eventually(t, func() bool { return painted.Load() > 0 }, 2*time.Second, 5*time.Millisecond)

	screen.SetSize(60, 20)
	require.NoError(t, screen.PostEvent(tcell.NewEventResize(60, 20)))
	want := starfield.Bounds{Width: 60, Height: 20 * rowUnits}
	require.Eventually(t, func() bool {
		a := h.Hero.Animator()
		return a != nil && a.Bounds() == want
	}, 2*time.Second, 5*time.Millisecond)

	for _, p := range h.Hero.Animator().Particles() {
		assert.True(t, want.Contains(p.X, p.Y))
	}

	screen.InjectKey(tcell.KeyEscape, 0, tcell.ModNone)
	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("Run did not return after Esc")
	}
	assert.False(t, h.Hero.Mounted())
}

func TestHost_RemountKeyAndCancel(t *testing.T) {
	defer goleak.VerifyNone(t)

	screen := tcell.NewSimulationScreen("UTF-8")
	h, err := NewHost(screen, testConfig(t), Options{
		Logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	})
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- h.Run(ctx) }()

	require.Eventually(t, h.Hero.Mounted, time.Second, time.Millisecond)
	first := h.Hero.Animator()

	screen.InjectKey(tcell.KeyRune, 'r', tcell.ModNone)
	require.Eventually(t, func() bool {
		a := h.Hero.Animator()
		return a != nil && a != first
	}, 2*time.Second, 5*time.Millisecond)
	assert.Equal(t, starfield.StateStopped, first.State())

	cancel()
	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("Run did not return after cancel")
	}
}

func TestCellSurface_PaintsBrightestStarPerCell(t *testing.T) {
	screen := tcell.NewSimulationScreen("UTF-8")
	require.NoError(t, screen.Init())
	defer screen.Fini()
	screen.SetSize(10, 5)

	bg := color.NRGBA{A: 0xFF}
	s := NewCellSurface(screen, bg)

	w, hgt := s.Size()
	assert.Equal(t, 10.0, w)
	assert.Equal(t, 10.0, hgt)

	s.Clear()
	s.FillCircle(2.5, 3.2, 2.0, color.NRGBA{R: 200, A: 100})
	s.FillCircle(2.9, 2.1, 0.6, color.NRGBA{R: 200, A: 50}) // same cell, dimmer
	s.FillCircle(-1, 0, 1, color.NRGBA{R: 200, A: 255})     // off screen
	screen.Show()

	r, _, style, _ := screen.GetContent(2, 1)
	assert.Equal(t, '●', r)
	fg, _, _ := style.Decompose()
	cr, _, _ := fg.RGB()
	assert.Equal(t, int32(78), cr, "200 at alpha 100 over black")
}

func TestGlyphFor(t *testing.T) {
	assert.Equal(t, '·', glyphFor(0.5))
	assert.Equal(t, '•', glyphFor(1.2))
	assert.Equal(t, '●', glyphFor(2.4))
	assert.Equal(t, '●', glyphFor(9))
}

func TestBlend(t *testing.T) {
	c := blend(color.NRGBA{R: 255, G: 0, B: 100, A: 255}, color.NRGBA{R: 0, G: 50, B: 0, A: 255})
	assert.Equal(t, color.NRGBA{R: 255, G: 0, B: 100, A: 255}, c)

	c = blend(color.NRGBA{R: 255, A: 0}, color.NRGBA{G: 50, A: 255})
	assert.Equal(t, color.NRGBA{G: 50, A: 255}, c)
}
