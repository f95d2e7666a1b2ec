package main

import (
	"errors"
	"image/color"
	"testing"

	"github.com/pthm-cable/starfield/app"
	"github.com/pthm-cable/starfield/starfield"
)

type blankSurface struct{}

func (blankSurface) Size() (float64, float64)                  { return 64, 64 }
func (blankSurface) PixelRatio() float64                       { return 1 }
func (blankSurface) Clear()                                    {}
func (blankSurface) FillCircle(_, _, _ float64, _ color.NRGBA) {}

func TestApplyOptions(t *testing.T) {
	q := starfield.NewFrameQueue()
	hero := app.NewHero(blankSurface{}, starfield.Env{Scheduler: q}, starfield.Options{Count: 8})
	if err := hero.Mount(); err != nil {
		t.Fatal(err)
	}
	defer hero.Unmount()

	if err := applyOptions(hero, starfield.Options{Count: 20}); err != nil {
		t.Fatalf("applyOptions: %v", err)
	}
	if n := hero.Options().Count; n != 20 {
		t.Errorf("count = %d, want 20", n)
	}

	err := applyOptions(hero, starfield.Options{Count: -1})
	if !errors.Is(err, starfield.ErrInvalidOptions) {
		t.Fatalf("err = %v, want ErrInvalidOptions", err)
	}
	if !hero.Mounted() {
		t.Fatal("hero should mount again with the previous options")
	}
	if n := hero.Options().Count; n != 20 {
		t.Errorf("count = %d, want previous 20", n)
	}
}

func TestApplyOptions_ReportsFallbackFailure(t *testing.T) {
	hero := app.NewHero(nil, starfield.Env{Scheduler: starfield.NewFrameQueue()}, starfield.Options{Count: 8})

	err := applyOptions(hero, starfield.Options{Count: 5})
	if !errors.Is(err, starfield.ErrNilSurface) {
		t.Fatalf("err = %v, want ErrNilSurface", err)
	}
	var joined interface{ Unwrap() []error }
	if !errors.As(err, &joined) || len(joined.Unwrap()) != 2 {
		t.Errorf("err should carry the remount and the fallback mount failure: %v", err)
	}
	if hero.Mounted() {
		t.Error("hero must stay unmounted")
	}
}
