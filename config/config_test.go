package config

import (
	"errors"
	"image/color"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"

	"github.com/pthm-cable/starfield/starfield"
)

func writeFile(t *testing.T, dir, name, body string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(body), 0644); err != nil {
		t.Fatalf("writing %s: %v", path, err)
	}
	return path
}

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	// The hero section mounts a calmer field than the library defaults.
	want := starfield.Options{Count: 100, Speed: 0.3, TwinkleRate: 0.01, Color: starfield.DefaultColor}
	if cfg.Derived.Options != want {
		t.Errorf("options = %+v, want %+v", cfg.Derived.Options, want)
	}
	if cfg.Derived.FrameInterval != time.Second/60 {
		t.Errorf("frame interval = %v, want %v", cfg.Derived.FrameInterval, time.Second/60)
	}
	if cfg.Screen.Width != 1280 || cfg.Screen.Height != 720 {
		t.Errorf("screen = %dx%d, want 1280x720", cfg.Screen.Width, cfg.Screen.Height)
	}
	if cfg.Telemetry.StatsWindow <= 0 || cfg.Telemetry.PerfCollectorWindow <= 0 {
		t.Errorf("telemetry windows must be positive: %+v", cfg.Telemetry)
	}
}

func TestLoad_OverlayKeepsUnsetFields(t *testing.T) {
	path := writeFile(t, t.TempDir(), "config.yaml", `
starfield:
  count: 42
screen:
  target_fps: 30
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if cfg.Starfield.Count != 42 {
		t.Errorf("count = %d, want 42", cfg.Starfield.Count)
	}
	if cfg.Starfield.Speed != 0.3 {
		t.Errorf("speed = %v, want default 0.3", cfg.Starfield.Speed)
	}
	if cfg.Screen.Width != 1280 {
		t.Errorf("width = %d, want default 1280", cfg.Screen.Width)
	}
	if cfg.Derived.FrameInterval != time.Second/30 {
		t.Errorf("frame interval = %v, want %v", cfg.Derived.FrameInterval, time.Second/30)
	}
	if cfg.Derived.Options.Count != 42 {
		t.Errorf("derived count = %d, want 42", cfg.Derived.Options.Count)
	}
}

func TestLoad_ZeroStarfieldFieldsTakeLibraryDefaults(t *testing.T) {
	path := writeFile(t, t.TempDir(), "config.yaml", `
starfield:
  count: 0
  speed: 0
  twinkle_rate: 0
  color: ""
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if diff := cmp.Diff(starfield.DefaultOptions(), cfg.Derived.Options); diff != "" {
		t.Errorf("options mismatch (-want +got):\n%s", diff)
	}
}

func TestLoad_Errors(t *testing.T) {
	dir := t.TempDir()
	tests := []struct {
		name    string
		body    string
		wantErr error
	}{
		{"negative count", "starfield:\n  count: -5\n", starfield.ErrInvalidOptions},
		{"negative speed", "starfield:\n  speed: -1\n", starfield.ErrInvalidOptions},
		{"bad color", "starfield:\n  color: \"#zzzzzz\"\n", nil},
		{"bad backdrop", "hero:\n  backdrop_top: \"blue\"\n", nil},
		{"bad yaml", "starfield: [\n", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeFile(t, dir, tt.name+".yaml", tt.body)
			_, err := Load(path)
			if err == nil {
				t.Fatal("expected error")
			}
			if tt.wantErr != nil && !errors.Is(err, tt.wantErr) {
				t.Errorf("error %v does not wrap %v", err, tt.wantErr)
			}
		})
	}

	if _, err := Load(filepath.Join(dir, "missing.yaml")); !errors.Is(err, os.ErrNotExist) {
		t.Errorf("missing file: got %v, want os.ErrNotExist", err)
	}
}

func TestParseColor(t *testing.T) {
	tests := []struct {
		in      string
		want    color.NRGBA
		wantErr bool
	}{
		{"#D36427", color.NRGBA{R: 0xD3, G: 0x64, B: 0x27, A: 0xFF}, false},
		{"d36427", color.NRGBA{R: 0xD3, G: 0x64, B: 0x27, A: 0xFF}, false},
		{"#fff", color.NRGBA{R: 0xFF, G: 0xFF, B: 0xFF, A: 0xFF}, false},
		{"#11223380", color.NRGBA{R: 0x11, G: 0x22, B: 0x33, A: 0x80}, false},
		{"  #000000 ", color.NRGBA{A: 0xFF}, false},
		{"", color.NRGBA{}, false},
		{"#12345", color.NRGBA{}, true},
		{"#gggggg", color.NRGBA{}, true},
	}

	for _, tt := range tests {
		got, err := ParseColor(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseColor(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			continue
		}
		if got != tt.want {
			t.Errorf("ParseColor(%q) = %+v, want %+v", tt.in, got, tt.want)
		}
	}
}

func TestInitAndCfg(t *testing.T) {
	prev := global.Load()
	t.Cleanup(func() { global.Store(prev) })

	global.Store(nil)
	func() {
		defer func() {
			if recover() == nil {
				t.Error("Cfg before Init should panic")
			}
		}()
		Cfg()
	}()

	if err := Init(""); err != nil {
		t.Fatalf("Init: %v", err)
	}
	if Cfg().Starfield.Count != 100 {
		t.Errorf("count = %d, want 100", Cfg().Starfield.Count)
	}

	next := *Cfg()
	next.Starfield.Count = 7
	Set(&next)
	if Cfg().Starfield.Count != 7 {
		t.Errorf("after Set count = %d, want 7", Cfg().Starfield.Count)
	}
}

func TestWriteYAML_RoundTrip(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	cfg.Starfield.Count = 321
	cfg.Hero.Title = "Written"

	path := filepath.Join(t.TempDir(), "out.yaml")
	if err := cfg.WriteYAML(path); err != nil {
		t.Fatalf("WriteYAML: %v", err)
	}

	got, err := Load(path)
	if err != nil {
		t.Fatalf("Load written file: %v", err)
	}
	// Derived values are not written; cfg's are stale after the edits above.
	if diff := cmp.Diff(cfg, got, cmpopts.IgnoreFields(Config{}, "Derived")); diff != "" {
		t.Errorf("round trip mismatch (-want +got):\n%s", diff)
	}
	if got.Derived.Options.Count != 321 {
		t.Errorf("derived count = %d, want 321", got.Derived.Options.Count)
	}
	if got.Derived.Color != cfg.Derived.Color {
		t.Errorf("color = %+v, want %+v", got.Derived.Color, cfg.Derived.Color)
	}
}
