package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestParse(t *testing.T) {
	input := `
theme = my_custom_theme
save_dir = /tmp/screens

[notify]
capture = true
save = false
copy = true

[theme.my_custom_theme]
Background = #111111
Foreground = #FFFFFF
`
	r := strings.NewReader(input)
	cfg, err := Parse(r)
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}

	if cfg.Theme != "my_custom_theme" {
		t.Errorf("Expected theme 'my_custom_theme', got '%s'", cfg.Theme)
	}

	if cfg.SaveDir != "/tmp/screens" {
		t.Errorf("Expected save_dir '/tmp/screens', got '%s'", cfg.SaveDir)
	}

	if !cfg.Notify.Capture {
		t.Error("Expected notify.capture to be true")
	}
	if cfg.Notify.Save {
		t.Error("Expected notify.save to be false")
	}
	if !cfg.Notify.Copy {
		t.Error("Expected notify.copy to be true")
	}

	theme, ok := cfg.Themes["my_custom_theme"]
	if !ok {
		t.Fatal("Expected theme 'my_custom_theme' to be loaded")
	}

	if theme.Background.R != 0x11 || theme.Background.G != 0x11 || theme.Background.B != 0x11 {
		t.Errorf("Unexpected Background color: %+v", theme.Background)
	}
}

func TestCircular(t *testing.T) {
	input := `theme = dark
save_dir = /home/user/shots

[notify]
capture = true
save = true
copy = false

[theme.custom]
Name = custom
Background = #000000
Foreground = #FFFFFF
`
	// 1. Parse initial input
	cfg, err := Parse(strings.NewReader(input))
	if err != nil {
		t.Fatalf("Initial parse failed: %v", err)
	}

	// 2. Generate string representation
	generated := cfg.String()

	// 3. Parse generated string
	cfg2, err := Parse(strings.NewReader(generated))
	if err != nil {
		t.Fatalf("Circular parse failed: %v", err)
	}

	// 4. Compare relevant fields
	if cfg.Theme != cfg2.Theme {
		t.Errorf("Theme mismatch: %q vs %q", cfg.Theme, cfg2.Theme)
	}
	if cfg.SaveDir != cfg2.SaveDir {
		t.Errorf("SaveDir mismatch: %q vs %q", cfg.SaveDir, cfg2.SaveDir)
	}
	if cfg.Notify != cfg2.Notify {
		t.Errorf("Notify mismatch: %+v vs %+v", cfg.Notify, cfg2.Notify)
	}

	// Check theme persistence
	t1 := cfg.Themes["custom"]
	t2 := cfg2.Themes["custom"]
	if t1 == nil || t2 == nil {
		t.Fatalf("Custom theme missing in one config")
	}
	if t1.Background != t2.Background {
		t.Errorf("Theme background mismatch: %v vs %v", t1.Background, t2.Background)
	}
}

func TestParseCaptureExportShortcuts(t *testing.T) {
	input := `
[capture]
include_cursor = true
include_decorations = false

[export]
quality = 60
fps = 30
loop = pingpong

[shortcut.capture_area]
binding = Ctrl+Shift+A
enabled = true

[shortcut.record_gif]
binding = Alt+G
enabled = false
`
	cfg, err := Parse(strings.NewReader(input))
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}

	if !cfg.Capture.IncludeCursor || cfg.Capture.IncludeDecorations {
		t.Errorf("capture section: %+v", cfg.Capture)
	}
	if cfg.Export.Quality != 60 || cfg.Export.FPS != 30 || cfg.Export.Loop != "pingpong" {
		t.Errorf("export section: %+v", cfg.Export)
	}

	area := cfg.Shortcuts["capture_area"]
	if area.String() != "Ctrl+Shift+A" || !area.Enabled {
		t.Errorf("capture_area shortcut: %+v", area)
	}
	gif := cfg.Shortcuts["record_gif"]
	if gif.String() != "Alt+G" || gif.Enabled {
		t.Errorf("record_gif shortcut: %+v", gif)
	}
}

func TestParseRejectsBadExportValues(t *testing.T) {
	for _, input := range []string{
		"[export]\nquality = 0\n",
		"[export]\nquality = 101\n",
		"[export]\nfps = 0\n",
		"[export]\nloop = bounce\n",
	} {
		if _, err := Parse(strings.NewReader(input)); err == nil {
			t.Errorf("expected error for %q", input)
		}
	}
}

func TestShortcutRoundTrip(t *testing.T) {
	for _, s := range []string{"Alt+A", "Ctrl+Shift+K", "F12"} {
		sc, err := ParseShortcut(s)
		if err != nil {
			t.Fatalf("parse %q: %v", s, err)
		}
		if sc.String() != s {
			t.Errorf("round trip %q -> %q", s, sc.String())
		}
		if !sc.Enabled {
			t.Errorf("parsed shortcut %q should be enabled", s)
		}
	}
	if _, err := ParseShortcut(""); err == nil {
		t.Error("expected error for empty shortcut")
	}
	if _, err := ParseShortcut("Alt+"); err == nil {
		t.Error("expected error for trailing separator")
	}
}

func TestDefaultsIncludeShortcuts(t *testing.T) {
	cfg := New()
	if cfg.Shortcuts["capture_area"].String() != "Alt+A" {
		t.Errorf("capture_area default = %q", cfg.Shortcuts["capture_area"].String())
	}
	if cfg.Export.Quality != 80 || cfg.Export.FPS != 15 || cfg.Export.Loop != "infinite" {
		t.Errorf("export defaults: %+v", cfg.Export)
	}
}

func TestLoadEnvOverrides(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.rc")
	if err := os.WriteFile(path, []byte("theme = light\nsave_dir = /tmp/from-file\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	t.Setenv("LOVSHOT_SAVE_DIR", "/tmp/from-env")
	t.Setenv("LOVSHOT_THEME", "")

	cfg, err := NewLoader("1.0", path).Load()
	if err != nil {
		t.Fatal(err)
	}
	if cfg.SaveDir != "/tmp/from-env" {
		t.Errorf("env should override file, got %q", cfg.SaveDir)
	}
	if cfg.Theme != "light" {
		t.Errorf("unset env should keep file value, got %q", cfg.Theme)
	}
}
