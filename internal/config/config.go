package config

import (
	"fmt"
	"image/color"
	"sort"
	"strings"

	"github.com/itsharex/lovshot/internal/theme"
)

// Notify holds notification settings.
type Notify struct {
	Capture bool
	Save    bool
	Copy    bool
	Export  bool
}

// Capture holds capture behaviour settings.
type Capture struct {
	IncludeCursor      bool
	IncludeDecorations bool
}

// Export holds GIF export defaults.
type Export struct {
	Quality int    // 1..100
	FPS     int    // 1..60
	Loop    string // infinite, once, pingpong
}

// Shortcut is a single key binding, e.g. Alt+A.
type Shortcut struct {
	Modifiers []string
	Key       string
	Enabled   bool
}

// String renders the binding in accelerator form: "Alt+A", "Ctrl+Shift+K".
func (s Shortcut) String() string {
	if len(s.Modifiers) == 0 {
		return s.Key
	}
	return strings.Join(s.Modifiers, "+") + "+" + s.Key
}

// ParseShortcut parses an accelerator string. The last segment is the key,
// everything before it a modifier.
func ParseShortcut(in string) (Shortcut, error) {
	parts := strings.Split(strings.TrimSpace(in), "+")
	if len(parts) == 0 || parts[len(parts)-1] == "" {
		return Shortcut{}, fmt.Errorf("invalid shortcut %q", in)
	}
	for _, p := range parts {
		if strings.TrimSpace(p) == "" {
			return Shortcut{}, fmt.Errorf("invalid shortcut %q", in)
		}
	}
	return Shortcut{
		Modifiers: parts[:len(parts)-1],
		Key:       parts[len(parts)-1],
		Enabled:   true,
	}, nil
}

// Config holds the application configuration.
type Config struct {
	Theme     string
	SaveDir   string
	Notify    Notify
	Capture   Capture
	Export    Export
	Shortcuts map[string]Shortcut
	Themes    map[string]*theme.Theme
}

// New creates a new Config with defaults.
func New() *Config {
	return &Config{
		Theme: "", // empty falls back to env then the built-in default
		Export: Export{
			Quality: 80,
			FPS:     15,
			Loop:    "infinite",
		},
		Shortcuts: map[string]Shortcut{
			"capture_area":   {Modifiers: []string{"Alt"}, Key: "A", Enabled: true},
			"capture_screen": {Modifiers: []string{"Alt"}, Key: "S", Enabled: true},
			"record_gif":     {Modifiers: []string{"Alt"}, Key: "G", Enabled: true},
		},
		Themes: make(map[string]*theme.Theme),
	}
}

// String implements fmt.Stringer and returns the configuration in RC format.
func (c *Config) String() string {
	var sb strings.Builder

	// Root section
	if c.Theme != "" {
		fmt.Fprintf(&sb, "theme = %s\n", c.Theme)
	}
	if c.SaveDir != "" {
		fmt.Fprintf(&sb, "save_dir = %s\n", c.SaveDir)
	}
	sb.WriteString("\n")

	sb.WriteString("[notify]\n")
	fmt.Fprintf(&sb, "capture = %v\n", c.Notify.Capture)
	fmt.Fprintf(&sb, "save = %v\n", c.Notify.Save)
	fmt.Fprintf(&sb, "copy = %v\n", c.Notify.Copy)
	fmt.Fprintf(&sb, "export = %v\n", c.Notify.Export)
	sb.WriteString("\n")

	sb.WriteString("[capture]\n")
	fmt.Fprintf(&sb, "include_cursor = %v\n", c.Capture.IncludeCursor)
	fmt.Fprintf(&sb, "include_decorations = %v\n", c.Capture.IncludeDecorations)
	sb.WriteString("\n")

	sb.WriteString("[export]\n")
	fmt.Fprintf(&sb, "quality = %d\n", c.Export.Quality)
	fmt.Fprintf(&sb, "fps = %d\n", c.Export.FPS)
	fmt.Fprintf(&sb, "loop = %s\n", c.Export.Loop)
	sb.WriteString("\n")

	// Shortcut sections, sorted for deterministic output
	var actions []string
	for name := range c.Shortcuts {
		actions = append(actions, name)
	}
	sort.Strings(actions)
	for _, name := range actions {
		sc := c.Shortcuts[name]
		fmt.Fprintf(&sb, "[shortcut.%s]\n", name)
		fmt.Fprintf(&sb, "binding = %s\n", sc.String())
		fmt.Fprintf(&sb, "enabled = %v\n", sc.Enabled)
		sb.WriteString("\n")
	}

	// Theme sections
	var themeNames []string
	for name := range c.Themes {
		themeNames = append(themeNames, name)
	}
	sort.Strings(themeNames)
	for _, name := range themeNames {
		t := c.Themes[name]
		fmt.Fprintf(&sb, "[theme.%s]\n", name)
		fmt.Fprintf(&sb, "Name: %s\n", t.Name)
		fmt.Fprintf(&sb, "Background: %s\n", toHex(t.Background))
		fmt.Fprintf(&sb, "Foreground: %s\n", toHex(t.Foreground))
		fmt.Fprintf(&sb, "ToolbarBackground: %s\n", toHex(t.ToolbarBackground))
		fmt.Fprintf(&sb, "ButtonBackground: %s\n", toHex(t.ButtonBackground))
		fmt.Fprintf(&sb, "ButtonBackgroundHover: %s\n", toHex(t.ButtonBackgroundHover))
		fmt.Fprintf(&sb, "ButtonBackgroundPress: %s\n", toHex(t.ButtonBackgroundPress))
		fmt.Fprintf(&sb, "ButtonText: %s\n", toHex(t.ButtonText))
		fmt.Fprintf(&sb, "ButtonBorder: %s\n", toHex(t.ButtonBorder))
		fmt.Fprintf(&sb, "CheckerLight: %s\n", toHex(t.CheckerLight))
		fmt.Fprintf(&sb, "CheckerDark: %s\n", toHex(t.CheckerDark))
		fmt.Fprintf(&sb, "SelectionOutline: %s\n", toHex(t.SelectionOutline))
		fmt.Fprintf(&sb, "HandleFill: %s\n", toHex(t.HandleFill))
		fmt.Fprintf(&sb, "HandleBorder: %s\n", toHex(t.HandleBorder))
		fmt.Fprintf(&sb, "Accent: %s\n", toHex(t.Accent))
		sb.WriteString("\n")
	}

	return sb.String()
}

func toHex(c interface{ RGBA() (r, g, b, a uint32) }) string {
	if rgba, ok := c.(color.RGBA); ok {
		if rgba.A == 255 {
			return fmt.Sprintf("#%02X%02X%02X", rgba.R, rgba.G, rgba.B)
		}
		return fmt.Sprintf("#%02X%02X%02X%02X", rgba.R, rgba.G, rgba.B, rgba.A)
	}

	r, g, b, a := c.RGBA()
	if a == 0 {
		return "#00000000"
	}
	r8 := uint8(r >> 8)
	g8 := uint8(g >> 8)
	b8 := uint8(b >> 8)
	a8 := uint8(a >> 8)

	if a8 == 255 {
		return fmt.Sprintf("#%02X%02X%02X", r8, g8, b8)
	}
	return fmt.Sprintf("#%02X%02X%02X%02X", r8, g8, b8, a8)
}
