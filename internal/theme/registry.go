package theme

import (
	"path/filepath"
	"strings"

	"github.com/rededitor/red/internal/render"
)

// Registry holds the built-in themes Red ships with, keyed by the name
// the config file's ui.theme option names.
type Registry struct {
	themes map[string]render.Theme
}

// NewRegistry returns a Registry seeded with the built-in dark and
// light themes.
func NewRegistry() *Registry {
	return &Registry{
		themes: map[string]render.Theme{
			"dark":  render.DefaultTheme,
			"light": lightTheme(),
		},
	}
}

// Register adds or replaces a named theme.
func (r *Registry) Register(name string, t render.Theme) {
	r.themes[name] = t
}

// Resolve turns a config ui.theme value into a render.Theme. A value
// ending in ".json" is loaded as a VSCode theme file; anything else is
// looked up by name, falling back to the dark built-in.
func (r *Registry) Resolve(nameOrPath string) (render.Theme, error) {
	if nameOrPath == "" {
		return r.themes["dark"], nil
	}
	if strings.EqualFold(filepath.Ext(nameOrPath), ".json") {
		return Load(nameOrPath)
	}
	if t, ok := r.themes[nameOrPath]; ok {
		return t, nil
	}
	return r.themes["dark"], nil
}

// lightTheme returns a light variant built the same way the teacher's
// built-in theme table is: swapped foreground/background polarity on
// top of render.DefaultTheme's style shape.
func lightTheme() render.Theme {
	t := render.DefaultTheme
	t.Text = render.Style{Fg: render.RGB(0, 0, 0)}
	t.Gutter = render.Style{Fg: render.RGB(160, 160, 160)}
	t.GutterActive = render.Style{Fg: render.RGB(60, 60, 60)}
	t.Selection = render.Style{Bg: render.RGB(173, 214, 255)}
	t.Border = render.Style{Fg: render.RGB(180, 180, 180)}
	t.BorderActive = render.Style{Fg: render.RGB(60, 60, 60)}
	t.StatusLine = render.Style{Reverse: true}
	t.CommandLine = render.Style{Fg: render.RGB(0, 0, 0)}
	return t
}
