// Package theme resolves the configured color theme into the style
// tables the render package paints with. Themes are VSCode-JSON color
// theme files: a flat "colors" map from UI element identifier to hex
// color, the same format VSCode/TextMate themes ship in.
package theme

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/rededitor/red/internal/render"
)

// file is the subset of the VSCode color theme schema Red reads. Token
// colors and semantic highlighting rules are out of scope; only the
// flat UI "colors" map feeds render.Theme.
type file struct {
	Name   string            `json:"name"`
	Type   string            `json:"type"`
	Colors map[string]string `json:"colors"`
}

// colorKey names the VSCode color identifier each render.Theme field
// is sourced from.
const (
	keyForeground      = "editor.foreground"
	keySelectionBg     = "editor.selectionBackground"
	keyGutterFg        = "editorLineNumber.foreground"
	keyGutterActiveFg  = "editorLineNumber.activeForeground"
	keyBorder          = "panel.border"
	keyBorderActive    = "focusBorder"
	keyStatusBg        = "statusBar.background"
	keyStatusFg        = "statusBar.foreground"
	keyCommandBg       = "input.background"
	keyCommandFg       = "input.foreground"
	keyErrorFg         = "editorError.foreground"
	keyWarningFg       = "editorWarning.foreground"
	keyInfoFg          = "editorInfo.foreground"
	keyHintFg          = "editorHint.foreground"
	keyPopupBg         = "editorSuggestWidget.background"
	keyPopupFg         = "editorSuggestWidget.foreground"
	keyPopupSelectedBg = "editorSuggestWidget.selectedBackground"
	keyPopupSelectedFg = "editorSuggestWidget.highlightForeground"
)

// Load reads a VSCode-JSON theme file at path and converts it into a
// render.Theme. Any color the file omits keeps render.DefaultTheme's
// value, so a minimal theme file only overriding a few colors is valid.
func Load(path string) (render.Theme, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return render.Theme{}, fmt.Errorf("theme: read %s: %w", path, err)
	}
	var f file
	if err := json.Unmarshal(data, &f); err != nil {
		return render.Theme{}, fmt.Errorf("theme: parse %s: %w", path, err)
	}
	return fromFile(f), nil
}

func fromFile(f file) render.Theme {
	t := render.DefaultTheme

	if fg, ok := parseColor(f.Colors[keyForeground]); ok {
		t.Text.Fg = fg
	}
	if bg, ok := parseColor(f.Colors[keySelectionBg]); ok {
		t.Selection.Bg = bg
	}
	if fg, ok := parseColor(f.Colors[keyGutterFg]); ok {
		t.Gutter.Fg = fg
	}
	if fg, ok := parseColor(f.Colors[keyGutterActiveFg]); ok {
		t.GutterActive.Fg = fg
	}
	if fg, ok := parseColor(f.Colors[keyBorder]); ok {
		t.Border.Fg = fg
	}
	if fg, ok := parseColor(f.Colors[keyBorderActive]); ok {
		t.BorderActive.Fg = fg
	}
	if bg, ok := parseColor(f.Colors[keyStatusBg]); ok {
		t.StatusLine.Bg = bg
	}
	if fg, ok := parseColor(f.Colors[keyStatusFg]); ok {
		t.StatusLine.Fg = fg
	}
	if bg, ok := parseColor(f.Colors[keyCommandBg]); ok {
		t.CommandLine.Bg = bg
	}
	if fg, ok := parseColor(f.Colors[keyCommandFg]); ok {
		t.CommandLine.Fg = fg
	}
	if fg, ok := parseColor(f.Colors[keyErrorFg]); ok {
		t.DiagnosticError.Fg = fg
	}
	if fg, ok := parseColor(f.Colors[keyWarningFg]); ok {
		t.DiagnosticWarning.Fg = fg
	}
	if fg, ok := parseColor(f.Colors[keyInfoFg]); ok {
		t.DiagnosticInfo.Fg = fg
	}
	if fg, ok := parseColor(f.Colors[keyHintFg]); ok {
		t.DiagnosticHint.Fg = fg
	}
	if bg, ok := parseColor(f.Colors[keyPopupBg]); ok {
		t.Popup.Bg = bg
	}
	if fg, ok := parseColor(f.Colors[keyPopupFg]); ok {
		t.Popup.Fg = fg
	}
	if bg, ok := parseColor(f.Colors[keyPopupSelectedBg]); ok {
		t.PopupSelected.Bg = bg
	}
	if fg, ok := parseColor(f.Colors[keyPopupSelectedFg]); ok {
		t.PopupSelected.Fg = fg
	}

	return t
}

// parseColor converts a "#rrggbb" or "#rrggbbaa" hex string into a
// render.Color. Alpha is ignored; the terminal has no transparency.
func parseColor(hex string) (render.Color, bool) {
	hex = strings.TrimPrefix(hex, "#")
	if len(hex) != 6 && len(hex) != 8 {
		return render.Color{}, false
	}
	v, err := strconv.ParseUint(hex[:6], 16, 32)
	if err != nil {
		return render.Color{}, false
	}
	return render.RGB(uint8(v>>16), uint8(v>>8), uint8(v)), true
}
