// Package templates renders the generated configuration artifacts: the
// compositor config and the waybar config and stylesheet. Template
// source lives as embedded data; the only control flow is an explicit
// Options record.
package templates

import (
	"embed"
	"strings"
	"text/template"

	"github.com/hyprstrap/hyprstrap/pkg/errors"
)

//go:embed templates/*.tmpl templates/record-toggle.sh
var templateFS embed.FS

// DriverVariant identifies the GPU driver path taken during the run.
type DriverVariant int

const (
	// DriverNone is the default, no vendor-specific environment.
	DriverNone DriverVariant = iota
	// DriverNvidia appends the NVIDIA environment lines and disables
	// hardware cursors.
	DriverNvidia
)

// Options is the explicit input record for every generated artifact.
type Options struct {
	// Driver selects conditional driver blocks.
	Driver DriverVariant

	// WallpaperPath is the wallpaper the compositor config points at.
	WallpaperPath string

	// RecordScript is the path of the screen-recording toggle the
	// keybinding invokes.
	RecordScript string

	// WaybarTheme is "default" or "slim".
	WaybarTheme string

	// BarHeight is the waybar height in pixels; zero means the default.
	BarHeight int
}

const defaultBarHeight = 30

type templateData struct {
	Nvidia        bool
	WallpaperPath string
	RecordScript  string
	BarHeight     int
}

func (o Options) data() templateData {
	height := o.BarHeight
	if height == 0 {
		height = defaultBarHeight
	}
	return templateData{
		Nvidia:        o.Driver == DriverNvidia,
		WallpaperPath: o.WallpaperPath,
		RecordScript:  o.RecordScript,
		BarHeight:     height,
	}
}

// RenderHyprland renders the compositor configuration.
func RenderHyprland(opts Options) (string, error) {
	return render("templates/hyprland.conf.tmpl", opts.data())
}

// RenderWaybarConfig renders the waybar configuration object.
func RenderWaybarConfig(opts Options) (string, error) {
	return render("templates/waybar-config.jsonc.tmpl", opts.data())
}

// RenderWaybarStyle renders the waybar stylesheet for the selected
// theme. Unknown themes fall back to the default.
func RenderWaybarStyle(opts Options) (string, error) {
	name := "templates/waybar-style-default.css.tmpl"
	if strings.EqualFold(opts.WaybarTheme, "slim") {
		name = "templates/waybar-style-slim.css.tmpl"
	}
	return render(name, opts.data())
}

// FallbackRecordScript returns the minimal screen-recording toggle used
// when the fetched tree does not ship one.
func FallbackRecordScript() string {
	data, err := templateFS.ReadFile("templates/record-toggle.sh")
	if err != nil {
		// The file is embedded at build time; this cannot happen.
		panic(err)
	}
	return string(data)
}

func render(name string, data templateData) (string, error) {
	tmpl, err := template.ParseFS(templateFS, name)
	if err != nil {
		return "", errors.Wrapf(err, errors.ErrTemplateRender, "cannot parse template %s", name)
	}

	var b strings.Builder
	if err := tmpl.Execute(&b, data); err != nil {
		return "", errors.Wrapf(err, errors.ErrTemplateRender, "cannot render template %s", name)
	}
	return b.String(), nil
}
