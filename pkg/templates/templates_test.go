package templates

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testOptions(driver DriverVariant) Options {
	return Options{
		Driver:        driver,
		WallpaperPath: "/home/alice/.config/wallpapers/eink.jpg",
		RecordScript:  "/home/alice/.config/scripts/record-toggle.sh",
		WaybarTheme:   "default",
	}
}

func TestRenderHyprlandWithoutNvidia(t *testing.T) {
	out, err := RenderHyprland(testOptions(DriverNone))
	require.NoError(t, err)

	assert.Contains(t, out, "swww img /home/alice/.config/wallpapers/eink.jpg")
	assert.Contains(t, out, "exec, /home/alice/.config/scripts/record-toggle.sh")
	assert.NotContains(t, out, "nvidia", "no driver lines on the default path")
	assert.NotContains(t, out, "no_hardware_cursors")
}

func TestRenderHyprlandWithNvidia(t *testing.T) {
	out, err := RenderHyprland(testOptions(DriverNvidia))
	require.NoError(t, err)

	assert.Contains(t, out, "env = LIBVA_DRIVER_NAME,nvidia")
	assert.Contains(t, out, "env = GBM_BACKEND,nvidia-drm")
	assert.Contains(t, out, "no_hardware_cursors = true")
}

func TestRenderHyprlandIsDeterministic(t *testing.T) {
	first, err := RenderHyprland(testOptions(DriverNvidia))
	require.NoError(t, err)
	second, err := RenderHyprland(testOptions(DriverNvidia))
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

func TestRenderWaybarConfig(t *testing.T) {
	out, err := RenderWaybarConfig(testOptions(DriverNone))
	require.NoError(t, err)

	assert.Contains(t, out, `"height": 30`, "zero height takes the default")
	assert.Contains(t, out, `"hyprland/workspaces"`)
}

func TestRenderWaybarConfigCustomHeight(t *testing.T) {
	opts := testOptions(DriverNone)
	opts.BarHeight = 24

	out, err := RenderWaybarConfig(opts)
	require.NoError(t, err)
	assert.Contains(t, out, `"height": 24`)
}

func TestRenderWaybarStyleThemes(t *testing.T) {
	opts := testOptions(DriverNone)

	def, err := RenderWaybarStyle(opts)
	require.NoError(t, err)
	assert.Contains(t, def, "default theme")

	opts.WaybarTheme = "slim"
	slim, err := RenderWaybarStyle(opts)
	require.NoError(t, err)
	assert.Contains(t, slim, "slim theme")

	opts.WaybarTheme = "does-not-exist"
	fallback, err := RenderWaybarStyle(opts)
	require.NoError(t, err)
	assert.Contains(t, fallback, "default theme")
}

func TestFallbackRecordScript(t *testing.T) {
	script := FallbackRecordScript()

	assert.True(t, strings.HasPrefix(script, "#!/usr/bin/env bash"))
	assert.Contains(t, script, "wf-recorder")
}
