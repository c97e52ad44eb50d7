package extras

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hyprstrap/hyprstrap/pkg/shell"
	"github.com/hyprstrap/hyprstrap/pkg/systemd"
	"github.com/hyprstrap/hyprstrap/pkg/ui"
)

func TestGettyOverrideContent(t *testing.T) {
	content := GettyOverrideContent("alice")

	assert.Contains(t, content, "--autologin alice")
	assert.Contains(t, content, "%I")
	assert.Contains(t, content, "ExecStart=\n")
}

func TestAppendOnceCreatesAndGuards(t *testing.T) {
	profile := filepath.Join(t.TempDir(), ".bash_profile")

	require.NoError(t, AppendOnce(profile, autostartMarker, autostartBlock))
	require.NoError(t, AppendOnce(profile, autostartMarker, autostartBlock))

	data, err := os.ReadFile(profile)
	require.NoError(t, err)
	assert.Equal(t, 1, strings.Count(string(data), autostartMarker))
	assert.Contains(t, string(data), "exec Hyprland")
}

func TestAppendOncePreservesExistingContent(t *testing.T) {
	profile := filepath.Join(t.TempDir(), ".bash_profile")
	require.NoError(t, os.WriteFile(profile, []byte("export EDITOR=vim"), 0644))

	require.NoError(t, AppendOnce(profile, autostartMarker, autostartBlock))

	data, err := os.ReadFile(profile)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(data), "export EDITOR=vim\n"))
	assert.Contains(t, string(data), autostartMarker)
}

func TestAutoLoginDeclined(t *testing.T) {
	runner := shell.NewFakeRunner()
	auto := NewAutoLogin(runner, systemd.NewClient(runner, false), &ui.ScriptedConfirmer{
		Answers: map[string]bool{"auto-login": false},
	})

	enabled, err := auto.Maybe(context.Background(), "alice", filepath.Join(t.TempDir(), ".bash_profile"))

	require.NoError(t, err)
	assert.False(t, enabled)
	assert.Empty(t, runner.Calls)
}

func TestAutoLoginAccepted(t *testing.T) {
	runner := shell.NewFakeRunner()
	auto := NewAutoLogin(runner, systemd.NewClient(runner, false), &ui.ScriptedConfirmer{
		Answers: map[string]bool{"auto-login": true},
	})
	profile := filepath.Join(t.TempDir(), ".bash_profile")

	enabled, err := auto.Maybe(context.Background(), "alice", profile)

	require.NoError(t, err)
	assert.True(t, enabled)
	assert.True(t, runner.Ran("sudo mkdir -p /etc/systemd/system/getty@tty1.service.d"))
	assert.True(t, runner.Ran("sudo systemctl daemon-reload"))

	override := runner.InputFor("sudo tee " + DefaultGettyOverride)
	assert.Contains(t, override, "ExecStart=\nExecStart=-/sbin/agetty --autologin alice --noclear %I $TERM\n")

	data, err := os.ReadFile(profile)
	require.NoError(t, err)
	assert.Contains(t, string(data), autostartMarker)
}

func TestAutoLoginOverridePassedOutsideTheShell(t *testing.T) {
	runner := shell.NewFakeRunner()
	auto := NewAutoLogin(runner, systemd.NewClient(runner, false), &ui.ScriptedConfirmer{
		Answers: map[string]bool{"auto-login": true},
	})

	_, err := auto.Maybe(context.Background(), "alice", filepath.Join(t.TempDir(), ".bash_profile"))
	require.NoError(t, err)

	// $TERM belongs to agetty at boot. A shell anywhere between the
	// content and the file would expand it or escape the newlines.
	for _, line := range runner.CommandLines() {
		assert.NotContains(t, line, "sh -c")
		assert.NotContains(t, line, "$TERM")
	}
	assert.Contains(t, runner.InputFor("sudo tee"), "$TERM")
}
