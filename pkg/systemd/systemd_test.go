package systemd

import (
	"context"
	"fmt"
	"testing"

	"github.com/hyprstrap/hyprstrap/pkg/shell"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEnableSystem(t *testing.T) {
	f := shell.NewFakeRunner()
	c := NewClient(f, false)

	err := c.EnableSystem(context.Background(), []string{"NetworkManager", "bluetooth"})
	require.NoError(t, err)

	lines := f.CommandLines()
	require.Len(t, lines, 2)
	assert.Equal(t, "sudo systemctl enable --now NetworkManager", lines[0])
	assert.Equal(t, "sudo systemctl enable --now bluetooth", lines[1])
}

func TestEnableSystemInChrootSkipsStart(t *testing.T) {
	f := shell.NewFakeRunner()
	c := NewClient(f, true)

	err := c.EnableSystem(context.Background(), []string{"NetworkManager"})
	require.NoError(t, err)

	require.Len(t, f.Calls, 1)
	assert.Equal(t, "sudo systemctl enable NetworkManager", f.Calls[0].String())
}

func TestEnableUser(t *testing.T) {
	f := shell.NewFakeRunner()
	c := NewClient(f, false)

	err := c.EnableUser(context.Background(), []string{"pipewire"})
	require.NoError(t, err)

	require.Len(t, f.Calls, 1)
	assert.Equal(t, "systemctl --user enable --now pipewire", f.Calls[0].String())
}

func TestEnablePropagatesFailure(t *testing.T) {
	f := shell.NewFakeRunner()
	f.FailOn("sudo systemctl enable", fmt.Errorf("unit not found"))
	c := NewClient(f, false)

	err := c.EnableSystem(context.Background(), []string{"nonexistent"})
	assert.Error(t, err)
}

func TestIsActiveUser(t *testing.T) {
	f := shell.NewFakeRunner()
	f.RespondTo("systemctl --user is-active pipewire", "active")
	f.FailOn("systemctl --user is-active wireplumber", fmt.Errorf("inactive"))
	c := NewClient(f, false)

	assert.True(t, c.IsActiveUser(context.Background(), "pipewire"))
	assert.False(t, c.IsActiveUser(context.Background(), "wireplumber"))
}

func TestDaemonReload(t *testing.T) {
	f := shell.NewFakeRunner()
	c := NewClient(f, false)

	require.NoError(t, c.DaemonReload(context.Background()))
	require.NoError(t, c.DaemonReloadUser(context.Background()))

	lines := f.CommandLines()
	assert.Equal(t, "sudo systemctl daemon-reload", lines[0])
	assert.Equal(t, "systemctl --user daemon-reload", lines[1])
}
