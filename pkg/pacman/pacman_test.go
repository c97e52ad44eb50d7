package pacman

import (
	"context"
	"fmt"
	"testing"

	"github.com/hyprstrap/hyprstrap/pkg/errors"
	"github.com/hyprstrap/hyprstrap/pkg/shell"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInstall(t *testing.T) {
	f := shell.NewFakeRunner()
	c := NewClient(f)

	err := c.Install(context.Background(), []string{"hyprland", "waybar"})
	require.NoError(t, err)

	require.Len(t, f.Calls, 1)
	assert.Equal(t, "sudo pacman -S --needed --noconfirm hyprland waybar", f.Calls[0].String())
}

func TestInstallEmptyListIsNoop(t *testing.T) {
	f := shell.NewFakeRunner()
	c := NewClient(f)

	require.NoError(t, c.Install(context.Background(), nil))
	assert.Empty(t, f.Calls)
}

func TestInstallFailureIsFatal(t *testing.T) {
	f := shell.NewFakeRunner()
	f.FailOn("sudo pacman -S", fmt.Errorf("exit status 1"))
	c := NewClient(f)

	err := c.Install(context.Background(), []string{"hyprland"})
	require.Error(t, err)
	assert.True(t, errors.IsErrorCode(err, errors.ErrPackageInstall))
}

func TestInstallOpportunisticDowngradesFailure(t *testing.T) {
	f := shell.NewFakeRunner()
	f.FailOn("sudo pacman -S --needed --noconfirm wlogout", fmt.Errorf("target not found: wlogout"))
	c := NewClient(f)

	result := c.InstallOpportunistic(context.Background(), "wlogout")
	assert.Equal(t, StatusFailedNonFatal, result.Status)
	assert.True(t, errors.IsErrorCode(result.Err, errors.ErrPackageSkipped))
}

func TestInstallOpportunisticSuccess(t *testing.T) {
	f := shell.NewFakeRunner()
	c := NewClient(f)

	result := c.InstallOpportunistic(context.Background(), "wlogout")
	assert.Equal(t, StatusSucceeded, result.Status)
	assert.NoError(t, result.Err)
}

func TestRemoveIfPresent(t *testing.T) {
	f := shell.NewFakeRunner()
	// pulseaudio is installed, pulseaudio-alsa is not.
	f.RespondTo("pacman -Qi pulseaudio", "Name : pulseaudio")
	f.FailOn("pacman -Qi pulseaudio-alsa", fmt.Errorf("package 'pulseaudio-alsa' was not found"))
	c := NewClient(f)

	results := c.RemoveIfPresent(context.Background(), []string{"pulseaudio", "pulseaudio-alsa"})
	require.Len(t, results, 2)

	assert.Equal(t, StatusSucceeded, results[0].Status)
	assert.Equal(t, StatusSkippedMissing, results[1].Status)
	assert.True(t, f.Ran("sudo pacman -Rns --noconfirm pulseaudio"))
	assert.False(t, f.Ran("sudo pacman -Rns --noconfirm pulseaudio-alsa"))
}

func TestRemoveIfPresentFailureIsNonFatal(t *testing.T) {
	f := shell.NewFakeRunner()
	f.RespondTo("pacman -Qi pulseaudio", "Name : pulseaudio")
	f.FailOn("sudo pacman -Rns", fmt.Errorf("could not satisfy dependencies"))
	c := NewClient(f)

	results := c.RemoveIfPresent(context.Background(), []string{"pulseaudio"})
	require.Len(t, results, 1)
	assert.Equal(t, StatusFailedNonFatal, results[0].Status)
	assert.Error(t, results[0].Err)
}

func TestStatusString(t *testing.T) {
	assert.Equal(t, "succeeded", StatusSucceeded.String())
	assert.Equal(t, "skipped", StatusSkippedMissing.String())
	assert.Equal(t, "failed", StatusFailedNonFatal.String())
}
