package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault(t *testing.T) {
	cfg, err := Default()
	require.NoError(t, err)

	assert.Equal(t, 1, cfg.Version)
	assert.Equal(t, "chaotic-aur", cfg.Repo.Name)
	assert.Equal(t, "[chaotic-aur]", cfg.Repo.Marker)
	assert.Equal(t, "/etc/pacman.conf", cfg.Repo.PacmanConf)

	assert.Contains(t, cfg.Packages.Network, "networkmanager")
	assert.Contains(t, cfg.Packages.Desktop, "hyprland")
	assert.Contains(t, cfg.Packages.Desktop, "waybar")
	assert.Contains(t, cfg.Packages.AudioConflicts, "pulseaudio")
	assert.Equal(t, "wlogout", cfg.Packages.Opportunistic)
	assert.NotEmpty(t, cfg.Packages.Nvidia)
	assert.NotEmpty(t, cfg.Packages.AUR)

	assert.Equal(t, []string{"NetworkManager", "bluetooth"}, cfg.Services.System)
	assert.Equal(t, []string{"pipewire", "pipewire-pulse", "wireplumber"}, cfg.Services.AudioUser)

	assert.Equal(t, []string{"hypr", "waybar", "wofi", "kitty", "dunst", "scripts"}, cfg.Deploy.Entries)
	assert.Equal(t, "default", cfg.WaybarTheme)
	assert.True(t, cfg.Dotfiles.HasSecondary())
	assert.NotEmpty(t, cfg.Browser.Extensions)
}

func TestLoadMissingProfileUsesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope", "profile.toml"))
	require.NoError(t, err)
	assert.Equal(t, "chaotic-aur", cfg.Repo.Name)
}

func TestLoadProfileOverrides(t *testing.T) {
	dir := t.TempDir()
	profile := filepath.Join(dir, "profile.toml")
	content := `
[dotfiles]
primary = "https://example.com/me/dots.git"

[packages]
extra = ["neovim"]
exclude = ["firefox", "waypaper"]

[waybar]
theme = "slim"

[prompts]
nvidia = true
`
	require.NoError(t, os.WriteFile(profile, []byte(content), 0644))

	cfg, err := Load(profile)
	require.NoError(t, err)

	assert.Equal(t, "https://example.com/me/dots.git", cfg.Dotfiles.Primary.URL)
	assert.Contains(t, cfg.Packages.Desktop, "neovim")
	assert.NotContains(t, cfg.Packages.Desktop, "firefox")
	assert.NotContains(t, cfg.Packages.AUR, "waypaper")
	assert.Equal(t, "slim", cfg.WaybarTheme)
	assert.Equal(t, map[string]bool{"nvidia": true}, cfg.PromptAnswers)
}

func TestLoadMalformedProfileFails(t *testing.T) {
	dir := t.TempDir()
	profile := filepath.Join(dir, "profile.toml")
	require.NoError(t, os.WriteFile(profile, []byte("[[[not toml"), 0644))

	_, err := Load(profile)
	assert.Error(t, err)
}
