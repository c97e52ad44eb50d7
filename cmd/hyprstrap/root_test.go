package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hyprstrap/hyprstrap/pkg/ui"
)

func TestNewRootCmdHasSubcommands(t *testing.T) {
	root := NewRootCmd()

	names := make([]string, 0)
	for _, cmd := range root.Commands() {
		names = append(names, cmd.Name())
	}
	assert.Contains(t, names, "install")
	assert.Contains(t, names, "version")
	assert.Contains(t, names, "completion")
}

func TestProfileConfirmerPrefersScriptedAnswers(t *testing.T) {
	fallback := &ui.ScriptedConfirmer{}
	c := &profileConfirmer{
		answers:  map[string]bool{"nvidia": true},
		fallback: fallback,
	}

	got, err := c.Confirm("Install the NVIDIA driver?", false)
	require.NoError(t, err)
	assert.True(t, got)
	assert.Empty(t, fallback.Asked)

	got, err = c.Confirm("Enable auto-login on tty1?", false)
	require.NoError(t, err)
	assert.False(t, got)
	assert.Len(t, fallback.Asked, 1)
}
