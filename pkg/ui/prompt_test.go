package ui

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConsoleConfirmer(t *testing.T) {
	tests := []struct {
		name  string
		input string
		def   bool
		want  bool
	}{
		{"explicit yes", "y\n", false, true},
		{"explicit yes word", "yes\n", false, true},
		{"explicit no", "n\n", true, false},
		{"empty takes default no", "\n", false, false},
		{"empty takes default yes", "\n", true, true},
		{"garbage is no", "maybe\n", true, false},
		{"eof takes default", "", true, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var out strings.Builder
			c := &ConsoleConfirmer{In: strings.NewReader(tt.input), Out: &out}

			got, err := c.Confirm("Install the NVIDIA driver?", tt.def)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
			assert.Contains(t, out.String(), "Install the NVIDIA driver?")
		})
	}
}

func TestConsoleConfirmerSequentialPrompts(t *testing.T) {
	// One answer per prompt from a single stream. The buffered reader
	// must survive across calls or the second answer is lost.
	var out strings.Builder
	c := &ConsoleConfirmer{In: strings.NewReader("y\nn\ny\n"), Out: &out}

	got, err := c.Confirm("Install the NVIDIA driver?", false)
	require.NoError(t, err)
	assert.True(t, got)

	got, err = c.Confirm("Enable auto-login on tty1?", true)
	require.NoError(t, err)
	assert.False(t, got)

	got, err = c.Confirm("Proceed?", false)
	require.NoError(t, err)
	assert.True(t, got)
}

func TestConsoleConfirmerMarkerReflectsDefault(t *testing.T) {
	var out strings.Builder
	c := &ConsoleConfirmer{In: strings.NewReader("\n"), Out: &out}

	_, err := c.Confirm("Proceed?", false)
	require.NoError(t, err)
	assert.Contains(t, out.String(), "[y/N]")

	out.Reset()
	_, err = c.Confirm("Proceed?", true)
	require.NoError(t, err)
	assert.Contains(t, out.String(), "[Y/n]")
}

func TestConsoleConfirmerAssumeYes(t *testing.T) {
	var out strings.Builder
	c := &ConsoleConfirmer{In: strings.NewReader(""), Out: &out, AssumeYes: true}

	got, err := c.Confirm("Enable auto-login?", false)
	require.NoError(t, err)
	assert.True(t, got)
	assert.Empty(t, out.String(), "assume-yes must not prompt")
}

func TestScriptedConfirmer(t *testing.T) {
	s := &ScriptedConfirmer{Answers: map[string]bool{"NVIDIA": true}}

	got, err := s.Confirm("Install the NVIDIA driver?", false)
	require.NoError(t, err)
	assert.True(t, got)

	got, err = s.Confirm("Enable auto-login?", false)
	require.NoError(t, err)
	assert.False(t, got, "unmatched question takes its default")

	assert.Len(t, s.Asked, 2)
}
