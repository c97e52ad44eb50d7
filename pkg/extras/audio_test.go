package extras

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hyprstrap/hyprstrap/pkg/errors"
	"github.com/hyprstrap/hyprstrap/pkg/shell"
	"github.com/hyprstrap/hyprstrap/pkg/systemd"
	"github.com/hyprstrap/hyprstrap/pkg/ui"
)

func TestVerifyAudioReportsPerUnit(t *testing.T) {
	runner := shell.NewFakeRunner()
	runner.RespondTo("systemctl --user is-active pipewire.service", "active")
	runner.RespondTo("systemctl --user is-active wireplumber.service", "inactive")

	var out bytes.Buffer
	statuses := VerifyAudio(context.Background(), systemd.NewClient(runner, false),
		ui.NewPrinter(&out), []string{"pipewire.service", "wireplumber.service"})

	require.Len(t, statuses, 2)
	assert.Equal(t, "pipewire.service", statuses[0].Unit)
	assert.True(t, statuses[0].Active)
	assert.NoError(t, statuses[0].Err)

	assert.Equal(t, "wireplumber.service", statuses[1].Unit)
	assert.False(t, statuses[1].Active)
	assert.True(t, errors.IsErrorCode(statuses[1].Err, errors.ErrServiceInactive))

	assert.Contains(t, out.String(), "pipewire.service is active")
	assert.Contains(t, out.String(), "wireplumber.service is not active")
}
