package fetch

import (
	"context"
	"fmt"
	"path/filepath"
	"testing"

	"github.com/hyprstrap/hyprstrap/pkg/config"
	"github.com/hyprstrap/hyprstrap/pkg/errors"
	"github.com/hyprstrap/hyprstrap/pkg/shell"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testDotfiles(secondary bool) config.Dotfiles {
	d := config.Dotfiles{
		Primary: config.Remote{Name: "dotfiles", URL: "https://example.com/dots.git"},
	}
	if secondary {
		d.Secondary = config.Remote{Name: "theme", URL: "https://example.com/theme.git"}
	}
	return d
}

func TestFetchPrimaryOnly(t *testing.T) {
	f := shell.NewFakeRunner()
	fetcher := NewFetcher(f)
	root := t.TempDir()

	trees, err := fetcher.Fetch(context.Background(), root, testDotfiles(false))
	require.NoError(t, err)

	assert.Equal(t, filepath.Join(root, "dotfiles"), trees.Primary)
	assert.Empty(t, trees.Secondary)

	require.Len(t, f.Calls, 1)
	assert.Equal(t,
		"git clone --depth 1 https://example.com/dots.git "+filepath.Join(root, "dotfiles"),
		f.Calls[0].String())
}

func TestFetchBothTrees(t *testing.T) {
	f := shell.NewFakeRunner()
	fetcher := NewFetcher(f)
	root := t.TempDir()

	trees, err := fetcher.Fetch(context.Background(), root, testDotfiles(true))
	require.NoError(t, err)

	assert.Equal(t, filepath.Join(root, "theme"), trees.Secondary)
	require.Len(t, f.Calls, 2)
}

func TestFetchFailureIsFatal(t *testing.T) {
	f := shell.NewFakeRunner()
	f.FailOn("git clone", fmt.Errorf("could not resolve host"))
	fetcher := NewFetcher(f)

	_, err := fetcher.Fetch(context.Background(), t.TempDir(), testDotfiles(false))
	require.Error(t, err)
	assert.True(t, errors.IsErrorCode(err, errors.ErrFetchFailed))
}

func TestFetchSecondaryFailureIsFatal(t *testing.T) {
	f := shell.NewFakeRunner()
	f.FailOn("git clone --depth 1 https://example.com/theme.git", fmt.Errorf("auth failed"))
	fetcher := NewFetcher(f)

	_, err := fetcher.Fetch(context.Background(), t.TempDir(), testDotfiles(true))
	require.Error(t, err)
	assert.True(t, errors.IsErrorCode(err, errors.ErrFetchFailed))
}
