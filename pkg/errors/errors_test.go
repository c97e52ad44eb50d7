package errors

import (
	stderrors "errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	err := New(ErrRootInvocation, "must not run as root")
	assert.Equal(t, ErrRootInvocation, err.Code)
	assert.Equal(t, "[ROOT_INVOCATION] must not run as root", err.Error())
}

func TestNewf(t *testing.T) {
	err := Newf(ErrPackageSkipped, "package %q not found in any index", "wlogout")
	assert.Contains(t, err.Error(), `package "wlogout" not found`)
}

func TestWrap(t *testing.T) {
	base := fmt.Errorf("exit status 1")
	err := Wrap(base, ErrFetchFailed, "git clone failed")

	require.NotNil(t, err)
	assert.Equal(t, ErrFetchFailed, err.Code)
	assert.Equal(t, base, stderrors.Unwrap(err))
	assert.Contains(t, err.Error(), "exit status 1")
}

func TestWrapNilReturnsNil(t *testing.T) {
	assert.Nil(t, Wrap(nil, ErrFetchFailed, "nope"))
	assert.Nil(t, Wrapf(nil, ErrFetchFailed, "nope %d", 1))
}

func TestIsMatchesByCode(t *testing.T) {
	err := Wrap(fmt.Errorf("inner"), ErrConfigMissing, "no waybar subtree")
	target := New(ErrConfigMissing, "anything")

	assert.True(t, stderrors.Is(err, target))
	assert.False(t, stderrors.Is(err, New(ErrFetchFailed, "anything")))
}

func TestIsErrorCode(t *testing.T) {
	err := New(ErrWallpaperMissing, "no default wallpaper")
	wrapped := fmt.Errorf("outer: %w", err)

	assert.True(t, IsErrorCode(wrapped, ErrWallpaperMissing))
	assert.False(t, IsErrorCode(wrapped, ErrConfigMissing))
	assert.False(t, IsErrorCode(fmt.Errorf("plain"), ErrWallpaperMissing))
}

func TestGetErrorCode(t *testing.T) {
	assert.Equal(t, ErrBackupMove, GetErrorCode(New(ErrBackupMove, "x")))
	assert.Equal(t, ErrUnknown, GetErrorCode(fmt.Errorf("plain")))
}

func TestWithDetail(t *testing.T) {
	err := New(ErrConfigMissing, "missing").WithDetail("entry", "waybar")
	assert.Equal(t, "waybar", err.Details["entry"])
}
