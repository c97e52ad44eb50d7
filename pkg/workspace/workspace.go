// Package workspace manages the scratch directory that holds fetched
// dotfiles trees. The workspace is owned exclusively by one run and is
// removed on every exit path, including interrupts.
package workspace

import (
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/hyprstrap/hyprstrap/pkg/errors"
	"github.com/hyprstrap/hyprstrap/pkg/logging"
)

// Workspace is a process-scoped scratch directory.
type Workspace struct {
	root string

	mu      sync.Mutex
	cleaned bool
	stop    chan struct{}
}

// Create clears any stale workspace at root and recreates it empty.
func Create(root string) (*Workspace, error) {
	if err := os.RemoveAll(root); err != nil {
		return nil, errors.Wrapf(err, errors.ErrDirCreate, "cannot clear stale workspace %s", root)
	}
	if err := os.MkdirAll(root, 0755); err != nil {
		return nil, errors.Wrapf(err, errors.ErrDirCreate, "cannot create workspace %s", root)
	}
	return &Workspace{root: root, stop: make(chan struct{})}, nil
}

// Root returns the workspace directory.
func (w *Workspace) Root() string {
	return w.root
}

// Cleanup removes the workspace. Safe to call more than once; the
// orchestrator defers it and the signal hook calls it too.
func (w *Workspace) Cleanup() {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.cleaned {
		return
	}
	w.cleaned = true
	select {
	case <-w.stop:
	default:
		close(w.stop)
	}

	if err := os.RemoveAll(w.root); err != nil {
		logger := logging.GetLogger("workspace")
		logger.Warn().Err(err).Str("path", w.root).Msg("Failed to remove scratch workspace")
	}
}

// RemoveOnSignal installs a handler that cleans the workspace and exits
// when the process receives SIGINT or SIGTERM. This is the trap
// equivalent: the workspace must not survive an aborted run.
func (w *Workspace) RemoveOnSignal() {
	ch := make(chan os.Signal, 1)
	signal.Notify(ch, os.Interrupt, syscall.SIGTERM)

	go func() {
		select {
		case <-ch:
			w.Cleanup()
			os.Exit(1)
		case <-w.stop:
			signal.Stop(ch)
		}
	}()
}
