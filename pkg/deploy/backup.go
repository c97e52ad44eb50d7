package deploy

import (
	"io"
	"os"
	"path/filepath"

	"github.com/hyprstrap/hyprstrap/pkg/errors"
)

// BackupSet is the timestamped directory that receives pre-existing
// config entries displaced by a run. The directory is created lazily:
// a fresh system produces no backup directory at all.
type BackupSet struct {
	dir     string
	created bool
}

// NewBackupSet prepares a backup set at dir without creating it.
func NewBackupSet(dir string) *BackupSet {
	return &BackupSet{dir: dir}
}

// Dir returns the backup directory path, or "" when nothing was backed
// up during the run.
func (b *BackupSet) Dir() string {
	if !b.created {
		return ""
	}
	return b.dir
}

// Move displaces path into the backup set under name, creating the set
// on first use. Rename is attempted first; a cross-device failure falls
// back to copy-and-remove.
func (b *BackupSet) Move(path, name string) error {
	if !b.created {
		if err := os.MkdirAll(b.dir, 0755); err != nil {
			return errors.Wrapf(err, errors.ErrDirCreate, "cannot create backup directory %s", b.dir)
		}
		b.created = true
	}

	dest := filepath.Join(b.dir, name)
	if err := os.Rename(path, dest); err == nil {
		return nil
	}

	if err := CopyTree(path, dest); err != nil {
		return errors.Wrapf(err, errors.ErrBackupMove, "cannot back up %s", path)
	}
	if err := os.RemoveAll(path); err != nil {
		return errors.Wrapf(err, errors.ErrBackupMove, "cannot remove %s after backup", path)
	}
	return nil
}

// CopyTree copies a file or directory tree, preserving modes and
// recreating symlinks.
func CopyTree(src, dst string) error {
	info, err := os.Lstat(src)
	if err != nil {
		return err
	}

	switch {
	case info.Mode()&os.ModeSymlink != 0:
		target, err := os.Readlink(src)
		if err != nil {
			return err
		}
		return os.Symlink(target, dst)

	case info.IsDir():
		if err := os.MkdirAll(dst, info.Mode().Perm()); err != nil {
			return err
		}
		entries, err := os.ReadDir(src)
		if err != nil {
			return err
		}
		for _, entry := range entries {
			if err := CopyTree(filepath.Join(src, entry.Name()), filepath.Join(dst, entry.Name())); err != nil {
				return err
			}
		}
		return nil

	default:
		return copyFile(src, dst, info.Mode().Perm())
	}
}

func copyFile(src, dst string, perm os.FileMode) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer func() { _ = in.Close() }()

	out, err := os.OpenFile(dst, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, perm)
	if err != nil {
		return err
	}

	if _, err := io.Copy(out, in); err != nil {
		_ = out.Close()
		return err
	}
	return out.Close()
}
