// Package filelock serializes writers of an output file across processes and
// replaces the file atomically.
package filelock

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/gofrs/flock"
)

// LockSuffix is appended to the hidden lock file name derived from a target.
const LockSuffix = ".lock"

// FileLock wraps a flock lock file guarding a target path.
type FileLock struct {
	flock *flock.Flock
	path  string
}

// New returns a lock guarding target. The lock file is a hidden sibling,
// "<dir>/.<name>.lock", and is left in place after Unlock so that every
// writer contends on the same inode.
func New(target string) *FileLock {
	lockPath := filepath.Join(filepath.Dir(target), "."+filepath.Base(target)+LockSuffix)
	return &FileLock{flock: flock.New(lockPath), path: lockPath}
}

// Path returns the lock file path.
func (fl *FileLock) Path() string {
	return fl.path
}

// Lock blocks until the exclusive lock is held.
func (fl *FileLock) Lock() error {
	if err := fl.flock.Lock(); err != nil {
		return fmt.Errorf("failed to acquire lock on %s: %w", fl.path, err)
	}
	return nil
}

// Unlock releases the lock.
func (fl *FileLock) Unlock() error {
	if err := fl.flock.Unlock(); err != nil {
		return fmt.Errorf("failed to release lock on %s: %w", fl.path, err)
	}
	return nil
}

// AtomicWrite writes data to path through a temporary file in the same
// directory followed by a rename, so readers see either the old or the new
// content. The parent directory must already exist.
func AtomicWrite(path string, data []byte, perm os.FileMode) error {
	dir := filepath.Dir(path)

	tempFile, err := os.CreateTemp(dir, "."+filepath.Base(path)+".tmp-*")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	tempPath := tempFile.Name()

	cleanup := func() {
		tempFile.Close()
		os.Remove(tempPath)
	}

	if _, err := tempFile.Write(data); err != nil {
		cleanup()
		return fmt.Errorf("failed to write temp file: %w", err)
	}
	if err := tempFile.Sync(); err != nil {
		cleanup()
		return fmt.Errorf("failed to sync temp file: %w", err)
	}
	if err := tempFile.Close(); err != nil {
		os.Remove(tempPath)
		return fmt.Errorf("failed to close temp file: %w", err)
	}
	if err := os.Chmod(tempPath, perm); err != nil {
		os.Remove(tempPath)
		return fmt.Errorf("failed to set permissions on temp file: %w", err)
	}
	if err := os.Rename(tempPath, path); err != nil {
		os.Remove(tempPath)
		return fmt.Errorf("failed to rename temp file to %s: %w", path, err)
	}
	return nil
}

// LockedWrite holds the lock for path while atomically replacing it. A
// symlinked path is written through to its target, and an existing file
// keeps its permission bits; perm applies only to a newly created file. The
// hidden lock file stays next to the target afterwards.
func LockedWrite(path string, data []byte, perm os.FileMode) error {
	target, mode, err := resolveTarget(path, perm)
	if err != nil {
		return err
	}

	lock := New(target)
	if err := lock.Lock(); err != nil {
		return err
	}
	writeErr := AtomicWrite(target, data, mode)
	if err := lock.Unlock(); err != nil && writeErr == nil {
		return err
	}
	return writeErr
}

// resolveTarget follows symlinks in path and returns the file to replace
// together with the mode it should end up with.
func resolveTarget(path string, perm os.FileMode) (string, os.FileMode, error) {
	info, err := os.Lstat(path)
	if os.IsNotExist(err) {
		return path, perm, nil
	}
	if err != nil {
		return "", 0, fmt.Errorf("failed to stat %s: %w", path, err)
	}
	if info.Mode()&os.ModeSymlink == 0 {
		return path, info.Mode().Perm(), nil
	}

	target, err := filepath.EvalSymlinks(path)
	if os.IsNotExist(err) {
		// Dangling link: create the file it points at.
		dest, err := os.Readlink(path)
		if err != nil {
			return "", 0, fmt.Errorf("failed to read link %s: %w", path, err)
		}
		if !filepath.IsAbs(dest) {
			dest = filepath.Join(filepath.Dir(path), dest)
		}
		return dest, perm, nil
	}
	if err != nil {
		return "", 0, fmt.Errorf("failed to resolve %s: %w", path, err)
	}
	targetInfo, err := os.Stat(target)
	if err != nil {
		return "", 0, fmt.Errorf("failed to stat %s: %w", target, err)
	}
	return target, targetInfo.Mode().Perm(), nil
}
