//
// Copyright (c) 2022-2026 - for information on the respective copyright owner
// see the NOTICE file and/or the repository https://github.com/carbynestack/sharecodec.
//
// SPDX-License-Identifier: Apache-2.0
//

package utils

import (
	"io/ioutil"
	"os"
	"path/filepath"

	"github.com/pkg/errors"
	"golang.org/x/sys/unix"
)

// Fio is a pointer to the shared FileIO implementation
var Fio FileIO = &OSFileIO{}

// FileIO is an interface for filesystem methods
type FileIO interface {
	CreatePath(path string) error
	Delete(path string) error
	Exists(path string) (bool, error)
	Glob(pattern string) ([]string, error)
	ReadAll(path string) ([]byte, error)
	WriteAtomic(path string, data []byte) error
}

// OSFileIO implements fileIO backed by default os methods
type OSFileIO struct{}

// CreatePath creates a directory and all parents if required. Returns nil on success or an error otherwise.
// This implementation is backed by os.MkdirAll.
func (OSFileIO) CreatePath(path string) error { return os.MkdirAll(path, 0755) }

// Delete deletes a single file or directory with all contained elements. Returns nil on success or an error otherwise.
// This implementation is backed by os.Remove.
func (OSFileIO) Delete(path string) error { return os.RemoveAll(path) }

// Exists reports whether path exists. Errors other than a missing file are returned.
func (OSFileIO) Exists(path string) (bool, error) {
	_, err := os.Stat(path)
	if err == nil {
		return true, nil
	}
	if os.IsNotExist(err) {
		return false, nil
	}
	return false, err
}

// Glob returns the names of all files matching pattern, see filepath.Match for the syntax.
// This implementation is backed by filepath.Glob.
func (OSFileIO) Glob(pattern string) ([]string, error) { return filepath.Glob(pattern) }

// ReadAll reads the whole file. Missing files yield an error satisfying os.IsNotExist.
func (OSFileIO) ReadAll(path string) ([]byte, error) { return ioutil.ReadFile(path) }

// WriteAtomic replaces path with data so that readers either see the previous content or all of data, never a
// partially written file. The data is written to a temporary file in the same directory, synced and renamed over path.
// The directory is synced afterwards so the rename survives a crash.
func (OSFileIO) WriteAtomic(path string, data []byte) error {
	dir := filepath.Dir(path)
	tmp, err := ioutil.TempFile(dir, "."+filepath.Base(path)+".tmp")
	if err != nil {
		return errors.Wrapf(err, "failed to create temporary file for %s", path)
	}
	tmpName := tmp.Name()
	cleanup := func() { _ = os.Remove(tmpName) }
	if _, err = tmp.Write(data); err != nil {
		_ = tmp.Close()
		cleanup()
		return errors.Wrapf(err, "failed to write %s", path)
	}
	if err = tmp.Sync(); err != nil {
		_ = tmp.Close()
		cleanup()
		return errors.Wrapf(err, "failed to sync %s", path)
	}
	if err = tmp.Close(); err != nil {
		cleanup()
		return err
	}
	if err = os.Chmod(tmpName, 0644); err != nil {
		cleanup()
		return err
	}
	if err = os.Rename(tmpName, path); err != nil {
		cleanup()
		return errors.Wrapf(err, "failed to move %s into place", path)
	}
	return syncDir(dir)
}

// syncDir flushes the directory entry of a freshly renamed file.
func syncDir(dir string) error {
	fd, err := unix.Open(dir, unix.O_RDONLY|unix.O_DIRECTORY|unix.O_CLOEXEC, 0)
	if err != nil {
		return errors.Wrapf(err, "failed to open directory %s", dir)
	}
	defer unix.Close(fd)
	if err = unix.Fsync(fd); err != nil {
		return errors.Wrapf(err, "failed to sync directory %s", dir)
	}
	return nil
}
