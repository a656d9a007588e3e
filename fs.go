// SPDX-FileCopyrightText: 2023 Kent Gibson <warthog618@gmail.com>
//
// SPDX-License-Identifier: Apache-2.0 OR MIT

package gpiosysfs

import (
	"os"
	"path"
	"sort"

	"github.com/spf13/afero"
)

// FS is the filesystem access required to drive the control surface.
type FS interface {
	// Exists returns true if the path exists.
	Exists(p string) bool

	// SubDirs returns the names of the directories contained in the
	// directory at p.
	SubDirs(p string) ([]string, error)

	// ReadFile returns the entire content of the file at p.
	ReadFile(p string) (string, error)

	// WriteFile replaces the content of the file at p.
	WriteFile(p, value string) error
}

// AferoFS provides FS on top of an afero.Fs.
type AferoFS struct {
	fs afero.Fs
}

// NewAferoFS returns an FS backed by the provided afero.Fs.
func NewAferoFS(fs afero.Fs) *AferoFS {
	return &AferoFS{fs: fs}
}

// Exists returns true if the path exists.
func (a *AferoFS) Exists(p string) bool {
	ok, _ := afero.Exists(a.fs, p)
	return ok
}

// SubDirs returns the sorted names of the directories in p.
//
// Symlinks are followed, as entries in /sys/class/gpio are symlinks into
// /sys/devices.
func (a *AferoFS) SubDirs(p string) ([]string, error) {
	infos, err := afero.ReadDir(a.fs, p)
	if err != nil {
		return nil, err
	}
	var names []string
	for _, fi := range infos {
		if fi.IsDir() {
			names = append(names, fi.Name())
			continue
		}
		if fi.Mode()&os.ModeSymlink == 0 {
			continue
		}
		if st, err := a.fs.Stat(path.Join(p, fi.Name())); err == nil && st.IsDir() {
			names = append(names, fi.Name())
		}
	}
	sort.Strings(names)
	return names, nil
}

// ReadFile returns the content of the file at p.
func (a *AferoFS) ReadFile(p string) (string, error) {
	data, err := afero.ReadFile(a.fs, p)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// WriteFile writes value to the file at p.
func (a *AferoFS) WriteFile(p, value string) error {
	return afero.WriteFile(a.fs, p, []byte(value), 0666)
}

var defaultFS FS = NewAferoFS(afero.NewOsFs())
