// SPDX-FileCopyrightText: 2023 Kent Gibson <warthog618@gmail.com>
//
// SPDX-License-Identifier: Apache-2.0 OR MIT

package sysfssim

import (
	"fmt"
	"os"
	"path"
	"regexp"
	"strconv"
	"strings"
	"sync"
	"syscall"
	"time"

	"github.com/pkg/errors"
	"github.com/spf13/afero"
	"github.com/warthog618/go-gpiosysfs"
)

// Sim provides a simulated sysfs GPIO control surface.
//
// Each simulated chip is available through Chips, in the same order the banks
// were added to NewSim.  Chips are allocated consecutive ranges of GPIO
// numbers, starting from 0.
//
// Sim implements gpiosysfs.FS, reacting to writes as the kernel would, and
// gpiosysfs.LineFinder, resolving the names of lines.
type Sim struct {
	// The path to the control surface.
	Root string

	// The details of the chips being simulated.
	Chips []Chip

	fs      afero.Fs
	afs     *gpiosysfs.AferoFS
	latency time.Duration

	mu      sync.Mutex
	writes  []Write
	pending map[int]*time.Timer
	closed  bool
}

// Write records a write made to the control surface.
type Write struct {
	Path  string
	Value string
}

var (
	_ gpiosysfs.FS         = (*Sim)(nil)
	_ gpiosysfs.LineFinder = (*Sim)(nil)
)

// NewSim constructs a Sim based on the provided options.
//
// The available options are [WithBank], [WithRoot], [WithFs],
// [WithoutExport], [WithoutUnexport] and [WithExportLatency].
//
// At least one WithBank option must be provided.
func NewSim(options ...NewSimOption) (*Sim, error) {
	b := builder{root: gpiosysfs.DefaultRoot}
	for _, o := range options {
		o.applySimOption(&b)
	}
	return b.live()
}

// Close stops any pending exports and removes the control surface.
func (s *Sim) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, t := range s.pending {
		t.Stop()
	}
	s.pending = nil
	s.closed = true
	s.fs.RemoveAll(s.Root)
	s.Chips = nil
}

// Fs returns the filesystem containing the control surface.
//
// Writes made directly to the filesystem bypass the kernel emulation.
func (s *Sim) Fs() afero.Fs {
	return s.fs
}

// Writes returns the writes made to the control surface since the Sim was
// created or the writes were last cleared.
func (s *Sim) Writes() []Write {
	s.mu.Lock()
	defer s.mu.Unlock()
	w := make([]Write, len(s.writes))
	copy(w, s.writes)
	return w
}

// ClearWrites discards the record of writes.
func (s *Sim) ClearWrites() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.writes = nil
}

// Exists returns true if the path exists in the Sim.
func (s *Sim) Exists(p string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.afs.Exists(p)
}

// SubDirs returns the names of the directories in p.
func (s *Sim) SubDirs(p string) ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.afs.SubDirs(p)
}

// ReadFile returns the content of the file at p.
func (s *Sim) ReadFile(p string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.afs.ReadFile(p)
}

// WriteFile writes to the file at p, applying the side effects the kernel
// would.
func (s *Sim) WriteFile(p, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.writes = append(s.writes, Write{p, value})
	// sysfs attributes cannot be created by writing
	if strings.HasPrefix(p, s.Root+"/") && !s.afs.Exists(p) {
		return &os.PathError{Op: "open", Path: p, Err: os.ErrNotExist}
	}
	switch p {
	case path.Join(s.Root, "export"):
		return s.export(p, value)
	case path.Join(s.Root, "unexport"):
		return s.unexport(p, value)
	}
	if path.Dir(path.Dir(p)) == s.Root {
		if n, ok := lineNumber(path.Base(path.Dir(p))); ok {
			return s.writeLineAttr(n, path.Base(p), p, value)
		}
	}
	return s.afs.WriteFile(p, value)
}

// FindLine returns the location of the first line with the given name.
//
// Chips are named as their character devices would be, i.e. gpiochip0,
// gpiochip1, etc, in the order the banks were added.
func (s *Sim) FindLine(name string) (gpiosysfs.LineLocation, error) {
	for i, c := range s.Chips {
		for o := 0; o < c.cfg.NumLines; o++ {
			if n, ok := c.cfg.Names[o]; ok && n == name {
				return gpiosysfs.LineLocation{
					Chip:   fmt.Sprintf("gpiochip%d", i),
					Label:  c.cfg.Label,
					Offset: o,
				}, nil
			}
		}
	}
	return gpiosysfs.LineLocation{}, errors.Wrapf(gpiosysfs.ErrLineNotFound, "'%s'", name)
}

// export handles a write to the export endpoint.
func (s *Sim) export(p, value string) error {
	n, err := strconv.Atoi(strings.TrimSpace(value))
	if err != nil {
		return pathError(p, syscall.EINVAL)
	}
	c, offset, ok := s.locate(n)
	if !ok {
		return pathError(p, syscall.EINVAL)
	}
	if _, ok := s.pending[n]; ok || s.afs.Exists(s.linePath(n)) {
		return pathError(p, syscall.EBUSY)
	}
	if c.cfg.Stuck[offset] {
		return nil
	}
	if s.latency <= 0 {
		return s.createLine(n, c.cfg.NoEdge[offset])
	}
	noEdge := c.cfg.NoEdge[offset]
	s.pending[n] = time.AfterFunc(s.latency, func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		if s.closed {
			return
		}
		delete(s.pending, n)
		s.createLine(n, noEdge)
	})
	return nil
}

// unexport handles a write to the unexport endpoint.
func (s *Sim) unexport(p, value string) error {
	n, err := strconv.Atoi(strings.TrimSpace(value))
	if err != nil {
		return pathError(p, syscall.EINVAL)
	}
	lp := s.linePath(n)
	if !s.afs.Exists(lp) {
		return pathError(p, syscall.EINVAL)
	}
	return s.fs.RemoveAll(lp)
}

// writeLineAttr handles a write to an attribute of an exported line.
func (s *Sim) writeLineAttr(n int, attr, p, value string) error {
	lp := s.linePath(n)
	v := strings.TrimSpace(value)
	switch attr {
	case "direction":
		switch v {
		case "in":
			return s.afs.WriteFile(p, "in")
		case "out":
			// logically inactive
			if err := s.afs.WriteFile(path.Join(lp, "value"), "0"); err != nil {
				return err
			}
			return s.afs.WriteFile(p, "out")
		case "low", "high":
			// physical level, so the logical value depends on polarity
			al, err := s.afs.ReadFile(path.Join(lp, "active_low"))
			if err != nil {
				return err
			}
			lv := "0"
			if (v == "high") != (strings.TrimSpace(al) == "1") {
				lv = "1"
			}
			if err := s.afs.WriteFile(path.Join(lp, "value"), lv); err != nil {
				return err
			}
			return s.afs.WriteFile(p, "out")
		}
		return pathError(p, syscall.EINVAL)
	case "value":
		dir, err := s.afs.ReadFile(path.Join(lp, "direction"))
		if err != nil {
			return err
		}
		if strings.TrimSpace(dir) != "out" {
			return pathError(p, syscall.EPERM)
		}
		if v != "0" && v != "1" {
			return pathError(p, syscall.EINVAL)
		}
		return s.afs.WriteFile(p, v)
	case "edge":
		if _, ok := gpiosysfs.ParseEdge(v); !ok && v != "none" {
			return pathError(p, syscall.EINVAL)
		}
		return s.afs.WriteFile(p, v)
	case "active_low":
		if v != "0" && v != "1" {
			return pathError(p, syscall.EINVAL)
		}
		old, err := s.afs.ReadFile(p)
		if err != nil {
			return err
		}
		if strings.TrimSpace(old) != v {
			// the value reported is the logical level, so inverts with polarity
			if err := s.invertValue(lp); err != nil {
				return err
			}
		}
		return s.afs.WriteFile(p, v)
	}
	return s.afs.WriteFile(p, value)
}

func (s *Sim) invertValue(lp string) error {
	vp := path.Join(lp, "value")
	v, err := s.afs.ReadFile(vp)
	if err != nil {
		return err
	}
	if strings.TrimSpace(v) == "1" {
		return s.afs.WriteFile(vp, "0")
	}
	return s.afs.WriteFile(vp, "1")
}

// createLine creates the directory and attributes for an exported line.
func (s *Sim) createLine(n int, noEdge bool) error {
	lp := s.linePath(n)
	if err := s.fs.MkdirAll(lp, 0755); err != nil {
		return err
	}
	attrs := [][2]string{
		{"direction", "in"},
		{"value", "0"},
		{"active_low", "0"},
	}
	if !noEdge {
		attrs = append(attrs, [2]string{"edge", "none"})
	}
	for _, a := range attrs {
		if err := s.afs.WriteFile(path.Join(lp, a[0]), a[1]); err != nil {
			return err
		}
	}
	return nil
}

// locate finds the chip containing the GPIO number.
func (s *Sim) locate(n int) (*Chip, int, bool) {
	for i := range s.Chips {
		c := &s.Chips[i]
		if n >= c.base && n < c.base+c.cfg.NumLines {
			return c, n - c.base, true
		}
	}
	return nil, 0, false
}

func (s *Sim) linePath(n int) string {
	return path.Join(s.Root, fmt.Sprintf("gpio%d", n))
}

// setupSysfs constructs the control surface, including each of the
// simulated chips and any lines exported from the outset.
func (s *Sim) setupSysfs(omit map[string]bool) error {
	if err := s.fs.MkdirAll(s.Root, 0755); err != nil {
		return err
	}
	for _, ep := range []string{"export", "unexport"} {
		if omit[ep] {
			continue
		}
		if err := s.afs.WriteFile(path.Join(s.Root, ep), ""); err != nil {
			return err
		}
	}
	for i := range s.Chips {
		c := &s.Chips[i]
		chipPath := path.Join(s.Root, c.chipName)
		if err := s.fs.MkdirAll(chipPath, 0755); err != nil {
			return err
		}
		if err := s.afs.WriteFile(path.Join(chipPath, "base"), strconv.Itoa(c.base)); err != nil {
			return err
		}
		if err := s.afs.WriteFile(path.Join(chipPath, "ngpio"), strconv.Itoa(c.cfg.NumLines)); err != nil {
			return err
		}
		if err := s.afs.WriteFile(path.Join(chipPath, "label"), c.cfg.Label); err != nil {
			return err
		}
		for o := range c.cfg.Exported {
			if o < 0 || o >= c.cfg.NumLines {
				return errors.Errorf("exported line %d out of range for bank '%s'", o, c.cfg.Label)
			}
			if err := s.createLine(c.base+o, c.cfg.NoEdge[o]); err != nil {
				return err
			}
		}
	}
	return nil
}

// builder contains all the information required to build a sim.
type builder struct {
	// The path to the control surface.
	root string

	// The filesystem to build the control surface in.
	fs afero.Fs // optional

	// The details of the banks to be simulated.
	//
	// Each bank becomes a chip when the simulator goes live.
	banks []Bank

	// Endpoints to leave out of the control surface.
	omit map[string]bool

	// Delay before exported lines appear.
	latency time.Duration
}

// live creates the control surface for the sim.
func (b *builder) live() (*Sim, error) {
	if len(b.banks) == 0 {
		return nil, errors.New("no banks defined")
	}
	if b.fs == nil {
		b.fs = afero.NewMemMapFs()
	}
	root := path.Clean(b.root)
	if ok, _ := afero.Exists(b.fs, root); ok {
		return nil, errors.Errorf("sim at '%s' already exists", root)
	}
	s := &Sim{
		Root:    root,
		fs:      b.fs,
		afs:     gpiosysfs.NewAferoFS(b.fs),
		latency: b.latency,
		pending: make(map[int]*time.Timer),
	}
	base := 0
	for _, k := range b.banks {
		s.Chips = append(s.Chips, Chip{
			chipName: fmt.Sprintf("gpiochip%d", base),
			base:     base,
			cfg:      k,
			sim:      s,
		})
		base += k.NumLines
	}
	if err := s.setupSysfs(b.omit); err != nil {
		s.Close()
		return nil, err
	}
	return s, nil
}

var lineDirPattern = regexp.MustCompile(`^gpio(\d+)$`)

// lineNumber extracts the GPIO number from a line directory name.
func lineNumber(name string) (int, bool) {
	m := lineDirPattern.FindStringSubmatch(name)
	if m == nil {
		return 0, false
	}
	n, err := strconv.Atoi(m[1])
	return n, err == nil
}

func pathError(p string, err error) error {
	return &os.PathError{Op: "write", Path: p, Err: err}
}
