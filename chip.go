// SPDX-FileCopyrightText: 2023 Kent Gibson <warthog618@gmail.com>
//
// SPDX-License-Identifier: Apache-2.0 OR MIT

package gpiosysfs

import (
	"path"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

var chipDirPattern = regexp.MustCompile(`^gpiochip(\d+)$`)

// ChipInfo describes a gpiochip as presented by the control surface.
//
// Lines on the chip are numbered Base..Base+NumLines-1 in the GPIO number
// space used by the control surface.
type ChipInfo struct {
	// The name of the chip directory, e.g. gpiochip512.
	Name string

	// The GPIO number of the first line of the chip.
	Base int

	// The number of lines on the chip.
	NumLines int

	// The label of the chip, as also reported by the character device.
	Label string
}

// Contains returns true if the GPIO number is on the chip.
func (c ChipInfo) Contains(number int) bool {
	return number >= c.Base && number < c.Base+c.NumLines
}

// Chips returns the chips on the control surface, ordered by base.
//
// A missing control surface returns no chips and no error.
func (r *Registry) Chips() ([]ChipInfo, error) {
	if !r.fs.Exists(r.root) {
		return nil, nil
	}
	names, err := r.fs.SubDirs(r.root)
	if err != nil {
		return nil, errors.Wrapf(err, "scan %s", r.root)
	}
	var chips []ChipInfo
	for _, name := range names {
		if !chipDirPattern.MatchString(name) {
			continue
		}
		c, err := r.readChip(name)
		if err != nil {
			return nil, err
		}
		chips = append(chips, c)
	}
	sort.Slice(chips, func(i, j int) bool { return chips[i].Base < chips[j].Base })
	return chips, nil
}

// Resolve maps a line on a chip to its GPIO number.
//
// The chip is identified by label, which the character device and sysfs
// share, as the chip names differ between the two.
func (r *Registry) Resolve(loc LineLocation) (int, error) {
	chips, err := r.Chips()
	if err != nil {
		return 0, err
	}
	for _, c := range chips {
		if c.Label != loc.Label {
			continue
		}
		if loc.Offset < 0 || loc.Offset >= c.NumLines {
			return 0, errors.Wrapf(ErrLineNotFound, "offset %d out of range for %s", loc.Offset, c.Name)
		}
		return c.Base + loc.Offset, nil
	}
	return 0, errors.Wrapf(ErrLineNotFound, "no chip labelled '%s'", loc.Label)
}

// ClaimLine claims the line with the given name.
//
// The line is located using the registry's LineFinder.
func (r *Registry) ClaimLine(name string) (*Pin, error) {
	loc, err := r.finder.FindLine(name)
	if err != nil {
		return nil, err
	}
	n, err := r.Resolve(loc)
	if err != nil {
		return nil, errors.Wrapf(err, "line '%s'", name)
	}
	return r.Claim(n)
}

// readChip reads the attributes of the named chip directory.
func (r *Registry) readChip(name string) (ChipInfo, error) {
	c := ChipInfo{Name: name}
	cp := path.Join(r.root, name)
	base, err := r.intAttr(cp, "base")
	if err != nil {
		return c, err
	}
	ngpio, err := r.intAttr(cp, "ngpio")
	if err != nil {
		return c, err
	}
	label, err := r.fs.ReadFile(path.Join(cp, "label"))
	if err != nil {
		return c, errors.Wrapf(err, "%s label", name)
	}
	c.Base = base
	c.NumLines = ngpio
	c.Label = strings.TrimSpace(label)
	return c, nil
}

func (r *Registry) intAttr(dir, attr string) (int, error) {
	v, err := r.fs.ReadFile(path.Join(dir, attr))
	if err != nil {
		return 0, errors.Wrapf(err, "%s %s", path.Base(dir), attr)
	}
	n, err := strconv.Atoi(strings.TrimSpace(v))
	if err != nil {
		return 0, errors.Errorf("unexpected %s value: %s", attr, v)
	}
	return n, nil
}
