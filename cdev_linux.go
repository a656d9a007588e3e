// SPDX-FileCopyrightText: 2023 Kent Gibson <warthog618@gmail.com>
//
// SPDX-License-Identifier: Apache-2.0 OR MIT

//go:build linux

package gpiosysfs

import (
	"github.com/pkg/errors"
	"github.com/warthog618/go-gpiocdev"
)

// FindLine returns the location of the first line with the given name.
//
// Chips are searched in the order returned by gpiocdev.Chips.
func (cdevFinder) FindLine(name string) (LineLocation, error) {
	for _, chip := range gpiocdev.Chips() {
		loc, ok, err := findChipLine(chip, name)
		if err != nil {
			return LineLocation{}, err
		}
		if ok {
			return loc, nil
		}
	}
	return LineLocation{}, errors.Wrapf(ErrLineNotFound, "'%s'", name)
}

// findChipLine searches a single chip for the named line.
func findChipLine(chip, name string) (LineLocation, bool, error) {
	c, err := gpiocdev.NewChip(chip)
	if err != nil {
		return LineLocation{}, false, errors.Wrapf(err, "open %s", chip)
	}
	defer c.Close()
	for o := 0; o < c.Lines(); o++ {
		li, err := c.LineInfo(o)
		if err != nil {
			return LineLocation{}, false, errors.Wrapf(err, "%s line %d", chip, o)
		}
		if li.Name == name {
			return LineLocation{Chip: chip, Label: c.Label, Offset: o}, true, nil
		}
	}
	return LineLocation{}, false, nil
}
