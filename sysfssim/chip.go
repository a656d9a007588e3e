// SPDX-FileCopyrightText: 2023 Kent Gibson <warthog618@gmail.com>
//
// SPDX-License-Identifier: Apache-2.0 OR MIT

package sysfssim

import (
	"path"
	"strings"

	"github.com/pkg/errors"
)

// Chip provides the interface to a simulated gpiochip.
//
// Lines are identified by offset into the chip, with offsets
// being in the range 0..Config().NumLines-1.
type Chip struct {
	// The name of the chip directory in sysfs.
	chipName string

	// The GPIO number of line 0.
	base int

	// The configuration for this chip
	cfg Bank

	sim *Sim
}

// ChipName returns the name of the gpiochip directory.
//
// e.g. gpiochip0
func (c *Chip) ChipName() string {
	return c.chipName
}

// Base returns the GPIO number of the first line on the chip.
func (c *Chip) Base() int {
	return c.base
}

// Config returns the configuration used for the Chip.
func (c *Chip) Config() Bank {
	return c.cfg
}

// Number returns the GPIO number of the line at offset.
func (c *Chip) Number(offset int) int {
	return c.base + offset
}

// Exported returns true if the line is currently exported.
func (c *Chip) Exported(offset int) bool {
	return c.sim.Exists(c.sim.linePath(c.Number(offset)))
}

// Level returns the logical level of the line.
//
// The line must be exported.
func (c *Chip) Level(offset int) (int, error) {
	v, err := c.attr(offset, "value")
	if err == nil {
		if v == "0" {
			return LevelInactive, nil
		}
		if v == "1" {
			return LevelActive, nil
		}
		err = errors.Errorf("unexpected level value: %s", v)
	}
	return LevelInactive, err
}

const (
	// Line is inactive.
	LevelInactive int = iota

	// Line is active.
	LevelActive
)

// Pulldown pulls the given input line low.
func (c *Chip) Pulldown(offset int) error {
	return c.SetPull(offset, LevelInactive)
}

// Pullup pulls the given input line high.
func (c *Chip) Pullup(offset int) error {
	return c.SetPull(offset, LevelActive)
}

// SetPull drives the physical level of the given input line, as an external
// signal would.
//
// The line must be exported as an input.  The value attribute reports the
// logical level, so is inverted for active low lines.
func (c *Chip) SetPull(offset int, level int) error {
	d, err := c.attr(offset, "direction")
	if err != nil {
		return err
	}
	if d != "in" {
		return errors.Errorf("line %d is not an input", offset)
	}
	al, err := c.attr(offset, "active_low")
	if err != nil {
		return err
	}
	active := level == LevelActive
	if al == "1" {
		active = !active
	}
	l := "0"
	if active {
		l = "1"
	}
	return c.setAttr(offset, "value", l)
}

// Toggle flips the level of the given input line.
func (c *Chip) Toggle(offset int) error {
	p, err := c.physical(offset)
	if err != nil {
		return err
	}
	return c.SetPull(offset, LevelActive-p)
}

// physical returns the physical level of the given line.
func (c *Chip) physical(offset int) (int, error) {
	l, err := c.Level(offset)
	if err != nil {
		return LevelInactive, err
	}
	al, err := c.attr(offset, "active_low")
	if err != nil {
		return LevelInactive, err
	}
	if al == "1" {
		return LevelActive - l, nil
	}
	return l, nil
}

// attr reads the given line attribute, bypassing the kernel emulation.
func (c *Chip) attr(offset int, name string) (string, error) {
	v, err := c.sim.ReadFile(path.Join(c.sim.linePath(c.Number(offset)), name))
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(v), nil
}

// setAttr writes the given line attribute, bypassing the kernel emulation.
func (c *Chip) setAttr(offset int, name, value string) error {
	c.sim.mu.Lock()
	defer c.sim.mu.Unlock()
	return c.sim.afs.WriteFile(path.Join(c.sim.linePath(c.Number(offset)), name), value)
}
