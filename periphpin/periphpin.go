// SPDX-FileCopyrightText: 2023 Kent Gibson <warthog618@gmail.com>
//
// SPDX-License-Identifier: Apache-2.0 OR MIT

// Package periphpin adapts a gpiosysfs.Pin to the periph.io gpio.PinIO
// interface, so claimed lines can be passed to periph device drivers.
//
// Pull resistors, edge waiting and PWM are not available through sysfs.
package periphpin

import (
	"strconv"
	"time"

	"github.com/pkg/errors"
	"github.com/warthog618/go-gpiosysfs"
	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/physic"
	"periph.io/x/conn/v3/pin"
)

// Pin is a gpio.PinIO backed by a sysfs line.
type Pin struct {
	p *gpiosysfs.Pin
}

var (
	_ gpio.PinIO  = (*Pin)(nil)
	_ pin.PinFunc = (*Pin)(nil)
)

// New wraps the claimed line.
func New(p *gpiosysfs.Pin) *Pin {
	return &Pin{p: p}
}

// Sysfs returns the underlying line.
func (p *Pin) Sysfs() *gpiosysfs.Pin {
	return p.p
}

// String returns the name of the line, e.g. GPIO17.
func (p *Pin) String() string {
	return p.Name()
}

// Halt does nothing, as sysfs lines have no background activity.
func (p *Pin) Halt() error {
	return nil
}

// Name returns the name of the line, e.g. GPIO17.
func (p *Pin) Name() string {
	return "GPIO" + strconv.Itoa(p.p.Number())
}

// Number returns the GPIO number of the line.
func (p *Pin) Number() int {
	return p.p.Number()
}

// Function returns the current function of the line.
//
// Deprecated: Use Func.
func (p *Pin) Function() string {
	return string(p.Func())
}

// Func returns the current function of the line.
func (p *Pin) Func() pin.Func {
	d, ok := p.p.Direction()
	if !ok {
		return pin.FuncNone
	}
	v, _ := p.p.Value()
	switch d {
	case gpiosysfs.DirectionIn:
		if v {
			return gpio.IN_HIGH
		}
		return gpio.IN_LOW
	case gpiosysfs.DirectionOut:
		if v {
			return gpio.OUT_HIGH
		}
		return gpio.OUT_LOW
	}
	return pin.FuncNone
}

// SupportedFuncs returns the functions the line can be set to.
func (p *Pin) SupportedFuncs() []pin.Func {
	return []pin.Func{gpio.IN, gpio.OUT}
}

// SetFunc sets the line to an input or a low output.
func (p *Pin) SetFunc(f pin.Func) error {
	switch f {
	case gpio.IN, gpio.FLOAT:
		return p.In(gpio.PullNoChange, gpio.NoEdge)
	case gpio.IN_LOW, gpio.IN_HIGH:
		return errors.Errorf("%s: pull is not supported", p.Name())
	case gpio.OUT, gpio.OUT_LOW:
		return p.Out(gpio.Low)
	case gpio.OUT_HIGH:
		return p.Out(gpio.High)
	}
	return errors.Errorf("%s: unsupported function %q", p.Name(), f)
}

// In sets the line as an input with the given edge detection.
//
// Only PullNoChange and Float are supported, as sysfs provides no control of
// pull resistors.
func (p *Pin) In(pull gpio.Pull, edge gpio.Edge) error {
	if pull != gpio.PullNoChange && pull != gpio.Float {
		return errors.Errorf("%s: pull is not supported", p.Name())
	}
	e, err := toEdge(edge)
	if err != nil {
		return errors.Wrap(err, p.Name())
	}
	if err := p.p.SetDirection(gpiosysfs.DirectionIn); err != nil {
		return err
	}
	return p.p.SetEdge(e)
}

// Read returns the logical level of the line.
func (p *Pin) Read() gpio.Level {
	v, _ := p.p.Value()
	return gpio.Level(v)
}

// WaitForEdge is not supported and returns false immediately.
func (p *Pin) WaitForEdge(timeout time.Duration) bool {
	return false
}

// Pull returns PullNoChange, as the pull is not known.
func (p *Pin) Pull() gpio.Pull {
	return gpio.PullNoChange
}

// DefaultPull returns PullNoChange, as the pull is not known.
func (p *Pin) DefaultPull() gpio.Pull {
	return gpio.PullNoChange
}

// Out sets the line as an output driven to the given level.
func (p *Pin) Out(l gpio.Level) error {
	if d, _ := p.p.Direction(); d != gpiosysfs.DirectionOut {
		return p.p.SetOutput(bool(l))
	}
	return p.p.SetValue(bool(l))
}

// PWM is not supported.
func (p *Pin) PWM(duty gpio.Duty, f physic.Frequency) error {
	return errors.Errorf("%s: PWM is not supported", p.Name())
}

func toEdge(e gpio.Edge) (gpiosysfs.Edge, error) {
	switch e {
	case gpio.NoEdge:
		return gpiosysfs.EdgeNone, nil
	case gpio.RisingEdge:
		return gpiosysfs.EdgeRising, nil
	case gpio.FallingEdge:
		return gpiosysfs.EdgeFalling, nil
	case gpio.BothEdges:
		return gpiosysfs.EdgeBoth, nil
	}
	return gpiosysfs.EdgeNone, errors.Errorf("unsupported edge %s", e)
}
