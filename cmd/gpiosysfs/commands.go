// SPDX-FileCopyrightText: 2023 Kent Gibson <warthog618@gmail.com>
//
// SPDX-License-Identifier: Apache-2.0 OR MIT

package main

import (
	"fmt"
	"io"
	"strconv"

	"github.com/pkg/errors"
	"github.com/warthog618/go-gpiosysfs"
)

// app executes commands against a registry.
type app struct {
	r   *gpiosysfs.Registry
	cfg *Config
	out io.Writer
}

var errUsage = errors.New("invalid arguments")

func (a *app) run(cmd string, args []string) error {
	switch cmd {
	case "list":
		return a.list()
	case "chips":
		return a.chips()
	case "export":
		return a.export(args)
	case "unexport":
		return a.unexport(args)
	case "get":
		return a.get(args)
	case "set":
		return a.set(args)
	case "apply":
		return a.apply()
	}
	return errors.Wrapf(errUsage, "unknown command %s", cmd)
}

func (a *app) list() error {
	for _, p := range a.r.Pins() {
		fmt.Fprintln(a.out, p)
	}
	return nil
}

func (a *app) chips() error {
	chips, err := a.r.Chips()
	if err != nil {
		return err
	}
	for _, c := range chips {
		fmt.Fprintf(a.out, "%s base=%d ngpio=%d label=%s\n", c.Name, c.Base, c.NumLines, c.Label)
	}
	return nil
}

func (a *app) export(args []string) error {
	if len(args) == 0 {
		return errors.Wrap(errUsage, "export requires a line")
	}
	for _, arg := range args {
		p, err := a.claim(arg)
		if err != nil {
			return err
		}
		fmt.Fprintln(a.out, p)
	}
	return nil
}

func (a *app) unexport(args []string) error {
	if len(args) == 0 {
		return errors.Wrap(errUsage, "unexport requires a line")
	}
	for _, arg := range args {
		p, err := a.held(arg)
		if err != nil {
			return err
		}
		// Release only logs a failed unexport, so free here to report it.
		if err := p.Free(); err != nil {
			return err
		}
		a.r.Drop(p)
	}
	return nil
}

func (a *app) get(args []string) error {
	if len(args) < 1 || len(args) > 2 {
		return errors.Wrap(errUsage, "get requires a line and optional attribute")
	}
	p, err := a.held(args[0])
	if err != nil {
		return err
	}
	if len(args) == 1 {
		fmt.Fprintln(a.out, p)
		return nil
	}
	var v string
	var ok bool
	switch args[1] {
	case "direction":
		var d gpiosysfs.Direction
		d, ok = p.Direction()
		v = d.String()
	case "edge":
		var e gpiosysfs.Edge
		e, ok = p.Edge()
		v = e.String()
	case "value":
		var b bool
		b, ok = p.Value()
		v = gpiosysfs.FormatBool(b)
	case "active_low":
		var b bool
		b, ok = p.ActiveLow()
		v = gpiosysfs.FormatBool(b)
	default:
		return errors.Errorf("unknown attribute: %s", args[1])
	}
	if !ok {
		return errors.Errorf("gpio%d has no %s", p.Number(), args[1])
	}
	fmt.Fprintln(a.out, v)
	return nil
}

func (a *app) set(args []string) error {
	if len(args) != 3 {
		return errors.Wrap(errUsage, "set requires a line, attribute and value")
	}
	p, err := a.held(args[0])
	if err != nil {
		return err
	}
	return setAttr(p, args[1], args[2])
}

// apply claims and configures the lines listed in the config.
func (a *app) apply() error {
	for _, pc := range a.cfg.Pins {
		p, err := a.claim(pc.ident())
		if err != nil {
			return err
		}
		if err := configure(p, pc); err != nil {
			return errors.Wrapf(err, "gpio%d", p.Number())
		}
		fmt.Fprintln(a.out, p)
	}
	return nil
}

// claim exports the line identified by GPIO number or name.
func (a *app) claim(arg string) (*gpiosysfs.Pin, error) {
	if n, err := strconv.Atoi(arg); err == nil {
		return a.r.Claim(n)
	}
	return a.r.ClaimLine(arg)
}

// held returns the exported line with the GPIO number.
func (a *app) held(arg string) (*gpiosysfs.Pin, error) {
	n, err := strconv.Atoi(arg)
	if err != nil {
		return nil, errors.Errorf("invalid GPIO number: %s", arg)
	}
	p, ok := a.r.Pin(n)
	if !ok {
		return nil, errors.Errorf("gpio%d is not exported", n)
	}
	return p, nil
}

// configure sets the polarity before the direction, so an output is driven
// to the intended physical level from the start.
func configure(p *gpiosysfs.Pin, pc PinConfig) error {
	if pc.ActiveLow != nil {
		if err := p.SetActiveLow(*pc.ActiveLow); err != nil {
			return err
		}
	}
	value := pc.Value
	if d, _ := gpiosysfs.ParseDirection(pc.Direction); d == gpiosysfs.DirectionOut && value != nil {
		if err := p.SetOutput(*value); err != nil {
			return err
		}
		value = nil
	} else if pc.Direction != "" {
		if err := setAttr(p, "direction", pc.Direction); err != nil {
			return err
		}
	}
	if pc.Edge != "" {
		if err := setAttr(p, "edge", pc.Edge); err != nil {
			return err
		}
	}
	if value != nil {
		if err := p.SetValue(*value); err != nil {
			return err
		}
	}
	return nil
}

func setAttr(p *gpiosysfs.Pin, attr, value string) error {
	switch attr {
	case "direction":
		d, ok := gpiosysfs.ParseDirection(value)
		if !ok {
			return errors.Errorf("invalid direction: %s", value)
		}
		return p.SetDirection(d)
	case "edge":
		e, ok := parseEdge(value)
		if !ok {
			return errors.Errorf("invalid edge: %s", value)
		}
		return p.SetEdge(e)
	case "value":
		v, err := parseBool(value)
		if err != nil {
			return err
		}
		return p.SetValue(v)
	case "active_low":
		v, err := parseBool(value)
		if err != nil {
			return err
		}
		return p.SetActiveLow(v)
	}
	return errors.Errorf("unknown attribute: %s", attr)
}

func parseBool(s string) (bool, error) {
	switch s {
	case "1", "high", "true":
		return true, nil
	case "0", "low", "false":
		return false, nil
	}
	return false, errors.Errorf("invalid value: %s", s)
}
