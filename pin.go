// SPDX-FileCopyrightText: 2023 Kent Gibson <warthog618@gmail.com>
//
// SPDX-License-Identifier: Apache-2.0 OR MIT

package gpiosysfs

import (
	"fmt"
	"log/slog"
	"path"
	"strconv"
	"strings"
	"time"

	"github.com/pkg/errors"
)

// DefaultSettleDelay is the time allowed for the kernel to create the line
// directory after an export request.
const DefaultSettleDelay = 300 * time.Millisecond

// Pin provides the interface to a line exported through sysfs.
//
// Accessors round trip to the control surface on every call.
// Until the Pin is initialized they do nothing, returning the neutral value
// and false from getters.
type Pin struct {
	// The GPIO number of the line.
	number int

	// The path to the control surface.
	root string

	fs     FS
	settle time.Duration
	log    *slog.Logger

	initialized bool
	freed       bool
}

// NewPin constructs an uninitialized Pin for the given GPIO number.
//
// No I/O is performed and the number is not validated.
// The available options are [WithFS], [WithSettleDelay] and [WithLogger].
func NewPin(number int, options ...NewPinOption) *Pin {
	p := &Pin{
		number: number,
		fs:     defaultFS,
		settle: DefaultSettleDelay,
	}
	for _, o := range options {
		o.applyPinOption(p)
	}
	if p.log == nil {
		p.log = discardLogger()
	}
	return p
}

// Number returns the GPIO number of the line.
func (p *Pin) Number() int {
	return p.number
}

// Root returns the path to the control surface the Pin was initialized
// against.
func (p *Pin) Root() string {
	return p.root
}

// Initialized returns true once the line has been claimed.
func (p *Pin) Initialized() bool {
	return p.initialized
}

// Initialize claims the line through the control surface at root.
//
// If the line is already exported, by this or any other process, it is
// adopted as is.  Otherwise the number is written to the export endpoint
// and, after the settle delay, the line directory must exist.
//
// Returns ErrClaimSurfaceMissing if there is no export endpoint, and
// ErrClaimFailed if the line directory does not appear.
// Initializing an initialized Pin does nothing.
func (p *Pin) Initialize(root string) error {
	if p.initialized {
		return nil
	}
	p.root = root
	if p.fs.Exists(p.devicePath()) {
		p.initialized = true
		p.log.Debug("adopted exported line", "pin", p.number)
		return nil
	}
	export := path.Join(p.root, "export")
	if !p.fs.Exists(export) {
		return errors.Wrapf(ErrClaimSurfaceMissing, "%s", export)
	}
	if err := p.fs.WriteFile(export, strconv.Itoa(p.number)); err != nil {
		return errors.Wrapf(ErrClaimFailed, "export gpio%d: %v", p.number, err)
	}
	time.Sleep(p.settle)
	if !p.fs.Exists(p.devicePath()) {
		return errors.Wrapf(ErrClaimFailed, "gpio%d not created within %s", p.number, p.settle)
	}
	p.initialized = true
	p.log.Info("exported line", "pin", p.number)
	return nil
}

// Free releases the line by writing to the unexport endpoint.
//
// Does nothing if the Pin was never initialized, has already been freed,
// or if there is no unexport endpoint.
// The Pin should be discarded after it has been freed.
func (p *Pin) Free() error {
	if !p.initialized || p.freed {
		return nil
	}
	unexport := path.Join(p.root, "unexport")
	if !p.fs.Exists(unexport) {
		return nil
	}
	if err := p.fs.WriteFile(unexport, strconv.Itoa(p.number)); err != nil {
		return errors.Wrapf(err, "unexport gpio%d", p.number)
	}
	p.freed = true
	p.log.Info("unexported line", "pin", p.number)
	return nil
}

// Direction returns the direction of the line.
//
// Unrecognised values are reported as DirectionUnknown.
func (p *Pin) Direction() (Direction, bool) {
	v, ok := p.attr("direction")
	if !ok {
		return DirectionUnknown, false
	}
	d, _ := ParseDirection(v)
	return d, true
}

// SetDirection sets the direction of the line.
//
// DirectionUnknown is never written.
func (p *Pin) SetDirection(d Direction) error {
	if d != DirectionIn && d != DirectionOut {
		return nil
	}
	return p.setAttr("direction", d.String())
}

// SetOutput sets the line as an output driven to the given logical level.
//
// The direction and level are set in a single write, so the line does not
// glitch when switched from an input.
func (p *Pin) SetOutput(v bool) error {
	al, _ := p.ActiveLow()
	if v != al {
		return p.setAttr("direction", "high")
	}
	return p.setAttr("direction", "low")
}

// Value returns the logical value of the line.
func (p *Pin) Value() (bool, bool) {
	return p.boolAttr("value")
}

// SetValue sets the logical value of an output line.
func (p *Pin) SetValue(v bool) error {
	return p.setAttr("value", FormatBool(v))
}

// Edge returns the edges that trigger interrupts on the line.
//
// Unrecognised values are reported as EdgeNone.
func (p *Pin) Edge() (Edge, bool) {
	v, ok := p.attr("edge")
	if !ok {
		return EdgeNone, false
	}
	e, _ := ParseEdge(v)
	return e, true
}

// SetEdge sets the edges that trigger interrupts on the line.
func (p *Pin) SetEdge(e Edge) error {
	if !e.valid() {
		return nil
	}
	return p.setAttr("edge", e.String())
}

// ActiveLow returns true if the line polarity is inverted.
func (p *Pin) ActiveLow() (bool, bool) {
	return p.boolAttr("active_low")
}

// SetActiveLow sets the polarity of the line.
func (p *Pin) SetActiveLow(v bool) error {
	return p.setAttr("active_low", FormatBool(v))
}

func (p *Pin) String() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "gpio%d", p.number)
	if d, ok := p.Direction(); ok {
		fmt.Fprintf(&sb, " direction=%s", d)
	}
	if e, ok := p.Edge(); ok {
		fmt.Fprintf(&sb, " edge=%s", e)
	}
	if v, ok := p.Value(); ok {
		fmt.Fprintf(&sb, " value=%s", FormatBool(v))
	}
	if v, ok := p.ActiveLow(); ok {
		fmt.Fprintf(&sb, " active_low=%s", FormatBool(v))
	}
	return sb.String()
}

// devicePath returns the path to the line directory.
func (p *Pin) devicePath() string {
	return path.Join(p.root, fmt.Sprintf("gpio%d", p.number))
}

// attr reads the named line attribute.
func (p *Pin) attr(name string) (string, bool) {
	if !p.initialized {
		return "", false
	}
	ap := path.Join(p.devicePath(), name)
	if !p.fs.Exists(ap) {
		return "", false
	}
	v, err := p.fs.ReadFile(ap)
	if err != nil {
		p.log.Debug("read failed", "pin", p.number, "attr", name, "err", err)
		return "", false
	}
	return strings.TrimSpace(v), true
}

func (p *Pin) boolAttr(name string) (bool, bool) {
	v, ok := p.attr(name)
	return v == "1", ok
}

// setAttr writes the named line attribute.
func (p *Pin) setAttr(name, value string) error {
	if !p.initialized {
		return nil
	}
	ap := path.Join(p.devicePath(), name)
	if !p.fs.Exists(ap) {
		p.log.Debug("no such attribute", "pin", p.number, "attr", name)
		return nil
	}
	if err := p.fs.WriteFile(ap, value); err != nil {
		return errors.Wrapf(err, "gpio%d %s", p.number, name)
	}
	return nil
}
