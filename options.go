// SPDX-FileCopyrightText: 2023 Kent Gibson <warthog618@gmail.com>
//
// SPDX-License-Identifier: Apache-2.0 OR MIT

package gpiosysfs

import (
	"io"
	"log/slog"
	"time"
)

// NewRegistryOption defines the interface required to provide an option to
// NewRegistry.
type NewRegistryOption interface {
	applyRegistryOption(*Registry)
}

// NewPinOption defines the interface required to provide an option to NewPin.
type NewPinOption interface {
	applyPinOption(*Pin)
}

// RootOption defines the path to the control surface.
type RootOption string

// WithRoot returns an option that sets the path to the control surface.
//
// The default is "/sys/class/gpio".
func WithRoot(root string) RootOption {
	return RootOption(root)
}

func (o RootOption) applyRegistryOption(r *Registry) {
	r.root = string(o)
}

// FSOption provides the filesystem used to access the control surface.
type FSOption struct {
	fs FS
}

// WithFS returns an option that replaces the filesystem used to access the
// control surface.
//
// The default is the host filesystem.
func WithFS(fs FS) FSOption {
	return FSOption{fs}
}

func (o FSOption) applyRegistryOption(r *Registry) {
	r.fs = o.fs
}

func (o FSOption) applyPinOption(p *Pin) {
	p.fs = o.fs
}

// SettleDelayOption defines how long to wait for the kernel to create a line
// directory after an export request.
type SettleDelayOption time.Duration

// WithSettleDelay returns an option that sets the delay between the export
// request and the check for the line directory.
//
// The default is 300ms.
func WithSettleDelay(d time.Duration) SettleDelayOption {
	return SettleDelayOption(d)
}

func (o SettleDelayOption) applyRegistryOption(r *Registry) {
	r.settle = time.Duration(o)
}

func (o SettleDelayOption) applyPinOption(p *Pin) {
	p.settle = time.Duration(o)
}

// LoggerOption provides the logger for claims, releases and degraded
// accesses.
type LoggerOption struct {
	log *slog.Logger
}

// WithLogger returns an option that sets the logger.
//
// By default nothing is logged.
func WithLogger(l *slog.Logger) LoggerOption {
	return LoggerOption{l}
}

func (o LoggerOption) applyRegistryOption(r *Registry) {
	r.log = o.log
}

func (o LoggerOption) applyPinOption(p *Pin) {
	p.log = o.log
}

// ReleaseOnCloseOption determines if Close releases all held pins.
type ReleaseOnCloseOption bool

// WithReleaseOnClose returns an option that causes Registry.Close to
// release all held pins.
//
// By default pins are left exported when the registry is closed.
func WithReleaseOnClose() ReleaseOnCloseOption {
	return ReleaseOnCloseOption(true)
}

func (o ReleaseOnCloseOption) applyRegistryOption(r *Registry) {
	r.releaseOnClose = bool(o)
}

// LineFinderOption provides the LineFinder used by Registry.ClaimLine.
type LineFinderOption struct {
	finder LineFinder
}

// WithLineFinder returns an option that sets the LineFinder used to locate
// named lines.
//
// The default searches the GPIO character devices.
func WithLineFinder(f LineFinder) LineFinderOption {
	return LineFinderOption{f}
}

func (o LineFinderOption) applyRegistryOption(r *Registry) {
	r.finder = o.finder
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}
