// SPDX-FileCopyrightText: 2023 Kent Gibson <warthog618@gmail.com>
//
// SPDX-License-Identifier: Apache-2.0 OR MIT

package sysfssim

import (
	"time"

	"github.com/spf13/afero"
)

// NewSimOption defines the interface required to provide an option to NewSim.
type NewSimOption interface {
	applySimOption(*builder)
}

// WithBank returns an option that adds the given bank to the Sim.
func WithBank(b *Bank) Bank {
	return *b
}

func (o Bank) applySimOption(b *builder) {
	b.banks = append(b.banks, Bank(o))
}

// RootOption defines the path of the control surface within the Sim.
type RootOption string

// WithRoot returns an option that defines the path of the control surface.
//
// The default is "/sys/class/gpio".
func WithRoot(root string) RootOption {
	return RootOption(root)
}

func (o RootOption) applySimOption(b *builder) {
	b.root = string(o)
}

// FsOption provides the filesystem the Sim is built in.
type FsOption struct {
	fs afero.Fs
}

// WithFs returns an option that builds the Sim in the given filesystem.
//
// The default is a new afero.MemMapFs.
func WithFs(fs afero.Fs) FsOption {
	return FsOption{fs}
}

func (o FsOption) applySimOption(b *builder) {
	b.fs = o.fs
}

// EndpointOption removes an endpoint from the control surface.
type EndpointOption string

// WithoutExport returns an option that omits the export endpoint, as if the
// kernel did not support the sysfs interface.
func WithoutExport() EndpointOption {
	return EndpointOption("export")
}

// WithoutUnexport returns an option that omits the unexport endpoint.
func WithoutUnexport() EndpointOption {
	return EndpointOption("unexport")
}

func (o EndpointOption) applySimOption(b *builder) {
	if b.omit == nil {
		b.omit = make(map[string]bool)
	}
	b.omit[string(o)] = true
}

// ExportLatencyOption defines the delay between an export request and the
// line directory appearing.
type ExportLatencyOption time.Duration

// WithExportLatency returns an option that delays the creation of line
// directories after an export request.
//
// By default the directory is created before the export write returns.
func WithExportLatency(d time.Duration) ExportLatencyOption {
	return ExportLatencyOption(d)
}

func (o ExportLatencyOption) applySimOption(b *builder) {
	b.latency = time.Duration(o)
}

// NewBankOption defines the interface required to provide an option to NewBank.
type NewBankOption interface {
	applyBankOption(*Bank)
}

// NamedLine is an option that names a line.
type NamedLine struct {
	Offset int
	Name   string
}

// WithNamedLine returns an option that defines the name of a simulated line.
//
// Names are only visible through Sim.FindLine, as sysfs does not expose them.
func WithNamedLine(offset int, name string) NamedLine {
	return NamedLine{offset, name}
}

func (o NamedLine) applyBankOption(b *Bank) {
	if b.Names == nil {
		b.Names = make(map[int]string)
	}
	b.Names[o.Offset] = o.Name
}

// ExportedLine is an option that exports a line when the Sim is created.
type ExportedLine int

// WithExportedLine returns an option that has the line already exported,
// as if by another process.
func WithExportedLine(offset int) ExportedLine {
	return ExportedLine(offset)
}

func (o ExportedLine) applyBankOption(b *Bank) {
	if b.Exported == nil {
		b.Exported = make(map[int]bool)
	}
	b.Exported[int(o)] = true
}

// StuckLine is an option that prevents a line from being exported.
type StuckLine int

// WithStuckLine returns an option that causes export requests for the line
// to be accepted without the line directory ever appearing.
func WithStuckLine(offset int) StuckLine {
	return StuckLine(offset)
}

func (o StuckLine) applyBankOption(b *Bank) {
	if b.Stuck == nil {
		b.Stuck = make(map[int]bool)
	}
	b.Stuck[int(o)] = true
}

// NoEdgeLine is an option that removes the edge attribute from a line.
type NoEdgeLine int

// WithoutEdgeLine returns an option that omits the edge attribute from the
// line, as the kernel does for lines that cannot generate interrupts.
func WithoutEdgeLine(offset int) NoEdgeLine {
	return NoEdgeLine(offset)
}

func (o NoEdgeLine) applyBankOption(b *Bank) {
	if b.NoEdge == nil {
		b.NoEdge = make(map[int]bool)
	}
	b.NoEdge[int(o)] = true
}
