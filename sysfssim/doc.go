// SPDX-FileCopyrightText: 2023 Kent Gibson <warthog618@gmail.com>
//
// SPDX-License-Identifier: Apache-2.0 OR MIT

/*
Package sysfssim is a library for simulating the Linux sysfs GPIO interface
for testing users of the gpiosysfs package, or any other code driving
/sys/class/gpio through a gpiosysfs.FS.

The simulated control surface lives in an [afero.Fs], by default an in-memory
one, so no kernel support or root permissions are required.

Simulators ([Sim]) contain one or more [Chip]s, each with a collection of lines
being simulated. Configuring a simulator involves adding [Bank]s, each
representing a chip, to [NewSim], which lays out the export and unexport
endpoints and a gpiochip<base> directory for each chip.

Writes through the Sim behave as the kernel would: exporting a line creates
its gpio<N> directory with direction, value, edge and active_low attributes,
unexporting removes it, and invalid writes fail with the same errno the
kernel returns.  Exports can be delayed with [WithExportLatency], and lines
can be made unexportable with [WithStuckLine].

Once a line is exported, the [Chip] can drive input lines using
[Chip.SetPull], or related methods, and read the level of output lines using
[Chip.Level].

For tests that only require lines on a single chip, the [Simpleton]
provides a slightly simpler interface.

# Example Usage

Create a [Simpleton] with 12 lines and claim a line through it:

	s, err := sysfssim.NewSimpleton(12)
	r := gpiosysfs.NewRegistry(gpiosysfs.WithFS(s), gpiosysfs.WithSettleDelay(0))
	p, err := r.Claim(5)
	s.Pullup(5)
	v, ok := p.Value()

Creating a simulator with two chips, with 8 and 42 lines respectively, each with
several named lines, a line already exported and a line that cannot be
exported:

	s, err := sysfssim.NewSim(
		sysfssim.WithBank(sysfssim.NewBank("left", 8,
			sysfssim.WithNamedLine(3, "LED0"),
			sysfssim.WithExportedLine(2),
		)),
		sysfssim.WithBank(sysfssim.NewBank("right", 42,
			sysfssim.WithNamedLine(3, "BUTTON2"),
			sysfssim.WithStuckLine(7),
		)),
	)
	c := &s.Chips[1]
	level, err := c.Level(3)
*/
package sysfssim
