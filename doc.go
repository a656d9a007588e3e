// SPDX-FileCopyrightText: 2023 Kent Gibson <warthog618@gmail.com>
//
// SPDX-License-Identifier: Apache-2.0 OR MIT

/*
Package gpiosysfs is a library for claiming and controlling GPIO lines through
the Linux sysfs GPIO interface, /sys/class/gpio.

A line is claimed by writing its GPIO number to the export endpoint, after
which the kernel creates a gpio<N> directory containing the direction, value,
edge and active_low attributes of the line.  Writing the number to the
unexport endpoint releases it.

The [Registry] tracks the lines claimed through a control surface, holding at
most one [Pin] per GPIO number.  When created it adopts any lines already
exported, by this or another process.  Lines can also be claimed by name, with
the name located via the GPIO character devices.

Pin accessors read and write the attribute files directly, so always reflect
the current state of the line.  Accessors on a Pin that has not been claimed,
or whose attribute does not exist, do nothing rather than fail, as that is
routine for partially supported hardware.  Getters report whether a value
was available.

The filesystem is accessed through an [FS], so the control surface can be
provided by the sysfssim package in tests.

Exporting lines involves sysfs, so root permissions, or membership of the
gpio group, are typically required.

# Example Usage

Claim GPIO17 and drive it high:

	r := gpiosysfs.NewRegistry()
	p, err := r.Claim(17)
	err = p.SetDirection(gpiosysfs.DirectionOut)
	err = p.SetValue(true)

Claim a line by name and watch for rising edges:

	p, err := r.ClaimLine("BUTTON1")
	err = p.SetEdge(gpiosysfs.EdgeRising)

Release the lines on shutdown:

	r := gpiosysfs.NewRegistry(gpiosysfs.WithReleaseOnClose())
	defer r.Close()

By default lines remain exported after the Registry is closed, so their state
persists after the process exits.
*/
package gpiosysfs
