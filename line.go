// SPDX-FileCopyrightText: 2023 Kent Gibson <warthog618@gmail.com>
//
// SPDX-License-Identifier: Apache-2.0 OR MIT

package gpiosysfs

// LineLocation identifies a line by chip and offset.
type LineLocation struct {
	// The name of the chip, e.g. gpiochip0.
	Chip string

	// The label of the chip.
	Label string

	// The offset of the line on the chip.
	Offset int
}

// LineFinder locates lines by name.
type LineFinder interface {
	FindLine(name string) (LineLocation, error)
}

// CdevLineFinder returns a LineFinder that searches the GPIO character
// devices for named lines.
func CdevLineFinder() LineFinder {
	return cdevFinder{}
}

type cdevFinder struct{}
