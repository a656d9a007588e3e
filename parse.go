// SPDX-FileCopyrightText: 2023 Kent Gibson <warthog618@gmail.com>
//
// SPDX-License-Identifier: Apache-2.0 OR MIT

package gpiosysfs

import (
	"strconv"
	"strings"
)

// Direction indicates the direction of a line.
type Direction int

const (
	// Direction could not be determined.
	//
	// Never written to the control surface.
	DirectionUnknown Direction = iota

	// Line is an input.
	DirectionIn

	// Line is an output.
	DirectionOut
)

func (d Direction) String() string {
	switch d {
	case DirectionUnknown:
		return "unknown"
	case DirectionIn:
		return "in"
	case DirectionOut:
		return "out"
	default:
		return "Direction(" + strconv.Itoa(int(d)) + ")"
	}
}

// Edge indicates the edges that trigger an interrupt on a line.
type Edge int

const (
	// No edge detection.
	EdgeNone Edge = iota

	// Rising edges are detected.
	EdgeRising

	// Falling edges are detected.
	EdgeFalling

	// Both rising and falling edges are detected.
	EdgeBoth
)

func (e Edge) String() string {
	switch e {
	case EdgeNone:
		return "none"
	case EdgeRising:
		return "rising"
	case EdgeFalling:
		return "falling"
	case EdgeBoth:
		return "both"
	default:
		return "Edge(" + strconv.Itoa(int(e)) + ")"
	}
}

func (e Edge) valid() bool {
	return e >= EdgeNone && e <= EdgeBoth
}

// ParseEdge converts a token into an Edge.
//
// Matching ignores case and surrounding whitespace.
// Only "rising", "falling" and "both" are recognised.  Anything else,
// including "none", returns EdgeNone and false.
func ParseEdge(s string) (Edge, bool) {
	switch normalize(s) {
	case "rising":
		return EdgeRising, true
	case "falling":
		return EdgeFalling, true
	case "both":
		return EdgeBoth, true
	}
	return EdgeNone, false
}

// ParseDirection converts a token into a Direction.
//
// Matching ignores case and surrounding whitespace.
// Only "in" and "out" are recognised.  Anything else returns
// DirectionUnknown and false.
func ParseDirection(s string) (Direction, bool) {
	switch normalize(s) {
	case "in":
		return DirectionIn, true
	case "out":
		return DirectionOut, true
	}
	return DirectionUnknown, false
}

func normalize(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// FormatBool encodes a boolean attribute, such as value or active_low, as the
// control surface does.
func FormatBool(v bool) string {
	if v {
		return "1"
	}
	return "0"
}
