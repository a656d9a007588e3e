// SPDX-FileCopyrightText: 2023 Kent Gibson <warthog618@gmail.com>
//
// SPDX-License-Identifier: Apache-2.0 OR MIT

package gpiosysfs_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/warthog618/go-gpiosysfs"
)

func TestParseEdge(t *testing.T) {
	patterns := []struct {
		in string
		xe gpiosysfs.Edge
		ok bool
	}{
		{"rising", gpiosysfs.EdgeRising, true},
		{"Rising", gpiosysfs.EdgeRising, true},
		{" rising ", gpiosysfs.EdgeRising, true},
		{"RISING", gpiosysfs.EdgeRising, true},
		{"falling\n", gpiosysfs.EdgeFalling, true},
		{"Both", gpiosysfs.EdgeBoth, true},
		{"none", gpiosysfs.EdgeNone, false},
		{"diagonal", gpiosysfs.EdgeNone, false},
		{"", gpiosysfs.EdgeNone, false},
	}
	for _, p := range patterns {
		e, ok := gpiosysfs.ParseEdge(p.in)
		assert.Equal(t, p.xe, e, p.in)
		assert.Equal(t, p.ok, ok, p.in)
	}
}

func TestParseDirection(t *testing.T) {
	patterns := []struct {
		in string
		xd gpiosysfs.Direction
		ok bool
	}{
		{"in", gpiosysfs.DirectionIn, true},
		{"out", gpiosysfs.DirectionOut, true},
		{" OUT\n", gpiosysfs.DirectionOut, true},
		{"In", gpiosysfs.DirectionIn, true},
		{"sideways", gpiosysfs.DirectionUnknown, false},
		{"high", gpiosysfs.DirectionUnknown, false},
		{"", gpiosysfs.DirectionUnknown, false},
	}
	for _, p := range patterns {
		d, ok := gpiosysfs.ParseDirection(p.in)
		assert.Equal(t, p.xd, d, p.in)
		assert.Equal(t, p.ok, ok, p.in)
	}
}

func TestEnumString(t *testing.T) {
	assert.Equal(t, "unknown", gpiosysfs.DirectionUnknown.String())
	assert.Equal(t, "in", gpiosysfs.DirectionIn.String())
	assert.Equal(t, "out", gpiosysfs.DirectionOut.String())
	assert.Equal(t, "Direction(7)", gpiosysfs.Direction(7).String())
	assert.Equal(t, "none", gpiosysfs.EdgeNone.String())
	assert.Equal(t, "rising", gpiosysfs.EdgeRising.String())
	assert.Equal(t, "falling", gpiosysfs.EdgeFalling.String())
	assert.Equal(t, "both", gpiosysfs.EdgeBoth.String())
	assert.Equal(t, "Edge(-1)", gpiosysfs.Edge(-1).String())

	// String and Parse agree
	for _, e := range []gpiosysfs.Edge{gpiosysfs.EdgeRising, gpiosysfs.EdgeFalling, gpiosysfs.EdgeBoth} {
		pe, ok := gpiosysfs.ParseEdge(e.String())
		assert.True(t, ok)
		assert.Equal(t, e, pe)
	}
	for _, d := range []gpiosysfs.Direction{gpiosysfs.DirectionIn, gpiosysfs.DirectionOut} {
		pd, ok := gpiosysfs.ParseDirection(d.String())
		assert.True(t, ok)
		assert.Equal(t, d, pd)
	}
}

func TestFormatBool(t *testing.T) {
	assert.Equal(t, "1", gpiosysfs.FormatBool(true))
	assert.Equal(t, "0", gpiosysfs.FormatBool(false))
}
