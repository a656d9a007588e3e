// SPDX-FileCopyrightText: 2023 Kent Gibson <warthog618@gmail.com>
//
// SPDX-License-Identifier: Apache-2.0 OR MIT

package sysfssim

// Bank contains the information required to configure a chip in a Sim.
type Bank struct {
	// The number of lines simulated by this bank/chip.
	NumLines int

	// The label of the chip.
	Label string

	// Lines assigned an identifying name.
	//
	// Line names do not need to be unique.
	Names map[int]string

	// Lines that are exported when the Sim is created.
	Exported map[int]bool

	// Lines for which export requests are accepted but never take effect.
	Stuck map[int]bool

	// Lines that cannot generate interrupts, so have no edge attribute.
	NoEdge map[int]bool
}

// NewBank constructs a Bank with the label, numLines and options provided.
//
// The label is written to the chip's label attribute, and is how the chip
// is matched to its character device.
//
// The available options are [WithNamedLine], [WithExportedLine],
// [WithStuckLine] and [WithoutEdgeLine].
func NewBank(label string, numLines int, options ...NewBankOption) *Bank {
	b := &Bank{Label: label, NumLines: numLines}
	for _, o := range options {
		o.applyBankOption(b)
	}
	return b
}
