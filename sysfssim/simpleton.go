// SPDX-FileCopyrightText: 2023 Kent Gibson <warthog618@gmail.com>
//
// SPDX-License-Identifier: Apache-2.0 OR MIT

package sysfssim

// Simpleton is a Sim with a single chip.
type Simpleton struct {
	*Sim
}

// NewSimpleton creates a Sim with a single chip with numLines lines.
//
// Sim options other than WithBank may be provided.
func NewSimpleton(numLines int, options ...NewSimOption) (*Simpleton, error) {
	options = append([]NewSimOption{WithBank(NewBank("simpleton", numLines))}, options...)
	s, err := NewSim(options...)
	if s == nil {
		return nil, err
	}
	return &Simpleton{s}, err
}

// ChipName returns the name of the gpiochip directory.
//
// e.g. "gpiochip0"
func (s *Simpleton) ChipName() string {
	return s.Chips[0].chipName
}

// Config returns the configuration used for the Chip.
func (s *Simpleton) Config() Bank {
	return s.Chips[0].cfg
}

// Exported returns true if the line is currently exported.
func (s *Simpleton) Exported(offset int) bool {
	return s.Chips[0].Exported(offset)
}

// Level returns the logical level of the line.
func (s *Simpleton) Level(offset int) (int, error) {
	return s.Chips[0].Level(offset)
}

// Pulldown pulls the given input line low.
func (s *Simpleton) Pulldown(offset int) error {
	return s.Chips[0].Pulldown(offset)
}

// Pullup pulls the given input line high.
func (s *Simpleton) Pullup(offset int) error {
	return s.Chips[0].Pullup(offset)
}

// SetPull drives the level of the given input line.
func (s *Simpleton) SetPull(offset int, level int) error {
	return s.Chips[0].SetPull(offset, level)
}

// Toggle flips the level of the given input line.
func (s *Simpleton) Toggle(offset int) error {
	return s.Chips[0].Toggle(offset)
}
