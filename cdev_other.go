// SPDX-FileCopyrightText: 2023 Kent Gibson <warthog618@gmail.com>
//
// SPDX-License-Identifier: Apache-2.0 OR MIT

//go:build !linux

package gpiosysfs

import "github.com/pkg/errors"

func (cdevFinder) FindLine(name string) (LineLocation, error) {
	return LineLocation{}, errors.Errorf("can't find line '%s': GPIO character devices require linux", name)
}
