// SPDX-FileCopyrightText: 2023 Kent Gibson <warthog618@gmail.com>
//
// SPDX-License-Identifier: Apache-2.0 OR MIT

package gpiosysfs

import "github.com/pkg/errors"

var (
	// ErrClaimSurfaceMissing indicates the export endpoint does not exist.
	//
	// Either the kernel does not provide the sysfs GPIO interface or the
	// control root is misconfigured.
	ErrClaimSurfaceMissing = errors.New("claim surface missing")

	// ErrClaimFailed indicates the line directory did not appear after the
	// export request.
	ErrClaimFailed = errors.New("claim failed")

	// ErrLineNotFound indicates a line could not be mapped onto the
	// control surface.
	ErrLineNotFound = errors.New("line not found")
)
