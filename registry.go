// SPDX-FileCopyrightText: 2023 Kent Gibson <warthog618@gmail.com>
//
// SPDX-License-Identifier: Apache-2.0 OR MIT

package gpiosysfs

import (
	"log/slog"
	"regexp"
	"sort"
	"strconv"
	"time"
)

// DefaultRoot is the usual location of the sysfs GPIO control surface.
const DefaultRoot = "/sys/class/gpio"

var pinDirPattern = regexp.MustCompile(`^gpio(\d+)$`)

// Registry tracks the pins claimed through a control surface.
//
// Each GPIO number is held by at most one Pin.
// A Registry is not safe for concurrent use.
type Registry struct {
	// The path to the control surface.
	root string

	// The claimed pins, keyed by GPIO number.
	pins map[int]*Pin

	fs             FS
	settle         time.Duration
	log            *slog.Logger
	finder         LineFinder
	releaseOnClose bool
}

// ClaimResult is the outcome of an attempt to claim a pin during Refresh.
type ClaimResult struct {
	// The GPIO number parsed from the line directory name.
	Number int

	// The claimed pin, or nil if the claim failed.
	Pin *Pin

	// The reason the claim failed, or nil.
	Err error
}

// NewRegistry constructs a Registry and populates it with the lines already
// exported on the control surface.
//
// The available options are [WithRoot], [WithFS], [WithSettleDelay],
// [WithLogger], [WithReleaseOnClose] and [WithLineFinder].
func NewRegistry(options ...NewRegistryOption) *Registry {
	r := &Registry{
		root:   DefaultRoot,
		pins:   make(map[int]*Pin),
		fs:     defaultFS,
		settle: DefaultSettleDelay,
		finder: CdevLineFinder(),
	}
	for _, o := range options {
		o.applyRegistryOption(r)
	}
	if r.log == nil {
		r.log = discardLogger()
	}
	r.Refresh()
	return r
}

// Root returns the path to the control surface.
func (r *Registry) Root() string {
	return r.root
}

// SetRoot changes the path to the control surface.
//
// Pins already held remain bound to the root they were claimed through.
func (r *Registry) SetRoot(root string) {
	r.root = root
}

// Refresh rebuilds the registry from the lines exported on the control
// surface.
//
// Pins previously held are dropped, not released.  Each directory named
// gpio<N> is claimed, and the outcome of each claim is returned.
// A missing control surface results in an empty registry.
func (r *Registry) Refresh() []ClaimResult {
	r.pins = make(map[int]*Pin)
	if !r.fs.Exists(r.root) {
		r.log.Debug("no control surface", "root", r.root)
		return nil
	}
	names, err := r.fs.SubDirs(r.root)
	if err != nil {
		r.log.Debug("scan failed", "root", r.root, "err", err)
		return nil
	}
	var results []ClaimResult
	for _, name := range names {
		m := pinDirPattern.FindStringSubmatch(name)
		if m == nil {
			continue
		}
		n, err := strconv.Atoi(m[1])
		if err != nil {
			continue
		}
		p, err := r.Claim(n)
		if err != nil {
			r.log.Debug("claim failed", "pin", n, "err", err)
		}
		results = append(results, ClaimResult{Number: n, Pin: p, Err: err})
	}
	return results
}

// Claim returns the Pin for the GPIO number, exporting the line if
// necessary.
//
// Claiming a number already held returns the held Pin.
// Returns ErrClaimSurfaceMissing or ErrClaimFailed if the line cannot be
// exported.
func (r *Registry) Claim(number int) (*Pin, error) {
	if p, ok := r.pins[number]; ok {
		return p, nil
	}
	p := NewPin(number, WithFS(r.fs), WithSettleDelay(r.settle), WithLogger(r.log))
	if err := p.Initialize(r.root); err != nil {
		return nil, err
	}
	r.pins[number] = p
	return p, nil
}

// TryClaim is Claim for callers that only care if the claim succeeded.
func (r *Registry) TryClaim(number int) (*Pin, bool) {
	p, err := r.Claim(number)
	if err != nil {
		r.log.Debug("claim failed", "pin", number, "err", err)
		return nil, false
	}
	return p, true
}

// Release frees the Pin and removes it from the registry.
//
// Returns true if the Pin was held by the registry.
func (r *Registry) Release(p *Pin) bool {
	if p == nil {
		return false
	}
	if err := p.Free(); err != nil {
		r.log.Warn("release failed", "pin", p.Number(), "err", err)
	}
	return r.Drop(p)
}

// Drop removes the Pin from the registry without releasing the line.
//
// Returns true if the Pin was held by the registry.
func (r *Registry) Drop(p *Pin) bool {
	if p == nil {
		return false
	}
	if held, ok := r.pins[p.Number()]; !ok || held != p {
		return false
	}
	delete(r.pins, p.Number())
	return true
}

// Pin returns the held Pin for the GPIO number.
func (r *Registry) Pin(number int) (*Pin, bool) {
	p, ok := r.pins[number]
	return p, ok
}

// Pins returns the held pins, ordered by GPIO number.
func (r *Registry) Pins() []*Pin {
	pins := make([]*Pin, 0, len(r.pins))
	for _, p := range r.pins {
		pins = append(pins, p)
	}
	sort.Slice(pins, func(i, j int) bool { return pins[i].number < pins[j].number })
	return pins
}

// Len returns the number of held pins.
func (r *Registry) Len() int {
	return len(r.pins)
}

// Close shuts down the registry.
//
// If the registry was created WithReleaseOnClose then all held pins are
// released and the first failure, if any, is returned.  Otherwise the pins
// remain exported after the registry is gone.
func (r *Registry) Close() error {
	if !r.releaseOnClose {
		return nil
	}
	var first error
	for _, p := range r.Pins() {
		if err := p.Free(); err != nil {
			r.log.Warn("release failed", "pin", p.Number(), "err", err)
			if first == nil {
				first = err
			}
		}
	}
	return first
}
