// SPDX-FileCopyrightText: 2023 Kent Gibson <warthog618@gmail.com>
//
// SPDX-License-Identifier: Apache-2.0 OR MIT

package gpiosysfs_test

import (
	"bytes"
	"log/slog"
	"path"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/warthog618/go-gpiosysfs"
	"github.com/warthog618/go-gpiosysfs/sysfssim"
)

func newRegistry(s *sysfssim.Sim, options ...gpiosysfs.NewRegistryOption) *gpiosysfs.Registry {
	options = append([]gpiosysfs.NewRegistryOption{
		gpiosysfs.WithFS(s),
		gpiosysfs.WithRoot(s.Root),
		gpiosysfs.WithSettleDelay(0),
	}, options...)
	return gpiosysfs.NewRegistry(options...)
}

func pinNumbers(pins []*gpiosysfs.Pin) []int {
	nn := []int{}
	for _, p := range pins {
		nn = append(nn, p.Number())
	}
	return nn
}

func TestNewRegistry(t *testing.T) {
	s, err := sysfssim.NewSim(
		sysfssim.WithBank(sysfssim.NewBank("left", 8, sysfssim.WithExportedLine(3))),
	)
	require.Nil(t, err)
	defer s.Close()

	r := newRegistry(s)
	assert.Equal(t, s.Root, r.Root())
	assert.Equal(t, []int{3}, pinNumbers(r.Pins()))
	// adopting exported lines writes nothing
	assert.Empty(t, s.Writes())

	r.SetRoot("/somewhere/else")
	assert.Equal(t, "/somewhere/else", r.Root())

	// defaults
	r = gpiosysfs.NewRegistry(gpiosysfs.WithFS(s))
	assert.Equal(t, gpiosysfs.DefaultRoot, r.Root())
	assert.Equal(t, 1, r.Len())
}

func TestRegistryClaim(t *testing.T) {
	s, err := sysfssim.NewSimpleton(8)
	require.Nil(t, err)
	defer s.Close()

	r := newRegistry(s.Sim)
	assert.Zero(t, r.Len())

	p, err := r.Claim(3)
	require.Nil(t, err)
	require.NotNil(t, p)
	assert.True(t, s.Exported(3))

	// same pin, no second handshake
	s.ClearWrites()
	p2, err := r.Claim(3)
	assert.Nil(t, err)
	assert.Same(t, p, p2)
	assert.Equal(t, 1, r.Len())
	assert.Empty(t, s.Writes())

	hp, ok := r.Pin(3)
	assert.True(t, ok)
	assert.Same(t, p, hp)
	_, ok = r.Pin(4)
	assert.False(t, ok)

	// ordered by number
	_, err = r.Claim(7)
	require.Nil(t, err)
	_, err = r.Claim(0)
	require.Nil(t, err)
	assert.Equal(t, []int{0, 3, 7}, pinNumbers(r.Pins()))
}

func TestRegistryClaimErrors(t *testing.T) {
	s, err := sysfssim.NewSim(
		sysfssim.WithBank(sysfssim.NewBank("left", 8, sysfssim.WithStuckLine(2))),
		sysfssim.WithoutUnexport(),
	)
	require.Nil(t, err)
	defer s.Close()

	r := newRegistry(s)
	p, err := r.Claim(2)
	assert.ErrorIs(t, err, gpiosysfs.ErrClaimFailed)
	assert.Nil(t, p)
	assert.Zero(t, r.Len())

	s2, err := sysfssim.NewSimpleton(8, sysfssim.WithoutExport())
	require.Nil(t, err)
	defer s2.Close()

	r = newRegistry(s2.Sim)
	p, err = r.Claim(2)
	assert.ErrorIs(t, err, gpiosysfs.ErrClaimSurfaceMissing)
	assert.Nil(t, p)
	assert.Zero(t, r.Len())
}

func TestRegistryTryClaim(t *testing.T) {
	s, err := sysfssim.NewSim(
		sysfssim.WithBank(sysfssim.NewBank("left", 8, sysfssim.WithStuckLine(2))),
	)
	require.Nil(t, err)
	defer s.Close()

	r := newRegistry(s)
	p, ok := r.TryClaim(2)
	assert.False(t, ok)
	assert.Nil(t, p)

	p, ok = r.TryClaim(5)
	assert.True(t, ok)
	require.NotNil(t, p)
	assert.Equal(t, 5, p.Number())

	p2, ok := r.TryClaim(5)
	assert.True(t, ok)
	assert.Same(t, p, p2)
	assert.Equal(t, 1, r.Len())
}

func TestRegistryRelease(t *testing.T) {
	s, err := sysfssim.NewSimpleton(8)
	require.Nil(t, err)
	defer s.Close()

	r := newRegistry(s.Sim)

	assert.False(t, r.Release(nil))

	// not held
	stranger := gpiosysfs.NewPin(4, gpiosysfs.WithFS(s))
	assert.False(t, r.Release(stranger))

	p, err := r.Claim(4)
	require.Nil(t, err)
	assert.True(t, r.Release(p))
	assert.False(t, s.Exported(4))
	assert.Zero(t, r.Len())

	// second release is harmless
	s.ClearWrites()
	assert.False(t, r.Release(p))
	assert.Empty(t, s.Writes())

	// a fresh claim after release
	p2, err := r.Claim(4)
	require.Nil(t, err)
	assert.NotSame(t, p, p2)
	assert.True(t, s.Exported(4))

	// stale handle does not displace the held one
	assert.False(t, r.Release(p))
	hp, ok := r.Pin(4)
	assert.True(t, ok)
	assert.Same(t, p2, hp)
}

func TestRegistryDrop(t *testing.T) {
	s, err := sysfssim.NewSimpleton(8)
	require.Nil(t, err)
	defer s.Close()

	r := newRegistry(s.Sim)
	assert.False(t, r.Drop(nil))

	p, err := r.Claim(5)
	require.Nil(t, err)
	s.ClearWrites()
	assert.False(t, r.Drop(gpiosysfs.NewPin(5, gpiosysfs.WithFS(s))))
	assert.Equal(t, 1, r.Len())

	assert.True(t, r.Drop(p))
	assert.Zero(t, r.Len())
	assert.False(t, r.Drop(p))
	// line remains exported
	assert.True(t, s.Exported(5))
	assert.Empty(t, s.Writes())
}

func TestRegistryRefresh(t *testing.T) {
	fs := afero.NewMemMapFs()
	s, err := sysfssim.NewSim(
		sysfssim.WithFs(fs),
		sysfssim.WithBank(sysfssim.NewBank("left", 20,
			sysfssim.WithExportedLine(2),
			sysfssim.WithExportedLine(17),
		)),
	)
	require.Nil(t, err)
	defer s.Close()
	require.Nil(t, fs.MkdirAll(path.Join(s.Root, "notgpio9"), 0755))
	require.Nil(t, fs.MkdirAll(path.Join(s.Root, "gpio9x"), 0755))
	// a file, not a directory
	require.Nil(t, afero.WriteFile(fs, path.Join(s.Root, "gpio11"), nil, 0644))

	r := newRegistry(s)
	assert.Equal(t, []int{2, 17}, pinNumbers(r.Pins()))

	// pins claimed since are dropped, not released
	_, err = r.Claim(5)
	require.Nil(t, err)
	assert.Equal(t, 3, r.Len())
	results := r.Refresh()
	assert.Equal(t, []int{2, 5, 17}, pinNumbers(r.Pins()))
	require.Len(t, results, 3)
	for _, cr := range results {
		assert.Nil(t, cr.Err)
		require.NotNil(t, cr.Pin)
		assert.Equal(t, cr.Number, cr.Pin.Number())
	}

	// released lines disappear
	p, _ := r.Pin(5)
	r.Release(p)
	r.Refresh()
	assert.Equal(t, []int{2, 17}, pinNumbers(r.Pins()))
}

// vanishingFS hides line directories from existence checks, as if they were
// removed between the scan and the claim.
type vanishingFS struct {
	*sysfssim.Sim
	hidden string
}

func (v vanishingFS) Exists(p string) bool {
	if p == v.hidden {
		return false
	}
	return v.Sim.Exists(p)
}

func TestRegistryRefreshFailures(t *testing.T) {
	fs := afero.NewMemMapFs()
	s, err := sysfssim.NewSim(
		sysfssim.WithFs(fs),
		sysfssim.WithBank(sysfssim.NewBank("left", 8, sysfssim.WithExportedLine(1))),
	)
	require.Nil(t, err)
	defer s.Close()
	// beyond any chip, so export will be rejected
	require.Nil(t, fs.MkdirAll(path.Join(s.Root, "gpio99"), 0755))

	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
	vfs := vanishingFS{s, path.Join(s.Root, "gpio99")}
	r := gpiosysfs.NewRegistry(
		gpiosysfs.WithFS(vfs),
		gpiosysfs.WithRoot(s.Root),
		gpiosysfs.WithSettleDelay(0),
		gpiosysfs.WithLogger(logger),
	)
	assert.Equal(t, []int{1}, pinNumbers(r.Pins()))
	assert.Contains(t, buf.String(), "claim failed")

	results := r.Refresh()
	require.Len(t, results, 2)
	assert.Equal(t, 1, results[0].Number)
	assert.Nil(t, results[0].Err)
	assert.NotNil(t, results[0].Pin)
	assert.Equal(t, 99, results[1].Number)
	assert.ErrorIs(t, results[1].Err, gpiosysfs.ErrClaimFailed)
	assert.Nil(t, results[1].Pin)
}

func TestRegistryRefreshMissingRoot(t *testing.T) {
	fs := gpiosysfs.NewAferoFS(afero.NewMemMapFs())
	r := gpiosysfs.NewRegistry(gpiosysfs.WithFS(fs), gpiosysfs.WithRoot("/no/such/gpio"))
	assert.Zero(t, r.Len())
	assert.Nil(t, r.Refresh())
	assert.Empty(t, r.Pins())
}

func TestRegistryClose(t *testing.T) {
	s, err := sysfssim.NewSimpleton(8)
	require.Nil(t, err)
	defer s.Close()

	// default leaves lines exported
	r := newRegistry(s.Sim)
	_, err = r.Claim(1)
	require.Nil(t, err)
	_, err = r.Claim(2)
	require.Nil(t, err)
	assert.Nil(t, r.Close())
	assert.True(t, s.Exported(1))
	assert.True(t, s.Exported(2))

	r = newRegistry(s.Sim, gpiosysfs.WithReleaseOnClose())
	assert.Equal(t, 2, r.Len())
	assert.Nil(t, r.Close())
	assert.False(t, s.Exported(1))
	assert.False(t, s.Exported(2))
}

func TestRegistryCloseFailure(t *testing.T) {
	s, err := sysfssim.NewSimpleton(8)
	require.Nil(t, err)
	defer s.Close()

	r := newRegistry(s.Sim, gpiosysfs.WithReleaseOnClose())
	_, err = r.Claim(1)
	require.Nil(t, err)
	_, err = r.Claim(2)
	require.Nil(t, err)
	// unexported behind the registry's back
	require.Nil(t, s.WriteFile(path.Join(s.Root, "unexport"), "1"))

	err = r.Close()
	assert.NotNil(t, err)
	assert.False(t, s.Exported(2))
}
