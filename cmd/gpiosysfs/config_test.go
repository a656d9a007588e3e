// SPDX-FileCopyrightText: 2023 Kent Gibson <warthog618@gmail.com>
//
// SPDX-License-Identifier: Apache-2.0 OR MIT

package main

import (
	"log/slog"
	"testing"
	"time"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/warthog618/go-gpiosysfs"
)

func writeConfig(t *testing.T, fs afero.Fs, body string) string {
	t.Helper()
	require.Nil(t, afero.WriteFile(fs, "/etc/gpio.yaml", []byte(body), 0644))
	return "/etc/gpio.yaml"
}

func TestLoadConfig(t *testing.T) {
	fs := afero.NewMemMapFs()
	path := writeConfig(t, fs, `
root: /tmp/gpio
settle_delay: 50ms
release_on_exit: true
log_level: debug
pins:
  - number: 17
    direction: out
    active_low: true
    value: true
  - line: BUTTON1
    direction: in
    edge: none
`)
	cfg, err := LoadConfig(fs, path)
	require.Nil(t, err)
	assert.Equal(t, "/tmp/gpio", cfg.Root)
	assert.Equal(t, 50*time.Millisecond, cfg.SettleDelay)
	assert.True(t, cfg.ReleaseOnExit)
	assert.Equal(t, slog.LevelDebug, cfg.Level())
	require.Len(t, cfg.Pins, 2)

	p := cfg.Pins[0]
	require.NotNil(t, p.Number)
	assert.Equal(t, 17, *p.Number)
	assert.Equal(t, "17", p.ident())
	assert.Equal(t, "out", p.Direction)
	require.NotNil(t, p.ActiveLow)
	assert.True(t, *p.ActiveLow)
	require.NotNil(t, p.Value)
	assert.True(t, *p.Value)

	p = cfg.Pins[1]
	assert.Nil(t, p.Number)
	assert.Equal(t, "BUTTON1", p.ident())
	assert.Equal(t, "none", p.Edge)
	assert.Nil(t, p.ActiveLow)
	assert.Nil(t, p.Value)
}

func TestLoadConfigDefaults(t *testing.T) {
	fs := afero.NewMemMapFs()
	path := writeConfig(t, fs, "pins: []\n")
	cfg, err := LoadConfig(fs, path)
	require.Nil(t, err)
	assert.Equal(t, gpiosysfs.DefaultRoot, cfg.Root)
	assert.Equal(t, gpiosysfs.DefaultSettleDelay, cfg.SettleDelay)
	assert.False(t, cfg.ReleaseOnExit)
	assert.Equal(t, slog.LevelInfo, cfg.Level())
	assert.Empty(t, cfg.Pins)
}

func TestLoadConfigErrors(t *testing.T) {
	patterns := []struct {
		name string
		body string
	}{
		{"syntax", "pins: [\n"},
		{"duration", "settle_delay: soon\n"},
		{"negative delay", "settle_delay: -1s\n"},
		{"root", "root: \"\"\n"},
		{"log level", "log_level: chatty\n"},
		{"no line", "pins:\n  - direction: in\n"},
		{"both", "pins:\n  - number: 3\n    line: LED0\n"},
		{"negative", "pins:\n  - number: -3\n"},
		{"direction", "pins:\n  - number: 3\n    direction: sideways\n"},
		{"edge", "pins:\n  - number: 3\n    edge: sometimes\n"},
	}
	for _, p := range patterns {
		tf := func(t *testing.T) {
			fs := afero.NewMemMapFs()
			path := writeConfig(t, fs, p.body)
			cfg, err := LoadConfig(fs, path)
			assert.NotNil(t, err)
			assert.Nil(t, cfg)
		}
		t.Run(p.name, tf)
	}

	_, err := LoadConfig(afero.NewMemMapFs(), "/no/such/file.yaml")
	assert.NotNil(t, err)
}

func TestParseEdge(t *testing.T) {
	patterns := []struct {
		in    string
		xedge gpiosysfs.Edge
		xok   bool
	}{
		{"none", gpiosysfs.EdgeNone, true},
		{" NONE ", gpiosysfs.EdgeNone, true},
		{"rising", gpiosysfs.EdgeRising, true},
		{"both", gpiosysfs.EdgeBoth, true},
		{"", gpiosysfs.EdgeNone, false},
		{"up", gpiosysfs.EdgeNone, false},
	}
	for _, p := range patterns {
		e, ok := parseEdge(p.in)
		assert.Equal(t, p.xok, ok, p.in)
		assert.Equal(t, p.xedge, e, p.in)
	}
}
