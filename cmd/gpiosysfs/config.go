// SPDX-FileCopyrightText: 2023 Kent Gibson <warthog618@gmail.com>
//
// SPDX-License-Identifier: Apache-2.0 OR MIT

package main

import (
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/pkg/errors"
	"github.com/spf13/afero"
	"github.com/warthog618/go-gpiosysfs"
	"gopkg.in/yaml.v3"
)

// Config is the configuration loaded from the -config file.
type Config struct {
	// The path to the control surface.
	Root string `yaml:"root"`

	// The time allowed for an exported line to appear, e.g. "300ms".
	SettleDelay time.Duration `yaml:"settle_delay"`

	// Unexport all held lines before exiting.
	ReleaseOnExit bool `yaml:"release_on_exit"`

	// One of debug, info, warn or error.
	LogLevel string `yaml:"log_level"`

	// The lines configured by the apply command.
	Pins []PinConfig `yaml:"pins"`
}

// PinConfig is the desired configuration of a line.
//
// The line is identified by either its GPIO number or its name.
// Unset fields are left unchanged.
type PinConfig struct {
	Number    *int   `yaml:"number"`
	Line      string `yaml:"line"`
	Direction string `yaml:"direction"`
	Edge      string `yaml:"edge"`
	ActiveLow *bool  `yaml:"active_low"`
	Value     *bool  `yaml:"value"`
}

func defaultConfig() *Config {
	return &Config{
		Root:        gpiosysfs.DefaultRoot,
		SettleDelay: gpiosysfs.DefaultSettleDelay,
		LogLevel:    "info",
	}
}

// LoadConfig reads the config file from path, with fields missing from the
// file taking their default values.
func LoadConfig(fs afero.Fs, path string) (*Config, error) {
	data, err := afero.ReadFile(fs, path)
	if err != nil {
		return nil, errors.Wrap(err, "read config")
	}
	cfg := defaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, errors.Wrapf(err, "parse config %s", path)
	}
	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrapf(err, "config %s", path)
	}
	return cfg, nil
}

// Validate checks the config for values that cannot be applied.
func (c *Config) Validate() error {
	if c.Root == "" {
		return errors.New("root is empty")
	}
	if c.SettleDelay < 0 {
		return errors.Errorf("settle_delay %s is negative", c.SettleDelay)
	}
	if _, err := parseLogLevel(c.LogLevel); err != nil {
		return err
	}
	for i, pc := range c.Pins {
		if err := pc.validate(); err != nil {
			return errors.Wrapf(err, "pins[%d]", i)
		}
	}
	return nil
}

// Level returns the configured log level.
func (c *Config) Level() slog.Level {
	l, _ := parseLogLevel(c.LogLevel)
	return l
}

func (pc PinConfig) validate() error {
	if (pc.Number == nil) == (pc.Line == "") {
		return errors.New("exactly one of number or line required")
	}
	if pc.Number != nil && *pc.Number < 0 {
		return errors.Errorf("number %d is negative", *pc.Number)
	}
	if pc.Direction != "" {
		if _, ok := gpiosysfs.ParseDirection(pc.Direction); !ok {
			return errors.Errorf("unknown direction '%s'", pc.Direction)
		}
	}
	if pc.Edge != "" {
		if _, ok := parseEdge(pc.Edge); !ok {
			return errors.Errorf("unknown edge '%s'", pc.Edge)
		}
	}
	return nil
}

// ident returns the argument identifying the line on the command line.
func (pc PinConfig) ident() string {
	if pc.Number != nil {
		return strconv.Itoa(*pc.Number)
	}
	return pc.Line
}

func parseLogLevel(s string) (slog.Level, error) {
	var l slog.Level
	if err := l.UnmarshalText([]byte(s)); err != nil {
		return slog.LevelInfo, errors.Errorf("unknown log_level '%s'", s)
	}
	return l, nil
}

// parseEdge extends gpiosysfs.ParseEdge to accept "none", so edge detection
// can be disabled.
func parseEdge(s string) (gpiosysfs.Edge, bool) {
	if strings.EqualFold(strings.TrimSpace(s), "none") {
		return gpiosysfs.EdgeNone, true
	}
	return gpiosysfs.ParseEdge(s)
}
