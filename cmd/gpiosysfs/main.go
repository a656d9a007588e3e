// SPDX-FileCopyrightText: 2023 Kent Gibson <warthog618@gmail.com>
//
// SPDX-License-Identifier: Apache-2.0 OR MIT

// Command gpiosysfs exports and configures GPIO lines through the sysfs
// GPIO interface.
//
// Usage:
//
//	gpiosysfs [flags] <command> [args]
//
// Examples:
//
//	# Export GPIO17 and drive it high
//	gpiosysfs export 17
//	gpiosysfs set 17 direction out
//	gpiosysfs set 17 value 1
//
//	# Export a line by name
//	gpiosysfs export LED0
//
//	# Configure the lines described in a config file
//	gpiosysfs -config gpio.yaml apply
package main

import (
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/pkg/errors"
	"github.com/spf13/afero"
	"github.com/warthog618/go-gpiosysfs"
)

const usage = `gpiosysfs - sysfs GPIO line control

Usage:
  gpiosysfs [flags] <command> [args]

Commands:
  list                          List the exported lines
  chips                         List the GPIO chips
  export <line>...              Export lines, by GPIO number or name
  unexport <gpio>...            Unexport lines
  get <gpio> [attribute]        Show a line, or one of its attributes
  set <gpio> <attribute> <val>  Set direction, edge, value or active_low
  apply                         Export and configure the lines in the config

Flags:
`

func main() {
	e := env{
		cfs:    afero.NewOsFs(),
		stdout: os.Stdout,
		stderr: os.Stderr,
	}
	if err := e.run(os.Args[1:]); err != nil {
		if errors.Is(err, errUsage) {
			fmt.Fprint(os.Stderr, usage)
		}
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// env provides the resources used by a command.
type env struct {
	// The filesystem containing the config file.
	cfs afero.Fs

	// The filesystem containing the control surface.
	sfs gpiosysfs.FS // optional

	// Locates lines by name.
	finder gpiosysfs.LineFinder // optional

	stdout io.Writer
	stderr io.Writer
}

func (e env) run(args []string) error {
	fs := flag.NewFlagSet("gpiosysfs", flag.ContinueOnError)
	fs.SetOutput(e.stderr)
	fs.Usage = func() {
		fmt.Fprint(e.stderr, usage)
		fs.PrintDefaults()
	}
	cfgPath := fs.String("config", "", "Path to the YAML config file")
	root := fs.String("root", "", "Path to the control surface (overrides config)")
	verbose := fs.Bool("v", false, "Enable debug logging")
	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return nil
		}
		return err
	}
	if fs.NArg() < 1 {
		return errors.Wrap(errUsage, "command required")
	}

	cfg := defaultConfig()
	if *cfgPath != "" {
		var err error
		if cfg, err = LoadConfig(e.cfs, *cfgPath); err != nil {
			return err
		}
	}
	if *root != "" {
		cfg.Root = *root
	}
	level := cfg.Level()
	if *verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(e.stderr, &slog.HandlerOptions{Level: level}))

	options := []gpiosysfs.NewRegistryOption{
		gpiosysfs.WithRoot(cfg.Root),
		gpiosysfs.WithSettleDelay(cfg.SettleDelay),
		gpiosysfs.WithLogger(logger),
	}
	if e.sfs != nil {
		options = append(options, gpiosysfs.WithFS(e.sfs))
	}
	if e.finder != nil {
		options = append(options, gpiosysfs.WithLineFinder(e.finder))
	}
	if cfg.ReleaseOnExit {
		options = append(options, gpiosysfs.WithReleaseOnClose())
	}
	r := gpiosysfs.NewRegistry(options...)
	logger.Debug("registry", "root", r.Root(), "exported", r.Len())

	a := &app{r: r, cfg: cfg, out: e.stdout}
	err := a.run(fs.Arg(0), fs.Args()[1:])
	if cerr := r.Close(); err == nil {
		err = cerr
	}
	return err
}
