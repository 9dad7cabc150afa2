package main

import (
	"flag"
	"fmt"
	"io"
	"time"
)

type options struct {
	input      string
	configPath string
	mode       string
	tick       time.Duration
	steps      int
	maxSteps   int
	headless   bool
	logLevel   string
	logFormat  string
	logFile    string
	pngPath    string
	txtPath    string
	set        map[string]bool
}

// parseFlags returns flag.ErrHelp when usage was requested.
func parseFlags(args []string, output io.Writer) (*options, error) {
	flagSet := flag.NewFlagSet("sandfall", flag.ContinueOnError)
	flagSet.SetOutput(output)
	flagSet.Usage = func() {
		fmt.Fprint(output, `
sandfall - falling sand on rock formations.

Usage:
  sandfall [options] [INPUT]

Arguments:
  INPUT
    Scene file with one "x,y -> x,y -> ..." path per line (default input.txt).

Options:
`)
		flagSet.PrintDefaults()
	}

	opts := &options{set: make(map[string]bool)}
	flagSet.StringVar(&opts.configPath, "config", "", "Path to the YAML config file (default ~/"+configFileName+").")
	flagSet.StringVar(&opts.mode, "mode", "", "Simulation mode: 'void' (grains fall out) or 'floor'.")
	flagSet.DurationVar(&opts.tick, "tick", 0, "Delay between simulation ticks, e.g. 20ms.")
	flagSet.IntVar(&opts.steps, "steps", 0, "Simulation steps per tick.")
	flagSet.IntVar(&opts.maxSteps, "max-steps", 0, "Headless only: stop after this many steps. 0 is unlimited.")
	flagSet.BoolVar(&opts.headless, "headless", false, "Run to the end without the terminal UI and print the result.")
	flagSet.StringVar(&opts.logLevel, "log-level", "", "Logging level: 'debug', 'info', 'warn', 'error'.")
	flagSet.StringVar(&opts.logFormat, "log-format", "", "Log output format: 'text' or 'json'.")
	flagSet.StringVar(&opts.logFile, "log-file", "", "Append logs to this file.")
	flagSet.StringVar(&opts.pngPath, "png", "", "Headless only: write the final frame as a PNG image.")
	flagSet.StringVar(&opts.txtPath, "txt", "", "Headless only: write the final frame as text.")

	if err := flagSet.Parse(args); err != nil {
		return nil, err
	}
	flagSet.Visit(func(f *flag.Flag) { opts.set[f.Name] = true })

	opts.input = defaultInput
	if flagSet.NArg() > 0 {
		opts.input = flagSet.Arg(0)
	}
	return opts, nil
}

// apply lets explicitly set flags override the config file.
func (o *options) apply(c *Config) error {
	if o.set["mode"] {
		c.Mode = o.mode
	}
	if o.set["tick"] {
		c.TickMs = int(o.tick / time.Millisecond)
	}
	if o.set["steps"] {
		c.StepsPerTick = o.steps
	}
	if o.set["log-level"] {
		c.LogLevel = o.logLevel
	}
	if o.set["log-format"] {
		c.LogFormat = o.logFormat
	}
	if o.set["log-file"] {
		c.LogFile = o.logFile
	}
	return c.validate()
}
