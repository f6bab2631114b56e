// Command storegen generates repository implementations for the types of one
// package that carry //store: directives. It is meant to be run through
// go generate:
//
//	//go:generate go run github.com/likearthian/storegen/cmd/storegen
package main

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/fatih/color"
	flag "github.com/spf13/pflag"

	"github.com/likearthian/storegen/gen"
)

type options struct {
	dir        string
	output     string
	configPath string
	verbose    bool
	dryRun     bool
	noColor    bool
}

func main() {
	if err := run(os.Args[1:], os.Stdout, os.Stderr); err != nil {
		color.New(color.FgRed, color.Bold).Fprint(os.Stderr, "storegen: ")
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func parseFlags(args []string, stderr io.Writer) (*flag.FlagSet, options, error) {
	var opts options
	fs := flag.NewFlagSet("storegen", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.StringVarP(&opts.dir, "dir", "d", ".", "Package directory to scan")
	fs.StringVarP(&opts.output, "output", "o", gen.DefaultOutput, "Generated file name, relative to --dir")
	fs.StringVarP(&opts.configPath, "config", "c", "", "Optional YAML config file")
	fs.BoolVarP(&opts.verbose, "verbose", "v", false, "Enable debug logging")
	fs.BoolVar(&opts.dryRun, "dry-run", false, "Print generated code to stdout instead of writing it")
	fs.BoolVar(&opts.noColor, "no-color", false, "Disable colored output")

	fs.Usage = func() {
		fmt.Fprintf(stderr, `Usage: storegen [options]

Generates CRUD repositories for types annotated with //store: directives.

Options:
`)
		fs.PrintDefaults()
	}

	err := fs.Parse(args)
	return fs, opts, err
}

func loadConfig(fs *flag.FlagSet, opts options) (gen.Config, error) {
	cfg := gen.DefaultConfig()
	if opts.configPath != "" {
		loaded, err := gen.LoadConfig(opts.configPath)
		if err != nil {
			return cfg, err
		}
		cfg = loaded
	}

	if fs.Changed("output") || opts.configPath == "" {
		cfg.Output = opts.output
	}

	return cfg, nil
}

func run(args []string, stdout, stderr io.Writer) error {
	fs, opts, err := parseFlags(args, stderr)
	if errors.Is(err, flag.ErrHelp) {
		return nil
	}
	if err != nil {
		return err
	}

	if opts.noColor {
		color.NoColor = true
	}

	level := slog.LevelInfo
	if opts.verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: level}))

	cfg, err := loadConfig(fs, opts)
	if err != nil {
		return err
	}

	g := gen.NewGenerator(cfg, logger)
	if opts.dryRun {
		src, err := g.Generate(opts.dir)
		if err != nil {
			return err
		}
		_, err = stdout.Write(src)
		return err
	}

	out, err := g.Write(opts.dir)
	if err != nil {
		return err
	}
	if out != "" {
		color.New(color.FgGreen).Fprintf(stdout, "wrote %s\n", out)
	}

	return nil
}
