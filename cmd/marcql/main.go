// Command marcql runs a query against a MARC 21 file: one positional
// argument (the query text), exiting 0 on success and non-zero with a
// human-readable error on stderr otherwise.
package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/adrianN/marcql/engine"
	"github.com/adrianN/marcql/internal/slogutil"
	"github.com/jessevdk/go-flags"
	"github.com/k0kubun/pp/v3"
)

var version string

type options struct {
	TableDir    string `long:"table-dir" description:"Directory holding <table>.mrc files" value-name:"dir" default:"."`
	ScratchSize int    `long:"scratch-size" description:"Scratch buffer size in bytes" value-name:"bytes"`
	Config      string `long:"config" description:"TOML config file (table_dir, scratch_bytes)" value-name:"path"`
	Explain     bool   `long:"explain" description:"Print the compiled filter/projection tree instead of running the query"`
	Count       bool   `long:"count" description:"Print only the number of matching records"`
	Verbose     bool   `long:"verbose" description:"Log per-batch progress to stderr"`
	LogLevel    string `long:"log-level" description:"debug, info, warn, or error" value-name:"level"`
	Help        bool   `long:"help" description:"Show this help"`
	Version     bool   `long:"version" description:"Show this version"`
}

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func run(args []string, stdout, stderr *os.File) int {
	var opts options
	parser := flags.NewParser(&opts, flags.None)
	parser.Usage = "[options] 'select ... from ... where ...'"
	remaining, err := parser.ParseArgs(args)
	if err != nil {
		fmt.Fprintln(stderr, err)
		return 1
	}
	if opts.Help {
		parser.WriteHelp(stdout)
		return 0
	}
	if opts.Version {
		fmt.Fprintln(stdout, version)
		return 0
	}
	if opts.LogLevel != "" {
		os.Setenv(slogutil.EnvVar, opts.LogLevel)
	}
	slogutil.Init()

	if len(remaining) != 1 {
		fmt.Fprintln(stderr, "marcql: expected exactly one argument, the query text")
		return 1
	}
	query := remaining[0]

	cfg := engine.Config{TableDir: opts.TableDir, ScratchBytes: opts.ScratchSize}
	if opts.Config != "" {
		cfg, err = engine.LoadConfig(opts.Config)
		if err != nil {
			fmt.Fprintln(stderr, err)
			return 1
		}
		if opts.TableDir != "." {
			cfg.TableDir = opts.TableDir
		}
		if opts.ScratchSize != 0 {
			cfg.ScratchBytes = opts.ScratchSize
		}
	}

	compiled, err := engine.Compile(query)
	if err != nil {
		fmt.Fprintln(stderr, err)
		return 1
	}

	if opts.Explain {
		fmt.Fprintln(stdout, pp.Sprint(compiled))
		return 0
	}

	driver := engine.New(engine.NewDirTableResolver(cfg), cfg.ScratchSize())
	if opts.Verbose {
		// slog writes to stderr, so progress composes with record
		// output on stdout in every mode.
		driver.Progress = func(s engine.BatchStats) {
			slog.Info("batch",
				"table", s.Table,
				"records", s.Records,
				"matched", s.Matched,
				"emitted", s.Emitted)
		}
	}

	if opts.Count {
		sink := &engine.CountingSink{}
		if err := driver.RunCompiled(compiled, sink); err != nil {
			fmt.Fprintln(stderr, err)
			return 1
		}
		fmt.Fprintln(stdout, sink.Count)
		return 0
	}

	sink := engine.NewWriterSink(stdout)
	if err := driver.RunCompiled(compiled, sink); err != nil {
		fmt.Fprintln(stderr, err)
		return 1
	}
	return 0
}
