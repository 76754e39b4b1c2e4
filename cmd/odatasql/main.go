package main

import (
	"encoding/json"
	"fmt"
	"log"
	"os"

	"github.com/jessevdk/go-flags"
	"golang.org/x/term"

	"github.com/odatasql/odatasql"
	"github.com/odatasql/odatasql/internal/config"
	"github.com/odatasql/odatasql/internal/debugfmt"
)

var version string

type cliOptions struct {
	Dialect      string `short:"d" long:"dialect" description:"Target SQL dialect (default: ansi)" value-name:"name"`
	Table        string `short:"t" long:"table" description:"Table or entity-set name, when the argument has no resource path" value-name:"name"`
	Config       string `short:"c" long:"config" description:"YAML config file with dialect/limits overrides" value-name:"path"`
	NoParameters bool   `long:"no-parameters" description:"Inline literals as quoted SQL text instead of binding them"`
	Debug        bool   `long:"debug" description:"Pretty-print the compiled result instead of printing JSON"`
	Help         bool   `long:"help" description:"Show this help"`
	Version      bool   `long:"version" description:"Show this version"`
}

// parseArgs parses argv into the CLI flags, the URI/query-string argument,
// and a resolved odatasql.Options, following the teacher's own
// flags.NewParser convention.
func parseArgs(args []string) (cliOptions, string, odatasql.Options) {
	var opts cliOptions
	parser := flags.NewParser(&opts, flags.None)
	parser.Usage = "[option...] uri-or-query-string"
	rest, err := parser.ParseArgs(args)
	if err != nil {
		log.Fatal(err)
	}

	if opts.Help {
		parser.WriteHelp(os.Stdout)
		os.Exit(0)
	}
	if opts.Version {
		fmt.Println(version)
		os.Exit(0)
	}
	if len(rest) != 1 {
		fmt.Print("Exactly one URI or query-option string is required!\n\n")
		parser.WriteHelp(os.Stdout)
		os.Exit(1)
	}

	compileOpts := odatasql.DefaultOptions()
	if opts.Config != "" {
		resolved, err := config.Load(opts.Config)
		if err != nil {
			log.Fatal(err)
		}
		compileOpts.Dialect = resolved.Dialect
		compileOpts.UseParameters = resolved.UseParameters
		compileOpts.Limits = resolved.Limits
	}
	if opts.Dialect != "" {
		compileOpts.Dialect = opts.Dialect
	}
	if opts.NoParameters {
		compileOpts.UseParameters = false
	}

	return opts, rest[0], compileOpts
}

func main() {
	debugfmt.SetColor(term.IsTerminal(int(os.Stdout.Fd())))

	opts, arg, compileOpts := parseArgs(os.Args[1:])

	var result any
	var err error
	if opts.Table != "" {
		result, err = odatasql.RenderQuery(opts.Table, arg, compileOpts)
	} else {
		result, err = odatasql.CreateQuery(arg, compileOpts)
	}
	if err != nil {
		log.Fatal(err)
	}

	if opts.Debug {
		debugfmt.Println(result)
		return
	}
	out, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		log.Fatal(err)
	}
	fmt.Println(string(out))
}
