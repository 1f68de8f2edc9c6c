package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/eshaffer321/bundlebuilder/internal/cli"
)

const usage = `Usage: bundler <command> [flags]

Commands:
  build   Load the catalog, build every collection and print the result
  serve   Build, then serve the bundle API

Run "bundler <command> -h" for command flags.
`

func main() {
	if len(os.Args) < 2 {
		fmt.Fprint(os.Stderr, usage)
		os.Exit(2)
	}

	var err error
	switch os.Args[1] {
	case "build":
		var flags *cli.BuildFlags
		flags, err = cli.ParseBuildFlags(os.Args[2:])
		if err == nil {
			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			err = cli.RunBuild(ctx, flags, os.Stdout)
			stop()
		}
	case "serve":
		var flags *cli.ServeFlags
		flags, err = cli.ParseServeFlags(os.Args[2:])
		if err == nil {
			err = cli.RunServe(flags)
		}
	case "-h", "--help", "help":
		fmt.Fprint(os.Stdout, usage)
		return
	default:
		fmt.Fprintf(os.Stderr, "unknown command %q\n\n%s", os.Args[1], usage)
		os.Exit(2)
	}

	if err != nil {
		fmt.Fprintf(os.Stderr, "bundler: %v\n", err)
		os.Exit(1)
	}
}
