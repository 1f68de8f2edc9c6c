package cli

import (
	"flag"
	"time"
)

// CommonFlags are shared by every bundler subcommand
type CommonFlags struct {
	ConfigPath string
	Products   string
	Brands     string
	Database   string
	Verbose    bool
}

func (c *CommonFlags) register(fs *flag.FlagSet) {
	fs.StringVar(&c.ConfigPath, "config", "config.yaml", "Configuration file path")
	fs.StringVar(&c.Products, "products", "", "Override catalog.products_path")
	fs.StringVar(&c.Brands, "brands", "", "Override catalog.brands_path")
	fs.StringVar(&c.Database, "db", "", "Override storage.database_path")
	fs.BoolVar(&c.Verbose, "verbose", false, "Verbose output")
}

// BuildFlags are the flags of the build subcommand
type BuildFlags struct {
	CommonFlags
	DryRun bool
	JSON   bool
}

// ParseBuildFlags parses build flags from args
func ParseBuildFlags(args []string) (*BuildFlags, error) {
	flags := &BuildFlags{}
	fs := flag.NewFlagSet("build", flag.ContinueOnError)
	flags.register(fs)
	fs.BoolVar(&flags.DryRun, "dry-run", false, "Build without persisting")
	fs.BoolVar(&flags.JSON, "json", false, "Print the snapshot as JSON")
	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	return flags, nil
}

// ServeFlags holds the CLI flags for the serve command.
type ServeFlags struct {
	CommonFlags
	Port  int
	Watch time.Duration
}

// ParseServeFlags parses command line flags for the serve command.
func ParseServeFlags(args []string) (*ServeFlags, error) {
	flags := &ServeFlags{}
	fs := flag.NewFlagSet("serve", flag.ContinueOnError)
	flags.register(fs)
	fs.IntVar(&flags.Port, "port", 0, "Port to listen on (0 = api.port from config)")
	fs.DurationVar(&flags.Watch, "watch", 0, "Poll the catalog files for changes at this interval (0 = off)")
	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	return flags, nil
}
