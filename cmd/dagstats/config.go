package main

import (
	"os"

	flags "github.com/jessevdk/go-flags"
	"github.com/pkg/errors"

	"github.com/latticenet/latticed/dagconfig"
)

const (
	defaultDataDir  = "latticed-data"
	defaultLogLevel = "info"
)

// ConfigFlags defines the configuration options for dagstats.
type ConfigFlags struct {
	DataDir  string `short:"b" long:"datadir" description:"Location of the latticed data directory"`
	Order    string `long:"order" description:"Print the total order rooted at the given block hash"`
	LogLevel string `short:"d" long:"loglevel" description:"Logging level {trace, debug, info, warn, error, critical}"`
	Simnet   bool   `long:"simnet" description:"Use the simulation network parameters"`

	activeParams *dagconfig.Params
}

// loadConfig initializes and parses the config using command line
// options.
func loadConfig() (*ConfigFlags, error) {
	cfg := &ConfigFlags{
		DataDir:  defaultDataDir,
		LogLevel: defaultLogLevel,
	}

	parser := flags.NewParser(cfg, flags.Default)
	_, err := parser.Parse()
	if err != nil {
		var flagsErr *flags.Error
		if ok := errors.As(err, &flagsErr); !ok || flagsErr.Type != flags.ErrHelp {
			parser.WriteHelp(os.Stderr)
		}
		return nil, err
	}

	cfg.activeParams = &dagconfig.MainnetParams
	if cfg.Simnet {
		cfg.activeParams = &dagconfig.SimnetParams
	}

	return cfg, nil
}
