package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/latticenet/latticed/blockdag"
	"github.com/latticenet/latticed/infrastructure/db/dbaccess"
	"github.com/latticenet/latticed/infrastructure/logger"
	"github.com/latticenet/latticed/util/daghash"
	"github.com/latticenet/latticed/util/panics"
)

var log = logger.RegisterSubSystem("DGST")

func initLog(cfg *ConfigFlags) error {
	backend := logger.NewBackend()
	backend.AddLogWriter(logger.NopCloser(os.Stdout), logger.LevelInfo)
	err := backend.AddLogFile(filepath.Join(cfg.DataDir, "logs", "dagstats.log"), logger.LevelTrace)
	if err != nil {
		return err
	}
	logger.InitBackend(backend)

	level, ok := logger.LevelFromString(cfg.LogLevel)
	if !ok {
		return fmt.Errorf("invalid log level %q", cfg.LogLevel)
	}
	logger.SetLogLevels(level)
	return nil
}

// realMain is the real main function for dagstats. It is necessary to work
// around the fact that deferred functions do not run when os.Exit() is called.
func realMain() error {
	defer panics.HandlePanic(log, nil)

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	err = initLog(cfg)
	if err != nil {
		return err
	}

	log.Infof("Loading database from %s", cfg.DataDir)
	databaseContext, err := dbaccess.New(filepath.Join(cfg.DataDir, cfg.activeParams.Name))
	if err != nil {
		return err
	}
	defer func() {
		closeErr := databaseContext.Close()
		if closeErr != nil {
			log.Errorf("Failed to close the database: %s", closeErr)
		}
	}()

	dag, err := blockdag.New(&blockdag.Config{
		Params:          cfg.activeParams,
		DatabaseContext: databaseContext,
	})
	if err != nil {
		return err
	}

	if cfg.Order != "" {
		return printOrder(dag, cfg.Order)
	}
	return printStats(dag)
}

func printStats(dag *blockdag.BlockDAG) error {
	selectedTipHash := dag.SelectedTipHash()
	selectedTipBlueScore, err := dag.BlueScore(selectedTipHash)
	if err != nil {
		return err
	}

	fmt.Printf("Blocks:              %d\n", dag.BlockCount())
	fmt.Printf("Tips:                %s\n", daghash.Strings(dag.TipHashes()))
	fmt.Printf("Selected tip:        %s\n", selectedTipHash)
	fmt.Printf("Selected blue score: %d\n", selectedTipBlueScore)
	fmt.Printf("Finality point:      %s\n", dag.LastFinalityPointHash())
	return nil
}

func printOrder(dag *blockdag.BlockDAG, orderHashStr string) error {
	targetHash, err := daghash.NewHashFromStr(orderHashStr)
	if err != nil {
		return err
	}
	order, err := dag.TotalOrder(targetHash)
	if err != nil {
		return err
	}
	for i, hash := range order {
		blueScore, err := dag.BlueScore(hash)
		if err != nil {
			return err
		}
		fmt.Printf("%6d %s (blue score %d)\n", i, hash, blueScore)
	}
	return nil
}

func main() {
	err := realMain()
	if err != nil {
		fmt.Fprintf(os.Stderr, "dagstats: %s\n", err)
		os.Exit(1)
	}
}
