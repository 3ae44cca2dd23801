package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/ternarybob/arbor"

	"github.com/ternarybob/tabcheck/internal/common"
)

// configPaths is a custom flag type that allows multiple -config flags
type configPaths []string

func (c *configPaths) String() string {
	return fmt.Sprintf("%v", *c)
}

func (c *configPaths) Set(value string) error {
	*c = append(*c, value)
	return nil
}

var (
	configFiles  configPaths // Multiple -config flags supported
	showVersion  = flag.Bool("version", false, "Print version information")
	showVersionV = flag.Bool("v", false, "Print version information (shorthand)")
)

func init() {
	flag.Var(&configFiles, "config", "Configuration file path (can be specified multiple times, later files override earlier ones)")
	flag.Var(&configFiles, "c", "Configuration file path (shorthand)")
}

func printUsage() {
	fmt.Fprintf(os.Stderr, `Usage: tabcheck [flags] <command> [command flags]

Commands:
  audit <url>...   Audit the tab order of one or more pages
  assert           Check which element holds focus on a page
  tabto            Press Tab until a target element holds focus
  history          List stored audit reports
  watch            Run audits on the configured cron schedule
  version          Print full version information

Flags:
`)
	flag.PrintDefaults()
}

func main() {
	flag.Parse()

	if *showVersion || *showVersionV {
		fmt.Printf("Tabcheck version %s\n", common.GetVersion())
		os.Exit(0)
	}

	args := flag.Args()
	if len(args) == 0 {
		printUsage()
		os.Exit(1)
	}

	// Auto-discover config file if not specified
	if len(configFiles) == 0 {
		if _, err := os.Stat("tabcheck.toml"); err == nil {
			configFiles = append(configFiles, "tabcheck.toml")
		}
	}

	// Startup sequence (REQUIRED ORDER):
	// 1. Load config (defaults -> file1 -> file2 -> ... -> env)
	// 2. Initialize logger
	// 3. Print banner
	config, err := common.LoadFromFiles(configFiles...)
	if err != nil {
		// Use temporary logger for startup errors
		tempLogger := arbor.NewLogger()
		tempLogger.Fatal().Strs("paths", configFiles).Err(err).Msg("Failed to load configuration")
		os.Exit(1)
	}

	logger := common.InitLogger(config)
	common.PrintBanner(common.GetVersion())

	logger.Debug().
		Strs("config_files", configFiles).
		Str("log_level", config.Logging.Level).
		Str("badger_path", config.Storage.Badger.Path).
		Msg("Configuration loaded")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	command, rest := args[0], args[1:]

	var cmdErr error
	switch command {
	case "audit":
		cmdErr = runAudit(ctx, config, logger, rest)
	case "assert":
		cmdErr = runAssert(ctx, config, logger, rest)
	case "tabto":
		cmdErr = runTabTo(ctx, config, logger, rest)
	case "history":
		cmdErr = runHistory(ctx, config, logger, rest)
	case "watch":
		cmdErr = runWatch(ctx, config, logger, rest)
	case "version":
		fmt.Println(common.GetFullVersion())
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n\n", command)
		printUsage()
		os.Exit(1)
	}

	if cmdErr != nil {
		logger.Error().Err(cmdErr).Str("command", command).Msg("Command failed")
		os.Exit(1)
	}
}
