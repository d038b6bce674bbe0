package main

import (
	"flag"
	"fmt"
	"os"

	"mapedit/config"
)

func main() {
	// Define command line flags
	var (
		configPath  = flag.String("config", "", "YAML config file (optional)")
		baseURL     = flag.String("base-url", "", "Backend base URL (overrides config and MAPEDIT_BASE_URL)")
		mapID       = flag.String("map", "", "Map id to edit (overrides config and MAPEDIT_MAP_ID)")
		logLevel    = flag.String("log-level", "", "Log level: trace, debug, info, warn, error")
		logFile     = flag.String("log-file", "", "Log file; the terminal owns stdout")
		metricsAddr = flag.String("metrics-addr", "", "Serve /metrics and /healthz on this address")
		clickMode   = flag.String("click-mode", "", "Click mapping: manual or native")
		timeout     = flag.Duration("timeout", 0, "Per request timeout (e.g. 5s)")
		help        = flag.Bool("help", false, "Show help")
	)

	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: %s [options] [map-id]\n\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "Terminal editor for the start/end points and obstacles of a path planning map.\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		flag.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nExamples:\n")
		fmt.Fprintf(os.Stderr, "  %s warehouse-1                              # Edit a map on the default backend\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "  %s -base-url http://planner:5000 floor-2    # Edit a map on another backend\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "  %s -config mapedit.yaml -click-mode native\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "  %s -metrics-addr :9100 -log-level debug warehouse-1\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "\nInteractive Mode Commands:\n")
		fmt.Fprintf(os.Stderr, "  s / e / o   # Place the start point, the end point, draw an obstacle\n")
		fmt.Fprintf(os.Stderr, "  Tab x r     # Select a point, delete it, rename it\n")
		fmt.Fprintf(os.Stderr, "  R ? q       # Reload the map, show help, quit\n")
	}

	flag.Parse()

	if *help {
		flag.Usage()
		os.Exit(0)
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	// Flags win over the file and the environment
	setIf(&cfg.BaseURL, *baseURL)
	setIf(&cfg.MapID, *mapID)
	setIf(&cfg.LogLevel, *logLevel)
	setIf(&cfg.LogFile, *logFile)
	setIf(&cfg.MetricsAddr, *metricsAddr)
	setIf(&cfg.ClickMode, *clickMode)
	if *timeout > 0 {
		cfg.RequestTimeout = *timeout
	}
	if args := flag.Args(); len(args) > 0 {
		cfg.MapID = args[0]
	}

	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: invalid configuration:\n%v\n\n", err)
		flag.Usage()
		os.Exit(2)
	}

	if err := RunInteractive(cfg); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func setIf(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}
