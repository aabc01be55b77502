package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/idlewatcher/idlewatcher/pkg/config"
	flag "github.com/spf13/pflag"
)

func main() {
	var (
		timeoutSecs int
		commandLine string
		configPath  string
		help        bool
	)

	flag.IntVarP(&timeoutSecs, "timeout", "t", 3600, "Idle timeout in seconds")
	flag.StringVarP(&commandLine, "command", "c", "", "Command to run when the idle timeout is reached")
	flag.StringVar(&configPath, "config", "", "Path to config file")
	flag.BoolVarP(&help, "help", "h", false, "Show help message")
	flag.Parse()

	if help {
		printUsage()
		os.Exit(0)
	}

	if configPath != "" {
		if err := os.Setenv("IDLEWATCHER_CONFIG", configPath); err != nil {
			fmt.Fprintf(os.Stderr, "Error setting config path: %v\n", err)
			os.Exit(1)
		}
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		os.Exit(1)
	}

	// Flags override the config file and environment.
	if flag.CommandLine.Changed("timeout") {
		cfg.IdleTimeout = time.Duration(timeoutSecs) * time.Second
	}
	if flag.CommandLine.Changed("command") {
		cfg.SetCommandLine(commandLine)
	}
	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	fmt.Fprintf(os.Stderr, "idlewatcher: timeout %v, idle command %s %v\n",
		cfg.IdleTimeout, cfg.Command, cfg.Args)

	deps := NewDependencies(cfg)
	app := NewApplication(deps)

	// The daemon runs until killed; a signal cancels the loop between
	// ticks.
	ctx, cancel := context.WithCancel(context.Background())
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigChan
		cancel()
	}()

	app.Run(ctx)
}

func printUsage() {
	fmt.Println("idlewatcher - run a command once the machine has been idle long enough")
	fmt.Println()
	fmt.Println("Usage: idlewatcher [OPTIONS]")
	fmt.Println()
	fmt.Println("The machine counts as idle when every login session's terminal has been")
	fmt.Println("quiet for the timeout and the Wayland compositor, when one is reachable,")
	fmt.Println("reports the seat idle as well.")
	fmt.Println()
	fmt.Println("Options:")
	flag.PrintDefaults()
	fmt.Println()
	fmt.Println("Environment Variables:")
	fmt.Println("  IDLEWATCHER_TIMEOUT        Idle timeout in seconds")
	fmt.Println("  IDLEWATCHER_COMMAND        Command to run when idle")
	fmt.Println("  IDLEWATCHER_POLL_INTERVAL  Poll interval (default: 5s)")
	fmt.Println("  IDLEWATCHER_DISPLAY        Wayland display name, skips probing")
	fmt.Println("  IDLEWATCHER_SEAT           Restrict idle notifications to one seat")
	fmt.Println("  IDLEWATCHER_CONFIG         Path to config file")
	fmt.Println()
	fmt.Println("Configuration file: ~/.config/idlewatcher/config.yaml")
}
