// Command corella is a UCI-compliant chess engine. It reads commands
// from stdin and writes UCI responses to stdout; all diagnostics go
// to stderr through the applog package so the two streams never mix.
package main

import (
	"bufio"
	"flag"
	"fmt"
	"os"

	"github.com/pkg/profile"

	"github.com/corella-engine/corella/internal/applog"
	"github.com/corella-engine/corella/internal/config"
	"github.com/corella-engine/corella/uci"
)

var (
	configPath  = flag.String("config", "", "path to a TOML configuration file")
	profileMode = flag.String("profile", "", "enable profiling: cpu, mem, or block")
)

func main() {
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "corella: failed to load config %q: %v\n", *configPath, err)
		os.Exit(1)
	}
	applog.SetLevel(cfg.LogLevel)

	if stop := startProfile(*profileMode); stop != nil {
		defer stop.Stop()
	}

	handler := uci.New(os.Stdout, cfg.HashMB)

	scanner := bufio.NewScanner(os.Stdin)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		line := scanner.Text()
		if err := handler.Execute(line); err != nil {
			if err == uci.ErrQuit {
				return
			}
			applog.Log.Errorf("command %q: %v", line, err)
		}
	}
	if err := scanner.Err(); err != nil {
		applog.Log.Errorf("stdin: %v", err)
	}
}

func startProfile(mode string) interface{ Stop() } {
	switch mode {
	case "":
		return nil
	case "cpu":
		return profile.Start(profile.CPUProfile, profile.ProfilePath("."))
	case "mem":
		return profile.Start(profile.MemProfile, profile.ProfilePath("."))
	case "block":
		return profile.Start(profile.BlockProfile, profile.ProfilePath("."))
	default:
		fmt.Fprintf(os.Stderr, "corella: unknown profile mode %q, ignoring\n", mode)
		return nil
	}
}
