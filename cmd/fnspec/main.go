package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/toyz/fnspec/internal/cli"
	"github.com/toyz/fnspec/internal/server"
	"github.com/toyz/fnspec/internal/utils"
	"github.com/toyz/fnspec/pkg/specs/builder"
)

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	flags := flag.NewFlagSet("fnspec", flag.ContinueOnError)

	var (
		catalogFlag = flags.String("catalog", "", "YAML catalog of named definitions to parse")
		jsonFlag    = flags.Bool("json", false, "Write results as JSON to stdout")
		verboseFlag = flags.Bool("verbose", false, "Enable verbose output and detailed error reporting")
		quietFlag   = flags.Bool("quiet", false, "Only show errors")
		serveFlag   = flags.Bool("serve", false, "Run the HTTP parse service instead of parsing arguments")
		addrFlag    = flags.String("addr", server.DefaultConfig().Addr, "Listen address for -serve")
		adapterFlag = flags.String("adapter", server.AdapterEcho, "Web server adapter for -serve (echo, gin, or fiber)")
		devFlag     = flags.Bool("dev", false, "Use development logging for -serve")
		helpFlag    = flags.Bool("help", false, "Show help information")
	)

	flags.Usage = func() {
		out := flags.Output()
		fmt.Fprintf(out, "Usage: fnspec [options] <definition...>\n\n")
		fmt.Fprintf(out, "Parses native function signature definitions and reports their structure.\n\n")
		fmt.Fprintf(out, "Options:\n")
		flags.PrintDefaults()
		fmt.Fprintf(out, "\nArguments:\n")
		fmt.Fprintf(out, "  definition    A definition such as '@cache (key: string): any'; '-' reads stdin\n")
		fmt.Fprintf(out, "\nExamples:\n")
		fmt.Fprintf(out, "  fnspec '(name: string, ...rest: any): void'\n")
		fmt.Fprintf(out, "  fnspec -json -catalog functions.yaml\n")
		fmt.Fprintf(out, "  echo '(): any' | fnspec -\n")
		fmt.Fprintf(out, "  fnspec -serve -adapter gin -addr :9000\n")
	}

	if err := flags.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return 0
		}
		return 2
	}

	if *helpFlag {
		flags.SetOutput(os.Stdout)
		flags.Usage()
		return 0
	}

	var diagnostics *utils.DiagnosticSystem
	switch {
	case *quietFlag:
		diagnostics = utils.NewQuietDiagnostics()
	case *verboseFlag:
		diagnostics = utils.NewVerboseDiagnostics()
	default:
		diagnostics = utils.NewDiagnosticSystem(utils.DiagnosticInfo)
	}

	if *serveFlag {
		cfg := server.DefaultConfig()
		cfg.Addr = *addrFlag
		cfg.Adapter = *adapterFlag
		cfg.Development = *devFlag
		cfg.CatalogPath = *catalogFlag
		if err := cfg.Validate(); err != nil {
			diagnostics.Error("%v", err)
			return 2
		}
		return serve(cfg, diagnostics)
	}

	config := cli.Config{
		Definitions: flags.Args(),
		CatalogPath: *catalogFlag,
		JSON:        *jsonFlag,
		Verbose:     *verboseFlag,
	}
	if len(config.Definitions) == 0 && config.CatalogPath == "" {
		fmt.Fprintf(os.Stderr, "Error: at least one definition or -catalog is required\n\n")
		flags.Usage()
		return 2
	}

	runner := cli.NewRunner(config, builder.New(), diagnostics)
	if _, err := runner.Run(); err != nil {
		if !errors.Is(err, cli.ErrDefinitionsFailed) {
			diagnostics.Error("%v", err)
		}
		return 1
	}
	return 0
}

func serve(cfg server.Config, diagnostics *utils.DiagnosticSystem) int {
	diagnostics.Header(fmt.Sprintf("serving on %s with %s", cfg.Addr, cfg.Adapter))

	app := server.NewApp(cfg)
	if err := app.Err(); err != nil {
		diagnostics.Error("Failed to build application: %v", err)
		return 1
	}

	startCtx, cancel := context.WithTimeout(context.Background(), app.StartTimeout())
	defer cancel()
	if err := app.Start(startCtx); err != nil {
		diagnostics.Error("Failed to start application: %v", err)
		return 1
	}

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	exitCode := 0
	select {
	case <-sigChan:
		diagnostics.Info("Received shutdown signal")
	case sig := <-app.Wait():
		exitCode = sig.ExitCode
	}

	stopCtx, stopCancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer stopCancel()
	if err := app.Stop(stopCtx); err != nil {
		diagnostics.Error("Failed to stop application: %v", err)
		return 1
	}
	return exitCode
}
