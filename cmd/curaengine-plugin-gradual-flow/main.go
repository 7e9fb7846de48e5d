// Command curaengine-plugin-gradual-flow is the standalone worker process:
// it accepts batches of toolpaths over a socket and returns them with
// flow-rate ramps applied, per extruder.
//
// Usage:
//
//	curaengine-plugin-gradual-flow [-address <address>] [-port <port>]
//	curaengine-plugin-gradual-flow -version
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"curaenginegradualflow/internal/adapter"
	"curaenginegradualflow/internal/cmdline"
	"curaenginegradualflow/internal/server"
	"curaenginegradualflow/internal/settings"
)

var (
	address = flag.String("address", cmdline.DefaultAddress(), "The IP address to bind the socket to")
	port    = flag.Int("port", cmdline.DefaultPort(), "The port number to bind the socket to")
	version = flag.Bool("version", false, "Show version")
)

func main() {
	flag.Usage = usage
	flag.Parse()

	if *version {
		fmt.Println(cmdline.VersionString())
		return
	}

	logger := slog.New(slog.NewJSONHandler(os.Stderr, nil))

	if err := run(logger); err != nil {
		logger.Error("fatal", "error", err)
		os.Exit(1)
	}
}

func usage() {
	fmt.Fprintf(os.Stderr, "%s.\n\nUsage:\n", cmdline.Name)
	fmt.Fprintf(os.Stderr, "  curaengine-plugin-gradual-flow [-address <address>] [-port <port>]\n")
	fmt.Fprintf(os.Stderr, "  curaengine-plugin-gradual-flow -version\n\nOptions:\n")
	flag.PrintDefaults()
}

func run(logger *slog.Logger) error {
	transport, err := server.Listen(*address, *port)
	if err != nil {
		return fmt.Errorf("listen on %s:%d: %w", *address, *port, err)
	}
	defer transport.Close()

	identity, err := settings.NewIdentity(cmdline.Name, cmdline.Version)
	if err != nil {
		return fmt.Errorf("identity: %w", err)
	}

	srv := &server.Server{
		Transport: transport,
		Identity:  identity,
		Configs:   adapter.ConfigTable{},
		Trailing:  adapter.NewTrailingFlowStore(),
		Logger:    logger,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger.Info("listening", "address", *address, "port", *port)
	return srv.Serve(ctx)
}
