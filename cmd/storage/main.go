package main

import (
	"context"
	"fmt"
	"net"
	"net/http"

	"github.com/apex/log"
	clihandler "github.com/apex/log/handlers/cli"
	"github.com/spf13/pflag"

	"sigscan/internal/config"
	"sigscan/internal/storage"
)

func main() {
	var configPath string
	pflag.StringVarP(&configPath, "config", "c", "", "Path to the YAML configuration file")
	var port int
	pflag.IntVar(&port, "port", 0, "Port to listen on (0 for random available port)")
	var memory bool
	pflag.BoolVar(&memory, "memory", false, "Load the dumps into memory and serve them by content address")
	var verbose bool
	pflag.BoolVarP(&verbose, "verbose", "V", false, "Verbose output")
	overrides := config.NewOverrides(pflag.CommandLine).DumpFlags()
	pflag.Parse()

	log.SetHandler(clihandler.Default)
	if verbose {
		log.SetLevel(log.DebugLevel)
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		log.WithError(err).Fatal("failed to load configuration")
	}
	if err := overrides.Apply(cfg); err != nil {
		log.WithError(err).Fatal("invalid configuration")
	}
	if cfg.Dumps.Remote != "" {
		log.Fatal("a storage server cannot serve another remote")
	}

	sources, err := cfg.Dumps.Open(context.Background(), nil)
	if err != nil {
		log.WithError(err).Fatal("failed to open dumps")
	}
	if len(sources) != 1 {
		log.Fatalf("expected exactly one dump source, got %d", len(sources))
	}

	var served storage.Storage = sources[0].Storage
	if memory {
		mem, addresses, err := storage.Snapshot(context.Background(), served)
		if err != nil {
			log.WithError(err).Fatal("failed to load dumps into memory")
		}
		for name, address := range addresses {
			log.WithField("address", address).Debug(name)
		}
		log.Infof("loaded %d dumps", len(addresses))
		served = mem
	}

	server := storage.NewStorageServer(served)

	addr := fmt.Sprintf(":%d", port)
	listener, err := net.Listen("tcp", addr)
	if err != nil {
		log.WithError(err).Fatalf("failed to listen on %s", addr)
	}

	actualPort := listener.Addr().(*net.TCPAddr).Port
	log.WithField("source", sources[0].Label).Infof("listening on :%d", actualPort)
	if err := http.Serve(listener, server.Handler()); err != nil {
		log.WithError(err).Fatal("server stopped")
	}
}
