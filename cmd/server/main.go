package main

import (
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"time"

	"connectrpc.com/connect"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/net/http2"
	"golang.org/x/net/http2/h2c"

	"github.com/mmynk/lendingledger/internal/calculator"
	"github.com/mmynk/lendingledger/internal/config"
	"github.com/mmynk/lendingledger/internal/ledger"
	"github.com/mmynk/lendingledger/internal/metrics"
	"github.com/mmynk/lendingledger/internal/registry"
	"github.com/mmynk/lendingledger/internal/service"
	"github.com/mmynk/lendingledger/internal/storage/sqlite"
	"github.com/mmynk/lendingledger/pkg/logging"
)

func main() {
	configPath := flag.String("config", config.ConfigPath, "path to the YAML config file")
	issueFor := flag.String("issue-token", "", "print a librarian token for the named librarian and exit")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		logging.Setup()
		slog.Error("Failed to load config", "error", err)
		os.Exit(1)
	}
	logging.SetupWithLevel(logging.ParseLevel(cfg.LogLevel))

	if *issueFor != "" {
		if err := issueToken(cfg, *issueFor, os.Stdout); err != nil {
			slog.Error("Failed to issue token", "librarian", *issueFor, "error", err)
			os.Exit(1)
		}
		return
	}

	// Initialize SQLite storage
	store, err := sqlite.New(cfg.DBPath)
	if err != nil {
		slog.Error("Failed to initialize storage", "error", err)
		os.Exit(1)
	}
	defer store.Close()
	slog.Info("Storage initialized", "database", cfg.DBPath)

	fines, err := calculator.NewFinePolicy(cfg.FinePerDay)
	if err != nil {
		slog.Error("Invalid fine policy", "error", err)
		os.Exit(1)
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	l := ledger.New(store,
		ledger.WithFinePolicy(fines),
		ledger.WithRecorder(metrics.New(reg)),
		ledger.WithLogger(slog.Default()),
	)
	users := registry.New(cfg.RegistryPath)
	slog.Info("User registry", "path", cfg.RegistryPath)

	interceptors := newInterceptors(cfg)

	mux := http.NewServeMux()

	// Register Connect service
	path, handler := service.NewLedgerServiceHandler(
		service.NewLedgerService(l, users),
		connect.WithInterceptors(interceptors...),
	)
	mux.Handle(path, handler)
	mux.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{Registry: reg}))

	// Wrap with h2c for HTTP/2 without TLS (required for Connect)
	h2cHandler := h2c.NewHandler(mux, &http2.Server{})

	addr := fmt.Sprintf(":%d", cfg.Port)
	slog.Info("Connect server starting", "address", addr, "url", fmt.Sprintf("http://localhost%s", addr))
	srv := &http.Server{
		Addr:              addr,
		Handler:           h2cHandler,
		ReadHeaderTimeout: 10 * time.Second,
	}
	if err := srv.ListenAndServe(); err != nil {
		slog.Error("Server failed", "error", err)
		os.Exit(1)
	}
}
