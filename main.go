package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"vacationrental/auth"
	"vacationrental/config"
	"vacationrental/db"
	"vacationrental/handlers"
)

func main() {
	configFlag := flag.String("config", "config.json", "Path to the JSON config file")
	commandFlag := flag.String("command", "start", "Command to run: start | import-clients")
	fileFlag := flag.String("file", "clients.json", "Legacy clients file read by import-clients")
	flag.Parse()

	cfg, err := config.LoadConfig(*configFlag)
	if err != nil {
		log.Fatalf("Error loading config: %v", err)
	}

	logger, err := newLogger(cfg.LogLevel)
	if err != nil {
		log.Fatalf("Error creating logger: %v", err)
	}
	defer logger.Sync()

	if cfg.GeneratedKey {
		logger.Warn("No session key configured. Generated a random key; sessions will be invalidated on restart.")
	}

	store, err := db.Open(cfg.DatabasePath)
	if err != nil {
		logger.Fatal("Error opening database", zap.String("path", cfg.DatabasePath), zap.Error(err))
	}
	defer store.Close()

	switch *commandFlag {
	case "start":
		err = serve(cfg, store, logger)
	case "import-clients":
		err = importClients(store, *fileFlag, logger)
	default:
		logger.Fatal("Unknown command", zap.String("command", *commandFlag))
	}
	if err != nil {
		logger.Fatal("Command failed", zap.String("command", *commandFlag), zap.Error(err))
	}
}

func newLogger(level string) (*zap.Logger, error) {
	lvl, err := zap.ParseAtomicLevel(level)
	if err != nil {
		return nil, err
	}
	zcfg := zap.NewProductionConfig()
	zcfg.Level = lvl
	return zcfg.Build()
}

func serve(cfg *config.Config, store *db.Store, logger *zap.Logger) error {
	app, err := handlers.NewApp(cfg, store, logger)
	if err != nil {
		return err
	}

	handler, err := app.ProtectedHandler()
	if err != nil {
		return err
	}

	srv := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("Server starting", zap.String("addr", srv.Addr), zap.String("app", cfg.AppName))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return err
	case <-quit:
	}

	logger.Info("Shutting down")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(ctx)
}

// importClients loads a legacy clients.json registration file into the
// clients table.
func importClients(store *db.Store, path string, logger *zap.Logger) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}

	var records []auth.LegacyClient
	if err := json.Unmarshal(data, &records); err != nil {
		return err
	}

	imported, skipped, err := auth.NewCredentials(store).Import(context.Background(), records)
	if err != nil {
		return err
	}
	logger.Info("Imported clients", zap.String("file", path), zap.Int("imported", imported), zap.Int("skipped", skipped))
	return nil
}
