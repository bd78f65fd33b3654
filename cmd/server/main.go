package main

import (
	"flag"
	"log"
	"net/http"

	"github.com/mohammad-meeta/skaters/internal/config"
	"github.com/mohammad-meeta/skaters/internal/progress"
	"github.com/mohammad-meeta/skaters/internal/ws"
)

func main() {
	configPath := flag.String("config", "config.yaml", "Path to config file")
	port := flag.Int("port", 0, "Override server port")
	stateDir := flag.String("state-dir", "", "Override state directory")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	if *port > 0 {
		cfg.Server.Port = *port
	}
	if *stateDir != "" {
		cfg.Storage.Dir = *stateDir
	}

	mult, err := cfg.Multipliers()
	if err != nil {
		log.Fatalf("Invalid points config: %v", err)
	}

	shop := progress.NewShop()
	store := progress.NewStore(cfg.Storage.Dir, mult)
	tracker, err := progress.NewTracker(store, shop, mult)
	if err != nil {
		log.Fatalf("Failed to load state: %v", err)
	}
	log.Printf("State loaded from %s", store.Path())

	broadcaster := ws.NewBroadcaster()
	tracker.OnChange(broadcaster.Broadcast)

	server := ws.NewServer(tracker, broadcaster, cfg.Server.AllowedOrigins, cfg.Server.AuthToken)

	mux := http.NewServeMux()
	server.SetupRoutes(mux)

	if err := ws.ListenAndServe(cfg.Server.Host, cfg.Server.Port, mux); err != nil {
		log.Fatalf("Server error: %v", err)
	}
}
