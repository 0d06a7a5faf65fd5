package main

import (
	"flag"
	"fmt"
	"net/http"
	"os"
	"time"

	"chatbot/internal/api"
	"chatbot/internal/config"
	"chatbot/internal/credential"
	"chatbot/internal/db"
	"chatbot/internal/gemini"
	"chatbot/internal/logging"
	"chatbot/internal/server"
	"chatbot/internal/store"

	"github.com/sirupsen/logrus"
)

func main() {
	// --- Configuration ---
	configPath := flag.String("config", "config.yaml", "path to the configuration file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		logging.New(config.Default()).Fatalf("Failed to load configuration: %v", err)
	}
	log := logging.New(cfg)

	if err := run(cfg, log); err != nil {
		log.Errorf("Server stopped: %v", err)
		os.Exit(1)
	}
}

// run owns every resource that must be released before the process exits.
func run(cfg *config.Config, log *logrus.Logger) error {
	// --- Storage ---
	var convStore api.ConversationStore
	if cfg.Storage.Path != "" {
		database, err := db.InitDB(cfg.Storage.Path)
		if err != nil {
			return fmt.Errorf("failed to initialize database: %w", err)
		}
		defer db.CloseDB(database)
		convStore = store.NewConversationStore(database)
	} else {
		log.Info("Transcript storage disabled")
	}

	// --- Dependencies ---
	rotator := credential.NewRotator(cfg.Gemini.APIKeys)
	if rotator.Len() == 0 {
		log.Info("No pooled API keys configured, clients must send their own")
	}
	catalog := gemini.NewCatalog(nil, cfg.Gemini.TextModel, cfg.Gemini.VisionModel)
	httpClient := &http.Client{Timeout: 5 * time.Minute}
	adapter := gemini.NewAdapter(gemini.NewClientFactory(httpClient), catalog, log)

	// --- HTTP Server ---
	chatAPI := api.NewChatAPI(adapter, catalog, rotator, convStore, log)
	chatAPI.MaxBodyBytes = cfg.Server.MaxBodyBytes
	srv := server.New(cfg, chatAPI, log)

	return srv.Run()
}
