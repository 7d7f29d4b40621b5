package main

import (
	"log"

	"github.com/joho/godotenv"

	"quill/internal/cli"
	"quill/internal/config"
	"quill/internal/logger"
)

func main() {
	// .env is optional; API keys may come from the real environment
	_ = godotenv.Load()

	cfg, err := config.Load("")
	if err != nil {
		log.Fatalf("Fatal Error: Could not load configuration: %v", err)
	}

	if err := logger.Init(cfg.LogFile); err != nil {
		log.Fatalf("Fatal Error: Could not initialize logger: %v", err)
	}

	cli.Execute(cfg)
}
