package main

import (
	"os"

	"sjsage522/newsworker/logger"

	"github.com/joho/godotenv"
)

func main() {
	// Load environment variables
	godotenv.Load()

	// Initialize logger first
	logger.Init()

	if err := newRootCommand().Execute(); err != nil {
		logger.Default.Error().Err(err).Msg("Command failed")
		os.Exit(1)
	}
}
