package main

import (
	"os"

	"github.com/joho/godotenv"

	"interview-ingest-go/internal/logger"
)

func main() {
	_ = godotenv.Load() // loads .env

	if err := newRootCommand().Execute(); err != nil {
		logger.New().WithError(err).Error("run failed")
		os.Exit(1)
	}
}
