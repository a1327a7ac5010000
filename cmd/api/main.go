package main

import (
	"context"
	"os"

	"github.com/yigit/lecturehub/internal/pkg/logger"
	"github.com/yigit/lecturehub/internal/server"
)

func main() {
	srv, err := server.NewServer(context.Background())
	if err != nil {
		// Setup functions log the details
		logger.Error().Err(err).Msg("Failed to initialize server")
		os.Exit(1)
	}

	// Blocks until a shutdown signal arrives
	if err := srv.Run(); err != nil {
		logger.Error().Err(err).Msg("Server execution failed or shutdown encountered errors")
		os.Exit(1)
	}

	logger.Info().Msg("Application finished gracefully.")
}
