package main

import (
	"os"

	"github.com/gradlink/alumni/internal/pkg/logger"
	"github.com/gradlink/alumni/internal/server"
)

// @title GradLink API
// @version 1.0
// @description API for the GradLink alumni networking platform: directory, connections, mentorship, events, jobs, community feed and messaging
// @termsOfService http://swagger.io/terms/

// @contact.name API Support
// @contact.email support@gradlink.example

// @license.name MIT
// @license.url https://opensource.org/licenses/MIT

// @host localhost:8080
// @BasePath /api/v1
// @schemes http https

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description JWT access token, optionally prefixed with "Bearer "

func main() {
	srv, err := server.NewServer()
	if err != nil {
		// setup functions log the details
		logger.Error().Err(err).Msg("Failed to initialize server")
		os.Exit(1)
	}

	if err := srv.Run(); err != nil {
		logger.Error().Err(err).Msg("Server execution failed or shutdown encountered errors")
		os.Exit(1)
	}

	logger.Info().Msg("Application finished gracefully.")
}
