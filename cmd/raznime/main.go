package main

import (
	"os"

	"github.com/Belphemur/Raznime/internal/config"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		logger := config.GetLogger()
		logger.Error().Err(err).Msg("Raznime exited with an error")
		os.Exit(1)
	}
}
