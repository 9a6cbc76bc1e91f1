// batchdeck is a terminal browser for OpenAI-compatible batch jobs and their
// input/output files.
package main

import (
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/joho/godotenv"

	"batchdeck/internal/config"
)

func main() {
	// Optional .env in the working directory, for BATCHDECK_BASE_URL and
	// friends. Missing files are fine.
	_ = godotenv.Load()

	if err := initLogger(); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: failed to initialize logger: %v\n", err)
	}

	if _, err := config.EnsureCredentials(); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: failed to seed credential store: %v\n", err)
	}

	settings, err := config.LoadSettings()
	if err != nil {
		logDebug("settings load: %v (using defaults)", err)
	}

	p := tea.NewProgram(newAppModel(settings), tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
