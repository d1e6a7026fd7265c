package main

import (
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/joho/godotenv"

	"mgfeed/internal/api"
	"mgfeed/internal/config"
	"mgfeed/internal/observability"
	"mgfeed/internal/session"
	"mgfeed/internal/ui"
)

func main() {
	// Load .env if present; real environment still wins
	godotenv.Load()

	cfg, err := config.LoadConfig()
	if err != nil {
		fmt.Fprintln(os.Stderr, "config:", err)
		os.Exit(1)
	}

	// Logs go to a file; stdout belongs to the terminal UI
	logFile, err := observability.Init(cfg.LogFile)
	if err != nil {
		fmt.Fprintln(os.Stderr, "logging:", err)
		os.Exit(1)
	}
	defer logFile.Close()

	store, err := session.NewStore(cfg.SessionFile)
	if err != nil {
		fmt.Fprintln(os.Stderr, "session store:", err)
		os.Exit(1)
	}
	stored := store.Load()

	client := api.NewClient(cfg.APIBaseURL, cfg.HTTPTimeout)

	model := ui.NewMainModel(*cfg, client, store, stored)
	program := tea.NewProgram(model, tea.WithAltScreen())
	if _, err := program.Run(); err != nil {
		fmt.Fprintln(os.Stderr, "mgfeed:", err)
		os.Exit(1)
	}
}
